package api

import (
	"errors"
	"net/http"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	models "github.com/evscomercial/storefront-backend/api/models"
	basemodels "github.com/evscomercial/storefront-backend/models"
	user_service "github.com/evscomercial/storefront-backend/services/user"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Auth struct {
	server      *Server
	userService *user_service.UserService
}

func (a Auth) router(server *Server) {
	a.server = server
	a.userService = user_service.NewUserService(a.server.store, a.server.logger)

	serverGroupV1 := server.router.Group("/api/v1/auth")
	serverGroupV1.POST("register", a.register)
	serverGroupV1.POST("login", a.login)
	serverGroupV1.GET("profile", a.server.authMiddleware.AuthenticatedMiddleware(), a.profile)
}

func (a *Auth) register(ctx *gin.Context) {
	request := new(models.RegisterUserParams)
	if err := ctx.ShouldBindJSON(request); err != nil {
		a.server.logger.Log(logrus.DebugLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRegisterInput))
		return
	}

	newUser, err := a.userService.Register(ctx, user_service.RegisterParams{
		Email:    request.Email,
		FullName: request.FullName,
		Password: request.Password,
	})
	if errors.Is(err, user_service.ErrUserAlreadyExists) {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.UserDetailsAlreadyCreated))
		return
	} else if err != nil {
		a.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := a.server.tokens.CreateToken(utils.TokenObject{
		UserID: newUser.ID,
		Email:  newUser.Email,
		Role:   newUser.Role,
	})
	if err != nil {
		a.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("user created successfully", models.UserWithToken{
		User:  models.ToUserResponse(newUser),
		Token: token,
	}))
}

func (a *Auth) login(ctx *gin.Context) {
	request := new(models.UserLoginParams)
	if err := ctx.ShouldBindJSON(request); err != nil {
		a.server.logger.Log(logrus.DebugLevel, err.Error())
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidEmailPassInput))
		return
	}

	dbUser, err := a.userService.Authenticate(ctx, request.Email, request.Password)
	if errors.Is(err, user_service.ErrInvalidCredentials) {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.IncorrectEmailPass))
		return
	} else if err != nil {
		a.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := a.server.tokens.CreateToken(utils.TokenObject{
		UserID: dbUser.ID,
		Email:  dbUser.Email,
		Role:   dbUser.Role,
	})
	if err != nil {
		a.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("user logged in successfully", models.UserWithToken{
		User:  models.ToUserResponse(dbUser),
		Token: token,
	}))
}

func (a *Auth) profile(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	dbUser, err := a.userService.FetchUserByID(ctx, activeUser.UserID)
	if errors.Is(err, user_service.ErrUserNotFound) {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.UserNotFound))
		return
	} else if err != nil {
		a.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("user retrieved successfully", models.ToUserResponse(dbUser)))
}
