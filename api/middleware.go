package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/monitoring/metrics"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *utils.JWTToken
}

func NewAuthMiddleware(tokens *utils.JWTToken) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// AuthenticatedMiddleware verifies the bearer token once and stores the
// session under utils.ContextUserKey for the handlers.
func (a *AuthMiddleware) AuthenticatedMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, basemodels.NewError(apistrings.Unauthorized))
			return
		}

		tokenSplit := strings.Split(token, " ")
		if len(tokenSplit) != 2 || strings.ToLower(tokenSplit[0]) != "bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, basemodels.NewError(apistrings.MissingBearerToken))
			return
		}

		user, err := a.tokens.VerifyToken(tokenSplit[1])
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, basemodels.NewError(err.Error()))
			return
		}

		ctx.Set(utils.ContextUserKey, user)
		ctx.Next()
	}
}

// AdminMiddleware must run after AuthenticatedMiddleware.
func (a *AuthMiddleware) AdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utils.GetActiveUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, basemodels.NewError(apistrings.Unauthorized))
			return
		}
		if !user.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, basemodels.NewError(apistrings.AdminOnly))
			return
		}
		ctx.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, idempotency-key")
		c.Header("Access-Control-Allow-Methods", "POST,HEAD,PATCH,OPTIONS,GET,PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
