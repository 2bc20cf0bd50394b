package api

import (
	"errors"
	"net/http"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	models "github.com/evscomercial/storefront-backend/api/models"
	"github.com/evscomercial/storefront-backend/middleware"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/monitoring/metrics"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Coupons struct {
	server *Server
}

func (c Coupons) router(server *Server) {
	c.server = server

	serverGroupV1 := server.router.Group("/api/v1/coupons")
	serverGroupV1.POST("generate",
		c.server.authMiddleware.AuthenticatedMiddleware(),
		RateLimitMiddleware(c.server.limiter),
		c.server.activityLogger(),
		c.generate,
	)
	serverGroupV1.POST("validate", c.validate)

	admin := server.router.Group("/api/v1/admin/coupons",
		c.server.authMiddleware.AuthenticatedMiddleware(),
		c.server.authMiddleware.AdminMiddleware(),
	)
	admin.POST("", c.server.activityLogger(), c.create)
	admin.GET("", c.list)
}

func (c *Coupons) generate(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.Unauthorized))
		return
	}
	ctx.Set(middleware.ActionKey, "coupon:generate")

	result, err := c.server.coupons.IssueChatCoupon(ctx, activeUser.UserID)
	if err != nil {
		var rateErr *coupon.RateLimitError
		if errors.As(err, &rateErr) {
			metrics.RecordCouponIssued("rate_limited")
			ctx.JSON(http.StatusTooManyRequests, models.CouponRateLimitResponse{
				Success:  false,
				Error:    coupon.RateLimitMessage,
				WaitTime: rateErr.WaitTime(),
			})
			return
		}
		metrics.RecordCouponIssued("failed")
		c.server.logger.WithField("user_id", activeUser.UserID).Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	message := apistrings.CouponIssued
	outcome := "created"
	if result.Reused {
		message = apistrings.CouponReused
		outcome = "reused"
	}
	metrics.RecordCouponIssued(outcome)

	ctx.JSON(http.StatusOK, models.GenerateCouponResponse{
		Success:   true,
		Coupon:    result.Coupon.Code,
		Discount:  result.Coupon.DiscountPercentage,
		ExpiresAt: result.Coupon.ExpiresAt,
		Message:   message,
	})
}

func (c *Coupons) validate(ctx *gin.Context) {
	var request models.ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidCouponInput))
		return
	}

	found, err := c.server.coupons.Validate(ctx, request.Code)
	if err != nil {
		if isCouponRejection(err) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(err.Error()))
			return
		}
		c.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("", models.ValidateCouponResponse{
		Code:               found.Code,
		DiscountPercentage: found.DiscountPercentage,
	}))
}

func (c *Coupons) create(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.Unauthorized))
		return
	}

	var request models.CreateCouponRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidCouponInput))
		return
	}
	ctx.Set(middleware.ActionKey, "coupon:create")

	created, err := c.server.coupons.CreateCoupon(ctx, activeUser.UserID, coupon.CreateParams{
		Code:               request.Code,
		DiscountPercentage: request.DiscountPercentage,
		UsageLimit:         request.UsageLimit,
		ExpiresAt:          request.ExpiresAt,
	})
	switch {
	case err == nil:
	case errors.Is(err, coupon.ErrInvalidCouponParams):
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidCouponInput))
		return
	case errors.Is(err, coupon.ErrCouponCodeTaken):
		ctx.JSON(http.StatusConflict, basemodels.NewError(coupon.ErrCouponCodeTaken.Error()))
		return
	default:
		c.server.logger.WithFields(logrus.Fields{
			"user_id": activeUser.UserID,
			"code":    request.Code,
		}).Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("coupon created", created))
}

func (c *Coupons) list(ctx *gin.Context) {
	var params models.CouponListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTransactionQuery))
		return
	}
	if params.Limit == 0 {
		params.Limit = 50
	}

	coupons, err := c.server.coupons.ListCoupons(ctx, params.Limit, params.Offset)
	if err != nil {
		c.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("coupons fetched successfully", coupons))
}

func isCouponRejection(err error) bool {
	return errors.Is(err, coupon.ErrCouponNotFound) ||
		errors.Is(err, coupon.ErrCouponInactive) ||
		errors.Is(err, coupon.ErrCouponExhausted) ||
		errors.Is(err, coupon.ErrCouponExpired)
}
