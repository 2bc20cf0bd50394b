package api

import (
	"net/http"
	"strings"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	models "github.com/evscomercial/storefront-backend/api/models"
	"github.com/evscomercial/storefront-backend/middleware"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/payment"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const idempotencyHeader = "Idempotency-Key"

type Payments struct {
	server *Server
}

func (p Payments) router(server *Server) {
	p.server = server

	serverGroupV1 := server.router.Group("/api/v1/payments")
	serverGroupV1.POST("",
		p.server.authMiddleware.AuthenticatedMiddleware(),
		RateLimitMiddleware(p.server.limiter),
		p.server.activityLogger(),
		p.process,
	)
}

func (p *Payments) process(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.Unauthorized))
		return
	}

	var request models.PaymentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPaymentInput))
		return
	}
	ctx.Set(middleware.ActionKey, "payment:"+strings.ToLower(request.Action))

	result, err := p.server.payments.Process(ctx, activeUser, payment.Request{
		Action:         payment.Action(request.Action),
		Amount:         request.Amount,
		Currency:       request.Currency,
		RecipientEmail: request.RecipientEmail,
		OrderID:        request.OrderID,
		PaymentMethod:  request.PaymentMethod,
		CouponCode:     request.CouponCode,
		IdempotencyKey: strings.TrimSpace(ctx.GetHeader(idempotencyHeader)),
		Origin:         ctx.GetHeader("Origin"),
	})
	if err != nil {
		if perr, ok := payment.AsPaymentError(err); ok {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(perr.Message))
			return
		}
		p.server.logger.WithFields(logrus.Fields{
			"user_id": activeUser.UserID,
			"action":  request.Action,
		}).Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("", result))
}
