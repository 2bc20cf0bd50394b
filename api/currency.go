package api

import (
	"net/http"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	models "github.com/evscomercial/storefront-backend/api/models"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/currency"
	"github.com/gin-gonic/gin"
)

type Currency struct {
	server *Server
}

func (c Currency) router(server *Server) {
	c.server = server

	serverGroupV1 := server.router.Group("/api/v1/currency")
	serverGroupV1.POST("convert", c.convert)
	serverGroupV1.GET("rates", c.getAllRates)
}

func (c *Currency) convert(ctx *gin.Context) {
	var request models.ConvertRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Amount == nil || request.Amount.IsZero() {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidConversionInput))
		return
	}

	from := currency.Normalize(request.From)
	to := currency.Normalize(request.To)

	rate, err := currency.Rate(from, to)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.CurrencyNotSupported))
		return
	}

	converted, err := currency.Convert(*request.Amount, from, to)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.CurrencyNotSupported))
		return
	}

	ctx.JSON(http.StatusOK, models.ConvertResponse{
		Success:   true,
		Original:  models.MoneyAmount{Amount: *request.Amount, Currency: from},
		Converted: models.MoneyAmount{Amount: converted, Currency: to},
		Rate:      rate,
	})
}

func (c *Currency) getAllRates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, basemodels.NewSuccess("all rates fetched successfully", currency.Rates()))
}
