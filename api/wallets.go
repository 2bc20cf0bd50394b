package api

import (
	"net/http"

	"github.com/evscomercial/storefront-backend/api/apistrings"
	models "github.com/evscomercial/storefront-backend/api/models"
	basemodels "github.com/evscomercial/storefront-backend/models"
	"github.com/evscomercial/storefront-backend/services/transaction"
	"github.com/evscomercial/storefront-backend/services/wallet"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/gin-gonic/gin"
)

type Wallet struct {
	server             *Server
	walletService      *wallet.WalletService
	transactionService *transaction.TransactionService
}

func (w Wallet) router(server *Server) {
	w.server = server
	w.walletService = wallet.NewWalletService(w.server.store, w.server.logger)
	w.transactionService = transaction.NewTransactionService(w.server.store, w.server.logger)

	serverGroupV1 := server.router.Group("/api/v1/wallet", w.server.authMiddleware.AuthenticatedMiddleware())
	serverGroupV1.GET("", w.getUserWallet)
	serverGroupV1.GET("transactions", w.getTransactions)
}

// getUserWallet backs the dashboard, which creates the wallet on first visit.
func (w *Wallet) getUserWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	userWallet, err := w.walletService.GetOrCreateWallet(ctx, activeUser.UserID)
	if err != nil {
		w.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Wallet Fetched Successfully", models.ToWalletResponse(userWallet)))
}

func (w *Wallet) getTransactions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	var params models.TransactionListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTransactionQuery))
		return
	}

	transactions, err := w.transactionService.ListByUser(ctx, activeUser.UserID, params.Limit, params.Offset)
	if err != nil {
		w.server.logger.Error(err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Wallet Transactions Fetched Successfully", models.ToTransactionCollectionResponse(transactions)))
}
