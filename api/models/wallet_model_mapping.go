package models

import (
	"github.com/evscomercial/storefront-backend/services/transaction"
	"github.com/evscomercial/storefront-backend/services/wallet"
)

func ToWalletResponse(w *wallet.WalletModel) *WalletResponse {
	return &WalletResponse{
		ID:         w.ID,
		UserID:     w.UserID,
		BalanceUSD: w.BalanceUSD,
		BalanceBRL: w.BalanceBRL,
		BalanceAOA: w.BalanceAOA,
		UpdatedAt:  w.UpdatedAt,
	}
}

func ToTransactionCollectionResponse(transactions []*transaction.Transaction) TransactionCollectionResponse {
	response := make(TransactionCollectionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = TransactionResponse{
			ID:                  t.ID,
			Type:                string(t.Type),
			Amount:              t.Amount,
			Currency:            t.Currency,
			Status:              string(t.Status),
			PaypalTransactionID: t.PaypalTransactionID,
			RecipientEmail:      t.RecipientEmail,
			Description:         t.Description,
			CouponCode:          t.CouponCode,
			CreatedAt:           t.CreatedAt,
		}
	}
	return response
}
