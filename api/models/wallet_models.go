package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	BalanceBRL decimal.Decimal `json:"balance_brl"`
	BalanceAOA decimal.Decimal `json:"balance_aoa"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type TransactionResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Status              string          `json:"status"`
	PaypalTransactionID string          `json:"paypal_transaction_id,omitempty"`
	RecipientEmail      string          `json:"recipient_email,omitempty"`
	Description         string          `json:"description"`
	CouponCode          string          `json:"coupon_code,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

type TransactionCollectionResponse []TransactionResponse

type TransactionListParams struct {
	Limit  int32 `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int32 `form:"offset" binding:"omitempty,min=0"`
}
