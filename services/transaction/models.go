package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
	TypeCheckout   TransactionType = "checkout"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Transaction struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	Type                TransactionType `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Status              Status          `json:"status"`
	PaypalTransactionID string          `json:"paypal_transaction_id,omitempty"`
	RecipientEmail      string          `json:"recipient_email,omitempty"`
	Description         string          `json:"description"`
	IdempotencyKey      string          `json:"-"`
	CouponCode          string          `json:"coupon_code,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// PendingParams describes a gateway-backed movement awaiting customer approval.
type PendingParams struct {
	UserID      uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	OrderID     string
	Description string
	CouponCode  string
}

// DebitParams describes a movement paid out of the wallet.
type DebitParams struct {
	UserID         uuid.UUID
	Type           TransactionType
	Amount         decimal.Decimal
	Currency       string
	RecipientEmail string
	Description    string
	IdempotencyKey string
	CouponCode     string
}
