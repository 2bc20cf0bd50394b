package payment

import (
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionCheckout   Action = "checkout"
	ActionDeposit    Action = "deposit"
	ActionWithdrawal Action = "withdrawal"
	ActionTransfer   Action = "transfer"
	ActionCapture    Action = "capture"
)

const (
	MethodPayPal = "paypal"
	MethodWallet = "wallet"
)

// Statuses reported to the storefront. Gateway statuses such as CREATED are
// passed through unchanged.
const (
	StatusCompleted = "COMPLETED"
	StatusPending   = "PENDING"
)

var (
	MinWithdrawal = decimal.NewFromInt(100)
	MaxWithdrawal = decimal.NewFromInt(200)

	// smallest amount PayPal accepts, one US cent
	MinGatewayAmountUSD = decimal.New(1, -2)
)

// Request is one call to the payments endpoint. Origin is the storefront base
// URL the gateway redirects back to.
type Request struct {
	Action         Action
	Amount         decimal.Decimal
	Currency       string
	RecipientEmail string
	OrderID        string
	PaymentMethod  string
	CouponCode     string
	IdempotencyKey string
	Origin         string
}

type Result struct {
	OrderID            string           `json:"order_id,omitempty"`
	ApprovalURL        string           `json:"approval_url,omitempty"`
	Status             string           `json:"status,omitempty"`
	PayoutBatchID      string           `json:"payout_batch_id,omitempty"`
	CaptureID          string           `json:"capture_id,omitempty"`
	TransactionID      string           `json:"transaction_id,omitempty"`
	NewBalance         *decimal.Decimal `json:"new_balance,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	ChargedAmount      *decimal.Decimal `json:"charged_amount,omitempty"`
	DiscountPercentage int32            `json:"discount_percentage,omitempty"`
}
