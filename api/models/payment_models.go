package models

import "github.com/shopspring/decimal"

// PaymentRequest is the body of POST /api/v1/payments. Which fields are
// required depends on the action.
type PaymentRequest struct {
	Action         string          `json:"action" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	RecipientEmail string          `json:"recipient_email"`
	OrderID        string          `json:"order_id"`
	PaymentMethod  string          `json:"payment_method"`
	CouponCode     string          `json:"coupon_code"`
}
