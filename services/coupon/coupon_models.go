package coupon

import (
	"time"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/google/uuid"
)

const (
	SourceChat  = "chat"
	SourceAdmin = "admin"
)

type CouponModel struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	DiscountPercentage int32      `json:"discount_percentage"`
	UsageLimit         int32      `json:"usage_limit"`
	UsageCount         int32      `json:"usage_count"`
	IsActive           bool       `json:"is_active"`
	Source             string     `json:"source"`
	CreatedBy          uuid.UUID  `json:"created_by"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Check reports why the coupon cannot be redeemed at now, or nil when it can.
func (c *CouponModel) Check(now time.Time) error {
	if c.UsageCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if !c.IsActive {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return ErrCouponExpired
	}
	return nil
}

func ToCouponModel(c db.Coupon) *CouponModel {
	m := &CouponModel{
		ID:                 c.ID,
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage,
		UsageLimit:         c.UsageLimit,
		UsageCount:         c.UsageCount,
		IsActive:           c.IsActive,
		Source:             c.Source,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
	}
	if c.ExpiresAt.Valid {
		expires := c.ExpiresAt.Time
		m.ExpiresAt = &expires
	}
	return m
}

func ToCouponModels(coupons []db.Coupon) []*CouponModel {
	out := make([]*CouponModel, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, ToCouponModel(c))
	}
	return out
}

// IssueResult is what the chat assistant shows the customer.
type IssueResult struct {
	Coupon *CouponModel
	Reused bool
}
