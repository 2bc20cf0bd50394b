package models

import (
	"time"
)

// GenerateCouponResponse keeps the flat shape the chat widget reads.
type GenerateCouponResponse struct {
	Success   bool       `json:"success"`
	Coupon    string     `json:"coupon"`
	Discount  int32      `json:"discount"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Message   string     `json:"message"`
}

type CouponRateLimitResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	WaitTime string `json:"waitTime"`
}

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type ValidateCouponResponse struct {
	Code               string `json:"code"`
	DiscountPercentage int32  `json:"discount_percentage"`
}

type CreateCouponRequest struct {
	Code               string     `json:"code"`
	DiscountPercentage int32      `json:"discount_percentage" binding:"omitempty,min=1,max=100"`
	UsageLimit         int32      `json:"usage_limit" binding:"omitempty,min=1"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

type CouponListParams struct {
	Limit  int32 `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int32 `form:"offset" binding:"omitempty,min=0"`
}
