package coupon

import (
	"fmt"
	"time"
)

var (
	ErrCouponNotFound      = fmt.Errorf("Cupom não encontrado")
	ErrCouponInactive      = fmt.Errorf("Cupom inativo")
	ErrCouponExhausted     = fmt.Errorf("Cupom já foi utilizado")
	ErrCouponExpired       = fmt.Errorf("Cupom expirado")
	ErrInvalidCouponParams = fmt.Errorf("parâmetros de cupom inválidos")
	ErrCouponCodeTaken     = fmt.Errorf("Já existe um cupom com este código")
)

const RateLimitMessage = "Você já solicitou um cupom recentemente. Aguarde 24 horas para solicitar outro."

// RateLimitError is returned when a user asks for a second chat coupon
// inside the cooldown window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return RateLimitMessage
}

// WaitTime renders the remaining cooldown in whole hours, rounded up.
func (e *RateLimitError) WaitTime() string {
	hours := int(e.RetryAfter / time.Hour)
	if e.RetryAfter%time.Hour > 0 {
		hours++
	}
	if hours <= 1 {
		return "1 hora"
	}
	return fmt.Sprintf("%d horas", hours)
}

func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &RateLimitError{RetryAfter: retryAfter}
}
