package paypal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrApprovalLinkMissing = errors.New("URL de aprovação não encontrada na resposta do PayPal")
	ErrNotConfigured       = errors.New("paypal credentials are not configured")
)

// IssueOrderAlreadyCaptured is reported when capture is called on an order
// whose funds were already collected.
const IssueOrderAlreadyCaptured = "ORDER_ALREADY_CAPTURED"

// GatewayError is a non-2xx answer from PayPal.
type GatewayError struct {
	StatusCode int
	Name       string
	Message    string
	DebugID    string
	Issue      string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Name != "" && e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func newGatewayError(status int, body errorResponse) *GatewayError {
	gerr := &GatewayError{
		StatusCode: status,
		Name:       body.Name,
		Message:    body.Message,
		DebugID:    body.DebugID,
	}
	if gerr.Name == "" {
		gerr.Name = body.Error
	}
	if gerr.Message == "" {
		gerr.Message = body.ErrorDescription
	}
	if len(body.Details) > 0 {
		gerr.Issue = body.Details[0].Issue
		if body.Details[0].Description != "" {
			gerr.Message = fmt.Sprintf("%s (%s)", gerr.Message, body.Details[0].Description)
		}
	}
	return gerr
}

// IsAlreadyCaptured reports whether err is PayPal refusing a second capture
// of the same order.
func IsAlreadyCaptured(err error) bool {
	var gerr *GatewayError
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.StatusCode == http.StatusUnprocessableEntity && gerr.Issue == IssueOrderAlreadyCaptured
}
