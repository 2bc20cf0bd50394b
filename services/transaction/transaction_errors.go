package transaction

import "fmt"

var (
	ErrTransactionNotFound   = fmt.Errorf("transaction not found")
	ErrTransactionNotPending = fmt.Errorf("transaction is no longer pending")
	ErrDuplicateRequest      = fmt.Errorf("a request with this idempotency key was already processed")
	ErrInvalidAmount         = fmt.Errorf("amount must be greater than zero")
)
