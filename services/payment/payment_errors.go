package payment

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindGateway    ErrorKind = "gateway"
)

const (
	MsgInvalidAction          = "Ação inválida"
	MsgInvalidAmount          = "O valor deve ser maior que zero"
	MsgAmountPrecision        = "O valor deve ter no máximo 2 casas decimais"
	MsgAmountBelowMinimum     = "O valor é inferior ao mínimo de 0.01 USD"
	MsgUnsupportedCurrency    = "Moeda não suportada"
	MsgWithdrawalRange        = "O valor de levantamento deve ser entre 100 e 200"
	MsgWalletNotFound         = "Carteira não encontrada"
	MsgInsufficientWithdrawal = "Saldo insuficiente para levantamento"
	MsgInsufficientTransfer   = "Saldo insuficiente para transferência"
	MsgInsufficientCheckout   = "Saldo insuficiente para pagamento"
	MsgRecipientRequired      = "Email do destinatário é obrigatório"
	MsgRecipientInvalid       = "Email do destinatário inválido"
	MsgOrderIDRequired        = "ID do pedido é obrigatório"
	MsgOrderNotFound          = "Pedido não encontrado"
	MsgInvalidPaymentMethod   = "Método de pagamento inválido"
	MsgDuplicateRequest       = "Pedido duplicado"
)

// PaymentError is a failure the caller can act on. Anything else returned by
// the service is unexpected.
type PaymentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func validationError(message string) *PaymentError {
	return &PaymentError{Kind: KindValidation, Message: message}
}

func wrapValidation(message string, err error) *PaymentError {
	return &PaymentError{Kind: KindValidation, Message: message, Err: err}
}

func gatewayError(err error) *PaymentError {
	return &PaymentError{Kind: KindGateway, Message: err.Error(), Err: err}
}

// AsPaymentError unwraps err into a PaymentError when it is one.
func AsPaymentError(err error) (*PaymentError, bool) {
	var perr *PaymentError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
