package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/evscomercial/storefront-backend/providers/paypal"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/currency"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/monitoring/metrics"
	"github.com/evscomercial/storefront-backend/services/transaction"
	"github.com/evscomercial/storefront-backend/services/wallet"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	descriptionCheckout   = "Pagamento de compra no carrinho"
	descriptionDeposit    = "Depósito via PayPal"
	descriptionWithdrawal = "Levantamento para PayPal"

	withdrawalSubject = "Levantamento EVS Comercial"
	withdrawalMessage = "Seu levantamento foi processado."
	withdrawalNote    = "Levantamento da sua carteira EVS"
	transferSubject   = "Transferência EVS Comercial"
	transferNote      = "Transferência bancária via EVS"
)

type Gateway interface {
	CreateOrder(ctx context.Context, request paypal.OrderRequest) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Capture, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Capture, error)
	CreatePayout(ctx context.Context, request paypal.PayoutRequest) (*paypal.Payout, error)
	PayeeEmail() string
	BrandName() string
}

type Ledger interface {
	RecordPending(ctx context.Context, p transaction.PendingParams) (*transaction.Transaction, error)
	ReserveDebit(ctx context.Context, p transaction.DebitParams) (*transaction.Transaction, *wallet.WalletModel, error)
	CompleteDebit(ctx context.Context, transactionID uuid.UUID, payoutBatchID string) (*transaction.Transaction, error)
	ReleaseDebit(ctx context.Context, t *transaction.Transaction) (*wallet.WalletModel, error)
	WalletCheckout(ctx context.Context, p transaction.DebitParams) (*transaction.Transaction, *wallet.WalletModel, error)
	SettleCapture(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, *wallet.WalletModel, error)
	FindByExternalRef(ctx context.Context, userID uuid.UUID, ref string) (*transaction.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*transaction.Transaction, error)
}

type Wallets interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.WalletModel, error)
}

type Coupons interface {
	Validate(ctx context.Context, code string) (*coupon.CouponModel, error)
}

// PaymentService turns a payments request into gateway calls and ledger
// updates. Nothing reaches the gateway before the request is validated.
type PaymentService struct {
	gateway  Gateway
	ledger   Ledger
	wallets  Wallets
	coupons  Coupons
	baseURL  string
	logger   *logging.Logger
	validate *validator.Validate
}

func NewPaymentService(gateway Gateway, ledger Ledger, wallets Wallets, coupons Coupons, baseURL string, logger *logging.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		ledger:   ledger,
		wallets:  wallets,
		coupons:  coupons,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *PaymentService) Process(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	req.Action = Action(strings.ToLower(strings.TrimSpace(string(req.Action))))
	req.Currency = currency.Normalize(req.Currency)
	if req.Currency == "" {
		req.Currency = currency.USD
	}
	req.Origin = strings.TrimRight(req.Origin, "/")
	if req.Origin == "" {
		req.Origin = s.baseURL
	}

	var (
		result *Result
		err    error
	)
	switch req.Action {
	case ActionCheckout:
		result, err = s.checkout(ctx, user, req)
	case ActionDeposit:
		result, err = s.deposit(ctx, user, req)
	case ActionWithdrawal:
		result, err = s.withdraw(ctx, user, req)
	case ActionTransfer:
		result, err = s.transfer(ctx, user, req)
	case ActionCapture:
		result, err = s.capture(ctx, user, req)
	default:
		err = validationError(MsgInvalidAction)
	}

	metrics.RecordPaymentAction(string(req.Action), outcome(err))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": user.UserID,
			"action":  req.Action,
		}).Warn(fmt.Sprintf("payment request failed: %v", err))
	}
	return result, err
}

// validateMoney runs before any ledger or gateway call. Amounts are stored
// with two decimals and must be worth at least a US cent at the gateway.
func (s *PaymentService) validateMoney(req Request) error {
	if !req.Amount.IsPositive() {
		return validationError(MsgInvalidAmount)
	}
	if currency.IsCurrencyInvalid(req.Currency) {
		return validationError(MsgUnsupportedCurrency)
	}
	if !req.Amount.Equal(req.Amount.Truncate(2)) {
		return validationError(MsgAmountPrecision)
	}
	return checkGatewayMinimum(req.Amount, req.Currency)
}

func checkGatewayMinimum(amount decimal.Decimal, code string) error {
	usd, err := currency.ToUSD(amount, code)
	if err != nil {
		return wrapValidation(MsgUnsupportedCurrency, err)
	}
	if usd.Round(2).LessThan(MinGatewayAmountUSD) {
		return validationError(MsgAmountBelowMinimum)
	}
	return nil
}

func (s *PaymentService) checkout(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	if err := s.validateMoney(req); err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = MethodPayPal
	}
	if method != MethodPayPal && method != MethodWallet {
		return nil, validationError(MsgInvalidPaymentMethod)
	}

	amount := req.Amount
	var discount int32
	if strings.TrimSpace(req.CouponCode) != "" {
		applied, err := s.coupons.Validate(ctx, req.CouponCode)
		if err != nil {
			return nil, couponError(err)
		}
		discount = applied.DiscountPercentage
		amount = applyDiscount(amount, discount)
		if !amount.IsPositive() {
			return nil, validationError(MsgInvalidAmount)
		}
		if err := checkGatewayMinimum(amount, req.Currency); err != nil {
			return nil, err
		}
	}

	if method == MethodWallet {
		return s.walletCheckout(ctx, user, req, amount, discount)
	}

	amountUSD, err := currency.ToUSD(amount, req.Currency)
	if err != nil {
		return nil, wrapValidation(MsgUnsupportedCurrency, err)
	}

	order, err := s.gateway.CreateOrder(ctx, paypal.OrderRequest{
		AmountUSD:   amountUSD,
		Description: descriptionCheckout,
		PayeeEmail:  s.gateway.PayeeEmail(),
		BrandName:   s.gateway.BrandName(),
		ReturnURL:   req.Origin + "/payment-success",
		CancelURL:   req.Origin + "/cart",
	})
	if err != nil {
		return nil, gatewayError(err)
	}

	pending, err := s.ledger.RecordPending(ctx, transaction.PendingParams{
		UserID:      user.UserID,
		Type:        transaction.TypeCheckout,
		Amount:      amount,
		Currency:    req.Currency,
		OrderID:     order.ID,
		Description: descriptionCheckout,
		CouponCode:  req.CouponCode,
	})
	if err != nil {
		if perr := couponError(err); perr != err {
			return nil, perr
		}
		return nil, fmt.Errorf("record checkout %s: %w", order.ID, err)
	}

	return &Result{
		OrderID:            order.ID,
		ApprovalURL:        order.ApprovalURL,
		Status:             order.Status,
		TransactionID:      pending.ID.String(),
		Currency:           req.Currency,
		ChargedAmount:      &amount,
		DiscountPercentage: discount,
	}, nil
}

func (s *PaymentService) walletCheckout(ctx context.Context, user utils.TokenObject, req Request, amount decimal.Decimal, discount int32) (*Result, error) {
	paid, w, err := s.ledger.WalletCheckout(ctx, transaction.DebitParams{
		UserID:         user.UserID,
		Type:           transaction.TypeCheckout,
		Amount:         amount,
		Currency:       req.Currency,
		Description:    descriptionCheckout,
		IdempotencyKey: req.IdempotencyKey,
		CouponCode:     req.CouponCode,
	})
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound):
		return nil, wrapValidation(MsgWalletNotFound, err)
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return nil, wrapValidation(MsgInsufficientCheckout, err)
	case errors.Is(err, transaction.ErrDuplicateRequest):
		return s.replay(ctx, user, req.IdempotencyKey)
	case err != nil:
		if perr := couponError(err); perr != err {
			return nil, perr
		}
		return nil, err
	}

	balance := w.Balance(req.Currency)
	return &Result{
		Status:             StatusCompleted,
		TransactionID:      paid.ID.String(),
		NewBalance:         &balance,
		Currency:           req.Currency,
		ChargedAmount:      &amount,
		DiscountPercentage: discount,
	}, nil
}

func (s *PaymentService) deposit(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	if err := s.validateMoney(req); err != nil {
		return nil, err
	}

	amountUSD, err := currency.ToUSD(req.Amount, req.Currency)
	if err != nil {
		return nil, wrapValidation(MsgUnsupportedCurrency, err)
	}

	returnURL := fmt.Sprintf("%s/dashboard?deposit_success=true&amount=%s&currency=%s",
		req.Origin, url.QueryEscape(req.Amount.String()), url.QueryEscape(req.Currency))

	order, err := s.gateway.CreateOrder(ctx, paypal.OrderRequest{
		AmountUSD:   amountUSD,
		Description: descriptionDeposit,
		BrandName:   s.gateway.BrandName(),
		ReturnURL:   returnURL,
		CancelURL:   req.Origin + "/dashboard?deposit_cancelled=true",
	})
	if err != nil {
		return nil, gatewayError(err)
	}

	pending, err := s.ledger.RecordPending(ctx, transaction.PendingParams{
		UserID:      user.UserID,
		Type:        transaction.TypeDeposit,
		Amount:      req.Amount,
		Currency:    req.Currency,
		OrderID:     order.ID,
		Description: descriptionDeposit,
	})
	if err != nil {
		return nil, fmt.Errorf("record deposit %s: %w", order.ID, err)
	}

	return &Result{
		OrderID:       order.ID,
		ApprovalURL:   order.ApprovalURL,
		Status:        order.Status,
		TransactionID: pending.ID.String(),
		Currency:      req.Currency,
	}, nil
}

type payoutParams struct {
	txType       transaction.TransactionType
	recipient    string
	description  string
	subject      string
	message      string
	note         string
	insufficient string
}

func (s *PaymentService) withdraw(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	if err := s.validateMoney(req); err != nil {
		return nil, err
	}
	if req.Amount.LessThan(MinWithdrawal) || req.Amount.GreaterThan(MaxWithdrawal) {
		return nil, validationError(MsgWithdrawalRange)
	}

	recipient := strings.TrimSpace(req.RecipientEmail)
	if recipient == "" {
		recipient = user.Email
	}
	if err := s.validate.Var(recipient, "required,email"); err != nil {
		return nil, wrapValidation(MsgRecipientInvalid, err)
	}

	return s.payout(ctx, user, req, payoutParams{
		txType:       transaction.TypeWithdrawal,
		recipient:    recipient,
		description:  descriptionWithdrawal,
		subject:      withdrawalSubject,
		message:      withdrawalMessage,
		note:         withdrawalNote,
		insufficient: MsgInsufficientWithdrawal,
	})
}

func (s *PaymentService) transfer(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	if err := s.validateMoney(req); err != nil {
		return nil, err
	}

	recipient := strings.TrimSpace(req.RecipientEmail)
	if recipient == "" {
		return nil, validationError(MsgRecipientRequired)
	}
	if err := s.validate.Var(recipient, "email"); err != nil {
		return nil, wrapValidation(MsgRecipientInvalid, err)
	}

	return s.payout(ctx, user, req, payoutParams{
		txType:       transaction.TypeTransfer,
		recipient:    recipient,
		description:  fmt.Sprintf("Transferência para %s", recipient),
		subject:      transferSubject,
		note:         transferNote,
		insufficient: MsgInsufficientTransfer,
	})
}

// payout debits the wallet first and only then asks the gateway to pay. A
// refused payout puts the money back; a payout whose bookkeeping fails stays
// pending with the balance already debited.
func (s *PaymentService) payout(ctx context.Context, user utils.TokenObject, req Request, p payoutParams) (*Result, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.ledger.FindByIdempotencyKey(ctx, user.UserID, req.IdempotencyKey)
		if err == nil {
			return replayResult(existing), nil
		} else if !errors.Is(err, transaction.ErrTransactionNotFound) {
			return nil, err
		}
	}

	current, err := s.wallets.GetWallet(ctx, user.UserID)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return nil, wrapValidation(MsgWalletNotFound, err)
	} else if err != nil {
		return nil, err
	}
	if !current.CanCover(req.Amount, req.Currency) {
		return nil, validationError(p.insufficient)
	}

	amountUSD, err := currency.ToUSD(req.Amount, req.Currency)
	if err != nil {
		return nil, wrapValidation(MsgUnsupportedCurrency, err)
	}

	reserved, debited, err := s.ledger.ReserveDebit(ctx, transaction.DebitParams{
		UserID:         user.UserID,
		Type:           p.txType,
		Amount:         req.Amount,
		Currency:       req.Currency,
		RecipientEmail: p.recipient,
		Description:    p.description,
		IdempotencyKey: req.IdempotencyKey,
	})
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound):
		return nil, wrapValidation(MsgWalletNotFound, err)
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return nil, wrapValidation(p.insufficient, err)
	case errors.Is(err, transaction.ErrDuplicateRequest):
		return s.replay(ctx, user, req.IdempotencyKey)
	case err != nil:
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"user_id":        user.UserID,
		"transaction_id": reserved.ID,
		"type":           p.txType,
	})

	payout, err := s.gateway.CreatePayout(ctx, paypal.PayoutRequest{
		SenderBatchID: reserved.ID.String(),
		AmountUSD:     amountUSD,
		Receiver:      p.recipient,
		EmailSubject:  p.subject,
		EmailMessage:  p.message,
		Note:          p.note,
	})
	if err != nil {
		if _, releaseErr := s.ledger.ReleaseDebit(ctx, reserved); releaseErr != nil {
			log.Error(fmt.Sprintf("payout failed and reservation could not be released: %v", releaseErr))
		}
		return nil, gatewayError(err)
	}

	balance := debited.Balance(req.Currency)
	result := &Result{
		PayoutBatchID: payout.BatchID,
		TransactionID: reserved.ID.String(),
		NewBalance:    &balance,
		Currency:      req.Currency,
	}

	if _, err := s.ledger.CompleteDebit(ctx, reserved.ID, payout.BatchID); err != nil {
		log.WithField("payout_batch_id", payout.BatchID).Error(fmt.Sprintf("payout sent but transaction not completed: %v", err))
		result.Status = StatusPending
		return result, nil
	}

	log.WithField("payout_batch_id", payout.BatchID).Info("payout completed")
	result.Status = StatusCompleted
	return result, nil
}

func (s *PaymentService) capture(ctx context.Context, user utils.TokenObject, req Request) (*Result, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, validationError(MsgOrderIDRequired)
	}

	pending, err := s.ledger.FindByExternalRef(ctx, user.UserID, orderID)
	if errors.Is(err, transaction.ErrTransactionNotFound) {
		return nil, wrapValidation(MsgOrderNotFound, err)
	} else if err != nil {
		return nil, err
	}

	if pending.IsCompleted() {
		return &Result{
			OrderID:       orderID,
			Status:        StatusCompleted,
			TransactionID: pending.ID.String(),
		}, nil
	}

	captured, err := s.gateway.CaptureOrder(ctx, orderID)
	if paypal.IsAlreadyCaptured(err) {
		// an earlier capture collected the funds but was never settled here
		captured, err = s.gateway.GetOrder(ctx, orderID)
	}
	if err != nil {
		return nil, gatewayError(err)
	}

	result := &Result{
		OrderID:       orderID,
		CaptureID:     captured.CaptureID,
		Status:        captured.Status,
		TransactionID: pending.ID.String(),
		Currency:      pending.Currency,
	}
	if captured.Status != StatusCompleted {
		return result, nil
	}

	_, credited, err := s.ledger.SettleCapture(ctx, pending.ID)
	if errors.Is(err, transaction.ErrTransactionNotPending) {
		return result, nil
	} else if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":        user.UserID,
			"transaction_id": pending.ID,
			"order_id":       orderID,
		}).Error(fmt.Sprintf("order captured but transaction not settled: %v", err))
		return nil, fmt.Errorf("settle capture %s: %w", orderID, err)
	}

	if credited != nil {
		balance := credited.Balance(pending.Currency)
		result.NewBalance = &balance
	}
	return result, nil
}

func (s *PaymentService) replay(ctx context.Context, user utils.TokenObject, key string) (*Result, error) {
	if key == "" {
		return nil, validationError(MsgDuplicateRequest)
	}
	existing, err := s.ledger.FindByIdempotencyKey(ctx, user.UserID, key)
	if err != nil {
		return nil, wrapValidation(MsgDuplicateRequest, err)
	}
	return replayResult(existing), nil
}

func replayResult(t *transaction.Transaction) *Result {
	result := &Result{
		TransactionID: t.ID.String(),
		Currency:      t.Currency,
		Status:        StatusPending,
	}
	if t.IsCompleted() {
		result.Status = StatusCompleted
	}
	if t.Type == transaction.TypeWithdrawal || t.Type == transaction.TypeTransfer {
		result.PayoutBatchID = t.PaypalTransactionID
	}
	return result
}

// applyDiscount takes percentage off the whole order amount.
func applyDiscount(amount decimal.Decimal, percentage int32) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 - percentage)).Div(decimal.NewFromInt(100))
	return amount.Mul(factor).Round(2)
}

// couponError maps coupon refusals to validation errors and returns any other
// error unchanged.
func couponError(err error) error {
	for _, reason := range []error{
		coupon.ErrCouponNotFound,
		coupon.ErrCouponInactive,
		coupon.ErrCouponExhausted,
		coupon.ErrCouponExpired,
	} {
		if errors.Is(err, reason) {
			return wrapValidation(reason.Error(), err)
		}
	}
	return err
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if perr, ok := AsPaymentError(err); ok {
		return string(perr.Kind)
	}
	return "error"
}
