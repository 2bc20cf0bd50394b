package payment

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/evscomercial/storefront-backend/providers/paypal"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/transaction"
	"github.com/evscomercial/storefront-backend/services/wallet"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct{ mock.Mock }
type MockLedger struct{ mock.Mock }
type MockWallets struct{ mock.Mock }
type MockCoupons struct{ mock.Mock }

func (m *MockGateway) CreateOrder(ctx context.Context, request paypal.OrderRequest) (*paypal.Order, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Order), args.Error(1)
}

func (m *MockGateway) CaptureOrder(ctx context.Context, orderID string) (*paypal.Capture, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Capture), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (*paypal.Capture, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Capture), args.Error(1)
}

func (m *MockGateway) CreatePayout(ctx context.Context, request paypal.PayoutRequest) (*paypal.Payout, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paypal.Payout), args.Error(1)
}

func (m *MockGateway) PayeeEmail() string { return "shop@evs.test" }
func (m *MockGateway) BrandName() string  { return "EVS Comercial" }

func (m *MockLedger) RecordPending(ctx context.Context, p transaction.PendingParams) (*transaction.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedger) ReserveDebit(ctx context.Context, p transaction.DebitParams) (*transaction.Transaction, *wallet.WalletModel, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*transaction.Transaction), args.Get(1).(*wallet.WalletModel), args.Error(2)
}

func (m *MockLedger) CompleteDebit(ctx context.Context, transactionID uuid.UUID, payoutBatchID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID, payoutBatchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedger) ReleaseDebit(ctx context.Context, t *transaction.Transaction) (*wallet.WalletModel, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.WalletModel), args.Error(1)
}

func (m *MockLedger) WalletCheckout(ctx context.Context, p transaction.DebitParams) (*transaction.Transaction, *wallet.WalletModel, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*transaction.Transaction), args.Get(1).(*wallet.WalletModel), args.Error(2)
}

func (m *MockLedger) SettleCapture(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, *wallet.WalletModel, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var w *wallet.WalletModel
	if args.Get(1) != nil {
		w = args.Get(1).(*wallet.WalletModel)
	}
	return args.Get(0).(*transaction.Transaction), w, args.Error(2)
}

func (m *MockLedger) FindByExternalRef(ctx context.Context, userID uuid.UUID, ref string) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedger) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockWallets) GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.WalletModel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.WalletModel), args.Error(1)
}

func (m *MockCoupons) Validate(ctx context.Context, code string) (*coupon.CouponModel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.CouponModel), args.Error(1)
}

type fixture struct {
	gateway *MockGateway
	ledger  *MockLedger
	wallets *MockWallets
	coupons *MockCoupons
	service *PaymentService
	user    utils.TokenObject
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		gateway: new(MockGateway),
		ledger:  new(MockLedger),
		wallets: new(MockWallets),
		coupons: new(MockCoupons),
		user: utils.TokenObject{
			UserID: uuid.New(),
			Email:  "cliente@evs.test",
			Role:   utils.RoleCustomer,
		},
	}
	f.service = NewPaymentService(f.gateway, f.ledger, f.wallets, f.coupons, "https://shop.evs.test", logging.NewDiscardLogger())
	t.Cleanup(func() {
		f.gateway.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.wallets.AssertExpectations(t)
		f.coupons.AssertExpectations(t)
	})
	return f
}

func walletWith(userID uuid.UUID, usd, brl, aoa string) *wallet.WalletModel {
	return &wallet.WalletModel{
		ID:         uuid.New(),
		UserID:     userID,
		BalanceUSD: decimal.RequireFromString(usd),
		BalanceBRL: decimal.RequireFromString(brl),
		BalanceAOA: decimal.RequireFromString(aoa),
	}
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	perr, ok := AsPaymentError(err)
	require.True(t, ok, "expected PaymentError, got %v", err)
	assert.Equal(t, KindValidation, perr.Kind)
	assert.Equal(t, message, perr.Message)
}

func TestProcessRejectsUnknownAction(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Process(context.Background(), f.user, Request{Action: "refund", Amount: decimal.NewFromInt(10)})
	assertValidation(t, err, MsgInvalidAction)
}

func TestProcessRejectsBadAmountAndCurrency(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Process(context.Background(), f.user, Request{Action: ActionDeposit, Amount: decimal.Zero, Currency: "USD"})
	assertValidation(t, err, MsgInvalidAmount)

	_, err = f.service.Process(context.Background(), f.user, Request{Action: ActionDeposit, Amount: decimal.NewFromInt(-5), Currency: "USD"})
	assertValidation(t, err, MsgInvalidAmount)

	_, err = f.service.Process(context.Background(), f.user, Request{Action: ActionDeposit, Amount: decimal.NewFromInt(5), Currency: "EUR"})
	assertValidation(t, err, MsgUnsupportedCurrency)
}

func TestProcessRejectsAmountsTheLedgerCannotStore(t *testing.T) {
	testCases := []struct {
		name     string
		action   Action
		amount   string
		currency string
		message  string
	}{
		{name: "three decimals deposit", action: ActionDeposit, amount: "100.005", currency: "USD", message: MsgAmountPrecision},
		{name: "sub-cent transfer", action: ActionTransfer, amount: "0.004", currency: "USD", message: MsgAmountPrecision},
		{name: "AOA deposit under a cent", action: ActionDeposit, amount: "1", currency: "AOA", message: MsgAmountBelowMinimum},
		{name: "AOA checkout under a cent", action: ActionCheckout, amount: "4.12", currency: "AOA", message: MsgAmountBelowMinimum},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Process(context.Background(), f.user, Request{
				Action:         tc.action,
				Amount:         decimal.RequireFromString(tc.amount),
				Currency:       tc.currency,
				RecipientEmail: "amigo@evs.test",
			})

			assertValidation(t, err, tc.message)
			f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			f.ledger.AssertNotCalled(t, "ReserveDebit", mock.Anything, mock.Anything)
		})
	}
}

func TestDepositSmallestAcceptedAOAAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r paypal.OrderRequest) bool {
		return r.AmountUSD.StringFixed(2) == "0.01"
	})).Return(&paypal.Order{ID: "DEP-AOA", Status: "CREATED", ApprovalURL: "https://paypal.test/approve"}, nil)
	f.ledger.On("RecordPending", ctx, mock.Anything).Return(&transaction.Transaction{ID: uuid.New()}, nil)

	_, err := f.service.Process(ctx, f.user, Request{Action: ActionDeposit, Amount: decimal.RequireFromString("4.13"), Currency: "AOA"})
	require.NoError(t, err)
}

func TestCheckoutCreatesOrderAndPendingRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	txID := uuid.New()

	f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r paypal.OrderRequest) bool {
		return r.AmountUSD.Equal(decimal.NewFromInt(20)) &&
			r.ReturnURL == "https://shop.evs.test/payment-success" &&
			r.CancelURL == "https://shop.evs.test/cart" &&
			r.PayeeEmail == "shop@evs.test"
	})).Return(&paypal.Order{ID: "ORD-1", Status: "CREATED", ApprovalURL: "https://paypal.test/approve"}, nil)

	f.ledger.On("RecordPending", ctx, mock.MatchedBy(func(p transaction.PendingParams) bool {
		return p.Type == transaction.TypeCheckout && p.OrderID == "ORD-1" &&
			p.Amount.Equal(decimal.NewFromInt(104)) && p.Currency == "BRL" &&
			p.Description == "Pagamento de compra no carrinho"
	})).Return(&transaction.Transaction{ID: txID}, nil)

	result, err := f.service.Process(ctx, f.user, Request{
		Action:   ActionCheckout,
		Amount:   decimal.NewFromInt(104),
		Currency: "brl",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", result.OrderID)
	assert.Equal(t, "https://paypal.test/approve", result.ApprovalURL)
	assert.Equal(t, "CREATED", result.Status)
	assert.Equal(t, txID.String(), result.TransactionID)
}

func TestCheckoutUsesRequestOrigin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r paypal.OrderRequest) bool {
		return r.ReturnURL == "http://localhost:5173/payment-success"
	})).Return(&paypal.Order{ID: "ORD-2", Status: "CREATED", ApprovalURL: "https://paypal.test/a"}, nil)
	f.ledger.On("RecordPending", ctx, mock.Anything).Return(&transaction.Transaction{ID: uuid.New()}, nil)

	_, err := f.service.Process(ctx, f.user, Request{
		Action:   ActionCheckout,
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
		Origin:   "http://localhost:5173/",
	})
	require.NoError(t, err)
}

func TestCheckoutAppliesCouponToWholeOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coupons.On("Validate", ctx, "EVS-ABCD2345").Return(&coupon.CouponModel{Code: "EVS-ABCD2345", DiscountPercentage: 6}, nil)
	f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r paypal.OrderRequest) bool {
		return r.AmountUSD.Equal(decimal.NewFromInt(94))
	})).Return(&paypal.Order{ID: "ORD-3", Status: "CREATED", ApprovalURL: "https://paypal.test/a"}, nil)
	f.ledger.On("RecordPending", ctx, mock.MatchedBy(func(p transaction.PendingParams) bool {
		return p.CouponCode == "EVS-ABCD2345" && p.Amount.Equal(decimal.NewFromInt(94))
	})).Return(&transaction.Transaction{ID: uuid.New()}, nil)

	result, err := f.service.Process(ctx, f.user, Request{
		Action:     ActionCheckout,
		Amount:     decimal.NewFromInt(100),
		Currency:   "USD",
		CouponCode: "EVS-ABCD2345",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(6), result.DiscountPercentage)
	assert.True(t, result.ChargedAmount.Equal(decimal.NewFromInt(94)))
}

func TestCheckoutRejectsUsedCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.coupons.On("Validate", ctx, "EVS-USED").Return(nil, coupon.ErrCouponExhausted)

	_, err := f.service.Process(ctx, f.user, Request{
		Action:     ActionCheckout,
		Amount:     decimal.NewFromInt(100),
		Currency:   "USD",
		CouponCode: "EVS-USED",
	})
	assertValidation(t, err, "Cupom já foi utilizado")
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckoutMissingApprovalLinkIsGatewayError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateOrder", ctx, mock.Anything).Return(nil, &paypal.GatewayError{Err: paypal.ErrApprovalLinkMissing})

	_, err := f.service.Process(ctx, f.user, Request{Action: ActionCheckout, Amount: decimal.NewFromInt(10), Currency: "USD"})
	perr, ok := AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, KindGateway, perr.Kind)
	assert.ErrorIs(t, err, paypal.ErrApprovalLinkMissing)
	f.ledger.AssertNotCalled(t, "RecordPending", mock.Anything, mock.Anything)
}

func TestCheckoutFromWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.On("WalletCheckout", ctx, mock.MatchedBy(func(p transaction.DebitParams) bool {
		return p.Type == transaction.TypeCheckout && p.Amount.Equal(decimal.NewFromInt(30)) && p.Currency == "USD"
	})).Return(&transaction.Transaction{ID: uuid.New(), Status: transaction.StatusCompleted}, walletWith(f.user.UserID, "70", "0", "0"), nil)

	result, err := f.service.Process(ctx, f.user, Request{
		Action:        ActionCheckout,
		Amount:        decimal.NewFromInt(30),
		Currency:      "USD",
		PaymentMethod: "wallet",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(70)))
}

func TestCheckoutFromWalletInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.On("WalletCheckout", ctx, mock.Anything).Return(nil, nil, wallet.ErrInsufficientFunds)

	_, err := f.service.Process(ctx, f.user, Request{
		Action:        ActionCheckout,
		Amount:        decimal.NewFromInt(30),
		Currency:      "USD",
		PaymentMethod: "wallet",
	})
	assertValidation(t, err, MsgInsufficientCheckout)
}

func TestDepositRedirectTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.gateway.On("CreateOrder", ctx, mock.MatchedBy(func(r paypal.OrderRequest) bool {
		return r.ReturnURL == "https://shop.evs.test/dashboard?deposit_success=true&amount=100&currency=BRL" &&
			r.CancelURL == "https://shop.evs.test/dashboard?deposit_cancelled=true" &&
			r.PayeeEmail == ""
	})).Return(&paypal.Order{ID: "DEP-1", Status: "CREATED", ApprovalURL: "https://paypal.test/a"}, nil)
	f.ledger.On("RecordPending", ctx, mock.MatchedBy(func(p transaction.PendingParams) bool {
		return p.Type == transaction.TypeDeposit && p.OrderID == "DEP-1" && p.Description == "Depósito via PayPal"
	})).Return(&transaction.Transaction{ID: uuid.New()}, nil)

	result, err := f.service.Process(ctx, f.user, Request{Action: ActionDeposit, Amount: decimal.NewFromInt(100), Currency: "BRL"})
	require.NoError(t, err)
	assert.Equal(t, "DEP-1", result.OrderID)
}

func TestWithdrawalAmountRange(t *testing.T) {
	f := newFixture(t)
	for _, amount := range []int64{99, 201} {
		_, err := f.service.Process(context.Background(), f.user, Request{
			Action:   ActionWithdrawal,
			Amount:   decimal.NewFromInt(amount),
			Currency: "USD",
		})
		assertValidation(t, err, MsgWithdrawalRange)
	}
}

func TestWithdrawalWithoutWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.wallets.On("GetWallet", ctx, f.user.UserID).Return(nil, wallet.ErrWalletNotFound)

	_, err := f.service.Process(ctx, f.user, Request{Action: ActionWithdrawal, Amount: decimal.NewFromInt(150), Currency: "USD"})
	assertValidation(t, err, MsgWalletNotFound)
}

func TestWithdrawalPaysOutAndCompletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reserved := &transaction.Transaction{ID: uuid.New(), UserID: f.user.UserID, Amount: decimal.NewFromInt(150), Currency: "USD"}

	f.wallets.On("GetWallet", ctx, f.user.UserID).Return(walletWith(f.user.UserID, "200", "0", "0"), nil)
	f.ledger.On("ReserveDebit", ctx, mock.MatchedBy(func(p transaction.DebitParams) bool {
		return p.Type == transaction.TypeWithdrawal && p.RecipientEmail == "cliente@evs.test" &&
			p.Description == "Levantamento para PayPal"
	})).Return(reserved, walletWith(f.user.UserID, "50", "0", "0"), nil)
	f.gateway.On("CreatePayout", ctx, mock.MatchedBy(func(r paypal.PayoutRequest) bool {
		return r.SenderBatchID == reserved.ID.String() && r.AmountUSD.Equal(decimal.NewFromInt(150)) &&
			r.EmailSubject == "Levantamento EVS Comercial" && r.Receiver == "cliente@evs.test"
	})).Return(&paypal.Payout{BatchID: "PB-1", Status: "PENDING"}, nil)
	f.ledger.On("CompleteDebit", ctx, reserved.ID, "PB-1").Return(&transaction.Transaction{ID: reserved.ID, Status: transaction.StatusCompleted}, nil)

	result, err := f.service.Process(ctx, f.user, Request{Action: ActionWithdrawal, Amount: decimal.NewFromInt(150), Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "PB-1", result.PayoutBatchID)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(50)))
}

func TestTransferInsufficientFundsMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.wallets.On("GetWallet", ctx, f.user.UserID).Return(walletWith(f.user.UserID, "50", "0", "0"), nil)

	_, err := f.service.Process(ctx, f.user, Request{
		Action:         ActionTransfer,
		Amount:         decimal.NewFromInt(75),
		Currency:       "USD",
		RecipientEmail: "x@evs.test",
	})
	assertValidation(t, err, MsgInsufficientTransfer)
	f.gateway.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "ReserveDebit", mock.Anything, mock.Anything)
}

func TestTransferRequiresRecipient(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Process(context.Background(), f.user, Request{Action: ActionTransfer, Amount: decimal.NewFromInt(5), Currency: "USD"})
	assertValidation(t, err, MsgRecipientRequired)

	_, err = f.service.Process(context.Background(), f.user, Request{Action: ActionTransfer, Amount: decimal.NewFromInt(5), Currency: "USD", RecipientEmail: "not-an-email"})
	assertValidation(t, err, MsgRecipientInvalid)
}

func TestTransferPayoutFailureReleasesReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reserved := &transaction.Transaction{ID: uuid.New(), UserID: f.user.UserID, Amount: decimal.NewFromInt(20), Currency: "USD"}
	gatewayErr := &paypal.GatewayError{StatusCode: 422, Name: "INSUFFICIENT_FUNDS", Message: "Sender does not have sufficient funds."}

	f.wallets.On("GetWallet", ctx, f.user.UserID).Return(walletWith(f.user.UserID, "50", "0", "0"), nil)
	f.ledger.On("ReserveDebit", ctx, mock.MatchedBy(func(p transaction.DebitParams) bool {
		return p.Type == transaction.TypeTransfer && p.Description == "Transferência para amigo@evs.test"
	})).Return(reserved, walletWith(f.user.UserID, "30", "0", "0"), nil)
	f.gateway.On("CreatePayout", ctx, mock.Anything).Return(nil, gatewayErr)
	f.ledger.On("ReleaseDebit", ctx, reserved).Return(walletWith(f.user.UserID, "50", "0", "0"), nil)

	_, err := f.service.Process(ctx, f.user, Request{
		Action:         ActionTransfer,
		Amount:         decimal.NewFromInt(20),
		Currency:       "USD",
		RecipientEmail: "amigo@evs.test",
	})
	perr, ok := AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, KindGateway, perr.Kind)
	var gerr *paypal.GatewayError
	assert.True(t, errors.As(err, &gerr))
	f.ledger.AssertNotCalled(t, "CompleteDebit", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutCompletionFailureReportsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reserved := &transaction.Transaction{ID: uuid.New(), UserID: f.user.UserID, Amount: decimal.NewFromInt(20), Currency: "USD"}

	f.wallets.On("GetWallet", ctx, f.user.UserID).Return(walletWith(f.user.UserID, "50", "0", "0"), nil)
	f.ledger.On("ReserveDebit", ctx, mock.Anything).Return(reserved, walletWith(f.user.UserID, "30", "0", "0"), nil)
	f.gateway.On("CreatePayout", ctx, mock.Anything).Return(&paypal.Payout{BatchID: "PB-2"}, nil)
	f.ledger.On("CompleteDebit", ctx, reserved.ID, "PB-2").Return(nil, errors.New("connection reset"))

	result, err := f.service.Process(ctx, f.user, Request{
		Action:         ActionTransfer,
		Amount:         decimal.NewFromInt(20),
		Currency:       "USD",
		RecipientEmail: "amigo@evs.test",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, result.Status)
	assert.Equal(t, "PB-2", result.PayoutBatchID)
	f.ledger.AssertNotCalled(t, "ReleaseDebit", mock.Anything, mock.Anything)
}

func TestPayoutReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	done := &transaction.Transaction{
		ID:                  uuid.New(),
		Type:                transaction.TypeTransfer,
		Status:              transaction.StatusCompleted,
		Currency:            "USD",
		PaypalTransactionID: "PB-9",
	}

	f.ledger.On("FindByIdempotencyKey", ctx, f.user.UserID, "key-1").Return(done, nil)

	result, err := f.service.Process(ctx, f.user, Request{
		Action:         ActionTransfer,
		Amount:         decimal.NewFromInt(20),
		Currency:       "USD",
		RecipientEmail: "amigo@evs.test",
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "PB-9", result.PayoutBatchID)
	f.gateway.AssertNotCalled(t, "CreatePayout", mock.Anything, mock.Anything)
}

func TestCaptureRequiresOrderID(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Process(context.Background(), f.user, Request{Action: ActionCapture})
	assertValidation(t, err, MsgOrderIDRequired)
}

func TestCaptureDepositCreditsWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := &transaction.Transaction{
		ID:       uuid.New(),
		Type:     transaction.TypeDeposit,
		Status:   transaction.StatusPending,
		Amount:   decimal.NewFromInt(100),
		Currency: "BRL",
	}

	f.ledger.On("FindByExternalRef", ctx, f.user.UserID, "DEP-1").Return(pending, nil)
	f.gateway.On("CaptureOrder", ctx, "DEP-1").Return(&paypal.Capture{OrderID: "DEP-1", CaptureID: "CAP-1", Status: "COMPLETED"}, nil)
	f.ledger.On("SettleCapture", ctx, pending.ID).Return(&transaction.Transaction{ID: pending.ID, Status: transaction.StatusCompleted}, walletWith(f.user.UserID, "0", "100", "0"), nil)

	result, err := f.service.Process(ctx, f.user, Request{Action: ActionCapture, OrderID: "DEP-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "CAP-1", result.CaptureID)
	require.NotNil(t, result.NewBalance)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(100)))
}

func TestCaptureRetrySettlesOrderCapturedEarlier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := &transaction.Transaction{
		ID:       uuid.New(),
		Type:     transaction.TypeDeposit,
		Status:   transaction.StatusPending,
		Amount:   decimal.NewFromInt(100),
		Currency: "BRL",
	}
	alreadyCaptured := &paypal.GatewayError{
		StatusCode: http.StatusUnprocessableEntity,
		Name:       "UNPROCESSABLE_ENTITY",
		Issue:      paypal.IssueOrderAlreadyCaptured,
	}

	f.ledger.On("FindByExternalRef", ctx, f.user.UserID, "DEP-2").Return(pending, nil)
	f.gateway.On("CaptureOrder", ctx, "DEP-2").Return(nil, alreadyCaptured)
	f.gateway.On("GetOrder", ctx, "DEP-2").Return(&paypal.Capture{OrderID: "DEP-2", CaptureID: "CAP-2", Status: "COMPLETED"}, nil)
	f.ledger.On("SettleCapture", ctx, pending.ID).Return(&transaction.Transaction{ID: pending.ID, Status: transaction.StatusCompleted}, walletWith(f.user.UserID, "0", "100", "0"), nil)

	result, err := f.service.Process(ctx, f.user, Request{Action: ActionCapture, OrderID: "DEP-2"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, "CAP-2", result.CaptureID)
	require.NotNil(t, result.NewBalance)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(100)))
}

func TestCaptureNotApprovedIsGatewayError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := &transaction.Transaction{ID: uuid.New(), Type: transaction.TypeDeposit, Status: transaction.StatusPending}

	f.ledger.On("FindByExternalRef", ctx, f.user.UserID, "DEP-3").Return(pending, nil)
	f.gateway.On("CaptureOrder", ctx, "DEP-3").Return(nil, &paypal.GatewayError{
		StatusCode: http.StatusUnprocessableEntity,
		Issue:      "ORDER_NOT_APPROVED",
		Message:    "Payer has not yet approved the Order for payment.",
	})

	_, err := f.service.Process(ctx, f.user, Request{Action: ActionCapture, OrderID: "DEP-3"})
	perr, ok := AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, KindGateway, perr.Kind)
	f.gateway.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "SettleCapture", mock.Anything, mock.Anything)
}

func TestCaptureAlreadyCompletedSkipsGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	done := &transaction.Transaction{ID: uuid.New(), Type: transaction.TypeCheckout, Status: transaction.StatusCompleted}

	f.ledger.On("FindByExternalRef", ctx, f.user.UserID, "ORD-1").Return(done, nil)

	result, err := f.service.Process(ctx, f.user, Request{Action: ActionCapture, OrderID: "ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	f.gateway.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
}

func TestCaptureUnknownOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ledger.On("FindByExternalRef", ctx, f.user.UserID, "NOPE").Return(nil, transaction.ErrTransactionNotFound)

	_, err := f.service.Process(ctx, f.user, Request{Action: ActionCapture, OrderID: "NOPE"})
	assertValidation(t, err, MsgOrderNotFound)
}

func TestApplyDiscount(t *testing.T) {
	assert.True(t, applyDiscount(decimal.NewFromInt(100), 6).Equal(decimal.NewFromInt(94)))
	assert.True(t, applyDiscount(decimal.RequireFromString("19.99"), 10).Equal(decimal.RequireFromString("17.99")))
	assert.True(t, applyDiscount(decimal.NewFromInt(50), 100).IsZero())
}
