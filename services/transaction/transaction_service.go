package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/wallet"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TransactionService owns every write to the transaction log and the wallet
// balances. Each exported mutation is a single database transaction.
type TransactionService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewTransactionService(store *db.Store, logger *logging.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// RecordPending stores a deposit or checkout awaiting gateway approval. A
// coupon attached to a checkout is redeemed in the same transaction, so it
// stays spent if the buyer abandons the order on PayPal.
func (s *TransactionService) RecordPending(ctx context.Context, p PendingParams) (*Transaction, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created db.Transaction
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		var err error
		created, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			UserID:              p.UserID,
			Type:                string(p.Type),
			Amount:              p.Amount.StringFixed(2),
			Currency:            p.Currency,
			Status:              string(StatusPending),
			PaypalTransactionID: nullString(p.OrderID),
			Description:         p.Description,
			CouponCode:          nullString(coupon.NormalizeCode(p.CouponCode)),
		})
		if err != nil {
			return fmt.Errorf("create transaction record: %w", err)
		}

		if p.CouponCode != "" {
			if _, err := coupon.Redeem(ctx, q, p.CouponCode, p.UserID, created.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToTransactionModel(created)
}

// ReserveDebit takes the amount out of the wallet and records a pending
// withdrawal or transfer. The wallet never goes negative: the debit only
// applies when the balance covers it at the moment of the update.
func (s *TransactionService) ReserveDebit(ctx context.Context, p DebitParams) (*Transaction, *wallet.WalletModel, error) {
	if !p.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var (
		created  db.Transaction
		dbWallet db.Wallet
	)
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		var err error
		if dbWallet, err = debit(ctx, q, p); err != nil {
			return err
		}

		created, err = q.CreateTransaction(ctx, debitRecord(p, StatusPending))
		if db.IsUniqueViolation(err) {
			return ErrDuplicateRequest
		} else if err != nil {
			return fmt.Errorf("create transaction record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return toResult(created, dbWallet)
}

// CompleteDebit marks a reservation as paid out and stores the payout reference.
func (s *TransactionService) CompleteDebit(ctx context.Context, transactionID uuid.UUID, payoutBatchID string) (*Transaction, error) {
	row, err := s.store.CompleteTransaction(ctx, db.CompleteTransactionParams{
		ID:                  transactionID,
		PaypalTransactionID: nullString(payoutBatchID),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotPending
	} else if err != nil {
		return nil, err
	}

	return ToTransactionModel(row)
}

// ReleaseDebit undoes a reservation whose payout failed: the amount goes back
// to the wallet and the pending row is removed.
func (s *TransactionService) ReleaseDebit(ctx context.Context, t *Transaction) (*wallet.WalletModel, error) {
	var dbWallet db.Wallet
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		n, err := q.DeletePendingTransaction(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("delete reservation: %w", err)
		}
		if n == 0 {
			return ErrTransactionNotPending
		}

		dbWallet, err = q.CreditWallet(ctx, db.CreditWalletParams{
			Currency: t.Currency,
			Amount:   t.Amount.StringFixed(2),
			UserID:   t.UserID,
		})
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"transaction_id": t.ID,
			"user_id":        t.UserID,
		}).Error(fmt.Sprintf("could not release reservation: %v", err))
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"transaction_id": t.ID}).Info("reservation released")
	return wallet.ToWalletModel(dbWallet)
}

// WalletCheckout pays an order from the wallet balance, redeeming an optional
// coupon in the same transaction.
func (s *TransactionService) WalletCheckout(ctx context.Context, p DebitParams) (*Transaction, *wallet.WalletModel, error) {
	if !p.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	p.CouponCode = coupon.NormalizeCode(p.CouponCode)

	var (
		created  db.Transaction
		dbWallet db.Wallet
	)
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		var err error
		if dbWallet, err = debit(ctx, q, p); err != nil {
			return err
		}

		created, err = q.CreateTransaction(ctx, debitRecord(p, StatusCompleted))
		if db.IsUniqueViolation(err) {
			return ErrDuplicateRequest
		} else if err != nil {
			return fmt.Errorf("create transaction record: %w", err)
		}

		if p.CouponCode != "" {
			if _, err := coupon.Redeem(ctx, q, p.CouponCode, p.UserID, created.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return toResult(created, dbWallet)
}

// SettleCapture completes a captured gateway order. Deposits credit the wallet;
// the pending guard makes a repeated capture a no-op that reports
// ErrTransactionNotPending.
func (s *TransactionService) SettleCapture(ctx context.Context, transactionID uuid.UUID) (*Transaction, *wallet.WalletModel, error) {
	var (
		settled  db.Transaction
		dbWallet *db.Wallet
	)
	err := s.store.ExecTx(ctx, func(q *db.Queries) error {
		var err error
		settled, err = q.CompleteTransaction(ctx, db.CompleteTransactionParams{ID: transactionID})
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotPending
		} else if err != nil {
			return fmt.Errorf("complete transaction: %w", err)
		}

		if TransactionType(settled.Type) != TypeDeposit {
			return nil
		}

		if err := q.CreateWalletIfAbsent(ctx, settled.UserID); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		credited, err := q.CreditWallet(ctx, db.CreditWalletParams{
			Currency: settled.Currency,
			Amount:   settled.Amount,
			UserID:   settled.UserID,
		})
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		dbWallet = &credited
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	t, err := ToTransactionModel(settled)
	if err != nil {
		return nil, nil, err
	}
	if dbWallet == nil {
		return t, nil, nil
	}
	w, err := wallet.ToWalletModel(*dbWallet)
	if err != nil {
		return nil, nil, err
	}
	return t, w, nil
}

// FindByExternalRef finds the caller's transaction carrying a gateway order id.
func (s *TransactionService) FindByExternalRef(ctx context.Context, userID uuid.UUID, ref string) (*Transaction, error) {
	row, err := s.store.GetTransactionByPaypalID(ctx, db.GetTransactionByPaypalIDParams{
		UserID:              userID,
		PaypalTransactionID: nullString(ref),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	} else if err != nil {
		return nil, err
	}
	return ToTransactionModel(row)
}

func (s *TransactionService) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*Transaction, error) {
	row, err := s.store.GetTransactionByIdempotencyKey(ctx, db.GetTransactionByIdempotencyKeyParams{
		UserID:         userID,
		IdempotencyKey: nullString(key),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	} else if err != nil {
		return nil, err
	}
	return ToTransactionModel(row)
}

// ListByUser returns the user's history, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*Transaction, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.store.ListTransactionsByUser(ctx, db.ListTransactionsByUserParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionModels(rows)
}

// debit applies the conditional wallet update and explains a refusal.
func debit(ctx context.Context, q *db.Queries, p DebitParams) (db.Wallet, error) {
	w, err := q.DebitWallet(ctx, db.DebitWalletParams{
		Currency: p.Currency,
		Amount:   p.Amount.StringFixed(2),
		UserID:   p.UserID,
	})
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.Wallet{}, fmt.Errorf("debit wallet: %w", err)
	}

	if _, lookupErr := q.GetWalletByUserID(ctx, p.UserID); errors.Is(lookupErr, sql.ErrNoRows) {
		return db.Wallet{}, wallet.ErrWalletNotFound
	} else if lookupErr != nil {
		return db.Wallet{}, lookupErr
	}
	return db.Wallet{}, wallet.ErrInsufficientFunds
}

func debitRecord(p DebitParams, status Status) db.CreateTransactionParams {
	return db.CreateTransactionParams{
		UserID:         p.UserID,
		Type:           string(p.Type),
		Amount:         p.Amount.StringFixed(2),
		Currency:       p.Currency,
		Status:         string(status),
		RecipientEmail: nullString(p.RecipientEmail),
		Description:    p.Description,
		IdempotencyKey: nullString(p.IdempotencyKey),
		CouponCode:     nullString(p.CouponCode),
	}
}

func toResult(row db.Transaction, dbWallet db.Wallet) (*Transaction, *wallet.WalletModel, error) {
	t, err := ToTransactionModel(row)
	if err != nil {
		return nil, nil, err
	}
	w, err := wallet.ToWalletModel(dbWallet)
	if err != nil {
		return nil, nil, err
	}
	return t, w, nil
}
