package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/google/uuid"
)

type WalletService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewWalletService(store *db.Store, logger *logging.Logger) *WalletService {
	return &WalletService{
		store:  store,
		logger: logger,
	}
}

func (w *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*WalletModel, error) {
	dbWallet, err := w.store.GetWalletByUserID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}
	return ToWalletModel(dbWallet)
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on first use.
func (w *WalletService) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*WalletModel, error) {
	if err := w.store.CreateWalletIfAbsent(ctx, userID); err != nil {
		w.logger.Error(fmt.Sprintf("wallet creation failed for user %v: %v", userID, err))
		return nil, NewWalletError(ErrWalletNotPossible, userID.String(), err)
	}

	return w.GetWallet(ctx, userID)
}
