package wallet

import (
	"time"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletModel struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	BalanceBRL decimal.Decimal `json:"balance_brl"`
	BalanceAOA decimal.Decimal `json:"balance_aoa"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Balance returns the balance held in the given currency, zero for unknown codes.
func (w *WalletModel) Balance(code string) decimal.Decimal {
	switch code {
	case currency.USD:
		return w.BalanceUSD
	case currency.BRL:
		return w.BalanceBRL
	case currency.AOA:
		return w.BalanceAOA
	}
	return decimal.Zero
}

func (w *WalletModel) CanCover(amount decimal.Decimal, code string) bool {
	return w.Balance(code).GreaterThanOrEqual(amount)
}

func ToWalletModel(wallet db.Wallet) (*WalletModel, error) {
	usd, err := decimal.NewFromString(wallet.BalanceUsd)
	if err != nil {
		return nil, NewWalletError(ErrCorruptBalance, wallet.ID.String(), err)
	}
	brl, err := decimal.NewFromString(wallet.BalanceBrl)
	if err != nil {
		return nil, NewWalletError(ErrCorruptBalance, wallet.ID.String(), err)
	}
	aoa, err := decimal.NewFromString(wallet.BalanceAoa)
	if err != nil {
		return nil, NewWalletError(ErrCorruptBalance, wallet.ID.String(), err)
	}

	return &WalletModel{
		ID:         wallet.ID,
		UserID:     wallet.UserID,
		BalanceUSD: usd,
		BalanceBRL: brl,
		BalanceAOA: aoa,
		CreatedAt:  wallet.CreatedAt,
		UpdatedAt:  wallet.UpdatedAt,
	}, nil
}
