package transaction

import (
	"database/sql"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/shopspring/decimal"
)

func ToTransactionModel(t db.Transaction) (*Transaction, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		ID:                  t.ID,
		UserID:              t.UserID,
		Type:                TransactionType(t.Type),
		Amount:              amount,
		Currency:            t.Currency,
		Status:              Status(t.Status),
		PaypalTransactionID: t.PaypalTransactionID.String,
		RecipientEmail:      t.RecipientEmail.String,
		Description:         t.Description,
		IdempotencyKey:      t.IdempotencyKey.String,
		CouponCode:          t.CouponCode.String,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}, nil
}

func ToTransactionModels(rows []db.Transaction) ([]*Transaction, error) {
	out := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := ToTransactionModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
