package models

import (
	"github.com/shopspring/decimal"
)

type ConvertRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	From   string           `json:"from" binding:"required"`
	To     string           `json:"to" binding:"required"`
}

type MoneyAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type ConvertResponse struct {
	Success   bool            `json:"success"`
	Original  MoneyAmount     `json:"original"`
	Converted MoneyAmount     `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
}
