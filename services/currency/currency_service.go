package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	USD = "USD"
	BRL = "BRL"
	AOA = "AOA"
)

var SupportedCurrencies = []string{USD, BRL, AOA}

// usdRates holds how many units of each currency one US dollar buys.
var usdRates = map[string]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	BRL: decimal.RequireFromString("5.20"),
	AOA: decimal.RequireFromString("825.50"),
}

// ExchangeRate is one directed entry of the conversion table.
type ExchangeRate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

func IsCurrencyValid(request string) bool {
	_, ok := usdRates[request]
	return ok
}

func IsCurrencyInvalid(request string) bool {
	return !IsCurrencyValid(request)
}

// Normalize upper-cases and trims a currency code supplied by a client.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rate returns the multiplicative rate from one currency to another.
// Pairs that do not involve USD pivot through it.
func Rate(from, to string) (decimal.Decimal, error) {
	if IsCurrencyInvalid(from) || IsCurrencyInvalid(to) {
		return decimal.Zero, NewCurrencyError(ErrUnsupportedCurrency, from, to)
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	toUSD := decimal.NewFromInt(1).Div(usdRates[from])
	if to == USD {
		return toUSD, nil
	}
	if from == USD {
		return usdRates[to], nil
	}
	return toUSD.Mul(usdRates[to]), nil
}

// Convert expresses amount, given in from, in the to currency.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to && IsCurrencyValid(from) {
		return amount, nil
	}

	if IsCurrencyInvalid(from) || IsCurrencyInvalid(to) {
		return decimal.Zero, NewCurrencyError(ErrUnsupportedCurrency, from, to)
	}

	// two legs keep BRL<->AOA consistent with the USD table
	usd := amount
	if from != USD {
		usd = amount.Div(usdRates[from])
	}
	if to == USD {
		return usd, nil
	}
	return usd.Mul(usdRates[to]), nil
}

// ToUSD is Convert with USD as the target, used for gateway amounts.
func ToUSD(amount decimal.Decimal, from string) (decimal.Decimal, error) {
	return Convert(amount, from, USD)
}

// Rates lists every directed pair of the table.
func Rates() []ExchangeRate {
	rates := make([]ExchangeRate, 0, len(SupportedCurrencies)*(len(SupportedCurrencies)-1))
	for _, from := range SupportedCurrencies {
		for _, to := range SupportedCurrencies {
			if from == to {
				continue
			}
			rate, _ := Rate(from, to)
			rates = append(rates, ExchangeRate{From: from, To: to, Rate: rate})
		}
	}
	return rates
}
