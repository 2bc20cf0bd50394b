package currency

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertIdentity(t *testing.T) {
	for _, c := range SupportedCurrencies {
		amount := decimal.RequireFromString("123.45")
		got, err := Convert(amount, c, c)
		require.NoError(t, err)
		assert.True(t, amount.Equal(got), c)
	}
}

func TestConvertKnownValues(t *testing.T) {
	tests := []struct {
		amount string
		from   string
		to     string
		want   string
	}{
		{"100", USD, BRL, "520"},
		{"100", USD, AOA, "82550"},
		{"520", BRL, USD, "100"},
		{"825.50", AOA, USD, "1"},
		{"5.20", BRL, AOA, "825.5"},
	}

	for _, tc := range tests {
		got, err := Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
		require.NoError(t, err)
		assert.True(t, got.Round(6).Equal(decimal.RequireFromString(tc.want)),
			"%s %s -> %s: got %s", tc.amount, tc.from, tc.to, got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	amounts := []string{"0.01", "1", "99.99", "150", "12345.67", "1000000"}
	tolerance := decimal.RequireFromString("0.000000001")

	for _, a := range amounts {
		x := decimal.RequireFromString(a)
		for _, from := range SupportedCurrencies {
			for _, to := range SupportedCurrencies {
				there, err := Convert(x, from, to)
				require.NoError(t, err)
				back, err := Convert(there, to, from)
				require.NoError(t, err)

				relative := back.Sub(x).Abs().Div(x)
				assert.True(t, relative.LessThanOrEqual(tolerance),
					"%s %s->%s->%s drifted to %s", a, from, to, from, back)
			}
		}
	}
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert(decimal.NewFromInt(10), "EUR", USD)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCurrency))

	var currencyErr *CurrencyError
	require.ErrorAs(t, err, &currencyErr)
	assert.Equal(t, "unsupported currency: EUR to USD", currencyErr.ErrorOut())

	_, err = Rate(USD, "GBP")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestRate(t *testing.T) {
	rate, err := Rate(USD, USD)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))

	rate, err = Rate(USD, BRL)
	require.NoError(t, err)
	assert.Equal(t, "5.2", rate.String())

	rate, err = Rate(BRL, USD)
	require.NoError(t, err)
	assert.True(t, rate.Mul(decimal.RequireFromString("5.20")).Round(9).Equal(decimal.NewFromInt(1)))
}

func TestRatesTable(t *testing.T) {
	rates := Rates()
	assert.Len(t, rates, 6)
	for _, r := range rates {
		assert.NotEqual(t, r.From, r.To)
		assert.True(t, r.Rate.IsPositive())
	}
}

func TestValidationHelpers(t *testing.T) {
	assert.True(t, IsCurrencyValid("AOA"))
	assert.True(t, IsCurrencyInvalid("aoa"))
	assert.Equal(t, "AOA", Normalize(" aoa "))
}
