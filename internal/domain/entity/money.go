package entity

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits stored for amounts,
// percentages, valuations and profits (NUMERIC(_, 2) columns).
const MoneyScale = 2

// maxMoney is the exclusive bound of a NUMERIC(20, 2) column.
var maxMoney = decimal.New(1, 18)

// HasMoneyScale reports whether d is stored exactly, without rounding.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// FitsMoney reports whether d is stored exactly in a NUMERIC(20, 2) column.
func FitsMoney(d decimal.Decimal) bool {
	return HasMoneyScale(d) && d.Abs().LessThan(maxMoney)
}
