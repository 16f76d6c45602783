package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places money is stored with
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to MoneyPlaces
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Percent converts a percentage (e.g. 16) into a fraction (0.16)
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}
