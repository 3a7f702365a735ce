package models

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code used for every amount in the shop.
const Currency = money.INR

// FormatAmount renders an amount with the currency grapheme, thousands
// separators and two fraction digits, e.g. ₹2,360.00.
func FormatAmount(d decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPrice is FormatAmount for whole-unit catalog prices.
func FormatPrice(p int64) string {
	return FormatAmount(decimal.NewFromInt(p))
}
