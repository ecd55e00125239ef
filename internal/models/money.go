package models

import (
	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary value to cents for presentation.
// Engine results stay unrounded; only API and export values go through here.
func RoundMoney(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

// FormatMoney renders a monetary value with exactly two decimals
func FormatMoney(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}
