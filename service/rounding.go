package service

import "github.com/shopspring/decimal"

// roundTo2Decimals rounds half away from zero on the decimal representation,
// so 1.005 becomes 1.01 rather than the binary-float 1.00.
func roundTo2Decimals(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
