// Package currency holds the supported currency codes and the fixed
// exchange table used to normalize amounts across an invoice.
package currency

// Code is an ISO-like currency code supported by the application.
type Code string

const (
	USD Code = "USD"
	EGP Code = "EGP"
)

// Rates maps each supported currency to its value relative to USD.
// 1 USD = 50 EGP.
var Rates = map[Code]float64{
	USD: 1,
	EGP: 50,
}

// Codes lists the supported currencies in display order.
func Codes() []Code { return []Code{USD, EGP} }

// Valid reports whether c is a supported currency.
func (c Code) Valid() bool {
	_, ok := Rates[c]
	return ok
}

// Convert maps amount from one currency to another using the fixed
// rate table. Identical currencies return the amount untouched so a
// no-op conversion never accumulates floating point error. The result
// is not rounded; callers compare with a tolerance.
func Convert(amount float64, from, to Code) float64 {
	if from == to {
		return amount
	}
	return amount / Rates[from] * Rates[to]
}
