package extract

import (
	"regexp"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/shopspring/decimal"
)

// amountPattern finds a Rupiah amount: a currency marker, optional
// whitespace, 1-3 leading digits, 3-digit groups split by "." or ",", and an
// optional 2-digit fraction.
var amountPattern = regexp.MustCompile(`(?i)(?:Rp|IDR)\s*(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)`)

// FindAmount returns the numeric token of the first currency amount in text.
func FindAmount(text string) (string, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseAmount finds and normalizes the first currency amount in text.
func ParseAmount(text string) (decimal.Decimal, error) {
	token, ok := FindAmount(text)
	if !ok {
		return decimal.Zero, ErrNoAmount
	}
	return currency.NormalizeAmount(token)
}
