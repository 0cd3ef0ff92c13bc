// Package currency parses and formats Rupiah amounts written with either
// Indonesian (1.234.567,89) or international (1,234,567.89) separators.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned when a numeric token cannot be normalized.
var ErrInvalidAmount = errors.New("invalid amount")

// Symbol is the display prefix used for formatted amounts.
const Symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// NormalizeAmount converts a matched currency token into a decimal value.
//
// When the token contains both a comma and a period and the first comma comes
// before the first period, commas are thousands separators and the period is
// the decimal point. Otherwise periods are thousands separators and a comma,
// if any, is the decimal point.
func NormalizeAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty token", ErrInvalidAmount)
	}

	comma := strings.Index(s, ",")
	period := strings.Index(s, ".")

	if comma >= 0 && period >= 0 && comma < period {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative value %q", ErrInvalidAmount, token)
	}

	return d, nil
}

// ParseRupiah parses free-text user input where "." is a thousands separator
// and no decimals are allowed. Anything unparseable, or negative, yields zero.
func ParseRupiah(text string) int64 {
	s := strings.TrimSpace(strings.ReplaceAll(text, ".", ""))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatThousands renders n with "." as the thousands separator.
func FormatThousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatRupiah renders an amount as "Rp 1.234.568", rounding half to even.
func FormatRupiah(amount decimal.Decimal) string {
	return Symbol + " " + FormatThousands(amount.RoundBank(0).IntPart())
}
