// Package normalize converts raw statement tokens into typed values.
// Tokens arrive mangled: OCR garbage, currency symbols, thousands
// separators, accountant-style parenthesized negatives.
package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotAnAmount = errors.New("token is not an amount")

// ParseAmount converts an amount token into a signed decimal.
// Accepted negative forms: leading minus, trailing minus, parentheses.
// Currency symbols, commas, and interior whitespace are stripped.
func ParseAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Zero, ErrNotAnAmount
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	for _, sym := range []string{"$", "USD"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")

	if s == "" || !isNumeric(s) {
		return decimal.Zero, ErrNotAnAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotAnAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// LooksLikeAmount reports whether a token would parse as an amount with a
// decimal point. Used by table scanning to tell amount cells from check
// numbers and reference numbers, which are digit runs without cents.
func LooksLikeAmount(token string) bool {
	s := strings.TrimSpace(token)
	if !strings.Contains(s, ".") {
		return false
	}
	_, err := ParseAmount(s)
	return err == nil
}

func isNumeric(s string) bool {
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
