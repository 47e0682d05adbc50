// Package money handles Ghana cedi amounts as integer pesewas.
//
// All arithmetic in the service happens on Amount values (minor units) so that
// sums over contributions, loan principals and repayments are exact. Floats only
// appear at the API boundary, where JSON numbers are converted with half-up
// rounding.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Amount is a monetary value in pesewas (1 cedi = 100 pesewas).
type Amount int64

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimal converts a decimal string to an Amount with half-up rounding on
// the third decimal place. Accepts both "12.34" and "12,34". Negative values
// are rejected; zero is allowed (callers enforce positivity where required).
func ParseDecimal(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Amount(iv*100 + frac), nil
}

// FromFloat converts a cedi float to pesewas with half-up rounding.
// Used only at the JSON boundary.
func FromFloat(v float64) (Amount, error) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return Amount(math.Round(v * 100)), nil
}

// Cedis returns the cedi value as a float64 for display purposes only.
func (a Amount) Cedis() float64 {
	return float64(a) / 100.0
}

// String formats the amount as a plain decimal with two places, e.g. "2450.00".
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON serialises the amount as a JSON number with two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	if neg {
		parsed = -parsed
	}
	*a = parsed
	return nil
}
