// Package fractional converts between US treasury fractional price
// strings and decimal prices.
//
// The text form is "<whole>-<frac>[+]": whole points, a fraction in
// 1/32nds (two digits, 00-31), and an optional trailing '+' worth an
// extra 1/64. "99-16+" is 99 + 16/32 + 1/64 = 99.515625.
package fractional

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedPrice reports text that does not follow the
// "<whole>-<frac>[+]" grammar.
var ErrMalformedPrice = errors.New("fractional: malformed price")

var sixtyFour = decimal.NewFromInt(64)

// Decode parses a fractional price string into a decimal price.
func Decode(s string) (decimal.Decimal, error) {
	dash := strings.IndexByte(s, '-')
	if dash <= 0 || dash == len(s)-1 {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	wholePart := s[:dash]
	fracPart := s[dash+1:]

	plus := false
	if strings.HasSuffix(fracPart, "+") {
		plus = true
		fracPart = fracPart[:len(fracPart)-1]
	}
	if len(fracPart) != 2 {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}

	// ParseInt alone would accept a leading sign in either part.
	if !digitsOnly(wholePart) || !digitsOnly(fracPart) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil || frac > 31 {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}

	// Build on the 1/64 grid exactly: whole*64 + frac*2 + plus bit.
	ticks := whole*64 + frac*2
	if plus {
		ticks++
	}
	return decimal.NewFromInt(ticks).Div(sixtyFour), nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Encode renders a decimal price as a fractional string. The fraction
// is truncated to the 1/32 grid; a trailing '+' marks a remainder of
// more than a quarter of a 1/32.
func Encode(d decimal.Decimal) string {
	whole := d.Floor()
	frac32 := d.Sub(whole).Mul(decimal.NewFromInt(32))
	frac := frac32.Floor()
	plus := frac32.Sub(frac).GreaterThan(decimal.RequireFromString("0.25"))

	out := fmt.Sprintf("%s-%02d", whole.String(), frac.IntPart())
	if plus {
		out += "+"
	}
	return out
}
