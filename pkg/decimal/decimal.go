// Package decimal implements exact, arbitrary-precision decimal arithmetic
// for prices and quantities. Binary floats are never used: every value is a
// big.Int mantissa paired with a base-10 scale, so 0.1 + 0.2 is exactly 0.3
// and not 0.30000000000000004.
package decimal

import (
	"errors"
	"math/big"
	"strings"
)

// ErrInvalidDecimal is returned when a string does not parse as a decimal
// number: empty input, a bare sign or dot, multiple dots, or a non-digit
// byte anywhere in the mantissa.
var ErrInvalidDecimal = errors.New("decimal: invalid value")

// Decimal is an exact decimal number: value == mantissa * 10^-scale.
// The zero Decimal is valid and represents 0.
type Decimal struct {
	mantissa *big.Int
	scale    int32
}

var ten = big.NewInt(10)

// Zero is the additive identity.
var Zero = Decimal{mantissa: big.NewInt(0), scale: 0}

// Parse reads a decimal literal: an optional leading '-' or '+', digits,
// and an optional '.' followed by digits. Either side of the '.' may be
// empty (".5", "5.") but not both. Scientific notation and grouping
// separators are not accepted.
func Parse(s string) (Decimal, error) {
	if s == "" {
		return Decimal{}, ErrInvalidDecimal
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s, ""
	if dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return Decimal{}, ErrInvalidDecimal
		}
	}
	if intPart == "" && fracPart == "" {
		return Decimal{}, ErrInvalidDecimal
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Decimal{}, ErrInvalidDecimal
	}

	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	mantissa, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, ErrInvalidDecimal
	}
	if neg {
		mantissa.Neg(mantissa)
	}

	return Decimal{mantissa: mantissa, scale: int32(len(fracPart))}, nil
}

// MustParse parses s and panics on error. Intended for constants in tests.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (d Decimal) mant() *big.Int {
	if d.mantissa == nil {
		return big.NewInt(0)
	}
	return d.mantissa
}

// align returns both operands' mantissas scaled to the larger of the two
// scales, plus that common scale.
func align(a, b Decimal) (*big.Int, *big.Int, int32) {
	as, bs := a.scale, b.scale
	am, bm := new(big.Int).Set(a.mant()), new(big.Int).Set(b.mant())
	switch {
	case as < bs:
		am.Mul(am, pow10(bs-as))
		as = bs
	case bs < as:
		bm.Mul(bm, pow10(as-bs))
		bs = as
	}
	return am, bm, as
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// Add returns a + b.
func Add(a, b Decimal) Decimal {
	am, bm, scale := align(a, b)
	return Decimal{mantissa: am.Add(am, bm), scale: scale}
}

// Sub returns a - b.
func Sub(a, b Decimal) Decimal {
	am, bm, scale := align(a, b)
	return Decimal{mantissa: am.Sub(am, bm), scale: scale}
}

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Decimal) Cmp(b Decimal) int {
	am, bm, _ := align(a, b)
	return am.Cmp(bm)
}

// Eq reports whether a and b represent the same numeric value, regardless
// of scale (1.50 == 1.5).
func (a Decimal) Eq(b Decimal) bool { return a.Cmp(b) == 0 }

// Gt reports a > b.
func (a Decimal) Gt(b Decimal) bool { return a.Cmp(b) > 0 }

// Gte reports a >= b.
func (a Decimal) Gte(b Decimal) bool { return a.Cmp(b) >= 0 }

// Lt reports a < b.
func (a Decimal) Lt(b Decimal) bool { return a.Cmp(b) < 0 }

// Lte reports a <= b.
func (a Decimal) Lte(b Decimal) bool { return a.Cmp(b) <= 0 }

// IsZero reports whether the value is exactly zero.
func (a Decimal) IsZero() bool { return a.mant().Sign() == 0 }

// IsPositive reports whether the value is strictly greater than zero.
func (a Decimal) IsPositive() bool { return a.mant().Sign() > 0 }

// IsNegative reports whether the value is strictly less than zero.
func (a Decimal) IsNegative() bool { return a.mant().Sign() < 0 }

// String renders the canonical form: no superfluous trailing fractional
// zeros, and no trailing '.' when the fractional part is empty.
func (d Decimal) String() string {
	m := d.mant()
	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	digits := abs.String()

	scale := d.scale
	if scale <= 0 {
		s := digits
		if neg && abs.Sign() != 0 {
			s = "-" + s
		}
		return s
	}

	for int32(len(digits)) <= scale {
		digits = "0" + digits
	}
	intPart := digits[:int32(len(digits))-scale]
	fracPart := digits[int32(len(digits))-scale:]
	fracPart = strings.TrimRight(fracPart, "0")

	var sb strings.Builder
	if neg && abs.Sign() != 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart)
	if fracPart != "" {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// MarshalJSON encodes the decimal as a canonical JSON string, so exact
// precision survives round trips through JSON (unlike a numeric literal).
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string into a Decimal.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
