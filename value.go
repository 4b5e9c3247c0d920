package calc

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Mode selects the numeric representation used for an entire evaluation.
type Mode int8

const (
	// ModeDecimal evaluates with high-precision base-10 floating-point
	// arithmetic.
	ModeDecimal Mode = iota
	// ModeRational evaluates with exact fractions. Decimal literals and
	// irrational intermediate results become nearby fractions.
	ModeRational
)

func (m Mode) String() string {
	switch m {
	case ModeDecimal:
		return "decimal"
	case ModeRational:
		return "rational"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode returns the mode named by s, which may be "decimal" or
// "rational", or their first letters.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "decimal", "d":
		return ModeDecimal, true
	case "rational", "r", "fraction", "f":
		return ModeRational, true
	default:
		return 0, false
	}
}

// Value is the result of evaluating an expression. It is either a *Decimal
// or a *Rational, according to the mode of the evaluation that produced it.
type Value interface {
	// Mode returns the mode that produces this kind of value.
	Mode() Mode
	// String formats the value at its full precision.
	String() string

	value()
}

// Decimal is a Value produced in ModeDecimal. It holds the value at the
// working precision, which has a few more digits than it displays.
type Decimal struct {
	x      *apd.Decimal
	digits int
}

// Big returns a copy of the value.
func (v *Decimal) Big() *apd.Decimal {
	return new(apd.Decimal).Set(v.x)
}

// Rat returns the exact value as a fraction.
func (v *Decimal) Rat() *big.Rat {
	return ratof(v.x)
}

// Digits returns the number of significant decimal digits of the value.
func (v *Decimal) Digits() int {
	return v.digits
}

func (v *Decimal) Mode() Mode {
	return ModeDecimal
}

func (v *Decimal) String() string {
	return FormatDecimal(v.x, v.digits)
}

func (*Decimal) value() {}

// Rational is a Value produced in ModeRational. It is always in lowest terms
// with a positive denominator.
type Rational struct {
	x *big.Rat
}

// Rat returns a copy of the value.
func (v *Rational) Rat() *big.Rat {
	return new(big.Rat).Set(v.x)
}

// Num returns a copy of the numerator, which carries the sign.
func (v *Rational) Num() *big.Int {
	return new(big.Int).Set(v.x.Num())
}

// Denom returns a copy of the denominator, which is always positive.
func (v *Rational) Denom() *big.Int {
	return new(big.Int).Set(v.x.Denom())
}

// IsInt returns whether the denominator is 1.
func (v *Rational) IsInt() bool {
	return v.x.IsInt()
}

func (v *Rational) Mode() Mode {
	return ModeRational
}

// String returns "num/den", or just the numerator if the value is an integer.
func (v *Rational) String() string {
	return v.x.RatString()
}

func (*Rational) value() {}

var (
	_ Value = (*Decimal)(nil)
	_ Value = (*Rational)(nil)
)
