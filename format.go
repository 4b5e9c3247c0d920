package calc

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Result is a formatted value, ready for display.
type Result struct {
	// Primary is the value itself: a decimal number, or "num/den" for a
	// fraction, or the numerator alone for an integer fraction.
	Primary string
	// Approx is the decimal expansion of a fraction. It is empty for
	// decimal values.
	Approx string
}

// String returns the primary text, followed by the approximation if it says
// something the primary text does not.
func (r Result) String() string {
	if r.Approx == "" || !strings.Contains(r.Primary, "/") {
		return r.Primary
	}
	return r.Primary + " ≈ " + r.Approx
}

// Format formats a value at the context's precision.
func (ctx *Context) Format(v Value) Result {
	switch v := v.(type) {
	case *Decimal:
		return Result{Primary: FormatDecimal(v.x, ctx.digits)}
	case *Rational:
		f := new(apd.Decimal)
		// Quo only rounds; limits were checked when the value was made.
		decimal{ctx}.work().Quo(f, decof(v.x.Num()), decof(v.x.Denom()))
		return Result{Primary: v.x.RatString(), Approx: FormatDecimal(f, ctx.digits)}
	default:
		panic("calc: unknown value type")
	}
}

// FormatDecimal formats x rounded half to even to the given number of
// significant digits, with trailing zeros removed. Numbers whose decimal
// exponent is within (-digits, digits) are written positionally, and others
// in scientific notation like 1.5e+60. Panics if digits is not positive.
func FormatDecimal(x *apd.Decimal, digits int) string {
	if digits <= 0 {
		panic("calc: FormatDecimal with non-positive digits")
	}
	if x.Form != apd.Finite {
		return x.String()
	}
	if x.IsZero() {
		return "0"
	}
	var y apd.Decimal
	decctx(digits).Round(&y, x)
	y.Reduce(&y)
	m := y.Coeff.String()
	exp := int(y.Exponent) + len(m) - 1

	var b strings.Builder
	if y.Negative {
		b.WriteByte('-')
	}
	switch {
	case exp >= digits || exp <= -digits:
		b.WriteByte(m[0])
		if len(m) > 1 {
			b.WriteByte('.')
			b.WriteString(m[1:])
		}
		b.WriteByte('e')
		if exp < 0 {
			b.WriteByte('-')
			exp = -exp
		} else {
			b.WriteByte('+')
		}
		if exp < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(exp))
	case exp < 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(m)
	case exp >= len(m)-1:
		b.WriteString(m)
		b.WriteString(strings.Repeat("0", exp-len(m)+1))
	default:
		b.WriteString(m[:exp+1])
		b.WriteByte('.')
		b.WriteString(m[exp+1:])
	}
	return b.String()
}
