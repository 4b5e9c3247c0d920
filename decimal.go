package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// guarddigits is the number of digits of working precision beyond the
// display precision.
const guarddigits = 10

// decimal is the arithmetic of ModeDecimal. Literals are exact and every
// operation rounds to the working precision in base 10.
type decimal struct {
	ctx *Context
}

// work returns the apd context for calculations.
func (d decimal) work() *apd.Context {
	return decctx(d.ctx.digits + guarddigits)
}

// decctx returns an apd context rounding half to even at the given number of
// significant digits. Conditions are reported but never trapped.
func decctx(digits int) *apd.Context {
	return &apd.Context{
		Precision:   uint32(digits),
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    apd.RoundHalfEven,
	}
}

// outofrange is the set of conditions that make a result unusable.
const outofrange = apd.Overflow | apd.Underflow | apd.SystemOverflow | apd.SystemUnderflow

// check returns x if it is within the context's limits. c and err are the
// results of the apd operation that produced x.
func (d decimal) check(op string, x *apd.Decimal, c apd.Condition, err error) (*apd.Decimal, error) {
	if err != nil || c&outofrange != 0 || x.Form != apd.Finite {
		return nil, &LimitError{Op: op, Max: d.ctx.maxbits}
	}
	if x.IsZero() {
		return x, nil
	}
	if l := math.Abs(log2(x)); l > float64(d.ctx.maxbits)+2 {
		return nil, &LimitError{Op: op, Bits: int64(l), Max: d.ctx.maxbits}
	}
	if e := binexp(x); e > d.ctx.maxbits || e < -d.ctx.maxbits {
		return nil, &LimitError{Op: op, Bits: int64(abs(e)), Max: d.ctx.maxbits}
	}
	return x, nil
}

// text formats an operand for error messages.
func (d decimal) text(x *apd.Decimal) string {
	return FormatDecimal(x, 12)
}

func (d decimal) num(lit string) (*apd.Decimal, error) {
	x, _, err := apd.NewFromString(numtext(lit))
	if err != nil {
		// The lexer only produces valid literals.
		panic("calc: invalid number: " + lit + " (" + err.Error() + ")")
	}
	return d.check("number "+lit, x, 0, nil)
}

func (d decimal) neg(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Neg(x)
}

func (d decimal) add(x, y *apd.Decimal) (*apd.Decimal, error) {
	z := new(apd.Decimal)
	c, err := d.work().Add(z, x, y)
	return d.check("+", z, c, err)
}

func (d decimal) sub(x, y *apd.Decimal) (*apd.Decimal, error) {
	z := new(apd.Decimal)
	c, err := d.work().Sub(z, x, y)
	return d.check("-", z, c, err)
}

func (d decimal) mul(x, y *apd.Decimal) (*apd.Decimal, error) {
	z := new(apd.Decimal)
	c, err := d.work().Mul(z, x, y)
	return d.check("*", z, c, err)
}

func (d decimal) quo(x, y *apd.Decimal) (*apd.Decimal, error) {
	if y.IsZero() {
		return nil, &DomainError{X: d.text(x), Op: "/", Err: ErrDivisionByZero}
	}
	z := new(apd.Decimal)
	c, err := d.work().Quo(z, x, y)
	return d.check("/", z, c, err)
}

func (d decimal) pow(x, y *apd.Decimal) (*apd.Decimal, error) {
	if n, ok := integer(y); ok {
		return d.powint(x, n)
	}
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: d.text(x), Op: "**", Err: ErrNegativeSqrt}
	case 0:
		if y.Sign() < 0 {
			return nil, &DomainError{X: "0", Op: "**", Err: ErrDivisionByZero}
		}
		return new(apd.Decimal), nil
	}
	if x.Cmp(decone) == 0 {
		return apd.New(1, 0), nil
	}
	if err := d.powlimit(x, y); err != nil {
		return nil, err
	}
	z := new(apd.Decimal)
	c, err := d.work().Pow(z, x, y)
	if err == nil && c&apd.InvalidOperation != 0 {
		return nil, &DomainError{X: d.text(x), Op: "**", Err: ErrNegativeSqrt}
	}
	return d.check("**", z, c, err)
}

// powint raises x to an integer power by repeated squaring, so that negative
// bases work and integer results of integer bases are exact while they fit in
// the working precision.
func (d decimal) powint(x *apd.Decimal, n *big.Int) (*apd.Decimal, error) {
	if n.Sign() == 0 {
		return apd.New(1, 0), nil
	}
	if x.IsZero() {
		if n.Sign() < 0 {
			return nil, &DomainError{X: "0", Op: "**", Err: ErrDivisionByZero}
		}
		return new(apd.Decimal), nil
	}
	if new(apd.Decimal).Abs(x).Cmp(decone) == 0 {
		z := apd.New(1, 0)
		// Two's complement keeps the parity of negative exponents.
		if x.Negative && n.Bit(0) == 1 {
			z.Neg(z)
		}
		return z, nil
	}
	g, _ := new(big.Float).SetInt(n).Float64()
	if err := d.powlimitf(x, g); err != nil {
		return nil, err
	}
	w := d.work()
	m := new(big.Int).Abs(n)
	z, t := apd.New(1, 0), new(apd.Decimal)
	var cond apd.Condition
	for i := m.BitLen() - 1; i >= 0; i-- {
		c, err := w.Mul(t, z, z)
		if err != nil {
			return d.check("**", t, c, err)
		}
		cond |= c
		z, t = t, z
		if m.Bit(i) == 1 {
			c, err = w.Mul(t, z, x)
			if err != nil {
				return d.check("**", t, c, err)
			}
			cond |= c
			z, t = t, z
		}
	}
	if n.Sign() < 0 {
		c, err := w.Quo(t, decone, z)
		if err != nil {
			return d.check("**", t, c, err)
		}
		cond |= c
		z = t
	}
	return d.check("**", z, cond, nil)
}

// powlimit predicts whether x**y exceeds the context's limits before it is
// computed. x must not be zero or ±1.
func (d decimal) powlimit(x, y *apd.Decimal) error {
	g, err := y.Float64()
	if err != nil {
		return &LimitError{Op: "**", Max: d.ctx.maxbits}
	}
	return d.powlimitf(x, g)
}

func (d decimal) powlimitf(x *apd.Decimal, g float64) error {
	b := g * log2(x)
	if math.IsNaN(b) || math.Abs(b) > float64(d.ctx.maxbits) {
		bits := int64(0)
		if !math.IsInf(b, 0) && !math.IsNaN(b) {
			bits = int64(math.Abs(b))
		}
		return &LimitError{Op: "**", Bits: bits, Max: d.ctx.maxbits}
	}
	return nil
}

func (d decimal) sqrt(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: d.text(x), Op: "sqrt", Err: ErrNegativeSqrt}
	}
	z := new(apd.Decimal)
	c, err := d.work().Sqrt(z, x)
	if err == nil && c&apd.InvalidOperation != 0 {
		return nil, &DomainError{X: d.text(x), Op: "sqrt", Err: ErrNegativeSqrt}
	}
	return d.check("sqrt", z, c, err)
}

var decone = apd.New(1, 0)

// integer returns the value of x if it is an integer.
func integer(x *apd.Decimal) (*big.Int, bool) {
	if x.Form != apd.Finite {
		return nil, false
	}
	r := ratof(x)
	if !r.IsInt() {
		return nil, false
	}
	return r.Num(), true
}

// ratof returns the exact value of a finite decimal.
func ratof(x *apd.Decimal) *big.Rat {
	n := x.Coeff.MathBigInt()
	if x.Negative {
		n.Neg(n)
	}
	e := int64(x.Exponent)
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs64(e)), nil)
	if e >= 0 {
		return new(big.Rat).SetInt(n.Mul(n, p))
	}
	return new(big.Rat).SetFrac(n, p)
}

// decof returns the exact value of an integer as a decimal.
func decof(n *big.Int) *apd.Decimal {
	x, _, err := apd.NewFromString(n.String())
	if err != nil {
		panic("calc: invalid integer " + n.String())
	}
	return x
}

// log2 estimates log2|x| for finite nonzero x.
func log2(x *apd.Decimal) float64 {
	s := x.Coeff.String()
	adj := int64(x.Exponent) + int64(len(s))
	if len(s) > 17 {
		s = s[:17]
	}
	f, err := strconv.ParseFloat("0."+s, 64)
	if err != nil {
		panic("calc: bad coefficient " + s)
	}
	return float64(adj)*math.Log2(10) + math.Log2(f)
}

// binexp returns the binary exponent e of a finite nonzero x, with
// 2**(e-1) <= |x| < 2**e, as (*big.Float).MantExp reports it.
func binexp(x *apd.Decimal) int {
	l := log2(x)
	if math.IsInf(l, 0) || math.IsNaN(l) {
		panic("calc: binexp of zero or non-finite decimal")
	}
	e := int(math.Floor(l)) + 1
	// The estimate is off by at most one near powers of two.
	r := ratof(x)
	r.Abs(r)
	for r.Cmp(pow2(e-1)) < 0 {
		e--
	}
	for r.Cmp(pow2(e)) >= 0 {
		e++
	}
	return e
}

// pow2 returns 2**e.
func pow2(e int) *big.Rat {
	p := new(big.Int).Lsh(big.NewInt(1), uint(abs(e)))
	if e >= 0 {
		return new(big.Rat).SetInt(p)
	}
	return new(big.Rat).SetFrac(big.NewInt(1), p)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
