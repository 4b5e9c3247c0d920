package calc

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// rational is the arithmetic of ModeRational. math/big keeps every *big.Rat
// in lowest terms with a positive denominator.
type rational struct {
	ctx *Context
}

// check returns x if its numerator and denominator are within the context's
// limits.
func (r rational) check(op string, x *big.Rat) (*big.Rat, error) {
	b := x.Num().BitLen()
	if d := x.Denom().BitLen(); d > b {
		b = d
	}
	if b > r.ctx.maxbits {
		return nil, &LimitError{Op: op, Bits: int64(b), Max: r.ctx.maxbits}
	}
	return x, nil
}

// float converts x to a binary float at the working precision. Irrational
// intermediate results are computed this way and then approximated.
func (r rational) float(x *big.Rat) *big.Float {
	return new(big.Float).SetPrec(r.ctx.prec).SetRat(x)
}

// approx converts an irrational result back to a bounded fraction.
func (r rational) approx(op string, x *big.Float) (*big.Rat, error) {
	z, err := r.ctx.Approximate(x)
	if err != nil {
		return nil, err
	}
	return r.check(op, z)
}

func (r rational) num(lit string) (*big.Rat, error) {
	x, ok := new(big.Rat).SetString(numtext(lit))
	if !ok {
		// The lexer only produces valid literals.
		panic("calc: invalid number: " + lit)
	}
	x, err := r.check("number "+lit, x)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(lit, ".") {
		return x, nil
	}
	return ApproximateRat(x, r.ctx.maxden)
}

func (r rational) neg(x *big.Rat) *big.Rat {
	return new(big.Rat).Neg(x)
}

func (r rational) add(x, y *big.Rat) (*big.Rat, error) {
	return r.check("+", new(big.Rat).Add(x, y))
}

func (r rational) sub(x, y *big.Rat) (*big.Rat, error) {
	return r.check("-", new(big.Rat).Sub(x, y))
}

func (r rational) mul(x, y *big.Rat) (*big.Rat, error) {
	return r.check("*", new(big.Rat).Mul(x, y))
}

func (r rational) quo(x, y *big.Rat) (*big.Rat, error) {
	if y.Sign() == 0 {
		return nil, &DomainError{X: x.RatString(), Op: "/", Err: ErrDivisionByZero}
	}
	return r.check("/", new(big.Rat).Quo(x, y))
}

func (r rational) pow(x, y *big.Rat) (*big.Rat, error) {
	if y.IsInt() {
		return r.powint(x, y.Num())
	}
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x.RatString(), Op: "**", Err: ErrNegativeSqrt}
	case 0:
		if y.Sign() < 0 {
			return nil, &DomainError{X: "0", Op: "**", Err: ErrDivisionByZero}
		}
		return new(big.Rat), nil
	}
	if x.Cmp(ratone) == 0 {
		return big.NewRat(1, 1), nil
	}
	fx, fy := r.float(x), r.float(y)
	b := powbits(fx, fy)
	if math.IsNaN(b) || math.Abs(b) > float64(r.ctx.maxbits) {
		bits := int64(0)
		if !math.IsInf(b, 0) && !math.IsNaN(b) {
			bits = int64(math.Abs(b))
		}
		return nil, &LimitError{Op: "**", Bits: bits, Max: r.ctx.maxbits}
	}
	z := new(big.Float).SetPrec(r.ctx.prec)
	err := nanguard("**", x.RatString(), ErrNegativeSqrt, func() {
		bigfloat.Pow(z, fx, fy)
	})
	if err != nil {
		return nil, err
	}
	return r.approx("**", z)
}

var ratone = big.NewRat(1, 1)

// powbits estimates log2|x**y|.
func powbits(x, y *big.Float) float64 {
	var m big.Float
	e := x.MantExp(&m)
	f, _ := m.Float64()
	l := float64(e) + math.Log2(math.Abs(f))
	g, _ := y.Float64()
	return g * l
}

// powint raises x to an integer power exactly.
func (r rational) powint(x *big.Rat, n *big.Int) (*big.Rat, error) {
	if n.Sign() == 0 {
		return big.NewRat(1, 1), nil
	}
	if x.Sign() == 0 {
		if n.Sign() < 0 {
			return nil, &DomainError{X: "0", Op: "**", Err: ErrDivisionByZero}
		}
		return new(big.Rat), nil
	}
	num, den := x.Num(), x.Denom()
	if den.IsInt64() && den.Int64() == 1 && num.CmpAbs(big.NewInt(1)) == 0 {
		z := big.NewRat(1, 1)
		if num.Sign() < 0 && n.Bit(0) == 1 {
			z.Neg(z)
		}
		return z, nil
	}
	// The larger of numerator and denominator is at least 2, so the result
	// needs at least (bits-1)*|n| bits.
	b := num.BitLen()
	if d := den.BitLen(); d > b {
		b = d
	}
	m := new(big.Int).Abs(n)
	need := new(big.Int).Mul(m, big.NewInt(int64(b-1)))
	if need.Cmp(big.NewInt(int64(r.ctx.maxbits))) > 0 {
		err := &LimitError{Op: "**", Max: r.ctx.maxbits}
		if need.IsInt64() {
			err.Bits = need.Int64()
		}
		return nil, err
	}
	p := new(big.Int).Exp(num, m, nil)
	q := new(big.Int).Exp(den, m, nil)
	if n.Sign() < 0 {
		p, q = q, p
	}
	// Powers of coprime integers are coprime, and SetFrac moves the sign to
	// the numerator.
	return r.check("**", new(big.Rat).SetFrac(p, q))
}

func (r rational) sqrt(x *big.Rat) (*big.Rat, error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: x.RatString(), Op: "sqrt", Err: ErrNegativeSqrt}
	}
	num, den := x.Num(), x.Denom()
	p := new(big.Int).Sqrt(num)
	q := new(big.Int).Sqrt(den)
	if new(big.Int).Mul(p, p).Cmp(num) == 0 && new(big.Int).Mul(q, q).Cmp(den) == 0 {
		return new(big.Rat).SetFrac(p, q), nil
	}
	z := new(big.Float).SetPrec(r.ctx.prec)
	err := nanguard("sqrt", x.RatString(), ErrNegativeSqrt, func() {
		z.Sqrt(r.float(x))
	})
	if err != nil {
		return nil, err
	}
	return r.approx("sqrt", z)
}
