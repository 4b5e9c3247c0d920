package calc

import (
	"math/big"
)

// Approximate returns the fraction closest to x whose denominator is at most
// maxDen. If x is exactly a fraction with such a denominator, that fraction is
// the result. Between two equally close fractions, the one with the smaller
// denominator wins. The error matches ErrApproximation if x is infinite or
// maxDen is not positive.
func Approximate(x *big.Float, maxDen *big.Int) (*big.Rat, error) {
	if x.IsInf() {
		return nil, &DomainError{X: x.String(), Op: "approximate", Err: ErrApproximation}
	}
	r, _ := x.Rat(nil)
	return ApproximateRat(r, maxDen)
}

// ApproximateRat is like Approximate for an exact fraction.
func ApproximateRat(x *big.Rat, maxDen *big.Int) (*big.Rat, error) {
	if maxDen.Sign() <= 0 {
		return nil, &DomainError{X: maxDen.String(), Op: "approximate", Err: ErrApproximation}
	}
	if x.Denom().Cmp(maxDen) <= 0 {
		return new(big.Rat).Set(x), nil
	}
	// Walk the continued fraction expansion of n/d until the next convergent's
	// denominator would exceed the bound. p1/q1 is the last convergent that
	// fits and p0/q0 the one before it.
	var (
		p0 = big.NewInt(0)
		q0 = big.NewInt(1)
		p1 = big.NewInt(1)
		q1 = big.NewInt(0)
		n  = new(big.Int).Set(x.Num())
		d  = new(big.Int).Set(x.Denom())
		a  = new(big.Int)
		m  = new(big.Int)
		t  = new(big.Int)
	)
	for {
		// Euclidean division floors for positive d.
		a.DivMod(n, d, m)
		q2 := new(big.Int).Add(q0, t.Mul(a, q1))
		if q2.Cmp(maxDen) > 0 {
			break
		}
		p2 := new(big.Int).Add(p0, t.Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, p2, q2
		// d is never zero here: x's own denominator exceeds maxDen, so the
		// expansion stops before reaching x exactly.
		n, d = d, new(big.Int).Set(m)
	}
	// The best semiconvergent under the bound.
	k := new(big.Int).Sub(maxDen, q0)
	k.Quo(k, q1)
	semi := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	conv := new(big.Rat).SetFrac(p1, q1)
	if dist(conv, x).Cmp(dist(semi, x)) <= 0 {
		return conv, nil
	}
	return semi, nil
}

// dist returns |x - y|.
func dist(x, y *big.Rat) *big.Rat {
	z := new(big.Rat).Sub(x, y)
	return z.Abs(z)
}

// Approximate is like the package-level Approximate, using the context's
// denominator bound. It also fails with ErrApproximation for values beyond
// the context's size limit. Rational mode uses it for irrational results.
func (ctx *Context) Approximate(x *big.Float) (*big.Rat, error) {
	if !x.IsInf() {
		if e := x.MantExp(nil); e > ctx.maxbits {
			return nil, &DomainError{X: x.Text('g', 12), Op: "approximate", Err: ErrApproximation}
		}
	}
	return Approximate(x, ctx.maxden)
}

// Fraction converts v to a fraction with the context's denominator bound. A
// *Rational is returned unchanged.
func (ctx *Context) Fraction(v Value) (*Rational, error) {
	switch v := v.(type) {
	case *Rational:
		return v, nil
	case *Decimal:
		if !v.x.IsZero() && binexp(v.x) > ctx.maxbits {
			return nil, &DomainError{X: v.String(), Op: "approximate", Err: ErrApproximation}
		}
		r, err := ApproximateRat(ratof(v.x), ctx.maxden)
		if err != nil {
			return nil, err
		}
		return &Rational{x: r}, nil
	default:
		panic("calc: unknown value type")
	}
}
