package calc

import (
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Defaults for contexts created without options.
const (
	// DefaultPrec is the default working and display precision in
	// significant decimal digits.
	DefaultPrec = 50
	// DefaultMaxDenominator is the default bound on denominators of
	// fractions produced by approximation in ModeRational. Every decimal
	// literal with up to three fractional digits is represented exactly.
	DefaultMaxDenominator = 1000
	// DefaultMaxBits is the default limit on the size of numbers.
	DefaultMaxBits = 1 << 16
)

// guardbits is the number of bits of binary working precision beyond the
// display precision.
const guardbits = 32

// Context is a configuration for evaluating expressions. A Context is
// immutable, so it is safe to use concurrently and to evaluate any number of
// expressions in either mode.
type Context struct {
	// digits is the precision in significant decimal digits.
	digits int
	// prec is the working precision in bits of binary floats used for
	// irrational intermediate results in rational mode.
	prec uint
	// maxden is the approximation bound for rational mode.
	maxden *big.Int
	// maxbits limits numerator and denominator sizes of rationals and the
	// magnitude of decimals as a power of two.
	maxbits int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt    uint
	maxdenopt  int64
	maxbitsopt int
)

func (precopt) ctxOption()    {}
func (maxdenopt) ctxOption()  {}
func (maxbitsopt) ctxOption() {}

// Prec sets the precision of calculations and of formatted results, in
// significant decimal digits. Panics if digits is zero.
func Prec(digits uint) ContextOption {
	if digits == 0 {
		panic("calc: precision must be positive")
	}
	return precopt(digits)
}

// MaxDenominator sets the largest denominator that ModeRational may produce
// when it approximates a decimal literal or an irrational result. Panics if
// n is not positive.
func MaxDenominator(n int64) ContextOption {
	if n <= 0 {
		panic("calc: MaxDenominator " + strconv.FormatInt(n, 10) + " is not positive")
	}
	return maxdenopt(n)
}

// MaxBits sets the size limit for numbers. A rational result whose numerator
// or denominator needs more than n bits, or a decimal result whose magnitude
// is above 2^n or below 2^-n, is an ErrOverflow error. Panics if n is not
// positive.
func MaxBits(n int) ContextOption {
	if n <= 0 {
		panic("calc: MaxBits " + strconv.Itoa(n) + " is not positive")
	}
	return maxbitsopt(n)
}

// NewContext creates a new evaluation context. Options not given take their
// default values.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		digits:  DefaultPrec,
		prec:    precbits(DefaultPrec),
		maxden:  big.NewInt(DefaultMaxDenominator),
		maxbits: DefaultMaxBits,
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Later options
// override earlier ones.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			n.digits = int(opt)
			n.prec = precbits(n.digits)
		case maxdenopt:
			n.maxden = big.NewInt(int64(opt))
		case maxbitsopt:
			n.maxbits = int(opt)
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// precbits converts a precision in decimal digits to bits.
func precbits(digits int) uint {
	return uint(math.Ceil(float64(digits)*math.Log2(10))) + guardbits
}

// Prec returns the precision in significant decimal digits.
func (ctx *Context) Prec() int {
	return ctx.digits
}

// MaxDenominator returns the approximation bound for rational mode.
func (ctx *Context) MaxDenominator() *big.Int {
	return new(big.Int).Set(ctx.maxden)
}

// MaxBits returns the size limit for numbers.
func (ctx *Context) MaxBits() int {
	return ctx.maxbits
}

// Eval evaluates an expression in the given mode. The result is a *Decimal
// in ModeDecimal and a *Rational in ModeRational. If an error occurs, the
// result is nil and the error matches one of ErrDivisionByZero,
// ErrNegativeSqrt, ErrOverflow, or ErrApproximation. Panics if mode is not a
// valid Mode.
func (ctx *Context) Eval(e *Expr, mode Mode) (Value, error) {
	switch mode {
	case ModeDecimal:
		x, err := eval[*apd.Decimal](e.n, decimal{ctx})
		if err != nil {
			return nil, err
		}
		return &Decimal{x: x, digits: ctx.digits}, nil
	case ModeRational:
		x, err := eval[*big.Rat](e.n, rational{ctx})
		if err != nil {
			return nil, err
		}
		return &Rational{x: x}, nil
	default:
		panic("calc: invalid mode " + mode.String())
	}
}

// arith is the arithmetic of one numeric representation. Results never alias
// operands, and every result is within the context's limits.
type arith[T any] interface {
	num(lit string) (T, error)
	neg(x T) T
	add(x, y T) (T, error)
	sub(x, y T) (T, error)
	mul(x, y T) (T, error)
	quo(x, y T) (T, error)
	pow(x, y T) (T, error)
	sqrt(x T) (T, error)
}

// eval computes the value of the tree at n.
func eval[T any](n *node, a arith[T]) (T, error) {
	var zero T
	switch n.kind {
	case nodeNum:
		return a.num(n.text)
	case nodeNeg:
		x, err := eval(n.left, a)
		if err != nil {
			return zero, err
		}
		return a.neg(x), nil
	case nodePlus:
		return eval(n.left, a)
	case nodeCall:
		x, err := eval(n.left, a)
		if err != nil {
			return zero, err
		}
		switch n.text {
		case "sqrt":
			return a.sqrt(x)
		default:
			panic("calc: unknown function " + strconv.Quote(n.text))
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		x, err := eval(n.left, a)
		if err != nil {
			return zero, err
		}
		y, err := eval(n.right, a)
		if err != nil {
			return zero, err
		}
		switch n.kind {
		case nodeAdd:
			return a.add(x, y)
		case nodeSub:
			return a.sub(x, y)
		case nodeMul:
			return a.mul(x, y)
		case nodeDiv:
			return a.quo(x, y)
		default:
			return a.pow(x, y)
		}
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// numtext completes a literal with a leading or trailing decimal point so
// that math/big and apd accept it.
func numtext(lit string) string {
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	if strings.HasSuffix(lit, ".") {
		lit += "0"
	}
	return lit
}

// EvalString parses and evaluates src in a mode and formats the result. It
// is the single entry point for a calculator's "=" key.
func (ctx *Context) EvalString(src string, mode Mode) (Result, error) {
	return ctx.eval(strings.NewReader(src), mode)
}

func (ctx *Context) eval(src io.RuneScanner, mode Mode) (Result, error) {
	a, err := Parse(src)
	if err != nil {
		return Result{}, err
	}
	v, err := ctx.Eval(a, mode)
	if err != nil {
		return Result{}, err
	}
	return ctx.Format(v), nil
}

// Eval is a shortcut to parse an expression, evaluate it in a new context
// with the given options, and format its result.
func Eval(src io.RuneScanner, mode Mode, opts ...ContextOption) (Result, error) {
	return NewContext(opts...).eval(src, mode)
}

// EvalString is a shortcut to parse, evaluate, and format a string
// expression.
func EvalString(src string, mode Mode, opts ...ContextOption) (Result, error) {
	return Eval(strings.NewReader(src), mode, opts...)
}
