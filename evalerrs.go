package calc

import (
	"errors"
	"math/big"
	"strconv"
)

// Error categories. Every error from parsing or evaluation matches exactly
// one of these under errors.Is.
var (
	// ErrSyntax matches every SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrDivisionByZero matches division by an exact zero, including zero
	// raised to a negative power.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNegativeSqrt matches square roots of negative numbers, including
	// negative numbers raised to non-integer powers.
	ErrNegativeSqrt = errors.New("square root of negative number")
	// ErrOverflow matches results that exceed the context's size limit.
	ErrOverflow = errors.New("number out of range")
	// ErrApproximation matches failures to find a bounded fraction.
	ErrApproximation = errors.New("no rational approximation")
)

// DomainError is an error returned when an operation is applied to an
// operand outside its domain. It unwraps to one of the error categories.
type DomainError struct {
	// X is the out-of-domain operand.
	X string
	// Op is the operation, e.g. "/", "**", or "sqrt".
	Op string
	// Err is the error category.
	Err error
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Op != "" {
		r += " of " + err.Op
	}
	return r + ": " + err.Err.Error()
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

// LimitError is an error returned when a result would exceed the size limit
// set by MaxBits. It unwraps to ErrOverflow.
type LimitError struct {
	// Op is the operation that produced the result.
	Op string
	// Bits is the size of the result in bits, or 0 if the result could not
	// be represented at all.
	Bits int64
	// Max is the limit.
	Max int
}

func (err *LimitError) Error() string {
	if err.Bits <= 0 {
		return "result of " + err.Op + " out of range"
	}
	return "result of " + err.Op + " needs " + strconv.FormatInt(err.Bits, 10) + " bits, more than the limit of " + strconv.Itoa(err.Max)
}

func (err *LimitError) Unwrap() error {
	return ErrOverflow
}

// nanguard runs f, converting a big.ErrNaN panic into a DomainError with the
// given category.
func nanguard(op, x string, cat error, f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(big.ErrNaN); !ok {
			panic(r)
		}
		err = &DomainError{X: x, Op: op, Err: cat}
	}()
	f()
	return nil
}
