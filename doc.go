// Package calc implements a safe arithmetic calculator with arbitrary-precision
// decimal and exact rational modes.
//
// The language is closed: numbers like 12, 1.5, .5, and 5. combine with
// + - * / and ** (right-associative), parentheses, and sqrt(x). A sign binds to
// the operand after it, so "-2**2" is 4, and signs nest, so "--2" is 2. The
// typographic forms × ÷ ^ and √ are the same tokens as * / ** and sqrt. There
// are no names other than sqrt, no exponent notation, and no way for input to
// do anything but arithmetic.
//
// Parsing produces an Expr, which a Context evaluates in either ModeDecimal or
// ModeRational. Decimal evaluation is in base 10, so 0.1+0.2-0.3 is exactly
// 0. Rational evaluation is exact, except that decimal literals and
// irrational results become the closest fraction with a bounded denominator.
// A Context formats values as a Result showing the fraction together with its
// decimal expansion.
//
package calc
