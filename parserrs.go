package calc

import "strconv"

// SyntaxError is an error with position information. Every error resulting
// from input that is not in the language implements SyntaxError, and every
// such error matches ErrSyntax under errors.Is.
type SyntaxError interface {
	error
	// Pos returns the position of the error as the 1-based column, in runes,
	// of the token that caused the error. Errors at the end of the input
	// report the column just past the last rune.
	Pos() int
	// Reason describes the error without position information.
	Reason() string
}

// syntax is embedded in each syntax error type to make it match ErrSyntax.
type syntax struct{}

func (syntax) Is(target error) bool {
	return target == ErrSyntax
}

// LexError indicates an invalid token.
type LexError struct {
	syntax
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string if a token kind hadn't been decided.
	Kind string
	// Col is the position of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *LexError) Reason() string {
	if err.Kind == "" {
		return "invalid token " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating an operator where an operand was
// expected, e.g. the second operator in "1 + * 2" or "--2".
type OperatorError struct {
	syntax
	// Col is the position of the operator.
	Col int
	// Operator is the operator token.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *OperatorError) Reason() string {
	return "expected a number, found operator " + strconv.Quote(err.Operator)
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced parentheses.
type BracketError struct {
	syntax
	// Col is the position of the unmatched bracket or of the end of input.
	Col int
	// Left is the opening bracket, or empty if there is none.
	Left string
	// Right is the closing bracket, or empty if there is none.
	Right string
}

func (err *BracketError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *BracketError) Reason() string {
	if err.Left == "" {
		return "close bracket " + err.Right + " with no open bracket"
	}
	return "open bracket " + err.Left + " with no close bracket"
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating a missing operand, as in "",
// "1 +", or "()".
type EmptyExpressionError struct {
	syntax
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or empty at the end of
	// input.
	End string
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *EmptyExpressionError) Reason() string {
	if err.End == "" {
		if err.Col <= 1 {
			return "no expression"
		}
		return "no expression at end"
	}
	return "no expression up to " + strconv.Quote(err.End)
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token where the grammar allows none,
// like the second number in "1 2".
type TokenError struct {
	syntax
	// Col is the position of the token.
	Col int
	// Text is the token.
	Text string
	// Want is the token that was expected instead, if there is exactly one.
	Want string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *TokenError) Reason() string {
	if err.Want != "" {
		return "expected " + strconv.Quote(err.Want) + ", found " + strconv.Quote(err.Text)
	}
	return "unexpected " + strconv.Quote(err.Text) + " after complete expression"
}

func (err *TokenError) Pos() int {
	return err.Col
}

// NameError is an error indicating a name other than sqrt. There are no
// variables.
type NameError struct {
	syntax
	// Col is the position of the name.
	Col int
	// Name is the name that was used.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *NameError) Reason() string {
	return "unknown name " + strconv.Quote(err.Name)
}

func (err *NameError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function name that is not followed by a
// parenthesized argument.
type CallError struct {
	syntax
	// Col is the position of the token following the function name.
	Col int
	// Func is the function name.
	Func string
}

func (err *CallError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *CallError) Reason() string {
	return "cannot call " + err.Func + " without a parenthesized argument"
}

func (err *CallError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression nested more deeply than
// the parser allows.
type DepthError struct {
	syntax
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, err.Reason())
}

func (err *DepthError) Reason() string {
	return "expression nested more than " + strconv.Itoa(err.Max) + " levels deep"
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

var (
	_ SyntaxError = (*LexError)(nil)
	_ SyntaxError = (*OperatorError)(nil)
	_ SyntaxError = (*BracketError)(nil)
	_ SyntaxError = (*EmptyExpressionError)(nil)
	_ SyntaxError = (*TokenError)(nil)
	_ SyntaxError = (*NameError)(nil)
	_ SyntaxError = (*CallError)(nil)
	_ SyntaxError = (*DepthError)(nil)
)
