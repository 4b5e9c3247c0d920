package calc

import (
	"io"
	"strings"
)

// Expr    = Term { ('+' | '-') Term }
// Term    = Factor { ('*' | '/') Factor }
// Factor  = Unary [ '**' Factor ]
// Unary   = [ '+' | '-' ] ( Atom | 'sqrt' '(' Expr ')' )
// Atom    = num | '(' Expr ')'
//
// ^ is the same token as **, × as *, ÷ as /, and √ as sqrt.

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is immutable and may be evaluated any number of times in either mode.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order. Any input outside the grammar results in an
// error implementing SyntaxError.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{maxdepth: DefaultMaxDepth}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseexpr(scan, &p)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		return nil, &TokenError{Col: tok.pos, Text: tok.text}
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseexpr parses a sum. If there is no error, then parseexpr pushes the
// last token it scans, including EOF. The same holds for every parse function
// that ends on a token it does not use.
func parseexpr(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseterm(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		op := binop(tok)
		if op != nodeAdd && op != nodeSub {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parseterm(scan, p)
		if err != nil {
			return nil, err
		}
		n = &node{kind: op, left: n, right: rhs}
	}
}

// parseterm parses a product.
func parseterm(scan *lexer, p *parsectx) (*node, error) {
	n, err := parsefactor(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		op := binop(tok)
		if op != nodeMul && op != nodeDiv {
			scan.push(tok)
			return n, nil
		}
		rhs, err := parsefactor(scan, p)
		if err != nil {
			return nil, err
		}
		n = &node{kind: op, left: n, right: rhs}
	}
}

// parsefactor parses a power. Exponentiation is right-associative, so the
// exponent is itself a factor.
func parsefactor(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseunary(scan, p)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	if binop(tok) != nodePow {
		scan.push(tok)
		return n, nil
	}
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	rhs, err := parsefactor(scan, p)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: n, right: rhs}, nil
}

// parseunary parses an operand with any number of signs, so --2 is 2. Each
// sign counts toward the nesting depth. An operand is expected here, so
// whitespace that would end the expression elsewhere is skipped.
func parseunary(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	if sign := unop(tok); sign != nodeNone {
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()
		n, err := parseunary(scan, p)
		if err != nil {
			return nil, err
		}
		return &node{kind: sign, left: n}, nil
	}
	if tok.kind == tokenIdent {
		return parsecall(scan, p, tok)
	}
	return parseatom(scan, p, tok)
}

// parseatom parses a number or a parenthesized expression beginning with tok.
func parseatom(scan *lexer, p *parsectx, tok lexToken) (*node, error) {
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, text: tok.text}, nil
	case tokenOpen:
		return parseparen(scan, p, tok)
	case tokenOp:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text}
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parseparen parses a parenthesized expression whose open parenthesis is
// open.
func parseparen(scan *lexer, p *parsectx, open lexToken) (*node, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	n, err := parseexpr(scan, p)
	if err != nil {
		return nil, err
	}
	switch end := scan.must(); end.kind {
	case tokenClose:
		return n, nil
	case tokenEOF:
		return nil, &BracketError{Col: end.pos, Left: open.text}
	default:
		return nil, &TokenError{Col: end.pos, Text: end.text, Want: ")"}
	}
}

// parsecall parses a function call. sqrt is the only function.
func parsecall(scan *lexer, p *parsectx, name lexToken) (*node, error) {
	if name.text != "sqrt" {
		return nil, &NameError{Col: name.pos, Name: name.text}
	}
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOpen {
		return nil, &CallError{Col: tok.pos, Func: name.text}
	}
	arg, err := parseparen(scan, p, tok)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, text: name.text, left: arg}, nil
}

// binop gets the node kind for a binary operator token. If the token is not
// a binary operator, the result is nodeNone.
func binop(tok lexToken) nodeKind {
	if tok.kind != tokenOp {
		return nodeNone
	}
	switch tok.text {
	case "+":
		return nodeAdd
	case "-":
		return nodeSub
	case "*":
		return nodeMul
	case "/":
		return nodeDiv
	case "**":
		return nodePow
	default:
		return nodeNone
	}
}

// unop gets the node kind for a sign token. If the token is not a sign, the
// result is nodeNone.
func unop(tok lexToken) nodeKind {
	if tok.kind != tokenOp {
		return nodeNone
	}
	switch tok.text {
	case "+":
		return nodePlus
	case "-":
		return nodeNeg
	default:
		return nodeNone
	}
}

// String creates a string representation of the parsed expression with every
// term parenthesized. The result parses to the same expression.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, true)
	return b.String()
}
