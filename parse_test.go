package calc

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.text != m.text {
			return n, m
		}
	case nodeCall:
		if n.text != m.text {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg, nodePlus:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestOperatorsLex(t *testing.T) {
	for _, r := range Operators {
		scan := lex(strings.NewReader(string(r)))
		tok, err := scan.next("")
		if err != nil {
			t.Errorf("lexing %c: %v", r, err)
			continue
		}
		if binop(tok) == nodeNone && unop(tok) == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(1)", "1"},
		{"multi", "((((1))))", "1"},
		{"spaces", "  1 \n+\t2 ", "1+2"},

		{"plus", "+1", "(+(1))"},
		{"neg", "-1", "(-(1))"},
		{"doubleneg", "--2", "(-(-(2)))"},
		{"signs", "1+-+2", "1+(-(+(2)))"},
		{"negneg-pow", "--2**2", "((-(-2))**2)"},
		{"add", "1+2", "((1)+(2))"},
		{"sub", "1-2", "((1)-(2))"},
		{"mul", "1*2", "((1)*(2))"},
		{"div", "1/2", "((1)/(2))"},
		{"pow", "1**2", "((1)**(2))"},
		{"caret", "1^2", "1**2"},
		{"altmul", "1×2", "1*2"},
		{"altdiv", "1÷2", "1/2"},
		{"root", "√(4)", "sqrt(4)"},
		{"sqrt", "sqrt(4)", "sqrt((4))"},

		{"add4", "1+2+3+4", "((1+2)+3)+4"},
		{"sub4", "1-2-3-4", "((1-2)-3)-4"},
		{"mul4", "1*2*3*4", "((1*2)*3)*4"},
		{"div4", "1/2/3/4", "((1/2)/3)/4"},
		{"pow4", "1**2**3**4", "1**(2**(3**4))"},
		{"caret4", "1^2^3^4", "1**(2**(3**4))"},

		{"negpow", "-2**2", "(-2)**2"},
		{"powneg", "2**-1", "2**(-1)"},
		{"negpowneg", "-2**-2**-2", "(-2)**((-2)**(-2))"},
		{"asc", "1+2*3**4", "1+(2*(3**4))"},
		{"desc", "1**2*3+4", "((1**2)*3)+4"},
		{"ascdesc", "1+2*3**4**5*6+7", "(1+((2*(3**(4**5)))*6))+7"},
		{"negsub", "-1-1", "(-1)-1"},
		{"subplus", "1-+2", "1-(+2)"},
		{"negsqrt", "-sqrt(4)", "-(sqrt(4))"},
		{"sqrtpow", "sqrt(4)**2", "(sqrt(4))**2"},
		{"sqrtsqrt", "sqrt(sqrt(16))", "sqrt((sqrt((16))))"},
		{"decimals", ".5+5.", "(.5)+(5.)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "num",
			src:  "12.50",
			n:    &node{kind: nodeNum, text: "12.50"},
		},
		{
			name: "leading-dot",
			src:  ".5",
			n:    &node{kind: nodeNum, text: ".5"},
		},
		{
			name: "negpow",
			src:  "-2**3",
			n: &node{
				kind: nodePow,
				left: &node{
					kind: nodeNeg,
					left: &node{kind: nodeNum, text: "2"},
				},
				right: &node{kind: nodeNum, text: "3"},
			},
		},
		{
			name: "sqrt",
			src:  "sqrt(1+2)",
			n: &node{
				kind: nodeCall,
				text: "sqrt",
				left: &node{
					kind:  nodeAdd,
					left:  &node{kind: nodeNum, text: "1"},
					right: &node{kind: nodeNum, text: "2"},
				},
			},
		},
		{
			name: "root",
			src:  "√(2)",
			n: &node{
				kind: nodeCall,
				text: "sqrt",
				left: &node{kind: nodeNum, text: "2"},
			},
		},
		{
			name: "pow",
			src:  "2^3**4",
			n: &node{
				kind: nodePow,
				left: &node{kind: nodeNum, text: "2"},
				right: &node{
					kind:  nodePow,
					left:  &node{kind: nodeNum, text: "3"},
					right: &node{kind: nodeNum, text: "4"},
				},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	srcs := []string{"1+2*3", "-2**-2**-2", "sqrt(2)/3 - .5", "1÷3×3^2"}
	for _, src := range srcs {
		a, err := ParseString(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		b, err := ParseString(src)
		if err != nil {
			t.Fatalf("%q failed to parse the second time: %v", src, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("%q parsed differently: %v then %v", src, a.n, b.n)
		}
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "(1)"},
		{"neg", "-1", "(-(1))"},
		{"plus", "+1", "(+(1))"},
		{"prec", "1+2*3", "((1) + ((2) × (3)))"},
		{"div", "1/2", "((1) ÷ (2))"},
		{"pow", "2**3", "((2) ^ (3))"},
		{"sqrt", "sqrt(4)", "(√(4))"},
		{"negpow", "-2**2", "((-(2)) ^ (2))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if s := a.String(); s != c.want {
				t.Errorf("%q formats as %q, want %q", c.src, s, c.want)
			}
		})
	}
}

func TestExprStringRoundTrip(t *testing.T) {
	srcs := []string{
		"1",
		"-1",
		"+1",
		"1+2",
		"1-2-3-4",
		"1*2/3",
		"1**2**3**4",
		"-2**-2**-2",
		"1+2*3**4**5*6+7",
		"sqrt(sqrt(16))",
		"-sqrt(2)**2",
		"√(2)÷3×4^5",
		".5 - 5.",
		"1-+2",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			a, err := ParseString(src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", src, err)
			}
			s := a.String()
			b, err := ParseString(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", src, a.n, d, s, b.n, e)
			}
			// The plain form must round trip as well.
			p := a.n.String()
			c, err := ParseString(p)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", src, p, err)
			}
			if d, e := a.n.diff(c.n); d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", src, a.n, d, p, c.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  SyntaxError
		pos  int
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\bno\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"blank", " \t ", new(EmptyExpressionError), 4, []string{`(?i)\bno\b.*\bexpression\b`}, nil},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\bno\b.*\bexpression\b`, `\)`}, nil},
		{"emptysqrt", "sqrt()", new(EmptyExpressionError), 6, []string{`(?i)\bno\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "1 +", new(EmptyExpressionError), 4, []string{`(?i)\bno\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "1*-", new(EmptyExpressionError), 4, []string{`(?i)\bno\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"consecutive", "1 + * 2", new(OperatorError), 5, []string{`(?i)\boperator\b`, `"\*"`}, nil},
		{"leading", "*1", new(OperatorError), 1, []string{`(?i)\boperator\b`, `"\*"`}, nil},
		{"signs-only", "--", new(EmptyExpressionError), 3, []string{`(?i)\bno\b.*\bexpression\b`}, nil},
		{"sign-op", "1+-*2", new(OperatorError), 4, []string{`(?i)\boperator\b`, `"\*"`}, nil},
		{"left", "(1+2", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"nested-left", "((1)", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "1+2)", new(BracketError), 4, []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"sqrt-left", "sqrt(4", new(BracketError), 7, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"adjacent", "1 2", new(TokenError), 3, []string{`"2"`}, nil},
		{"adjacent-paren", "(1)(2)", new(TokenError), 4, []string{`"\("`}, nil},
		{"implicit-mul", "2(3)", new(TokenError), 2, []string{`"\("`}, nil},
		{"paren-token", "(1 2)", new(TokenError), 4, []string{`expected "\)"`, `"2"`}, nil},
		{"import", "__import__('os')", new(NameError), 1, []string{`(?i)\bname\b`, `__import__`}, nil},
		{"assign", "a = 1", new(NameError), 1, []string{`(?i)\bname\b`, `"a"`}, nil},
		{"attr", "x.y", new(NameError), 1, []string{`"x"`}, nil},
		{"pi", "pi", new(NameError), 1, []string{`"pi"`}, nil},
		{"sqrt-bare", "sqrt 9", new(CallError), 6, []string{`(?i)\bcall\b`, `\bsqrt\b`}, nil},
		{"sqrt-eof", "sqrt", new(CallError), 5, []string{`(?i)\bcall\b`, `\bsqrt\b`}, nil},
		{"root-bare", "√9", new(CallError), 2, []string{`(?i)\bcall\b`, `\bsqrt\b`}, nil},
		{"exponent", "1e5", new(LexError), 2, []string{`(?i)\bnumber\b`, `"1e"`}, nil},
		{"dots", "1.2.3", new(LexError), 4, []string{`(?i)\bnumber\b`, `"1\.2\."`}, nil},
		{"dot", ".", new(LexError), 1, []string{`(?i)\bnumber\b`}, nil},
		{"percent", "1 % 2", new(LexError), 3, []string{`%`}, nil},
		{"square", "[1]", new(LexError), 1, []string{`\[`}, nil},
		{"comma", "1, 2", new(LexError), 2, []string{`,`}, nil},
		{"lexer-deep", "2**sqrt(-$)", new(LexError), 10, []string{`\$`}, nil},

		{"op-paren", "(2*)", new(EmptyExpressionError), 4, []string{`\)`}, nil},
		{"haskell", "(+)", new(EmptyExpressionError), 3, []string{`\)`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v does not match ErrSyntax", err)
			}
			var serr SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("error %v is not a SyntaxError", err)
			}
			if serr.Pos() != c.pos {
				t.Errorf("error %v at %d, want %d", err, serr.Pos(), c.pos)
			}
			msg := err.Error()
			if !strings.HasPrefix(msg, fmt.Sprintf("%d: ", c.pos)) {
				t.Errorf("error message %q does not start with its position", msg)
			}
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestStopOn(t *testing.T) {
	src := strings.NewReader("1+2\n3 *\n4\n")
	want := []string{"1+2", "3*4"}
	for _, w := range want {
		a, err := Parse(src, StopOn('\n'))
		if err != nil {
			t.Fatalf("parsing for %q: %v", w, err)
		}
		b, err := ParseString(w)
		if err != nil {
			t.Fatalf("parsing %q: %v", w, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("mismatched AST: want %v, got %v", b.n, a.n)
		}
	}
	if src.Len() != 0 {
		t.Errorf("%d bytes left unparsed", src.Len())
	}
}

func TestStopOnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StopOn with a non-space rune did not panic")
		}
	}()
	StopOn('\n', 'x')
}

func TestMaxDepth(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		depth int
		pos   int
	}{
		{"parens-ok", "((1))", 2, 0},
		{"parens", "(((1)))", 2, 3},
		{"pow-ok", "2**2", 1, 0},
		{"pow", "2**2**2", 1, 5},
		{"sqrt", "sqrt(sqrt(1))", 1, 10},
		{"signs-ok", "--1", 2, 0},
		{"signs", "---1", 2, 3},
		{"default", strings.Repeat("(", DefaultMaxDepth+1) + "1" + strings.Repeat(")", DefaultMaxDepth+1), DefaultMaxDepth, DefaultMaxDepth + 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src, MaxDepth(c.depth))
			if c.pos == 0 {
				if err != nil {
					t.Errorf("%q failed to parse: %v", c.src, err)
				}
				return
			}
			var derr *DepthError
			if !errors.As(err, &derr) {
				t.Fatalf("wrong error from %q: want *DepthError, got %T (%v)", c.src, err, err)
			}
			if derr.Pos() != c.pos || derr.Max != c.depth {
				t.Errorf("wrong error from %q: %v", c.src, err)
			}
		})
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(MaxDepth(1))
	if _, err := ParseString("(1)", preset); err != nil {
		t.Errorf("preset rejected shallow input: %v", err)
	}
	if _, err := ParseString("((1))", preset); !errors.Is(err, ErrSyntax) {
		t.Errorf("preset accepted deep input: %v", err)
	}
	// Options after a preset override it.
	if _, err := ParseString("((1))", preset, MaxDepth(2)); err != nil {
		t.Errorf("option after preset did not apply: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("preset after non-default option did not panic")
		}
	}()
	ParseString("1", MaxDepth(3), preset)
}

func TestParseNoFunctionNodes(t *testing.T) {
	a, err := ParseString("1+2*3-4/5**6")
	if err != nil {
		t.Fatal(err)
	}
	if a.n.haskind(nodeCall) {
		t.Errorf("%v has a call node", a.n)
	}
	b, err := ParseString("1+sqrt(2)")
	if err != nil {
		t.Fatal(err)
	}
	if !b.n.haskind(nodeCall) {
		t.Errorf("%v has no call node", b.n)
	}
}

func BenchmarkParse(b *testing.B) {
	src := "-(1.5 + 2**10) * sqrt(3/4) - 5 ÷ (6 - 7^-2)"
	r := strings.NewReader(src)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Reset(src)
		if _, err := Parse(r); err != nil {
			b.Fatal(err)
		}
	}
}
