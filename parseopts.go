package calc

import (
	"strconv"
	"unicode"
)

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 256

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	eofopt   string
	depthopt int
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// wseof is a string containing the whitespace characters that trigger an
	// EOF token from the lexer.
	wseof string
	// depth is the current nesting depth.
	depth int
	// maxdepth is the nesting limit.
	maxdepth int
}

// enter increases the nesting depth, returning an error positioned at tok if
// that exceeds the limit.
func (p *parsectx) enter(tok lexToken) error {
	p.depth++
	if p.depth > p.maxdepth {
		return &DepthError{Col: tok.pos, Max: p.maxdepth}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// StopOn tells the parser to treat a list of whitespace characters as ending
// the expression. Whitespace does not end an expression where an operand is
// expected, e.g. at the beginning of an expression or following an operator
// or open parenthesis. This allows parsing a stream of expressions one per
// line.
//
// StopOn overrides the effect of any previous StopOn in the parsing options,
// including in presets. With no arguments, StopOn produces the default
// termination behavior, which is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		if !unicode.IsSpace(r) {
			panic("calc: cannot stop on " + strconv.QuoteRune(r))
		}
		if have(r) {
			continue
		}
		v = append(v, r)
	}
	return eofopt(v)
}

func (o eofopt) parseOption(p parsectx) parsectx {
	p.wseof = string(o)
	return p
}

// MaxDepth sets the limit on how deeply parentheses, sqrt calls, and chains
// of ** may nest. Panics if n is not positive.
func MaxDepth(n int) ParseOption {
	if n <= 0 {
		panic("calc: MaxDepth " + strconv.Itoa(n) + " is not positive")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := parsectx{maxdepth: DefaultMaxDepth}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.wseof != "" || p.maxdepth != DefaultMaxDepth {
		panic("calc: preset applied to non-default parse config")
	}
	p.wseof = o.wseof
	p.maxdepth = o.maxdepth
	return p
}
