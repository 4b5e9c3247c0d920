package calc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// text is the literal for nodeNum and the function name for nodeCall.
	text string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal in text
	nodeCall // text is the function to call with left

	nodeNeg  // evaluate left, then negate
	nodePlus // evaluate left
	nodeAdd  // evaluate left, add right
	nodeSub  // evaluate left, sub right
	nodeMul  // evaluate left, mul right
	nodeDiv  // evaluate left, div by right
	nodePow  // evaluate left, exp by right
)

//go:generate stringer -type=nodeKind -trimprefix=node

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes a fully parenthesized form of the tree that parses back to the
// same tree. With alt, operators use their typographic aliases.
func (n *node) fmt(b *strings.Builder, alt bool) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, alt)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.text)
	case nodeCall:
		if alt && n.text == "sqrt" {
			b.WriteString("√")
		} else {
			b.WriteString(n.text)
		}
		n.left.fmt(b, alt)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, alt)
	case nodePlus:
		b.WriteByte('+')
		n.left.fmt(b, alt)
	case nodeAdd:
		n.left.fmt(b, alt)
		b.WriteString(" + ")
		n.right.fmt(b, alt)
	case nodeSub:
		n.left.fmt(b, alt)
		b.WriteString(" - ")
		n.right.fmt(b, alt)
	case nodeMul:
		n.left.fmt(b, alt)
		if !alt {
			b.WriteString(" * ")
		} else {
			b.WriteString(" × ")
		}
		n.right.fmt(b, alt)
	case nodeDiv:
		n.left.fmt(b, alt)
		if !alt {
			b.WriteString(" / ")
		} else {
			b.WriteString(" ÷ ")
		}
		n.right.fmt(b, alt)
	case nodePow:
		n.left.fmt(b, alt)
		if !alt {
			b.WriteString(" ** ")
		} else {
			b.WriteString(" ^ ")
		}
		n.right.fmt(b, alt)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
