package trs

import (
	"strconv"
	"strings"
)

// Binding strength of printed forms; an operand binding weaker than its
// context is parenthesised.
const (
	precOr = 10 * (iota + 1)
	precAnd
	precEq
	precAdd
	precNeg // negated operands and d/dx, which take the rest of a term
	precMul
	precPow
	precPrimary
)

func (l *Leaf) String() string { return Print(l) }
func (n *Node) String() string { return Print(n) }

// Print renders e in infix notation. Parse reads the output back into an
// equal tree as long as chains of the same operator nest to the left, which
// is how Parse and the rules build them.
func Print(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, 0)
	return b.String()
}

func precedence(e Expr) int {
	if e.IsNegated() {
		return precNeg
	}
	n, ok := e.(*Node)
	if !ok {
		return precPrimary
	}
	switch n.Op {
	case OpOr:
		return precOr
	case OpAnd:
		return precAnd
	case OpEq:
		return precEq
	case OpAdd:
		return precAdd
	case OpMul, OpDiv:
		return precMul
	case OpPow:
		return precPow
	case OpDer:
		if n.Len() > 1 {
			return precNeg
		}
	}
	return precPrimary
}

// writeExpr writes e, in parentheses when it binds weaker than min.
func writeExpr(b *strings.Builder, e Expr, min int) {
	if precedence(e) < min {
		b.WriteByte('(')
		writeExpr(b, e, 0)
		b.WriteByte(')')
		return
	}
	if e.IsNegated() {
		b.WriteByte('-')
		writeExpr(b, Positive(e), precMul)
		return
	}
	switch e := e.(type) {
	case *Leaf:
		writeLeaf(b, e)
	case *Node:
		writeNode(b, e)
	}
}

func writeLeaf(b *strings.Builder, l *Leaf) {
	switch l.Kind {
	case KindInteger:
		b.WriteString(l.Int.String())
	case KindFloat:
		s := strconv.FormatFloat(l.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		b.WriteString(s)
	default:
		b.WriteString(l.Name)
	}
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Op {
	case OpAdd:
		writeSum(b, n)
	case OpMul:
		writeProduct(b, n)
	case OpDiv:
		writeBinary(b, n, " / ", precMul, precMul+1)
	case OpPow:
		writeBinary(b, n, "^", precPrimary, precPow)
	case OpEq:
		writeBinary(b, n, " = ", precEq+1, precEq+1)
	case OpAnd:
		writeChain(b, n, " ^^ ", precAnd)
	case OpOr:
		writeChain(b, n, " vv ", precOr)
	case OpSin, OpCos, OpTan, OpSqrt:
		b.WriteString(n.Op.String())
		writeArgs(b, n.Children...)
	case OpAbs:
		b.WriteByte('|')
		writeExpr(b, n.Arg(0), 0)
		b.WriteByte('|')
	case OpLog:
		writeLog(b, n)
	case OpDer:
		writeDerivative(b, n)
	case OpInt:
		writeIntegral(b, n)
	case OpIntDef:
		b.WriteByte('[')
		writeExpr(b, n.Arg(0), 0)
		b.WriteString("]_")
		writeBound(b, n.Arg(2))
		b.WriteByte('^')
		writeBound(b, n.Arg(3))
	default:
		b.WriteString(n.Op.String())
		writeArgs(b, n.Children...)
	}
}

func writeArgs(b *strings.Builder, args ...Expr) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, a, 0)
	}
	b.WriteByte(')')
}

func writeBinary(b *strings.Builder, n *Node, op string, left, right int) {
	writeExpr(b, n.Arg(0), left)
	for _, c := range n.Children[1:] {
		b.WriteString(op)
		writeExpr(b, c, right)
	}
}

func writeChain(b *strings.Builder, n *Node, op string, prec int) {
	writeBinary(b, n, op, prec, prec+1)
}

// writeSum prints negated terms as subtractions: a + -b is a - b.
func writeSum(b *strings.Builder, n *Node) {
	for i, t := range n.Children {
		switch {
		case i == 0:
			writeExpr(b, t, precAdd)
		case t.IsNegated():
			b.WriteString(" - ")
			writeExpr(b, Positive(t), precMul)
		default:
			b.WriteString(" + ")
			writeExpr(b, t, precAdd+1)
		}
	}
}

// writeProduct juxtaposes factors where that reads back the same (2a,
// a(b + c), sin(x)cos(x)) and falls back to " * " otherwise.
func writeProduct(b *strings.Builder, n *Node) {
	var out strings.Builder
	for i, f := range n.Children {
		min := precMul
		if i > 0 || f.IsNegated() {
			min = precMul + 1
		}
		var fb strings.Builder
		writeExpr(&fb, f, min)
		s := fb.String()
		if i > 0 && !juxtaposable(out.String(), s) {
			out.WriteString(" * ")
		}
		out.WriteString(s)
	}
	b.WriteString(out.String())
}

// juxtaposable reports whether right can follow left without an operator.
func juxtaposable(left, right string) bool {
	if left == "" || right == "" {
		return false
	}
	r := right[0]
	if r != '(' && !isLetter(r) || strings.HasPrefix(right, "d/d") {
		return false
	}
	i := len(left)
	for i > 0 && isLetter(left[i-1]) {
		i--
	}
	if i < len(left) && i > 0 && left[i-1] == ' ' {
		// the trailing letters may be the dx of an integral or a divisor
		return false
	}
	if r == '(' {
		return true
	}
	// the letters meeting at the seam must split the same way when joined
	j := 0
	for j < len(right) && isLetter(right[j]) {
		j++
	}
	tail, head := left[i:], right[:j]
	if tail == "" {
		return true
	}
	joined := splitLetters(tail + head)
	separate := append(splitLetters(tail), splitLetters(head)...)
	if len(joined) != len(separate) {
		return false
	}
	for k := range joined {
		if joined[k] != separate[k] {
			return false
		}
	}
	return true
}

func writeLog(b *strings.Builder, n *Node) {
	arg, base := n.Arg(0), n.Arg(1)
	switch {
	case isIdent(base, ConstE) && !base.IsNegated():
		b.WriteString("ln")
		writeArgs(b, arg)
	case isValue(base, DefaultLogBase) && isInteger(base):
		b.WriteString("log")
		writeArgs(b, arg)
	case base.IsLeaf() && !base.IsNegated():
		b.WriteString("log_")
		writeLeaf(b, base.(*Leaf))
		writeArgs(b, arg)
	default:
		b.WriteString("log")
		writeArgs(b, arg, base)
	}
}

func writeDerivative(b *strings.Builder, n *Node) {
	if n.Len() == 1 {
		b.WriteByte('[')
		writeExpr(b, n.Arg(0), 0)
		b.WriteString("]'")
		return
	}
	b.WriteString("d/d")
	writeExpr(b, n.Arg(1), 0)
	b.WriteByte(' ')
	f := n.Arg(0)
	if f.IsLeaf() && !f.IsNegated() {
		writeExpr(b, f, 0)
		return
	}
	b.WriteByte('(')
	writeExpr(b, f, 0)
	b.WriteByte(')')
}

func writeIntegral(b *strings.Builder, n *Node) {
	b.WriteString("int")
	if n.Len() >= 4 {
		b.WriteByte('_')
		writeBound(b, n.Arg(2))
		b.WriteByte('^')
		writeBound(b, n.Arg(3))
	}
	b.WriteByte(' ')
	writeExpr(b, n.Arg(0), precAdd)
	b.WriteString(" d")
	writeExpr(b, n.Arg(1), 0)
}

func writeBound(b *strings.Builder, e Expr) {
	if l, ok := e.(*Leaf); ok {
		if l.Negated {
			b.WriteByte('-')
		}
		writeLeaf(b, l)
		return
	}
	b.WriteByte('(')
	writeExpr(b, e, 0)
	b.WriteByte(')')
}
