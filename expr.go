// Package trs is a term rewriting system for algebraic and analytic
// expressions.
//
// An expression is a tree of leaves (integers, floats, identifiers) and
// operator nodes, each carrying a negation flag. For any tree the engine
// enumerates every applicable rewrite step, ranks them with an explicit
// priority configuration, applies the best one, rewrites to a fixpoint, and
// validates whether one expression can be rewritten into another.
//
// Design goals:
//   - Exact integer arithmetic (math/big), inexact floats only when given
//   - Deterministic possibility order and suggestion
//   - Trees handed to the engine are never modified in place
//   - JSON and tool-call friendly thin API
package trs

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Operators
// ============================================================

// Op is an operator code of an expression node.
type Op int

const (
	OpAdd Op = iota + 1
	OpMul
	OpDiv
	OpPow
	// OpNeg never appears on a node; it keys the rules that apply to
	// negated nodes in a RuleTable.
	OpNeg
	OpAbs
	OpSqrt
	OpSin
	OpCos
	OpTan
	OpLog
	OpDer
	OpInt
	OpIntDef
	OpEq
	OpAnd
	OpOr
)

var opNames = map[Op]string{
	OpAdd:    "add",
	OpMul:    "mul",
	OpDiv:    "div",
	OpPow:    "pow",
	OpNeg:    "neg",
	OpAbs:    "abs",
	OpSqrt:   "sqrt",
	OpSin:    "sin",
	OpCos:    "cos",
	OpTan:    "tan",
	OpLog:    "log",
	OpDer:    "der",
	OpInt:    "int",
	OpIntDef: "intdef",
	OpEq:     "eq",
	OpAnd:    "and",
	OpOr:     "or",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// ParseOp maps an operator name as produced by Op.String back to its code.
func ParseOp(name string) (Op, bool) {
	for op, s := range opNames {
		if s == name {
			return op, true
		}
	}
	return 0, false
}

// IsNary reports whether the operator is associative, i.e. forms scopes.
func (o Op) IsNary() bool {
	return o == OpAdd || o == OpMul || o == OpAnd || o == OpOr
}

// Special identifiers.
const (
	ConstPi       = "pi"
	ConstE        = "e"
	ConstInfinity = "oo"
)

// DefaultLogBase is the base of log without an explicit base.
const DefaultLogBase = 10

// ============================================================
// Expr
// ============================================================

// Expr is either a *Leaf or a *Node.
type Expr interface {
	IsLeaf() bool
	IsNegated() bool
	// WithNegation returns a shallow copy with the negation flag set to neg.
	WithNegation(neg bool) Expr
	// Equal is strict structural equality: operators, child order, leaf
	// values and negation flags must all match.
	Equal(other Expr) bool
	// Key is a structural fingerprint; Equal trees have equal keys.
	Key() string
	Clone() Expr
	String() string
}

// Negate toggles the negation flag of e.
func Negate(e Expr) Expr { return e.WithNegation(!e.IsNegated()) }

// Positive returns e without negation.
func Positive(e Expr) Expr { return e.WithNegation(false) }

// negateIf toggles the negation of e when flag is set.
func negateIf(e Expr, flag bool) Expr {
	if flag {
		return Negate(e)
	}
	return e
}

// ============================================================
// Leaf
// ============================================================

// Kind distinguishes the leaf payloads.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindIdentifier
)

// Leaf holds a number magnitude or an identifier. The sign of a number is
// carried by Negated; Int and Float are never negative.
type Leaf struct {
	Kind    Kind
	Int     *big.Int
	Float   float64
	Name    string
	Negated bool
}

// Int returns an integer leaf for a signed value.
func Int(v int64) *Leaf { return BigInt(big.NewInt(v)) }

// BigInt returns an integer leaf for a signed value.
func BigInt(v *big.Int) *Leaf {
	m := new(big.Int).Abs(v)
	return &Leaf{Kind: KindInteger, Int: m, Negated: v.Sign() < 0}
}

// Float returns a float leaf for a signed value.
func Float(v float64) *Leaf {
	if v < 0 {
		return &Leaf{Kind: KindFloat, Float: -v, Negated: true}
	}
	return &Leaf{Kind: KindFloat, Float: v}
}

// Ident returns an identifier leaf.
func Ident(name string) *Leaf { return &Leaf{Kind: KindIdentifier, Name: name} }

func (l *Leaf) IsLeaf() bool    { return true }
func (l *Leaf) IsNegated() bool { return l.Negated }

func (l *Leaf) WithNegation(neg bool) Expr {
	c := *l
	c.Negated = neg
	return &c
}

func (l *Leaf) Clone() Expr {
	c := *l
	if l.Int != nil {
		c.Int = new(big.Int).Set(l.Int)
	}
	return &c
}

func (l *Leaf) IsNumeric() bool    { return l.Kind != KindIdentifier }
func (l *Leaf) IsInteger() bool    { return l.Kind == KindInteger }
func (l *Leaf) IsIdentifier() bool { return l.Kind == KindIdentifier }

// IsVariable reports whether the leaf is an identifier other than the
// special constants pi, e and oo.
func (l *Leaf) IsVariable() bool {
	return l.Kind == KindIdentifier && !isConstantName(l.Name)
}

func isConstantName(name string) bool {
	return name == ConstPi || name == ConstE || name == ConstInfinity
}

// Signed returns the signed integer value of an integer leaf.
func (l *Leaf) Signed() *big.Int {
	v := new(big.Int).Set(l.Int)
	if l.Negated {
		v.Neg(v)
	}
	return v
}

// Float64 returns the signed value of a numeric leaf.
func (l *Leaf) Float64() float64 {
	var v float64
	switch l.Kind {
	case KindInteger:
		v, _ = new(big.Float).SetInt(l.Int).Float64()
	case KindFloat:
		v = l.Float
	}
	if l.Negated {
		return -v
	}
	return v
}

func (l *Leaf) sameValue(o *Leaf) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case KindInteger:
		return l.Int.Cmp(o.Int) == 0
	case KindFloat:
		return l.Float == o.Float
	}
	return l.Name == o.Name
}

func (l *Leaf) Equal(other Expr) bool {
	o, ok := other.(*Leaf)
	return ok && l.Negated == o.Negated && l.sameValue(o)
}

func (l *Leaf) Key() string {
	var b strings.Builder
	l.writeKey(&b)
	return b.String()
}

func (l *Leaf) writeKey(b *strings.Builder) {
	if l.Negated {
		b.WriteByte('-')
	}
	switch l.Kind {
	case KindInteger:
		b.WriteString("i:")
		b.WriteString(l.Int.String())
	case KindFloat:
		b.WriteString("f:")
		b.WriteString(strconv.FormatFloat(l.Float, 'g', -1, 64))
	default:
		b.WriteString("n:")
		b.WriteString(l.Name)
	}
}

// ============================================================
// Node
// ============================================================

// Node is an operator applied to ordered children.
type Node struct {
	Op       Op
	Children []Expr
	Negated  bool
}

// N builds a node.
func N(op Op, children ...Expr) *Node {
	return &Node{Op: op, Children: children}
}

func (n *Node) IsLeaf() bool    { return false }
func (n *Node) IsNegated() bool { return n.Negated }
func (n *Node) Len() int        { return len(n.Children) }
func (n *Node) Arg(i int) Expr  { return n.Children[i] }

func (n *Node) WithNegation(neg bool) Expr {
	c := *n
	c.Negated = neg
	return &c
}

func (n *Node) Clone() Expr {
	children := make([]Expr, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Clone()
	}
	return &Node{Op: n.Op, Children: children, Negated: n.Negated}
}

// Replace swaps the child that is identical (same pointer) to old for
// replacement. It reports whether such a child existed.
func (n *Node) Replace(old, replacement Expr) bool {
	for i, c := range n.Children {
		if c == old {
			n.Children[i] = replacement
			return true
		}
	}
	return false
}

func (n *Node) Equal(other Expr) bool {
	o, ok := other.(*Node)
	if !ok || n.Op != o.Op || n.Negated != o.Negated || len(n.Children) != len(o.Children) {
		return false
	}
	for i, c := range n.Children {
		if !c.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) Key() string {
	var b strings.Builder
	n.writeKey(&b)
	return b.String()
}

func (n *Node) writeKey(b *strings.Builder) {
	if n.Negated {
		b.WriteByte('-')
	}
	b.WriteByte('(')
	b.WriteString(n.Op.String())
	for _, c := range n.Children {
		b.WriteByte(' ')
		switch c := c.(type) {
		case *Leaf:
			c.writeKey(b)
		case *Node:
			c.writeKey(b)
		}
	}
	b.WriteByte(')')
}

// ============================================================
// Structural helpers
// ============================================================

// Equiv compares a and b with commutation-insensitive matching inside
// associative scopes. Unless ignoreNegation is set, the negation of a and b
// must match; negations below the top are always significant.
func Equiv(a, b Expr, ignoreNegation bool) bool {
	if !ignoreNegation && a.IsNegated() != b.IsNegated() {
		return false
	}
	la, aLeaf := a.(*Leaf)
	lb, bLeaf := b.(*Leaf)
	if aLeaf || bLeaf {
		return aLeaf && bLeaf && la.sameValue(lb)
	}
	na, nb := a.(*Node), b.(*Node)
	if na.Op != nb.Op {
		return false
	}
	if na.Op.IsNary() {
		sa, sb := NewScope(na).Nodes(), NewScope(nb).Nodes()
		if len(sa) != len(sb) {
			return false
		}
		used := make([]bool, len(sb))
	outer:
		for _, x := range sa {
			for j, y := range sb {
				if !used[j] && Equiv(x, y, false) {
					used[j] = true
					continue outer
				}
			}
			return false
		}
		return true
	}
	if len(na.Children) != len(nb.Children) {
		return false
	}
	for i, c := range na.Children {
		if !Equiv(c, nb.Children[i], false) {
			return false
		}
	}
	return true
}

func isOp(e Expr, ops ...Op) bool {
	n, ok := e.(*Node)
	if !ok {
		return false
	}
	for _, op := range ops {
		if n.Op == op {
			return true
		}
	}
	return false
}

func asLeaf(e Expr) (*Leaf, bool) {
	l, ok := e.(*Leaf)
	return l, ok
}

func isNumeric(e Expr) bool {
	l, ok := e.(*Leaf)
	return ok && l.IsNumeric()
}

func isInteger(e Expr) bool {
	l, ok := e.(*Leaf)
	return ok && l.IsInteger()
}

func isIdentifier(e Expr) bool {
	l, ok := e.(*Leaf)
	return ok && l.IsIdentifier()
}

func isVariable(e Expr) bool {
	l, ok := e.(*Leaf)
	return ok && l.IsVariable()
}

func isIdent(e Expr, name string) bool {
	l, ok := e.(*Leaf)
	return ok && l.Kind == KindIdentifier && l.Name == name
}

// isMagnitude reports whether e is a numeric leaf whose magnitude is v,
// regardless of its sign.
func isMagnitude(e Expr, v int64) bool {
	l, ok := e.(*Leaf)
	if !ok {
		return false
	}
	switch l.Kind {
	case KindInteger:
		return l.Int.IsInt64() && l.Int.Int64() == v
	case KindFloat:
		return l.Float == float64(v)
	}
	return false
}

// isValue reports whether e is a numeric leaf with signed value v.
func isValue(e Expr, v int64) bool {
	if !isMagnitude(e, abs64(v)) {
		return false
	}
	return v == 0 || e.IsNegated() == (v < 0)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Variables returns the sorted set of variable names in e.
func Variables(e Expr) []string {
	set := map[string]bool{}
	collectVariables(e, set)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func collectVariables(e Expr, set map[string]bool) {
	switch e := e.(type) {
	case *Leaf:
		if e.IsVariable() {
			set[e.Name] = true
		}
	case *Node:
		for _, c := range e.Children {
			collectVariables(c, set)
		}
	}
}

// ContainsVariable reports whether identifier name occurs in e.
func ContainsVariable(e Expr, name string) bool {
	switch e := e.(type) {
	case *Leaf:
		return e.Kind == KindIdentifier && e.Name == name
	case *Node:
		for _, c := range e.Children {
			if ContainsVariable(c, name) {
				return true
			}
		}
	}
	return false
}

// Substitute returns a copy of e with every occurrence of identifier name
// replaced by value. The negation of a replaced leaf is kept.
func Substitute(e Expr, name string, value Expr) Expr {
	switch e := e.(type) {
	case *Leaf:
		if e.Kind == KindIdentifier && e.Name == name {
			return negateIf(value.Clone(), e.Negated)
		}
		return e
	case *Node:
		children := make([]Expr, len(e.Children))
		for i, c := range e.Children {
			children[i] = Substitute(c, name, value)
		}
		return &Node{Op: e.Op, Children: children, Negated: e.Negated}
	}
	return e
}

// evalsToNumeric reports whether e consists of numeric leaves combined by
// arithmetic operators only.
func evalsToNumeric(e Expr) bool {
	switch e := e.(type) {
	case *Leaf:
		return e.IsNumeric()
	case *Node:
		switch e.Op {
		case OpAdd, OpMul, OpDiv, OpPow, OpSqrt:
		default:
			return false
		}
		for _, c := range e.Children {
			if !evalsToNumeric(c) {
				return false
			}
		}
		return true
	}
	return false
}

// ============================================================
// Constructors used by rules
// ============================================================

func add(a, b Expr) *Node { return N(OpAdd, a, b) }
func mul(a, b Expr) *Node { return N(OpMul, a, b) }
func div(a, b Expr) *Node { return N(OpDiv, a, b) }
func pow(a, b Expr) *Node { return N(OpPow, a, b) }
func eq(a, b Expr) *Node  { return N(OpEq, a, b) }

// Log builds log_base(arg); a nil base means the default base 10.
func Log(arg, base Expr) *Node {
	if base == nil {
		base = Int(DefaultLogBase)
	}
	return N(OpLog, arg, base)
}

// Ln builds the natural logarithm.
func Ln(arg Expr) *Node { return Log(arg, Ident(ConstE)) }

// Der builds a derivative; an empty variable leaves it implicit.
func Der(f Expr, variable string) *Node {
	if variable == "" {
		return N(OpDer, f)
	}
	return N(OpDer, f, Ident(variable))
}

// Integral builds an indefinite integral, or a definite one when both
// bounds are given.
func Integral(f Expr, variable string, lower, upper Expr) *Node {
	if lower != nil && upper != nil {
		return N(OpInt, f, Ident(variable), lower, upper)
	}
	return N(OpInt, f, Ident(variable))
}

// IntDef builds the definite bracket [f]_lower^upper over variable.
func IntDef(f Expr, variable string, lower, upper Expr) *Node {
	return N(OpIntDef, f, Ident(variable), lower, upper)
}
