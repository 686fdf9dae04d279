package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleAddQuadrants:              addQuadrants,
		RuleFactorOutQuadrantNegation: factorOutQuadrantNegation,
		RuleNegatedSinusParameter:     negatedSinusParameter,
		RuleNegatedCosinusParameter:   negatedCosinusParameter,
		RuleHalfPiSubtractionSinus:    halfPiSubtraction,
		RuleHalfPiSubtractionCosinus:  halfPiSubtraction,
		RuleStandardRadian:            standardRadian,
	})
}

func isSquareOf(e Expr, op Op) (*Node, bool) {
	p, ok := e.(*Node)
	if !ok || p.Op != OpPow || !isValue(p.Arg(1), 2) {
		return nil, false
	}
	f, ok := p.Arg(0).(*Node)
	if !ok || f.Op != op || f.Negated {
		return nil, false
	}
	return f, true
}

// sin(t)^2 + cos(t)^2 -> 1
func matchAddQuadrants(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	nodes := scope.Nodes()
	var p []Possibility
	for i, sq := range nodes {
		s, ok := isSquareOf(sq, OpSin)
		if !ok {
			continue
		}
		for j, cq := range nodes {
			c, ok := isSquareOf(cq, OpCos)
			if i == j || !ok || !s.Arg(0).Equal(c.Arg(0)) {
				continue
			}
			switch {
			case !sq.IsNegated() && !cq.IsNegated():
				p = append(p, P(node, RuleAddQuadrants, scope, sq, cq))
			case sq.IsNegated() && cq.IsNegated():
				p = append(p, P(node, RuleFactorOutQuadrantNegation, scope, sq, cq))
			}
		}
	}
	return p, nil
}

func addQuadrants(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	if err := scope.Replace(args[1].(Expr), Int(1)); err != nil {
		return nil, err
	}
	if err := scope.Remove(args[2].(Expr)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// -sin(t)^2 - cos(t)^2 -> -(sin(t)^2 + cos(t)^2)
func factorOutQuadrantNegation(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	s, c := args[1].(Expr), args[2].(Expr)
	sum := add(Positive(s), Positive(c))
	sum.Negated = true
	if err := scope.Replace(s, sum); err != nil {
		return nil, err
	}
	if err := scope.Remove(c); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// sin(-t) -> -sin(t), cos(-t) -> cos(t)
func matchNegatedParameter(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpSin, OpCos)
	if err != nil {
		return nil, err
	}
	t := node.Arg(0)
	if !t.IsNegated() {
		return nil, nil
	}
	if node.Op == OpSin {
		return []Possibility{P(node, RuleNegatedSinusParameter, t)}, nil
	}
	return []Possibility{P(node, RuleNegatedCosinusParameter, t)}, nil
}

func negatedSinusParameter(root Expr, args Args) (Expr, error) {
	r := N(OpSin, Positive(args[0].(Expr)))
	r.Negated = !root.IsNegated()
	return r, nil
}

func negatedCosinusParameter(root Expr, args Args) (Expr, error) {
	r := N(OpCos, Positive(args[0].(Expr)))
	r.Negated = root.IsNegated()
	return r, nil
}

// isPiFraction reports whether e is pi / d, (1 / d) pi or pi (1 / d).
func isPiFraction(e Expr, d int64) bool {
	n, ok := e.(*Node)
	if !ok || n.Negated {
		return false
	}
	switch n.Op {
	case OpDiv:
		return isIdent(n.Arg(0), ConstPi) && !n.Arg(0).IsNegated() && isValue(n.Arg(1), d)
	case OpMul:
		if n.Len() != 2 {
			return false
		}
		for i := 0; i < 2; i++ {
			f, ok := n.Arg(i).(*Node)
			pi := n.Arg(1 - i)
			if ok && f.Op == OpDiv && !f.Negated && isValue(f.Arg(0), 1) && isValue(f.Arg(1), d) &&
				isIdent(pi, ConstPi) && !pi.IsNegated() {
				return true
			}
		}
	}
	return false
}

// sin(pi / 2 - t) -> cos(t), cos(pi / 2 - t) -> sin(t)
func matchHalfPiSubtraction(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpSin, OpCos)
	if err != nil {
		return nil, err
	}
	sum, ok := node.Arg(0).(*Node)
	if !ok || sum.Op != OpAdd || sum.Negated {
		return nil, nil
	}
	parts := NewScope(sum).Nodes()
	if len(parts) != 2 || !isPiFraction(parts[0], 2) || !parts[1].IsNegated() {
		return nil, nil
	}
	if node.Op == OpSin {
		return []Possibility{P(node, RuleHalfPiSubtractionSinus, Positive(parts[1]))}, nil
	}
	return []Possibility{P(node, RuleHalfPiSubtractionCosinus, Positive(parts[1]))}, nil
}

func halfPiSubtraction(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	op := OpCos
	if node.Op == OpCos {
		op = OpSin
	}
	r := N(op, args[0].(Expr))
	r.Negated = node.Negated
	return r, nil
}

// standardRadianValue is the table of sin, cos and tan at 0, pi/6, pi/4,
// pi/3, pi/2 and pi. Entries are built fresh on every call; nil marks an
// undefined value.
func standardRadianValue(op Op, column int) Expr {
	half := func() Expr { return div(Int(1), Int(2)) }
	sqrt := func(v int64) Expr { return N(OpSqrt, Int(v)) }
	switch op {
	case OpSin:
		return []Expr{Int(0), half(), mul(half(), sqrt(2)), mul(half(), sqrt(3)), Int(1), Int(0)}[column]
	case OpCos:
		return []Expr{Int(1), mul(half(), sqrt(3)), mul(half(), sqrt(2)), half(), Int(0), Int(-1)}[column]
	case OpTan:
		return []Expr{Int(0), mul(div(Int(1), Int(3)), sqrt(3)), Int(1), sqrt(3), nil, Int(0)}[column]
	}
	return nil
}

// matchStandardRadian replaces sin, cos and tan of standard radians by
// their exact values.
func matchStandardRadian(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpSin, OpCos, OpTan)
	if err != nil {
		return nil, err
	}
	t := node.Arg(0)
	column := -1
	switch {
	case isValue(t, 0):
		column = 0
	case isIdent(t, ConstPi) && !t.IsNegated():
		column = 5
	default:
		for i, d := range []int64{6, 4, 3, 2} {
			if isPiFraction(t, d) {
				column = i + 1
				break
			}
		}
	}
	if column < 0 || standardRadianValue(node.Op, column) == nil {
		return nil, nil
	}
	return []Possibility{P(node, RuleStandardRadian, column)}, nil
}

func standardRadian(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	v := standardRadianValue(node.Op, args[0].(int))
	if v == nil {
		return nil, &DomainError{Expr: root, Reason: "undefined at this radian"}
	}
	return negateIf(v, node.Negated), nil
}
