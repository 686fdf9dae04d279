package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleRemoveAbsoluteNegation: removeAbsoluteNegation,
		RuleAbsoluteNumeric:        absoluteNumeric,
		RuleFactorOutAbsTerm:       factorOutAbsTerm,
		RuleFactorOutAbsSqrt:       factorOutAbsSqrt,
		RuleFactorOutAbsExponent:   factorOutAbsExponent,
	})
}

// matchFactorOutAbsTerm simplifies an absolute value:
//
//	|-a|      -> |a|
//	|c|       -> c
//	|ab|      -> |a||b|
//	|sqrt a|  -> sqrt |a|
//	|a^c|     -> |a|^c  for a constant c
func matchFactorOutAbsTerm(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAbs)
	if err != nil {
		return nil, err
	}
	a := node.Arg(0)
	if a.IsNegated() {
		return []Possibility{P(node, RuleRemoveAbsoluteNegation)}, nil
	}
	if isNumeric(a) {
		return []Possibility{P(node, RuleAbsoluteNumeric)}, nil
	}
	n, ok := a.(*Node)
	if !ok {
		return nil, nil
	}
	switch n.Op {
	case OpMul:
		scope := NewScope(n)
		p := make([]Possibility, 0, scope.Len())
		for _, f := range scope.Nodes() {
			p = append(p, P(node, RuleFactorOutAbsTerm, scope, f))
		}
		return p, nil
	case OpSqrt:
		return []Possibility{P(node, RuleFactorOutAbsSqrt)}, nil
	case OpPow:
		if evalsToNumeric(n.Arg(1)) {
			return []Possibility{P(node, RuleFactorOutAbsExponent)}, nil
		}
	}
	return nil, nil
}

func removeAbsoluteNegation(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := N(OpAbs, Positive(node.Arg(0)))
	r.Negated = node.Negated
	return r, nil
}

func absoluteNumeric(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	return node.Arg(0).WithNegation(node.Negated), nil
}

func factorOutAbsTerm(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	a := args[1].(Expr)
	if err := scope.Remove(a); err != nil {
		return nil, err
	}
	r := mul(N(OpAbs, a), N(OpAbs, scope.AsNaryNode()))
	r.Negated = root.IsNegated()
	return r, nil
}

func factorOutAbsSqrt(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := N(OpSqrt, N(OpAbs, node.Arg(0).(*Node).Arg(0)))
	r.Negated = node.Negated
	return r, nil
}

func factorOutAbsExponent(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := node.Arg(0).(*Node)
	r := pow(N(OpAbs, pw.Arg(0)), pw.Arg(1))
	r.Negated = node.Negated
	return r, nil
}
