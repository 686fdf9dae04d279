package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleAddExponents:           addExponents,
		RuleSubtractExponents:      subtractExponents,
		RuleMultiplyExponents:      multiplyExponents,
		RuleDuplicateExponent:      duplicateExponent,
		RuleRaisedFraction:         raisedFraction,
		RuleRemoveNegativeExponent: removeNegativeExponent,
		RuleRemoveNegativeRoot:     removeNegativeRoot,
		RuleExponentToRoot:         exponentToRoot,
		RuleExtendExponent:         extendExponent,
		RuleRemovePowerOfZero:      removePowerOfZero,
		RuleRemovePowerOfOne:       removePowerOfOne,
	})
}

type powerOccurrence struct {
	n, base, exponent Expr
}

// matchAddExponents combines every pair of factors with the same base:
// a^p * a^q, a * a^q and a * a.
func matchAddExponents(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var order []string
	groups := map[string][]powerOccurrence{}
	for _, n := range scope.Nodes() {
		var o powerOccurrence
		switch {
		case isIdentifier(n):
			o = powerOccurrence{n: n, base: Positive(n), exponent: Int(1)}
		case isOp(n, OpPow):
			pw := n.(*Node)
			o = powerOccurrence{n: n, base: pw.Arg(0), exponent: pw.Arg(1)}
		default:
			continue
		}
		k := o.base.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], o)
	}
	var p []Possibility
	for _, k := range order {
		occ := groups[k]
		for i, o0 := range occ {
			for _, o1 := range occ[i+1:] {
				p = append(p, P(node, RuleAddExponents, scope, o0.n, o1.n, o0.base, o0.exponent, o1.exponent))
			}
		}
	}
	return p, nil
}

// a^p * a^q -> a^(p + q)
func addExponents(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	n0, n1 := args[1].(Expr), args[2].(Expr)
	a, p, q := args[3].(Expr), args[4].(Expr), args[5].(Expr)
	r := pow(a, add(p, q))
	r.Negated = n0.IsNegated() != n1.IsNegated()
	if err := scope.Replace(n0, r); err != nil {
		return nil, err
	}
	if err := scope.Remove(n1); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// matchSubtractExponents handles a^p / a^q, a^p / a and a / a^q.
func matchSubtractExponents(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	left, right := node.Arg(0), node.Arg(1)
	lp, lok := left.(*Node)
	lok = lok && lp.Op == OpPow
	rp, rok := right.(*Node)
	rok = rok && rp.Op == OpPow
	switch {
	case lok && rok && lp.Arg(0).Equal(rp.Arg(0)):
		return []Possibility{P(node, RuleSubtractExponents, lp.Arg(0), lp.Arg(1), rp.Arg(1))}, nil
	case lok && lp.Arg(0).Equal(right):
		return []Possibility{P(node, RuleSubtractExponents, lp.Arg(0), lp.Arg(1), Int(1))}, nil
	case rok && left.Equal(rp.Arg(0)):
		return []Possibility{P(node, RuleSubtractExponents, left, Int(1), rp.Arg(1))}, nil
	}
	return nil, nil
}

// a^p / a^q -> a^(p - q)
func subtractExponents(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	a, p, q := args[0].(Expr), args[1].(Expr), args[2].(Expr)
	neg := node.Negated
	if isOp(node.Arg(0), OpPow) {
		neg = neg != node.Arg(0).IsNegated()
	}
	if isOp(node.Arg(1), OpPow) {
		neg = neg != node.Arg(1).IsNegated()
	}
	r := pow(a, add(p, Negate(q)))
	r.Negated = neg
	return r, nil
}

// (a^p)^q -> a^(pq)
func matchMultiplyExponents(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	if l, ok := node.Arg(0).(*Node); ok && l.Op == OpPow && !l.Negated {
		return []Possibility{P(node, RuleMultiplyExponents, l.Arg(0), l.Arg(1), node.Arg(1))}, nil
	}
	return nil, nil
}

func multiplyExponents(root Expr, args Args) (Expr, error) {
	r := pow(args[0].(Expr), mul(args[1].(Expr), args[2].(Expr)))
	r.Negated = root.IsNegated()
	return r, nil
}

// (ab)^p -> a^p b^p
func matchDuplicateExponent(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	if m, ok := node.Arg(0).(*Node); ok && m.Op == OpMul && !m.Negated {
		return []Possibility{P(node, RuleDuplicateExponent, NewScope(m).Nodes(), node.Arg(1))}, nil
	}
	return nil, nil
}

func duplicateExponent(root Expr, args Args) (Expr, error) {
	factors, p := args[0].([]Expr), args[1].(Expr)
	powers := make([]Expr, len(factors))
	for i, f := range factors {
		powers[i] = pow(f, p)
	}
	return negateIf(naryNode(OpMul, powers), root.IsNegated()), nil
}

// (a / b)^p -> a^p / b^p
func matchRaisedFraction(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	if f, ok := node.Arg(0).(*Node); ok && f.Op == OpDiv && !f.Negated {
		return []Possibility{P(node, RuleRaisedFraction, f, node.Arg(1))}, nil
	}
	return nil, nil
}

func raisedFraction(root Expr, args Args) (Expr, error) {
	f, p := args[0].(*Node), args[1].(Expr)
	r := div(pow(f.Arg(0), p), pow(f.Arg(1), p))
	r.Negated = root.IsNegated()
	return r, nil
}

// matchRemoveNegativeChild rewrites a^-p to 1 / a^p, and (-a)^p with odd p
// to -(a^p).
func matchRemoveNegativeChild(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	a, x := node.Arg(0), node.Arg(1)
	var p []Possibility
	if x.IsNegated() {
		p = append(p, P(node, RuleRemoveNegativeExponent))
	}
	if l, ok := asLeaf(x); ok && a.IsNegated() && l.IsInteger() && l.Int.Bit(0) == 1 {
		p = append(p, P(node, RuleRemoveNegativeRoot))
	}
	return p, nil
}

func removeNegativeExponent(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := div(Int(1), pow(node.Arg(0), Positive(node.Arg(1))))
	r.Negated = node.Negated
	return r, nil
}

func removeNegativeRoot(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := pow(Positive(node.Arg(0)), node.Arg(1))
	r.Negated = !node.Negated
	return r, nil
}

// a^(1 / 2) -> sqrt(a), a^(n / 2) -> sqrt(a^n)
func matchExponentToRoot(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	if f, ok := node.Arg(1).(*Node); ok && f.Op == OpDiv && !f.Negated && isValue(f.Arg(1), 2) {
		return []Possibility{P(node, RuleExponentToRoot)}, nil
	}
	return nil, nil
}

func exponentToRoot(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	a, n := node.Arg(0), node.Arg(1).(*Node).Arg(0)
	if !isValue(n, 1) {
		a = pow(a, n)
	}
	r := N(OpSqrt, a)
	r.Negated = node.Negated
	return r, nil
}

// (a + b)^n -> (a + b)(a + b)^(n - 1) for n in {2, 3}. Larger exponents are
// left alone to keep expansions small.
func matchExtendExponent(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	left, right := node.Arg(0), node.Arg(1)
	if !isOp(left, OpAdd) {
		return nil, nil
	}
	for _, n := range []int64{2, 3} {
		if isValue(right, n) && isInteger(right) {
			return []Possibility{P(node, RuleExtendExponent, left, right, Int(n-1))}, nil
		}
	}
	return nil, nil
}

func extendExponent(root Expr, args Args) (Expr, error) {
	left, rest := args[0].(Expr), args[2].(*Leaf)
	var r *Node
	if isValue(rest, 1) {
		r = mul(left, left)
	} else {
		r = mul(left, pow(left, rest))
	}
	r.Negated = root.IsNegated()
	return r, nil
}

// a^0 -> 1, a^1 -> a
func matchConstantExponent(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	switch x := node.Arg(1); {
	case isMagnitude(x, 0):
		return []Possibility{P(node, RuleRemovePowerOfZero)}, nil
	case isValue(x, 1):
		return []Possibility{P(node, RuleRemovePowerOfOne)}, nil
	}
	return nil, nil
}

func removePowerOfZero(root Expr, args Args) (Expr, error) {
	return Int(1).WithNegation(root.IsNegated()), nil
}

func removePowerOfOne(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	return negateIf(node.Arg(0), node.Negated), nil
}
