package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleNegatedFactor:      negatedFactor,
		RuleDoubleNegation:     doubleNegation,
		RuleNegatedZero:        negatedZero,
		RuleNegatePolynome:     negatePolynome,
		RuleNegatedNominator:   negatedNominator,
		RuleNegatedDenominator: negatedDenominator,
	})
}

// matchNegatedFactor moves negations of factors to the product itself. Two
// negated factors may also cancel each other.
func matchNegatedFactor(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var p, pairs []Possibility
	var negated []Expr
	for _, f := range scope.Nodes() {
		if !f.IsNegated() {
			continue
		}
		p = append(p, P(node, RuleNegatedFactor, scope, f))
		for _, g := range negated {
			pairs = append(pairs, P(node, RuleDoubleNegation, scope, g, f))
		}
		negated = append(negated, f)
	}
	return append(p, pairs...), nil
}

// (-a)b -> -ab
func negatedFactor(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	f := args[1].(Expr)
	if err := scope.Replace(f, Positive(f)); err != nil {
		return nil, err
	}
	return Negate(scope.AsNaryNode()), nil
}

// (-a)(-b) -> ab
func doubleNegation(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	for _, f := range args[1:] {
		f := f.(Expr)
		if err := scope.Replace(f, Positive(f)); err != nil {
			return nil, err
		}
	}
	return scope.AsNaryNode(), nil
}

// -0 -> 0
func matchNegatedZero(e Expr) ([]Possibility, error) {
	if !e.IsNegated() {
		return nil, bugf("%s is not negated", e)
	}
	if isMagnitude(e, 0) {
		return []Possibility{P(e, RuleNegatedZero)}, nil
	}
	return nil, nil
}

func negatedZero(root Expr, args Args) (Expr, error) {
	return Positive(root), nil
}

// -(a + b) -> -a - b
func matchNegatePolynome(e Expr) ([]Possibility, error) {
	if !e.IsNegated() {
		return nil, bugf("%s is not negated", e)
	}
	if isOp(e, OpAdd) {
		return []Possibility{P(e, RuleNegatePolynome)}, nil
	}
	return nil, nil
}

func negatePolynome(root Expr, args Args) (Expr, error) {
	scope := NewScope(Positive(root).(*Node))
	for _, n := range scope.Nodes() {
		if err := scope.Replace(n, Negate(n)); err != nil {
			return nil, err
		}
	}
	return scope.AsNaryNode(), nil
}

// matchNegatedDivision moves the negation of a nominator or denominator to
// the fraction.
func matchNegatedDivision(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	var p []Possibility
	if node.Arg(0).IsNegated() {
		p = append(p, P(node, RuleNegatedNominator))
	}
	if node.Arg(1).IsNegated() {
		p = append(p, P(node, RuleNegatedDenominator))
	}
	return p, nil
}

// (-a) / b -> -(a / b)
func negatedNominator(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := div(Positive(node.Arg(0)), node.Arg(1))
	r.Negated = !node.Negated
	return r, nil
}

// a / (-b) -> -(a / b)
func negatedDenominator(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := div(node.Arg(0), Positive(node.Arg(1)))
	r.Negated = !node.Negated
	return r, nil
}
