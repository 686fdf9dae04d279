package trs

import "math/big"

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleLogarithmOfOne:             logarithmOfOne,
		RuleBaseEqualsRaised:           baseEqualsRaised,
		RuleDivideSameBase:             divideSameBase,
		RuleAddLogarithms:              addLogarithms,
		RuleExpandNegations:            expandNegations,
		RuleSubtractLogarithms:         subtractLogarithms,
		RuleRaisedBase:                 raisedBase,
		RuleSplitNegativeExponent:      splitNegativeExponent,
		RuleFactorOutExponent:          factorOutExponent,
		RuleFactorOutExponentImportant: factorOutExponent,
		RuleFactorInMultiplicant:       factorInMultiplicant,
	})
}

func isDefaultBase(base Expr) bool { return isValue(base, DefaultLogBase) && isInteger(base) }

// matchConstantLogarithm handles log(1), log_a(a) and the change to base
// 10. A constant base must be positive and other than 1.
func matchConstantLogarithm(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpLog)
	if err != nil {
		return nil, err
	}
	raised, base := node.Arg(0), node.Arg(1)
	if b, ok := asLeaf(base); ok && b.IsNumeric() {
		if v := b.Float64(); v <= 0 || v == 1 {
			return nil, &DomainError{Expr: node, Reason: "logarithm base must be positive and not 1"}
		}
	}
	if isValue(raised, 1) {
		return []Possibility{P(node, RuleLogarithmOfOne)}, nil
	}
	var p []Possibility
	if raised.Equal(base) {
		p = append(p, P(node, RuleBaseEqualsRaised))
	}
	if !isDefaultBase(base) && !isIdent(base, ConstE) {
		p = append(p, P(node, RuleDivideSameBase))
	}
	return p, nil
}

// log(1) -> 0
func logarithmOfOne(root Expr, args Args) (Expr, error) {
	return Int(0).WithNegation(root.IsNegated()), nil
}

// log_a(a) -> 1
func baseEqualsRaised(root Expr, args Args) (Expr, error) {
	return Int(1).WithNegation(root.IsNegated()), nil
}

// log_b(a) -> log(a) / log(b)
func divideSameBase(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := div(Log(node.Arg(0), nil), Log(node.Arg(1), nil))
	r.Negated = node.Negated
	return r, nil
}

// matchAddLogarithms combines logarithms with the same base in a sum:
// log a + log b, -log a - log b and log a - log b. Constant arguments are
// only combined when the combined argument is exact.
func matchAddLogarithms(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var logs []Expr
	for _, n := range scope.Nodes() {
		if isOp(n, OpLog) {
			logs = append(logs, n)
		}
	}
	var p []Possibility
	for i, l0 := range logs {
		for _, l1 := range logs[i+1:] {
			a, b := l0.(*Node), l1.(*Node)
			if !a.Arg(1).Equal(b.Arg(1)) {
				continue
			}
			switch {
			case !a.Negated && !b.Negated:
				p = append(p, P(node, RuleAddLogarithms, scope, a, b))
			case a.Negated && b.Negated:
				p = append(p, P(node, RuleExpandNegations, scope, a, b))
			case !a.Negated:
				if exactQuotient(a.Arg(0), b.Arg(0)) {
					p = append(p, P(node, RuleSubtractLogarithms, scope, a, b))
				}
			default:
				if exactQuotient(b.Arg(0), a.Arg(0)) {
					p = append(p, P(node, RuleSubtractLogarithms, scope, b, a))
				}
			}
		}
	}
	return p, nil
}

// exactQuotient reports whether a / b stays exact: symbolic operands always
// do, integers only when b divides a.
func exactQuotient(a, b Expr) bool {
	la, aok := asLeaf(a)
	lb, bok := asLeaf(b)
	if !aok || !bok || !la.IsInteger() || !lb.IsInteger() || lb.Int.Sign() == 0 {
		return true
	}
	return new(big.Int).Rem(la.Int, lb.Int).Sign() == 0
}

// log a + log b -> log(ab)
func addLogarithms(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	a, b := args[1].(*Node), args[2].(*Node)
	if err := scope.Replace(a, Log(mul(a.Arg(0), b.Arg(0)), a.Arg(1))); err != nil {
		return nil, err
	}
	if err := scope.Remove(b); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// -log a - log b -> -(log a + log b)
func expandNegations(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	a, b := args[1].(*Node), args[2].(*Node)
	sum := add(Positive(a), Positive(b))
	sum.Negated = true
	if err := scope.Replace(a, sum); err != nil {
		return nil, err
	}
	if err := scope.Remove(b); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// log a - log b -> log(a / b)
func subtractLogarithms(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	a, b := args[1].(*Node), args[2].(*Node)
	if err := scope.Replace(a, Log(div(a.Arg(0), b.Arg(0)), a.Arg(1))); err != nil {
		return nil, err
	}
	if err := scope.Remove(b); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// g^log_g(a) -> a
func matchRaisedBase(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	l, ok := node.Arg(1).(*Node)
	if !ok || l.Op != OpLog || l.Negated || !l.Arg(1).Equal(node.Arg(0)) {
		return nil, nil
	}
	return []Possibility{P(node, RuleRaisedBase, l.Arg(0))}, nil
}

func raisedBase(root Expr, args Args) (Expr, error) {
	return negateIf(args[0].(Expr), root.IsNegated()), nil
}

// matchFactorOutExponent moves the exponent of a power out of a logarithm,
// first splitting off a negative exponent. When the power has the base of
// the logarithm the step is preferred over folding the power.
func matchFactorOutExponent(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpLog)
	if err != nil {
		return nil, err
	}
	pw, ok := node.Arg(0).(*Node)
	if !ok || pw.Op != OpPow || pw.Negated {
		return nil, nil
	}
	var p []Possibility
	if pw.Arg(1).IsNegated() && !isValue(pw.Arg(1), -1) {
		p = append(p, P(node, RuleSplitNegativeExponent))
	}
	if pw.Arg(0).Equal(node.Arg(1)) {
		p = append(p, P(node, RuleFactorOutExponentImportant))
	} else {
		p = append(p, P(node, RuleFactorOutExponent))
	}
	return p, nil
}

// log(a^-b) -> log((a^b)^-1)
func splitNegativeExponent(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := node.Arg(0).(*Node)
	r := Log(pow(pow(pw.Arg(0), Positive(pw.Arg(1))), Int(-1)), node.Arg(1))
	r.Negated = node.Negated
	return r, nil
}

// log(a^b) -> b log(a)
func factorOutExponent(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := node.Arg(0).(*Node)
	r := mul(pw.Arg(1), Log(pw.Arg(0), node.Arg(1)))
	r.Negated = node.Negated
	return r, nil
}

// 2 log(3) -> log(3^2)
func matchFactorInMultiplicant(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	nodes := scope.Nodes()
	var p []Possibility
	for _, c := range nodes {
		if !isNumeric(c) || c.IsNegated() {
			continue
		}
		for _, l := range nodes {
			if ln, ok := l.(*Node); ok && ln.Op == OpLog && !ln.Negated && isNumeric(ln.Arg(0)) {
				p = append(p, P(node, RuleFactorInMultiplicant, scope, c, l))
			}
		}
	}
	return p, nil
}

func factorInMultiplicant(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	c, l := args[1].(Expr), args[2].(*Node)
	if err := scope.Replace(l, Log(pow(l.Arg(0), c), l.Arg(1))); err != nil {
		return nil, err
	}
	if err := scope.Remove(c); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}
