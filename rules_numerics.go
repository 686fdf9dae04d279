package trs

import "math/big"

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleAddNumerics:             addNumerics,
		RuleRemoveZero:              removeZero,
		RuleDivideNumerics:          divideNumerics,
		RuleReduceFractionConstants: reduceFractionConstants,
		RuleMultiplyNumerics:        multiplyNumerics,
		RuleMultiplyZero:            multiplyZero,
		RuleMultiplyOne:             multiplyOne,
		RuleRaiseNumerics:           raiseNumerics,
	})
}

// matchAddNumerics offers to drop zero terms and to add every pair of
// constants in a sum.
func matchAddNumerics(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var p []Possibility
	var numerics []Expr
	for _, n := range scope.Nodes() {
		switch {
		case isMagnitude(n, 0):
			p = append(p, P(node, RuleRemoveZero, scope, n))
		case isNumeric(n):
			numerics = append(numerics, n)
		}
	}
	for i, c0 := range numerics {
		for _, c1 := range numerics[i+1:] {
			p = append(p, P(node, RuleAddNumerics, scope, c0, c1))
		}
	}
	return p, nil
}

// 0 + a -> a
func removeZero(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	if err := scope.Remove(args[1].(Expr)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// 2 + -3 -> -1
func addNumerics(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	c0, c1 := args[1].(*Leaf), args[2].(*Leaf)
	sum := addNumbers(numberOf(c0), numberOf(c1)).leaf()
	if err := scope.Replace(c0, sum); err != nil {
		return nil, err
	}
	if err := scope.Remove(c1); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// matchDivideNumerics folds a division of constants when that does not lose
// precision: exact integer quotients, or when an operand is a float. Other
// integer fractions are reduced by their greatest common divisor.
func matchDivideNumerics(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	n, nok := asLeaf(node.Arg(0))
	d, dok := asLeaf(node.Arg(1))
	if !nok || !dok || !n.IsNumeric() || !d.IsNumeric() || n.Negated || d.Negated {
		return nil, nil
	}
	if numberOf(d).isZero() {
		return nil, &DomainError{Expr: node, Reason: "division by zero"}
	}
	if n.IsInteger() && d.IsInteger() {
		if new(big.Int).Rem(n.Int, d.Int).Sign() == 0 {
			return []Possibility{P(node, RuleDivideNumerics)}, nil
		}
		if g := gcd(n.Int, d.Int); g.Cmp(big.NewInt(1)) > 0 {
			return []Possibility{P(node, RuleReduceFractionConstants, BigInt(g))}, nil
		}
		return nil, nil
	}
	return []Possibility{P(node, RuleDivideNumerics)}, nil
}

// 6 / 2 -> 3, 3.0 / 2 -> 1.5, 3 / 1.0 -> 3.0
func divideNumerics(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	n, d := node.Arg(0).(*Leaf), node.Arg(1).(*Leaf)
	var q *Leaf
	switch {
	case n.IsInteger() && d.IsInteger():
		q = BigInt(new(big.Int).Quo(n.Int, d.Int))
	default:
		q = Float(n.Float64() / d.Float64())
	}
	return q.WithNegation(node.Negated), nil
}

// 2 / 4 -> 1 / 2
func reduceFractionConstants(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	g := args[0].(*Leaf).Int
	n, d := node.Arg(0).(*Leaf), node.Arg(1).(*Leaf)
	r := div(BigInt(new(big.Int).Quo(n.Int, g)), BigInt(new(big.Int).Quo(d.Int, g)))
	r.Negated = node.Negated
	return r, nil
}

// matchMultiplyNumerics offers zero and one elimination and the product of
// every pair of constants.
func matchMultiplyNumerics(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var p []Possibility
	var numerics []Expr
	for _, n := range scope.Nodes() {
		if !isNumeric(n) {
			continue
		}
		numerics = append(numerics, n)
		if isMagnitude(n, 0) {
			p = append(p, P(node, RuleMultiplyZero, n))
		}
		if isValue(n, 1) {
			p = append(p, P(node, RuleMultiplyOne, scope, n))
		}
	}
	for i, c0 := range numerics {
		for _, c1 := range numerics[i+1:] {
			p = append(p, P(node, RuleMultiplyNumerics, scope, c0, c1))
		}
	}
	return p, nil
}

// 0a -> 0
func multiplyZero(root Expr, args Args) (Expr, error) {
	zero := args[0].(Expr)
	return negateIf(zero, root.IsNegated()), nil
}

// 1a -> a
func multiplyOne(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	if err := scope.Remove(args[1].(Expr)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// 2 * 3 -> 6
func multiplyNumerics(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	c0, c1 := args[1].(*Leaf), args[2].(*Leaf)
	product := mulNumbers(numberOf(c0), numberOf(c1)).leaf()
	if err := scope.Replace(c0, product); err != nil {
		return nil, err
	}
	if err := scope.Remove(c1); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// matchRaiseNumerics folds a constant raised to a non-negative constant.
func matchRaiseNumerics(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpPow)
	if err != nil {
		return nil, err
	}
	r, rok := asLeaf(node.Arg(0))
	x, xok := asLeaf(node.Arg(1))
	if !rok || !xok || !r.IsNumeric() || !x.IsNumeric() || x.Negated {
		return nil, nil
	}
	if _, ok := powNumbers(numberOf(r), numberOf(x)); !ok {
		return nil, nil
	}
	return []Possibility{P(node, RuleRaiseNumerics, r, x, node.Negated)}, nil
}

// 2^3 -> 8, (-2)^3 -> -8, (-2)^2 -> 4
func raiseNumerics(root Expr, args Args) (Expr, error) {
	r, x, negated := args[0].(*Leaf), args[1].(*Leaf), args[2].(bool)
	v, ok := powNumbers(numberOf(r), numberOf(x))
	if !ok {
		return nil, &DomainError{Expr: root, Reason: "power is not a real number"}
	}
	return negateIf(v.leaf(), negated), nil
}
