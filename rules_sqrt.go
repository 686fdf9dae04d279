package trs

import "math/big"

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleQuadrantSqrt:            quadrantSqrt,
		RuleConstantSqrt:            constantSqrt,
		RuleSplitDividers:           splitDividers,
		RuleExtractSqrtMultiplicant: extractSqrtMultiplicant,
		RuleExtractSqrtMultPriority: extractSqrtMultiplicant,
	})
}

func isSquare(e Expr) bool {
	p, ok := e.(*Node)
	return ok && p.Op == OpPow && isValue(p.Arg(1), 2)
}

// isEliminableFactor reports whether a factor leaves a square root without
// one: a perfect square constant above 3 or a square.
func isEliminableFactor(e Expr) bool {
	if e.IsNegated() {
		return false
	}
	if v, ok := smallInt(e); ok {
		return isEliminableSqrt(v)
	}
	return isSquare(e)
}

// matchReduceSqrt simplifies a square root:
//
//	sqrt(a^2)                      -> a
//	sqrt(c), c a square            -> eval(sqrt(c))
//	sqrt(c), c = b^2 d             -> sqrt(b^2 d)
//	sqrt(ab)                       -> sqrt(a) sqrt(b)
//
// Larger square divisors are offered first.
func matchReduceSqrt(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpSqrt)
	if err != nil {
		return nil, err
	}
	a := node.Arg(0)
	if a.IsNegated() {
		return nil, nil
	}
	if isSquare(a) {
		return []Possibility{P(node, RuleQuadrantSqrt)}, nil
	}
	if l, ok := asLeaf(a); ok && l.IsInteger() {
		if r, ok := isPerfectSquare(l.Int); ok {
			return []Possibility{P(node, RuleConstantSqrt, BigInt(r))}, nil
		}
		v, ok := smallInt(l)
		if !ok {
			return nil, nil
		}
		divs := dividers(v)
		var p []Possibility
		for i := len(divs) - 1; i >= 0; i-- {
			if m := divs[i]; isEliminableSqrt(m) {
				p = append(p, P(node, RuleSplitDividers, Int(m), Int(v/m)))
			}
		}
		return p, nil
	}
	if m, ok := a.(*Node); ok && m.Op == OpMul {
		scope := NewScope(m)
		p := make([]Possibility, 0, scope.Len())
		for _, f := range scope.Nodes() {
			rule := RuleExtractSqrtMultiplicant
			if isEliminableFactor(f) {
				rule = RuleExtractSqrtMultPriority
			}
			p = append(p, P(node, rule, scope, f))
		}
		return p, nil
	}
	return nil, nil
}

// sqrt(a^2) -> a
func quadrantSqrt(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	return negateIf(node.Arg(0).(*Node).Arg(0), node.Negated), nil
}

func constantSqrt(root Expr, args Args) (Expr, error) {
	r := args[0].(*Leaf)
	return BigInt(new(big.Int).Set(r.Int)).WithNegation(root.IsNegated()), nil
}

// sqrt(12) -> sqrt(4 * 3)
func splitDividers(root Expr, args Args) (Expr, error) {
	r := N(OpSqrt, mul(args[0].(Expr), args[1].(Expr)))
	r.Negated = root.IsNegated()
	return r, nil
}

// sqrt(ab) -> sqrt(a) sqrt(b)
func extractSqrtMultiplicant(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	a := args[1].(Expr)
	if err := scope.Remove(a); err != nil {
		return nil, err
	}
	r := mul(N(OpSqrt, a), N(OpSqrt, scope.AsNaryNode()))
	r.Negated = root.IsNegated()
	return r, nil
}
