package trs

import (
	"fmt"
	"sort"
)

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleSwapSides:             swapSides,
		RuleSubtractTerm:          subtractTerm,
		RuleDivideTerm:            divideTerm,
		RuleMultiplyTerm:          multiplyTerm,
		RuleSplitAbsoluteEquation: splitAbsoluteEquation,
		RuleSubstituteVariable:    substituteVariable,
		RuleDoubleCase:            doubleCase,
	})
	messageRenderers[RuleSubtractTerm] = subtractTermMessage
}

// equationVariable picks the variable an equation is solved for: x, y or z
// when present, otherwise the alphabetically first variable, and x for an
// equation without variables.
func equationVariable(e Expr) string {
	vars := Variables(e)
	for _, x := range []string{"x", "y", "z"} {
		if i := sort.SearchStrings(vars, x); i < len(vars) && vars[i] == x {
			return x
		}
	}
	if len(vars) == 0 {
		return "x"
	}
	return vars[0]
}

// matchMoveTerm moves terms without the variable to the right side and
// terms with it to the left, then frees the variable from products,
// quotients, negation and absolute values.
func matchMoveTerm(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpEq)
	if err != nil {
		return nil, err
	}
	x := equationVariable(node)
	left, right := node.Arg(0), node.Arg(1)
	if !ContainsVariable(left, x) {
		if ContainsVariable(right, x) {
			return []Possibility{P(node, RuleSwapSides)}, nil
		}
		return nil, nil
	}
	var p []Possibility
	if isOp(left, OpAdd) && !left.IsNegated() {
		for _, n := range NewScope(left.(*Node)).Nodes() {
			if !ContainsVariable(n, x) {
				p = append(p, P(node, RuleSubtractTerm, n))
			}
		}
	}
	if isOp(right, OpAdd) && !right.IsNegated() {
		for _, n := range NewScope(right.(*Node)).Nodes() {
			if ContainsVariable(n, x) {
				p = append(p, P(node, RuleSubtractTerm, n))
			}
		}
	}
	if isOp(left, OpMul) && !left.IsNegated() {
		for _, n := range NewScope(left.(*Node)).Nodes() {
			if !ContainsVariable(n, x) {
				p = append(p, P(node, RuleDivideTerm, n))
			}
		}
	}
	if isOp(left, OpDiv) && !left.IsNegated() {
		p = append(p, P(node, RuleMultiplyTerm, left.(*Node).Arg(1)))
	}
	if left.IsNegated() {
		p = append(p, P(node, RuleMultiplyTerm, Int(-1)))
	}
	if isOp(left, OpAbs) && !left.IsNegated() && evalsToNumeric(right) {
		p = append(p, P(node, RuleSplitAbsoluteEquation))
	}
	return p, nil
}

// a = bx -> bx = a
func swapSides(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	return eq(node.Arg(1), node.Arg(0)), nil
}

// x + a = b -> x + a - a = b - a
func subtractTerm(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	term := args[0].(Expr)
	return eq(add(node.Arg(0), Negate(term)), add(node.Arg(1), Negate(term))), nil
}

func subtractTermMessage(p Possibility) string {
	term := p.Args[0].(Expr)
	if term.IsNegated() {
		return fmt.Sprintf("Add %s to both sides of the equation.", Positive(term))
	}
	return p.render(ruleInfos[RuleSubtractTerm].message)
}

// xa = b -> xa / a = b / a
func divideTerm(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	term := args[0].(Expr)
	return eq(div(node.Arg(0), term), div(node.Arg(1), term)), nil
}

// x / a = b -> x / a * a = b * a
func multiplyTerm(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	term := args[0].(Expr)
	return eq(mul(node.Arg(0), term), mul(node.Arg(1), term)), nil
}

// |f(x)| = c -> f(x) = c vv f(x) = -c
func splitAbsoluteEquation(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	f, c := node.Arg(0).(*Node).Arg(0), node.Arg(1)
	return N(OpOr, eq(f, c), eq(f, Negate(c))), nil
}

// matchMultipleEquations offers substitution between two equations of a
// system: x = a ^^ f(x) = g(x) -> x = a ^^ f(a) = g(a).
func matchMultipleEquations(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAnd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var equations []*Node
	for _, n := range scope.Nodes() {
		if q, ok := n.(*Node); ok && q.Op == OpEq && !q.Negated {
			equations = append(equations, q)
		}
	}
	var p []Possibility
	for i, e0 := range equations {
		x, ok := asLeaf(e0.Arg(0))
		if !ok || !x.IsVariable() || x.Negated {
			continue
		}
		for j, e1 := range equations {
			if i != j && ContainsVariable(e1, x.Name) {
				p = append(p, P(node, RuleSubstituteVariable, scope, x, e0.Arg(1), e1))
			}
		}
	}
	return p, nil
}

func substituteVariable(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	x, subs, target := args[1].(*Leaf), args[2].(Expr), args[3].(Expr)
	if err := scope.Replace(target, Substitute(target, x.Name, subs)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// a ^^ a -> a, a vv a -> a
func matchDoubleCase(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAnd, OpOr)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	nodes := scope.Nodes()
	var p []Possibility
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if a.Equal(b) {
				p = append(p, P(node, RuleDoubleCase, scope, a, b))
			}
		}
	}
	return p, nil
}

func doubleCase(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	if err := scope.Remove(args[2].(Expr)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}
