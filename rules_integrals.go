package trs

import (
	"fmt"
	"strings"
)

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleIntegrateVariableRoot:     integrateVariableRoot,
		RuleIntegrateVariableExponent: integrateVariableExponent,
		RuleSingleVariableIntegral:    singleVariableIntegral,
		RuleConstantIntegral:          constantIntegral,
		RuleFactorOutIntegralNegation: factorOutIntegralNegation,
		RuleFactorOutConstant:         factorOutConstant,
		RuleDivisionIntegral:          divisionIntegral,
		RuleExtendDivisionIntegral:    extendDivisionIntegral,
		RuleLogarithmIntegral:         logarithmIntegral,
		RuleSinusIntegral:             sinusIntegral,
		RuleCosinusIntegral:           cosinusIntegral,
		RuleSumRuleIntegral:           sumRuleIntegral,
		RuleRemoveDefiniteConstant:    removeDefiniteConstant,
		RuleSolveDefinite:             solveDefinite,
	})
	messageRenderers[RuleSolveDefinite] = solveDefiniteMessage
}

// integrationVariable returns the variable of an integral or definite
// bracket; both always carry it as their second child.
func integrationVariable(node *Node) (string, error) {
	if node.Len() < 2 {
		return resolveVariable(node, node.Arg(0), nil)
	}
	return resolveVariable(node, node.Arg(0), node.Arg(1))
}

func intNode(e Expr) (*Node, string, error) {
	node, err := expectNode(e, OpInt)
	if err != nil {
		return nil, "", err
	}
	x, err := integrationVariable(node)
	if err != nil {
		return nil, "", err
	}
	return node, x, nil
}

// withBounds rebuilds an integral over f with the variable and bounds of
// node.
func withBounds(node *Node, f Expr) *Node {
	children := append([]Expr{f}, node.Children[1:]...)
	return N(OpInt, children...)
}

// chooseConstant picks the integration constant: C, or else the first
// upper case letter from A whose name is not used in the integral.
func chooseConstant(node *Node) Expr {
	occupied := map[string]bool{}
	for _, v := range Variables(node) {
		occupied[strings.ToLower(v)] = true
	}
	if !occupied["c"] {
		return Ident("C")
	}
	for c := 'a'; c <= 'z'; c++ {
		if c != 'c' && c != 'e' && !occupied[string(c)] {
			return Ident(strings.ToUpper(string(c)))
		}
	}
	return Ident("C")
}

// solveIntegral finishes an integral with anti-derivative F: an indefinite
// integral gets a constant added, a definite one becomes the bracket
// [F]_a^b.
func solveIntegral(node *Node, x string, F Expr) Expr {
	if node.Len() < 4 {
		r := add(F, chooseConstant(node))
		r.Negated = node.Negated
		return r
	}
	r := IntDef(F, x, node.Arg(2), node.Arg(3))
	r.Negated = node.Negated
	return r
}

// int x^n dx -> x^(n + 1) / (n + 1), int g^x dx -> g^x / ln(g)
func matchIntegrateVariablePower(e Expr) ([]Possibility, error) {
	node, x, err := intNode(e)
	if err != nil {
		return nil, err
	}
	pw, ok := node.Arg(0).(*Node)
	if !ok || pw.Op != OpPow || pw.Negated {
		return nil, nil
	}
	base, exponent := pw.Arg(0), pw.Arg(1)
	switch {
	case isIdent(base, x) && !base.IsNegated() && !ContainsVariable(exponent, x) && !isValue(exponent, -1):
		return []Possibility{P(node, RuleIntegrateVariableRoot)}, nil
	case isIdent(exponent, x) && !exponent.IsNegated() && !ContainsVariable(base, x):
		return []Possibility{P(node, RuleIntegrateVariableExponent)}, nil
	}
	return nil, nil
}

func integrateVariableRoot(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	pw := node.Arg(0).(*Node)
	base, n := pw.Arg(0), pw.Arg(1)
	F := mul(div(Int(1), add(n, Int(1))), pow(base, add(n, Int(1))))
	return solveIntegral(node, x, F), nil
}

func integrateVariableExponent(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	pw := node.Arg(0).(*Node)
	return solveIntegral(node, x, div(pw, Ln(pw.Arg(0)))), nil
}

// int x dx -> int x^1 dx, int c dx -> cx
func matchConstantIntegral(e Expr) ([]Possibility, error) {
	node, x, err := intNode(e)
	if err != nil {
		return nil, err
	}
	f := node.Arg(0)
	if isIdent(f, x) && !f.IsNegated() {
		return []Possibility{P(node, RuleSingleVariableIntegral)}, nil
	}
	if !ContainsVariable(f, x) {
		return []Possibility{P(node, RuleConstantIntegral)}, nil
	}
	return nil, nil
}

func singleVariableIntegral(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := withBounds(node, pow(node.Arg(0), Int(1)))
	r.Negated = node.Negated
	return r, nil
}

func constantIntegral(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	return solveIntegral(node, x, mul(node.Arg(0), Ident(x))), nil
}

// int -f(x) dx -> -int f(x) dx, int c f(x) dx -> c int f(x) dx
func matchFactorOutConstant(e Expr) ([]Possibility, error) {
	node, x, err := intNode(e)
	if err != nil {
		return nil, err
	}
	f := node.Arg(0)
	if f.IsNegated() {
		return []Possibility{P(node, RuleFactorOutIntegralNegation)}, nil
	}
	m, ok := f.(*Node)
	if !ok || m.Op != OpMul {
		return nil, nil
	}
	scope := NewScope(m)
	var p []Possibility
	for _, c := range scope.Nodes() {
		if !ContainsVariable(c, x) {
			p = append(p, P(node, RuleFactorOutConstant, scope, c))
		}
	}
	return p, nil
}

func factorOutIntegralNegation(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := withBounds(node, Positive(node.Arg(0)))
	r.Negated = !node.Negated
	return r, nil
}

func factorOutConstant(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	c := args[1].(Expr)
	if err := scope.Remove(c); err != nil {
		return nil, err
	}
	r := mul(c, withBounds(node, scope.AsNaryNode()))
	r.Negated = node.Negated
	return r, nil
}

// int 1 / x dx -> ln|x|, int a / x dx -> int a (1 / x) dx
func matchDivisionIntegral(e Expr) ([]Possibility, error) {
	node, x, err := intNode(e)
	if err != nil {
		return nil, err
	}
	d, ok := node.Arg(0).(*Node)
	if !ok || d.Op != OpDiv || d.Negated || !isIdent(d.Arg(1), x) || d.Arg(1).IsNegated() {
		return nil, nil
	}
	if isValue(d.Arg(0), 1) {
		return []Possibility{P(node, RuleDivisionIntegral)}, nil
	}
	return []Possibility{P(node, RuleExtendDivisionIntegral)}, nil
}

func divisionIntegral(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	return solveIntegral(node, x, Ln(N(OpAbs, Ident(x)))), nil
}

func extendDivisionIntegral(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	d := node.Arg(0).(*Node)
	r := withBounds(node, mul(d.Arg(0), div(Int(1), d.Arg(1))))
	r.Negated = node.Negated
	return r, nil
}

// int log_g(x) dx -> (x ln(x) - x) / ln(g), int sin(x) dx -> -cos(x),
// int cos(x) dx -> sin(x)
func matchFunctionIntegral(e Expr) ([]Possibility, error) {
	node, x, err := intNode(e)
	if err != nil {
		return nil, err
	}
	f, ok := node.Arg(0).(*Node)
	if !ok || f.Negated || !isIdent(f.Arg(0), x) || f.Arg(0).IsNegated() {
		return nil, nil
	}
	switch f.Op {
	case OpLog:
		return []Possibility{P(node, RuleLogarithmIntegral)}, nil
	case OpSin:
		return []Possibility{P(node, RuleSinusIntegral)}, nil
	case OpCos:
		return []Possibility{P(node, RuleCosinusIntegral)}, nil
	}
	return nil, nil
}

func logarithmIntegral(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	base := node.Arg(0).(*Node).Arg(1)
	v := Ident(x)
	F := div(add(mul(v, Ln(v)), Negate(Ident(x))), Ln(base))
	return solveIntegral(node, x, F), nil
}

func sinusIntegral(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	F := N(OpCos, node.Arg(0).(*Node).Arg(0))
	F.Negated = true
	return solveIntegral(node, x, F), nil
}

func cosinusIntegral(root Expr, args Args) (Expr, error) {
	node, x, err := intNode(root)
	if err != nil {
		return nil, err
	}
	return solveIntegral(node, x, N(OpSin, node.Arg(0).(*Node).Arg(0))), nil
}

// int f(x) + g(x) dx -> int f(x) dx + int g(x) dx
//
// A sum of two terms is only split once.
func matchSumRuleIntegral(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpInt)
	if err != nil {
		return nil, err
	}
	s, ok := node.Arg(0).(*Node)
	if !ok || s.Op != OpAdd || s.Negated {
		return nil, nil
	}
	scope := NewScope(s)
	if scope.Len() == 2 {
		return []Possibility{P(node, RuleSumRuleIntegral, scope, scope.At(0))}, nil
	}
	p := make([]Possibility, 0, scope.Len())
	for _, t := range scope.Nodes() {
		p = append(p, P(node, RuleSumRuleIntegral, scope, t))
	}
	return p, nil
}

func sumRuleIntegral(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	f := args[1].(Expr)
	if err := scope.Remove(f); err != nil {
		return nil, err
	}
	r := add(withBounds(node, f), withBounds(node, scope.AsNaryNode()))
	r.Negated = node.Negated
	return r, nil
}

// [f(x) + c]_a^b -> [f(x)]_a^b
func matchRemoveDefiniteConstant(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpIntDef)
	if err != nil {
		return nil, err
	}
	s, ok := node.Arg(0).(*Node)
	if !ok || s.Op != OpAdd || s.Negated {
		return nil, nil
	}
	x, err := integrationVariable(node)
	if err != nil {
		return nil, err
	}
	scope := NewScope(s)
	var p []Possibility
	for _, c := range scope.Nodes() {
		if !ContainsVariable(c, x) {
			p = append(p, P(node, RuleRemoveDefiniteConstant, scope, c))
		}
	}
	return p, nil
}

func removeDefiniteConstant(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	if err := scope.Remove(args[1].(Expr)); err != nil {
		return nil, err
	}
	children := append([]Expr{scope.AsNaryNode()}, node.Children[1:]...)
	r := N(OpIntDef, children...)
	r.Negated = node.Negated
	return r, nil
}

// [F(x)]_a^b -> F(b) - F(a)
func matchSolveDefinite(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpIntDef)
	if err != nil {
		return nil, err
	}
	if _, err := integrationVariable(node); err != nil {
		return nil, err
	}
	return []Possibility{P(node, RuleSolveDefinite)}, nil
}

func solveDefinite(root Expr, args Args) (Expr, error) {
	node, err := expectNode(root, OpIntDef)
	if err != nil {
		return nil, err
	}
	x, err := integrationVariable(node)
	if err != nil {
		return nil, err
	}
	F, lower, upper := node.Arg(0), node.Arg(2), node.Arg(3)
	r := add(Substitute(F, x, upper), Negate(Substitute(F, x, lower)))
	r.Negated = node.Negated
	return r, nil
}

func solveDefiniteMessage(p Possibility) string {
	node, ok := p.Root.(*Node)
	if !ok || node.Len() < 4 {
		return ruleInfos[RuleSolveDefinite].message
	}
	x, err := integrationVariable(node)
	if err != nil {
		return ruleInfos[RuleSolveDefinite].message
	}
	return fmt.Sprintf("Solve the definite integral %s by substituting `%s` with %s and %s.",
		node, x, node.Arg(3), node.Arg(2))
}
