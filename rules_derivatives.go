package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleZeroDerivative:           zeroDerivative,
		RuleOneDerivative:            oneDerivative,
		RulePowerRule:                powerRule,
		RuleVariableRoot:             variableRoot,
		RuleVariableExponent:         variableExponent,
		RuleChainRule:                chainRule,
		RuleConstDerivMultiplication: constDerivMultiplication,
		RuleLogarithmicDerivative:    logarithmicDerivative,
		RuleSinusDerivative:          sinusDerivative,
		RuleCosinusDerivative:        cosinusDerivative,
		RuleTangensDerivative:        tangensDerivative,
		RuleSumRule:                  sumRule,
		RuleProductRule:              productRule,
		RuleQuotientRule:             quotientRule,
	})
}

// resolveVariable picks the variable of a derivative or integral body: the
// explicit one when given, x when f has no variables, the single variable of
// f otherwise. More than one candidate is an error reported on node.
func resolveVariable(node Expr, f Expr, explicit Expr) (string, error) {
	if explicit != nil {
		if l, ok := asLeaf(explicit); ok && l.IsIdentifier() {
			return l.Name, nil
		}
		return "", bugf("%s has a non-identifier variable", node)
	}
	vars := Variables(f)
	switch len(vars) {
	case 0:
		return "x", nil
	case 1:
		return vars[0], nil
	}
	return "", &AmbiguousVariableError{Expr: node, Variables: vars}
}

// derivationVariable resolves the variable of a derivative node.
func derivationVariable(node *Node) (string, error) {
	var explicit Expr
	if node.Len() > 1 {
		explicit = node.Arg(1)
	}
	return resolveVariable(node, node.Arg(0), explicit)
}

// sameDer differentiates f with the variable notation of root.
func sameDer(root *Node, f Expr) Expr {
	if root.Len() > 1 {
		return N(OpDer, f, root.Arg(1))
	}
	return N(OpDer, f)
}

// derSign is the sign of the result of differentiating root: negations of
// both the derivative and its body move outside.
func derSign(root *Node) bool { return root.Negated != root.Arg(0).IsNegated() }

func derNode(e Expr) (*Node, string, error) {
	node, err := expectNode(e, OpDer)
	if err != nil {
		return nil, "", err
	}
	x, err := derivationVariable(node)
	if err != nil {
		return nil, "", err
	}
	return node, x, nil
}

// d/dx c -> 0
func matchZeroDerivative(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	if !ContainsVariable(node.Arg(0), x) {
		return []Possibility{P(node, RuleZeroDerivative)}, nil
	}
	return nil, nil
}

func zeroDerivative(root Expr, args Args) (Expr, error) {
	return Int(0), nil
}

// d/dx x -> 1
func matchOneDerivative(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	if isIdent(node.Arg(0), x) {
		return []Possibility{P(node, RuleOneDerivative)}, nil
	}
	return nil, nil
}

func oneDerivative(root Expr, args Args) (Expr, error) {
	return Int(1).WithNegation(derSign(root.(*Node))), nil
}

// matchVariablePower handles the four shapes of a power:
//
//	d/dx f(x)^g(x) -> d/dx e^(ln(f(x)^g(x)))
//	d/dx x^n       -> n x^(n - 1)
//	d/dx g^x       -> g^x ln(g)
//
// with the chain rule for a non-trivial base or exponent.
func matchVariablePower(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	pw, ok := node.Arg(0).(*Node)
	if !ok || pw.Op != OpPow {
		return nil, nil
	}
	base, exponent := pw.Arg(0), pw.Arg(1)
	inBase, inExponent := ContainsVariable(base, x), ContainsVariable(exponent, x)
	switch {
	case inBase && inExponent:
		return []Possibility{P(node, RulePowerRule)}, nil
	case inBase && isIdent(base, x) && !base.IsNegated():
		return []Possibility{P(node, RuleVariableRoot)}, nil
	case inBase:
		return []Possibility{P(node, RuleChainRule, base, RuleVariableRoot, Args{})}, nil
	case inExponent && isIdent(exponent, x) && !exponent.IsNegated():
		return []Possibility{P(node, RuleVariableExponent)}, nil
	case inExponent:
		return []Possibility{P(node, RuleChainRule, exponent, RuleVariableExponent, Args{})}, nil
	}
	return nil, nil
}

// d/dx f(x)^g(x) -> d/dx e^(ln(f(x)^g(x)))
func powerRule(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := Positive(node.Arg(0))
	r := sameDer(node, pow(Ident(ConstE), Ln(pw)))
	return negateIf(r, derSign(node)), nil
}

// d/dx x^n -> n x^(n - 1), also the outer step of the chain rule.
func variableRoot(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := node.Arg(0).(*Node)
	base, n := pw.Arg(0), pw.Arg(1)
	r := mul(n, pow(base, add(n, Int(-1))))
	r.Negated = derSign(node)
	return r, nil
}

// d/dx g^x -> g^x ln(g); d/dx e^x -> e^x
func variableExponent(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	pw := node.Arg(0).(*Node)
	base := pw.Arg(0)
	var r Expr = Positive(pw)
	if !isIdent(base, ConstE) || base.IsNegated() {
		r = mul(r, Ln(base))
	}
	return negateIf(r, derSign(node)), nil
}

// d/dx f(g(x)) -> f'(g(x)) d/dx g(x)
//
// The outer derivative is computed by the rule passed in the arguments.
func chainRule(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	g, outer, outerArgs := args[0].(Expr), args[1].(RuleID), args[2].(Args)
	h := HandlerOf(outer)
	if h == nil {
		return nil, bugf("chain rule over unknown rule %d", outer)
	}
	fprime, err := h(node, outerArgs)
	if err != nil {
		return nil, err
	}
	return mul(fprime, sameDer(node, g)), nil
}

// d/dx c f(x) -> c d/dx f(x)
func matchConstDerivMultiplication(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	m, ok := node.Arg(0).(*Node)
	if !ok || m.Op != OpMul || !ContainsVariable(m, x) {
		return nil, nil
	}
	scope := NewScope(Positive(m).(*Node))
	var p []Possibility
	for _, f := range scope.Nodes() {
		if !ContainsVariable(f, x) {
			p = append(p, P(node, RuleConstDerivMultiplication, scope, f))
		}
	}
	return p, nil
}

func constDerivMultiplication(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	c := args[1].(Expr)
	if err := scope.Remove(c); err != nil {
		return nil, err
	}
	r := mul(c, sameDer(node, scope.AsNaryNode()))
	r.Negated = derSign(node)
	return r, nil
}

// d/dx log_g(x) -> 1 / (x ln(g)), chained for log_g(f(x)).
func matchLogarithmicDerivative(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	l, ok := node.Arg(0).(*Node)
	if !ok || l.Op != OpLog {
		return nil, nil
	}
	arg := l.Arg(0)
	if isIdent(arg, x) && !arg.IsNegated() {
		return []Possibility{P(node, RuleLogarithmicDerivative)}, nil
	}
	if ContainsVariable(arg, x) {
		return []Possibility{P(node, RuleChainRule, arg, RuleLogarithmicDerivative, Args{})}, nil
	}
	return nil, nil
}

func logarithmicDerivative(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	l := node.Arg(0).(*Node)
	arg, base := l.Arg(0), l.Arg(1)
	var denominator Expr = arg
	if !isIdent(base, ConstE) || base.IsNegated() {
		denominator = mul(arg, Ln(base))
	}
	r := div(Int(1), denominator)
	r.Negated = derSign(node)
	return r, nil
}

// d/dx sin(x) -> cos(x), d/dx cos(x) -> -sin(x) and d/dx tan(x) through the
// quotient sin(x) / cos(x).
func matchGoniometricDerivative(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	f, ok := node.Arg(0).(*Node)
	if !ok {
		return nil, nil
	}
	var rule RuleID
	switch f.Op {
	case OpSin:
		rule = RuleSinusDerivative
	case OpCos:
		rule = RuleCosinusDerivative
	case OpTan:
		if ContainsVariable(f, x) {
			return []Possibility{P(node, RuleTangensDerivative)}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
	t := f.Arg(0)
	if isIdent(t, x) && !t.IsNegated() {
		return []Possibility{P(node, rule)}, nil
	}
	if ContainsVariable(t, x) {
		return []Possibility{P(node, RuleChainRule, t, rule, Args{})}, nil
	}
	return nil, nil
}

func sinusDerivative(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := N(OpCos, node.Arg(0).(*Node).Arg(0))
	r.Negated = derSign(node)
	return r, nil
}

func cosinusDerivative(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := N(OpSin, node.Arg(0).(*Node).Arg(0))
	r.Negated = !derSign(node)
	return r, nil
}

// d/dx tan(x) -> d/dx sin(x) / cos(x)
func tangensDerivative(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	t := node.Arg(0).(*Node).Arg(0)
	r := sameDer(node, div(N(OpSin, t), N(OpCos, t)))
	return negateIf(r, derSign(node)), nil
}

// matchSumProductRule offers the sum rule for every term of a sum that
// depends on the variable, and the product rule for every such factor of a
// product with at least two of them.
func matchSumProductRule(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	f, ok := node.Arg(0).(*Node)
	if !ok || (f.Op != OpAdd && f.Op != OpMul) {
		return nil, nil
	}
	scope := NewScope(Positive(f).(*Node))
	var functions []Expr
	for _, n := range scope.Nodes() {
		if ContainsVariable(n, x) {
			functions = append(functions, n)
		}
	}
	rule := RuleSumRule
	if f.Op == OpMul {
		if len(functions) < 2 {
			return nil, nil
		}
		rule = RuleProductRule
	}
	p := make([]Possibility, 0, len(functions))
	for _, fn := range functions {
		p = append(p, P(node, rule, scope, fn))
	}
	return p, nil
}

// d/dx f(x) + g(x) -> d/dx f(x) + d/dx g(x)
func sumRule(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	f := args[1].(Expr)
	if err := scope.Remove(f); err != nil {
		return nil, err
	}
	r := add(sameDer(node, f), sameDer(node, scope.AsNaryNode()))
	r.Negated = derSign(node)
	return r, nil
}

// d/dx f(x) g(x) -> d/dx f(x) g(x) + f(x) d/dx g(x)
func productRule(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	scope := args[0].(*Scope).Copy()
	f := args[1].(Expr)
	if err := scope.Remove(f); err != nil {
		return nil, err
	}
	g := scope.AsNaryNode()
	r := add(mul(sameDer(node, f), g), mul(f, sameDer(node, g)))
	r.Negated = derSign(node)
	return r, nil
}

// d/dx f(x) / g(x) -> (d/dx f(x) g(x) - f(x) d/dx g(x)) / g(x)^2
func matchQuotientRule(e Expr) ([]Possibility, error) {
	node, x, err := derNode(e)
	if err != nil {
		return nil, err
	}
	q, ok := node.Arg(0).(*Node)
	if !ok || q.Op != OpDiv || !ContainsVariable(q.Arg(0), x) || !ContainsVariable(q.Arg(1), x) {
		return nil, nil
	}
	return []Possibility{P(node, RuleQuotientRule)}, nil
}

func quotientRule(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	q := node.Arg(0).(*Node)
	f, g := q.Arg(0), q.Arg(1)
	nominator := add(mul(sameDer(node, f), g), Negate(mul(f, sameDer(node, g))))
	r := div(nominator, pow(g, Int(2)))
	r.Negated = derSign(node)
	return r, nil
}
