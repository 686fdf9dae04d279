package trs

import "math/big"

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleDivisionByOne:          divisionByOne,
		RuleDivisionOfZero:         divisionOfZero,
		RuleDivisionBySelf:         divisionBySelf,
		RuleAddNominators:          addNominators,
		RuleEqualizeDenominators:   equalizeDenominators,
		RuleConstantToFraction:     constantToFraction,
		RuleMultiplyFractions:      multiplyFractions,
		RuleMultiplyWithFraction:   multiplyWithFraction,
		RuleDivideFraction:         divideFraction,
		RuleDivideByFraction:       divideByFraction,
		RuleExtractNominatorTerm:   extractNominatorTerm,
		RuleExtractFractionTerms:   extractFractionTerms,
		RuleDivideFractionByTerm:   divideFractionByTerm,
		RuleMultiplyWithTerm:       multiplyWithTerm,
		RuleCombineFractions:       combineFractions,
		RuleRemoveDivisionNegation: removeDivisionNegation,
		RuleFractionInDivision:     fractionInDivision,
	})
}

// matchConstantDivision handles a / 1, 0 / a and a / a, and rejects a / 0.
func matchConstantDivision(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	nom, denom := node.Arg(0), node.Arg(1)
	if isMagnitude(denom, 0) {
		return nil, &DomainError{Expr: node, Reason: "division by zero"}
	}
	var p []Possibility
	if isValue(denom, 1) {
		p = append(p, P(node, RuleDivisionByOne, nom))
	}
	if isValue(nom, 0) {
		p = append(p, P(node, RuleDivisionOfZero, denom))
	}
	if nom.Equal(denom) {
		p = append(p, P(node, RuleDivisionBySelf, nom))
	}
	return p, nil
}

// a / 1 -> a
func divisionByOne(root Expr, args Args) (Expr, error) {
	return negateIf(args[0].(Expr), root.IsNegated()), nil
}

// 0 / a -> 0
func divisionOfZero(root Expr, args Args) (Expr, error) {
	return Int(0).WithNegation(root.IsNegated()), nil
}

// a / a -> 1
func divisionBySelf(root Expr, args Args) (Expr, error) {
	return Int(1).WithNegation(root.IsNegated()), nil
}

func isFraction(e Expr) bool { return isOp(e, OpDiv) }

// matchAddFractions adds fractions with equal denominators, brings constant
// fractions to a common denominator, and turns constants added to a
// constant fraction into fractions.
func matchAddFractions(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var fractions, numerics []Expr
	for _, n := range scope.Nodes() {
		if isFraction(n) {
			fractions = append(fractions, n)
		} else if isNumeric(n) {
			numerics = append(numerics, n)
		}
	}
	var p []Possibility
	for i, ab := range fractions {
		for _, cd := range fractions[i+1:] {
			a, b := ab.(*Node).Arg(0), ab.(*Node).Arg(1)
			c, d := cd.(*Node).Arg(0), cd.(*Node).Arg(1)
			if b.Equal(d) {
				p = append(p, P(node, RuleAddNominators, scope, ab, cd))
				continue
			}
			if !isNumeric(a) || !isNumeric(c) || !isInteger(b) || !isInteger(d) ||
				isMagnitude(b, 0) || isMagnitude(d, 0) {
				continue
			}
			bv, dv := b.(*Leaf).Int, d.(*Leaf).Int
			common := lcm(bv, dv)
			p = append(p, P(node, RuleEqualizeDenominators, scope, ab, cd, BigInt(common)))
			if product := new(big.Int).Mul(bv, dv); product.Cmp(common) != 0 {
				p = append(p, P(node, RuleEqualizeDenominators, scope, ab, cd, BigInt(product)))
			}
		}
	}
	for _, ab := range fractions {
		n := ab.(*Node)
		if !isNumeric(n.Arg(0)) || !isNumeric(n.Arg(1)) {
			continue
		}
		for _, c := range numerics {
			p = append(p, P(node, RuleConstantToFraction, scope, ab, c))
		}
	}
	return p, nil
}

// a / b + c / b -> (a + c) / b
func addNominators(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	ab, cb := args[1].(*Node), args[2].(*Node)
	a := negateIf(ab.Arg(0), ab.Negated)
	c := negateIf(cb.Arg(0), cb.Negated)
	if err := scope.Replace(ab, div(add(a, c), ab.Arg(1))); err != nil {
		return nil, err
	}
	if err := scope.Remove(cb); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// 2 / 15 + 1 / 4 -> 8 / 60 + 15 / 60
func equalizeDenominators(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	common := args[3].(*Leaf).Int
	for _, f := range args[1:3] {
		fraction := f.(*Node)
		n, d := fraction.Arg(0), fraction.Arg(1).(*Leaf)
		mult := new(big.Int).Quo(common, d.Int)
		if mult.Cmp(big.NewInt(1)) == 0 {
			continue
		}
		var nom Expr
		if l, ok := asLeaf(n); ok && l.IsNumeric() {
			nom = mulNumbers(numberOf(l), number{i: mult}).leaf()
		} else {
			nom = mul(BigInt(mult), n)
		}
		denom := BigInt(new(big.Int).Mul(d.Signed(), mult))
		r := div(nom, denom)
		r.Negated = fraction.Negated
		if err := scope.Replace(fraction, r); err != nil {
			return nil, err
		}
	}
	return scope.AsNaryNode(), nil
}

// a / b + c -> a / b + bc / b
func constantToFraction(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	b := args[1].(*Node).Arg(1)
	c := args[2].(Expr)
	if err := scope.Replace(c, div(mul(b, c), b)); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// matchMultiplyFractions multiplies fractions with each other and with
// other factors.
func matchMultiplyFractions(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var fractions, others []Expr
	for _, n := range scope.Nodes() {
		if isFraction(n) {
			fractions = append(fractions, n)
		} else {
			others = append(others, n)
		}
	}
	var p []Possibility
	for i, ab := range fractions {
		for _, cd := range fractions[i+1:] {
			p = append(p, P(node, RuleMultiplyFractions, scope, ab, cd))
		}
	}
	for _, ab := range fractions {
		for _, c := range others {
			if evalsToNumeric(c) || !evalsToNumeric(ab) {
				p = append(p, P(node, RuleMultiplyWithFraction, scope, ab, c))
			}
		}
	}
	return p, nil
}

// a / b * (c / d) -> ac / (bd)
func multiplyFractions(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	ab, cd := args[1].(*Node), args[2].(*Node)
	r := div(mul(ab.Arg(0), cd.Arg(0)), mul(ab.Arg(1), cd.Arg(1)))
	r.Negated = ab.Negated != cd.Negated
	if err := scope.Replace(ab, r); err != nil {
		return nil, err
	}
	if err := scope.Remove(cd); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// a / b * c -> ac / b
func multiplyWithFraction(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	ab, c := args[1].(*Node), args[2].(Expr)
	var nom Expr
	if scope.Index(ab) < scope.Index(c) {
		nom = mul(ab.Arg(0), c)
	} else {
		nom = mul(c, ab.Arg(0))
	}
	r := div(nom, ab.Arg(1))
	r.Negated = ab.Negated
	if err := scope.Replace(ab, r); err != nil {
		return nil, err
	}
	if err := scope.Remove(c); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// matchDivideFractions reduces a fraction of fractions.
func matchDivideFractions(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	nom, denom := node.Arg(0), node.Arg(1)
	var p []Possibility
	if n, ok := nom.(*Node); ok && n.Op == OpDiv {
		p = append(p, P(node, RuleDivideFraction, n.Arg(0), n.Arg(1), denom))
	}
	if d, ok := denom.(*Node); ok && d.Op == OpDiv {
		p = append(p, P(node, RuleDivideByFraction, nom, d.Arg(0), d.Arg(1)))
	}
	return p, nil
}

// a / b / c -> a / (bc)
func divideFraction(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	ab := node.Arg(0).(*Node)
	r := div(ab.Arg(0), mul(ab.Arg(1), node.Arg(1)))
	r.Negated = node.Negated != ab.Negated
	return r, nil
}

// a / (b / c) -> ac / b
func divideByFraction(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	bc := node.Arg(1).(*Node)
	r := div(mul(node.Arg(0), bc.Arg(1)), bc.Arg(0))
	r.Negated = node.Negated != bc.Negated
	return r, nil
}

func powerBase(e Expr) Expr {
	if n, ok := e.(*Node); ok && n.Op == OpPow {
		return n.Arg(0)
	}
	return e
}

// matchExtractFractionTerms divides nominator and denominator by a common
// factor, splits off powers of a common base, and separates constant parts
// of a fraction from the rest.
func matchExtractFractionTerms(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	nominator, denominator := node.Arg(0), node.Arg(1)
	nScope, dScope := multScope(nominator), multScope(denominator)
	var p []Possibility
	for _, n := range nScope.Nodes() {
		if evalsToNumeric(n) {
			continue
		}
		var a Expr = Int(1)
		if nScope.Len() > 1 {
			if a, err = nScope.AllExcept(n); err != nil {
				return nil, err
			}
		}
		if evalsToNumeric(div(a, denominator)) {
			p = append(p, P(node, RuleExtractNominatorTerm, a, n))
		}
	}
	if nScope.Len() == 1 && dScope.Len() == 1 {
		return p, nil
	}
	for _, n := range nScope.Nodes() {
		for _, d := range dScope.Nodes() {
			switch {
			case n.Equal(d):
				p = append(p, P(node, RuleDivideFractionByTerm, nScope, dScope, n, d))
			case powerBase(n).Equal(powerBase(d)):
				p = append(p, P(node, RuleExtractFractionTerms, nScope, dScope, n, d))
			}
		}
	}
	return p, nil
}

// 2a / 3 -> 2 / 3 * a
func extractNominatorTerm(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	r := mul(div(args[0].(Expr), node.Arg(1)), args[1].(Expr))
	r.Negated = node.Negated
	return r, nil
}

// a^b c / (a^d e) -> a^b / a^d * (c / e)
func extractFractionTerms(root Expr, args Args) (Expr, error) {
	nScope, dScope := args[0].(*Scope).Copy(), args[1].(*Scope).Copy()
	n, d := args[2].(Expr), args[3].(Expr)
	restN, err := removeFromMultScope(nScope, n)
	if err != nil {
		return nil, err
	}
	restD, err := removeFromMultScope(dScope, d)
	if err != nil {
		return nil, err
	}
	r := mul(div(n, d), div(restN, restD))
	r.Negated = root.IsNegated()
	return r, nil
}

// ab / a -> b, ac / (ae) -> c / e
func divideFractionByTerm(root Expr, args Args) (Expr, error) {
	nScope, dScope := args[0].(*Scope).Copy(), args[1].(*Scope).Copy()
	n, d := args[2].(Expr), args[3].(Expr)
	nom, err := removeFromMultScope(nScope, n)
	if err != nil {
		return nil, err
	}
	if err := dScope.Remove(d); err != nil {
		return nil, err
	}
	if dScope.Len() == 0 {
		return negateIf(nom, root.IsNegated()), nil
	}
	r := div(nom, dScope.AsNaryNode())
	r.Negated = root.IsNegated()
	return r, nil
}

// a / (b / c + d) -> ca / (c(b / c + d))
func matchDivisionInDenominator(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	denom, ok := node.Arg(1).(*Node)
	if !ok || denom.Op != OpAdd {
		return nil, nil
	}
	var p []Possibility
	for _, n := range NewScope(denom).Nodes() {
		if f, ok := n.(*Node); ok && f.Op == OpDiv {
			p = append(p, P(node, RuleMultiplyWithTerm, f.Arg(1)))
		}
	}
	return p, nil
}

func multiplyWithTerm(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	c := args[0].(Expr)
	r := div(mul(c, node.Arg(0)), mul(c, node.Arg(1)))
	r.Negated = node.Negated
	return r, nil
}

// a / b + c / d -> ad / (bd) + bc / (bd)
func matchCombineFractions(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	var fractions []Expr
	for _, n := range scope.Nodes() {
		if isFraction(n) {
			fractions = append(fractions, n)
		}
	}
	var p []Possibility
	for i, left := range fractions {
		for _, right := range fractions[i+1:] {
			p = append(p, P(node, RuleCombineFractions, scope, left, right))
		}
	}
	return p, nil
}

func combineFractions(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	ab, cd := args[1].(*Node), args[2].(*Node)
	a := negateIf(ab.Arg(0), ab.Negated)
	b, c := ab.Arg(1), cd.Arg(0)
	d := negateIf(cd.Arg(1), cd.Negated)
	sum := add(div(mul(a, d), mul(b, d)), div(mul(b, c), mul(b, d)))
	if err := scope.Replace(ab, sum); err != nil {
		return nil, err
	}
	if err := scope.Remove(cd); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

func hasNegatedTerm(e Expr) bool {
	n, ok := e.(*Node)
	if !ok || n.Op != OpAdd {
		return false
	}
	for _, t := range NewScope(n).Nodes() {
		if t.IsNegated() {
			return true
		}
	}
	return false
}

// -(a / (-b + c)) -> a / (b - c)
func matchRemoveDivisionNegation(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	if !node.Negated {
		return nil, nil
	}
	if nom := node.Arg(0); !nom.IsNegated() && hasNegatedTerm(nom) {
		return []Possibility{P(node, RuleRemoveDivisionNegation, true, nom)}, nil
	}
	if denom := node.Arg(1); !denom.IsNegated() && hasNegatedTerm(denom) {
		return []Possibility{P(node, RuleRemoveDivisionNegation, false, denom)}, nil
	}
	return nil, nil
}

func removeDivisionNegation(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	nom, denom := node.Arg(0), node.Arg(1)
	if args[0].(bool) {
		nom = distributeNegation(nom.(*Node))
	} else {
		denom = distributeNegation(denom.(*Node))
	}
	r := div(nom, denom)
	r.Negated = !node.Negated
	return r, nil
}

// distributeNegation negates every term of a sum.
func distributeNegation(sum *Node) Expr {
	scope := NewScope(sum)
	terms := scope.Nodes()
	for i, t := range terms {
		terms[i] = Negate(t)
	}
	return negateIf(naryNode(OpAdd, terms), sum.Negated)
}

// (1 / a * b) / c -> b / (ac), c / (1 / a * b) -> ac / b
func matchFractionInDivision(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpDiv)
	if err != nil {
		return nil, err
	}
	var p []Possibility
	for i, side := range node.Children {
		prod, ok := side.(*Node)
		if !ok || prod.Op != OpMul {
			continue
		}
		scope := NewScope(prod)
		for _, n := range scope.Nodes() {
			if f, ok := n.(*Node); ok && f.Op == OpDiv && isValue(f.Arg(0), 1) {
				p = append(p, P(node, RuleFractionInDivision, i == 0, scope, f))
			}
		}
	}
	return p, nil
}

func fractionInDivision(root Expr, args Args) (Expr, error) {
	node := root.(*Node)
	isNominator, scope, fraction := args[0].(bool), args[1].(*Scope).Copy(), args[2].(*Node)
	var err error
	if fraction.Negated {
		err = scope.Replace(fraction, Negate(fraction.Arg(0)))
	} else {
		err = scope.Remove(fraction)
	}
	if err != nil {
		return nil, err
	}
	nom, denom := node.Arg(0), node.Arg(1)
	if isNominator {
		nom = scope.AsNaryNode()
		denom = mul(fraction.Arg(1), denom)
	} else {
		nom = mul(fraction.Arg(1), nom)
		denom = scope.AsNaryNode()
	}
	r := div(nom, denom)
	r.Negated = node.Negated
	return r, nil
}
