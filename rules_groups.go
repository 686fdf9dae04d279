package trs

func init() {
	registerHandlers(map[RuleID]Handler{
		RuleCombineGroups: combineGroups,
		RuleExpandSingle:  expand,
		RuleExpandDouble:  expand,
		RuleSwapFactors:   swapFactors,
	})
}

// group is a term written as coefficient * generator. The generator is
// never negated; the sign lives in the coefficient.
type group struct {
	coeff Expr
	gen   Expr
	term  Expr
}

func termGroups(n Expr) []group {
	gs := []group{{coeff: Int(1).WithNegation(n.IsNegated()), gen: Positive(n), term: n}}
	m, ok := n.(*Node)
	if !ok || m.Op != OpMul {
		return gs
	}
	factors := NewScope(m).Nodes()
	for i, f := range factors {
		if !isNumeric(f) {
			continue
		}
		others := make([]Expr, 0, len(factors)-1)
		others = append(others, factors[:i]...)
		others = append(others, factors[i+1:]...)
		neg := f.IsNegated() != n.IsNegated()
		gen := naryNode(OpMul, others)
		if gen.IsNegated() {
			neg = !neg
			gen = Positive(gen)
		}
		gs = append(gs, group{coeff: Positive(f).WithNegation(neg), gen: gen, term: n})
	}
	return gs
}

// matchCombineGroups combines like terms: a + a, a + 2a, ab + ba, 3a - a.
func matchCombineGroups(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	var groups []group
	for _, n := range NewScope(node).Nodes() {
		groups = append(groups, termGroups(n)...)
	}
	var p []Possibility
	for i, g0 := range groups {
		for _, g1 := range groups[i+1:] {
			if g0.term == g1.term || !Equiv(g0.gen, g1.gen, false) {
				continue
			}
			p = append(p, P(node, RuleCombineGroups, g0.coeff, g0.gen, g0.term, g1.coeff, g1.gen, g1.term))
		}
	}
	return p, nil
}

// 3a + a -> (3 + 1)a
func combineGroups(root Expr, args Args) (Expr, error) {
	node, err := expectNode(root, OpAdd)
	if err != nil {
		return nil, err
	}
	c0, g0, n0 := args[0].(Expr), args[1].(Expr), args[2].(Expr)
	c1, n1 := args[3].(Expr), args[5].(Expr)
	scope := NewScope(node)
	if err := scope.Replace(n0, mul(add(c0, c1), g0)); err != nil {
		return nil, err
	}
	if err := scope.Remove(n1); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// isExpandable reports whether e is a sum that is not purely numeric.
func isExpandable(e Expr) bool {
	n, ok := e.(*Node)
	if !ok || n.Op != OpAdd {
		return false
	}
	for _, t := range NewScope(n).Nodes() {
		if !isNumeric(t) {
			return true
		}
	}
	return false
}

// matchExpand distributes products over sums: a(b + c) and (a + b)(c + d).
// Factor pairs are visited by increasing distance.
func matchExpand(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	scope := NewScope(node)
	factors := scope.Nodes()
	var p []Possibility
	for distance := 1; distance < len(factors); distance++ {
		for i := 0; i+distance < len(factors); i++ {
			left, right := factors[i], factors[i+distance]
			le, re := isExpandable(left), isExpandable(right)
			switch {
			case le && re:
				p = append(p, P(node, RuleExpandDouble, scope, left, right))
			case le != re:
				p = append(p, P(node, RuleExpandSingle, scope, left, right))
			}
		}
	}
	return p, nil
}

// terms returns the terms of a sum, or e itself.
func terms(e Expr) (out []Expr, negated bool) {
	if n, ok := e.(*Node); ok && n.Op == OpAdd {
		return NewScope(n).Nodes(), n.Negated
	}
	return []Expr{e}, false
}

// (a + b)(c + d) -> ac + ad + bc + bd
func expand(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	left, right := args[1].(Expr), args[2].(Expr)
	lt, lneg := terms(left)
	rt, rneg := terms(right)
	products := make([]Expr, 0, len(lt)*len(rt))
	for _, l := range lt {
		for _, r := range rt {
			products = append(products, mul(l, r))
		}
	}
	sum := negateIf(naryNode(OpAdd, products), lneg != rneg)
	if err := scope.Replace(left, sum); err != nil {
		return nil, err
	}
	if err := scope.Remove(right); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}

// ============================================================
// Sorting
// ============================================================

type powerProp struct {
	name string
	exp  float64
}

// powerProperties returns the variable and exponent used to order x and
// x^n factors; a symbolic exponent orders like 1.
func powerProperties(e Expr) (powerProp, bool) {
	if l, ok := asLeaf(e); ok && l.IsVariable() {
		return powerProp{l.Name, 1}, true
	}
	if n, ok := e.(*Node); ok && n.Op == OpPow {
		r, ok := asLeaf(n.Arg(0))
		if !ok || !r.IsVariable() {
			return powerProp{}, false
		}
		if x, ok := asLeaf(n.Arg(1)); ok && x.IsNumeric() {
			return powerProp{r.Name, x.Float64()}, true
		}
		return powerProp{r.Name, 1}, true
	}
	return powerProp{}, false
}

func isUpper(name string) bool { return name != "" && name[0] >= 'A' && name[0] <= 'Z' }

// swapMonomial reports whether the adjacent factors left and right are out
// of order: constants first, then variables alphabetically (lower case
// before upper case), then by increasing exponent.
func swapMonomial(left, right Expr) bool {
	if evalsToNumeric(right) {
		return !evalsToNumeric(left)
	}
	lp, lok := powerProperties(left)
	rp, rok := powerProperties(right)
	if !lok || !rok {
		return false
	}
	if lp.name == rp.name {
		return lp.exp > rp.exp
	}
	if isUpper(lp.name) != isUpper(rp.name) {
		return isUpper(lp.name)
	}
	return lp.name > rp.name
}

// polyProperties returns the leading power of a term.
func polyProperties(e Expr) (powerProp, bool) {
	n, ok := e.(*Node)
	if !ok || n.Op != OpMul {
		return powerProperties(e)
	}
	var best powerProp
	found := false
	for _, f := range NewScope(n).Nodes() {
		pp, ok := powerProperties(f)
		if !ok {
			continue
		}
		if !found {
			best, found = pp, true
			continue
		}
		if (pp.name == best.name && pp.exp > best.exp) || (pp.name != best.name && pp.name < best.name) {
			best = pp
		}
	}
	return best, found
}

// swapPolynome reports whether adjacent terms are out of order: higher
// powers first, variables alphabetically, constants last.
func swapPolynome(left, right Expr) bool {
	lp, lok := polyProperties(left)
	rp, rok := polyProperties(right)
	if !lok {
		return rok
	}
	if !rok {
		return false
	}
	if lp.name == rp.name {
		return lp.exp < rp.exp
	}
	if isUpper(lp.name) != isUpper(rp.name) {
		return isUpper(lp.name)
	}
	return lp.name > rp.name
}

func matchSwaps(node *Node, swap func(l, r Expr) bool) []Possibility {
	scope := NewScope(node)
	nodes := scope.Nodes()
	var p []Possibility
	for i := 0; i+1 < len(nodes); i++ {
		if swap(nodes[i], nodes[i+1]) {
			p = append(p, P(node, RuleSwapFactors, scope, nodes[i], nodes[i+1]))
		}
	}
	return p
}

// matchSortMonomial orders a product like 2x x^2.
func matchSortMonomial(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpMul)
	if err != nil {
		return nil, err
	}
	return matchSwaps(node, swapMonomial), nil
}

// matchSortPolynome orders a sum like 2x^2 + x - 3.
func matchSortPolynome(e Expr) ([]Possibility, error) {
	node, err := expectNode(e, OpAdd)
	if err != nil {
		return nil, err
	}
	return matchSwaps(node, swapPolynome), nil
}

// fg -> gf
func swapFactors(root Expr, args Args) (Expr, error) {
	scope := args[0].(*Scope).Copy()
	left, right := args[1].(Expr), args[2].(Expr)
	if err := scope.Replace(left, N(scope.Node().Op, right, left)); err != nil {
		return nil, err
	}
	if err := scope.Remove(right); err != nil {
		return nil, err
	}
	return scope.AsNaryNode(), nil
}
