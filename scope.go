package trs

// Scope is the flattened view of a run of one associative operator:
// a + (b + c) and (a + b) + c both have the scope [a, b, c]. Children that
// are negated or carry another operator are opaque members.
//
// A scope captured by a matcher is shared with the possibility it builds;
// handlers mutate a Copy.
type Scope struct {
	node  *Node
	nodes []Expr
}

// NewScope flattens the associative run rooted at node.
func NewScope(node *Node) *Scope {
	return &Scope{node: node, nodes: flatten(node, nil)}
}

func flatten(node *Node, out []Expr) []Expr {
	for _, c := range node.Children {
		if cn, ok := c.(*Node); ok && cn.Op == node.Op && !cn.Negated {
			out = flatten(cn, out)
			continue
		}
		out = append(out, c)
	}
	return out
}

// multScope returns the multiplication scope of e, treating a non-product
// as a scope of one factor.
func multScope(e Expr) *Scope {
	if n, ok := e.(*Node); ok && n.Op == OpMul {
		return NewScope(n)
	}
	return &Scope{node: N(OpMul, e), nodes: []Expr{e}}
}

// addScope is the addition counterpart of multScope.
func addScope(e Expr) *Scope {
	if n, ok := e.(*Node); ok && n.Op == OpAdd {
		return NewScope(n)
	}
	return &Scope{node: N(OpAdd, e), nodes: []Expr{e}}
}

func (s *Scope) Node() *Node    { return s.node }
func (s *Scope) Len() int       { return len(s.nodes) }
func (s *Scope) At(i int) Expr  { return s.nodes[i] }
func (s *Scope) Nodes() []Expr  { return append([]Expr(nil), s.nodes...) }
func (s *Scope) Copy() *Scope   { return &Scope{node: s.node, nodes: s.Nodes()} }
func (s *Scope) String() string { return s.AsNaryNode().String() }
func (s *Scope) Equal(o *Scope) bool {
	if o == nil || !s.node.Equal(o.node) || len(s.nodes) != len(o.nodes) {
		return false
	}
	for i, n := range s.nodes {
		if !n.Equal(o.nodes[i]) {
			return false
		}
	}
	return true
}

// Index returns the position of member: the identical subtree when present,
// otherwise the first structurally equal one, otherwise -1.
func (s *Scope) Index(member Expr) int {
	for i, n := range s.nodes {
		if n == member {
			return i
		}
	}
	for i, n := range s.nodes {
		if n.Equal(member) {
			return i
		}
	}
	return -1
}

// Remove deletes member from the scope.
func (s *Scope) Remove(member Expr) error {
	i := s.Index(member)
	if i < 0 {
		return &ScopeConsistencyError{Scope: s.node, Member: member}
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	return nil
}

// Replace puts replacement at the position of member.
func (s *Scope) Replace(member, replacement Expr) error {
	i := s.Index(member)
	if i < 0 {
		return &ScopeConsistencyError{Scope: s.node, Member: member}
	}
	s.nodes[i] = replacement
	return nil
}

// AsNaryNode folds the members back into a binary chain nested to the left,
// ((a + b) + c), carrying the negation of the scope's node. A single member
// is returned as is (negated along with the node).
func (s *Scope) AsNaryNode() Expr {
	return negateIf(naryNode(s.node.Op, s.nodes), s.node.Negated)
}

// AllExcept folds every member but the given one.
func (s *Scope) AllExcept(member Expr) (Expr, error) {
	i := s.Index(member)
	if i < 0 {
		return nil, &ScopeConsistencyError{Scope: s.node, Member: member}
	}
	rest := make([]Expr, 0, len(s.nodes)-1)
	rest = append(rest, s.nodes[:i]...)
	rest = append(rest, s.nodes[i+1:]...)
	return negateIf(naryNode(s.node.Op, rest), s.node.Negated), nil
}

func naryNode(op Op, nodes []Expr) Expr {
	if len(nodes) == 0 {
		switch op {
		case OpAdd:
			return Int(0)
		case OpMul:
			return Int(1)
		}
		return nil
	}
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = N(op, acc, n)
	}
	return acc
}

// removeFromMultScope drops member from a product scope; removing the last
// factor leaves 1.
func removeFromMultScope(s *Scope, member Expr) (Expr, error) {
	if s.Len() == 1 {
		if err := s.Replace(member, Int(1)); err != nil {
			return nil, err
		}
	} else if err := s.Remove(member); err != nil {
		return nil, err
	}
	return s.AsNaryNode(), nil
}
