package trs

import (
	"log/slog"

	"github.com/pkg/errors"
)

// DefaultMaxSteps bounds a fixpoint trace.
const DefaultMaxSteps = 500

// Engine finds, ranks and applies rewrite steps. An Engine holds no state
// between calls and may be shared by goroutines; every call works on its own
// copy of the tree.
type Engine struct {
	rules           RuleTable
	strategy        *Strategy
	log             *slog.Logger
	maxSteps        int
	cycleDetection  bool
	implicitFolding bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the rule table.
func WithRules(t RuleTable) Option { return func(e *Engine) { e.rules = t } }

// WithStrategy replaces the ranking of possibilities.
func WithStrategy(s *Strategy) Option { return func(e *Engine) { e.strategy = s } }

// WithLogger sets the logger; steps are logged at debug level.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithMaxSteps bounds RewriteAll. Zero or less disables the bound.
func WithMaxSteps(n int) Option { return func(e *Engine) { e.maxSteps = n } }

// WithCycleDetection makes RewriteAll skip steps that lead back to a tree
// already in the trace.
func WithCycleDetection(on bool) Option { return func(e *Engine) { e.cycleDetection = on } }

// WithImplicitFolding makes Rewrite keep applying implicit steps after the
// suggested one.
func WithImplicitFolding(on bool) Option { return func(e *Engine) { e.implicitFolding = on } }

// NewEngine returns an engine with the default rules and priorities.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:          DefaultRuleTable(),
		strategy:       NewStrategy(DefaultPriorities()),
		log:            discardLogger(),
		maxSteps:       DefaultMaxSteps,
		cycleDetection: true,
	}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = discardLogger()
	}
	return e
}

// Strategy returns the ranking in use.
func (e *Engine) Strategy() *Strategy { return e.strategy }

// ============================================================
// Possibilities
// ============================================================

// Possibilities lists every possibility in tree, children before their
// parent and left to right. An associative run is matched once, at its
// outermost node; rules for negation run on every negated subtree after
// the operator rules.
func (e *Engine) Possibilities(tree Expr) ([]Possibility, error) {
	var out []Possibility
	if err := e.collect(tree, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) collect(x Expr, parent *Node, out *[]Possibility) error {
	var matchers []Matcher
	if n, ok := x.(*Node); ok {
		for _, c := range n.Children {
			if err := e.collect(c, n, out); err != nil {
				return err
			}
		}
		inner := parent != nil && parent.Op == n.Op && n.Op.IsNary() && !n.Negated
		if !inner {
			matchers = append(matchers, e.rules[n.Op]...)
		}
	}
	if x.IsNegated() {
		matchers = append(matchers, e.rules[OpNeg]...)
	}
	for _, m := range matchers {
		ps, err := m(x)
		if err != nil {
			return errors.Wrapf(err, "matching %s", x)
		}
		*out = append(*out, ps...)
	}
	return nil
}

// Ranked returns the possibilities of tree in preference order.
func (e *Engine) Ranked(tree Expr) ([]Possibility, error) {
	ps, err := e.Possibilities(tree)
	if err != nil {
		return nil, err
	}
	return e.strategy.Sort(ps), nil
}

// Suggest returns the preferred possibility of tree; ok is false when the
// tree cannot be rewritten.
func (e *Engine) Suggest(tree Expr) (p Possibility, ok bool, err error) {
	ps, err := e.Possibilities(tree)
	if err != nil {
		return Possibility{}, false, err
	}
	p, ok = e.strategy.Pick(ps)
	return p, ok, nil
}

// ============================================================
// Applying
// ============================================================

// Apply returns a copy of tree in which the root of p is replaced by the
// result of its handler. tree is not modified.
func (e *Engine) Apply(tree Expr, p Possibility) (Expr, error) {
	repl, err := p.Apply()
	if err != nil {
		return nil, errors.Wrapf(err, "applying %s", p.Rule)
	}
	if repl == nil {
		return nil, bugf("%s returned no tree", p.Rule)
	}
	repl = repl.Clone()
	clone, target := cloneTracking(tree, p.Root)
	if target == nil {
		return nil, bugf("%s is not part of %s", p.Root, tree)
	}
	if target == clone {
		return repl, nil
	}
	parent, ok := parentIndex(clone)[target]
	if !ok || !parent.Replace(target, repl) {
		return nil, bugf("cannot splice %s into %s", p.Root, tree)
	}
	return clone, nil
}

// cloneTracking deep-copies tree and returns the copy of the first subtree
// identical to target.
func cloneTracking(tree, target Expr) (clone, found Expr) {
	var walk func(x Expr) Expr
	walk = func(x Expr) Expr {
		var c Expr
		switch x := x.(type) {
		case *Leaf:
			c = x.Clone()
		case *Node:
			children := make([]Expr, len(x.Children))
			for i, ch := range x.Children {
				children[i] = walk(ch)
			}
			c = &Node{Op: x.Op, Children: children, Negated: x.Negated}
		}
		if found == nil && x == target {
			found = c
		}
		return c
	}
	clone = walk(tree)
	return clone, found
}

// parentIndex maps every subtree of tree to the node holding it.
func parentIndex(tree Expr) map[Expr]*Node {
	idx := map[Expr]*Node{}
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if _, seen := idx[c]; !seen {
				idx[c] = n
			}
			if cn, ok := c.(*Node); ok {
				walk(cn)
			}
		}
	}
	if n, ok := tree.(*Node); ok {
		walk(n)
	}
	return idx
}

// ============================================================
// Rewriting
// ============================================================

// Step is one applied rewrite.
type Step struct {
	Possibility Possibility
	// Hint is the rendered message of the possibility.
	Hint string
	// Tree is the whole tree after the step.
	Tree     Expr
	Implicit bool
}

func (e *Engine) step(tree Expr, p Possibility) (Step, error) {
	next, err := e.Apply(tree, p)
	if err != nil {
		return Step{}, err
	}
	e.log.Debug("rewrite step", "rule", p.Rule.String(), "result", next.String())
	return Step{
		Possibility: p,
		Hint:        p.Message(),
		Tree:        next,
		Implicit:    e.strategy.IsImplicit(p.Rule),
	}, nil
}

// Rewrite applies the suggested step to tree. It returns nil when no step is
// possible. Without includeStep the hint of the result is left empty.
//
// With implicit folding, implicit steps that follow are applied too and the
// returned step carries the final tree.
func (e *Engine) Rewrite(tree Expr, includeStep bool) (*Step, error) {
	p, ok, err := e.Suggest(tree)
	if err != nil || !ok {
		return nil, err
	}
	s, err := e.step(tree, p)
	if err != nil {
		return nil, err
	}
	if e.implicitFolding {
		for i := 0; e.maxSteps <= 0 || i < e.maxSteps; i++ {
			q, ok, err := e.Suggest(s.Tree)
			if err != nil {
				return nil, err
			}
			if !ok || !e.strategy.IsImplicit(q.Rule) {
				break
			}
			next, err := e.Apply(s.Tree, q)
			if err != nil {
				return nil, err
			}
			s.Tree = next
		}
	}
	if !includeStep {
		s.Hint = ""
	}
	return &s, nil
}

// RewriteAll rewrites tree until no possibility is left and returns the
// trace. With cycle detection a step leading back to a tree of the trace is
// passed over for the next ranked one. Exceeding the step limit returns the
// trace so far with ErrStepLimit.
func (e *Engine) RewriteAll(tree Expr) ([]Step, error) {
	var steps []Step
	seen := map[string]bool{tree.Key(): true}
	current := tree
	for {
		if e.maxSteps > 0 && len(steps) >= e.maxSteps {
			return steps, errors.Wrapf(ErrStepLimit, "after %d steps on %s", len(steps), tree)
		}
		ranked, err := e.Ranked(current)
		if err != nil {
			return steps, err
		}
		var next *Step
		for _, p := range ranked {
			s, err := e.step(current, p)
			if err != nil {
				return steps, err
			}
			if e.cycleDetection && seen[s.Tree.Key()] {
				e.log.Debug("skipping cyclic step", "rule", p.Rule.String())
				continue
			}
			next = &s
			break
		}
		if next == nil {
			return steps, nil
		}
		seen[next.Tree.Key()] = true
		steps = append(steps, *next)
		current = next.Tree
	}
}

// CollapseImplicit folds every implicit step into the step before it, so
// the trace lists only the explicit steps while still ending at the final
// tree.
func CollapseImplicit(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.Implicit && len(out) > 0 {
			out[len(out)-1].Tree = s.Tree
			continue
		}
		out = append(out, s)
	}
	return out
}
