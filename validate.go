package trs

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Search budgets of a Validator.
const (
	DefaultMaxDepth = 12
	DefaultMaxNodes = 200000
)

// Validator decides whether one expression rewrites into another.
//
// The search is an iterative deepening depth-first search: every iteration
// explores the rewrite tree pre-order, possibilities in the order they are
// found, down to a growing depth limit. Trees already reached at the same or
// a smaller depth are skipped within an iteration.
type Validator struct {
	engine   *Engine
	maxDepth int
	maxNodes int
}

// NewValidator returns a validator using the rules of engine. Budgets of
// zero or less take the defaults.
func NewValidator(engine *Engine, maxDepth, maxNodes int) *Validator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &Validator{engine: engine, maxDepth: maxDepth, maxNodes: maxNodes}
}

// Validation is the outcome of a search.
type Validation struct {
	Valid bool
	// Witness is the reached tree, equivalent to the goal.
	Witness Expr
	// Path holds the steps from the start to the witness.
	Path []Step
	// Depth is the last depth limit searched.
	Depth int
	// Explored counts the trees expanded over all iterations.
	Explored int
	// Exhausted is set when a budget ended the search before it was
	// conclusive.
	Exhausted bool
}

type frame struct {
	tree   Expr
	depth  int
	parent *frame
	via    Possibility
}

func (f *frame) path(e *Engine) []Step {
	var steps []Step
	for ; f.parent != nil; f = f.parent {
		steps = append(steps, Step{
			Possibility: f.via,
			Hint:        f.via.Message(),
			Tree:        f.tree,
			Implicit:    e.strategy.IsImplicit(f.via.Rule),
		})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// Validate searches a rewrite sequence from start to a tree equivalent to
// goal: operand order inside associative operators does not matter,
// negation does.
func (v *Validator) Validate(ctx context.Context, start, goal Expr) (*Validation, error) {
	res := &Validation{}
	defer func() {
		v.engine.log.Debug("validation finished",
			"valid", res.Valid, "depth", res.Depth, "explored", res.Explored, "exhausted", res.Exhausted)
	}()
	for limit := 0; limit <= v.maxDepth; limit++ {
		res.Depth = limit
		found, truncated, err := v.search(ctx, start, goal, limit, res)
		if err != nil {
			return res, err
		}
		if found != nil {
			res.Valid = true
			res.Witness = found.tree
			res.Path = found.path(v.engine)
			return res, nil
		}
		if res.Exhausted || !truncated {
			return res, nil
		}
	}
	res.Exhausted = true
	return res, nil
}

// search runs one depth-limited iteration. truncated reports whether some
// tree at the limit still had possibilities.
func (v *Validator) search(ctx context.Context, start, goal Expr, limit int, res *Validation) (found *frame, truncated bool, err error) {
	seen := map[string]int{}
	stack := []*frame{{tree: start}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, errors.Wrap(err, "validation cancelled")
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := f.tree.Key()
		if d, ok := seen[key]; ok && d <= f.depth {
			continue
		}
		seen[key] = f.depth

		if Equiv(f.tree, goal, false) {
			return f, false, nil
		}
		ps, err := v.engine.Possibilities(f.tree)
		if err != nil {
			return nil, false, err
		}
		ps = FilterDuplicates(ps)
		if len(ps) == 0 {
			continue
		}
		if f.depth >= limit {
			truncated = true
			continue
		}
		if res.Explored >= v.maxNodes {
			res.Exhausted = true
			return nil, true, nil
		}
		res.Explored++
		children := make([]*frame, 0, len(ps))
		for _, p := range ps {
			next, err := v.engine.Apply(f.tree, p)
			if err != nil {
				return nil, false, err
			}
			children = append(children, &frame{tree: next, depth: f.depth + 1, parent: f, via: p})
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil, truncated, nil
}

// ValidateChain checks every non-empty line against the next non-empty one
// and returns how many lines after the first validated in a row.
func (v *Validator) ValidateChain(ctx context.Context, lines []string) (int, error) {
	var prev Expr
	validated := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		e, err := Parse(line)
		if err != nil {
			return validated, err
		}
		if prev != nil {
			res, err := v.Validate(ctx, prev, e)
			if err != nil {
				return validated, err
			}
			if !res.Valid {
				return validated, nil
			}
			validated++
		}
		prev = e
	}
	return validated, nil
}
