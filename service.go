package trs

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Thin API
// ============================================================

// Service answers the text-in, text-out requests of the CLI, the server and
// the tool interface. It is safe for concurrent use.
type Service struct {
	engine    *Engine
	validator *Validator
}

// NewService returns a service over engine and validator. A nil validator
// takes the default budgets.
func NewService(engine *Engine, validator *Validator) *Service {
	if validator == nil {
		validator = NewValidator(engine, 0, 0)
	}
	return &Service{engine: engine, validator: validator}
}

// Engine returns the engine of the service.
func (s *Service) Engine() *Engine { return s.engine }

// StepView is the text form of one rewrite step.
type StepView struct {
	Rule     string `json:"rule"`
	Hint     string `json:"hint,omitempty"`
	Result   string `json:"result"`
	Implicit bool   `json:"implicit,omitempty"`
}

func viewStep(s Step) StepView {
	return StepView{Rule: s.Possibility.Rule.String(), Hint: s.Hint, Result: s.Tree.String(), Implicit: s.Implicit}
}

// PossibilityView is the text form of a possibility.
type PossibilityView struct {
	Rule string `json:"rule"`
	Hint string `json:"hint"`
	Root string `json:"root"`
}

func viewPossibility(p Possibility) PossibilityView {
	return PossibilityView{Rule: p.Rule.String(), Hint: p.Message(), Root: p.Root.String()}
}

func parseInput(src string) (Expr, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", src)
	}
	return e, nil
}

// Possibilities lists the ranked possibilities of src.
func (s *Service) Possibilities(src string) ([]PossibilityView, error) {
	e, err := parseInput(src)
	if err != nil {
		return nil, err
	}
	ps, err := s.engine.Ranked(e)
	if err != nil {
		return nil, err
	}
	out := make([]PossibilityView, len(ps))
	for i, p := range ps {
		out[i] = viewPossibility(p)
	}
	return out, nil
}

// Hint returns the message of the suggested step, or "" when src cannot be
// rewritten.
func (s *Service) Hint(src string) (string, error) {
	e, err := parseInput(src)
	if err != nil {
		return "", err
	}
	p, ok, err := s.engine.Suggest(e)
	if err != nil || !ok {
		return "", err
	}
	return p.Message(), nil
}

// Step applies the suggested step to src. ok is false when src cannot be
// rewritten.
func (s *Service) Step(src string) (view StepView, ok bool, err error) {
	e, err := parseInput(src)
	if err != nil {
		return StepView{}, false, err
	}
	st, err := s.engine.Rewrite(e, true)
	if err != nil || st == nil {
		return StepView{}, false, err
	}
	return viewStep(*st), true, nil
}

// Answer rewrites src to its final form and returns it with the trace.
// Without implicit steps, those are folded into the explicit step before
// them. When rewriting fails part way, as with ErrStepLimit, the tree and
// trace reached so far come back with the error.
func (s *Service) Answer(src string, implicit bool) (string, []StepView, error) {
	e, err := parseInput(src)
	if err != nil {
		return "", nil, err
	}
	steps, err := s.engine.RewriteAll(e)
	if !implicit {
		steps = CollapseImplicit(steps)
	}
	views := make([]StepView, len(steps))
	for i, st := range steps {
		views[i] = viewStep(st)
	}
	final := e
	if len(steps) > 0 {
		final = steps[len(steps)-1].Tree
	}
	return final.String(), views, err
}

// ValidationView is the text form of a validation.
type ValidationView struct {
	Valid     bool       `json:"valid"`
	Witness   string     `json:"witness,omitempty"`
	Path      []StepView `json:"path,omitempty"`
	Depth     int        `json:"depth"`
	Explored  int        `json:"explored"`
	Exhausted bool       `json:"exhausted,omitempty"`
}

// Validate reports whether from rewrites into to.
func (s *Service) Validate(ctx context.Context, from, to string) (ValidationView, error) {
	start, err := parseInput(from)
	if err != nil {
		return ValidationView{}, err
	}
	goal, err := parseInput(to)
	if err != nil {
		return ValidationView{}, err
	}
	res, err := s.validator.Validate(ctx, start, goal)
	if err != nil {
		return ValidationView{}, err
	}
	view := ValidationView{Valid: res.Valid, Depth: res.Depth, Explored: res.Explored, Exhausted: res.Exhausted}
	if res.Witness != nil {
		view.Witness = res.Witness.String()
	}
	for _, st := range res.Path {
		view.Path = append(view.Path, viewStep(st))
	}
	return view, nil
}

// ValidateLines checks a derivation written one expression per line and
// returns how many lines after the first follow from their predecessor.
func (s *Service) ValidateLines(ctx context.Context, text string) (int, error) {
	return s.validator.ValidateChain(ctx, strings.Split(text, "\n"))
}

// Eval computes the value of src.
func (s *Service) Eval(src string, env map[string]float64) (float64, error) {
	e, err := parseInput(src)
	if err != nil {
		return 0, err
	}
	return Eval(e, env)
}
