package trs

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
)

var (
	// ErrEngineBug marks a matcher or handler invoked on a node it was not
	// written for.
	ErrEngineBug = errors.New("trs: rule precondition violated")
	// ErrAbort is returned by the parser for the explicit abort token.
	ErrAbort = errors.New("trs: parse aborted")
	// ErrStepLimit is returned when a fixpoint trace exceeds the step limit.
	ErrStepLimit = errors.New("trs: rewrite step limit reached")
)

// strictAssertions turns precondition violations into panics.
var strictAssertions atomic.Bool

func init() { strictAssertions.Store(env.Bool("TRS_STRICT")) }

// SetStrictAssertions switches between panicking on a violated rule
// precondition and returning ErrEngineBug. It returns the previous setting.
func SetStrictAssertions(on bool) bool { return strictAssertions.Swap(on) }

func bugf(format string, args ...interface{}) error {
	err := errors.Wrapf(ErrEngineBug, format, args...)
	if strictAssertions.Load() {
		panic(err)
	}
	return err
}

// expectNode asserts that e is a node with one of the given operators.
func expectNode(e Expr, ops ...Op) (*Node, error) {
	n, ok := e.(*Node)
	if !ok || !isOp(n, ops...) {
		return nil, bugf("%s is not a %v node", e, ops)
	}
	return n, nil
}

// DomainError reports a mathematically undefined operation such as a
// division by zero or a logarithm with base 1.
type DomainError struct {
	Expr   Expr
	Reason string
}

func (e *DomainError) Error() string {
	if e.Expr == nil {
		return "trs: domain error: " + e.Reason
	}
	return fmt.Sprintf("trs: domain error in %s: %s", e.Expr, e.Reason)
}

// ScopeConsistencyError reports a scope operation on a member that is not
// part of the scope anymore.
type ScopeConsistencyError struct {
	Scope  Expr
	Member Expr
}

func (e *ScopeConsistencyError) Error() string {
	return fmt.Sprintf("trs: %s is not in the scope of %s", e.Member, e.Scope)
}

// AmbiguousVariableError reports a derivative or integral whose variable
// cannot be determined.
type AmbiguousVariableError struct {
	Expr      Expr
	Variables []string
}

func (e *AmbiguousVariableError) Error() string {
	return fmt.Sprintf("trs: cannot determine the variable of %s, candidates: %s",
		e.Expr, strings.Join(e.Variables, ", "))
}

// SyntaxError is returned by the parser.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("trs: syntax error at %d: %s", e.Pos, e.Msg)
}

// IsDomainError reports whether err wraps a *DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
