package trs

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Possibility is one applicable rewrite step: applying Rule to Root with
// Args yields the replacement of Root.
type Possibility struct {
	Root Expr
	Rule RuleID
	Args Args
}

// P builds a possibility.
func P(root Expr, rule RuleID, args ...interface{}) Possibility {
	return Possibility{Root: root, Rule: rule, Args: args}
}

// Equal compares root, rule and arguments elementwise by structure.
func (p Possibility) Equal(o Possibility) bool {
	return p.Rule == o.Rule && p.Root.Equal(o.Root) && argsEqual(p.Args, o.Args)
}

func argsEqual(a, b Args) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !argEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func argEqual(a, b interface{}) bool {
	switch a := a.(type) {
	case Expr:
		bb, ok := b.(Expr)
		return ok && a.Equal(bb)
	case *Scope:
		bb, ok := b.(*Scope)
		return ok && a.Equal(bb)
	case Args:
		bb, ok := b.(Args)
		return ok && argsEqual(a, bb)
	case *big.Int:
		bb, ok := b.(*big.Int)
		return ok && a.Cmp(bb) == 0
	case []Expr:
		bb, ok := b.([]Expr)
		if !ok || len(a) != len(bb) {
			return false
		}
		for i := range a {
			if !a[i].Equal(bb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Apply runs the rule handler on the root.
func (p Possibility) Apply() (Expr, error) {
	h := HandlerOf(p.Rule)
	if h == nil {
		return nil, bugf("rule %d has no handler", int(p.Rule))
	}
	return h(p.Root, p.Args)
}

func (p Possibility) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = renderValue(a)
	}
	return fmt.Sprintf("<%s %s [%s]>", p.Rule, p.Root, strings.Join(args, ", "))
}

var placeholder = regexp.MustCompile(`\{(\d+)((?:\[\d+\])*)\}`)
var subscript = regexp.MustCompile(`\[(\d+)\]`)

// Message renders the human-readable hint of the possibility.
func (p Possibility) Message() string {
	if r, ok := messageRenderers[p.Rule]; ok {
		return r(p)
	}
	if !p.Rule.valid() {
		return p.String()
	}
	return p.render(ruleInfos[p.Rule].message)
}

func (p Possibility) render(template string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		i, _ := strconv.Atoi(parts[1])
		var v interface{}
		if i == 0 {
			v = p.Root
		} else if i <= len(p.Args) {
			v = p.Args[i-1]
		} else {
			return m
		}
		for _, s := range subscript.FindAllStringSubmatch(parts[2], -1) {
			j, _ := strconv.Atoi(s[1])
			v = child(v, j)
			if v == nil {
				return m
			}
		}
		return renderValue(v)
	})
}

func child(v interface{}, i int) interface{} {
	switch v := v.(type) {
	case *Node:
		if i < len(v.Children) {
			return v.Children[i]
		}
	case *Scope:
		if i < v.Len() {
			return v.At(i)
		}
	}
	return nil
}

func renderValue(v interface{}) string {
	switch v := v.(type) {
	case Expr:
		return v.String()
	case *Scope:
		return v.String()
	case RuleID:
		return v.String()
	case Args:
		parts := make([]string, len(v))
		for i, a := range v {
			parts[i] = renderValue(a)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprint(v)
}

// FilterDuplicates drops possibilities equal to an earlier one.
func FilterDuplicates(ps []Possibility) []Possibility {
	out := make([]Possibility, 0, len(ps))
outer:
	for _, p := range ps {
		for _, q := range out {
			if p.Equal(q) {
				continue outer
			}
		}
		out = append(out, p)
	}
	return out
}
