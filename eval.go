package trs

import (
	"math"

	"github.com/pkg/errors"
)

// Eval computes the float value of e with identifiers bound by env. The
// constants pi, e and oo have their usual values unless env binds them.
// Derivatives, indefinite integrals, equations and their conjunctions have
// no value.
func Eval(e Expr, env map[string]float64) (float64, error) {
	v, err := eval(e, env)
	if err != nil {
		return 0, err
	}
	if e.IsNegated() {
		return -v, nil
	}
	return v, nil
}

func eval(e Expr, env map[string]float64) (float64, error) {
	switch e := e.(type) {
	case *Leaf:
		return evalLeaf(e, env)
	case *Node:
		return evalNode(e, env)
	}
	return 0, errors.Errorf("cannot evaluate %T", e)
}

func evalLeaf(l *Leaf, env map[string]float64) (float64, error) {
	if l.IsNumeric() {
		return Positive(l).(*Leaf).Float64(), nil
	}
	if v, ok := env[l.Name]; ok {
		return v, nil
	}
	switch l.Name {
	case ConstPi:
		return math.Pi, nil
	case ConstE:
		return math.E, nil
	case ConstInfinity:
		return math.Inf(1), nil
	}
	return 0, errors.Errorf("unbound identifier %q", l.Name)
}

func evalNode(n *Node, env map[string]float64) (float64, error) {
	if n.Op == OpIntDef {
		return evalBracket(n, env)
	}
	args := make([]float64, n.Len())
	for i, c := range n.Children {
		v, err := Eval(c, env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	switch n.Op {
	case OpAdd:
		s := 0.0
		for _, v := range args {
			s += v
		}
		return s, nil
	case OpMul:
		p := 1.0
		for _, v := range args {
			p *= v
		}
		return p, nil
	case OpDiv:
		if args[1] == 0 {
			return 0, &DomainError{Expr: n, Reason: "division by zero"}
		}
		return args[0] / args[1], nil
	case OpPow:
		return math.Pow(args[0], args[1]), nil
	case OpAbs:
		return math.Abs(args[0]), nil
	case OpSqrt:
		return math.Sqrt(args[0]), nil
	case OpSin:
		return math.Sin(args[0]), nil
	case OpCos:
		return math.Cos(args[0]), nil
	case OpTan:
		return math.Tan(args[0]), nil
	case OpLog:
		if args[1] <= 0 || args[1] == 1 {
			return 0, &DomainError{Expr: n, Reason: "logarithm base must be positive and not 1"}
		}
		return math.Log(args[0]) / math.Log(args[1]), nil
	}
	return 0, errors.Errorf("cannot evaluate %s", n.Op)
}

// evalBracket computes [F]_a^b as F(b) - F(a).
func evalBracket(n *Node, env map[string]float64) (float64, error) {
	x, ok := n.Arg(1).(*Leaf)
	if !ok {
		return 0, bugf("bracket variable %s is not an identifier", n.Arg(1))
	}
	bounds := [2]float64{}
	for i, b := range []Expr{n.Arg(2), n.Arg(3)} {
		v, err := Eval(b, env)
		if err != nil {
			return 0, err
		}
		bounds[i] = v
	}
	at := func(v float64) (float64, error) {
		inner := make(map[string]float64, len(env)+1)
		for k, w := range env {
			inner[k] = w
		}
		inner[x.Name] = v
		return Eval(n.Arg(0), inner)
	}
	lower, err := at(bounds[0])
	if err != nil {
		return 0, err
	}
	upper, err := at(bounds[1])
	if err != nil {
		return 0, err
	}
	return upper - lower, nil
}
