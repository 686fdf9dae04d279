package trs

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"
)

// JSON form of a tree:
//
//	{"type": "int", "value": "12"}
//	{"type": "float", "value": 1.5}
//	{"type": "ident", "name": "x"}
//	{"type": "node", "op": "add", "args": [...]}
//
// Any of them may carry "negated": true. Integers are strings so that big
// values survive decoders that read numbers as float64.

// ToJSON encodes e.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(exprJSON(e))
	return string(b), err
}

func exprJSON(e Expr) map[string]interface{} {
	var m map[string]interface{}
	switch e := e.(type) {
	case *Leaf:
		switch e.Kind {
		case KindInteger:
			m = map[string]interface{}{"type": "int", "value": e.Int.String()}
		case KindFloat:
			m = map[string]interface{}{"type": "float", "value": e.Float}
		default:
			m = map[string]interface{}{"type": "ident", "name": e.Name}
		}
	case *Node:
		args := make([]interface{}, len(e.Children))
		for i, c := range e.Children {
			args[i] = exprJSON(c)
		}
		m = map[string]interface{}{"type": "node", "op": e.Op.String(), "args": args}
	}
	if e.IsNegated() {
		m["negated"] = true
	}
	return m
}

// ParseJSON decodes a tree from its JSON text.
func ParseJSON(data string) (Expr, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, errors.Wrap(err, "decoding expression")
	}
	return FromJSON(m)
}

// FromJSON decodes a tree from a generic JSON object.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, errors.New("expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, errors.New("field 'type' must be a non-empty string")
	}
	negated := false
	if v, ok := data["negated"]; ok {
		if negated, ok = v.(bool); !ok {
			return nil, errors.Errorf("%s: 'negated' must be a boolean", typ)
		}
	}

	var e Expr
	switch typ {
	case "int":
		s, ok := data["value"].(string)
		if !ok {
			return nil, errors.New("int: 'value' must be a decimal string")
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.Errorf("int: invalid value %q", s)
		}
		e = BigInt(v)
	case "float":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, errors.New("float: 'value' must be a number")
		}
		e = Float(v)
	case "ident":
		name, ok := data["name"].(string)
		if !ok || name == "" {
			return nil, errors.New("ident: 'name' must be a non-empty string")
		}
		e = Ident(name)
	case "node":
		name, _ := data["op"].(string)
		op, ok := ParseOp(name)
		if !ok || op == OpNeg {
			return nil, errors.Errorf("node: unknown op %q", name)
		}
		raw, ok := data["args"].([]interface{})
		if !ok || len(raw) == 0 {
			return nil, errors.New("node: 'args' must be a non-empty array")
		}
		args := make([]Expr, len(raw))
		for i, r := range raw {
			m, ok := r.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf("node: args[%d] must be an object", i)
			}
			c, err := FromJSON(m)
			if err != nil {
				return nil, errors.Wrapf(err, "args[%d]", i)
			}
			args[i] = c
		}
		e = N(op, args...)
	default:
		return nil, errors.Errorf("unknown expression type %q", typ)
	}
	return negateIf(e, negated), nil
}
