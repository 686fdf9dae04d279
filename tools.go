package trs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ============================================================
// Tool interface
// ============================================================

// ToolRequest is a JSON tool call. Expression parameters are either infix
// text or a JSON tree as produced by ToJSON.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries the result of a tool call; Tree holds the JSON form
// of an expression result.
type ToolResponse struct {
	Result interface{}            `json:"result,omitempty"`
	String string                 `json:"string,omitempty"`
	Tree   map[string]interface{} `json:"tree,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// HandleToolCall dispatches req to the service.
func (s *Service) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", errors.Errorf("missing param: %s", key)
		}
		str, ok := v.(string)
		if !ok {
			return "", errors.Errorf("param %s must be a string", key)
		}
		return str, nil
	}
	// getExpr returns the parameter as infix text.
	getExpr := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", errors.Errorf("missing param: %s", key)
		}
		switch v := v.(type) {
		case string:
			return v, nil
		case map[string]interface{}:
			e, err := FromJSON(v)
			if err != nil {
				return "", err
			}
			return e.String(), nil
		}
		return "", errors.Errorf("param %s must be an expression string or object", key)
	}
	getBool := func(key string) bool {
		b, _ := req.Params[key].(bool)
		return b
	}
	getEnv := func(key string) (map[string]float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("param %s must be an object", key)
		}
		env := make(map[string]float64, len(raw))
		for name, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return nil, errors.Errorf("param %s.%s must be a number", key, name)
			}
			env[name] = f
		}
		return env, nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	respond := func(result interface{}, text string) ToolResponse {
		resp := ToolResponse{Result: result, String: text}
		if e, err := Parse(text); err == nil {
			resp.Tree = exprJSON(e)
		}
		return resp
	}

	switch req.Tool {
	case "possibilities":
		src, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		ps, err := s.Possibilities(src)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: ps, String: fmt.Sprintf("%d possibilities", len(ps))}

	case "hint":
		src, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		hint, err := s.Hint(src)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: hint, String: hint}

	case "step":
		src, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		st, ok, err := s.Step(src)
		if err != nil {
			return fail(err)
		}
		if !ok {
			return respond(nil, src)
		}
		return respond(st, st.Result)

	case "answer":
		src, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		final, steps, err := s.Answer(src, getBool("implicit"))
		if err != nil {
			return fail(err)
		}
		return respond(steps, final)

	case "validate":
		if text, err := getString("lines"); err == nil {
			n, err := s.ValidateLines(ctx, text)
			if err != nil {
				return fail(err)
			}
			return ToolResponse{Result: n, String: fmt.Sprintf("%d lines validated", n)}
		}
		from, err := getExpr("from")
		if err != nil {
			return fail(err)
		}
		to, err := getExpr("to")
		if err != nil {
			return fail(err)
		}
		v, err := s.Validate(ctx, from, to)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: v, String: fmt.Sprintf("valid: %t", v.Valid)}

	case "eval":
		src, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		env, err := getEnv("env")
		if err != nil {
			return fail(err)
		}
		v, err := s.Eval(src, env)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: v, String: fmt.Sprint(v)}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema of the tools.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("possibilities", "List the ranked rewrite possibilities of an expression", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("hint", "Describe the suggested next step", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("step", "Apply the suggested next step", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("answer", "Rewrite to the final form and return the trace. Optional: implicit (include implicit steps)", []string{"expr"}, map[string]string{"expr": "string", "implicit": "boolean"}),
		ts("validate", "Check that from rewrites into to, or that each line of lines follows from the previous one", []string{}, map[string]string{"from": "string", "to": "string", "lines": "string"}),
		ts("eval", "Evaluate numerically. Optional: env (identifier values)", []string{"expr"}, map[string]string{"expr": "string", "env": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
