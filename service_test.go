package trs_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func newService() *trs.Service {
	return trs.NewService(trs.NewEngine(), nil)
}

func TestService_Answer(t *testing.T) {
	svc := newService()
	final, steps, err := svc.Answer("2/15 + 1/4", false)
	require.NoError(t, err)
	assert.Equal(t, "23 / 60", final)
	require.Len(t, steps, 2, "the implicit addition folds into the step before it")
	assert.Equal(t, "add_nominators", steps[1].Rule)
	assert.Equal(t, "23 / 60", steps[1].Result)

	_, steps, err = svc.Answer("2/15 + 1/4", true)
	require.NoError(t, err)
	assert.Len(t, steps, 3)
	assert.True(t, steps[2].Implicit)
}

func TestService_AnswerStepLimit(t *testing.T) {
	svc := trs.NewService(trs.NewEngine(trs.WithMaxSteps(1)), nil)
	final, steps, err := svc.Answer("2/15 + 1/4", false)
	assert.True(t, errors.Is(err, trs.ErrStepLimit), "%v", err)
	require.Len(t, steps, 1)
	assert.Equal(t, "equalize_denominators", steps[0].Rule)
	assert.Equal(t, steps[0].Result, final)
}

func TestService_HintAndStep(t *testing.T) {
	svc := newService()
	hint, err := svc.Hint("3a + a")
	require.NoError(t, err)
	assert.Equal(t, "a occurs with coefficients 3 and 1, combine them.", hint)

	st, ok, err := svc.Step("3a + a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "combine_groups", st.Rule)
	assert.True(t, trs.MustParse(st.Result).Equal(trs.MustParse("(3 + 1)a")), st.Result)

	hint, err = svc.Hint("x")
	require.NoError(t, err)
	assert.Empty(t, hint)
	_, ok, err = svc.Step("x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ParseErrors(t *testing.T) {
	svc := newService()
	_, err := svc.Possibilities("a +")
	assert.ErrorContains(t, err, `parsing "a +"`)
	_, _, err = svc.Answer("(", false)
	assert.Error(t, err)
}

func TestService_Validate(t *testing.T) {
	svc := newService()
	v, err := svc.Validate(context.Background(), "3a + a", "4a")
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "4a", v.Witness)
	require.Len(t, v.Path, 2)
	assert.Equal(t, "4a", v.Path[1].Result)

	v, err = svc.Validate(context.Background(), "a + b", "b + a")
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Path)
	assert.Equal(t, "a + b", v.Witness, "the witness is the reached tree")

	v, err = svc.Validate(context.Background(), "3a + a", "4a + 1")
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Empty(t, v.Witness)

	n, err := svc.ValidateLines(context.Background(), "3a + a\n4a\n4a + 1\n")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_Possibilities(t *testing.T) {
	ps, err := newService().Possibilities("8/60 + 15/60")
	require.NoError(t, err)
	require.NotEmpty(t, ps)
	var roots []string
	for _, p := range ps {
		if p.Rule == "add_nominators" {
			roots = append(roots, p.Root)
		}
	}
	assert.Equal(t, []string{"8 / 60 + 15 / 60"}, roots)
}

// ============================================================
// Tool calls
// ============================================================

func call(t *testing.T, svc *trs.Service, raw string) trs.ToolResponse {
	t.Helper()
	var req trs.ToolRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return svc.HandleToolCall(context.Background(), req)
}

func TestTools_Answer(t *testing.T) {
	resp := call(t, newService(), `{"tool": "answer", "params": {"expr": "3a + a"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "4a", resp.String)
	assert.Equal(t, "node", resp.Tree["type"])
	assert.Equal(t, "mul", resp.Tree["op"])
}

func TestTools_JSONExpression(t *testing.T) {
	resp := call(t, newService(), `{"tool": "eval", "params": {
		"expr": {"type": "node", "op": "add", "args": [{"type": "ident", "name": "x"}, {"type": "int", "value": "2"}]},
		"env": {"x": 1.5}
	}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, 3.5, resp.Result)
}

func TestTools_Validate(t *testing.T) {
	svc := newService()
	resp := call(t, svc, `{"tool": "validate", "params": {"from": "3a + a", "to": "4a"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "valid: true", resp.String)

	resp = call(t, svc, `{"tool": "validate", "params": {"lines": "3a + a\n4a"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, 1, resp.Result)
}

func TestTools_Step(t *testing.T) {
	svc := newService()
	resp := call(t, svc, `{"tool": "step", "params": {"expr": "-sqrt(a^2)"}}`)
	require.Empty(t, resp.Error)
	assert.Equal(t, "-a", resp.String)

	resp = call(t, svc, `{"tool": "step", "params": {"expr": "a"}}`)
	require.Empty(t, resp.Error)
	assert.Nil(t, resp.Result)
	assert.Equal(t, "a", resp.String)
}

func TestTools_Errors(t *testing.T) {
	svc := newService()
	for _, raw := range []string{
		`{"tool": "frobnicate"}`,
		`{"tool": "hint", "params": {}}`,
		`{"tool": "hint", "params": {"expr": 3}}`,
		`{"tool": "eval", "params": {"expr": "x"}}`,
		`{"tool": "eval", "params": {"expr": "x", "env": {"x": "one"}}}`,
		`{"tool": "validate", "params": {"from": "a"}}`,
		`{"tool": "possibilities", "params": {"expr": {"type": "node", "op": "neg", "args": []}}}`,
	} {
		assert.NotEmpty(t, call(t, svc, raw).Error, raw)
	}
	assert.Equal(t, "missing param: expr", call(t, svc, `{"tool": "hint", "params": {}}`).Error)
	assert.Equal(t, "param env.x must be a number",
		call(t, svc, `{"tool": "eval", "params": {"expr": "x", "env": {"x": "one"}}}`).Error)
}

func TestToolSpec(t *testing.T) {
	var schema struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(trs.ToolSpec()), &schema))
	var names []string
	for _, tool := range schema.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"possibilities", "hint", "step", "answer", "validate", "eval", "tool_spec"}, names)
}
