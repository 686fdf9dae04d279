package trs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func TestJSON_Format(t *testing.T) {
	s, err := trs.ToJSON(trs.MustParse("-x^2"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "node", "op": "pow", "negated": true,
		"args": [{"type": "ident", "name": "x"}, {"type": "int", "value": "2"}]
	}`, s)
}

func TestJSON_BigIntegersSurvive(t *testing.T) {
	src := "123456789012345678901234567890 + 1.5"
	s, err := trs.ToJSON(trs.MustParse(src))
	require.NoError(t, err)
	back, err := trs.ParseJSON(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(trs.MustParse(src)), back.String())
}

func TestJSON_Rejects(t *testing.T) {
	for _, in := range []string{
		`[]`,
		`{}`,
		`{"type": "int", "value": 12}`,
		`{"type": "int", "value": "1x"}`,
		`{"type": "float", "value": "1.5"}`,
		`{"type": "ident"}`,
		`{"type": "node", "op": "neg", "args": [{"type": "ident", "name": "x"}]}`,
		`{"type": "node", "op": "frobnicate", "args": [{"type": "ident", "name": "x"}]}`,
		`{"type": "node", "op": "add", "args": []}`,
		`{"type": "node", "op": "add", "args": [1, 2]}`,
		`{"type": "ident", "name": "x", "negated": "yes"}`,
	} {
		_, err := trs.ParseJSON(in)
		assert.Error(t, err, in)
	}
}
