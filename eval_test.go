package trs_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func TestEval(t *testing.T) {
	env := map[string]float64{"x": 2, "y": 3}
	tests := []struct {
		src  string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"x^2 - y", 1},
		{"-(x + y)", -5},
		{"x / y * 3", 2},
		{"sqrt(16) + |-x|", 6},
		{"log(100) + log_2(8) + ln(e)", 6},
		{"sin(0) + cos(0)", 1},
		{"2pi", 2 * math.Pi},
		{"[x^2]_0^3", 9},
		{"2.5 * 2", 5},
	}
	for _, tt := range tests {
		got, err := trs.Eval(trs.MustParse(tt.src), env)
		if assert.NoError(t, err, tt.src) {
			assert.InDelta(t, tt.want, got, 1e-9, tt.src)
		}
	}
}

func TestEval_Errors(t *testing.T) {
	_, err := trs.Eval(trs.MustParse("a + 1"), nil)
	assert.ErrorContains(t, err, `unbound identifier "a"`)

	_, err = trs.Eval(trs.MustParse("1 / (2 - 2)"), nil)
	assert.True(t, trs.IsDomainError(err), "%v", err)

	_, err = trs.Eval(trs.MustParse("log(2, 1)"), nil)
	assert.True(t, trs.IsDomainError(err), "%v", err)

	_, err = trs.Eval(trs.MustParse("d/dx x^2"), map[string]float64{"x": 1})
	assert.Error(t, err)

	_, err = trs.Eval(trs.MustParse("x = 1"), map[string]float64{"x": 1})
	assert.Error(t, err)
}

func TestEval_EnvShadowsConstants(t *testing.T) {
	v, err := trs.Eval(trs.MustParse("pi"), map[string]float64{"pi": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}
