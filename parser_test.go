package trs_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

var (
	a = trs.Ident("a")
	b = trs.Ident("b")
	c = trs.Ident("c")
	x = trs.Ident("x")
)

func add(l, r trs.Expr) *trs.Node { return trs.N(trs.OpAdd, l, r) }
func mul(l, r trs.Expr) *trs.Node { return trs.N(trs.OpMul, l, r) }
func div(l, r trs.Expr) *trs.Node { return trs.N(trs.OpDiv, l, r) }
func pow(l, r trs.Expr) *trs.Node { return trs.N(trs.OpPow, l, r) }

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		src  string
		want trs.Expr
	}{
		{"3a", mul(trs.Int(3), a)},
		{"ab", mul(a, b)},
		{"a(b + c)", mul(a, add(b, c))},
		{"a - b", add(a, trs.Negate(b))},
		{"-a + b", add(trs.Negate(a), b)},
		{"a * -b", mul(a, trs.Negate(b))},
		{"a + b + c", add(add(a, b), c)},
		{"a / b / c", div(div(a, b), c)},
		{"a^b^c", pow(a, pow(b, c))},
		{"a^-2", pow(a, trs.Int(-2))},
		{"-a^2", trs.Negate(pow(a, trs.Int(2)))},
		{"2.5", trs.Float(2.5)},
		{"sin x^2", trs.N(trs.OpSin, pow(x, trs.Int(2)))},
		{"sin(x)^2", pow(trs.N(trs.OpSin, x), trs.Int(2))},
		{"sqrt(4)", trs.N(trs.OpSqrt, trs.Int(4))},
		{"|a|", trs.N(trs.OpAbs, a)},
		{"log(x)", trs.Log(x, nil)},
		{"ln x", trs.Ln(x)},
		{"log_2(x)", trs.Log(x, trs.Int(2))},
		{"log(x, b)", trs.Log(x, b)},
		{"2log(3)", mul(trs.Int(2), trs.Log(trs.Int(3), nil))},
		{"xsin(x)", mul(x, trs.N(trs.OpSin, x))},
		{"pi", trs.Ident(trs.ConstPi)},
		{"d/dx x^2", trs.Der(pow(x, trs.Int(2)), "x")},
		{"[x^2]'", trs.Der(pow(x, trs.Int(2)), "")},
		{"int x dx", trs.Integral(x, "x", nil, nil)},
		{"int_0^1 x dx", trs.Integral(x, "x", trs.Int(0), trs.Int(1))},
		{"[x^2]_0^2", trs.IntDef(pow(x, trs.Int(2)), "x", trs.Int(0), trs.Int(2))},
		{"x = 2", trs.N(trs.OpEq, x, trs.Int(2))},
		{"a = 1 ^^ b = 2", trs.N(trs.OpAnd, trs.N(trs.OpEq, a, trs.Int(1)), trs.N(trs.OpEq, b, trs.Int(2)))},
		{"x = 1 vv x = -1", trs.N(trs.OpOr, trs.N(trs.OpEq, x, trs.Int(1)), trs.N(trs.OpEq, x, trs.Int(-1)))},
	}
	for _, tt := range tests {
		got, err := trs.Parse(tt.src)
		if assert.NoError(t, err, tt.src) {
			assert.True(t, got.Equal(tt.want), "%s: got %s (%s), want %s", tt.src, got, got.Key(), tt.want.Key())
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"", "a +", "(a", "|a", "a $ b", "log_(x)", "[a]"} {
		_, err := trs.Parse(src)
		var se *trs.SyntaxError
		assert.True(t, errors.As(err, &se), "%q: %v", src, err)
	}
}

func TestParse_Raise(t *testing.T) {
	_, err := trs.Parse("a + raise")
	assert.True(t, errors.Is(err, trs.ErrAbort))
}

func TestParse_AmbiguousIntegralVariable(t *testing.T) {
	_, err := trs.Parse("int xy")
	var ave *trs.AmbiguousVariableError
	require.True(t, errors.As(err, &ave), "%v", err)
	assert.Equal(t, []string{"x", "y"}, ave.Variables)
	assert.Equal(t, "trs: cannot determine the variable of xy, candidates: x, y", err.Error())

	_, err = trs.Parse("[xy]_0^1")
	require.True(t, errors.As(err, &ave), "%v", err)
	assert.Equal(t, "trs: cannot determine the variable of xy, candidates: x, y", err.Error())
}

// ============================================================
// Printing
// ============================================================

func TestPrint_Forms(t *testing.T) {
	tests := []struct {
		e    trs.Expr
		want string
	}{
		{mul(trs.Int(2), a), "2a"},
		{mul(a, trs.Int(2)), "a * 2"},
		{add(a, trs.Negate(b)), "a - b"},
		{trs.Negate(add(a, b)), "-(a + b)"},
		{mul(a, add(b, c)), "a(b + c)"},
		{div(add(a, b), c), "(a + b) / c"},
		{div(a, mul(b, c)), "a / (bc)"},
		{pow(a, pow(b, c)), "a^b^c"},
		{pow(pow(a, b), c), "(a^b)^c"},
		{pow(a, trs.Int(-2)), "a^(-2)"},
		{trs.Float(2), "2.0"},
		{trs.Log(x, nil), "log(x)"},
		{trs.Ln(x), "ln(x)"},
		{trs.Log(x, trs.Int(2)), "log_2(x)"},
		{trs.N(trs.OpAbs, trs.Negate(a)), "|-a|"},
		{trs.Der(pow(x, trs.Int(2)), "x"), "d/dx (x^2)"},
		{trs.Integral(x, "x", trs.Int(0), trs.Int(1)), "int_0^1 x dx"},
		{trs.N(trs.OpEq, x, trs.Int(2)), "x = 2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.e.String())
	}
}

func TestPrint_RoundTrip(t *testing.T) {
	for _, src := range []string{
		"2/15 + 1/4",
		"3a + a + b + 2b",
		"a / b / (c / d)",
		"-(a - b)",
		"(-2)a",
		"sin(x)cos(x)",
		"sin(x)^2 + cos(x)^2",
		"x sin(x)",
		"s in",
		"a / b * c",
		"2 * 3",
		"|a||b|",
		"log_2(8) + ln(e) - log(100)",
		"d/dx (x^2 + 3x)",
		"[sin(x)]'",
		"int x^2 + 1 dx",
		"int_(-1)^(a + 1) x dx * y",
		"[x^3 / 3]_0^2",
		"2x = 4 ^^ y = x",
		"x = 2 vv x = -2",
		"sqrt(12) + 2.5",
		"a^(-2) + (-a)^3",
	} {
		e, err := trs.Parse(src)
		require.NoError(t, err, src)
		back, err := trs.Parse(e.String())
		require.NoError(t, err, "%s printed as %s", src, e)
		assert.True(t, back.Equal(e), "%s printed as %s reads back as %s", src, e, back)
	}
}
