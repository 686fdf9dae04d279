package trs_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func TestRules_Complete(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range trs.Rules() {
		name := r.String()
		assert.NotEqual(t, "invalid_rule", name)
		assert.False(t, seen[name], "duplicate rule name %s", name)
		seen[name] = true
		assert.NotNil(t, trs.HandlerOf(r), "%s has no handler", name)

		back, ok := trs.ParseRule(name)
		assert.True(t, ok, name)
		assert.Equal(t, r, back)
	}
	_, ok := trs.ParseRule("no_such_rule")
	assert.False(t, ok)
	assert.Nil(t, trs.HandlerOf(trs.RuleID(0)))
}

var numericEnv = map[string]float64{"a": 2, "b": 3, "c": 5, "d": 7}

// Every possibility of these expressions must preserve their value.
func TestRules_PreserveValue(t *testing.T) {
	engine := trs.NewEngine()
	for _, src := range []string{
		"2/15 + 1/4",
		"2 / 4",
		"1/3 + 2",
		"3a + a + 2b",
		"a - a + b",
		"-(a - b)",
		"(-a)(-b)c",
		"(a^2)^3",
		"a^2 a^3",
		"a a^2 b",
		"a^5 / a^2",
		"(ab)^2",
		"(a / b)^2",
		"a^-2",
		"a^(3/2)",
		"(a + b)^2",
		"a(b + c)",
		"(a + b)(c + d)",
		"a/b/(c/d)",
		"(a + b)/(c + d) + a/c",
		"2a / 3",
		"ab / (ac)",
		"sqrt(12)",
		"sqrt(16)",
		"sqrt(a^2 b)",
		"|-ab|",
		"|a^3|",
		"sin(-a) + cos(-a)",
		"sin(a)^2 + cos(a)^2",
		"log_2(8)",
		"log(a) + log(b)",
		"log(a) - log(b)",
		"2log(3)",
		"log(a^3)",
		"2^3 + (-2)^3",
	} {
		tree := trs.MustParse(src)
		want, err := trs.Eval(tree, numericEnv)
		require.NoError(t, err, src)

		ps, err := engine.Possibilities(tree)
		require.NoError(t, err, src)
		assert.NotEmpty(t, ps, "%s offers no step", src)
		for _, p := range ps {
			next, err := engine.Apply(tree, p)
			require.NoError(t, err, "%s: %s", src, p)
			got, err := trs.Eval(next, numericEnv)
			require.NoError(t, err, "%s: %s gave %s", src, p.Rule, next)
			assert.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "%s: %s gave %s", src, p.Rule, next)
		}
	}
}

func TestRules_Deterministic(t *testing.T) {
	engine := trs.NewEngine()
	for _, src := range []string{"3a + a + 2b + b", "(a + b)(c + d)", "d/dx (x^2 sin(x))"} {
		first, err := engine.Possibilities(trs.MustParse(src))
		require.NoError(t, err)
		second, err := engine.Possibilities(trs.MustParse(src))
		require.NoError(t, err)
		require.Len(t, second, len(first))
		for i := range first {
			assert.True(t, first[i].Equal(second[i]), "%s: %s vs %s", src, first[i], second[i])
		}
	}
}

func TestRules_Messages(t *testing.T) {
	engine := trs.NewEngine()
	tests := []struct {
		src  string
		rule trs.RuleID
		want string
	}{
		{"3a + a", trs.RuleCombineGroups, "a occurs with coefficients 3 and 1, combine them."},
		{"2/15 + 1/4", trs.RuleEqualizeDenominators, "Bring 2 / 15 and 1 / 4 to the common denominator 60."},
		{"2 + 3", trs.RuleAddNumerics, "Add the constants 2 and 3."},
		{"a^-2", trs.RuleRemoveNegativeExponent, "Write the negative exponent -2 as a division."},
	}
	for _, tt := range tests {
		ps, err := engine.Possibilities(trs.MustParse(tt.src))
		require.NoError(t, err)
		var found bool
		for _, p := range ps {
			if p.Rule == tt.rule {
				found = true
				assert.Equal(t, tt.want, p.Message())
			}
		}
		assert.True(t, found, "%s offers no %s", tt.src, tt.rule)
	}
}

func TestRules_DomainErrors(t *testing.T) {
	engine := trs.NewEngine()
	for _, src := range []string{"a / 0", "log_1(a)", "log(a, 0)"} {
		_, err := engine.Possibilities(trs.MustParse(src))
		assert.True(t, trs.IsDomainError(err), "%s: %v", src, err)
	}
}

// ============================================================
// Single rules
// ============================================================

func firstStep(t *testing.T, src string) (trs.RuleID, trs.Expr) {
	t.Helper()
	engine := trs.NewEngine()
	tree := trs.MustParse(src)
	p, ok, err := engine.Suggest(tree)
	require.NoError(t, err)
	require.True(t, ok, "%s offers no step", src)
	next, err := engine.Apply(tree, p)
	require.NoError(t, err)
	return p.Rule, next
}

func TestRules_DivideNumericsKeepsFloats(t *testing.T) {
	engine := trs.NewEngine()
	for src, want := range map[string]trs.Expr{
		"3 / 1.0": trs.Float(3),
		"3.0 / 2": trs.Float(1.5),
		"6 / 2":   trs.Int(3),
	} {
		tree := trs.MustParse(src)
		ps, err := engine.Possibilities(tree)
		require.NoError(t, err)
		var applied bool
		for _, p := range ps {
			if p.Rule != trs.RuleDivideNumerics {
				continue
			}
			got, err := engine.Apply(tree, p)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "%s: got %s, want %s", src, got, want)
			applied = true
		}
		assert.True(t, applied, "%s offers no divide_numerics", src)
	}
}

func TestRules_Suggested(t *testing.T) {
	tests := []struct {
		src  string
		rule trs.RuleID
		want string
	}{
		{"2/15 + 1/4", trs.RuleEqualizeDenominators, "8/60 + 15/60"},
		{"8/60 + 15/60", trs.RuleAddNominators, "(8 + 15) / 60"},
		{"3a + a", trs.RuleCombineGroups, "(3 + 1)a"},
		{"sqrt(a^2)", trs.RuleQuadrantSqrt, "a"},
		{"-sqrt(a^2)", trs.RuleQuadrantSqrt, "-a"},
		{"sqrt(16)", trs.RuleConstantSqrt, "4"},
		{"sqrt(12)", trs.RuleSplitDividers, "sqrt(4 * 3)"},
		{"a^1", trs.RuleRemovePowerOfOne, "a"},
		{"a^0", trs.RuleRemovePowerOfZero, "1"},
		{"0a", trs.RuleMultiplyZero, "0"},
		{"-(a - b)", trs.RuleNegatePolynome, "-a + b"},
		{"(a^2)^3", trs.RuleMultiplyExponents, "a^(2 * 3)"},
		{"log(1)", trs.RuleLogarithmOfOne, "0"},
		{"log_a(a)", trs.RuleBaseEqualsRaised, "1"},
		{"2^log_2(a)", trs.RuleRaisedBase, "a"},
		{"cos(-a)", trs.RuleNegatedCosinusParameter, "cos(a)"},
		{"|3|", trs.RuleAbsoluteNumeric, "3"},
	}
	for _, tt := range tests {
		rule, got := firstStep(t, tt.src)
		assert.Equal(t, tt.rule, rule, tt.src)
		assert.True(t, got.Equal(trs.MustParse(tt.want)), "%s: got %s, want %s", tt.src, got, tt.want)
	}
}

func TestRules_Calculus(t *testing.T) {
	engine := trs.NewEngine()
	tests := []struct {
		src  string
		want string
	}{
		{"d/dx x^3", "3x^2"},
		{"d/dx 5", "0"},
		{"d/dx x", "1"},
		{"[sin(x)]'", "cos(x)"},
	}
	for _, tt := range tests {
		steps, err := engine.RewriteAll(trs.MustParse(tt.src))
		require.NoError(t, err, tt.src)
		require.NotEmpty(t, steps, tt.src)
		final := steps[len(steps)-1].Tree
		assert.True(t, final.Equal(trs.MustParse(tt.want)), "%s: got %s, want %s", tt.src, final, tt.want)
	}
}
