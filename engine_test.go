package trs_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func TestEngine_RewriteAllFractions(t *testing.T) {
	engine := trs.NewEngine()
	steps, err := engine.RewriteAll(trs.MustParse("2/15 + 1/4"))
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, trs.RuleEqualizeDenominators, steps[0].Possibility.Rule)
	assert.Equal(t, trs.RuleAddNominators, steps[1].Possibility.Rule)
	assert.Equal(t, trs.RuleAddNumerics, steps[2].Possibility.Rule)
	assert.True(t, steps[2].Implicit)
	assert.True(t, steps[2].Tree.Equal(trs.MustParse("23/60")), steps[2].Tree.String())
	for _, st := range steps {
		assert.NotEmpty(t, st.Hint)
	}
}

func TestEngine_CollapseImplicit(t *testing.T) {
	steps, err := trs.NewEngine().RewriteAll(trs.MustParse("3a + a"))
	require.NoError(t, err)
	require.Len(t, steps, 2)

	collapsed := trs.CollapseImplicit(steps)
	require.Len(t, collapsed, 1)
	assert.Equal(t, trs.RuleCombineGroups, collapsed[0].Possibility.Rule)
	assert.True(t, collapsed[0].Tree.Equal(trs.MustParse("4a")))
	assert.True(t, steps[0].Tree.Equal(trs.MustParse("(3 + 1)a")), "collapsing copies the trace")
}

func TestEngine_InputUnchanged(t *testing.T) {
	tree := trs.MustParse("2/15 + 1/4")
	before := tree.Key()
	_, err := trs.NewEngine().RewriteAll(tree)
	require.NoError(t, err)
	assert.Equal(t, before, tree.Key())
}

func TestEngine_Rewrite(t *testing.T) {
	engine := trs.NewEngine()

	st, err := engine.Rewrite(trs.MustParse("-sqrt(a^2)"), true)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Tree.Equal(trs.MustParse("-a")))
	assert.NotEmpty(t, st.Hint)

	st, err = engine.Rewrite(trs.MustParse("3a + a"), false)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Empty(t, st.Hint)

	st, err = engine.Rewrite(trs.MustParse("a"), true)
	require.NoError(t, err)
	assert.Nil(t, st, "a leaf has nothing to rewrite")
}

func TestEngine_ImplicitFolding(t *testing.T) {
	engine := trs.NewEngine(trs.WithImplicitFolding(true))
	st, err := engine.Rewrite(trs.MustParse("3a + a"), true)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, trs.RuleCombineGroups, st.Possibility.Rule)
	assert.True(t, st.Tree.Equal(trs.MustParse("4a")), st.Tree.String())
}

func TestEngine_StepLimit(t *testing.T) {
	engine := trs.NewEngine(trs.WithMaxSteps(1))
	steps, err := engine.RewriteAll(trs.MustParse("2/15 + 1/4"))
	assert.True(t, errors.Is(err, trs.ErrStepLimit), "%v", err)
	assert.Len(t, steps, 1, "the trace so far is returned")
}

func TestEngine_Suggest(t *testing.T) {
	engine := trs.NewEngine()
	p, ok, err := engine.Suggest(trs.MustParse("8/60 + 15/60"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, trs.RuleAddNominators, p.Rule)

	_, ok, err = engine.Suggest(trs.MustParse("4a + 3b"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_PossibilitiesPostorder(t *testing.T) {
	ps, err := trs.NewEngine().Possibilities(trs.MustParse("8/60 + 15/60"))
	require.NoError(t, err)
	assert.Equal(t, []trs.RuleID{
		trs.RuleReduceFractionConstants,
		trs.RuleReduceFractionConstants,
		trs.RuleAddNominators,
		trs.RuleCombineFractions,
	}, rulesOf(ps))
}

func TestEngine_CustomRuleTable(t *testing.T) {
	table := trs.RuleTable{}
	engine := trs.NewEngine(trs.WithRules(table))
	ps, err := engine.Possibilities(trs.MustParse("2 + 3"))
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestEngine_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	engine := trs.NewEngine(trs.WithLogger(trs.NewLogger("debug", &buf)))
	_, err := engine.RewriteAll(trs.MustParse("2 + 3"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "rule=add_numerics")
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		_, err := trs.ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := trs.ParseLevel("loud")
	assert.Error(t, err)
}

// swapAlways proposes swapping the factors of every two-factor product, so
// each step undoes the one before it.
func swapAlways(e trs.Expr) ([]trs.Possibility, error) {
	node, ok := e.(*trs.Node)
	if !ok || node.Len() != 2 {
		return nil, nil
	}
	return []trs.Possibility{trs.P(node, trs.RuleSwapFactors, trs.NewScope(node), node.Arg(0), node.Arg(1))}, nil
}

func TestEngine_CycleDetection(t *testing.T) {
	table := trs.RuleTable{trs.OpMul: {swapAlways}}

	engine := trs.NewEngine(trs.WithRules(table), trs.WithMaxSteps(20))
	steps, err := engine.RewriteAll(trs.MustParse("ab"))
	require.NoError(t, err)
	require.Len(t, steps, 1, "the step back to ab is passed over")
	assert.True(t, steps[0].Tree.Equal(trs.MustParse("ba")), steps[0].Tree.String())

	engine = trs.NewEngine(trs.WithRules(table), trs.WithMaxSteps(20), trs.WithCycleDetection(false))
	steps, err = engine.RewriteAll(trs.MustParse("ab"))
	assert.True(t, errors.Is(err, trs.ErrStepLimit), "%v", err)
	assert.Len(t, steps, 20)
}

func TestEngine_RulePreconditionViolated(t *testing.T) {
	table := trs.DefaultRuleTable()
	table[trs.OpAdd] = table[trs.OpMul]
	engine := trs.NewEngine(trs.WithRules(table))

	_, err := engine.Possibilities(trs.MustParse("a + b"))
	assert.True(t, errors.Is(err, trs.ErrEngineBug), "%v", err)

	prev := trs.SetStrictAssertions(true)
	defer trs.SetStrictAssertions(prev)
	assert.Panics(t, func() { _, _ = engine.Possibilities(trs.MustParse("a + b")) })
}
