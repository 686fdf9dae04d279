package trs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func rulesOf(ps []trs.Possibility) []trs.RuleID {
	out := make([]trs.RuleID, len(ps))
	for i, p := range ps {
		out[i] = p.Rule
	}
	return out
}

func possibilities(rules ...trs.RuleID) []trs.Possibility {
	root := trs.Ident("x")
	ps := make([]trs.Possibility, len(rules))
	for i, r := range rules {
		ps[i] = trs.P(root, r)
	}
	return ps
}

func TestStrategy_Tiers(t *testing.T) {
	s := trs.NewStrategy(trs.DefaultPriorities())
	in := possibilities(trs.RuleExpandSingle, trs.RuleCombineFractions, trs.RuleAddNumerics, trs.RuleSwapFactors, trs.RuleAddNominators)
	got := rulesOf(s.Sort(in))
	assert.Equal(t, []trs.RuleID{
		trs.RuleAddNominators,
		trs.RuleAddNumerics,
		trs.RuleCombineFractions,
		trs.RuleExpandSingle,
		trs.RuleSwapFactors,
	}, got)
	assert.Equal(t, trs.RuleExpandSingle, in[0].Rule, "Sort leaves its input alone")
}

func TestStrategy_StableWithinTier(t *testing.T) {
	s := trs.NewStrategy(trs.DefaultPriorities())
	in := possibilities(trs.RuleCombineFractions, trs.RuleEqualizeDenominators, trs.RuleConstantToFraction)
	assert.Equal(t, rulesOf(in), rulesOf(s.Sort(in)))
}

func TestStrategy_Relative(t *testing.T) {
	s := trs.NewStrategy(trs.DefaultPriorities())
	got := rulesOf(s.Sort(possibilities(trs.RuleSwapSides, trs.RuleRaiseNumerics, trs.RuleDivideTerm, trs.RuleQuadrantSqrt, trs.RuleMultiplyTerm)))
	assert.Equal(t, []trs.RuleID{
		trs.RuleDivideTerm,
		trs.RuleQuadrantSqrt,
		trs.RuleMultiplyTerm,
		trs.RuleRaiseNumerics,
		trs.RuleSwapSides,
	}, got)
}

func TestStrategy_Custom(t *testing.T) {
	s := trs.NewStrategy(trs.PriorityConfig{
		High:     []trs.RuleID{trs.RuleSwapFactors},
		Implicit: []trs.RuleID{trs.RuleExpandSingle},
	})
	p, ok := s.Pick(possibilities(trs.RuleAddNumerics, trs.RuleSwapFactors))
	require.True(t, ok)
	assert.Equal(t, trs.RuleSwapFactors, p.Rule)
	assert.True(t, s.IsImplicit(trs.RuleExpandSingle))
	assert.False(t, s.IsImplicit(trs.RuleAddNumerics))
}

func TestStrategy_PickEmpty(t *testing.T) {
	_, ok := trs.NewStrategy(trs.DefaultPriorities()).Pick(nil)
	assert.False(t, ok)
}

func TestStrategy_DefaultImplicit(t *testing.T) {
	s := trs.NewStrategy(trs.DefaultPriorities())
	assert.True(t, s.IsImplicit(trs.RuleAddNumerics))
	assert.True(t, s.IsImplicit(trs.RuleNegatedFactor))
	assert.False(t, s.IsImplicit(trs.RuleCombineGroups))
}
