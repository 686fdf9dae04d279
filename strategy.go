package trs

import "sort"

// ============================================================
// Priority configuration
// ============================================================

// PriorityConfig ranks rules against each other.
//
// High rules are moved to the front of a possibility list and Low rules to
// the back, each ordered by their position in the list. Every Relative
// chain (A, B, C) puts A before B before C wherever they meet. Implicit
// rules are cosmetic and may be hidden from a trace.
type PriorityConfig struct {
	High     []RuleID
	Low      []RuleID
	Relative [][]RuleID
	Implicit []RuleID
}

// DefaultPriorities returns the built-in configuration.
func DefaultPriorities() PriorityConfig {
	return PriorityConfig{
		High: []RuleID{
			RuleRaisedBase,
			RuleAddNominators,
			RuleMultiplyZero,
			RuleMultiplyOne,
			RuleRemoveZero,
			RuleDoubleNegation,
			RuleDivisionByOne,
			RuleAddNumerics,
			RuleMultiplyNumerics,
			RuleNegatedFactor,
			RuleCombineGroups,
		},
		Low: []RuleID{
			RuleFactorInMultiplicant,
			RuleReduceFractionConstants,
			RuleExtendExponent,
			RuleExpandSingle,
			RuleExpandDouble,
			RuleSwapFactors,
		},
		Relative: [][]RuleID{
			{RuleChainRule, RuleRaisedBase},
			{RuleRaisedBase, RuleFactorOutExponent},
			{RuleFactorOutExponentImportant, RuleRaiseNumerics},
			{RuleFactorOutConstant, RuleMultiplyWithFraction},
			{RuleIntegrateVariableRoot, RuleRemovePowerOfOne},
			{RuleExtractSqrtMultPriority, RuleMultiplyNumerics},
			{RuleQuadrantSqrt, RuleRaiseNumerics},
			{RuleDivideFractionByTerm, RuleMultiplyNumerics},
			{RuleSubstituteVariable, RuleSwapSides},
			{RuleDivideTerm, RuleMultiplyTerm, RuleSwapSides},
		},
		Implicit: []RuleID{
			RuleNegatedFactor,
			RuleDoubleNegation,
			RuleNegatedNominator,
			RuleNegatedDenominator,
			RuleMultiplyZero,
			RuleMultiplyOne,
			RuleDivisionByOne,
			RuleNegatedZero,
			RuleRemoveZero,
			RuleRemovePowerOfOne,
			RuleAddNumerics,
			RuleSwapFactors,
		},
	}
}

// ============================================================
// Strategy
// ============================================================

// Strategy orders possibilities by a PriorityConfig. It is immutable and
// safe for concurrent use.
type Strategy struct {
	high     map[RuleID]int
	low      map[RuleID]int
	relative []map[RuleID]int
	implicit map[RuleID]bool
}

// NewStrategy compiles a configuration.
func NewStrategy(c PriorityConfig) *Strategy {
	s := &Strategy{
		high:     indexOf(c.High),
		low:      indexOf(c.Low),
		implicit: map[RuleID]bool{},
	}
	for _, chain := range c.Relative {
		s.relative = append(s.relative, indexOf(chain))
	}
	for _, r := range c.Implicit {
		s.implicit[r] = true
	}
	return s
}

func indexOf(rules []RuleID) map[RuleID]int {
	m := make(map[RuleID]int, len(rules))
	for i, r := range rules {
		if _, ok := m[r]; !ok {
			m[r] = i
		}
	}
	return m
}

// IsImplicit reports whether r is a cosmetic rule.
func (s *Strategy) IsImplicit(r RuleID) bool { return s.implicit[r] }

func (s *Strategy) tier(r RuleID) (int, int) {
	if i, ok := s.high[r]; ok {
		return 0, i
	}
	if i, ok := s.low[r]; ok {
		return 2, i
	}
	return 1, 0
}

// Sort returns the possibilities in preference order; the input is left
// untouched. Ties keep the order in which the possibilities were found.
func (s *Strategy) Sort(ps []Possibility) []Possibility {
	out := append([]Possibility(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, ii := s.tier(out[i].Rule)
		tj, ij := s.tier(out[j].Rule)
		if ti != tj {
			return ti < tj
		}
		return ii < ij
	})
	for _, chain := range s.relative {
		var slots []int
		var members []Possibility
		for i, p := range out {
			if _, ok := chain[p.Rule]; ok {
				slots = append(slots, i)
				members = append(members, p)
			}
		}
		if len(slots) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return chain[members[i].Rule] < chain[members[j].Rule]
		})
		for k, i := range slots {
			out[i] = members[k]
		}
	}
	return out
}

// Pick returns the preferred possibility.
func (s *Strategy) Pick(ps []Possibility) (Possibility, bool) {
	if len(ps) == 0 {
		return Possibility{}, false
	}
	return s.Sort(ps)[0], true
}
