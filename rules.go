package trs

// ============================================================
// Rule identifiers
// ============================================================

// RuleID identifies a rewrite handler. The set is closed; every id has a
// name, a message template and a handler.
type RuleID int

const (
	ruleInvalid RuleID = iota

	// numerics
	RuleAddNumerics
	RuleRemoveZero
	RuleDivideNumerics
	RuleReduceFractionConstants
	RuleMultiplyNumerics
	RuleMultiplyZero
	RuleMultiplyOne
	RuleRaiseNumerics

	// negation
	RuleNegatedFactor
	RuleDoubleNegation
	RuleNegatedZero
	RuleNegatePolynome
	RuleNegatedNominator
	RuleNegatedDenominator

	// fractions
	RuleDivisionByOne
	RuleDivisionOfZero
	RuleDivisionBySelf
	RuleAddNominators
	RuleEqualizeDenominators
	RuleConstantToFraction
	RuleMultiplyFractions
	RuleMultiplyWithFraction
	RuleDivideFraction
	RuleDivideByFraction
	RuleExtractNominatorTerm
	RuleExtractFractionTerms
	RuleDivideFractionByTerm
	RuleMultiplyWithTerm
	RuleCombineFractions
	RuleRemoveDivisionNegation
	RuleFractionInDivision

	// powers
	RuleAddExponents
	RuleSubtractExponents
	RuleMultiplyExponents
	RuleDuplicateExponent
	RuleRaisedFraction
	RuleRemoveNegativeExponent
	RuleRemoveNegativeRoot
	RuleExponentToRoot
	RuleExtendExponent
	RuleRemovePowerOfZero
	RuleRemovePowerOfOne

	// groups, factors, sort
	RuleCombineGroups
	RuleExpandSingle
	RuleExpandDouble
	RuleSwapFactors

	// goniometry
	RuleAddQuadrants
	RuleFactorOutQuadrantNegation
	RuleNegatedSinusParameter
	RuleNegatedCosinusParameter
	RuleHalfPiSubtractionSinus
	RuleHalfPiSubtractionCosinus
	RuleStandardRadian

	// logarithms
	RuleLogarithmOfOne
	RuleBaseEqualsRaised
	RuleDivideSameBase
	RuleAddLogarithms
	RuleExpandNegations
	RuleSubtractLogarithms
	RuleRaisedBase
	RuleSplitNegativeExponent
	RuleFactorOutExponent
	RuleFactorOutExponentImportant
	RuleFactorInMultiplicant

	// derivatives
	RuleZeroDerivative
	RuleOneDerivative
	RulePowerRule
	RuleVariableRoot
	RuleVariableExponent
	RuleChainRule
	RuleConstDerivMultiplication
	RuleLogarithmicDerivative
	RuleSinusDerivative
	RuleCosinusDerivative
	RuleTangensDerivative
	RuleSumRule
	RuleProductRule
	RuleQuotientRule

	// integrals
	RuleIntegrateVariableRoot
	RuleIntegrateVariableExponent
	RuleSingleVariableIntegral
	RuleConstantIntegral
	RuleFactorOutIntegralNegation
	RuleFactorOutConstant
	RuleDivisionIntegral
	RuleExtendDivisionIntegral
	RuleLogarithmIntegral
	RuleSinusIntegral
	RuleCosinusIntegral
	RuleSumRuleIntegral
	RuleRemoveDefiniteConstant
	RuleSolveDefinite

	// equations
	RuleSwapSides
	RuleSubtractTerm
	RuleDivideTerm
	RuleMultiplyTerm
	RuleSplitAbsoluteEquation
	RuleSubstituteVariable
	RuleDoubleCase

	// absolute values
	RuleRemoveAbsoluteNegation
	RuleAbsoluteNumeric
	RuleFactorOutAbsTerm
	RuleFactorOutAbsSqrt
	RuleFactorOutAbsExponent

	// square roots
	RuleQuadrantSqrt
	RuleConstantSqrt
	RuleSplitDividers
	RuleExtractSqrtMultiplicant
	RuleExtractSqrtMultPriority

	ruleCount
)

type ruleInfo struct {
	name string
	// message is a template: {0} is the root, {i} the i-th argument and
	// {i[j]} the j-th child of that value.
	message string
}

// messageRenderers override the template of rules whose message depends on
// the arguments.
var messageRenderers = map[RuleID]func(p Possibility) string{}

var ruleInfos = [ruleCount]ruleInfo{
	RuleAddNumerics:             {"add_numerics", "Add the constants {2} and {3}."},
	RuleRemoveZero:              {"remove_zero", "Adding zero has no effect."},
	RuleDivideNumerics:          {"divide_numerics", "Divide the constants in {0}."},
	RuleReduceFractionConstants: {"reduce_fraction_constants", "Divide both the nominator and the denominator of {0} by {1}."},
	RuleMultiplyNumerics:        {"multiply_numerics", "Multiply the constants {2} and {3}."},
	RuleMultiplyZero:            {"multiply_zero", "Multiplying by zero gives zero."},
	RuleMultiplyOne:             {"multiply_one", "Multiplying by one has no effect."},
	RuleRaiseNumerics:           {"raise_numerics", "Raise the constant {1} to the power {2}."},

	RuleNegatedFactor:      {"negated_factor", "Move the negation of {2} in front of the product."},
	RuleDoubleNegation:     {"double_negation", "The negations of {2} and {3} cancel out."},
	RuleNegatedZero:        {"negated_zero", "Zero has no sign."},
	RuleNegatePolynome:     {"negate_polynome", "Distribute the negation over the terms of {0}."},
	RuleNegatedNominator:   {"negated_nominator", "Move the negation of the nominator of {0} in front of the fraction."},
	RuleNegatedDenominator: {"negated_denominator", "Move the negation of the denominator of {0} in front of the fraction."},

	RuleDivisionByOne:          {"division_by_one", "Dividing by `1` leaves the nominator."},
	RuleDivisionOfZero:         {"division_of_zero", "Zero divided by {1} is `0`."},
	RuleDivisionBySelf:         {"division_by_self", "{1} divided by itself is `1`."},
	RuleAddNominators:          {"add_nominators", "Add the nominators of {2} and {3} into a single fraction."},
	RuleEqualizeDenominators:   {"equalize_denominators", "Bring {2} and {3} to the common denominator {4}."},
	RuleConstantToFraction:     {"constant_to_fraction", "Write {3} as a fraction so it can be added to {2}."},
	RuleMultiplyFractions:      {"multiply_fractions", "Multiply the fractions {2} and {3}."},
	RuleMultiplyWithFraction:   {"multiply_with_fraction", "Multiply the nominator of {2} by {3}."},
	RuleDivideFraction:         {"divide_fraction", "Move {3} into the denominator of `{1} / {2}`."},
	RuleDivideByFraction:       {"divide_by_fraction", "Move {3} into the nominator of `{1} / {2}`."},
	RuleExtractNominatorTerm:   {"extract_nominator_term", "Take {2} out of the nominator of {0}."},
	RuleExtractFractionTerms:   {"extract_fraction_terms", "Split {0} into a product with `{3} / {4}`."},
	RuleDivideFractionByTerm:   {"divide_fraction_by_term", "Divide both the nominator and the denominator of {0} by {2}."},
	RuleMultiplyWithTerm:       {"multiply_with_term", "Multiply both the nominator and the denominator of {0} by {1}."},
	RuleCombineFractions:       {"combine_fractions", "Combine the fractions {2} and {3}."},
	RuleRemoveDivisionNegation: {"remove_division_negation", "Move the negation of {0} into the polynome {2}."},
	RuleFractionInDivision:     {"fraction_in_division", "Multiply both sides of {0} by {3[1]}."},

	RuleAddExponents:           {"add_exponents", "Add the exponents {2} and {3}."},
	RuleSubtractExponents:      {"subtract_exponents", "Subtract the exponents {2} and {3}."},
	RuleMultiplyExponents:      {"multiply_exponents", "Multiply the exponents {2} and {3}."},
	RuleDuplicateExponent:      {"duplicate_exponent", "Apply the exponent {2} to every factor."},
	RuleRaisedFraction:         {"raised_fraction", "Apply the exponent {2} to the nominator and the denominator of {1}."},
	RuleRemoveNegativeExponent: {"remove_negative_exponent", "Write the negative exponent {0[1]} as a division."},
	RuleRemoveNegativeRoot:     {"remove_negative_root", "{0[1]} is odd, so the negation of {0[0]} moves to the power."},
	RuleExponentToRoot:         {"exponent_to_root", "Write the power with exponent {0[1]} as a square root."},
	RuleExtendExponent:         {"extend_exponent", "Split the exponent {2} into `1` and {3}."},
	RuleRemovePowerOfZero:      {"remove_power_of_zero", "Anything raised to `0` is `1`."},
	RuleRemovePowerOfOne:       {"remove_power_of_one", "Raising to `1` has no effect in {0}."},

	RuleCombineGroups: {"combine_groups", "{2} occurs with coefficients {1} and {4}, combine them."},
	RuleExpandSingle:  {"expand_single", "Expand ({2})({3})."},
	RuleExpandDouble:  {"expand_double", "Expand ({2})({3})."},
	RuleSwapFactors:   {"swap_factors", "Move {3} in front of {2}."},

	RuleAddQuadrants:              {"add_quadrants", "`sin(t)^2 + cos(t)^2` is `1`."},
	RuleFactorOutQuadrantNegation: {"factor_out_quadrant_negation", "Take the negations of {2} and {3} outside so the quadrants add up to `1`."},
	RuleNegatedSinusParameter:     {"negated_sinus_parameter", "Move the negation of the parameter {1} in front of the sine."},
	RuleNegatedCosinusParameter:   {"negated_cosinus_parameter", "The cosine ignores the negation of its parameter {1}."},
	RuleHalfPiSubtractionSinus:    {"half_pi_subtraction_sinus", "`sin(pi / 2 - t)` is `cos(t)`."},
	RuleHalfPiSubtractionCosinus:  {"half_pi_subtraction_cosinus", "`cos(pi / 2 - t)` is `sin(t)`."},
	RuleStandardRadian:            {"standard_radian", "Replace the standard radian value {0}."},

	RuleLogarithmOfOne:             {"logarithm_of_one", "The logarithm of `1` is `0`."},
	RuleBaseEqualsRaised:           {"base_equals_raised", "The logarithm of its own base {0[1]} is `1`."},
	RuleDivideSameBase:             {"divide_same_base", "Write {0} as a quotient of logarithms with base 10."},
	RuleAddLogarithms:              {"add_logarithms", "The sum of logarithms {2} and {3} is the logarithm of the product."},
	RuleExpandNegations:            {"expand_negations", "Take the negations of {2} and {3} outside of the sum."},
	RuleSubtractLogarithms:         {"subtract_logarithms", "The difference of logarithms {2} and {3} is the logarithm of the quotient."},
	RuleRaisedBase:                 {"raised_base", "{1} raised to a logarithm with base {1} cancels out."},
	RuleSplitNegativeExponent:      {"split_negative_exponent", "Write the negative exponent in {0[0]} as a separate power of `-1`."},
	RuleFactorOutExponent:          {"factor_out_exponent", "Move the exponent of {0[0]} in front of the logarithm."},
	RuleFactorOutExponentImportant: {"factor_out_exponent_important", "Move the exponent of {0[0]} in front of the logarithm."},
	RuleFactorInMultiplicant:       {"factor_in_multiplicant", "Move {2} into the logarithm {3} as an exponent."},

	RuleZeroDerivative:           {"zero_derivative", "The constant {0[0]} has derivative `0`."},
	RuleOneDerivative:            {"one_derivative", "The variable {0[0]} has derivative `1`."},
	RulePowerRule:                {"power_rule", "Write {0} as an exponential to separate base and exponent."},
	RuleVariableRoot:             {"variable_root", "Apply `d/dx x^n = n x^(n - 1)` to {0}."},
	RuleVariableExponent:         {"variable_exponent", "Apply `d/dx g^x = g^x ln(g)` to {0}."},
	RuleChainRule:                {"chain_rule", "Apply the chain rule to {0}."},
	RuleConstDerivMultiplication: {"const_deriv_multiplication", "Move the factor {2} of {0} outside the derivative."},
	RuleLogarithmicDerivative:    {"logarithmic_derivative", "Apply `d/dx log_g(x) = 1 / (x ln(g))`."},
	RuleSinusDerivative:          {"sinus_derivative", "Apply `d/dx sin(x) = cos(x)`."},
	RuleCosinusDerivative:        {"cosinus_derivative", "Apply `d/dx cos(x) = -sin(x)`."},
	RuleTangensDerivative:        {"tangens_derivative", "Write the tangent as `sin / cos` and differentiate the quotient."},
	RuleSumRule:                  {"sum_rule", "Apply the sum rule to {0}."},
	RuleProductRule:              {"product_rule", "Apply the product rule to {0}."},
	RuleQuotientRule:             {"quotient_rule", "Apply the quotient rule to {0}."},

	RuleIntegrateVariableRoot:     {"integrate_variable_root", "Apply `int x^n dx = x^(n + 1) / (n + 1) + c`."},
	RuleIntegrateVariableExponent: {"integrate_variable_exponent", "Apply `int g^x dx = g^x / ln(g) + c`."},
	RuleSingleVariableIntegral:    {"single_variable_integral", "Write {0[0]} as `{0[0]}^1` to use the power integral."},
	RuleConstantIntegral:          {"constant_integral", "{0[0]} does not depend on {0[1]}, so integrate it as a constant."},
	RuleFactorOutIntegralNegation: {"factor_out_integral_negation", "Move the negation of {0[0]} outside of the integral."},
	RuleFactorOutConstant:         {"factor_out_constant", "Move the factor {2} outside of {0}."},
	RuleDivisionIntegral:          {"division_integral", "`1 / {0[1]}` has anti-derivative `ln|{0[1]}| + c`."},
	RuleExtendDivisionIntegral:    {"extend_division_integral", "Take the nominator {0[0][0]} out to obtain `1 / {0[0][1]}`."},
	RuleLogarithmIntegral:         {"logarithm_integral", "Apply `int log_g(x) dx = (x ln(x) - x) / ln(g) + c`."},
	RuleSinusIntegral:             {"sinus_integral", "{0[0]} has anti-derivative `-cos({0[0][0]}) + c`."},
	RuleCosinusIntegral:           {"cosinus_integral", "{0[0]} has anti-derivative `sin({0[0][0]}) + c`."},
	RuleSumRuleIntegral:           {"sum_rule_integral", "Apply the sum rule to {0}."},
	RuleRemoveDefiniteConstant:    {"remove_definite_constant", "The constant {2} cancels out of the definite integral."},
	RuleSolveDefinite:             {"solve_definite", "Evaluate {0} at its bounds."},

	RuleSwapSides:             {"swap_sides", "Swap the sides of the equation to put the variable on the left."},
	RuleSubtractTerm:          {"subtract_term", "Subtract {1} from both sides of the equation."},
	RuleDivideTerm:            {"divide_term", "Divide both sides of the equation by {1}."},
	RuleMultiplyTerm:          {"multiply_term", "Multiply both sides of the equation by {1}."},
	RuleSplitAbsoluteEquation: {"split_absolute_equation", "Split {0} into a positive and a negative case."},
	RuleSubstituteVariable:    {"substitute_variable", "Substitute {2} by {3} in {4}."},
	RuleDoubleCase:            {"double_case", "{2} occurs twice."},

	RuleRemoveAbsoluteNegation: {"remove_absolute_negation", "The absolute value ignores the negation."},
	RuleAbsoluteNumeric:        {"absolute_numeric", "The absolute value of {0[0]} is {0[0]}."},
	RuleFactorOutAbsTerm:       {"factor_out_abs_term", "Split {0} into a product of absolute values."},
	RuleFactorOutAbsSqrt:       {"factor_out_abs_sqrt", "Move the absolute value in {0} into the square root."},
	RuleFactorOutAbsExponent:   {"factor_out_abs_exponent", "Move the exponent out of {0}."},

	RuleQuadrantSqrt:            {"quadrant_sqrt", "The square root of a square is its base."},
	RuleConstantSqrt:            {"constant_sqrt", "The square root of {0[0]} is {1}."},
	RuleSplitDividers:           {"split_dividers", "Write {0[0]} as {1} * {2} so {1} can leave the square root."},
	RuleExtractSqrtMultiplicant: {"extract_sqrt_multiplicant", "Take {2} out of {0}."},
	RuleExtractSqrtMultPriority: {"extract_sqrt_mult_priority", "Take {2} out of {0}."},
}

func (r RuleID) valid() bool { return r > ruleInvalid && r < ruleCount }

// String returns the rule name, e.g. "add_numerics".
func (r RuleID) String() string {
	if !r.valid() {
		return "invalid_rule"
	}
	return ruleInfos[r].name
}

// ParseRule maps a rule name back to its id.
func ParseRule(name string) (RuleID, bool) {
	for r := ruleInvalid + 1; r < ruleCount; r++ {
		if ruleInfos[r].name == name {
			return r, true
		}
	}
	return ruleInvalid, false
}

// Rules returns every rule id in declaration order.
func Rules() []RuleID {
	out := make([]RuleID, 0, ruleCount-1)
	for r := ruleInvalid + 1; r < ruleCount; r++ {
		out = append(out, r)
	}
	return out
}

// ============================================================
// Handlers and matchers
// ============================================================

// Args are the positional arguments a matcher records for its handler:
// subtrees, scopes, rule ids or plain values.
type Args []interface{}

// Handler computes the replacement for the root of a possibility. It must
// not modify root or anything reachable from args.
type Handler func(root Expr, args Args) (Expr, error)

// Matcher inspects one subtree and returns every possibility it offers.
// It must not modify e.
type Matcher func(e Expr) ([]Possibility, error)

var handlers [ruleCount]Handler

func registerHandlers(m map[RuleID]Handler) {
	for id, h := range m {
		handlers[id] = h
	}
}

// HandlerOf returns the handler of rule r.
func HandlerOf(r RuleID) Handler {
	if !r.valid() {
		return nil
	}
	return handlers[r]
}

// RuleTable maps an operator to its matchers, in the order their
// possibilities are listed. Matchers under OpNeg run for every negated
// subtree.
type RuleTable map[Op][]Matcher

// DefaultRuleTable returns a fresh copy of the built-in rule table.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		OpAdd: {
			matchAddNumerics,
			matchAddFractions,
			matchCombineGroups,
			matchAddQuadrants,
			matchAddLogarithms,
			matchSortPolynome,
			matchCombineFractions,
		},
		OpMul: {
			matchMultiplyNumerics,
			matchExpand,
			matchAddExponents,
			matchNegatedFactor,
			matchMultiplyFractions,
			matchFactorInMultiplicant,
			matchSortMonomial,
		},
		OpDiv: {
			matchSubtractExponents,
			matchDivideNumerics,
			matchConstantDivision,
			matchDivideFractions,
			matchNegatedDivision,
			matchExtractFractionTerms,
			matchDivisionInDenominator,
			matchFractionInDivision,
			matchRemoveDivisionNegation,
		},
		OpPow: {
			matchMultiplyExponents,
			matchDuplicateExponent,
			matchRaisedFraction,
			matchRemoveNegativeChild,
			matchExponentToRoot,
			matchExtendExponent,
			matchConstantExponent,
			matchRaiseNumerics,
			matchRaisedBase,
		},
		OpNeg:    {matchNegatedZero, matchNegatePolynome},
		OpSin:    {matchNegatedParameter, matchHalfPiSubtraction, matchStandardRadian},
		OpCos:    {matchNegatedParameter, matchHalfPiSubtraction, matchStandardRadian},
		OpTan:    {matchStandardRadian},
		OpLog:    {matchConstantLogarithm, matchFactorOutExponent},
		OpAbs:    {matchFactorOutAbsTerm},
		OpSqrt:   {matchReduceSqrt},
		OpEq:     {matchMoveTerm},
		OpAnd:    {matchMultipleEquations, matchDoubleCase},
		OpOr:     {matchDoubleCase},
		OpIntDef: {matchRemoveDefiniteConstant, matchSolveDefinite},
		OpDer: {
			matchZeroDerivative,
			matchOneDerivative,
			matchVariablePower,
			matchConstDerivMultiplication,
			matchLogarithmicDerivative,
			matchGoniometricDerivative,
			matchSumProductRule,
			matchQuotientRule,
		},
		OpInt: {
			matchIntegrateVariablePower,
			matchConstantIntegral,
			matchFactorOutConstant,
			matchDivisionIntegral,
			matchFunctionIntegral,
			matchSumRuleIntegral,
		},
	}
}
