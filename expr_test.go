package trs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

// ============================================================
// Leaf tests
// ============================================================

func TestLeaf_SignLivesInNegation(t *testing.T) {
	l := trs.Int(-3)
	assert.True(t, l.IsNegated())
	assert.Equal(t, "3", l.Int.String())
	assert.Equal(t, "-3", l.Signed().String())
	assert.Equal(t, -3.0, l.Float64())
}

func TestLeaf_IsVariable(t *testing.T) {
	assert.True(t, trs.Ident("x").IsVariable())
	for _, c := range []string{trs.ConstPi, trs.ConstE, trs.ConstInfinity} {
		assert.False(t, trs.Ident(c).IsVariable(), c)
	}
	assert.False(t, trs.Int(2).IsVariable())
}

func TestLeaf_EqualComparesNegationAndKind(t *testing.T) {
	assert.True(t, trs.Int(2).Equal(trs.Int(2)))
	assert.False(t, trs.Int(2).Equal(trs.Int(-2)))
	assert.False(t, trs.Int(2).Equal(trs.Float(2)))
	assert.False(t, trs.Ident("x").Equal(trs.Ident("y")))
}

// ============================================================
// Node tests
// ============================================================

func TestNode_NegateToggles(t *testing.T) {
	e := trs.MustParse("a + b")
	n := trs.Negate(e)
	assert.True(t, n.IsNegated())
	assert.False(t, e.IsNegated(), "Negate must not modify its operand")
	assert.True(t, trs.Negate(n).Equal(e))
	assert.True(t, trs.Positive(n).Equal(e))
}

func TestNode_CloneIsDeep(t *testing.T) {
	e := trs.MustParse("a(b + c)").(*trs.Node)
	c := e.Clone().(*trs.Node)
	require.True(t, c.Equal(e))
	c.Children[0] = trs.Ident("z")
	assert.Equal(t, "a", e.Arg(0).String())
}

func TestNode_ReplaceByIdentity(t *testing.T) {
	a1, a2 := trs.Ident("a"), trs.Ident("a")
	n := trs.N(trs.OpAdd, a1, a2)
	assert.True(t, n.Replace(a2, trs.Ident("b")))
	assert.Same(t, a1, n.Arg(0))
	assert.Equal(t, "b", n.Arg(1).String())
	assert.False(t, n.Replace(trs.Ident("a"), trs.Ident("c")), "only the identical child is replaced")
}

func TestKey_DistinguishesShapes(t *testing.T) {
	keys := map[string]string{}
	for _, src := range []string{"a + b", "b + a", "-(a + b)", "ab", "a / b", "2", "2.0", "-2"} {
		k := trs.MustParse(src).Key()
		prev, dup := keys[k]
		assert.False(t, dup, "%q and %q share key %s", src, prev, k)
		keys[k] = src
	}
	assert.Equal(t, trs.MustParse("a + b").Key(), trs.MustParse("a+b").Key())
}

// ============================================================
// Equivalence
// ============================================================

func TestEquiv(t *testing.T) {
	tests := []struct {
		a, b      string
		ignoreNeg bool
		want      bool
	}{
		{"a + b + c", "c + (b + a)", false, true},
		{"abc", "c(ba)", false, true},
		{"a + b", "a + b + b", false, false},
		{"a - b", "-b + a", false, true},
		{"a - b", "b - a", false, false},
		{"-(ab)", "ba", false, false},
		{"-(ab)", "ba", true, true},
		{"a / b", "b / a", false, false},
		{"4a + 3b", "3b + 4a", false, true},
		{"a ^^ b", "b ^^ a", false, true},
	}
	for _, tt := range tests {
		got := trs.Equiv(trs.MustParse(tt.a), trs.MustParse(tt.b), tt.ignoreNeg)
		assert.Equal(t, tt.want, got, "Equiv(%s, %s, %t)", tt.a, tt.b, tt.ignoreNeg)
	}
}

func TestVariables_SortedWithoutConstants(t *testing.T) {
	assert.Equal(t, []string{"a", "x", "y"}, trs.Variables(trs.MustParse("y + pi x + a e")))
	assert.Empty(t, trs.Variables(trs.MustParse("2pi")))
}

func TestSubstitute_KeepsLeafNegation(t *testing.T) {
	e := trs.MustParse("x - x^2")
	got := trs.Substitute(e, "x", trs.MustParse("a + 1"))
	assert.True(t, got.Equal(trs.MustParse("(a + 1) - (a + 1)^2")), got.String())
	assert.True(t, e.Equal(trs.MustParse("x - x^2")), "input unchanged")
}

func TestContainsVariable(t *testing.T) {
	e := trs.MustParse("sin(2x) + y")
	assert.True(t, trs.ContainsVariable(e, "x"))
	assert.False(t, trs.ContainsVariable(e, "z"))
}
