package trs_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func TestScope_RoundTrip(t *testing.T) {
	for _, src := range []string{"a + b + c + d", "abcd", "-(a + b + c)", "a + (b + c)d + e", "a ^^ b ^^ c", "x vv y"} {
		n := trs.MustParse(src).(*trs.Node)
		s := trs.NewScope(n)
		folded := s.AsNaryNode()
		assert.True(t, folded.Equal(n), "%s folded to %s", src, folded)

		again := trs.NewScope(folded.(*trs.Node)).AsNaryNode()
		assert.True(t, again.Equal(folded), "refolding %s", src)
	}
}

func TestScope_FlattensOnlySameOperator(t *testing.T) {
	s := trs.NewScope(trs.MustParse("a + bc - (d + e) + f").(*trs.Node))
	require.Equal(t, 4, s.Len())
	assert.Equal(t, "a", s.At(0).String())
	assert.True(t, s.At(1).Equal(trs.MustParse("bc")))
	assert.True(t, s.At(2).Equal(trs.MustParse("-(d + e)")))
	assert.Equal(t, "f", s.At(3).String())
}

func TestScope_RemoveAndReplace(t *testing.T) {
	n := trs.MustParse("a + b + c").(*trs.Node)
	s := trs.NewScope(n)
	c := s.Copy()
	require.NoError(t, c.Replace(s.At(1), trs.Ident("x")))
	require.NoError(t, c.Remove(s.At(0)))
	assert.True(t, c.AsNaryNode().Equal(trs.MustParse("x + c")))
	assert.Equal(t, 3, s.Len(), "copy is independent")

	c.Remove(c.At(0))
	single := c.AsNaryNode()
	assert.Equal(t, "c", single.String(), "a single member folds to itself")
}

func TestScope_StaleMember(t *testing.T) {
	s := trs.NewScope(trs.MustParse("a + b").(*trs.Node))
	err := s.Remove(trs.Ident("z"))
	var sce *trs.ScopeConsistencyError
	assert.True(t, errors.As(err, &sce))
}

func TestScope_AllExcept(t *testing.T) {
	s := trs.NewScope(trs.MustParse("abc").(*trs.Node))
	rest, err := s.AllExcept(s.At(1))
	require.NoError(t, err)
	assert.True(t, rest.Equal(trs.MustParse("ac")))
}

func TestScope_Index(t *testing.T) {
	s := trs.NewScope(trs.MustParse("a + b + a").(*trs.Node))
	assert.Equal(t, 2, s.Index(s.At(2)), "identity wins over equality")
	assert.Equal(t, 0, s.Index(trs.Ident("a")))
	assert.Equal(t, -1, s.Index(trs.Ident("z")))
}
