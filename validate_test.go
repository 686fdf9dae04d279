package trs_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func validate(t *testing.T, from, to string) *trs.Validation {
	t.Helper()
	v := trs.NewValidator(trs.NewEngine(), 0, 0)
	res, err := v.Validate(context.Background(), trs.MustParse(from), trs.MustParse(to))
	require.NoError(t, err)
	return res
}

func TestValidate_LikeTerms(t *testing.T) {
	res := validate(t, "3a + a", "4a")
	require.True(t, res.Valid)
	assert.Equal(t, 2, res.Depth)
	require.Len(t, res.Path, 2)
	assert.Equal(t, trs.RuleCombineGroups, res.Path[0].Possibility.Rule)
	assert.True(t, res.Witness.Equal(trs.MustParse("4a")))
}

func TestValidate_IgnoresOperandOrder(t *testing.T) {
	res := validate(t, "3a + a + b + 2b", "3b + 4a")
	assert.True(t, res.Valid)
	assert.False(t, res.Exhausted)
}

func TestValidate_NestedFractions(t *testing.T) {
	res := validate(t, "a/b / (c/d)", "ad / (bc)")
	assert.True(t, res.Valid)
	assert.LessOrEqual(t, res.Depth, 3)
}

func TestValidate_Invalid(t *testing.T) {
	res := validate(t, "3a + a", "4a + 1")
	assert.False(t, res.Valid)
	assert.False(t, res.Exhausted, "the rewrite space of 3a + a is finite")
	assert.Nil(t, res.Witness)
}

func TestValidate_SameTree(t *testing.T) {
	res := validate(t, "a + b", "b + a")
	assert.True(t, res.Valid)
	assert.Equal(t, 0, res.Depth)
	assert.Empty(t, res.Path)
}

func TestValidate_Budget(t *testing.T) {
	v := trs.NewValidator(trs.NewEngine(), 1, 0)
	res, err := v.Validate(context.Background(), trs.MustParse("3a + a + b + 2b"), trs.MustParse("4a + 3b"))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.Exhausted)
}

func TestValidate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := trs.NewValidator(trs.NewEngine(), 0, 0)
	_, err := v.Validate(ctx, trs.MustParse("3a + a"), trs.MustParse("4a"))
	assert.True(t, errors.Is(err, context.Canceled), "%v", err)
}

func TestValidateChain(t *testing.T) {
	v := trs.NewValidator(trs.NewEngine(), 0, 0)
	n, err := v.ValidateChain(context.Background(), []string{
		"3a + a + b + 2b",
		"",
		"4a + b + 2b",
		"4a + 3b",
		"4a + 4b",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = v.ValidateChain(context.Background(), []string{"a +"})
	var se *trs.SyntaxError
	assert.True(t, errors.As(err, &se))
}
