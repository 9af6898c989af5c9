package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/normalize"
)

func columnTarget(vt expr.ValueType) normalize.Target {
	return normalize.Target{Table: "orders", ColumnID: 0, ValueType: vt}
}

func TestMatchSucceedsForWantedOperator(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "id", expr.TypeInteger)
	c := expr.Constant(int64(10), expr.TypeInteger, false)
	f := expr.Comparison(expr.GT, tv, c)

	res, err := Match(f, "orders", columnTarget(expr.TypeInteger), expr.GT)
	require.NoError(t, err)
	assert.Same(t, f, res.Comparison)
}

func TestMatchRejectsWrongOperator(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "id", expr.TypeInteger)
	c := expr.Constant(int64(10), expr.TypeInteger, false)
	f := expr.Comparison(expr.GT, tv, c)

	_, err := Match(f, "orders", columnTarget(expr.TypeInteger), expr.LT)
	assert.ErrorIs(t, err, normalize.ErrInapplicable)
}

func TestMatchLikeConstantPrefixPattern(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	pattern := expr.Constant("foo%", expr.TypeVarchar, true)
	f := expr.Comparison(expr.LIKE, tv, pattern)

	res, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	require.NoError(t, err)
	assert.Same(t, f, res.Comparison)
	assert.Empty(t, res.Bindings)
}

func TestMatchLikeRejectsNonPrefixPattern(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	pattern := expr.Constant("%foo", expr.TypeVarchar, false)
	f := expr.Comparison(expr.LIKE, tv, pattern)

	_, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	assert.ErrorIs(t, err, normalize.ErrInapplicable)
}

func TestMatchLikeParameterFoldsBindingWhenOriginalIsPrefixPattern(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	original := expr.Constant("foo%", expr.TypeVarchar, true)
	param := expr.Parameter(1, original, expr.TypeVarchar)
	f := expr.Comparison(expr.LIKE, tv, param)

	res, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	assert.Same(t, param, res.Bindings[0])
}

func TestMatchLikeParameterRejectedWhenOriginalNotPrefixPattern(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	original := expr.Constant("%foo", expr.TypeVarchar, false)
	param := expr.Parameter(1, original, expr.TypeVarchar)
	f := expr.Comparison(expr.LIKE, tv, param)

	_, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	assert.ErrorIs(t, err, normalize.ErrInapplicable)
}

func TestDeriveLikeBoundsWithSuccessor(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	pattern := expr.Constant("foo%", expr.TypeVarchar, true)
	f := expr.Comparison(expr.LIKE, tv, pattern)

	res, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	require.NoError(t, err)

	bounds := DeriveLikeBounds(res)
	require.NotNil(t, bounds)
	require.NotNil(t, bounds.Start)
	assert.Equal(t, expr.GTE, bounds.Start.Comparison.Op)
	assert.Equal(t, "foo", bounds.Start.Comparison.Right.Value)

	require.NotNil(t, bounds.End)
	assert.Equal(t, expr.LT, bounds.End.Comparison.Op)
	assert.Equal(t, "fop", bounds.End.Comparison.Right.Value)
}

func TestDeriveLikeBoundsNoSuccessorOmitsEnd(t *testing.T) {
	tv := expr.TupleValue("orders", 0, "name", expr.TypeVarchar)
	maxRune := string(rune(0x10FFFF))
	pattern := expr.Constant(maxRune+"%", expr.TypeVarchar, true)
	f := expr.Comparison(expr.LIKE, tv, pattern)

	res, err := MatchLike(f, "orders", columnTarget(expr.TypeVarchar))
	require.NoError(t, err)

	bounds := DeriveLikeBounds(res)
	require.NotNil(t, bounds)
	assert.Nil(t, bounds.End)
}
