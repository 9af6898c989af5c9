package plannode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullable-labs/subplanner/access"
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/planshape"
)

func testTable() catalog.Table {
	return catalog.Table{
		Name: "orders",
		Columns: []catalog.Column{
			{Name: "id", Ordinal: 0, ValueType: expr.TypeInteger},
			{Name: "amount", Ordinal: 1, ValueType: expr.TypeBigInt},
		},
	}
}

func TestEmitSequentialScan(t *testing.T) {
	filter := expr.Comparison(expr.EQ, expr.TupleValue("orders", 0, "id", expr.TypeInteger), expr.Constant(int64(5), expr.TypeInteger, false))
	path := &access.Path{Table: "orders", OtherExprs: []*expr.Expression{filter}, SortDirection: planshape.SortNone}

	node := Emit(testTable(), path, nil)
	assert.False(t, node.IsIndexScan())
	assert.Equal(t, "orders", node.Table)
	require.NotNil(t, node.Predicate)
	assert.Same(t, filter, node.Predicate)
	assert.Len(t, node.OutputSchema, 2)
}

func TestEmitIndexScanPopulatesSearchKeys(t *testing.T) {
	idx := catalog.Index{Name: "id_idx"}
	bound := expr.Comparison(expr.GTE, expr.TupleValue("orders", 0, "id", expr.TypeInteger), expr.Constant(int64(1), expr.TypeInteger, false))
	path := &access.Path{
		Table:         "orders",
		Index:         &idx,
		IndexExprs:    []*expr.Expression{bound},
		LookupType:    planshape.LookupGTE,
		KeyIterate:    true,
		SortDirection: planshape.SortAscending,
	}

	node := Emit(testTable(), path, nil)
	assert.True(t, node.IsIndexScan())
	assert.Equal(t, "id_idx", node.IndexName)
	require.Len(t, node.SearchKeys, 1)
	assert.Same(t, bound.Right, node.SearchKeys[0])
	assert.Equal(t, planshape.LookupGTE, node.LookupType)
	assert.True(t, node.KeyIterate)
}

func TestEmitProjectsScanColumns(t *testing.T) {
	path := &access.Path{Table: "orders"}
	node := Emit(testTable(), path, []string{"amount"})
	require.Len(t, node.OutputSchema, 1)
	assert.Equal(t, "amount", node.OutputSchema[0].Name)
}

func TestEmitProjectsAllColumnsWhenUnspecified(t *testing.T) {
	path := &access.Path{Table: "orders"}
	node := Emit(testTable(), path, nil)
	require.Len(t, node.OutputSchema, 2)
}

func TestWrapDistributedCarriesOutputSchema(t *testing.T) {
	path := &access.Path{Table: "orders"}
	node := Emit(testTable(), path, nil)

	receive := WrapDistributed(node, true)
	require.NotNil(t, receive.Child)
	assert.True(t, receive.Child.MultiPartition)
	assert.Same(t, node, receive.Child.Child)
	assert.Equal(t, node.OutputSchema, receive.OutputSchema)
}
