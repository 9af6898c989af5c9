package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nullable-labs/subplanner/expr"
)

func TestNewTablePairNormalizesOrder(t *testing.T) {
	assert.Equal(t, NewTablePair("a", "b"), NewTablePair("b", "a"))
	assert.Equal(t, TablePair{A: "a", B: "b"}, NewTablePair("b", "a"))
}

func TestStatementSingleTableFilters(t *testing.T) {
	f := expr.Constant(int64(1), expr.TypeInteger, false)
	s := &Statement{FiltersByTbl: map[string][]*expr.Expression{"orders": {f}}}
	assert.Equal(t, []*expr.Expression{f}, s.SingleTableFilters("orders"))
	assert.Nil(t, s.SingleTableFilters("customers"))
}

func TestStatementJoinFiltersSymmetric(t *testing.T) {
	f := expr.Constant(int64(1), expr.TypeInteger, false)
	s := &Statement{JoinsByPair: map[TablePair][]*expr.Expression{
		NewTablePair("orders", "customers"): {f},
	}}
	assert.Equal(t, []*expr.Expression{f}, s.JoinFilters("orders", "customers"))
	assert.Equal(t, []*expr.Expression{f}, s.JoinFilters("customers", "orders"))
}

func TestStatementOrderByEmptyWhenNotSelect(t *testing.T) {
	s := &Statement{
		Select: false,
		Order:  []OrderByItem{{Ascending: true}},
	}
	assert.Nil(t, s.OrderBy())
}

func TestStatementOrderByPassthroughWhenSelect(t *testing.T) {
	items := []OrderByItem{{Ascending: true}}
	s := &Statement{Select: true, Order: items}
	assert.Equal(t, items, s.OrderBy())
}

func TestJoinFiltersForTableCollectsAllPartnersExceptSelf(t *testing.T) {
	fOC := expr.Constant(int64(1), expr.TypeInteger, false)
	fOP := expr.Constant(int64(2), expr.TypeInteger, false)
	s := &Statement{JoinsByPair: map[TablePair][]*expr.Expression{
		NewTablePair("orders", "customers"): {fOC},
		NewTablePair("orders", "products"):  {fOP},
		NewTablePair("customers", "products"): {expr.Constant(int64(3), expr.TypeInteger, false)},
	}}

	got := JoinFiltersForTable(s, "orders", []string{"orders", "customers", "products"})
	assert.ElementsMatch(t, []*expr.Expression{fOC, fOP}, got)
}
