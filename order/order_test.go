package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/planshape"
	"github.com/nullable-labs/subplanner/statement"
)

func column(name string, ordinal int) catalog.Column {
	return catalog.Column{Name: name, Ordinal: ordinal, ValueType: expr.TypeInteger}
}

func keyOf(cols ...catalog.Column) []catalog.KeyComponent {
	key := make([]catalog.KeyComponent, len(cols))
	for i, c := range cols {
		cc := c
		key[i] = catalog.KeyComponent{Column: &cc}
	}
	return key
}

func orderItem(table, col string, ascending bool) statement.OrderByItem {
	return statement.OrderByItem{
		Expr:      expr.TupleValue(table, 0, col, expr.TypeInteger),
		Ascending: ascending,
	}
}

func TestDetermineNotSelectYieldsNone(t *testing.T) {
	key := keyOf(column("id", 0))
	res := Determine("orders", key, false, []statement.OrderByItem{orderItem("orders", "id", true)})
	assert.Equal(t, planshape.SortNone, res.Direction)
}

func TestDetermineEmptyOrderByYieldsNone(t *testing.T) {
	key := keyOf(column("id", 0))
	res := Determine("orders", key, true, nil)
	assert.Equal(t, planshape.SortNone, res.Direction)
}

func TestDetermineMoreOrderItemsThanKeyYieldsNone(t *testing.T) {
	key := keyOf(column("id", 0))
	orderBy := []statement.OrderByItem{orderItem("orders", "id", true), orderItem("orders", "amount", true)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortNone, res.Direction)
}

func TestDetermineAscendingMatch(t *testing.T) {
	key := keyOf(column("id", 0), column("amount", 1))
	orderBy := []statement.OrderByItem{orderItem("orders", "id", true)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortAscending, res.Direction)
}

func TestDetermineDescendingMatch(t *testing.T) {
	key := keyOf(column("id", 0))
	orderBy := []statement.OrderByItem{orderItem("orders", "id", false)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortDescending, res.Direction)
}

func TestDetermineMixedDirectionsYieldsNone(t *testing.T) {
	key := keyOf(column("id", 0), column("amount", 1))
	orderBy := []statement.OrderByItem{orderItem("orders", "id", true), orderItem("orders", "amount", false)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortNone, res.Direction)
}

func TestDetermineWrongColumnYieldsNone(t *testing.T) {
	key := keyOf(column("id", 0))
	orderBy := []statement.OrderByItem{orderItem("orders", "amount", true)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortNone, res.Direction)
}

func TestDetermineExpressionKeyComponent(t *testing.T) {
	col := expr.TupleValue("orders", 0, "id", expr.TypeInteger)
	indexedExpr := expr.ArithmeticOrOther("abs", expr.TypeInteger, col)
	key := []catalog.KeyComponent{{Expression: indexedExpr}}

	candidateCol := expr.TupleValue("orders", 0, "id", expr.TypeInteger)
	candidateExpr := expr.ArithmeticOrOther("abs", expr.TypeInteger, candidateCol)
	orderBy := []statement.OrderByItem{{Expr: candidateExpr, Ascending: true}}

	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortAscending, res.Direction)
	require.NotNil(t, res.Bindings)
}

func TestDetermineExpressionKeyComponentMismatchYieldsNone(t *testing.T) {
	col := expr.TupleValue("orders", 0, "id", expr.TypeInteger)
	indexedExpr := expr.ArithmeticOrOther("abs", expr.TypeInteger, col)
	key := []catalog.KeyComponent{{Expression: indexedExpr}}

	orderBy := []statement.OrderByItem{orderItem("orders", "id", true)}
	res := Determine("orders", key, true, orderBy)
	assert.Equal(t, planshape.SortNone, res.Direction)
}
