package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullable-labs/subplanner/expr"
)

const sampleFixture = `{
  "table": "orders",
  "catalog": {
    "tables": [
      {
        "name": "orders",
        "columns": [
          {"name": "id", "value_type": "integer"},
          {"name": "customer_id", "value_type": "integer"}
        ],
        "indexes": [
          {"name": "id_idx", "type": "tree", "columns": ["id"]}
        ]
      },
      {
        "name": "customers",
        "columns": [
          {"name": "id", "value_type": "integer"}
        ],
        "indexes": []
      }
    ]
  },
  "statement": {
    "select": true,
    "filters": {
      "orders": [
        {"kind": "comparison", "op": "eq",
         "left": {"kind": "tuple_value", "table": "orders", "column_name": "id"},
         "right": {"kind": "constant", "value": 5, "value_type": "integer"}}
      ]
    },
    "joins": [
      {"tables": ["orders", "customers"], "filters": [
        {"kind": "comparison", "op": "eq",
         "left": {"kind": "tuple_value", "table": "orders", "column_name": "customer_id"},
         "right": {"kind": "tuple_value", "table": "customers", "column_name": "id"}}
      ]}
    ],
    "order_by": []
  }
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFixtureBuildsCatalogAndStatement(t *testing.T) {
	path := writeFixture(t, sampleFixture)

	cat, stmt, table, err := loadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", table)

	ordersTable, ok := cat.Table("orders")
	require.True(t, ok)
	require.Len(t, ordersTable.Columns, 2)
	assert.Equal(t, expr.TypeInteger, ordersTable.Columns[0].ValueType)
	require.Len(t, ordersTable.Indexes, 1)
	assert.Equal(t, "id_idx", ordersTable.Indexes[0].Name)

	assert.True(t, stmt.IsSelect())
	require.Len(t, stmt.SingleTableFilters("orders"), 1)
	require.Len(t, stmt.JoinFilters("orders", "customers"), 1)
}

func TestLoadFixtureRejectsMalformedJoin(t *testing.T) {
	bad := `{"table":"orders","catalog":{"tables":[]},"statement":{"joins":[{"tables":["orders"],"filters":[]}]}}`
	path := writeFixture(t, bad)

	_, _, _, err := loadFixture(path)
	assert.Error(t, err)
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, _, _, err := loadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestBuildTableExpressionKeyIndex(t *testing.T) {
	ft := fixtureTable{
		Name: "orders",
		Columns: []fixtureColumn{{Name: "name", ValueType: "varchar"}},
		Indexes: []fixtureIndex{
			{
				Name: "lower_name_idx",
				Type: "tree",
				KeyExpressions: []*expr.Expression{
					expr.ArithmeticOrOther("lower", expr.TypeVarchar, expr.TupleValue("orders", 0, "name", expr.TypeVarchar)),
				},
			},
		},
	}

	table := buildTable(ft)
	require.Len(t, table.Indexes, 1)
	assert.True(t, table.Indexes[0].IsExpressionIndex())
}
