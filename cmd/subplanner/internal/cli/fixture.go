package cli

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/statement"
)

// fixture is the JSON shape accepted by `subplanner plan`: a catalog
// snapshot plus a parsed-statement snapshot, since SQL parsing is out
// of scope for this planner — fixtures hand the expression tree
// directly instead of a query string.
type fixture struct {
	Catalog   fixtureCatalog   `json:"catalog"`
	Statement fixtureStatement `json:"statement"`
	// Table is the driving table to enumerate access paths for.
	Table string `json:"table"`
}

type fixtureCatalog struct {
	Tables []fixtureTable `json:"tables"`
}

type fixtureTable struct {
	Name    string          `json:"name"`
	Columns []fixtureColumn `json:"columns"`
	Indexes []fixtureIndex  `json:"indexes"`
}

type fixtureColumn struct {
	Name      string `json:"name"`
	ValueType string `json:"value_type"`
}

type fixtureIndex struct {
	Name string `json:"name"`
	// Type is "tree" or "hash".
	Type string `json:"type"`
	// Columns names plain key-component columns, in order.
	Columns []string `json:"columns,omitempty"`
	// KeyExpressions names expression key components, in order,
	// mutually exclusive with Columns.
	KeyExpressions []*expr.Expression `json:"key_expressions,omitempty"`
	Predicate      *expr.Expression   `json:"predicate,omitempty"`
}

type fixtureStatement struct {
	Select      bool                            `json:"select"`
	Filters     map[string][]*expr.Expression    `json:"filters,omitempty"`
	Joins       []fixtureJoin                    `json:"joins,omitempty"`
	ScanColumns map[string][]string              `json:"scan_columns,omitempty"`
	OrderBy     []fixtureOrderByItem             `json:"order_by,omitempty"`
}

type fixtureJoin struct {
	Tables []string           `json:"tables"`
	Filter []*expr.Expression `json:"filters"`
}

type fixtureOrderByItem struct {
	Expr      *expr.Expression `json:"expr"`
	Ascending bool             `json:"ascending"`
}

func loadFixture(path string) (catalog.Catalog, *statement.Statement, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, nil, "", errors.Wrap(err, "reading fixture")
	}
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return catalog.Catalog{}, nil, "", errors.Wrap(err, "parsing fixture")
	}

	cat := catalog.Catalog{Tables: make(map[string]catalog.Table, len(f.Catalog.Tables))}
	for _, ft := range f.Catalog.Tables {
		cat.Tables[ft.Name] = buildTable(ft)
	}

	stmt := &statement.Statement{
		Select:       f.Statement.Select,
		FiltersByTbl: f.Statement.Filters,
		JoinsByPair:  make(map[statement.TablePair][]*expr.Expression, len(f.Statement.Joins)),
		ScanCols:     f.Statement.ScanColumns,
	}
	for _, j := range f.Statement.Joins {
		if len(j.Tables) != 2 {
			return catalog.Catalog{}, nil, "", errors.Errorf("join entry must name exactly two tables, got %v", j.Tables)
		}
		stmt.JoinsByPair[statement.NewTablePair(j.Tables[0], j.Tables[1])] = j.Filter
	}
	for _, o := range f.Statement.OrderBy {
		stmt.Order = append(stmt.Order, statement.OrderByItem{Expr: o.Expr, Ascending: o.Ascending})
	}

	return cat, stmt, f.Table, nil
}

func buildTable(ft fixtureTable) catalog.Table {
	cols := make([]catalog.Column, 0, len(ft.Columns))
	byName := make(map[string]catalog.Column, len(ft.Columns))
	for i, fc := range ft.Columns {
		col := catalog.Column{Name: fc.Name, Ordinal: i, ValueType: expr.ParseValueTypeName(fc.ValueType)}
		cols = append(cols, col)
		byName[fc.Name] = col
	}

	idxs := make([]catalog.Index, 0, len(ft.Indexes))
	for _, fi := range ft.Indexes {
		idxType := catalog.IndexTypeTree
		if fi.Type == "hash" {
			idxType = catalog.IndexTypeHash
		}
		var key []catalog.KeyComponent
		if len(fi.KeyExpressions) > 0 {
			for _, e := range fi.KeyExpressions {
				key = append(key, catalog.KeyComponent{Expression: e})
			}
		} else {
			for _, name := range fi.Columns {
				if col, ok := byName[name]; ok {
					c := col
					key = append(key, catalog.KeyComponent{Column: &c})
				}
			}
		}
		idxs = append(idxs, catalog.Index{Name: fi.Name, Type: idxType, Key: key, Predicate: fi.Predicate})
	}

	return catalog.Table{Name: ft.Name, Columns: cols, Indexes: idxs}
}
