// Package statement defines the ParsedStatement surface the planner
// consumes and a simple in-memory implementation used by tests,
// fixtures, and the CLI.
package statement

import "github.com/nullable-labs/subplanner/expr"

// OrderByItem is one ORDER BY clause item: an expression plus its sort
// direction.
type OrderByItem struct {
	Expr      *expr.Expression
	Ascending bool
}

// TablePair is an unordered pair of table names, used as a join
// predicate map key. Pairs are normalized so (a, b) and (b, a) collide.
type TablePair struct{ A, B string }

// NewTablePair builds a TablePair with its two names in a fixed order.
func NewTablePair(a, b string) TablePair {
	if a > b {
		a, b = b, a
	}
	return TablePair{A: a, B: b}
}

// ParsedStatement is the planner's view of a parsed SQL statement: a
// per-table single-table filter list, a pair→predicate join map, an
// optional scan-columns projection per table, and for SELECT an
// ordered ORDER BY list.
type ParsedStatement interface {
	SingleTableFilters(table string) []*expr.Expression
	JoinFilters(a, b string) []*expr.Expression
	ScanColumns(table string) []string // nil means "all columns"
	IsSelect() bool
	OrderBy() []OrderByItem // empty unless IsSelect()
}

// Statement is a plain in-memory ParsedStatement, built directly by
// tests and the CLI's fixture loader rather than by a SQL parser (SQL
// parsing is out of scope for this planner).
type Statement struct {
	Select       bool
	FiltersByTbl map[string][]*expr.Expression
	JoinsByPair  map[TablePair][]*expr.Expression
	ScanCols     map[string][]string
	Order        []OrderByItem
}

func (s *Statement) SingleTableFilters(table string) []*expr.Expression {
	return s.FiltersByTbl[table]
}

func (s *Statement) JoinFilters(a, b string) []*expr.Expression {
	return s.JoinsByPair[NewTablePair(a, b)]
}

func (s *Statement) ScanColumns(table string) []string {
	return s.ScanCols[table]
}

func (s *Statement) IsSelect() bool { return s.Select }

func (s *Statement) OrderBy() []OrderByItem {
	if !s.Select {
		return nil
	}
	return s.Order
}

// JoinFiltersForTable collects every join predicate involving table
// against any of its partners, used by the access-path builder to fold
// join conditions into the candidate filter set.
func JoinFiltersForTable(s ParsedStatement, table string, partners []string) []*expr.Expression {
	var out []*expr.Expression
	for _, p := range partners {
		if p == table {
			continue
		}
		out = append(out, s.JoinFilters(table, p)...)
	}
	return out
}
