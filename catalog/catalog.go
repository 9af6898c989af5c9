// Package catalog models the tables and indexes the planner reads:
// columns, index key components, and index scannability.
package catalog

import (
	"sort"

	"github.com/nullable-labs/subplanner/expr"
)

// Column is one column of a Table.
type Column struct {
	Name      string
	Ordinal   int
	ValueType expr.ValueType
}

// IndexType classifies the physical storage of an Index. Only tree
// (B-tree-like) indexes are scannable; hash indexes support point
// lookup only.
type IndexType int

const (
	IndexTypeTree IndexType = iota
	IndexTypeHash
)

// KeyComponent is one position of an Index's ordered key: either a
// direct column reference or, for an expression index, a parsed
// expression tree recovered from the catalog's stored serialization.
type KeyComponent struct {
	Column     *Column    // nil for an expression component
	Expression *expr.Expression // nil for a plain column component
}

// IsExpression reports whether this key component is an expression
// index component rather than a raw column reference.
func (k KeyComponent) IsExpression() bool { return k.Expression != nil }

// Index is one index on a Table.
type Index struct {
	Name  string
	Type  IndexType
	Key   []KeyComponent
	// Predicate is non-nil for a partial index: the index is only
	// usable when the statement's filters imply this expression holds.
	Predicate *expr.Expression
}

// Scannable reports whether the index's physical order supports range
// iteration rather than point lookup only (true for a tree index).
func (ix Index) Scannable() bool { return ix.Type == IndexTypeTree }

// IsExpressionIndex reports whether any key component is an expression
// rather than a plain column.
func (ix Index) IsExpressionIndex() bool {
	for _, c := range ix.Key {
		if c.IsExpression() {
			return true
		}
	}
	return false
}

// Table is one table in the catalog.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SortedIndexes returns the table's indexes in a deterministic order
// (sorted by name), so enumeration output is reproducible across runs.
func (t Table) SortedIndexes() []Index {
	out := make([]Index, len(t.Indexes))
	copy(out, t.Indexes)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Catalog is the full set of tables visible to the planner.
type Catalog struct {
	Tables map[string]Table
}

// Table looks up a table by name.
func (c Catalog) Table(name string) (Table, bool) {
	t, ok := c.Tables[name]
	return t, ok
}
