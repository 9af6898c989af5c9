// Package planner is the facade that ties the core components
// together: for one table it produces the full enumeration of access
// paths, leaving cost-based ranking to a separate scorer.
package planner

import (
	"sort"

	"github.com/nullable-labs/subplanner/access"
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/statement"
)

// EnumerateAccessPaths returns every viable access path for reading
// table under stmt: exactly one sequential-scan path plus zero or more
// index-scan paths, in deterministic order.
// otherTables lists every other table name appearing in the statement,
// used to collect join predicates involving table.
func EnumerateAccessPaths(table catalog.Table, stmt statement.ParsedStatement, otherTables []string) []*access.Path {
	singleTableFilters := stmt.SingleTableFilters(table.Name)
	joinFilters := statement.JoinFiltersForTable(stmt, table.Name, otherTables)

	paths := make([]*access.Path, 0, len(table.Indexes)+1)
	paths = append(paths, access.BuildSequential(table.Name, singleTableFilters, joinFilters))

	for _, idx := range table.SortedIndexes() {
		p, err := access.BuildForIndex(table.Name, singleTableFilters, joinFilters, idx, stmt.IsSelect(), stmt.OrderBy())
		if err != nil || p == nil {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// SortedTableNames returns a catalog's table names in deterministic
// order, used by callers that need to iterate every table of a
// statement (e.g. a multi-table SELECT with no explicit driving table).
func SortedTableNames(cat catalog.Catalog) []string {
	names := make([]string, 0, len(cat.Tables))
	for name := range cat.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
