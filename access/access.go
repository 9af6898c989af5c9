// Package access implements the AccessPath type and the per
// (table, index) builder that assembles one.
package access

import (
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/planshape"
)

// Path is one viable physical access path for reading a single table:
// either a sequential scan (Index == nil) or a scan of Index.
//
// Path exclusively owns its expression references; they are shared
// immutably with the statement's original tree.
type Path struct {
	Table string
	Index *catalog.Index

	LookupType planshape.LookupType
	UseMode    planshape.UseMode

	// IndexExprs are comparisons whose right-hand sides become ordered
	// search keys positioning the scan; never longer than the index key.
	IndexExprs []*expr.Expression
	// EndExprs form the upper-bound stop condition; never longer than
	// IndexExprs.
	EndExprs []*expr.Expression
	// OtherExprs are residual filters checked after the scan retrieves
	// each row.
	OtherExprs []*expr.Expression
	// JoinExprs is the subset of OtherExprs that originated as join
	// predicates, tracked separately for visibility into the emitted
	// plan.
	JoinExprs []*expr.Expression

	SortDirection planshape.SortDirection
	// Bindings are parameter expressions that must hold specific
	// values for this path's reuse to stay valid.
	Bindings []*expr.Expression

	// KeyIterate is set when the scan must walk multiple keys (a range,
	// partial-equality-prefix or unbounded scan) rather than a single
	// point lookup.
	KeyIterate bool
}

// IsSequential reports whether this path is a full table scan.
func (p *Path) IsSequential() bool { return p.Index == nil }
