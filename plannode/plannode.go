// Package plannode converts a chosen AccessPath into a scan plan node
// tree, optionally wrapped in a distributed send/receive pair.
package plannode

import (
	"github.com/nullable-labs/subplanner/access"
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/planshape"
)

// ScanNode is either a sequential or an index scan over one table.
type ScanNode struct {
	Table string
	// IndexName is empty for a sequential scan.
	IndexName string

	// SearchKeys are the right-hand sides of IndexExprs, in order —
	// the ordered search key the executor seeks with.
	SearchKeys []*expr.Expression
	LookupType planshape.LookupType

	EndExpression *expr.Expression // conjunction of EndExprs
	Predicate     *expr.Expression // conjunction of OtherExprs

	SortDirection planshape.SortDirection
	KeyIterate    bool
	Bindings      []*expr.Expression

	ScanColumns  []string
	OutputSchema []catalog.Column
}

// IsIndexScan reports whether this node scans an index rather than the
// whole table.
func (n *ScanNode) IsIndexScan() bool { return n.IndexName != "" }

// SendNode wraps a ScanNode for a distributed (multi-partition) plan.
type SendNode struct {
	MultiPartition bool
	Child          *ScanNode
}

// ReceiveNode is the parent of a SendNode, carrying the scan's output
// schema up to the coordinator.
type ReceiveNode struct {
	Child        *SendNode
	OutputSchema []catalog.Column
}

// Emit converts path into a scan node carrying table's catalog schema
// and the statement's scan-columns projection for table.
func Emit(table catalog.Table, path *access.Path, scanColumns []string) *ScanNode {
	schema := outputSchema(table, scanColumns)

	if path.IsSequential() {
		return &ScanNode{
			Table:         path.Table,
			Predicate:     expr.And(path.OtherExprs...),
			SortDirection: path.SortDirection,
			ScanColumns:   scanColumns,
			OutputSchema:  schema,
		}
	}

	searchKeys := make([]*expr.Expression, 0, len(path.IndexExprs))
	for _, cmp := range path.IndexExprs {
		searchKeys = append(searchKeys, cmp.Right)
	}

	return &ScanNode{
		Table:         path.Table,
		IndexName:     path.Index.Name,
		SearchKeys:    searchKeys,
		LookupType:    path.LookupType,
		EndExpression: expr.And(path.EndExprs...),
		Predicate:     expr.And(path.OtherExprs...),
		SortDirection: path.SortDirection,
		KeyIterate:    path.KeyIterate,
		Bindings:      path.Bindings,
		ScanColumns:   scanColumns,
		OutputSchema:  schema,
	}
}

// WrapDistributed wraps scan in a send node (flagged multiPartition)
// whose parent is a receive node carrying the scan's output schema.
// This is an additive transform outside the matching logic.
func WrapDistributed(scan *ScanNode, multiPartition bool) *ReceiveNode {
	send := &SendNode{MultiPartition: multiPartition, Child: scan}
	return &ReceiveNode{Child: send, OutputSchema: scan.OutputSchema}
}

func outputSchema(table catalog.Table, scanColumns []string) []catalog.Column {
	if len(scanColumns) == 0 {
		out := make([]catalog.Column, len(table.Columns))
		copy(out, table.Columns)
		return out
	}
	out := make([]catalog.Column, 0, len(scanColumns))
	for _, name := range scanColumns {
		if col, ok := table.Column(name); ok {
			out = append(out, col)
		}
	}
	return out
}
