// Package planshape holds the small enums shared between order and
// access without letting either package import the other: sort
// direction, lookup type, and access-path use-mode.
package planshape

import "github.com/nullable-labs/subplanner/expr"

// SortDirection is the scan order an access path is tagged with,
// either because an index's natural key order happens to satisfy an
// ORDER BY, or because none does.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// LookupType is the operator used to position a scan at its first key.
type LookupType int

const (
	LookupEQ LookupType = iota
	LookupGT
	LookupGTE
)

// UseMode distinguishes a scan that is guaranteed to touch at most one
// key (every key component pinned by equality) from a general range
// scan.
type UseMode int

const (
	UseCoveringUniqueEquality UseMode = iota
	UseIndexScan
)

// emptyBindings is the immutable shared sentinel any number of access
// paths may alias for "no bindings required". Callers must never write
// through it; AppendBinding below is the only sanctioned way to grow a
// bindings list and always allocates first.
var emptyBindings = []*expr.Expression{}

// EmptyBindings returns the shared empty-bindings sentinel.
func EmptyBindings() []*expr.Expression { return emptyBindings }

// AppendBinding returns a fresh slice with b appended to bindings,
// never mutating bindings in place — required of every matcher call
// site that would otherwise grow the shared sentinel.
func AppendBinding(bindings []*expr.Expression, b ...*expr.Expression) []*expr.Expression {
	out := make([]*expr.Expression, 0, len(bindings)+len(b))
	out = append(out, bindings...)
	out = append(out, b...)
	return out
}
