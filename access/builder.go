package access

import (
	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/match"
	"github.com/nullable-labs/subplanner/normalize"
	"github.com/nullable-labs/subplanner/order"
	"github.com/nullable-labs/subplanner/planshape"
	"github.com/nullable-labs/subplanner/statement"
)

// candidate is one filter still available for matching, tagged with
// whether it originated as a join predicate.
type candidate struct {
	expr   *expr.Expression
	isJoin bool
}

// BuildSequential produces the naive sequential-scan path: every filter
// becomes a post-scan predicate. The list of access paths for a table
// always contains this path, so the planner never fails closed (spec
// §7).
func BuildSequential(table string, singleTableFilters, joinFilters []*expr.Expression) *Path {
	others := make([]*expr.Expression, 0, len(singleTableFilters)+len(joinFilters))
	others = append(others, singleTableFilters...)
	others = append(others, joinFilters...)
	return &Path{
		Table:         table,
		LookupType:    planshape.LookupEQ,
		UseMode:       planshape.UseCoveringUniqueEquality,
		OtherExprs:    others,
		JoinExprs:     append([]*expr.Expression{}, joinFilters...),
		SortDirection: planshape.SortNone,
		Bindings:      planshape.EmptyBindings(),
	}
}

// BuildForIndex walks idx's key components against the candidate
// filter set (single-table filters plus join predicates) and assembles
// an equality-prefix / range-bound / residual-filter access path (spec
// §4.4). It returns (nil, nil) whenever the index is not a viable
// access path for this statement — never an error — consistent with
// the §7 error taxonomy: every failure degrades to "no path", never a
// fatal condition for the statement.
func BuildForIndex(
	table string,
	singleTableFilters, joinFilters []*expr.Expression,
	idx catalog.Index,
	isSelect bool,
	orderBy []statement.OrderByItem,
) (*Path, error) {
	if idx.Predicate != nil && !predicateImplied(idx.Predicate, singleTableFilters, joinFilters) {
		return nil, nil
	}

	k := len(idx.Key)
	w := make([]candidate, 0, len(singleTableFilters)+len(joinFilters))
	for _, f := range singleTableFilters {
		w = append(w, candidate{expr: f})
	}
	for _, f := range joinFilters {
		w = append(w, candidate{expr: f, isJoin: true})
	}

	path := &Path{
		Table:      table,
		Index:      &idx,
		UseMode:    planshape.UseCoveringUniqueEquality,
		LookupType: planshape.LookupEQ,
		Bindings:   planshape.EmptyBindings(),
	}

	orderResult := order.Determine(table, idx.Key, isSelect, orderBy)
	path.SortDirection = orderResult.Direction
	scratchBindings := orderResult.Bindings

	// Step 3: equality prefix.
	c := 0
	for ; c < k; c++ {
		target := targetFor(table, idx.Key[c])
		i, res, err := findMatch(w, table, target, expr.EQ)
		if err != nil {
			break
		}
		path.IndexExprs = append(path.IndexExprs, res.Comparison)
		path.EndExprs = append(path.EndExprs, res.Comparison)
		path.Bindings = planshape.AppendBinding(path.Bindings, res.Bindings...)
		w = removeAt(w, i)
	}

	// Step 4: fully covered by equalities.
	if c == k {
		path.drain(w)
		if path.SortDirection != planshape.SortNone {
			path.Bindings = planshape.AppendBinding(path.Bindings, scratchBindings...)
		}
		return path, nil
	}

	// Step 5: a non-scannable index requires full equality coverage.
	if !idx.Scannable() {
		return nil, nil
	}

	// Step 6: range bound at position c.
	target := targetFor(table, idx.Key[c])
	var startRes, endRes *match.Result

	if i, like, err := findLikeMatch(w, table, target); err == nil {
		bounds := match.DeriveLikeBounds(like)
		if bounds != nil {
			startRes, endRes = bounds.Start, bounds.End
			w = removeAt(w, i)
		}
	}
	if startRes == nil && endRes == nil {
		if i, res, err := findMatch(w, table, target, expr.GT); err == nil {
			startRes = res
			w = removeAt(w, i)
		} else if i, res, err := findMatch(w, table, target, expr.GTE); err == nil {
			startRes = res
			w = removeAt(w, i)
		}
		if i, res, err := findMatch(w, table, target, expr.LT); err == nil {
			endRes = res
			w = removeAt(w, i)
		} else if i, res, err := findMatch(w, table, target, expr.LTE); err == nil {
			endRes = res
			w = removeAt(w, i)
		}
	}

	// Step 7: reverse-scan reconciliation.
	if path.SortDirection == planshape.SortDescending {
		if endRes != nil || len(path.EndExprs) > 0 {
			path.SortDirection = planshape.SortNone
		} else {
			endRes = startRes
			startRes = nil
		}
	}

	// Step 8: apply the starting bound.
	var appliedStart *expr.Expression
	if startRes != nil {
		path.IndexExprs = append(path.IndexExprs, startRes.Comparison)
		path.Bindings = planshape.AppendBinding(path.Bindings, startRes.Bindings...)
		appliedStart = startRes.Comparison
		if startRes.Comparison.Op == expr.GT {
			path.LookupType = planshape.LookupGT
		} else {
			path.LookupType = planshape.LookupGTE
		}
		path.UseMode = planshape.UseIndexScan
		path.KeyIterate = true
	}

	// Step 9: apply the ending bound.
	if endRes != nil {
		path.EndExprs = append(path.EndExprs, endRes.Comparison)
		path.Bindings = planshape.AppendBinding(path.Bindings, endRes.Bindings...)
		path.UseMode = planshape.UseIndexScan
		path.KeyIterate = true
		if path.LookupType == planshape.LookupEQ {
			path.LookupType = planshape.LookupGTE
		}
	}

	// Step 10: irrelevance check.
	if len(path.IndexExprs) == 0 && len(path.EndExprs) == 0 && path.SortDirection == planshape.SortNone {
		return nil, nil
	}

	// Step 11: padding correction.
	if len(path.IndexExprs) < k {
		switch {
		case path.UseMode == planshape.UseCoveringUniqueEquality:
			path.UseMode = planshape.UseIndexScan
			path.LookupType = planshape.LookupGTE
			path.KeyIterate = true
		case path.LookupType == planshape.LookupGT && appliedStart != nil:
			// Intentional duplication: a strict GT scan on a prefix key
			// would otherwise falsely match compound keys whose prefix
			// equals the bound but whose tail is non-null. Re-filtering
			// discards those rows.
			path.OtherExprs = append(path.OtherExprs, appliedStart)
		}
	}

	// Step 12: drain the rest, commit order-determinator bindings.
	path.drain(w)
	if path.SortDirection != planshape.SortNone {
		path.Bindings = planshape.AppendBinding(path.Bindings, scratchBindings...)
	}
	return path, nil
}

func (p *Path) drain(w []candidate) {
	for _, cand := range w {
		p.OtherExprs = append(p.OtherExprs, cand.expr)
		if cand.isJoin {
			p.JoinExprs = append(p.JoinExprs, cand.expr)
		}
	}
}

func targetFor(table string, comp catalog.KeyComponent) normalize.Target {
	if comp.IsExpression() {
		return normalize.Target{Table: table, Expression: comp.Expression, ValueType: comp.Expression.ValueType()}
	}
	return normalize.Target{Table: table, ColumnID: comp.Column.Ordinal, ValueType: comp.Column.ValueType}
}

func findMatch(w []candidate, table string, target normalize.Target, want expr.Op) (int, *match.Result, error) {
	for i, cand := range w {
		if res, err := match.Match(cand.expr, table, target, want); err == nil {
			return i, res, nil
		}
	}
	return -1, nil, normalize.ErrInapplicable
}

func findLikeMatch(w []candidate, table string, target normalize.Target) (int, *match.Result, error) {
	for i, cand := range w {
		if res, err := match.MatchLike(cand.expr, table, target); err == nil {
			return i, res, nil
		}
	}
	return -1, nil, normalize.ErrInapplicable
}

func removeAt(w []candidate, i int) []candidate {
	out := make([]candidate, 0, len(w)-1)
	out = append(out, w[:i]...)
	out = append(out, w[i+1:]...)
	return out
}

// predicateImplied reports whether a partial index's predicate is
// already guaranteed by one of the statement's filters. This is a
// syntactic containment check, not a full implication prover: it only
// recognizes a filter that is textually identical to the predicate.
func predicateImplied(predicate *expr.Expression, singleTableFilters, joinFilters []*expr.Expression) bool {
	want := predicate.String()
	for _, f := range singleTableFilters {
		if f.String() == want {
			return true
		}
	}
	for _, f := range joinFilters {
		if f.String() == want {
			return true
		}
	}
	return false
}
