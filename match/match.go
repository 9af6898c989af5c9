// Package match decides whether a filter is usable against a given
// index key component and, for LIKE, synthesizes the double-ended
// range bound.
package match

import (
	"github.com/nullable-labs/subplanner/expr"
	"github.com/nullable-labs/subplanner/normalize"
)

// Result is a normalized comparison plus the parameter bindings
// required for its reuse.
type Result struct {
	Comparison *expr.Expression
	Bindings   []*expr.Expression
}

// Match attempts to use filter f against target, requiring the
// normalized comparison's operator to equal want. For want == LIKE,
// use MatchLike instead, which applies the LIKE pattern-shape rules.
func Match(f *expr.Expression, table string, target normalize.Target, want expr.Op) (*Result, error) {
	normalized, bindings, err := normalize.Normalize(f, table, target)
	if err != nil {
		return nil, err
	}
	if normalized.Op != want {
		return nil, normalize.ErrInapplicable
	}
	return &Result{Comparison: normalized, Bindings: bindings}, nil
}

// MatchLike attempts to use filter f as a LIKE match against target.
// The non-indexed side must be a prefix-pattern constant, or a
// parameter whose original constant is a prefix pattern — in the
// latter case the parameter is folded into the result's bindings so
// the cached plan is only reused while it stays a prefix pattern.
func MatchLike(f *expr.Expression, table string, target normalize.Target) (*Result, error) {
	normalized, bindings, err := normalize.Normalize(f, table, target)
	if err != nil {
		return nil, err
	}
	if normalized.Op != expr.LIKE {
		return nil, normalize.ErrInapplicable
	}
	right := normalized.Right
	switch right.Kind {
	case expr.KindConstant:
		if !right.PrefixPattern {
			return nil, normalize.ErrInapplicable
		}
		return &Result{Comparison: normalized, Bindings: bindings}, nil
	case expr.KindParameter:
		if right.Original == nil || right.Original.Kind != expr.KindConstant || !right.Original.PrefixPattern {
			return nil, normalize.ErrInapplicable
		}
		withParam := append(append([]*expr.Expression{}, bindings...), right)
		return &Result{Comparison: normalized, Bindings: withParam}, nil
	default:
		return nil, normalize.ErrInapplicable
	}
}

// LikeBounds is the double-ended range synthesized from a single LIKE
// match: Start is a GTE lower bound on the pattern's literal prefix,
// End is an LT upper bound on the next lexicographic value. End is nil
// when the prefix has no successor (e.g. it is all maximal runes).
type LikeBounds struct {
	Start *Result
	End   *Result
}

// DeriveLikeBounds computes the double-ended bound for a successful
// MatchLike result. The two returned bounds share like's bindings,
// since both only become valid plans under the same parameter
// constraints.
func DeriveLikeBounds(like *Result) *LikeBounds {
	pattern, ok := literalPattern(like.Comparison.Right)
	if !ok {
		return nil
	}
	prefix := expr.LiteralPrefix(pattern)
	if prefix == "" {
		return nil
	}
	indexed := like.Comparison.Left
	start := &Result{
		Comparison: expr.Comparison(expr.GTE, indexed, expr.Constant(prefix, indexed.ValueType(), false)),
		Bindings:   like.Bindings,
	}
	bounds := &LikeBounds{Start: start}
	if next, ok := expr.NextLexicographic(prefix); ok {
		bounds.End = &Result{
			Comparison: expr.Comparison(expr.LT, indexed, expr.Constant(next, indexed.ValueType(), false)),
			Bindings:   like.Bindings,
		}
	}
	return bounds
}

func literalPattern(side *expr.Expression) (string, bool) {
	switch side.Kind {
	case expr.KindConstant:
		s, ok := side.Value.(string)
		return s, ok
	case expr.KindParameter:
		if side.Original == nil {
			return "", false
		}
		s, ok := side.Original.Value.(string)
		return s, ok
	default:
		return "", false
	}
}
