// Package sqlrender renders an access.Path's recovered filter
// conjunction back into SQL text using squirrel. It exists to exercise
// the property that round-tripping a path's filters yields the
// original conjunction (modulo reordering) and as a diagnostic aid; it
// is never part of the matching or building algorithms themselves —
// executing SQL is outside this planner's scope.
package sqlrender

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/nullable-labs/subplanner/access"
	"github.com/nullable-labs/subplanner/expr"
)

// QuoteIdent double-quotes a Postgres identifier, escaping any embedded
// quote by doubling it: name -> "name", na"me -> "na""me".
func QuoteIdent(s string) string {
	if s == "" {
		return `""`
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FilterConjunction collects every distinct filter referenced by path —
// IndexExprs, EndExprs, and OtherExprs, de-duplicated by pointer
// identity since an equality match is deliberately echoed into both
// IndexExprs and EndExprs — and returns their AND.
func FilterConjunction(path *access.Path) *expr.Expression {
	seen := make(map[*expr.Expression]bool)
	var unique []*expr.Expression
	add := func(exprs []*expr.Expression) {
		for _, e := range exprs {
			if e == nil || seen[e] {
				continue
			}
			seen[e] = true
			unique = append(unique, e)
		}
	}
	add(path.IndexExprs)
	add(path.EndExprs)
	add(path.OtherExprs)
	return expr.And(unique...)
}

// Where renders path's filter conjunction as a squirrel WHERE clause,
// returning the SQL text and its positional arguments.
func Where(path *access.Path) (string, []any, error) {
	conj := FilterConjunction(path)
	if conj == nil {
		return "", nil, nil
	}
	sqlizer, err := toSqlizer(conj)
	if err != nil {
		return "", nil, err
	}
	return sqlizer.ToSql()
}

func toSqlizer(e *expr.Expression) (sq.Sqlizer, error) {
	switch e.Kind {
	case expr.KindComparison:
		return comparisonSqlizer(e)
	case expr.KindArithmeticOther:
		if e.FuncName == "AND" {
			parts := make(sq.And, 0, len(e.Children))
			for _, c := range e.Children {
				sub, err := toSqlizer(c)
				if err != nil {
					return nil, err
				}
				parts = append(parts, sub)
			}
			return parts, nil
		}
		return nil, errors.Errorf("sqlrender: cannot render function %q standalone", e.FuncName)
	default:
		return nil, errors.Errorf("sqlrender: cannot render expression kind %d as a predicate", e.Kind)
	}
}

func comparisonSqlizer(c *expr.Expression) (sq.Sqlizer, error) {
	col, err := columnRef(c.Left)
	if err != nil {
		return nil, err
	}
	val := operandValue(c.Right)

	switch c.Op {
	case expr.EQ:
		return sq.Eq{col: val}, nil
	case expr.GT:
		return sq.Gt{col: val}, nil
	case expr.GTE:
		return sq.GtOrEq{col: val}, nil
	case expr.LT:
		return sq.Lt{col: val}, nil
	case expr.LTE:
		return sq.LtOrEq{col: val}, nil
	case expr.LIKE:
		return sq.Like{col: val}, nil
	default:
		return nil, errors.Errorf("sqlrender: unsupported operator %v", c.Op)
	}
}

// columnRef renders the indexed (left) side of a comparison: a plain
// column name, or a call-like rendering of an expression-index key for
// diagnostic display.
func columnRef(e *expr.Expression) (string, error) {
	switch e.Kind {
	case expr.KindTupleValue:
		return fmt.Sprintf("%s.%s", QuoteIdent(e.Table), QuoteIdent(e.ColumnName)), nil
	case expr.KindArithmeticOther:
		return e.FuncName + "(...)", nil
	default:
		return "", errors.Errorf("sqlrender: left operand kind %d is not indexable", e.Kind)
	}
}

func operandValue(e *expr.Expression) any {
	switch e.Kind {
	case expr.KindConstant:
		return e.Value
	case expr.KindParameter:
		return sq.Expr(fmt.Sprintf("$%d", e.ParamIndex+1))
	default:
		return sq.Expr(e.String())
	}
}
