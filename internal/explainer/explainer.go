// Package explainer runs EXPLAIN (ANALYZE, BUFFERS) against a live
// Postgres connection and extracts the reported execution time. It is
// a diagnostic aid only — cost-based ranking of access paths is out of
// scope; this never feeds back into the planner.
package explainer

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Querier is the subset of *pgxpool.Pool this package needs, narrowed
// so tests can substitute a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgxRows, error)
}

// pgxRows is the row-scanning surface explainer needs; satisfied by
// pgx.Rows.
type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// pool adapts *pgxpool.Pool to Querier.
type pool struct{ *pgxpool.Pool }

func (p pool) Query(ctx context.Context, sql string, args ...any) (pgxRows, error) {
	return p.Pool.Query(ctx, sql, args...)
}

// FromPool wraps a connection pool as a Querier.
func FromPool(p *pgxpool.Pool) Querier { return pool{p} }

// Result is a parsed EXPLAIN ANALYZE run.
type Result struct {
	Plan          string
	ExecutionMS   float64
}

// Analyze runs "EXPLAIN (ANALYZE, BUFFERS) <sqlText>" and returns the
// plan text plus its reported execution time.
func Analyze(ctx context.Context, q Querier, sqlText string, args ...any) (Result, error) {
	rows, err := q.Query(ctx, "EXPLAIN (ANALYZE, BUFFERS) "+sqlText, args...)
	if err != nil {
		return Result{}, errors.Wrap(err, "running explain analyze")
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return Result{}, errors.Wrap(err, "scanning explain output")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	plan := b.String()
	return Result{Plan: plan, ExecutionMS: parseExecutionTime(plan)}, nil
}

var execRe = regexp.MustCompile(`Execution Time:\s+([0-9.]+)\s+ms`)

func parseExecutionTime(plan string) float64 {
	m := execRe.FindStringSubmatch(plan)
	if len(m) != 2 {
		return 0
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return f
}
