// Package catalogload populates a catalog.Catalog from a live Postgres
// database: table columns plus, for each index, its key components
// and scannability.
//
// Expression-index key components are not reconstructed by parsing
// Postgres's own expression trees (that would mean embedding a SQL
// parser); instead each expression index is expected to carry a
// COMMENT ON INDEX ... IS '<json>' payload describing its key
// components and optional partial-index predicate in this module's own
// wire format. An index without that comment is treated as a plain
// column index.
package catalogload

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nullable-labs/subplanner/catalog"
	"github.com/nullable-labs/subplanner/expr"
)

// ErrMalformedIndex is returned (and logged, never fatal to the load)
// when an index's expression-key comment fails to deserialize: the
// index is skipped, not the whole load.
var ErrMalformedIndex = errors.New("catalogload: malformed expression-index metadata")

// Loader populates catalog.Table/catalog.Index values from a Postgres
// connection pool.
type Loader struct {
	Pool        *pgxpool.Pool
	Concurrency int
	Log         *zap.SugaredLogger
}

// NewLoader builds a Loader with a non-nil logger default.
func NewLoader(pool *pgxpool.Pool, concurrency int, log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Loader{Pool: pool, Concurrency: concurrency, Log: log}
}

// Load populates a Catalog for the named tables, loading each table's
// columns and indexes concurrently (bounded by l.Concurrency) since the
// loader is I/O-bound — the planner core downstream stays synchronous.
func (l *Loader) Load(ctx context.Context, tables []string) (catalog.Catalog, error) {
	result := catalog.Catalog{Tables: make(map[string]catalog.Table, len(tables))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Concurrency)

	loaded := make([]catalog.Table, len(tables))
	for i, name := range tables {
		i, name := i, name
		g.Go(func() error {
			t, err := l.loadTable(ctx, name)
			if err != nil {
				return errors.Wrapf(err, "loading table %q", name)
			}
			loaded[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return catalog.Catalog{}, err
	}

	for _, t := range loaded {
		result.Tables[t.Name] = t
	}
	return result, nil
}

func (l *Loader) loadTable(ctx context.Context, name string) (catalog.Table, error) {
	cols, err := l.loadColumns(ctx, name)
	if err != nil {
		return catalog.Table{}, err
	}
	idxs, err := l.loadIndexes(ctx, name, cols)
	if err != nil {
		return catalog.Table{}, err
	}
	return catalog.Table{Name: name, Columns: cols, Indexes: idxs}, nil
}

const columnsQuery = `
SELECT column_name, ordinal_position, data_type
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = $1
ORDER BY ordinal_position;`

func (l *Loader) loadColumns(ctx context.Context, table string) ([]catalog.Column, error) {
	rows, err := l.Pool.Query(ctx, columnsQuery, table)
	if err != nil {
		return nil, errors.Wrap(err, "querying columns")
	}
	defer rows.Close()

	var cols []catalog.Column
	for rows.Next() {
		var name, dataType string
		var ordinal int
		if err := rows.Scan(&name, &ordinal, &dataType); err != nil {
			return nil, errors.Wrap(err, "scanning column row")
		}
		cols = append(cols, catalog.Column{Name: name, Ordinal: ordinal - 1, ValueType: mapValueType(dataType)})
	}
	return cols, rows.Err()
}

const indexesQuery = `
SELECT i.relname AS index_name, am.amname AS access_method,
       ix.indkey::int[] AS key_attnums,
       obj_description(ix.indexrelid, 'pg_class') AS comment
FROM pg_index ix
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_am am ON am.oid = i.relam
WHERE t.relname = $1;`

func (l *Loader) loadIndexes(ctx context.Context, table string, cols []catalog.Column) ([]catalog.Index, error) {
	rows, err := l.Pool.Query(ctx, indexesQuery, table)
	if err != nil {
		return nil, errors.Wrap(err, "querying indexes")
	}
	defer rows.Close()

	byOrdinal := make(map[int]catalog.Column, len(cols))
	for _, c := range cols {
		byOrdinal[c.Ordinal] = c
	}

	var out []catalog.Index
	for rows.Next() {
		var name, accessMethod string
		var keyAttnums []int32
		var comment *string
		if err := rows.Scan(&name, &accessMethod, &keyAttnums, &comment); err != nil {
			return nil, errors.Wrap(err, "scanning index row")
		}

		idx, err := l.buildIndex(table, name, accessMethod, keyAttnums, byOrdinal, comment)
		if err != nil {
			l.Log.Warnw("skipping index", "table", table, "index", name, "error", err)
			continue
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

// indexMeta is the wire format for a COMMENT ON INDEX payload
// describing expression-index key components and an optional partial
// predicate. Expression and *Expression implement json.Unmarshaler
// (expr/json.go), so encoding/json decodes these fields directly into
// the planner's own expression tree.
type indexMeta struct {
	KeyExpressions []*expr.Expression `json:"key_expressions,omitempty"`
	Predicate      *expr.Expression   `json:"predicate,omitempty"`
}

func (l *Loader) buildIndex(table, name, accessMethod string, keyAttnums []int32, byOrdinal map[int]catalog.Column, comment *string) (catalog.Index, error) {
	idxType := catalog.IndexTypeTree
	if accessMethod == "hash" {
		idxType = catalog.IndexTypeHash
	}

	if comment == nil || *comment == "" {
		return catalog.Index{Name: name, Type: idxType, Key: plainKey(keyAttnums, byOrdinal)}, nil
	}

	var meta indexMeta
	if err := json.Unmarshal([]byte(*comment), &meta); err != nil {
		return catalog.Index{}, errors.Wrap(ErrMalformedIndex, err.Error())
	}

	key := make([]catalog.KeyComponent, 0, len(meta.KeyExpressions))
	for _, e := range meta.KeyExpressions {
		key = append(key, catalog.KeyComponent{Expression: e})
	}

	return catalog.Index{Name: name, Type: idxType, Key: key, Predicate: meta.Predicate}, nil
}

func plainKey(keyAttnums []int32, byOrdinal map[int]catalog.Column) []catalog.KeyComponent {
	key := make([]catalog.KeyComponent, 0, len(keyAttnums))
	for _, attnum := range keyAttnums {
		col, ok := byOrdinal[int(attnum)-1]
		if !ok {
			continue
		}
		c := col
		key = append(key, catalog.KeyComponent{Column: &c})
	}
	return key
}

func mapValueType(dataType string) expr.ValueType {
	switch dataType {
	case "bigint":
		return expr.TypeBigInt
	case "integer":
		return expr.TypeInteger
	case "smallint":
		return expr.TypeSmallInt
	case "double precision", "real":
		return expr.TypeDouble
	case "numeric":
		return expr.TypeDecimal
	case "character varying", "text", "character":
		return expr.TypeVarchar
	case "timestamp without time zone", "timestamp with time zone", "date":
		return expr.TypeTimestamp
	case "boolean":
		return expr.TypeBoolean
	default:
		return expr.TypeUnknown
	}
}
