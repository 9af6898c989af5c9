package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nullable-labs/subplanner/access"
	"github.com/nullable-labs/subplanner/internal/config"
	"github.com/nullable-labs/subplanner/internal/explainer"
	"github.com/nullable-labs/subplanner/internal/sqlrender"
	"github.com/nullable-labs/subplanner/planner"
)

func newExplainCommand(log *zap.SugaredLogger) *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Run EXPLAIN ANALYZE against the fixture's best-looking index path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), log, fixturePath)
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "path to a JSON statement+catalog fixture")
	cmd.MarkFlagRequired("fixture") //nolint:errcheck

	return cmd
}

func runExplain(ctx context.Context, log *zap.SugaredLogger, fixturePath string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("SUBPLANNER_DATABASE_URL must be set for explain")
	}

	cat, stmt, tableName, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}
	table, ok := cat.Table(tableName)
	if !ok {
		return errors.Errorf("fixture names driving table %q, which is not in the catalog", tableName)
	}

	others := make([]string, 0, len(cat.Tables))
	for name := range cat.Tables {
		if name != tableName {
			others = append(others, name)
		}
	}

	paths := planner.EnumerateAccessPaths(table, stmt, others)
	chosen := pickIndexPath(paths)
	log.Infow("explaining path", "table", tableName, "index", indexNameOf(chosen))

	where, args, err := sqlrender.Where(chosen)
	if err != nil {
		return errors.Wrap(err, "rendering filter conjunction")
	}
	sqlText := fmt.Sprintf("SELECT * FROM %s", sqlrender.QuoteIdent(tableName))
	if where != "" {
		sqlText += " WHERE " + where
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connecting to database")
	}
	defer pool.Close()

	result, err := explainer.Analyze(ctx, explainer.FromPool(pool), sqlText, args...)
	if err != nil {
		return err
	}

	log.Infow("explain complete", "execution_ms", result.ExecutionMS)
	fmt.Println(result.Plan)
	return nil
}

// pickIndexPath favors the first index-scan path over the sequential
// scan, purely for this diagnostic command; it is not a cost-based
// choice — cost-based ranking belongs to a separate scorer.
func pickIndexPath(paths []*access.Path) *access.Path {
	for _, p := range paths {
		if !p.IsSequential() {
			return p
		}
	}
	return paths[0]
}

func indexNameOf(p *access.Path) string {
	if p.Index == nil {
		return "(sequential)"
	}
	return p.Index.Name
}
