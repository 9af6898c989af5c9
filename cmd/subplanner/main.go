// Command subplanner is a small operator CLI around the planner core:
// "plan" enumerates access paths for a table given a JSON fixture, and
// "explain" runs EXPLAIN ANALYZE against a live Postgres catalog for a
// chosen path.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nullable-labs/subplanner/cmd/subplanner/internal/cli"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "subplanner: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cli.NewRootCommand(logger.Sugar()).Execute(); err != nil {
		logger.Sugar().Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("SUBPLANNER_LOG_LEVEL") == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
