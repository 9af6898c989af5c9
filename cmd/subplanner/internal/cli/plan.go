package cli

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nullable-labs/subplanner/planner"
	"github.com/nullable-labs/subplanner/planshape"
	"github.com/nullable-labs/subplanner/plannode"
)

func newPlanCommand(log *zap.SugaredLogger) *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Enumerate access paths for the fixture's driving table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(log, fixturePath)
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "path to a JSON statement+catalog fixture")
	cmd.MarkFlagRequired("fixture") //nolint:errcheck

	return cmd
}

func runPlan(log *zap.SugaredLogger, fixturePath string) error {
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
	log.Infow("enumerated access paths", "table", tableName, "count", len(paths))

	type renderedPath struct {
		Index         string `json:"index,omitempty"`
		LookupType    string `json:"lookup_type"`
		UseMode       string `json:"use_mode"`
		SortDirection string `json:"sort_direction"`
		IndexExprs    int    `json:"index_exprs"`
		EndExprs      int    `json:"end_exprs"`
		OtherExprs    int    `json:"other_exprs"`
		Scan          *plannode.ScanNode `json:"scan"`
	}

	out := make([]renderedPath, 0, len(paths))
	for _, p := range paths {
		name := ""
		if p.Index != nil {
			name = p.Index.Name
		}
		out = append(out, renderedPath{
			Index:         name,
			LookupType:    lookupName(p.LookupType),
			UseMode:       useModeName(p.UseMode),
			SortDirection: sortDirectionName(p.SortDirection),
			IndexExprs:    len(p.IndexExprs),
			EndExprs:      len(p.EndExprs),
			OtherExprs:    len(p.OtherExprs),
			Scan:          plannode.Emit(table, p, stmt.ScanColumns(tableName)),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func lookupName(l planshape.LookupType) string {
	switch l {
	case planshape.LookupGT:
		return "GT"
	case planshape.LookupGTE:
		return "GTE"
	default:
		return "EQ"
	}
}

func useModeName(u planshape.UseMode) string {
	if u == planshape.UseIndexScan {
		return "index-scan"
	}
	return "covering-unique-equality"
}

func sortDirectionName(s planshape.SortDirection) string {
	switch s {
	case planshape.SortAscending:
		return "ascending"
	case planshape.SortDescending:
		return "descending"
	default:
		return "none"
	}
}
