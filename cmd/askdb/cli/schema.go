package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/prompt"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	var (
		table  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the catalog columns the model is given",
		Long: `Introspect the configured table and print its columns. With --format prompt
the output is exactly the table description embedded in the prompt.`,
		Example: `  askdb schema
  askdb schema --table Address --format json
  askdb schema --format prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if format == "" {
				format = "table"
				if !isTerminal(os.Stdout) {
					format = "json"
				}
			}
			return runSchema(ctx, cmd.OutOrStdout(), table, format)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to describe (default query.table)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json or prompt")

	return cmd
}

func runSchema(ctx context.Context, w io.Writer, table, format string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if table != "" {
		cfg.Query.Table = table
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}
	if err := query.ValidateTableName(cfg.Query.Table); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	registry, conn, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer registry.CloseAll()

	groups, err := schema.NewIntrospector(conn).Describe(ctx, cfg.Query.Table)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeIndentedJSON(w, groups)
	case "prompt":
		_, err := fmt.Fprintln(w, prompt.DescribeTables(groups))
		return err
	case "table":
		data := pterm.TableData{{"Table", "Column", "Type", "Schema"}}
		for _, g := range groups {
			for _, c := range g.Columns {
				data = append(data, []string{g.Name, c.ColumnName, c.DataType, c.SchemaName})
			}
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
	default:
		return fmt.Errorf("unknown format %q; use table, json or prompt", format)
	}
}
