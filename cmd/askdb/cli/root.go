package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	appVersion string // set in Execute, reported by serve, mcp and openapi
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askdb",
		Short: "Ask a SQL database questions in plain English",
		Long: `askdb translates a natural-language request into a SQL SELECT with an
OpenAI-compatible model, runs it against your database, and returns the rows.

The model is shown the column catalog of one table (Person by default).
Generated SQL is executed as-is, so point askdb at a read-only login.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./askdb.yaml or ~/.askdb/askdb.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newOpenAPICmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}
