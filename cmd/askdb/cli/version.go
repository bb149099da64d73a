package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/completion"
)

type buildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Built     string   `json:"built"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Drivers   []string `json:"drivers"`
	Model     string   `json:"default_model"`
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{
				Version:   version,
				Commit:    commit,
				Built:     date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				Drivers:   newRegistry().Drivers(),
				Model:     completion.DefaultModel,
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeIndentedJSON(out, info)
			}
			fmt.Fprintf(out, "askdb %s (%s, built %s)\n", info.Version, info.Commit, info.Built)
			fmt.Fprintf(out, "  %s on %s\n", info.GoVersion, info.Platform)
			fmt.Fprintf(out, "  drivers: %s\n", strings.Join(info.Drivers, ", "))
			fmt.Fprintf(out, "  default model: %s\n", info.Model)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}
