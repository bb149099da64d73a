package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/askdb/askdb/internal/model"
)

func newAskCmd() *cobra.Command {
	var (
		sqlOnly    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "ask <request>",
		Short: "Run one natural-language request and print the rows",
		Long: `Run a single request through the same pipeline as GET /person and print
the result. Rows are shown as a table on a terminal and as JSON otherwise.`,
		Example: `  askdb ask "people whose last name starts with Sm"
  askdb ask --sql-only "the ten most recently modified people"
  askdb ask --json "everyone named Ken" | jq length`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			request := strings.Join(args, " ")
			return runAsk(ctx, cmd.OutOrStdout(), request, sqlOnly, jsonOutput || !isTerminal(os.Stdout))
		},
	}

	cmd.Flags().BoolVar(&sqlOnly, "sql-only", false, "Print the generated SQL without executing it")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print rows as JSON even on a terminal")

	return cmd
}

func runAsk(ctx context.Context, w io.Writer, request string, sqlOnly, jsonOutput bool) error {
	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	if sqlOnly {
		t, err := p.querySvc.Translate(ctx, request)
		if err != nil {
			if t != nil && t.Completion != "" {
				fmt.Fprintf(os.Stderr, "model output:\n%s\n", t.Completion)
			}
			return err
		}
		if jsonOutput {
			return writeIndentedJSON(w, t)
		}
		_, err = fmt.Fprintln(w, t.SQL)
		return err
	}

	people, err := p.querySvc.Run(ctx, request)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeIndentedJSON(w, people)
	}
	return renderPeople(w, people)
}

func renderPeople(w io.Writer, people []model.Person) error {
	if len(people) == 0 {
		pterm.Fprintln(w, "No rows.")
		return nil
	}

	data := pterm.TableData{{"ID", "Type", "Title", "First", "Middle", "Last", "Suffix", "Promo", "Modified"}}
	for _, p := range people {
		data = append(data, []string{
			strconv.Itoa(p.BusinessEntityID),
			p.PersonType,
			deref(p.Title),
			p.FirstName,
			deref(p.MiddleName),
			p.LastName,
			deref(p.Suffix),
			strconv.Itoa(p.EmailPromotion),
			formatTime(p.ModifiedDate),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
		return err
	}
	pterm.Fprintln(w, fmt.Sprintf("%d row(s)", len(people)))
	return nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
