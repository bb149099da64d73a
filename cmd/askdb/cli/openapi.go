package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/openapi"
	"github.com/askdb/askdb/internal/schema"
)

func newOpenAPICmd() *cobra.Command {
	var (
		outputFile string
		serverURL  string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Generate the OpenAPI document for the HTTP API",
		Long: `Generate the OpenAPI 3 document served at /openapi.json. When a database is
configured the Person fields are annotated with their catalog types.`,
		Example: `  askdb openapi
  askdb openapi --offline -o openapi.json
  askdb openapi --server-url https://askdb.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runOpenAPI(ctx, outputFile, serverURL, offline)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "Server URL to list in the document")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the catalog lookup")

	return cmd
}

func runOpenAPI(ctx context.Context, outputFile, serverURL string, offline bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	opts := openapi.Options{
		Version:     versionString(),
		ServerURL:   serverURL,
		Table:       cfg.Query.Table,
		AuthEnabled: cfg.Auth.JWTSecret != "",
	}

	if !offline && cfg.Database.DSN != "" {
		if err := cfg.ValidateDatabase(); err != nil {
			return err
		}
		registry, conn, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer registry.CloseAll()

		groups, err := schema.NewIntrospector(conn).Describe(ctx, cfg.Query.Table)
		if err != nil {
			logger.Warn("catalog lookup failed; generating without annotations", "error", err)
		} else {
			opts.Groups = groups
		}
	}

	data, err := json.MarshalIndent(openapi.Generate(opts), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal openapi: %w", err)
	}
	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputFile, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outputFile, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", outputFile)
	return nil
}
