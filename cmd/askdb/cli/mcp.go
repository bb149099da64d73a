package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	amcp "github.com/askdb/askdb/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes the query pipeline
as tools. Supports stdio (default) and Streamable HTTP transports.

In stdio mode the server speaks JSON-RPC over stdin/stdout, suitable for
clients that launch askdb as a subprocess. Logs always go to stderr.`,
		Example: `  askdb mcp                                # stdio mode
  askdb mcp --transport http --addr :3001  # HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runMCP(ctx, transport, addr)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", ":3001", "Listen address (only used with --transport http)")

	return cmd
}

func runMCP(ctx context.Context, transport, addr string) error {
	if transport != "stdio" && transport != "http" {
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	mcpSrv := amcp.NewMCPServer(p.querySvc, versionString(), p.logger)
	if transport == "http" {
		return mcpSrv.ServeHTTP(addr)
	}
	return mcpSrv.ServeStdio()
}
