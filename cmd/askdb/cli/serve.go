package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/server"
	"github.com/askdb/askdb/internal/service"
)

const banner = `
           _       _ _
  __ _ ___| | ____| | |__
 / _' / __| |/ / _' | '_ \
| (_| \__ \   < (_| | |_) |
 \__,_|___/_|\_\__,_|_.__/
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the askdb HTTP server",
		Long: `Start the HTTP server. GET /person?q=<request> runs the request through
the model and returns the matching rows as JSON.`,
		Example: `  askdb serve
  askdb serve --port 9090 --config /etc/askdb/askdb.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var hostOverride *string
			var portOverride *int
			if cmd.Flags().Changed("host") {
				hostOverride = &host
			}
			if cmd.Flags().Changed("port") {
				portOverride = &port
			}
			return runServe(cmd.Context(), hostOverride, portOverride)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port (overrides server.port)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host (overrides server.host)")

	return cmd
}

func runServe(ctx context.Context, host *string, port *int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	cfg := p.cfg
	if host != nil {
		cfg.Server.Host = *host
	}
	if port != nil {
		cfg.Server.Port = *port
	}

	authSvc := service.NewAuthService(cfg.Auth.JWTSecret)
	if !authSvc.Enabled() {
		p.logger.Warn("auth.jwt_secret is empty; /person is open to anyone who can reach it")
	}

	srv := server.New(server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: mustDurationOr(cfg.Server.ShutdownTimeout, server.DefaultConfig().ShutdownTimeout),
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
		Version:         versionString(),
	}, p.conn, p.querySvc, authSvc, p.logger)

	pterm.Print(banner)
	pterm.Println()
	base := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	pterm.Printf("→ askdb %s\n", versionString())
	pterm.Printf("→ Database:  %s (table %s)\n", p.conn.DriverName(), p.querySvc.Table())
	pterm.Printf("→ Model:     %s\n", cfg.OpenAI.Model)
	pterm.Printf("→ Query:     %s/person?q=...\n", base)
	pterm.Printf("→ OpenAPI:   %s/openapi.json\n", base)
	pterm.Printf("→ Metrics:   %s/metrics\n", base)
	pterm.Println()

	return srv.ListenAndServe()
}
