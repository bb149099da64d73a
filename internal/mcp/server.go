// Package mcp exposes the natural-language query pipeline as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/schema"
	"github.com/askdb/askdb/internal/service"
)

// Pipeline is the part of service.QueryService the tools need.
type Pipeline interface {
	Run(ctx context.Context, request string) ([]model.Person, error)
	Translate(ctx context.Context, request string) (*service.Translation, error)
	Describe(ctx context.Context) ([]schema.TableGroup, error)
	Table() string
}

// MCPServer wraps the mcp-go server with the askdb tools and resources.
type MCPServer struct {
	pipeline Pipeline
	logger   *slog.Logger
	server   *server.MCPServer
}

// NewMCPServer creates an MCPServer ready to serve over stdio or HTTP.
func NewMCPServer(pipeline Pipeline, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MCPServer{
		pipeline: pipeline,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"askdb",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go server.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio serves MCP over stdin/stdout for clients that launch askdb as a
// subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP serves MCP over Streamable HTTP on addr (e.g. ":3001").
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

// The generated SQL is executed unchecked, so the query tool is not marked
// read-only.
func queryAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(true),
	}
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
