package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const schemaResourceURI = "askdb://schema"

func (s *MCPServer) registerResources(srv *server.MCPServer) {
	srv.AddResource(
		mcp.NewResource(
			schemaResourceURI,
			"Query Schema",
			mcp.WithResourceDescription(
				"Columns and types of the table natural-language requests are translated against.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handleSchemaResource,
	)
}

func (s *MCPServer) handleSchemaResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	groups, err := s.pipeline.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe schema: %w", err)
	}

	b, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemaResourceURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
