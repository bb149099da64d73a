package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/askdb/askdb/internal/prompt"
	"github.com/askdb/askdb/internal/service"
)

const (
	toolQuery          = "askdb_query"
	toolDescribeSchema = "askdb_describe_schema"
)

func (s *MCPServer) registerTools(srv *server.MCPServer) {
	srv.AddTool(
		mcp.NewTool(toolQuery,
			mcp.WithDescription(
				"Answer a natural-language question about people by translating it to SQL "+
					"with a language model and running it. Returns the matching rows as JSON. "+
					"Set sql_only to see the generated SQL without running it.",
			),
			mcp.WithToolAnnotation(queryAnnotation()),
			mcp.WithString("request",
				mcp.Required(),
				mcp.Description("The question, e.g. \"everyone whose last name is Miller\""),
			),
			mcp.WithBoolean("sql_only",
				mcp.Description("Return the generated SQL instead of executing it"),
			),
		),
		s.handleQuery,
	)

	srv.AddTool(
		mcp.NewTool(toolDescribeSchema,
			mcp.WithDescription(
				"Show the table columns and types the language model is given, and the "+
					"exact schema description embedded in its prompt.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleDescribeSchema,
	)
}

func (s *MCPServer) handleQuery(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	req, err := requireString(request, "request")
	if err != nil {
		return toolError("%v", err)
	}

	if optionalBool(request, "sql_only") {
		t, err := s.pipeline.Translate(ctx, req)
		if err != nil {
			return s.pipelineError(ctx, err)
		}
		return successJSON(map[string]interface{}{
			"sql":   t.SQL,
			"model": t.Model,
		})
	}

	people, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return s.pipelineError(ctx, err)
	}
	return successJSON(map[string]interface{}{
		"resource": people,
		"meta":     map[string]interface{}{"count": len(people)},
	})
}

func (s *MCPServer) handleDescribeSchema(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	groups, err := s.pipeline.Describe(ctx)
	if err != nil {
		return s.pipelineError(ctx, err)
	}
	return successJSON(map[string]interface{}{
		"table":       s.pipeline.Table(),
		"tables":      groups,
		"description": prompt.DescribeTables(groups),
	})
}

// pipelineError reports the failure kind to the agent. Invalid requests get
// the underlying reason so the agent can rephrase.
func (s *MCPServer) pipelineError(ctx context.Context, err error) (*mcp.CallToolResult, error) {
	kind := service.KindOf(err)
	var e *service.Error
	if kind == service.KindInvalidRequest && errors.As(err, &e) {
		return toolError("Invalid request: %v", e.Err)
	}
	s.logger.DebugContext(ctx, "mcp tool failed", "kind", kind, "error", err)
	return toolError("%s (%s)", service.PublicMessage, kind)
}
