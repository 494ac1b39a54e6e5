package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/extcheck/internal/report"
)

// ToolName is the name clients call the check by.
const ToolName = "extcheck_used_extensions"

// ReportChecker runs the extension check for a path.
type ReportChecker interface {
	Check(ctx context.Context, path string) (*report.Report, error)
}

// AddUsedExtensionsTool registers the extcheck_used_extensions tool with an MCP server.
func AddUsedExtensionsTool(s *server.MCPServer, checker ReportChecker) {
	tool := mcp.NewTool(
		ToolName,
		mcp.WithDescription("List the PHP extensions loaded in the configured catalogue and the ones the PHP code under a directory uses. Returns JSON with loaded, used and used_non_core extension names."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to scan, e.g. '/srv/app/src'")),
		mcp.WithBoolean("non_core_only",
			mcp.Description("Report only extensions that are not bundled with every PHP build in the 'used' list (default: false)")),
	)

	s.AddTool(tool, createUsedExtensionsHandler(checker))
}

// createUsedExtensionsHandler creates the handler function for the tool.
func createUsedExtensionsHandler(checker ReportChecker) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		nonCoreOnly, err := parseBoolArg(argsMap, "non_core_only", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		r, err := checker.Check(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("check failed: %w", err)
		}

		if nonCoreOnly {
			r = r.NonCoreOnly()
		}

		return marshalToolResponse(r)
	}
}
