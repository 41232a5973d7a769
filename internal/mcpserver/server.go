// Package mcpserver exposes the facade as an MCP stdio server via
// github.com/mark3labs/mcp-go. Three tools mirror the facade's query
// surface: list_pairings, contingency_table, and rows_for_pairing.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/adtree/internal/facade"
)

// New builds an MCP server backed by f, ready to Serve over stdio.
func New(f *facade.Facade) *server.MCPServer {
	s := server.NewMCPServer("adtree", "1.0.0")

	s.AddTool(mcp.NewTool("list_pairings",
		mcp.WithDescription("List the top-ranked attribute-value pairings for a subset arity level"),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("subset arity (2, 3, ...)")),
	), listPairingsHandler(f))

	s.AddTool(mcp.NewTool("contingency_table",
		mcp.WithDescription("Return the sparse contingency table for an arbitrary attribute subset"),
		mcp.WithArray("subset", mcp.Required(), mcp.Description("1-indexed attribute numbers")),
	), contingencyTableHandler(f))

	s.AddTool(mcp.NewTool("rows_for_pairing",
		mcp.WithDescription("Return the row indices matching a reported pairing's full modality assignment"),
		mcp.WithNumber("level", mcp.Required(), mcp.Description("the pairing's level")),
		mcp.WithNumber("rank", mcp.Required(), mcp.Description("the pairing's 1-indexed rank within that level")),
	), rowsForPairingHandler(f))

	return s
}

// Serve runs s over stdio until the client disconnects or ctx is canceled.
func Serve(ctx context.Context, s *server.MCPServer) error {
	return server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
}

func listPairingsHandler(f *facade.Facade) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, ok := intArg(req, "level")
		if !ok {
			return mcp.NewToolResultError("level must be an integer"), nil
		}
		pairings := f.Pairings(level)
		b, err := json.Marshal(pairings)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func contingencyTableHandler(f *facade.Facade) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, ok := req.GetArguments()["subset"].([]any)
		if !ok {
			return mcp.NewToolResultError("subset must be an array of attribute numbers"), nil
		}
		subset := make([]int, 0, len(raw))
		for _, v := range raw {
			n, ok := v.(float64)
			if !ok {
				return mcp.NewToolResultError("subset entries must be numbers"), nil
			}
			subset = append(subset, int(n))
		}
		table, err := f.Contingency(subset)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		b, err := json.Marshal(table.Entries())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func rowsForPairingHandler(f *facade.Facade) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, ok := intArg(req, "level")
		if !ok {
			return mcp.NewToolResultError("level must be an integer"), nil
		}
		rank, ok := intArg(req, "rank")
		if !ok {
			return mcp.NewToolResultError("rank must be an integer"), nil
		}
		pairings := f.Pairings(level)
		idx := rank - 1
		if idx < 0 || idx >= len(pairings) {
			return mcp.NewToolResultError(fmt.Sprintf("no pairing at level %d rank %d", level, rank)), nil
		}
		rows := f.RowsForPairing(pairings[idx])
		b, err := json.Marshal(rows)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}

func intArg(req mcp.CallToolRequest, key string) (int, bool) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
