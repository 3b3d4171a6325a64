package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// stringArg returns a trimmed string argument, or "" when absent.
func stringArg(request mcp.CallToolRequest, name string) string {
	s, _ := request.Params.Arguments[name].(string)
	return strings.TrimSpace(s)
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(request mcp.CallToolRequest, name string) (int, bool) {
	switch v := request.Params.Arguments[name].(type) {
	case float64:
		return int(v), v == float64(int(v))
	case int:
		return v, true
	default:
		return 0, false
	}
}

func floatArg(request mcp.CallToolRequest, name string) (*float64, bool) {
	v, ok := request.Params.Arguments[name].(float64)
	if !ok {
		return nil, false
	}
	return &v, true
}

// splitList splits a comma-separated argument, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// jsonResult serializes v as the text of a tool result.
func jsonResult(v any, what string) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err))
	}
	return mcp.NewToolResultText(string(b))
}
