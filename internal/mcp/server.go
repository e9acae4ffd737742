// Package mcp provides a Model Context Protocol server for stint.
// It exposes planning and validation operations as MCP tools that any
// MCP-capable agent can use. Tools are strictly read-only: the
// destructive Clockify import stays behind the CLI's --apply flag.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/stint/internal/config"
	"github.com/gorewood/stint/internal/workflow"
)

// Deps carries everything the tool handlers need. Store and AI may be
// nil: status then omits Clockify state and plan always uses the
// deterministic fallback.
type Deps struct {
	Config config.Config
	Source workflow.CommitSource
	Store  workflow.EntryStore
	AI     workflow.Synthesizer

	// Now is swapped out in tests.
	Now func() time.Time
}

// NewServer creates an MCP server with all stint tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "stint",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(true),
	}
}

// registerTools adds all stint tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan",
		Description: "Generate a work schedule for a natural-language date range without writing anything to Clockify. Returns the blocks, CSV, and validation reports.",
		Annotations: readOnlyAnnotations(),
	}, handlePlan(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "coverage",
		Description: "Validate a schedule CSV against the configured work policy: daily totals, overlaps, and weekly distribution.",
		Annotations: readOnlyAnnotations(),
	}, handleCoverage(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show the current configuration and reporting state: repository, model, Clockify workspace, last entry date, and business days behind.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(deps))
}
