// Package main provides the entry point for the stint CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	stintmcp "github.com/gorewood/stint/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run stint as a Model Context Protocol (MCP) server over stdio.

This exposes stint operations as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "stint": {
        "command": "stint",
        "args": ["serve"]
      }
    }
  }

Available tools: plan, coverage, status. All tools are read-only; the
Clockify import stays behind 'stint report --apply'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := serveDeps(cmd)
			if err != nil {
				return err
			}
			server := stintmcp.NewServer(buildVersion(), deps)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// serveDeps wires the MCP tool dependencies. Unconfigured integrations
// are left nil rather than failing startup: the agent still gets the
// tools that do work, and the rest report their own errors.
func serveDeps(cmd *cobra.Command) (stintmcp.Deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return stintmcp.Deps{}, err
	}
	deps := stintmcp.Deps{Config: cfg}

	if source, err := newCommitSource(); err == nil {
		deps.Source = source
	}
	if store, err := newEntryStore(cfg); err == nil {
		deps.Store = store
	}
	if strategy, _, err := newSynthesizer(cmd.Context(), cfg); err == nil {
		deps.AI = strategy
	}
	return deps, nil
}
