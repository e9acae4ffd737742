// Package main provides the entry point for the stint CLI.
package main

import (
	"context"
	"os"

	"github.com/gorewood/stint/internal/clockify"
	"github.com/gorewood/stint/internal/config"
	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/llm"
	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/synth"
)

// loadConfig reads the config files and applies environment overrides.
// Environment variables win so one-off runs can redirect without
// editing files.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if repo := os.Getenv("DEFAULT_GITHUB_REPO"); repo != "" {
		cfg.Repo = repo
	}
	if ws := os.Getenv("CLOCKIFY_WORKSPACE_ID"); ws != "" {
		cfg.Clockify.WorkspaceID = ws
	}
	if project := os.Getenv("CLOCKIFY_PROJECT_ID"); project != "" {
		cfg.Clockify.ProjectID = project
	}
	return cfg, nil
}

// githubToken returns the GitHub API token. GITHUB_TOKEN is the
// conventional name; GITHUB_API_KEY is accepted for older setups.
func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_API_KEY")
}

// newCommitSource builds the GitHub client, or a user error when no
// token is available.
func newCommitSource() (*github.Client, error) {
	token := githubToken()
	if token == "" {
		return nil, output.NewUserError("GITHUB_TOKEN is not set. Generate a token at https://github.com/settings/tokens")
	}
	return github.New(token), nil
}

// newEntryStore builds the Clockify client, or a user error when the
// key or workspace is missing.
func newEntryStore(cfg config.Config) (*clockify.Client, error) {
	apiKey := os.Getenv("CLOCKIFY_API_KEY")
	if apiKey == "" {
		return nil, output.NewUserError("CLOCKIFY_API_KEY is not set. Get one from https://clockify.me/user/settings")
	}
	if cfg.Clockify.WorkspaceID == "" {
		return nil, output.NewUserError("no Clockify workspace configured. Set clockify.workspace_id in config.yml or CLOCKIFY_WORKSPACE_ID")
	}
	return clockify.New(apiKey, cfg.Clockify.WorkspaceID, cfg.Clockify.ProjectID), nil
}

// newSynthesizer builds the model-backed strategy and resolves the
// model name. The resolved name is returned for display.
func newSynthesizer(ctx context.Context, cfg config.Config) (*synth.AIStrategy, string, error) {
	client, err := llm.New(cfg.Model, "")
	if err != nil {
		return nil, "", err
	}
	model := client.ResolveModel(ctx)
	return synth.NewAIStrategy(client), model, nil
}
