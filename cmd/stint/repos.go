// Package main provides the entry point for the stint CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/stint/internal/output"
)

// newReposCmd creates the repos command.
func newReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List accessible GitHub repositories",
		Long: `List the GitHub repositories the configured token can read.

Covers personal repositories and every organization the token belongs
to. Use the full_name column as the repo value in config.yml.

Examples:
  stint repos          # Human-readable table
  stint repos --json   # Output as JSON for scripting`,
		RunE: runRepos,
	}
}

// runRepos executes the repos command.
func runRepos(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	source, err := newCommitSource()
	if err != nil {
		printer.Error(err)
		return err
	}

	repos, err := source.Repos(cmd.Context())
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"count": len(repos),
			"repos": repos,
		})
	}

	if len(repos) == 0 {
		printer.Println("No repositories accessible with this token.")
		return nil
	}

	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		visibility := "public"
		if repo.Private {
			visibility = "private"
		}
		org := repo.Organization
		if org == "" {
			org = "-"
		}
		rows = append(rows, []string{repo.FullName, visibility, org})
	}
	printer.Table([]string{"REPOSITORY", "VISIBILITY", "ORGANIZATION"}, rows)
	return nil
}
