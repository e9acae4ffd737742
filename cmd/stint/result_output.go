// Package main provides the entry point for the stint CLI.
package main

import (
	"fmt"
	"strconv"

	"github.com/gorewood/stint/internal/daterange"
	"github.com/gorewood/stint/internal/export"
	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/workflow"
)

// finishRun is the shared tail of plan and report: optional file
// export, JSON or human output, and exit-code mapping.
func finishRun(printer *output.Printer, res workflow.Result, outPath string) error {
	if outPath != "" {
		if err := export.WriteFile(res, outPath); err != nil {
			printer.Error(err)
			return err
		}
	}

	if printer.IsJSON() {
		if err := export.FormatJSON(printer, res); err != nil {
			return err
		}
		if !res.Success {
			return output.NewSystemError(res.Message)
		}
		return nil
	}

	printRunResult(printer, res)
	if !res.Success {
		return output.NewSystemError(res.Message)
	}
	if outPath != "" {
		printer.Print("\nWrote %s\n", outPath)
	}
	return nil
}

// printRunResult renders a run result for humans: the schedule table,
// validation summary, and any warnings.
func printRunResult(printer *output.Printer, res workflow.Result) {
	printer.Section("Schedule " + daterange.FormatRange(res.Range))
	printer.KeyValue("Strategy", strategyName(res.UsedFallback))
	printer.KeyValue("Commits", strconv.Itoa(res.CommitCount))

	if len(res.Blocks) > 0 {
		printer.Println()
		rows := make([][]string, 0, len(res.Blocks))
		for _, block := range res.Blocks {
			rows = append(rows, []string{
				daterange.DayKey(block.Date),
				block.Start + "-" + block.End,
				block.Description,
				block.ProjectName,
			})
		}
		printer.Table([]string{"DATE", "TIME", "DESCRIPTION", "PROJECT"}, rows)
	}

	printer.Section("Validation")
	printer.KeyValue("Daily coverage", coverageLine(res.Coverage.Valid, res.Coverage.ActualHours, res.Coverage.ExpectedHours))
	for _, issue := range res.Coverage.DailyIssues {
		printer.Print("  %s\n", issue)
	}
	printer.KeyValue("Weekly distribution", validName(res.Weekly.Valid))
	for _, problem := range res.Weekly.Problems {
		printer.Print("  %s\n", problem)
	}

	if res.Deleted > 0 || res.Imported > 0 {
		printer.Section("Clockify")
		printer.KeyValue("Deleted", strconv.Itoa(res.Deleted))
		printer.KeyValue("Imported", strconv.Itoa(res.Imported))
	}

	for _, warning := range res.Warnings {
		printer.Warn("%s", warning)
	}

	printer.Println()
	printer.Println(res.Message)
}

func strategyName(usedFallback bool) string {
	if usedFallback {
		return "deterministic fallback"
	}
	return "model synthesis"
}

func validName(valid bool) string {
	if valid {
		return "ok"
	}
	return "issues"
}

func coverageLine(valid bool, actual, expected float64) string {
	return fmt.Sprintf("%s (%gh of %gh)", validName(valid), actual, expected)
}
