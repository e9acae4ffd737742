// Package export provides formatting and file output for generated
// schedules and run results.
//
// # Supported Formats
//
// The package supports three output formats:
//
//   - CSV: spreadsheet-friendly block listing with snake_case headers
//   - JSON: machine-readable format preserving the full run result
//   - Markdown: human-readable report with YAML frontmatter
//
// # CSV Export
//
// CSV export differs from the synthesis wire format on purpose: headers
// are snake_case and fields are properly quoted, so commas in
// descriptions survive a round trip through a spreadsheet.
//
//	csv, err := export.FormatCSV(result.Blocks)
//	err = export.WriteFile(result, "week.csv")
//
// # JSON Export
//
// JSON export preserves the complete run result: blocks, coverage and
// weekly validation, stage trace, and warnings.
//
//	export.FormatJSON(printer, result)      // Write to printer
//	export.WriteFile(result, "week.json")   // Write to a file
//
// # Markdown Export
//
// Markdown export creates a documentation-ready report:
//
//	markdown := export.FormatMarkdown(result)
//
// The markdown format includes:
//   - YAML frontmatter with schema, range, day and commit counts
//   - A per-day section listing every block with its hours
//   - A validation section summarizing coverage and weekly totals
//
// # File Dispatch
//
// WriteFile picks the format from the file extension: .csv writes the
// block listing, .json the full result, .md the markdown report.
package export
