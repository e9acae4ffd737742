package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/workflow"
)

// FormatJSON outputs the run result to the printer as JSON.
func FormatJSON(printer *output.Printer, result workflow.Result) error {
	return printer.WriteJSON(result)
}

// WriteFile writes the result to path, picking the format from the
// extension: .csv for the block listing, .json for the full result,
// .md for the markdown report.
func WriteFile(result workflow.Result, path string) error {
	var content string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		csv, err := FormatCSV(result.Blocks)
		if err != nil {
			return err
		}
		content = csv
	case ".json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return output.NewSystemError(fmt.Sprintf("failed to marshal result: %v", err))
		}
		content = string(data) + "\n"
	case ".md":
		content = FormatMarkdown(result)
	default:
		return output.NewUserError(fmt.Sprintf("unsupported export format %q: use .csv, .json, or .md", filepath.Ext(path)))
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return output.NewSystemError(fmt.Sprintf("failed to write file %s: %v", path, err))
	}
	return nil
}
