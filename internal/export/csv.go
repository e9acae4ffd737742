// Package export provides formatting and output for generated schedules.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/schedule"
)

// csvHeader is the export header. Snake_case and quoted fields, unlike
// the synthesis wire format, because this output is for spreadsheets.
var csvHeader = []string{"date", "start", "end", "description", "project_name", "task_name", "billable"}

// FormatCSV renders blocks as an RFC 4180 CSV document.
func FormatCSV(blocks []schedule.Block) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", output.NewSystemError(fmt.Sprintf("failed to write CSV header: %v", err))
	}
	for _, block := range blocks {
		record := []string{
			block.Date.Format("2006-01-02"),
			block.Start,
			block.End,
			block.Description,
			block.ProjectName,
			block.TaskName,
			strconv.FormatBool(block.Billable),
		}
		if err := w.Write(record); err != nil {
			return "", output.NewSystemError(fmt.Sprintf("failed to write CSV record: %v", err))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", output.NewSystemError(fmt.Sprintf("failed to flush CSV: %v", err))
	}
	return b.String(), nil
}
