package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/stint/internal/output"
	"github.com/gorewood/stint/internal/workflow"
)

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := output.NewPrinter(&buf, true, false)

	if err := FormatJSON(printer, testResult()); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var decoded workflow.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if !decoded.Success || decoded.CommitCount != 3 || len(decoded.Blocks) != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		wantContains string
	}{
		{"csv by extension", "week.csv", "date,start,end,description,project_name,task_name,billable"},
		{"json by extension", "week.json", `"success": true`},
		{"markdown by extension", "week.md", "# Work report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			if err := WriteFile(testResult(), path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.wantContains) {
				t.Errorf("file missing %q:\n%s", tt.wantContains, data)
			}
		})
	}
}

func TestWriteFile_UnsupportedExtension(t *testing.T) {
	err := WriteFile(testResult(), filepath.Join(t.TempDir(), "week.xlsx"))
	if err == nil {
		t.Fatal("want error for unsupported extension")
	}
	if output.GetExitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1 (user error)", output.GetExitCode(err))
	}
	if !strings.Contains(err.Error(), ".xlsx") {
		t.Errorf("error = %v, want extension named", err)
	}
}
