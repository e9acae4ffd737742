package schedule

import (
	"strings"
	"time"
)

// Header is the wire-format header row exchanged with the synthesis stage.
const Header = "date,start,end,description,projectName,taskName,billable"

// Parse canonicalizes raw synthesized schedule text into blocks.
//
// Parsing is best-effort by design: the text usually comes from a language
// model, so malformed lines are dropped silently rather than failing the
// whole schedule. The first non-empty line is treated as a header and
// discarded; lines starting with '#' are comments.
func Parse(raw string) []Block {
	var blocks []Block
	headerSeen := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		block, ok := parseLine(line)
		if ok {
			blocks = append(blocks, block)
		}
	}

	return blocks
}

// parseLine parses one data line. Lines with fewer than 6 comma-separated
// fields are rejected.
func parseLine(line string) (Block, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return Block{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return Block{}, false
	}

	project := parts[4]
	if project == "" {
		project = DefaultProject
	}
	task := parts[5]
	if task == "" {
		task = DefaultTask
	}

	// Billable defaults to true when the column is absent or empty; an
	// explicitly present value is true only for the literal "true".
	billable := true
	if len(parts) > 6 && parts[6] != "" {
		billable = strings.EqualFold(parts[6], "true")
	}

	return Block{
		Date:        date,
		Start:       parts[1],
		End:         parts[2],
		Description: cleanDescription(parts[3]),
		ProjectName: project,
		TaskName:    task,
		Billable:    billable,
		IsMeeting:   !billable && strings.EqualFold(task, MeetingTask),
	}, true
}

// cleanDescription strips one layer of matching enclosing quotes, then
// every remaining quote character. The generator is instructed to never
// emit quotes, but compliance is not guaranteed.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}

// Render serializes blocks back into the wire format, header included.
// Commas in descriptions would corrupt the naive comma-split wire format,
// so they are replaced with semicolons.
func Render(blocks []Block) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")

	for _, block := range blocks {
		billable := "false"
		if block.Billable {
			billable = "true"
		}
		fields := []string{
			block.Date.Format("2006-01-02"),
			block.Start,
			block.End,
			strings.ReplaceAll(block.Description, ",", ";"),
			block.ProjectName,
			block.TaskName,
			billable,
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	return b.String()
}
