package types

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatCollected renders the answers gathered so far as a markdown table
// for inclusion in generative prompts.
func FormatCollected(order []string, collected map[string]*CollectedValue) string {
	if len(collected) == 0 {
		return "No previous responses."
	}
	var buf strings.Builder
	buf.WriteString("# Collected so far:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value", "Notes")
	for _, id := range order {
		cv, ok := collected[id]
		if !ok {
			continue
		}
		_ = table.Append(id, FormatValue(cv.Value), strings.Join(cv.Notes, "; "))
	}
	_ = table.Render()
	return buf.String()
}

// FormatValue renders a collected value for prompts and sinks. Structured
// values go through JSON so numbers and booleans keep their literal form.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		if b, err := sonic.Marshal(val); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", val)
	}
}
