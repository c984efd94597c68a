package cli

import (
	"fmt"
	"strings"

	"trackbot/internal/track"
)

// formatTable renders activities as an aligned text table.
func formatTable(activities []track.Activity) string {
	if len(activities) == 0 {
		return "No activities found."
	}

	headers := []string{"ID", "When", "Dur", "Q", "Description", "Tags"}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			a.ActivityTimestamp.Format("2006-01-02 15:04"),
			fmt.Sprintf("%dm", a.DurationMinutes),
			fmt.Sprintf("%d", a.Quadrant),
			a.Description,
			strings.Join(a.Tags, ","),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
