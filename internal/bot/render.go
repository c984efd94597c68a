package bot

import (
	"fmt"
	"strings"

	"trackbot/internal/track"
)

// Discord rejects messages above 4000 characters.
const maxMessageLen = 4000

func formatLogged(id int64, a track.Activity) string {
	tags := "none"
	if len(a.Tags) > 0 {
		tags = strings.Join(a.Tags, ", ")
	}
	return fmt.Sprintf("Logged: #%d | Q%d | %dm | %s | tags: %s | when: %s",
		id, a.Quadrant, a.DurationMinutes, a.Description, tags,
		a.ActivityTimestamp.Format("2006-01-02 15:04"))
}

func formatActivityList(activities []track.Activity) string {
	if len(activities) == 0 {
		return "No activities found."
	}
	var lines []string
	for _, a := range activities {
		line := fmt.Sprintf("- %d | %s | %dm | Q%d | %s",
			a.ID, a.ActivityTimestamp.Format("2006-01-02 15:04"),
			a.DurationMinutes, a.Quadrant, a.Description)
		if len(a.Tags) > 0 {
			line += " | tags: " + strings.Join(a.Tags, ",")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatDeletePrompt(a track.Activity) string {
	return fmt.Sprintf("Are you sure you want to delete event %d - %s, %dm, %s? Reply yes or no.",
		a.ID, a.ActivityTimestamp.Format("2006-01-02 15:04"), a.DurationMinutes, a.Description)
}

func truncateMessage(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return strings.TrimRight(s[:maxMessageLen], " \n") + "\n...truncated"
}
