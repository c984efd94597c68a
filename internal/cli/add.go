package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trackbot/internal/track"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity",
		Run:   runAdd,
	}

	cmd.Flags().StringP("when", "w", "", "When the activity happened (default: now)")
	cmd.Flags().IntP("duration", "d", 0, "Duration in minutes")
	cmd.Flags().IntP("quadrant", "q", 0, "Eisenhower quadrant (1-4)")
	cmd.Flags().StringP("desc", "D", "", "Description of the activity")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags (e.g., 'work,coding,focus')")

	cmd.MarkFlagRequired("duration")
	cmd.MarkFlagRequired("quadrant")
	cmd.MarkFlagRequired("desc")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	when, _ := cmd.Flags().GetString("when")
	duration, _ := cmd.Flags().GetInt("duration")
	quadrant, _ := cmd.Flags().GetInt("quadrant")
	desc, _ := cmd.Flags().GetString("desc")
	tags, _ := cmd.Flags().GetString("tags")

	activity, err := track.Validate(track.RawFields{
		When:        when,
		Duration:    strconv.Itoa(duration),
		Quadrant:    strconv.Itoa(quadrant),
		Description: desc,
		Tags:        tags,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		if errors.Is(err, track.ErrBadQuadrant) {
			printQuadrantHelp()
		}
		exitErr("add", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.Add(cmd.Context(), activity)
	if err != nil {
		exitErr("add", err)
	}

	fmt.Printf("Logged #%d: Q%d | %dm | %s\n", id, activity.Quadrant, activity.DurationMinutes, activity.Description)
	if len(activity.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(activity.Tags, ","))
	}
	fmt.Printf("  When: %s\n", activity.ActivityTimestamp.Format("2006-01-02 15:04"))
}
