package cli

import (
	"fmt"
	"strings"

	"trackbot/internal/store"
	"trackbot/internal/track"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search activities by tags, description, or quadrant",
		Run:   runSearch,
	}

	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags (any match)")
	cmd.Flags().StringP("desc", "D", "", "Description keywords (any match)")
	cmd.Flags().IntP("quadrant", "q", 0, "Eisenhower quadrant (1-4)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	tags, _ := cmd.Flags().GetString("tags")
	desc, _ := cmd.Flags().GetString("desc")
	quadrant, _ := cmd.Flags().GetInt("quadrant")

	f := store.Filter{
		Tags:     track.SplitTags(tags),
		Keywords: strings.Fields(desc),
		Quadrant: quadrant,
	}
	if f.Empty() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: provide at least one of --tags, --desc, or --quadrant")
		exitErr("search", fmt.Errorf("empty filter"))
	}
	if f.Quadrant != 0 {
		if _, ok := track.Quadrants[f.Quadrant]; !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid quadrant %d\n", f.Quadrant)
			printQuadrantHelp()
			exitErr("search", track.ErrBadQuadrant)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	activities, err := s.Search(cmd.Context(), f)
	if err != nil {
		exitErr("search", err)
	}

	fmt.Print(formatTable(activities))
}
