package cli

import (
	"fmt"

	"trackbot/internal/store"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activities",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 10, "Number of activities to show")
	cmd.Flags().StringP("sort-by", "s", "id", "Sort order: id, added, or event")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	sortBy, _ := cmd.Flags().GetString("sort-by")

	var key store.SortKey
	switch sortBy {
	case "id":
		key = store.SortByID
	case "added":
		key = store.SortByAdded
	case "event":
		key = store.SortByEvent
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown sort order %q (use id, added, or event)\n", sortBy)
		exitErr("list", fmt.Errorf("invalid --sort-by value"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	activities, err := s.List(cmd.Context(), limit, key)
	if err != nil {
		exitErr("list", err)
	}

	fmt.Print(formatTable(activities))
}
