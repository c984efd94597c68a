package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an activity by ID",
		Run:   runRemove,
	}

	cmd.Flags().Int64P("id", "i", 0, "ID of the activity to remove")
	cmd.MarkFlagRequired("id")

	RootCmd.AddCommand(cmd)
}

func runRemove(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetInt64("id")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	activity, err := s.Get(cmd.Context(), id)
	if err != nil {
		exitErr("remove", err)
	}
	if activity == nil {
		fmt.Printf("No activity found with ID %d.\n", id)
		return
	}

	fmt.Printf("About to delete: #%d | %s | %dm | Q%d | %s\n",
		activity.ID,
		activity.ActivityTimestamp.Format("2006-01-02 15:04"),
		activity.DurationMinutes,
		activity.Quadrant,
		activity.Description)
	fmt.Print("Are you sure? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer != "y" && answer != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	removed, err := s.Remove(cmd.Context(), id)
	if err != nil {
		exitErr("remove", err)
	}
	if !removed {
		fmt.Printf("Activity %d was already gone.\n", id)
		return
	}
	fmt.Printf("Removed activity %d.\n", id)
}
