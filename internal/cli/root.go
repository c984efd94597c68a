// Package cli implements the track CLI, the offline surface over the
// activity store.
package cli

import (
	"fmt"
	"os"

	"trackbot/internal/config"
	"trackbot/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "track",
	Short: "Track activities with the Eisenhower matrix",
	Long:  "Log, list, search, and remove activity records. Shares the activity store with the check-in bot.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")
}

func openStore() (*store.Postgres, error) {
	// .env is optional; the config file carries the placeholders.
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	return store.NewPostgres(cfg.Database)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printQuadrantHelp() {
	fmt.Println("  1 = Urgent & Important (Do)")
	fmt.Println("  2 = Not Urgent & Important (Schedule)")
	fmt.Println("  3 = Urgent & Not Important (Delegate)")
	fmt.Println("  4 = Not Urgent & Not Important (Eliminate)")
}
