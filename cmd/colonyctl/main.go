// Package main is colonyctl, an offline tool for the colony bot's dice,
// star systems, stored characters, content corpus and database schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "colonyctl",
		Short: "Colony bot maintenance tool",
		Long: `colonyctl runs the colony bot's generators and store queries from the shell,
without connecting to Telnet or Telegram.`,
		SilenceUsage: true,
	}
	root.AddCommand(newWorldgenCmd())
	root.AddCommand(newRollCmd())
	root.AddCommand(newCharactersCmd())
	root.AddCommand(newContentCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
