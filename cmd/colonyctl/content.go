package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/colonybot/internal/game/content"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect the game corpus",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [dir]",
		Short: "Load the corpus and report its table sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "content"
			if len(args) == 1 {
				dir = args[0]
			}
			corpus, err := content.Load(dir)
			if err != nil {
				return fmt.Errorf("corpus %s is invalid: %w", dir, err)
			}
			s := corpus.Stats()
			fmt.Fprintf(cmd.OutOrStdout(),
				"corpus %s ok: %d careers, %d talents, %d skills, %d factions, %d weapons, %d wearables\n",
				dir, s.Careers, s.Talents, s.Skills, s.Factions, s.Weapons, s.Wearables)
			return nil
		},
	})
	return cmd
}
