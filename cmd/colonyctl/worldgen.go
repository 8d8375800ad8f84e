package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/worldgen"
)

func newWorldgenCmd() *cobra.Command {
	var (
		seed       int64
		contentDir string
	)
	cmd := &cobra.Command{
		Use:   "worldgen",
		Short: "Generate and print a star system",
		Long: `Generate a star system and print it as a tree. Without --seed a random
seed is chosen and printed so the system can be regenerated.

  Example: colonyctl worldgen --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = int64(dice.NewCryptoSource().Intn(1 << 31))
			}
			var factions []string
			if contentDir != "" {
				corpus, err := content.Load(contentDir)
				if err != nil {
					return fmt.Errorf("loading content: %w", err)
				}
				factions = corpus.FactionNames()
			}
			sys := worldgen.New(dice.NewSeededSource(seed), factions, zap.NewNop()).Generate()
			fmt.Fprintln(cmd.OutOrStdout(), worldgen.Render(sys))
			fmt.Fprintf(cmd.OutOrStdout(), "Seed: %d\n", seed)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed")
	cmd.Flags().StringVar(&contentDir, "content", "content", "corpus directory for colony factions (empty for built-in names)")
	return cmd
}
