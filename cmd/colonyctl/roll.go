package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/colonybot/internal/game/dice"
)

func newRollCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "roll <NdM [x K]>",
		Short: "Roll a dice expression",
		Long: `Roll N dice with M sides and multiply the sum by K.

  Example: colonyctl roll 2d6 x 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src dice.Source = dice.NewCryptoSource()
			if cmd.Flags().Changed("seed") {
				src = dice.NewSeededSource(seed)
			}
			r, err := dice.RollExpr(strings.Join(args, " "), src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a repeatable roll")
	return cmd
}
