package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/colonybot/internal/frontend/handlers"
	"github.com/cory-johannsen/colonybot/internal/storage/jsonfile"
)

func newCharactersCmd() *cobra.Command {
	var (
		path  string
		sheet bool
	)
	cmd := &cobra.Command{
		Use:   "characters <user-id>",
		Short: "List a user's characters from the JSON store",
		Long: `List the characters stored for a user ID such as telnet:ripley or
telegram:12345. With --sheet every character sheet is printed in full.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := jsonfile.Open(path)
			if err != nil {
				return err
			}
			ctx := context.Background()
			list, err := store.Characters(ctx, args[0])
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no characters for %s\n", args[0])
				return nil
			}
			primaryID := ""
			if p, err := store.Primary(ctx, args[0]); err == nil {
				primaryID = p.ID
			}
			fmt.Fprintln(cmd.OutOrStdout(), handlers.FormatCharacterList(list, primaryID))
			if sheet {
				for _, c := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", c.Sheet())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "store", "data/characters.json", "path to the JSON character store")
	cmd.Flags().BoolVar(&sheet, "sheet", false, "print full character sheets")
	return cmd
}
