package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/observability"
	"github.com/cory-johannsen/colonybot/internal/storage/postgres"
)

func newMigrateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL character store schema",
		Long: `Apply, revert, or inspect the character store schema. Connection settings
come from the config file and COLONY_DATABASE_* environment variables.`,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")

	// run opens a migrator for configPath and hands it to fn.
	run := func(fn func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Sync()
			m, err := postgres.NewMigrator(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd, m)
		}
	}
	report := func(cmd *cobra.Command, v postgres.SchemaVersion) {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %s\n", v)
	}

	var upSteps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, err := m.Up(upSteps)
			if err == nil {
				report(cmd, v)
			}
			return err
		}),
	}
	up.Flags().IntVar(&upSteps, "steps", 0, "number of migrations to apply (0 = all)")

	var (
		downSteps int
		downAll   bool
	)
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if downAll == (downSteps > 0) {
				return errors.New("give exactly one of --steps N or --all")
			}
			return nil
		},
		RunE: run(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, err := m.Down(downSteps, downAll)
			if err == nil {
				report(cmd, v)
			}
			return err
		}),
	}
	down.Flags().IntVar(&downSteps, "steps", 0, "number of migrations to revert")
	down.Flags().BoolVar(&downAll, "all", false, "revert every migration, dropping all characters")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, m *postgres.Migrator) error {
			v, err := m.Version()
			if err == nil {
				report(cmd, v)
			}
			return err
		}),
	}

	var forced int
	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied after repairing a failed migration",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("version must be a non-negative integer, got %q", args[0])
			}
			forced = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(cmd *cobra.Command, m *postgres.Migrator) error {
				return m.Force(forced)
			})(cmd, args)
		},
	}

	cmd.AddCommand(up, down, version, force)
	return cmd
}
