package main

import (
	"github.com/spf13/cobra"

	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/database"
)

type migrateOptions struct {
	mode      string
	seedAdmin bool
}

var migrateOpts = &migrateOptions{}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate database schema",
	Long: `Migrate database schema.
auto only adds missing tables and columns, drop recreates every table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, db, err := openDB()
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(db, migrateOpts.mode); err != nil {
			return err
		}
		if migrateOpts.seedAdmin {
			return database.EnsureAdmin(db, config.GetConfig().DefaultAdminPassword)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateOpts.mode, "mode", database.MigrationAuto, "migration mode: auto|drop")
	migrateCmd.Flags().BoolVar(&migrateOpts.seedAdmin, "seed-admin", true, "create the admin account when missing")
}
