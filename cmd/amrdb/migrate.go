package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/amrdb/internal/app"
)

// migrateCmd creates or updates the schema. Every other command migrates on
// start as well; this one does nothing else.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{}, func(ctx context.Context, a *app.App) error {
			a.Log.Info("schema up to date", "driver", a.Cfg.Database.Driver)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
