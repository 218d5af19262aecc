package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/amrdb/internal/app"
)

var resfinderDir string

// refreshCmd applies a ResFinder database checkout to the catalog.
var refreshCmd = &cobra.Command{
	Use:     "refresh-catalog",
	Short:   "Refresh the ResFinder catalog from a database checkout",
	Example: "  amrdb refresh-catalog --resfinder-db ./resfinder_db",
	Aliases: []string{"refresh"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, app.Options{}, func(ctx context.Context, a *app.App) error {
			rep, err := a.RefreshCatalog(ctx, resfinderDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d updated, %d inserted, %d phenotypes, %d links (%d cleared), %d multi-class rows skipped\n",
				rep.Updated, rep.Inserted, rep.Phenotypes, rep.Links, rep.LinksCleared, rep.SkippedClasses)
			return nil
		})
	},
}

func init() {
	refreshCmd.Flags().StringVar(&resfinderDir, "resfinder-db", "", "directory holding *.fsa files and phenotypes.txt (path, gs:// or s3://)")
	_ = refreshCmd.MarkFlagRequired("resfinder-db")

	rootCmd.AddCommand(refreshCmd)
}
