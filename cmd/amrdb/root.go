package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/amrdb/internal/app"
)

var configPath string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "amrdb",
	Short: "Reconcile antimicrobial resistance detections into a shared catalog",
	Long: `amrdb stores ResFinder, AMRFinderPlus and PointFinder results against a
catalog of reference sequences. Near-identical hits are registered as
provisional variants, and the catalog can be refreshed from a ResFinder
database checkout.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults to $AMRDB_CONFIG, then built-in defaults)")
}

// withApp bootstraps the app for one command and tears it down afterwards.
// SIGINT/SIGTERM cancel the command context.
func withApp(cmd *cobra.Command, opts app.Options, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts.ConfigPath = configPath
	a, err := app.New(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
