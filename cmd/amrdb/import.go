package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/amrdb/internal/app"
)

var (
	importReq        app.ImportRequest
	importExternalID int64
)

// importCmd reconciles one normalized tool output.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Reconcile a normalized tool output into the database",
	Long: `Import a tab-separated batch whose header uses the canonical column names.
All result rows of the batch are committed together or not at all; an audit
row is recorded either way.`,
	Example: "  amrdb import --tool resfinder --input results.tsv --assembly contigs.fasta --sample S1",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("external-id") {
			id := importExternalID
			importReq.ExternalID = &id
		}
		return withApp(cmd, app.Options{}, func(ctx context.Context, a *app.App) error {
			rep, err := a.Import(ctx, importReq)
			if rep != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d rows, %d sequence results, %d mutation results, %d new variants, %d orientation mismatches, %d hash fallbacks\n",
					rep.RunID, rep.Rows, rep.SequenceResults, rep.MutationResults, rep.VariantsAdded, rep.Mismatches, rep.CollisionFallbacks)
			}
			return err
		})
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importReq.Tool, "tool", "", "producing tool: resfinder, amrfinder or pointfinder")
	f.StringVar(&importReq.Input, "input", "", "normalized TSV (path, gs:// or s3://; may be gzipped)")
	f.StringVar(&importReq.Assembly, "assembly", "", "assembly FASTA the tool ran on")
	f.StringVar(&importReq.InputType, "input-type", "fasta", "input modality: fasta or fastq")
	f.StringVar(&importReq.SampleName, "sample", "", "sample name")
	f.Int64Var(&importExternalID, "external-id", 0, "external sample identifier")
	f.StringVar(&importReq.ToolVersion, "tool-version", "", "tool version")
	f.StringVar(&importReq.DBVersion, "db-version", "", "reference database version")
	_ = importCmd.MarkFlagRequired("tool")
	_ = importCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(importCmd)
}
