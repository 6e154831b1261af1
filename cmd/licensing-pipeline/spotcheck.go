package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/pdf"
	"github.com/mcyj/licensing-pipeline/internal/shard"
	"github.com/mcyj/licensing-pipeline/internal/spotcheck"
)

var spotcheckCmd = &cobra.Command{
	Use:   "spotcheck",
	Short: "Re-verify stored document text against the source PDFs",
	Long: "Sample stored documents whose source PDF is still present in the\n" +
		"archive, re-extract each one and compare it page by page with the\n" +
		"text the store holds. Any mismatch fails the command.",
	RunE: runSpotcheck,
}

var spotcheckSample int

func init() {
	spotcheckCmd.Flags().String("pdf-dir", config.DefaultPDFDirectory, "directory scanned for source PDFs")
	spotcheckCmd.Flags().String("shard-dir", config.DefaultShardDirectory, "directory holding the JSONL shards")
	spotcheckCmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize, "largest PDF read, in bytes")
	spotcheckCmd.Flags().IntVar(&spotcheckSample, "sample", 20, "stored documents to re-verify")

	rootCmd.AddCommand(spotcheckCmd)
}

func runSpotcheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store := shard.NewStore(cfg.ShardDirectory)
	finder := pdf.NewFinder()
	reader := pdf.NewReader(cfg.MaxFileSize)

	verifier := spotcheck.NewVerifier(store, finder, reader, logger)
	summary, err := verifier.Check(cmd.Context(), cfg.PDFDirectory, spotcheckSample)
	if err != nil {
		return err
	}

	printSpotCheckResults(summary)

	if !summary.OK() {
		return fmt.Errorf("spot check failed: %d of %d sampled documents do not match their stored text",
			summary.Failed, summary.Sampled)
	}

	return nil
}

// printSpotCheckResults writes one verdict line per sampled document and a
// closing aggregate line.
func printSpotCheckResults(summary *spotcheck.Summary) {
	for _, res := range summary.Results {
		if res.Passed {
			fmt.Printf("PASS %s %s\n", res.SHA256, res.Path)
		} else {
			fmt.Printf("FAIL %s %s: %s\n", res.SHA256, res.Path, res.Detail)
		}
	}

	fmt.Printf("Checked %d of %d stored documents: %d passed, %d failed\n",
		summary.Sampled, summary.Population, summary.Passed, summary.Failed)
}
