package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/ingest"
	"github.com/mcyj/licensing-pipeline/internal/pdf"
	"github.com/mcyj/licensing-pipeline/internal/shard"
	"github.com/mcyj/licensing-pipeline/internal/spotcheck"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest new PDFs from the archive into the shard store",
	Long: "Scan the PDF directory, skip documents the store already holds by\n" +
		"content hash, extract page text from the rest and append them as one\n" +
		"new shard. With --spot-check N, N stored documents are re-verified\n" +
		"against their source PDFs afterwards.",
	RunE: runIngest,
}

var (
	ingestLimit     int
	ingestSpotCheck int
)

func init() {
	ingestCmd.Flags().String("pdf-dir", config.DefaultPDFDirectory, "directory scanned for source PDFs")
	ingestCmd.Flags().String("shard-dir", config.DefaultShardDirectory, "directory holding the JSONL shards")
	ingestCmd.Flags().Int("workers", config.DefaultWorkers, "concurrent hashing and extraction workers")
	ingestCmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize, "largest PDF read, in bytes")
	ingestCmd.Flags().IntVar(&ingestLimit, "limit", 0, "cap on new documents accepted this run (0 = no cap)")
	ingestCmd.Flags().IntVar(&ingestSpotCheck, "spot-check", 0, "stored documents to re-verify after the run (0 = none)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store := shard.NewStore(cfg.ShardDirectory)
	finder := pdf.NewFinder()
	reader := pdf.NewReader(cfg.MaxFileSize)

	svc := ingest.NewService(cfg.PDFDirectory, store, finder, reader, logger)
	svc.Limit = ingestLimit
	svc.Workers = cfg.Workers

	stats, err := svc.Run(cmd.Context())
	if err != nil {
		return err
	}

	if stats.Ingested == 0 {
		fmt.Println("No new documents.")
	} else {
		fmt.Printf("Ingested %d new documents into %s\n", stats.Ingested, stats.ShardPath)
	}

	if ingestSpotCheck <= 0 {
		return nil
	}

	verifier := spotcheck.NewVerifier(store, finder, reader, logger)
	summary, err := verifier.Check(cmd.Context(), cfg.PDFDirectory, ingestSpotCheck)
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
