package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/report"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Write the document metadata report",
	Long: "Read every stored document, extract agency, date and title metadata\n" +
		"from its text and write one report row per document.",
	RunE: runMetadata,
}

var (
	metadataOut    string
	metadataFormat string
)

func init() {
	metadataCmd.Flags().String("shard-dir", config.DefaultShardDirectory, "directory holding the JSONL shards")
	metadataCmd.Flags().StringVar(&metadataOut, "out", "document_info.csv", "output file path")
	metadataCmd.Flags().StringVar(&metadataFormat, "format", "csv", "output format (csv, xlsx)")

	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	records, err := shard.NewStore(cfg.ShardDirectory).ReadAll()
	if err != nil {
		return err
	}

	docs := make([]docmeta.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, docmeta.FromRecord(rec))
	}

	svc := report.NewService(logger)
	switch metadataFormat {
	case "csv":
		err = svc.WriteMetadataCSV(metadataOut, docs)
	case "xlsx":
		err = svc.WriteMetadataXLSX(metadataOut, docs)
	default:
		return fmt.Errorf("unknown format %q (must be csv or xlsx)", metadataFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d documents to %s\n", len(docs), metadataOut)
	return nil
}
