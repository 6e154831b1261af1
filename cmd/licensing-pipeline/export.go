package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/report"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export website JSON from the shard store",
	Long: "Write agencies_data.json and agencies_summary.json under the site's\n" +
		"data directory and one JSON file per stored document under its\n" +
		"documents directory, for the public website.",
	RunE: runExport,
}

var exportSiteDir string

func init() {
	exportCmd.Flags().String("shard-dir", config.DefaultShardDirectory, "directory holding the JSONL shards")
	exportCmd.Flags().StringVar(&exportSiteDir, "site-dir", "public", "website root to write JSON under")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
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
	if err := svc.WriteSiteData(filepath.Join(exportSiteDir, "data"), docs); err != nil {
		return err
	}
	if err := svc.WriteDocumentFiles(filepath.Join(exportSiteDir, "documents"), records); err != nil {
		return err
	}

	fmt.Printf("Exported %d documents to %s\n", len(records), exportSiteDir)
	return nil
}
