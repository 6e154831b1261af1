package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/report"
	"github.com/mcyj/licensing-pipeline/internal/shard"
	"github.com/mcyj/licensing-pipeline/internal/violations"
)

var violationsCmd = &cobra.Command{
	Use:   "violations",
	Short: "Write the violation report",
	Long: "Read every stored document, resolve the rule citations and the\n" +
		"conclusion recorded for each one, and write one report row per\n" +
		"document listing its established violations.",
	RunE: runViolations,
}

var (
	violationsOut    string
	violationsFormat string
)

func init() {
	violationsCmd.Flags().String("shard-dir", config.DefaultShardDirectory, "directory holding the JSONL shards")
	violationsCmd.Flags().StringVar(&violationsOut, "out", "violations_output.csv", "output file path")
	violationsCmd.Flags().StringVar(&violationsFormat, "format", "csv", "output format (csv, xlsx)")

	rootCmd.AddCommand(violationsCmd)
}

func runViolations(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	records, err := shard.NewStore(cfg.ShardDirectory).ReadAll()
	if err != nil {
		return err
	}

	engine := violations.NewEngine(logger)
	docs := make([]violations.Document, 0, len(records))
	total := 0
	for _, rec := range records {
		doc := engine.FromRecord(rec)
		total += doc.NumViolations
		docs = append(docs, doc)
	}

	svc := report.NewService(logger)
	switch violationsFormat {
	case "csv":
		err = svc.WriteViolationsCSV(violationsOut, docs)
	case "xlsx":
		err = svc.WriteViolationsXLSX(violationsOut, docs)
	default:
		return fmt.Errorf("unknown format %q (must be csv or xlsx)", violationsFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d documents with %d established violations to %s\n", len(docs), total, violationsOut)
	return nil
}
