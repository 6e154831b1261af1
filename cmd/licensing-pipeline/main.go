// Package main provides the licensing-pipeline command line interface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "licensing-pipeline",
	Short: "Text pipeline for childcare licensing reports",
	Long: "licensing-pipeline ingests licensing report PDFs into content-addressed\n" +
		"JSONL shards and derives metadata, violation and website reports from\n" +
		"the stored text.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (text, json)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the resolved configuration and
// installs it as the slog default. Logs go to stderr so command output on
// stdout stays clean.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
