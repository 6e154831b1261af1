package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/pdf"
	"github.com/mcyj/licensing-pipeline/internal/rulebook"
)

var rulebookCmd = &cobra.Command{
	Use:   "rulebook PDF",
	Short: "Parse the licensing rulebook PDF into a JSON rule catalogue",
	Long: "Extract the text of the licensing rulebook PDF, split it into rules\n" +
		"keyed by rule number and write them as a single JSON catalogue, each\n" +
		"rule carrying its name, label, condition tree and history note.",
	Args: cobra.ExactArgs(1),
	RunE: runRulebook,
}

var rulebookOut string

func init() {
	rulebookCmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize, "largest PDF read, in bytes")
	rulebookCmd.Flags().StringVar(&rulebookOut, "out", "RulesData/parsed_rules.json", "output JSON file path")

	rootCmd.AddCommand(rulebookCmd)
}

func runRulebook(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	reader := pdf.NewReader(cfg.MaxFileSize)
	pages, err := reader.ExtractPages(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("cannot extract rulebook text: %w", err)
	}

	rules := rulebook.Parse(pages)
	if err := rulebook.WriteJSON(rulebookOut, rules); err != nil {
		return err
	}
	logger.Info("rulebook parsed", "path", args[0], "rules", len(rules), "out", rulebookOut)

	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 10 {
		keys = keys[:10]
	}

	fmt.Printf("Parsed %d rules into %s\n", len(rules), rulebookOut)
	if len(keys) > 0 {
		fmt.Printf("First rules: %s\n", strings.Join(keys, ", "))
	}
	return nil
}
