package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcyj/licensing-pipeline/internal/config"
	"github.com/mcyj/licensing-pipeline/internal/pdf"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every PDF in the archive for structural damage",
	Long: "Walk the PDF directory and run a structural validation pass over\n" +
		"each file. Damaged or truncated PDFs are listed with the reason they\n" +
		"failed, and any failure makes the command exit non-zero.",
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("pdf-dir", config.DefaultPDFDirectory, "directory scanned for source PDFs")
	validateCmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize, "largest PDF read, in bytes")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	finder := pdf.NewFinder()
	validator := pdf.NewValidator(cfg.MaxFileSize)

	files, err := finder.FindPDFFiles(cfg.PDFDirectory)
	if err != nil {
		return err
	}

	invalid := 0
	for _, f := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		result, err := validator.ValidateFile(f.Path)
		if err != nil {
			return err
		}
		if result.Valid {
			logger.Debug("valid PDF", "path", f.Path)
			continue
		}

		invalid++
		logger.Warn("invalid PDF", "path", f.Path, "reason", result.Message)
		fmt.Printf("FAIL %s: %s\n", f.Path, result.Message)
	}

	fmt.Printf("Validated %d files: %d valid, %d invalid\n",
		len(files), len(files)-invalid, invalid)

	if invalid > 0 {
		return fmt.Errorf("validation failed: %d of %d files are not readable PDFs", invalid, len(files))
	}

	return nil
}
