// Package report renders extraction results as CSV and XLSX reports and
// as the JSON files the public website serves.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Service writes reports derived from the shard store
type Service struct {
	logger *slog.Logger
}

// NewService creates a report service
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	return nil
}
