package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/violations"
)

// MetadataColumns is the header of the document metadata report
var MetadataColumns = []string{
	"agency_id",
	"date",
	"agency_name",
	"document_title",
	"is_special_investigation",
	"sha256",
	"date_processed",
}

// ViolationColumns is the header of the violation report
var ViolationColumns = []string{
	"agency_id",
	"date",
	"agency_name",
	"document_title",
	"is_special_investigation",
	"violations_list",
	"num_violations",
	"sha256",
	"date_processed",
}

func metadataRow(d docmeta.Document) []string {
	return []string{
		d.AgencyID,
		d.Date,
		d.AgencyName,
		d.DocumentTitle,
		strconv.FormatBool(d.IsSpecialInvestigation),
		d.SHA256,
		d.DateProcessed,
	}
}

func violationRow(d violations.Document) []string {
	return []string{
		d.AgencyID,
		d.Date,
		d.AgencyName,
		d.DocumentTitle,
		strconv.FormatBool(d.IsSpecialInvestigation),
		strings.Join(d.ViolationsList, "; "),
		strconv.Itoa(d.NumViolations),
		d.SHA256,
		d.DateProcessed,
	}
}

// WriteMetadataCSV writes the document metadata report, one row per
// stored document.
func (s *Service) WriteMetadataCSV(path string, docs []docmeta.Document) error {
	return s.writeCSV(path, MetadataColumns, len(docs), func(i int) []string {
		return metadataRow(docs[i])
	})
}

// WriteViolationsCSV writes the violation report, one row per stored
// document.
func (s *Service) WriteViolationsCSV(path string, docs []violations.Document) error {
	return s.writeCSV(path, ViolationColumns, len(docs), func(i int) []string {
		return violationRow(docs[i])
	})
}

func (s *Service) writeCSV(path string, header []string, rows int, row func(int) []string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("cannot write header: %w", err)
	}

	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			f.Close()
			return fmt.Errorf("cannot write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("cannot flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", path, err)
	}

	s.logger.Info("report.csv.ok", "path", path, "rows", rows)
	return nil
}
