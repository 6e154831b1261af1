package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/violations"
)

var metadataColWidths = []float64{16, 24, 36, 42, 10, 68, 22}

var violationColWidths = []float64{16, 24, 36, 42, 10, 60, 8, 68, 22}

// WriteMetadataXLSX writes the document metadata report as an XLSX
// workbook.
func (s *Service) WriteMetadataXLSX(path string, docs []docmeta.Document) error {
	return s.writeXLSX(path, "Documents", MetadataColumns, metadataColWidths,
		len(docs), func(i int) []string {
			return metadataRow(docs[i])
		})
}

// WriteViolationsXLSX writes the violation report as an XLSX workbook
func (s *Service) WriteViolationsXLSX(path string, docs []violations.Document) error {
	return s.writeXLSX(path, "Violations", ViolationColumns, violationColWidths,
		len(docs), func(i int) []string {
			return violationRow(docs[i])
		})
}

func (s *Service) writeXLSX(
	path, sheet string,
	header []string,
	widths []float64,
	rows int,
	row func(int) []string,
) error {
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for r := 0; r < rows; r++ {
		values := row(r)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"path", path,
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
