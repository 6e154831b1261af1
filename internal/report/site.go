package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcyj/licensing-pipeline/internal/docmeta"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

// AgencyDocument is one document entry in an agency's website listing
type AgencyDocument struct {
	Date                   string `json:"date"`
	AgencyName             string `json:"agency_name"`
	DocumentTitle          string `json:"document_title"`
	IsSpecialInvestigation bool   `json:"is_special_investigation"`
	SHA256                 string `json:"sha256"`
	DateProcessed          string `json:"date_processed"`
}

// AgencyData is the full website record for one agency. The field names
// follow the JSON the frontend already consumes.
type AgencyData struct {
	AgencyID     string           `json:"agencyId"`
	AgencyName   string           `json:"AgencyName"`
	Documents    []AgencyDocument `json:"documents"`
	TotalReports int              `json:"total_reports"`
}

// AgencySummary is the lightweight agency record for list views
type AgencySummary struct {
	AgencyID     string `json:"agencyId"`
	AgencyName   string `json:"AgencyName"`
	TotalReports int    `json:"total_reports"`
}

// DocumentFile is the full text payload served for one document
type DocumentFile struct {
	SHA256        string   `json:"sha256"`
	DateProcessed string   `json:"dateprocessed"`
	Pages         []string `json:"pages"`
}

// GroupByAgency groups documents by agency id, ordered by agency name.
// Documents without an agency id are left out. The last real agency name
// wins; an agency whose documents never name it keeps the Unknown Agency
// placeholder.
func GroupByAgency(docs []docmeta.Document) []AgencyData {
	byAgency := make(map[string][]AgencyDocument)
	names := make(map[string]string)

	for _, d := range docs {
		id := strings.TrimSpace(d.AgencyID)
		if id == "" {
			continue
		}

		name := strings.TrimSpace(d.AgencyName)
		if name != "" && name != docmeta.UnknownAgency {
			names[id] = name
		}

		byAgency[id] = append(byAgency[id], AgencyDocument{
			Date:                   d.Date,
			AgencyName:             name,
			DocumentTitle:          d.DocumentTitle,
			IsSpecialInvestigation: d.IsSpecialInvestigation,
			SHA256:                 d.SHA256,
			DateProcessed:          d.DateProcessed,
		})
	}

	agencies := make([]AgencyData, 0, len(byAgency))
	for id, documents := range byAgency {
		name, ok := names[id]
		if !ok {
			name = docmeta.UnknownAgency
		}

		agencies = append(agencies, AgencyData{
			AgencyID:     id,
			AgencyName:   name,
			Documents:    documents,
			TotalReports: len(documents),
		})
	}

	sort.Slice(agencies, func(i, j int) bool {
		if agencies[i].AgencyName != agencies[j].AgencyName {
			return agencies[i].AgencyName < agencies[j].AgencyName
		}
		return agencies[i].AgencyID < agencies[j].AgencyID
	})

	return agencies
}

// WriteSiteData writes agencies_data.json and agencies_summary.json into
// the site data directory.
func (s *Service) WriteSiteData(dir string, docs []docmeta.Document) error {
	agencies := GroupByAgency(docs)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot create site directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, "agencies_data.json"), agencies); err != nil {
		return err
	}

	summaries := make([]AgencySummary, 0, len(agencies))
	total := 0
	for _, a := range agencies {
		summaries = append(summaries, AgencySummary{
			AgencyID:     a.AgencyID,
			AgencyName:   a.AgencyName,
			TotalReports: a.TotalReports,
		})
		total += a.TotalReports
	}

	if err := writeJSON(filepath.Join(dir, "agencies_summary.json"), summaries); err != nil {
		return err
	}

	s.logger.Info("report.site.ok",
		"dir", dir,
		"agencies", len(agencies),
		"reports", total)
	return nil
}

// WriteDocumentFiles writes one JSON file per stored document, named by
// its content hash, for the website's document viewer.
func (s *Service) WriteDocumentFiles(dir string, records []shard.Record) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot create documents directory: %w", err)
	}

	for _, rec := range records {
		pages := rec.Text
		if pages == nil {
			pages = []string{}
		}

		doc := DocumentFile{
			SHA256:        rec.SHA256,
			DateProcessed: rec.DateProcessed,
			Pages:         pages,
		}
		if err := writeJSON(filepath.Join(dir, rec.SHA256+".json"), doc); err != nil {
			return err
		}
	}

	s.logger.Info("report.documents.ok", "dir", dir, "documents", len(records))
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	return f.Close()
}
