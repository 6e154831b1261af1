package spotcheck

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mcyj/licensing-pipeline/internal/pdf"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

// MismatchError reports a stored document whose text no longer matches a
// fresh extraction of its source PDF.
type MismatchError struct {
	SHA256 string
	Detail string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("stored text for %s does not match source: %s", e.SHA256, e.Detail)
}

// Result is the verdict for one sampled document
type Result struct {
	SHA256 string `json:"sha256"`
	Path   string `json:"path"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Summary aggregates one spot check run. Population is the number of
// stored documents whose source PDF is still present in the directory.
type Summary struct {
	Population int      `json:"population"`
	Sampled    int      `json:"sampled"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// OK reports whether every sampled document matched its stored text
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Verifier re-extracts sampled documents and compares them with the text
// the store holds for them.
type Verifier struct {
	store     *shard.Store
	finder    *pdf.Finder
	extractor pdf.PageExtractor
	logger    *slog.Logger
	rnd       *rand.Rand
}

// NewVerifier creates a spot check verifier
func NewVerifier(
	store *shard.Store,
	finder *pdf.Finder,
	extractor pdf.PageExtractor,
	logger *slog.Logger,
) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Verifier{
		store:     store,
		finder:    finder,
		extractor: extractor,
		logger:    logger,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Check samples up to sample stored documents whose source PDF can be
// located in pdfDir and verifies each one page by page.
func (v *Verifier) Check(ctx context.Context, pdfDir string, sample int) (*Summary, error) {
	records, err := v.store.ReadAll()
	if err != nil {
		return nil, err
	}

	files, err := v.finder.FindPDFFiles(pdfDir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan PDF directory: %w", err)
	}

	// Locate each stored document's source file by content hash
	byHash := make(map[string]string, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sum, err := pdf.HashFile(f.Path)
		if err != nil {
			v.logger.Warn("skipping unreadable file", "path", f.Path, "error", err)
			continue
		}
		if _, ok := byHash[sum]; !ok {
			byHash[sum] = f.Path
		}
	}

	var population []shard.Record
	for _, rec := range records {
		if _, ok := byHash[rec.SHA256]; ok {
			population = append(population, rec)
		}
	}

	summary := &Summary{Population: len(population)}
	if len(population) == 0 || sample <= 0 {
		return summary, nil
	}

	for _, i := range v.pick(len(population), sample) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := population[i]
		path := byHash[rec.SHA256]
		res := Result{SHA256: rec.SHA256, Path: path, Passed: true}

		if err := v.verify(ctx, rec, path); err != nil {
			res.Passed = false
			res.Detail = err.Error()
			summary.Failed++
			v.logger.Warn("spot check mismatch",
				"sha256", rec.SHA256,
				"path", path,
				"error", err)
		} else {
			summary.Passed++
		}

		summary.Sampled++
		summary.Results = append(summary.Results, res)
	}

	v.logger.Info("spot check complete",
		"population", summary.Population,
		"sampled", summary.Sampled,
		"passed", summary.Passed,
		"failed", summary.Failed)

	return summary, nil
}

// verify re-extracts one document and compares it page by page
func (v *Verifier) verify(ctx context.Context, rec shard.Record, path string) error {
	pages, err := v.extractor.ExtractPages(ctx, path)
	if err != nil {
		return &MismatchError{
			SHA256: rec.SHA256,
			Detail: fmt.Sprintf("re-extraction failed: %v", err),
		}
	}

	if len(pages) != len(rec.Text) {
		return &MismatchError{
			SHA256: rec.SHA256,
			Detail: fmt.Sprintf("page count %d != %d", len(pages), len(rec.Text)),
		}
	}

	for i := range pages {
		if pages[i] != rec.Text[i] {
			return &MismatchError{
				SHA256: rec.SHA256,
				Detail: fmt.Sprintf("page %d differs", i+1),
			}
		}
	}

	return nil
}

// pick returns n distinct random indexes below population
func (v *Verifier) pick(population, n int) []int {
	if n > population {
		n = population
	}
	return v.rnd.Perm(population)[:n]
}
