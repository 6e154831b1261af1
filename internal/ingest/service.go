package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcyj/licensing-pipeline/internal/pdf"
	"github.com/mcyj/licensing-pipeline/internal/shard"
)

// ExtractionError reports a single PDF that could not be hashed or read.
// The file is skipped and the run continues with the remaining files.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("cannot extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Stats summarizes one ingestion run
type Stats struct {
	Scanned        int           `json:"scanned"`
	Ingested       int           `json:"ingested"`
	AlreadyIndexed int           `json:"already_indexed"`
	Duplicates     int           `json:"duplicates"`
	Deferred       int           `json:"deferred"`
	Failed         int           `json:"failed"`
	ShardPath      string        `json:"shard_path,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Service ingests new PDF documents into the shard store
type Service struct {
	pdfDir    string
	store     *shard.Store
	finder    *pdf.Finder
	extractor pdf.PageExtractor
	logger    *slog.Logger

	// Limit caps how many new documents one run may accept; zero or
	// negative means no cap.
	Limit int

	// Workers bounds concurrent hashing and extraction
	Workers int
}

// NewService creates an ingestion service reading PDFs from pdfDir and
// writing shards through store.
func NewService(
	pdfDir string,
	store *shard.Store,
	finder *pdf.Finder,
	extractor pdf.PageExtractor,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		pdfDir:    pdfDir,
		store:     store,
		finder:    finder,
		extractor: extractor,
		logger:    logger,
		Workers:   runtime.NumCPU(),
	}
}

// candidate is one scanned file together with its content hash
type candidate struct {
	file   pdf.FileInfo
	sha256 string
	err    error
}

// Run ingests every new document found in the PDF directory and writes
// them as a single new shard. Documents already in the store are skipped
// by content hash, so re-running over the same directory adds nothing.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	startedAt := time.Now().UTC()
	stats := &Stats{}

	idx, err := s.store.BuildIndex()
	if err != nil {
		return nil, err
	}
	if n := idx.DuplicateCount(); n > 0 {
		s.logger.Warn("index contains duplicate documents", "count", n)
	}
	s.logger.Info("index ready",
		"documents", idx.Len(),
		"shards", idx.ShardCount())

	files, err := s.finder.FindPDFFiles(s.pdfDir)
	if err != nil {
		return nil, fmt.Errorf("cannot scan PDF directory: %w", err)
	}
	stats.Scanned = len(files)

	candidates, err := s.hashAll(ctx, files)
	if err != nil {
		return nil, err
	}

	accepted := s.selectNew(idx, candidates, stats)

	records, err := s.extractAll(ctx, accepted, stats)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		path, err := s.store.Write(records, startedAt)
		if err != nil {
			return nil, fmt.Errorf("cannot write shard: %w", err)
		}
		stats.ShardPath = path
	}
	stats.Ingested = len(records)
	stats.Elapsed = time.Since(startedAt)

	s.logger.Info("ingestion complete",
		"scanned", stats.Scanned,
		"ingested", stats.Ingested,
		"already_indexed", stats.AlreadyIndexed,
		"duplicates", stats.Duplicates,
		"deferred", stats.Deferred,
		"failed", stats.Failed,
		"shard", stats.ShardPath,
		"elapsed_ms", stats.Elapsed.Milliseconds())

	return stats, nil
}

// hashAll hashes every scanned file concurrently, preserving scan order
func (s *Service) hashAll(ctx context.Context, files []pdf.FileInfo) ([]candidate, error) {
	out := make([]candidate, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			sum, err := pdf.HashFile(file.Path)
			if err != nil {
				out[i] = candidate{file: file, err: &ExtractionError{Path: file.Path, Err: err}}
				return nil
			}

			out[i] = candidate{file: file, sha256: sum}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// selectNew picks the files to ingest this run. Files are considered in
// scan order; documents the store already holds and repeats within the
// run are skipped, and files beyond the limit wait for the next run.
func (s *Service) selectNew(idx *shard.Index, candidates []candidate, stats *Stats) []candidate {
	seen := make(map[string]struct{})
	var accepted []candidate

	for _, c := range candidates {
		switch {
		case c.err != nil:
			stats.Failed++
			s.logger.Warn("skipping unreadable file", "path", c.file.Path, "error", c.err)
		case idx.Has(c.sha256):
			stats.AlreadyIndexed++
		case contains(seen, c.sha256):
			stats.Duplicates++
			s.logger.Debug("duplicate document in batch",
				"path", c.file.Path,
				"sha256", c.sha256)
		case s.Limit > 0 && len(accepted) >= s.Limit:
			stats.Deferred++
		default:
			seen[c.sha256] = struct{}{}
			accepted = append(accepted, c)
		}
	}

	return accepted
}

// extractAll extracts page text from the accepted files concurrently.
// Record order follows scan order so shard contents are deterministic.
func (s *Service) extractAll(ctx context.Context, accepted []candidate, stats *Stats) ([]shard.Record, error) {
	type outcome struct {
		rec shard.Record
		err error
	}
	outcomes := make([]outcome, len(accepted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i, c := range accepted {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pages, err := s.extractor.ExtractPages(gctx, c.file.Path)
			if err != nil {
				outcomes[i] = outcome{err: &ExtractionError{Path: c.file.Path, Err: err}}
				return nil
			}
			if pages == nil {
				pages = []string{}
			}

			outcomes[i] = outcome{rec: shard.Record{
				SHA256:        c.sha256,
				DateProcessed: time.Now().UTC().Format(time.RFC3339),
				Text:          pages,
			}}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]shard.Record, 0, len(accepted))
	for i, o := range outcomes {
		if o.err != nil {
			stats.Failed++
			s.logger.Warn("skipping document", "path", accepted[i].file.Path, "error", o.err)
			continue
		}
		records = append(records, o.rec)
	}

	return records, nil
}

func (s *Service) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
