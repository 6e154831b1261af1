package shard

import "fmt"

// CorruptIndexError reports a shard that could not be read or decoded.
// Any occurrence aborts the run: with a damaged index every dedup
// decision would be unreliable.
type CorruptIndexError struct {
	Shard string
	Err   error
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("corrupt shard %s: %v", e.Shard, e.Err)
}

func (e *CorruptIndexError) Unwrap() error {
	return e.Err
}

// Index is the set of document hashes already present in the store
type Index struct {
	hashes map[string]string
	shards int
	dups   int
}

// BuildIndex scans every shard and collects all stored document hashes
func (s *Store) BuildIndex() (*Index, error) {
	shards, err := s.List()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		hashes: make(map[string]string),
		shards: len(shards),
	}

	for _, path := range shards {
		records, err := s.ReadShard(path)
		if err != nil {
			return nil, err
		}

		for _, rec := range records {
			if _, ok := idx.hashes[rec.SHA256]; ok {
				idx.dups++
				continue
			}
			idx.hashes[rec.SHA256] = path
		}
	}

	return idx, nil
}

// Has reports whether the given document hash is already stored
func (idx *Index) Has(sha256 string) bool {
	_, ok := idx.hashes[sha256]
	return ok
}

// Len returns the number of distinct stored documents
func (idx *Index) Len() int {
	return len(idx.hashes)
}

// ShardCount returns the number of shard files scanned
func (idx *Index) ShardCount() int {
	return idx.shards
}

// DuplicateCount returns the number of records whose hash was already
// seen in an earlier shard. A non-zero count means an earlier run broke
// the one-shard-per-document guarantee.
func (idx *Index) DuplicateCount() int {
	return idx.dups
}
