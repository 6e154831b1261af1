package shard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const (
	// ShardSuffix terminates every shard file name
	ShardSuffix = "_documents.jsonl"

	// shardTimeLayout is the timestamp prefix of a shard file name
	shardTimeLayout = "20060102_150405"
)

var shardNamePattern = regexp.MustCompile(`^\d{8}_\d{6}_documents\.jsonl$`)

// ShardName returns the shard file name for a batch started at t
func ShardName(t time.Time) string {
	return t.Format(shardTimeLayout) + ShardSuffix
}

// IsShardName reports whether name looks like a shard file name
func IsShardName(name string) bool {
	return shardNamePattern.MatchString(name)
}

// Store reads and writes document shards in a single directory. Shards
// are append-only: a run adds at most one new file and never rewrites an
// existing one.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the shard directory
func (s *Store) Dir() string {
	return s.dir
}

// List returns the paths of all shard files in the store, ordered by
// name. A missing directory is treated as an empty store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read shard directory: %w", err)
	}

	var shards []string
	for _, entry := range entries {
		if entry.IsDir() || !IsShardName(entry.Name()) {
			continue
		}
		shards = append(shards, filepath.Join(s.dir, entry.Name()))
	}

	return shards, nil
}

// ReadShard decodes every record in one shard file. Any unreadable or
// invalid line fails the whole shard with a CorruptIndexError.
func (s *Store) ReadShard(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &CorruptIndexError{Shard: filepath.Base(path), Err: err}
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for n := 1; ; n++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, &CorruptIndexError{
				Shard: filepath.Base(path),
				Err:   fmt.Errorf("record %d: %w", n, err),
			}
		}

		if err := ValidateRecord(raw); err != nil {
			return nil, &CorruptIndexError{
				Shard: filepath.Base(path),
				Err:   fmt.Errorf("record %d: %w", n, err),
			}
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &CorruptIndexError{
				Shard: filepath.Base(path),
				Err:   fmt.Errorf("record %d: %w", n, err),
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// ReadAll returns the records of every shard, in shard order
func (s *Store) ReadAll() ([]Record, error) {
	shards, err := s.List()
	if err != nil {
		return nil, err
	}

	var all []Record
	for _, path := range shards {
		records, err := s.ReadShard(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}

	return all, nil
}

// Write stores a new shard containing the given records. The file is
// named for the batch start time and published atomically; an existing
// shard with the same name is never overwritten. Returns the path of the
// written shard, or the empty string when there are no records.
func (s *Store) Write(records []Record, startedAt time.Time) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("cannot create shard directory: %w", err)
	}

	target := filepath.Join(s.dir, ShardName(startedAt))
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("shard already exists: %s", target)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot stat shard: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".shard-*.tmp")
	if err != nil {
		return "", fmt.Errorf("cannot create temp shard: %w", err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return "", fmt.Errorf("cannot encode record %s: %w", rec.SHA256, err)
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("cannot sync shard: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("cannot close shard: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("cannot publish shard: %w", err)
	}

	return target, nil
}
