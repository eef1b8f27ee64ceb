package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"precatorios/internal/core"
	ports "precatorios/internal/sheets"
)

var (
	_ ports.DatasetReader = (*Store)(nil)
	_ ports.DatasetWriter = (*Store)(nil)
)

// Store keeps datasets in memory. It backs tests and local runs without
// spreadsheet files.
type Store struct {
	mu   sync.RWMutex
	data map[core.Source][]core.Record
}

func New() *Store {
	return &Store{data: make(map[core.Source][]core.Record)}
}

// NewFromDir seeds a store from <dir>/<source>.json files holding record
// arrays. Missing files leave the source empty.
func NewFromDir(dir string) (*Store, error) {
	s := New()
	for _, src := range core.Sources() {
		records, err := readJSON(filepath.Join(dir, src.String()+".json"))
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", src, err)
		}
		if records != nil {
			s.data[src] = records
		}
	}
	return s, nil
}

// ReadRecords returns a copy of the stored records. A source that was never
// written reads as empty.
func (s *Store) ReadRecords(_ context.Context, source core.Source) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Record(nil), s.data[source]...), nil
}

// ReplaceRecords stores a copy of records for source.
func (s *Store) ReplaceRecords(_ context.Context, source core.Source, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[source] = append([]core.Record(nil), records...)
	return nil
}

func readJSON(path string) ([]core.Record, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []core.Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return records, nil
}
