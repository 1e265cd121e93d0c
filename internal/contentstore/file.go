package contentstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fluxcd/pkg/lockedfile"
)

// Document is the on-disk form of a store snapshot.
type Document struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Entries     []Entry   `json:"entries"`
}

// Persist writes every entry of s to path as one JSON document. The write holds
// an exclusive lock on path so a concurrent Load sees either the old or the new
// file, never a partial one.
func (s *Store) Persist(path string, now time.Time) error {
	doc := Document{GeneratedAt: now.UTC(), Entries: s.Entries()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := lockedfile.Write(path, bytes.NewReader(data), 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot written by Persist into a new Store. A missing file
// yields an empty store.
func Load(path string) (*Store, error) {
	s := New()
	data, err := lockedfile.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	s.Replace(doc.Entries)
	return s, nil
}

// Lock takes the run lock next to path, serializing synchronization runs
// across processes. The returned func releases it.
func Lock(path string) (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	return lockedfile.MutexAt(path + ".lock").Lock()
}
