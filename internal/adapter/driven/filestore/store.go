// Package filestore implements the OutputStore port on the local filesystem.
package filestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.OutputStore = (*Store)(nil)

// File names inside a pull request's output directory.
const (
	MetaFile     = "pr-meta.json"
	EntitiesFile = "reviews.jsonl"
	DigestFile   = "reviews.html"
)

// Store writes sync output under root as <root>/<owner>/<repo>/pr/<number>/.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root. The directory is created lazily.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Dir returns the output directory for ref.
func (s *Store) Dir(ref model.PRRef) string {
	return filepath.Join(s.root, ref.Owner, ref.Repo, "pr", strconv.Itoa(ref.Number))
}

// WriteMeta writes meta as 2-space indented JSON.
func (s *Store) WriteMeta(ref model.PRRef, meta model.PRMeta) (string, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling PR metadata: %w", err)
	}
	return s.write(ref, MetaFile, data)
}

// WriteEntities writes the entity stream verbatim.
func (s *Store) WriteEntities(ref model.PRRef, jsonl string) (string, error) {
	return s.write(ref, EntitiesFile, []byte(jsonl))
}

// WriteDigest writes the rendered HTML digest.
func (s *Store) WriteDigest(ref model.PRRef, html []byte) (string, error) {
	return s.write(ref, DigestFile, html)
}

// ReadEntities returns the entity stream written by the last sync of ref.
func (s *Store) ReadEntities(ref model.PRRef) (string, error) {
	path := filepath.Join(s.Dir(ref), EntitiesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// write replaces name in ref's directory atomically, so readers never observe
// a partially written file.
func (s *Store) write(ref model.PRRef, name string, data []byte) (string, error) {
	dir := s.Dir(ref)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
