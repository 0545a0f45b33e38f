package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"forex-signal-relay/internal/entity"
)

type fileDocumentStore struct {
	path string
}

// NewFileDocumentStore creates a DocumentStore backed by a JSON file.
// A missing file loads as an empty document.
func NewFileDocumentStore(path string) DocumentStore {
	return &fileDocumentStore{path: path}
}

func (s *fileDocumentStore) Load(_ context.Context) (*entity.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	doc := entity.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if doc.Journal == nil {
		doc.Journal = map[string][]entity.JournalRecord{}
	}
	return doc, nil
}

// Save writes via a temp file and rename so a crash mid-write never leaves
// a truncated document behind.
func (s *fileDocumentStore) Save(_ context.Context, doc *entity.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
