package repository

import (
	"context"

	"forex-signal-relay/internal/entity"
)

// DocumentStore persists the whole aggregate document. Semantics are
// whole-document read/write: Save replaces everything that Load returns.
type DocumentStore interface {
	Load(ctx context.Context) (*entity.Document, error)
	Save(ctx context.Context, doc *entity.Document) error
}
