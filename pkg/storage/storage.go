// Package storage archives source statement documents on the local
// filesystem. Court accountings are auditable, so every parsed document is
// kept verbatim, keyed by the identifier recorded on its ledger entries.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// DocumentInfo is the metadata kept alongside each archived document.
type DocumentInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Path       string    `json:"path"` // relative to the case directory
	ArchivedAt time.Time `json:"archived_at"`
}

// Archive stores and retrieves source documents for one accounting case.
type Archive interface {
	// Store writes a document under the given identifier and returns its
	// metadata.
	Store(ctx context.Context, caseID string, docID uuid.UUID, filename string, r io.Reader) (*DocumentInfo, error)

	// Open returns a reader over an archived document.
	Open(ctx context.Context, caseID string, docID uuid.UUID) (io.ReadCloser, *DocumentInfo, error)

	// List returns the metadata of every document archived for a case.
	List(ctx context.Context, caseID string) ([]*DocumentInfo, error)

	// Info returns a document's metadata without opening it.
	Info(ctx context.Context, caseID string, docID uuid.UUID) (*DocumentInfo, error)
}
