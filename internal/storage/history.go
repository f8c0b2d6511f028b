package storage

import (
	"context"
	"time"

	"github.com/iudanet/drafthist/pkg/api"
)

// SnapshotStore defines interface for persisting history tree snapshots
type SnapshotStore interface {
	// SaveSnapshot stores or replaces a tree snapshot for a document
	SaveSnapshot(ctx context.Context, snapshot *api.TreeSnapshot) error

	// LoadSnapshot retrieves a tree snapshot by document ID
	// Returns ErrSnapshotNotFound if no snapshot exists
	LoadSnapshot(ctx context.Context, documentID string) (*api.TreeSnapshot, error)

	// DeleteSnapshot removes a stored snapshot
	// Returns ErrSnapshotNotFound if no snapshot exists
	DeleteSnapshot(ctx context.Context, documentID string) error

	// ListDocuments returns the IDs of all documents with stored snapshots
	ListDocuments(ctx context.Context) ([]string, error)

	// Close releases the underlying store
	Close() error
}

// JournalEntry represents one recorded operation in the audit journal.
// The journal is append-only: entries survive history compression and
// describe every operation ever recorded for a document.
type JournalEntry struct {
	RecordedAt  time.Time // время записи операции
	DocumentID  string    // идентификатор документа
	Kind        string    // тип операции
	Description string    // описание операции
	Payload     []byte    // операция в envelope-форме (JSON)
	ID          int64     // автоинкрементный идентификатор записи журнала
	OperationID uint64    // идентификатор операции
}

// Journal defines interface for the append-only operation journal
type Journal interface {
	// Append records one operation for a document
	Append(ctx context.Context, entry *JournalEntry) error

	// ListByDocument returns all recorded operations for a document
	// in insertion order
	ListByDocument(ctx context.Context, documentID string) ([]*JournalEntry, error)

	// CountByDocument returns the number of recorded operations for a document
	CountByDocument(ctx context.Context, documentID string) (int64, error)

	// Close releases the underlying store
	Close() error
}
