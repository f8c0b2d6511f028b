package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/drafthist/internal/storage"
)

// Append records one operation for a document.
// Журнал только дописывается: записи переживают сжатие дерева истории.
func (s *Storage) Append(ctx context.Context, entry *storage.JournalEntry) error {
	query := `
		INSERT INTO operation_journal (document_id, operation_id, kind, description, payload, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		entry.DocumentID,
		entry.OperationID,
		entry.Kind,
		entry.Description,
		entry.Payload,
		entry.RecordedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	// Возвращаем вызывающей стороне присвоенный идентификатор
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get journal entry id: %w", err)
	}
	entry.ID = id

	return nil
}

// ListByDocument returns all recorded operations for a document in insertion order
func (s *Storage) ListByDocument(ctx context.Context, documentID string) ([]*storage.JournalEntry, error) {
	query := `
		SELECT id, document_id, operation_id, kind, description, payload, recorded_at
		FROM operation_journal
		WHERE document_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*storage.JournalEntry

	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}

	return entries, nil
}

// CountByDocument returns the number of recorded operations for a document
func (s *Storage) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	query := `SELECT COUNT(*) FROM operation_journal WHERE document_id = ?`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, documentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	return count, nil
}

// scanJournalEntry читает одну строку журнала
func scanJournalEntry(rows *sql.Rows) (*storage.JournalEntry, error) {
	var (
		entry      storage.JournalEntry
		recordedAt int64
	)

	err := rows.Scan(
		&entry.ID,
		&entry.DocumentID,
		&entry.OperationID,
		&entry.Kind,
		&entry.Description,
		&entry.Payload,
		&recordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	entry.RecordedAt = time.Unix(recordedAt, 0).UTC()

	return &entry, nil
}
