package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drafthist/internal/storage"
)

// setupJournal создает in-memory журнал для теста
func setupJournal(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testEntry(documentID string, operationID uint64) *storage.JournalEntry {
	return &storage.JournalEntry{
		DocumentID:  documentID,
		OperationID: operationID,
		Kind:        "move_entities",
		Description: "Move selection",
		Payload:     []byte(`{"id":1,"kind":"move_entities"}`),
		RecordedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestJournal_Append(t *testing.T) {
	s := setupJournal(t)
	ctx := context.Background()

	entry := testEntry("doc-1", 1)
	require.NoError(t, s.Append(ctx, entry))

	assert.Positive(t, entry.ID, "Append must report the assigned journal id")
}

func TestJournal_Append_DuplicateOperation(t *testing.T) {
	s := setupJournal(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testEntry("doc-1", 1)))

	// Одна и та же операция не может быть записана дважды для документа
	err := s.Append(ctx, testEntry("doc-1", 1))
	require.Error(t, err)

	// Но та же операция другого документа допустима
	require.NoError(t, s.Append(ctx, testEntry("doc-2", 1)))
}

func TestJournal_ListByDocument(t *testing.T) {
	s := setupJournal(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testEntry("doc-1", 1)))
	require.NoError(t, s.Append(ctx, testEntry("doc-1", 2)))
	require.NoError(t, s.Append(ctx, testEntry("doc-2", 3)))

	entries, err := s.ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Порядок вставки сохраняется
	assert.Equal(t, uint64(1), entries[0].OperationID)
	assert.Equal(t, uint64(2), entries[1].OperationID)
	assert.Equal(t, "move_entities", entries[0].Kind)
	assert.Equal(t, "Move selection", entries[0].Description)
	assert.JSONEq(t, `{"id":1,"kind":"move_entities"}`, string(entries[0].Payload))
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestJournal_ListByDocument_Empty(t *testing.T) {
	s := setupJournal(t)

	entries, err := s.ListByDocument(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournal_CountByDocument(t *testing.T) {
	s := setupJournal(t)
	ctx := context.Background()

	count, err := s.CountByDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, s.Append(ctx, testEntry("doc-1", 1)))
	require.NoError(t, s.Append(ctx, testEntry("doc-1", 2)))

	count, err = s.CountByDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
