package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/drafthist/internal/storage"
	"github.com/iudanet/drafthist/pkg/api"
)

// SaveSnapshot stores or replaces a tree snapshot for a document
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *api.TreeSnapshot) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	// Сериализуем snapshot в JSON
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		// Сохраняем по ключу documentID
		if err := bucket.Put([]byte(snapshot.DocumentID), data); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// LoadSnapshot retrieves a tree snapshot by document ID
func (s *Storage) LoadSnapshot(ctx context.Context, documentID string) (*api.TreeSnapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var snapshot *api.TreeSnapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return storage.ErrSnapshotNotFound
		}

		data := bucket.Get([]byte(documentID))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		// Десериализуем
		snapshot = &api.TreeSnapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// DeleteSnapshot removes a stored snapshot
func (s *Storage) DeleteSnapshot(ctx context.Context, documentID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return storage.ErrSnapshotNotFound
		}

		if bucket.Get([]byte(documentID)) == nil {
			return storage.ErrSnapshotNotFound
		}

		if err := bucket.Delete([]byte(documentID)); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	return nil
}

// ListDocuments returns the IDs of all documents with stored snapshots
func (s *Storage) ListDocuments(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var documents []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			// Нет bucket - возвращаем пустой список
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			documents = append(documents, string(k))
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return documents, nil
}
