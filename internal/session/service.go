// Package session связывает дерево истории с хранилищами.
//
// Сессия — единственный владелец дерева одного документа: она
// записывает операции, ведет append-only журнал аудита и сохраняет
// снимки дерева. Все мутирующие вызовы выполняются последовательно
// владельцем сессии; пакет не выполняет внутренней блокировки.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iudanet/drafthist/internal/history"
	"github.com/iudanet/drafthist/internal/models"
	"github.com/iudanet/drafthist/internal/storage"
)

// Service определяет интерфейс сессии редактирования документа
type Service interface {
	// DocumentID возвращает идентификатор документа сессии
	DocumentID() string

	// Record записывает операцию в дерево истории и журнал аудита
	Record(ctx context.Context, op models.Operation) error

	// Undo отменяет последнюю операцию; nil, если отменять нечего
	Undo() *models.Operation

	// Redo повторяет последнюю отмененную операцию; nil, если нечего
	Redo() *models.Operation

	// Goto перемещает текущую позицию к произвольной операции
	Goto(id models.OperationID) error

	// CreateBranch регистрирует именованную ветвь
	CreateBranch(name string, from models.OperationID) error

	// SwitchBranch переключает текущую позицию на узел ветви
	SwitchBranch(name string) error

	// Branches возвращает карту именованных ветвей
	Branches() map[string]models.OperationID

	// CurrentOperations возвращает операции от корня к текущему узлу
	CurrentOperations() []models.Operation

	// FindOperation возвращает операцию по идентификатору
	FindOperation(id models.OperationID) (models.Operation, bool)

	// DependencyGraph возвращает граф зависимостей операций
	DependencyGraph() map[models.OperationID][]models.OperationID

	// Compress запускает сжатие истории
	Compress() error

	// Stats возвращает статистику дерева
	Stats() models.HistoryStats

	// TreeString возвращает человекочитаемое представление дерева
	TreeString() string

	// Save сохраняет снимок дерева в хранилище
	Save(ctx context.Context) error

	// Load восстанавливает дерево из сохраненного снимка
	Load(ctx context.Context) error
}

// service handles one editing session over a single history tree
type service struct {
	tree       *history.Tree
	snapshots  storage.SnapshotStore
	journal    storage.Journal
	logger     *slog.Logger
	documentID string
}

// Config конфигурация сессии
type Config struct {
	Snapshots  storage.SnapshotStore // Snapshots хранилище снимков (nil = без сохранения)
	Journal    storage.Journal       // Journal журнал аудита (nil = без журнала)
	Logger     *slog.Logger          // Logger логгер (nil = slog.Default)
	DocumentID string                // DocumentID идентификатор документа ("" = новый UUID)
	MaxNodes   int                   // MaxNodes порог сжатия дерева (<= 0 = по умолчанию)
}

// NewService creates a new editing session
func NewService(cfg Config) Service {
	if cfg.DocumentID == "" {
		cfg.DocumentID = uuid.New().String()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &service{
		tree:       history.NewTree(cfg.MaxNodes),
		snapshots:  cfg.Snapshots,
		journal:    cfg.Journal,
		logger:     cfg.Logger,
		documentID: cfg.DocumentID,
	}
}

// DocumentID возвращает идентификатор документа сессии
func (s *service) DocumentID() string {
	return s.documentID
}

// Record записывает операцию в дерево истории и журнал аудита.
// Журнал дописывается после успешной вставки в дерево; ошибка журнала
// не откатывает дерево и возвращается обернутой в ErrJournalFailed,
// чтобы вызывающая сторона отличала "записано, но не в журнале" от
// "не записано" и не повторяла Record с той же операцией.
func (s *service) Record(ctx context.Context, op models.Operation) error {
	if err := s.tree.AddOperation(op); err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}

	s.logger.Debug("operation recorded",
		"document_id", s.documentID,
		"operation_id", op.ID,
		"kind", op.Kind,
	)

	if s.journal == nil {
		return nil
	}

	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal operation: %w", ErrJournalFailed, err)
	}

	entry := &storage.JournalEntry{
		DocumentID:  s.documentID,
		OperationID: uint64(op.ID),
		Kind:        string(op.Kind),
		Description: op.Description,
		Payload:     payload,
		RecordedAt:  op.Timestamp,
	}

	if err := s.journal.Append(ctx, entry); err != nil {
		s.logger.Error("failed to journal operation",
			"document_id", s.documentID,
			"operation_id", op.ID,
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrJournalFailed, err)
	}

	return nil
}

// Undo отменяет последнюю операцию
func (s *service) Undo() *models.Operation {
	op := s.tree.Undo()
	if op != nil {
		s.logger.Debug("operation undone", "document_id", s.documentID, "operation_id", op.ID)
	}
	return op
}

// Redo повторяет последнюю отмененную операцию
func (s *service) Redo() *models.Operation {
	op := s.tree.Redo()
	if op != nil {
		s.logger.Debug("operation redone", "document_id", s.documentID, "operation_id", op.ID)
	}
	return op
}

// Goto перемещает текущую позицию к произвольной операции
func (s *service) Goto(id models.OperationID) error {
	return s.tree.GotoOperation(id)
}

// CreateBranch регистрирует именованную ветвь
func (s *service) CreateBranch(name string, from models.OperationID) error {
	return s.tree.CreateBranch(name, from)
}

// SwitchBranch переключает текущую позицию на узел ветви
func (s *service) SwitchBranch(name string) error {
	return s.tree.SwitchBranch(name)
}

// Branches возвращает карту именованных ветвей
func (s *service) Branches() map[string]models.OperationID {
	return s.tree.Branches()
}

// CurrentOperations возвращает операции от корня к текущему узлу
func (s *service) CurrentOperations() []models.Operation {
	return s.tree.CurrentOperations()
}

// FindOperation возвращает операцию по идентификатору
func (s *service) FindOperation(id models.OperationID) (models.Operation, bool) {
	return s.tree.FindOperation(id)
}

// DependencyGraph возвращает граф зависимостей операций
func (s *service) DependencyGraph() map[models.OperationID][]models.OperationID {
	return s.tree.DependencyGraph()
}

// Compress запускает сжатие истории
func (s *service) Compress() error {
	before := s.tree.Len()
	if err := s.tree.CompressHistory(); err != nil {
		return fmt.Errorf("failed to compress history: %w", err)
	}

	if removed := before - s.tree.Len(); removed > 0 {
		s.logger.Info("history compressed",
			"document_id", s.documentID,
			"nodes_removed", removed,
		)
	}

	return nil
}

// Stats возвращает статистику дерева
func (s *service) Stats() models.HistoryStats {
	return s.tree.Stats()
}

// TreeString возвращает человекочитаемое представление дерева
func (s *service) TreeString() string {
	return s.tree.TreeString()
}

// Save сохраняет снимок дерева в хранилище
func (s *service) Save(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("session has no snapshot store")
	}

	snapshot, err := snapshotFromTree(s.tree, s.documentID)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		"document_id", s.documentID,
		"nodes", s.tree.Len(),
	)

	return nil
}

// Load восстанавливает дерево из сохраненного снимка
func (s *service) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("session has no snapshot store")
	}

	snapshot, err := s.snapshots.LoadSnapshot(ctx, s.documentID)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	tree, err := treeFromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("failed to restore tree: %w", err)
	}

	s.tree = tree

	s.logger.Info("snapshot loaded",
		"document_id", s.documentID,
		"nodes", tree.Len(),
	)

	return nil
}
