// Package api содержит сериализуемые формы дерева истории.
//
// Снимок дерева — внешний контракт сериализации: идентификаторы
// операций кодируются как целые числа, временные метки — как
// абсолютные моменты времени (RFC 3339, UTC), операции — в
// envelope-форме пакета models.
package api

import (
	"encoding/json"
	"time"
)

// HistoryNode представляет один узел дерева истории в сериализованной форме
type HistoryNode struct {
	Operation json.RawMessage `json:"operation"` // Операция в envelope-форме
	Children  []uint64        `json:"children"`  // Дочерние узлы
	ID        uint64          `json:"id"`        // Идентификатор узла
	Parent    uint64          `json:"parent"`    // Родительский узел (0 только у корня)
	Depth     int             `json:"depth"`     // Глубина узла
	IsActive  bool            `json:"is_active"` // Флаг текущего узла
}

// TreeStats представляет статистику дерева истории
type TreeStats struct {
	LastOperationTime  time.Time `json:"last_operation_time"` // Время последней операции
	TotalOperations    int       `json:"total_operations"`    // Всего записано операций
	CurrentDepth       int       `json:"current_depth"`       // Глубина текущего узла
	BranchCount        int       `json:"branch_count"`        // Количество именованных ветвей
	CompressionSavings int       `json:"compression_savings"` // Узлов удалено сжатием
}

// TreeSnapshot представляет полное сериализуемое состояние дерева истории
type TreeSnapshot struct {
	SavedAt    time.Time              `json:"saved_at"`    // Время сохранения снимка
	Nodes      map[uint64]HistoryNode `json:"nodes"`       // Все узлы дерева
	Branches   map[string]uint64      `json:"branches"`    // Именованные ветви
	DocumentID string                 `json:"document_id"` // Идентификатор документа (UUID)
	Stats      TreeStats              `json:"stats"`       // Статистика дерева
	Root       uint64                 `json:"root"`        // Корневой узел (0 = пустое дерево)
	Current    uint64                 `json:"current"`     // Текущий узел (0 = пустое дерево)
	MaxNodes   int                    `json:"max_nodes"`   // Порог автоматического сжатия
}
