package models

import "time"

// HistoryNode узел дерева истории: операция плюс связи в дереве.
// Связи хранятся как идентификаторы, а не указатели — единственным
// владельцем узлов остается карта дерева.
type HistoryNode struct {
	Operation Operation     `json:"operation"` // Operation записанная операция
	Children  []OperationID `json:"children"`  // Children дочерние узлы (больше одного = точка ветвления)
	ID        OperationID   `json:"id"`        // ID идентификатор узла (равен Operation.ID)
	Parent    OperationID   `json:"parent"`    // Parent родительский узел (NullOperationID только у корня)
	Depth     int           `json:"depth"`     // Depth глубина узла (корень = 0)
	IsActive  bool          `json:"is_active"` // IsActive true только у текущего узла
}

// NewHistoryNode создает узел для операции с заданным родителем и глубиной.
func NewHistoryNode(operation Operation, parent OperationID, depth int) *HistoryNode {
	return &HistoryNode{
		ID:        operation.ID,
		Operation: operation,
		Parent:    parent,
		Depth:     depth,
		IsActive:  true,
	}
}

// IsRoot возвращает true, если узел является корнем дерева.
func (n *HistoryNode) IsRoot() bool {
	return n.Parent.IsNull()
}

// IsBranchPoint возвращает true, если от узла отходит больше одной ветви.
func (n *HistoryNode) IsBranchPoint() bool {
	return len(n.Children) > 1
}

// Clone создает копию узла с независимым списком детей.
func (n *HistoryNode) Clone() *HistoryNode {
	children := make([]OperationID, len(n.Children))
	copy(children, n.Children)

	return &HistoryNode{
		ID:        n.ID,
		Operation: n.Operation,
		Parent:    n.Parent,
		Children:  children,
		Depth:     n.Depth,
		IsActive:  n.IsActive,
	}
}

// HistoryStats агрегированная статистика дерева истории.
type HistoryStats struct {
	LastOperationTime  time.Time `json:"last_operation_time"` // LastOperationTime время последней записанной операции
	TotalOperations    int       `json:"total_operations"`    // TotalOperations всего записано операций за сессию
	CurrentDepth       int       `json:"current_depth"`       // CurrentDepth глубина текущего узла
	BranchCount        int       `json:"branch_count"`        // BranchCount количество именованных ветвей
	CompressionSavings int       `json:"compression_savings"` // CompressionSavings узлов удалено сжатием
}
