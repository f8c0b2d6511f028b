// Package history реализует ветвящееся дерево истории операций CAD-документа.
//
// Каждое изменение документа записывается как неизменяемая операция
// (internal/models). Узлы дерева связаны идентификаторами через единую
// карту-арену; undo/redo стеки являются кэшем пути от корня к текущему
// узлу и перестраиваются при нелокальных переходах. Дерево принадлежит
// ровно одной сессии редактирования и не выполняет внутренней
// блокировки: конкурентный доступ исключается владельцем.
package history

import (
	"fmt"
	"strings"

	"github.com/iudanet/drafthist/internal/models"
)

// DefaultMaxNodes максимальное количество узлов по умолчанию,
// после которого запускается сжатие истории.
const DefaultMaxNodes = 1000

// Tree ветвящееся дерево истории операций.
//
// Единственный источник истины — карта nodes. Текущий узел, undo/redo
// стеки и карта ветвей являются курсорами поверх нее и никогда не
// отдаются наружу в изменяемом виде.
type Tree struct {
	nodes       map[models.OperationID]*models.HistoryNode // все узлы дерева
	branches    map[string]models.OperationID              // имя ветви -> узел
	undoStack   []models.OperationID                       // путь от корня к текущему узлу
	redoStack   []models.OperationID                       // отмененное "будущее"
	stats       models.HistoryStats
	currentNode models.OperationID // NullOperationID, если дерево пусто
	rootNode    models.OperationID
	maxNodes    int // порог автоматического сжатия
}

// NewTree создает пустое дерево истории.
// maxNodes задает порог узлов, при достижении которого AddOperation
// запускает сжатие; значения <= 0 заменяются на DefaultMaxNodes.
func NewTree(maxNodes int) *Tree {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	return &Tree{
		nodes:    make(map[models.OperationID]*models.HistoryNode),
		branches: make(map[string]models.OperationID),
		maxNodes: maxNodes,
	}
}

// AddOperation записывает операцию в дерево.
//
// Новый узел подвешивается под текущий узел (или становится корнем
// пустого дерева) и сам становится текущим. Redo-стек очищается:
// новое изменение делает отмененное будущее недостижимым для redo.
// Если дерево достигло порога maxNodes, перед вставкой выполняется
// сжатие истории.
func (t *Tree) AddOperation(op models.Operation) error {
	if op.ID.IsNull() {
		return ErrNullOperation
	}
	if _, exists := t.nodes[op.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateOperation, op.ID)
	}

	// Проверяем порог узлов
	if len(t.nodes) >= t.maxNodes {
		if err := t.CompressHistory(); err != nil {
			return fmt.Errorf("failed to compress history: %w", err)
		}
	}

	parent := t.currentNode
	depth := 0
	if !parent.IsNull() {
		depth = t.nodes[parent].Depth + 1
	}

	node := models.NewHistoryNode(op, parent, depth)
	node.IsActive = false
	t.nodes[op.ID] = node

	if parent.IsNull() {
		// Первая операция становится корнем
		t.rootNode = op.ID
	} else {
		parentNode := t.nodes[parent]
		parentNode.Children = append(parentNode.Children, op.ID)
	}

	t.setCurrentNode(op.ID)
	t.undoStack = append(t.undoStack, op.ID)
	t.redoStack = t.redoStack[:0]

	t.stats.TotalOperations++
	t.stats.LastOperationTime = op.Timestamp

	return nil
}

// Undo отменяет последнюю операцию на текущем пути.
//
// Текущий узел смещается к родителю; возвращается отмененная операция,
// чтобы редактор применил ее инверсию к документу. Если отменять
// нечего, возвращается nil — это ожидаемое состояние, а не ошибка.
func (t *Tree) Undo() *models.Operation {
	if t.currentNode.IsNull() || len(t.undoStack) == 0 {
		return nil
	}

	popped := t.undoStack[len(t.undoStack)-1]
	t.undoStack = t.undoStack[:len(t.undoStack)-1]
	t.redoStack = append(t.redoStack, popped)

	node := t.nodes[popped]
	t.setCurrentNode(node.Parent)

	op := node.Operation
	return &op
}

// Redo повторяет последнюю отмененную операцию.
//
// Возвращается операция для повторного применения к документу,
// либо nil, если redo-стек пуст.
func (t *Tree) Redo() *models.Operation {
	if len(t.redoStack) == 0 {
		return nil
	}

	popped := t.redoStack[len(t.redoStack)-1]
	t.redoStack = t.redoStack[:len(t.redoStack)-1]
	t.undoStack = append(t.undoStack, popped)

	t.setCurrentNode(popped)

	op := t.nodes[popped].Operation
	return &op
}

// GotoOperation перемещает текущую позицию к произвольному узлу дерева.
//
// Undo-стек перестраивается как путь от корня к целевому узлу,
// redo-стек очищается: переход к произвольной точке делает кэш
// будущего бессмысленным.
func (t *Tree) GotoOperation(id models.OperationID) error {
	if _, ok := t.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrOperationNotFound, id)
	}

	t.rebuildStacks(id)
	t.setCurrentNode(id)

	return nil
}

// CurrentOperations возвращает последовательность операций от корня
// к текущему узлу (старейшая первой).
func (t *Tree) CurrentOperations() []models.Operation {
	var operations []models.Operation

	current := t.currentNode
	for !current.IsNull() {
		node, ok := t.nodes[current]
		if !ok {
			break
		}
		operations = append(operations, node.Operation)
		current = node.Parent
	}

	// Разворачиваем: путь собран от текущего узла к корню
	for i, j := 0, len(operations)-1; i < j; i, j = i+1, j-1 {
		operations[i], operations[j] = operations[j], operations[i]
	}

	return operations
}

// FindOperation возвращает операцию по идентификатору.
func (t *Tree) FindOperation(id models.OperationID) (models.Operation, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return models.Operation{}, false
	}
	return node.Operation, true
}

// Node возвращает копию узла дерева по идентификатору.
func (t *Tree) Node(id models.OperationID) (*models.HistoryNode, bool) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Nodes возвращает копию всех узлов дерева.
// Используется при сериализации дерева внешним хранилищем.
func (t *Tree) Nodes() map[models.OperationID]*models.HistoryNode {
	nodes := make(map[models.OperationID]*models.HistoryNode, len(t.nodes))
	for id, node := range t.nodes {
		nodes[id] = node.Clone()
	}
	return nodes
}

// Len возвращает количество узлов в дереве.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root возвращает идентификатор корневого узла
// (NullOperationID, если дерево пусто).
func (t *Tree) Root() models.OperationID {
	return t.rootNode
}

// Current возвращает идентификатор текущего узла
// (NullOperationID, если дерево пусто).
func (t *Tree) Current() models.OperationID {
	return t.currentNode
}

// MaxNodes возвращает порог автоматического сжатия.
func (t *Tree) MaxNodes() int {
	return t.maxNodes
}

// Stats возвращает копию статистики дерева.
func (t *Tree) Stats() models.HistoryStats {
	return t.stats
}

// TreeString возвращает человекочитаемое представление дерева
// с отступами по глубине; текущий узел помечен звездочкой.
func (t *Tree) TreeString() string {
	var sb strings.Builder
	t.buildTreeString(&sb, t.rootNode, 0)
	return sb.String()
}

func (t *Tree) buildTreeString(sb *strings.Builder, id models.OperationID, depth int) {
	if id.IsNull() {
		return
	}
	node, ok := t.nodes[id]
	if !ok {
		return
	}

	marker := "  "
	if node.IsActive {
		marker = "* "
	}
	fmt.Fprintf(sb, "%s%s%d: %s\n", strings.Repeat("  ", depth), marker, node.ID, node.Operation.Description)

	for _, child := range node.Children {
		t.buildTreeString(sb, child, depth+1)
	}
}

// setCurrentNode переносит флаг is_active со старого текущего узла
// на новый и обновляет статистику глубины.
func (t *Tree) setCurrentNode(id models.OperationID) {
	if !t.currentNode.IsNull() {
		if node, ok := t.nodes[t.currentNode]; ok {
			node.IsActive = false
		}
	}

	t.currentNode = id
	t.stats.CurrentDepth = 0

	if !id.IsNull() {
		if node, ok := t.nodes[id]; ok {
			node.IsActive = true
			t.stats.CurrentDepth = node.Depth
		}
	}
}

// rebuildStacks перестраивает undo-стек как путь от корня к целевому
// узлу и очищает redo-стек. Вызывается при нелокальных переходах.
func (t *Tree) rebuildStacks(target models.OperationID) {
	t.undoStack = t.pathFromRoot(target)
	t.redoStack = nil
}

// pathFromRoot возвращает путь от корня к целевому узлу (корень первым).
func (t *Tree) pathFromRoot(target models.OperationID) []models.OperationID {
	var path []models.OperationID

	current := target
	for !current.IsNull() {
		node, ok := t.nodes[current]
		if !ok {
			break
		}
		path = append(path, current)
		current = node.Parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
