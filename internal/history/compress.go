package history

import (
	"fmt"

	"github.com/iudanet/drafthist/internal/models"
)

// CompressHistory сжимает историю, сливая смежные совместимые пары
// родитель-потомок в один узел.
//
// Сливаются только пары, где потомок является единственным ребенком
// родителя: иначе слияние изменило бы состояние, от которого
// ответвились соседние ветви. Узлы на redo-стеке тоже не сливаются:
// их операции еще не повторены документом, и слияние переписало бы
// путь под отмененным будущим. Слитый узел получает новую операцию с
// новым идентификатором и занимает место родителя; дети потомка
// переподвешиваются к нему. Курсор текущего узла и имена ветвей,
// указывавшие на слитую пару, переносятся на новый узел, после чего
// undo-стек перестраивается, а redo-стек фильтруется от удаленных
// идентификаторов. Повторный запуск безопасен и только уменьшает
// количество узлов.
func (t *Tree) CompressHistory() error {
	if t.rootNode.IsNull() {
		return nil
	}

	removed := 0

	// Redo-стек — путь от текущего узла к отмененной вершине; любая
	// пара, чей потомок лежит на нем, целиком находится на этом пути
	pendingRedo := make(map[models.OperationID]struct{}, len(t.redoStack))
	for _, id := range t.redoStack {
		pendingRedo[id] = struct{}{}
	}

	// Детерминированный обход: кандидаты в порядке preorder от корня.
	// После слияния пары родитель потомка меняется на слитый узел,
	// поэтому цепочка из N совместимых операций схлопывается за один
	// проход.
	for _, childID := range t.preorder() {
		if _, pending := pendingRedo[childID]; pending {
			continue
		}

		node, ok := t.nodes[childID]
		if !ok || node.Parent.IsNull() {
			continue
		}

		parentNode, ok := t.nodes[node.Parent]
		if !ok || len(parentNode.Children) != 1 {
			continue
		}

		merged, ok := mergeOperations(parentNode.Operation, node.Operation)
		if !ok {
			continue
		}

		t.replacePair(parentNode, node, merged)
		removed++
	}

	if removed == 0 {
		return nil
	}

	t.stats.CompressionSavings += removed

	// Перестраиваем кэшированные курсоры поверх изменившегося дерева
	if !t.currentNode.IsNull() {
		t.undoStack = t.pathFromRoot(t.currentNode)
		t.stats.CurrentDepth = t.nodes[t.currentNode].Depth
	}
	t.redoStack = t.filterExisting(t.redoStack)

	return nil
}

// preorder возвращает идентификаторы узлов в порядке обхода в глубину
// от корня (дети в порядке их списков).
func (t *Tree) preorder() []models.OperationID {
	order := make([]models.OperationID, 0, len(t.nodes))
	stack := []models.OperationID{t.rootNode}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := t.nodes[id]
		if !ok {
			continue
		}
		order = append(order, id)

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return order
}

// replacePair заменяет пару родитель-потомок одним узлом со слитой операцией.
func (t *Tree) replacePair(parentNode, childNode *models.HistoryNode, merged models.Operation) {
	newNode := models.NewHistoryNode(merged, parentNode.Parent, parentNode.Depth)
	newNode.IsActive = false
	newNode.Children = append([]models.OperationID(nil), childNode.Children...)

	delete(t.nodes, parentNode.ID)
	delete(t.nodes, childNode.ID)
	t.nodes[merged.ID] = newNode

	if parentNode.Parent.IsNull() {
		t.rootNode = merged.ID
	} else if grandParent, ok := t.nodes[parentNode.Parent]; ok {
		for i, child := range grandParent.Children {
			if child == parentNode.ID {
				grandParent.Children[i] = merged.ID
			}
		}
	}

	// Дети потомка переподвешиваются к слитому узлу; их поддеревья
	// становятся на один уровень ближе к корню
	for _, grandChild := range newNode.Children {
		if node, ok := t.nodes[grandChild]; ok {
			node.Parent = merged.ID
			t.decrementDepths(grandChild)
		}
	}

	if t.currentNode == parentNode.ID || t.currentNode == childNode.ID {
		t.currentNode = merged.ID
		newNode.IsActive = true
	}

	for name, id := range t.branches {
		if id == parentNode.ID || id == childNode.ID {
			t.branches[name] = merged.ID
		}
	}
}

// decrementDepths уменьшает глубину всех узлов поддерева на единицу.
func (t *Tree) decrementDepths(root models.OperationID) {
	stack := []models.OperationID{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := t.nodes[id]
		if !ok {
			continue
		}
		node.Depth--
		stack = append(stack, node.Children...)
	}
}

// filterExisting возвращает идентификаторы, все еще присутствующие в дереве.
func (t *Tree) filterExisting(ids []models.OperationID) []models.OperationID {
	filtered := ids[:0]
	for _, id := range ids {
		if _, ok := t.nodes[id]; ok {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// mergeOperations пытается слить две последовательные операции в одну.
//
// Сливаются только два сочетания: перемещения одного и того же набора
// сущностей (смещения суммируются, исходные позиции берутся из первой
// операции) и изменения одной и той же переменной (берется исходное
// значение первой операции и итоговое значение второй). Любые другие
// сочетания типов не сливаются — это не ошибка.
func mergeOperations(parent, child models.Operation) (models.Operation, bool) {
	switch parentPayload := parent.Payload.(type) {
	case models.MoveEntitiesPayload:
		childPayload, ok := child.Payload.(models.MoveEntitiesPayload)
		if !ok || !equalEntityIDs(parentPayload.EntityIDs, childPayload.EntityIDs) {
			return models.Operation{}, false
		}

		entityIDs := append([]models.EntityID(nil), parentPayload.EntityIDs...)
		previousPositions := append([]models.Point2(nil), parentPayload.PreviousPositions...)

		merged := models.NewMoveEntities(
			entityIDs,
			parentPayload.Offset.Add(childPayload.Offset),
			previousPositions,
			fmt.Sprintf("Merged move operations: %s + %s", parent.Description, child.Description),
		)
		return finishMerge(merged, parent, child), true

	case models.ModifyVariablePayload:
		childPayload, ok := child.Payload.(models.ModifyVariablePayload)
		if !ok || parentPayload.VariableID != childPayload.VariableID {
			return models.Operation{}, false
		}

		merged := models.NewModifyVariable(
			parentPayload.VariableID,
			parentPayload.PreviousValue,
			childPayload.NewValue,
			fmt.Sprintf("Merged variable modifications: %s -> %s", parent.Description, child.Description),
		)
		return finishMerge(merged, parent, child), true
	}

	return models.Operation{}, false
}

// finishMerge переносит на слитую операцию объединенные зависимости,
// затронутые сущности и флаг отменяемости исходной пары.
func finishMerge(merged, parent, child models.Operation) models.Operation {
	return merged.
		WithDependencies(unionOperationIDs(parent.Dependencies, child.Dependencies)...).
		WithAffectedEntities(unionEntityIDs(parent.AffectedEntities, child.AffectedEntities)...).
		WithUndoable(parent.CanUndo && child.CanUndo)
}

// equalEntityIDs сравнивает списки сущностей с учетом порядка.
func equalEntityIDs(a, b []models.EntityID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// unionOperationIDs объединяет списки идентификаторов с сохранением
// порядка и без дубликатов.
func unionOperationIDs(a, b []models.OperationID) []models.OperationID {
	seen := make(map[models.OperationID]struct{}, len(a)+len(b))
	union := make([]models.OperationID, 0, len(a)+len(b))

	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}

	return union
}

// unionEntityIDs объединяет списки сущностей с сохранением порядка
// и без дубликатов.
func unionEntityIDs(a, b []models.EntityID) []models.EntityID {
	seen := make(map[models.EntityID]struct{}, len(a)+len(b))
	union := make([]models.EntityID, 0, len(a)+len(b))

	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}

	return union
}
