package history

import "github.com/iudanet/drafthist/internal/models"

// DependencyGraph строит граф зависимостей операций: для каждого узла —
// объединение явных зависимостей операции и неявной зависимости от
// родителя в дереве. Граф вычисляется по запросу и не поддерживается
// инкрементально; топологическую сортировку при необходимости
// выполняет вызывающая сторона.
func (t *Tree) DependencyGraph() map[models.OperationID][]models.OperationID {
	graph := make(map[models.OperationID][]models.OperationID, len(t.nodes))

	for id, node := range t.nodes {
		// Неявная зависимость от родителя
		var implicit []models.OperationID
		if !node.Parent.IsNull() {
			implicit = []models.OperationID{node.Parent}
		}

		graph[id] = unionOperationIDs(node.Operation.Dependencies, implicit)
	}

	return graph
}
