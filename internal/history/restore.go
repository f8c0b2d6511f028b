package history

import (
	"fmt"

	"github.com/iudanet/drafthist/internal/models"
)

// Restore восстанавливает дерево истории из сериализованного состояния.
//
// Структурные инварианты дерева проверяются до принятия данных:
// единственный корень, существующие родители с обратными ссылками,
// согласованные глубины, разрешимые цели ветвей. Нарушение любого из
// них означает поврежденный снимок и возвращается как ErrCorruptTree.
// Undo-стек и флаг активного узла пересчитываются из восстановленной
// структуры, а не доверяются снимку.
func Restore(
	nodes map[models.OperationID]*models.HistoryNode,
	root, current models.OperationID,
	branches map[string]models.OperationID,
	stats models.HistoryStats,
	maxNodes int,
) (*Tree, error) {
	tree := NewTree(maxNodes)

	if len(nodes) == 0 {
		if !root.IsNull() || !current.IsNull() {
			return nil, fmt.Errorf("%w: empty node set with non-null root or current", ErrCorruptTree)
		}
		tree.stats = stats
		return tree, nil
	}

	if root.IsNull() {
		return nil, fmt.Errorf("%w: non-empty node set without root", ErrCorruptTree)
	}

	for id, node := range nodes {
		if id.IsNull() {
			return nil, fmt.Errorf("%w: node with null id", ErrCorruptTree)
		}
		if node.ID != id || node.Operation.ID != id {
			return nil, fmt.Errorf("%w: node %d keyed under mismatched id", ErrCorruptTree, node.ID)
		}
		tree.nodes[id] = node.Clone()
	}

	rootNode, ok := tree.nodes[root]
	if !ok {
		return nil, fmt.Errorf("%w: root %d not in node set", ErrCorruptTree, root)
	}
	if !rootNode.Parent.IsNull() || rootNode.Depth != 0 {
		return nil, fmt.Errorf("%w: root %d has a parent or non-zero depth", ErrCorruptTree, root)
	}

	for id, node := range tree.nodes {
		for _, child := range node.Children {
			childNode, ok := tree.nodes[child]
			if !ok {
				return nil, fmt.Errorf("%w: node %d lists missing child %d", ErrCorruptTree, id, child)
			}
			if childNode.Parent != id {
				return nil, fmt.Errorf("%w: child %d does not point back to %d", ErrCorruptTree, child, id)
			}
		}

		if id == root {
			continue
		}

		parent, ok := tree.nodes[node.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: node %d points to missing parent %d", ErrCorruptTree, id, node.Parent)
		}
		if !containsID(parent.Children, id) {
			return nil, fmt.Errorf("%w: parent %d does not list child %d", ErrCorruptTree, node.Parent, id)
		}
		if node.Depth != parent.Depth+1 {
			return nil, fmt.Errorf("%w: node %d depth %d under parent depth %d", ErrCorruptTree, id, node.Depth, parent.Depth)
		}
	}

	if !current.IsNull() {
		if _, ok := tree.nodes[current]; !ok {
			return nil, fmt.Errorf("%w: current %d not in node set", ErrCorruptTree, current)
		}
	}

	for name, target := range branches {
		if _, ok := tree.nodes[target]; !ok {
			return nil, fmt.Errorf("%w: branch %q targets missing node %d", ErrCorruptTree, name, target)
		}
		tree.branches[name] = target
	}

	tree.rootNode = root
	tree.stats = stats

	// Флаг активности и undo-стек пересчитываются заново
	for _, node := range tree.nodes {
		node.IsActive = false
	}
	tree.setCurrentNode(current)
	if !current.IsNull() {
		tree.undoStack = tree.pathFromRoot(current)
	}

	return tree, nil
}

func containsID(ids []models.OperationID, id models.OperationID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
