package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/drafthist/internal/history"
	"github.com/iudanet/drafthist/internal/idgen"
	"github.com/iudanet/drafthist/internal/models"
	"github.com/iudanet/drafthist/pkg/api"
)

// snapshotFromTree преобразует дерево в сериализуемый снимок.
func snapshotFromTree(tree *history.Tree, documentID string) (*api.TreeSnapshot, error) {
	nodes := tree.Nodes()
	apiNodes := make(map[uint64]api.HistoryNode, len(nodes))

	for id, node := range nodes {
		opJSON, err := json.Marshal(node.Operation)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal operation %d: %w", id, err)
		}

		children := make([]uint64, len(node.Children))
		for i, child := range node.Children {
			children[i] = uint64(child)
		}

		apiNodes[uint64(id)] = api.HistoryNode{
			Operation: opJSON,
			Children:  children,
			ID:        uint64(node.ID),
			Parent:    uint64(node.Parent),
			Depth:     node.Depth,
			IsActive:  node.IsActive,
		}
	}

	branches := make(map[string]uint64)
	for name, id := range tree.Branches() {
		branches[name] = uint64(id)
	}

	stats := tree.Stats()

	return &api.TreeSnapshot{
		SavedAt:    time.Now().UTC(),
		Nodes:      apiNodes,
		Branches:   branches,
		DocumentID: documentID,
		Stats: api.TreeStats{
			LastOperationTime:  stats.LastOperationTime,
			TotalOperations:    stats.TotalOperations,
			CurrentDepth:       stats.CurrentDepth,
			BranchCount:        stats.BranchCount,
			CompressionSavings: stats.CompressionSavings,
		},
		Root:     uint64(tree.Root()),
		Current:  uint64(tree.Current()),
		MaxNodes: tree.MaxNodes(),
	}, nil
}

// treeFromSnapshot восстанавливает дерево из снимка.
// Генератор идентификаторов поднимается выше максимального
// идентификатора снимка, чтобы новые операции не переиспользовали
// уже выданные значения.
func treeFromSnapshot(snapshot *api.TreeSnapshot) (*history.Tree, error) {
	nodes := make(map[models.OperationID]*models.HistoryNode, len(snapshot.Nodes))
	var maxID uint64

	for id, apiNode := range snapshot.Nodes {
		var op models.Operation
		if err := json.Unmarshal(apiNode.Operation, &op); err != nil {
			return nil, fmt.Errorf("failed to unmarshal operation %d: %w", id, err)
		}

		children := make([]models.OperationID, len(apiNode.Children))
		for i, child := range apiNode.Children {
			children[i] = models.OperationID(child)
		}

		nodes[models.OperationID(id)] = &models.HistoryNode{
			ID:        models.OperationID(apiNode.ID),
			Operation: op,
			Parent:    models.OperationID(apiNode.Parent),
			Children:  children,
			Depth:     apiNode.Depth,
			IsActive:  apiNode.IsActive,
		}

		if id > maxID {
			maxID = id
		}
	}

	branches := make(map[string]models.OperationID, len(snapshot.Branches))
	for name, id := range snapshot.Branches {
		branches[name] = models.OperationID(id)
	}

	stats := models.HistoryStats{
		LastOperationTime:  snapshot.Stats.LastOperationTime,
		TotalOperations:    snapshot.Stats.TotalOperations,
		CurrentDepth:       snapshot.Stats.CurrentDepth,
		BranchCount:        snapshot.Stats.BranchCount,
		CompressionSavings: snapshot.Stats.CompressionSavings,
	}

	tree, err := history.Restore(
		nodes,
		models.OperationID(snapshot.Root),
		models.OperationID(snapshot.Current),
		branches,
		stats,
		snapshot.MaxNodes,
	)
	if err != nil {
		return nil, err
	}

	idgen.Advance(maxID)

	return tree, nil
}
