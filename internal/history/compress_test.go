package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drafthist/internal/models"
)

func TestCompressHistory_MergesConsecutiveMoves(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1, 2}
	addOps(t, tree,
		moveOp(entities, 3, 0, "Move right"),
		moveOp(entities, 0, 4, "Move up"),
	)

	require.NoError(t, tree.CompressHistory())

	assert.Equal(t, 1, tree.Len(), "Node count must decrease by exactly 1")
	assert.Equal(t, 1, tree.Stats().CompressionSavings)

	// Слитая операция суммирует смещения
	merged, ok := tree.FindOperation(tree.Root())
	require.True(t, ok)
	payload, ok := merged.Payload.(models.MoveEntitiesPayload)
	require.True(t, ok)
	assert.Equal(t, models.Vector2{X: 3, Y: 4}, payload.Offset)
	assert.Equal(t, entities, payload.EntityIDs)

	// Слитый узел стал корнем и текущим узлом
	assert.Equal(t, tree.Root(), tree.Current())
	node, ok := tree.Node(tree.Root())
	require.True(t, ok)
	assert.True(t, node.IsActive)
	assert.Equal(t, 0, tree.Stats().CurrentDepth)
}

func TestCompressHistory_MergesVariableModifications(t *testing.T) {
	tree := NewTree(100)

	addOps(t, tree,
		models.NewModifyVariable(7, 1.0, 2.0, "width = 2"),
		models.NewModifyVariable(7, 2.0, 5.0, "width = 5"),
	)

	require.NoError(t, tree.CompressHistory())
	require.Equal(t, 1, tree.Len())

	merged, ok := tree.FindOperation(tree.Root())
	require.True(t, ok)
	payload, ok := merged.Payload.(models.ModifyVariablePayload)
	require.True(t, ok)

	assert.Equal(t, models.VariableID(7), payload.VariableID)
	assert.Equal(t, 1.0, payload.PreviousValue, "Merged operation keeps the original previous value")
	assert.Equal(t, 5.0, payload.NewValue, "Merged operation takes the latest new value")
}

func TestCompressHistory_DifferentVariablesNotMerged(t *testing.T) {
	tree := NewTree(100)

	addOps(t, tree,
		models.NewModifyVariable(7, 1.0, 2.0, "width = 2"),
		models.NewModifyVariable(8, 0.0, 3.0, "height = 3"),
	)

	require.NoError(t, tree.CompressHistory())
	assert.Equal(t, 2, tree.Len())
}

func TestCompressHistory_DifferentEntitySetsNotMerged(t *testing.T) {
	tree := NewTree(100)

	addOps(t, tree,
		moveOp([]models.EntityID{1, 2}, 3, 0, "Move selection"),
		moveOp([]models.EntityID{1, 3}, 0, 4, "Move other selection"),
	)

	require.NoError(t, tree.CompressHistory())
	assert.Equal(t, 2, tree.Len())
}

func TestCompressHistory_MixedKindsNotMerged(t *testing.T) {
	tree := NewTree(100)

	entity := models.Entity{ID: 1}
	addOps(t, tree,
		models.NewCreateEntity(entity, "Create"),
		models.NewDeleteEntity(1, &entity, "Delete"),
	)

	require.NoError(t, tree.CompressHistory())

	assert.Equal(t, 2, tree.Len(), "Non-mergeable adjacency must be preserved")
	assert.Equal(t, 0, tree.Stats().CompressionSavings)
}

func TestCompressHistory_ChainCollapsesInOnePass(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{5}
	addOps(t, tree,
		moveOp(entities, 1, 0, "step 1"),
		moveOp(entities, 1, 0, "step 2"),
		moveOp(entities, 1, 0, "step 3"),
		moveOp(entities, 1, 0, "step 4"),
	)

	require.NoError(t, tree.CompressHistory())

	require.Equal(t, 1, tree.Len())
	assert.Equal(t, 3, tree.Stats().CompressionSavings)

	merged, ok := tree.FindOperation(tree.Root())
	require.True(t, ok)
	payload := merged.Payload.(models.MoveEntitiesPayload)
	assert.Equal(t, models.Vector2{X: 4, Y: 0}, payload.Offset)
}

func TestCompressHistory_SkipsBranchPoints(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	ids := addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 2, 0, "move 2"),
	)

	// Ответвляемся от первой операции: у нее становится два ребенка
	require.NoError(t, tree.GotoOperation(ids[0]))
	addOps(t, tree, moveOp(entities, 5, 0, "side move"))

	require.NoError(t, tree.CompressHistory())

	assert.Equal(t, 3, tree.Len(),
		"A parent with several children must not be merged: siblings diverged from its state")
}

func TestCompressHistory_PreservesDeeperStructure(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 2, 0, "move 2"),
		createOp(9, "create"),
	)

	require.NoError(t, tree.CompressHistory())

	// Два move слиты, create переподвешен к слитому узлу
	require.Equal(t, 2, tree.Len())

	rootNode, ok := tree.Node(tree.Root())
	require.True(t, ok)
	require.Len(t, rootNode.Children, 1)

	child, ok := tree.Node(rootNode.Children[0])
	require.True(t, ok)
	assert.Equal(t, tree.Root(), child.Parent)
	assert.Equal(t, 1, child.Depth, "Re-parented subtree depths must shrink by one")
	assert.Equal(t, "create", child.Operation.Description)

	// Текущий узел остался на вершине цепочки, undo-стек перестроен
	assert.Equal(t, child.ID, tree.Current())
	assert.Equal(t, 1, tree.Stats().CurrentDepth)

	op := tree.Undo()
	require.NotNil(t, op)
	assert.Equal(t, child.ID, op.ID)
	assert.Equal(t, tree.Root(), tree.Current())
}

func TestCompressHistory_RemapsBranchTargets(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	ids := addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 2, 0, "move 2"),
	)

	require.NoError(t, tree.CreateBranch("wip", ids[1]))
	require.NoError(t, tree.CompressHistory())

	branches := tree.Branches()
	require.Contains(t, branches, "wip")
	assert.Equal(t, tree.Root(), branches["wip"], "Branch target is remapped to the merged node")

	// Ветвь остается переключаемой
	require.NoError(t, tree.SwitchBranch("wip"))
	assert.Equal(t, tree.Root(), tree.Current())
}

func TestCompressHistory_SkipsPendingRedoPath(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	ids := addOps(t, tree,
		moveOp(entities, 3, 0, "Move right"),
		moveOp(entities, 0, 4, "Move up"),
	)

	// Документ видел только первое перемещение
	require.NotNil(t, tree.Undo())
	require.NoError(t, tree.CompressHistory())

	assert.Equal(t, 2, tree.Len(), "Operations awaiting redo must not be merged")

	current := tree.CurrentOperations()
	require.Len(t, current, 1)
	payload, ok := current[0].Payload.(models.MoveEntitiesPayload)
	require.True(t, ok)
	assert.Equal(t, models.Vector2{X: 3, Y: 0}, payload.Offset,
		"Current path must keep matching the document state")

	// Отмененное будущее остается повторяемым
	redone := tree.Redo()
	require.NotNil(t, redone)
	assert.Equal(t, ids[1], redone.ID)
	assert.Equal(t, ids[1], tree.Current())
}

func TestCompressHistory_MergesBelowPendingRedo(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	ids := addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 2, 0, "move 2"),
		moveOp(entities, 4, 0, "move 3"),
	)

	require.NotNil(t, tree.Undo())
	require.NoError(t, tree.CompressHistory())

	// Пара ниже текущего узла слита, вершина на redo-стеке уцелела
	require.Equal(t, 2, tree.Len())

	current := tree.CurrentOperations()
	require.Len(t, current, 1)
	payload, ok := current[0].Payload.(models.MoveEntitiesPayload)
	require.True(t, ok)
	assert.Equal(t, models.Vector2{X: 3, Y: 0}, payload.Offset)

	redone := tree.Redo()
	require.NotNil(t, redone)
	assert.Equal(t, ids[2], redone.ID)

	top, ok := tree.Node(ids[2])
	require.True(t, ok)
	assert.Equal(t, tree.Root(), top.Parent, "Surviving redo node is re-parented to the merged node")
	assert.Equal(t, 1, top.Depth)
}

func TestCompressHistory_Idempotent(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1}
	addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 2, 0, "move 2"),
		createOp(3, "create"),
	)

	require.NoError(t, tree.CompressHistory())
	nodesAfterFirst := tree.Len()
	savingsAfterFirst := tree.Stats().CompressionSavings

	require.NoError(t, tree.CompressHistory())
	assert.Equal(t, nodesAfterFirst, tree.Len())
	assert.Equal(t, savingsAfterFirst, tree.Stats().CompressionSavings)
}

func TestCompressHistory_EmptyTree(t *testing.T) {
	tree := NewTree(100)
	require.NoError(t, tree.CompressHistory())
	assert.Equal(t, 0, tree.Len())
}

func TestCompressHistory_MergedOperationMetadata(t *testing.T) {
	tree := NewTree(100)

	entities := []models.EntityID{1, 2}
	first := models.NewMoveEntities(entities, models.Vector2{X: 1, Y: 0}, nil, "Move right").
		WithDependencies(100).
		WithAffectedEntities(1, 2)
	second := models.NewMoveEntities(entities, models.Vector2{X: 0, Y: 1}, nil, "Move up").
		WithDependencies(100, 101).
		WithAffectedEntities(2)

	require.NoError(t, tree.AddOperation(first))
	require.NoError(t, tree.AddOperation(second))
	require.NoError(t, tree.CompressHistory())

	merged, ok := tree.FindOperation(tree.Root())
	require.True(t, ok)

	assert.NotEqual(t, first.ID, merged.ID, "Merged operation gets a brand-new id")
	assert.NotEqual(t, second.ID, merged.ID)
	assert.Contains(t, merged.Description, "Move right")
	assert.Contains(t, merged.Description, "Move up")
	assert.Equal(t, []models.OperationID{100, 101}, merged.Dependencies)
	assert.Equal(t, []models.EntityID{1, 2}, merged.AffectedEntities)
}

func TestAddOperation_AutoCompressAtCeiling(t *testing.T) {
	tree := NewTree(3)

	entities := []models.EntityID{1}
	addOps(t, tree,
		moveOp(entities, 1, 0, "move 1"),
		moveOp(entities, 1, 0, "move 2"),
		moveOp(entities, 1, 0, "move 3"),
	)
	require.Equal(t, 3, tree.Len())

	// Четвертая операция упирается в потолок: дерево сжимается перед вставкой
	addOps(t, tree, moveOp(entities, 1, 0, "move 4"))

	assert.LessOrEqual(t, tree.Len(), 3, "Auto-compression must bound node growth")
	assert.Equal(t, 2, tree.Stats().CompressionSavings)
	assert.Equal(t, 4, tree.Stats().TotalOperations, "TotalOperations counts every recorded operation")
}
