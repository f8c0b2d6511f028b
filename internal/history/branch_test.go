package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/drafthist/internal/models"
)

func TestCreateBranch(t *testing.T) {
	tree := NewTree(100)
	ids := addOps(t, tree, createOp(1, "op 1"), createOp(2, "op 2"))

	require.NoError(t, tree.CreateBranch("experiment", ids[0]))

	branches := tree.Branches()
	assert.Equal(t, ids[0], branches["experiment"])
	assert.Equal(t, 1, tree.Stats().BranchCount)
}

func TestCreateBranch_Errors(t *testing.T) {
	tree := NewTree(100)
	ids := addOps(t, tree, createOp(1, "op 1"))

	tests := []struct {
		name    string
		branch  string
		from    models.OperationID
		wantErr error
		setup   func(t *testing.T)
	}{
		{
			name:    "unknown operation",
			branch:  "lost",
			from:    models.OperationID(404),
			wantErr: ErrOperationNotFound,
		},
		{
			name:   "duplicate name",
			branch: "main",
			from:   ids[0],
			setup: func(t *testing.T) {
				require.NoError(t, tree.CreateBranch("main", ids[0]))
			},
			wantErr: ErrBranchExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}
			err := tree.CreateBranch(tt.branch, tt.from)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBranch_InvalidName(t *testing.T) {
	tree := NewTree(100)
	ids := addOps(t, tree, createOp(1, "op 1"))

	err := tree.CreateBranch("имя с пробелами", ids[0])
	require.Error(t, err)
	assert.Empty(t, tree.Branches())
}

func TestSwitchBranch(t *testing.T) {
	tree := NewTree(100)

	ids := addOps(t, tree,
		createOp(1, "op X"),
		createOp(2, "op after X 1"),
		createOp(3, "op after X 2"),
	)

	require.NoError(t, tree.CreateBranch("b", ids[0]))

	// Сколько бы операций ни было добавлено после X,
	// переключение на ветвь возвращает путь, оканчивающийся на X
	addOps(t, tree, createOp(4, "op after X 3"))

	require.NoError(t, tree.SwitchBranch("b"))

	current := tree.CurrentOperations()
	require.Len(t, current, 1)
	assert.Equal(t, ids[0], current[0].ID)
	assert.Equal(t, ids[0], tree.Current())
}

func TestSwitchBranch_Unknown(t *testing.T) {
	tree := NewTree(100)
	addOps(t, tree, createOp(1, "op 1"))

	err := tree.SwitchBranch("nope")
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestSwitchBranch_ThenEditCreatesFork(t *testing.T) {
	tree := NewTree(100)

	ids := addOps(t, tree, createOp(1, "base"), createOp(2, "main work"))
	require.NoError(t, tree.CreateBranch("alt", ids[0]))

	require.NoError(t, tree.SwitchBranch("alt"))
	altIDs := addOps(t, tree, createOp(3, "alternative work"))

	base, ok := tree.Node(ids[0])
	require.True(t, ok)
	assert.True(t, base.IsBranchPoint())

	// Обе линии истории достижимы через goto
	require.NoError(t, tree.GotoOperation(ids[1]))
	assert.Equal(t, ids[1], tree.Current())
	require.NoError(t, tree.GotoOperation(altIDs[0]))
	assert.Equal(t, altIDs[0], tree.Current())
}

func TestBranches_ReturnsCopy(t *testing.T) {
	tree := NewTree(100)
	ids := addOps(t, tree, createOp(1, "op 1"))
	require.NoError(t, tree.CreateBranch("b", ids[0]))

	branches := tree.Branches()
	branches["b"] = models.OperationID(999)
	branches["rogue"] = models.OperationID(1000)

	fresh := tree.Branches()
	assert.Equal(t, ids[0], fresh["b"])
	assert.NotContains(t, fresh, "rogue")
}
