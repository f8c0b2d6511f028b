package history

import (
	"fmt"

	"github.com/iudanet/drafthist/internal/models"
	"github.com/iudanet/drafthist/internal/validation"
)

// CreateBranch регистрирует именованную ветвь, указывающую на
// существующий узел дерева. Ветвь — чистое именование: она не создает
// узлов и не ограничивает дальнейшее редактирование.
func (t *Tree) CreateBranch(name string, from models.OperationID) error {
	if err := validation.ValidateBranchName(name); err != nil {
		return fmt.Errorf("invalid branch name: %w", err)
	}

	if _, ok := t.nodes[from]; !ok {
		return fmt.Errorf("%w: %d", ErrOperationNotFound, from)
	}

	if _, exists := t.branches[name]; exists {
		return fmt.Errorf("%w: %q", ErrBranchExists, name)
	}

	t.branches[name] = from
	t.stats.BranchCount++

	return nil
}

// SwitchBranch переключает текущую позицию на узел именованной ветви.
func (t *Tree) SwitchBranch(name string) error {
	target, ok := t.branches[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBranchNotFound, name)
	}

	if err := t.GotoOperation(target); err != nil {
		return fmt.Errorf("failed to switch to branch %q: %w", name, err)
	}

	return nil
}

// Branches возвращает копию карты именованных ветвей.
func (t *Tree) Branches() map[string]models.OperationID {
	branches := make(map[string]models.OperationID, len(t.branches))
	for name, id := range t.branches {
		branches[name] = id
	}
	return branches
}
