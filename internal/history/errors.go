package history

import "errors"

// Common history errors
var (
	// ErrOperationNotFound indicates that the referenced operation is not in the tree
	ErrOperationNotFound = errors.New("operation not found")

	// ErrBranchExists indicates that a branch with this name is already registered
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates that no branch with this name is registered
	ErrBranchNotFound = errors.New("branch not found")

	// ErrDuplicateOperation indicates an attempt to add an operation whose id is already in the tree
	ErrDuplicateOperation = errors.New("operation id already recorded")

	// ErrNullOperation indicates an operation carrying the null sentinel id
	ErrNullOperation = errors.New("operation has null id")

	// ErrCorruptTree indicates that a restored tree violates structural invariants
	ErrCorruptTree = errors.New("history tree is corrupt")
)
