package repositories

import "errors"

var (
	// ErrNodeInUse blocks taxonomy deletes while children or products still
	// reference the node.
	ErrNodeInUse = errors.New("node has children or attached products")

	// ErrSelfParent rejects a node naming itself as its own parent.
	ErrSelfParent = errors.New("node cannot be its own parent")

	// ErrDuplicateName rejects a second node with the same name under one parent.
	ErrDuplicateName = errors.New("name already exists under this parent")
)
