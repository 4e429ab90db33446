// Package tree is the bookmark tree store the set manager mutates.
//
// Each call is independent; nothing here groups calls into transactions.
package tree

import (
	"context"
	"errors"

	"github.com/nikbrunner/bm/internal/model"
)

var (
	ErrNotFound  = errors.New("node not found")
	ErrNotFolder = errors.New("node is not a folder")
	ErrFixedNode = errors.New("cannot modify a fixed folder")
	ErrCycle     = errors.New("cannot move a folder into itself")
)

// Changes lists the fields Update may modify. Nil fields are left alone.
type Changes struct {
	Title *string
}

// Store is a tree of folders and links.
type Store interface {
	// Children returns the direct children of parentID in order.
	Children(ctx context.Context, parentID string) ([]model.Node, error)
	// CreateFolder appends a new folder to parentID.
	CreateFolder(ctx context.Context, parentID, title string) (model.Node, error)
	// Move reparents a node, placing it after its new siblings.
	Move(ctx context.Context, id, parentID string) error
	// Update applies changes to a node.
	Update(ctx context.Context, id string, changes Changes) error
	// RemoveTree deletes a node and all of its descendants.
	RemoveTree(ctx context.Context, id string) error
}
