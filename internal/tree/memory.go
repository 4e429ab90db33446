package tree

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikbrunner/bm/internal/model"
)

// Memory is a Store over an in-memory model.Tree.
type Memory struct {
	mu   sync.Mutex
	tree *model.Tree
}

// NewMemory wraps t. A nil t starts from model.NewTree().
func NewMemory(t *model.Tree) *Memory {
	if t == nil {
		t = model.NewTree()
	}
	t.EnsureFixed()
	return &Memory{tree: t}
}

// Snapshot returns a deep copy of the current tree.
func (m *Memory) Snapshot() *model.Tree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Clone()
}

// Import merges imported nodes below parentID and returns the counts.
func (m *Memory) Import(parentID string, nodes []model.Node) (added, skipped int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.folder(parentID); err != nil {
		return 0, 0, err
	}
	added, skipped = m.tree.ImportMerge(parentID, nodes)
	return added, skipped, nil
}

func (m *Memory) folder(id string) (*model.Node, error) {
	n := m.tree.NodeByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !n.IsFolder() {
		return nil, fmt.Errorf("%w: %s", ErrNotFolder, id)
	}
	return n, nil
}

// Children implements Store.
func (m *Memory) Children(ctx context.Context, parentID string) ([]model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.folder(parentID); err != nil {
		return nil, err
	}
	return m.tree.Children(parentID), nil
}

// CreateFolder implements Store.
func (m *Memory) CreateFolder(ctx context.Context, parentID, title string) (model.Node, error) {
	if err := ctx.Err(); err != nil {
		return model.Node{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.folder(parentID); err != nil {
		return model.Node{}, err
	}
	n := model.NewFolder(model.NewFolderParams{Title: title, ParentID: parentID})
	m.tree.Nodes = append(m.tree.Nodes, n)
	return n, nil
}

// Move implements Store.
func (m *Memory) Move(ctx context.Context, id, parentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if model.IsFixed(id) {
		return fmt.Errorf("%w: %s", ErrFixedNode, id)
	}
	if m.tree.NodeByID(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := m.folder(parentID); err != nil {
		return err
	}
	if m.tree.IsAncestor(id, parentID) {
		return fmt.Errorf("%w: %s into %s", ErrCycle, id, parentID)
	}
	m.tree.MoveToEnd(id, parentID)
	return nil
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, id string, changes Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if model.IsFixed(id) {
		return fmt.Errorf("%w: %s", ErrFixedNode, id)
	}
	n := m.tree.NodeByID(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if changes.Title != nil {
		n.Title = *changes.Title
	}
	return nil
}

// RemoveTree implements Store.
func (m *Memory) RemoveTree(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if model.IsFixed(id) {
		return fmt.Errorf("%w: %s", ErrFixedNode, id)
	}
	if m.tree.RemoveSubtree(id) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
