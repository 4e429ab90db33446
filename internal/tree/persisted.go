package tree

import (
	"context"
	"fmt"

	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/storage"
)

// Persisted is a Store that saves the whole tree after every successful
// mutation, so each call is durable on its own.
type Persisted struct {
	mem     *Memory
	storage storage.Storage
}

// Open loads the tree from s and returns a Persisted store over it.
func Open(s storage.Storage) (*Persisted, error) {
	t, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	return &Persisted{mem: NewMemory(t), storage: s}, nil
}

// Snapshot returns a deep copy of the current tree.
func (p *Persisted) Snapshot() *model.Tree {
	return p.mem.Snapshot()
}

// Import merges imported nodes below parentID and saves.
func (p *Persisted) Import(parentID string, nodes []model.Node) (added, skipped int, err error) {
	added, skipped, err = p.mem.Import(parentID, nodes)
	if err != nil {
		return 0, 0, err
	}
	return added, skipped, p.save()
}

func (p *Persisted) save() error {
	if err := p.storage.Save(p.mem.Snapshot()); err != nil {
		return fmt.Errorf("save tree: %w", err)
	}
	return nil
}

// Children implements Store.
func (p *Persisted) Children(ctx context.Context, parentID string) ([]model.Node, error) {
	return p.mem.Children(ctx, parentID)
}

// CreateFolder implements Store.
func (p *Persisted) CreateFolder(ctx context.Context, parentID, title string) (model.Node, error) {
	n, err := p.mem.CreateFolder(ctx, parentID, title)
	if err != nil {
		return model.Node{}, err
	}
	return n, p.save()
}

// Move implements Store.
func (p *Persisted) Move(ctx context.Context, id, parentID string) error {
	if err := p.mem.Move(ctx, id, parentID); err != nil {
		return err
	}
	return p.save()
}

// Update implements Store.
func (p *Persisted) Update(ctx context.Context, id string, changes Changes) error {
	if err := p.mem.Update(ctx, id, changes); err != nil {
		return err
	}
	return p.save()
}

// RemoveTree implements Store.
func (p *Persisted) RemoveTree(ctx context.Context, id string) error {
	if err := p.mem.RemoveTree(ctx, id); err != nil {
		return err
	}
	return p.save()
}
