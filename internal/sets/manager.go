// Package sets implements bookmark bar sets on top of a bookmark tree.
//
// Every set is a folder under a single root container. The active set's
// folder is empty because its bookmarks live in the bookmark bar. The only
// other persisted fact is the active set pointer. Nothing is cached: every
// operation re-derives the sets from the tree and the pointer, and ends by
// returning the full recomputed list.
package sets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/bm/internal/logging"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/tree"
)

// ActiveSetKey is the key-value entry holding the active set's folder id.
const ActiveSetKey = "activeSetId"

const (
	DefaultRootName = "_BookmarkBarSets"
	DefaultSetName  = "Default"
)

var (
	ErrEmptyName         = errors.New("set name must not be empty")
	ErrSetNotFound       = errors.New("set not found")
	ErrMergeIntoSelf     = errors.New("cannot merge a set into itself")
	ErrInconsistentState = errors.New("inconsistent set state")
)

// KeyValue persists the active set pointer.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Manager owns all bookmark set semantics.
//
// It does no locking. Callers run one operation at a time; interleaved
// operations may leave the tree inconsistent until the next List.
type Manager struct {
	tree        tree.Store
	kv          KeyValue
	log         zerolog.Logger
	barID       string
	otherID     string
	rootName    string
	defaultName string
}

// ManagerParams holds parameters for creating a new Manager.
type ManagerParams struct {
	Tree tree.Store
	KV   KeyValue

	Logger      *zerolog.Logger // optional, discards if nil
	BarID       string          // optional, defaults to model.BarID
	OtherID     string          // optional, defaults to model.OtherID
	RootName    string          // optional, defaults to DefaultRootName
	DefaultName string          // optional, defaults to DefaultSetName
}

// NewManager creates a Manager with the given parameters.
func NewManager(params ManagerParams) *Manager {
	m := &Manager{
		tree:        params.Tree,
		kv:          params.KV,
		log:         zerolog.Nop(),
		barID:       params.BarID,
		otherID:     params.OtherID,
		rootName:    params.RootName,
		defaultName: params.DefaultName,
	}
	if params.Logger != nil {
		m.log = *params.Logger
	}
	if m.barID == "" {
		m.barID = model.BarID
	}
	if m.otherID == "" {
		m.otherID = model.OtherID
	}
	if m.rootName == "" {
		m.rootName = DefaultRootName
	}
	if m.defaultName == "" {
		m.defaultName = DefaultSetName
	}
	return m
}

// state is the derived view every operation starts from.
type state struct {
	rootID   string
	folders  []model.Node
	activeID string // empty = no active set
}

func (s state) has(id string) bool {
	return indexOf(s.folders, id) >= 0
}

func (s state) sets() []model.BookmarkSet {
	out := make([]model.BookmarkSet, 0, len(s.folders))
	for _, f := range s.folders {
		out = append(out, model.BookmarkSet{
			ID:       f.ID,
			Name:     f.Title,
			IsActive: f.ID == s.activeID,
		})
	}
	return out
}

func indexOf(nodes []model.Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func foldersOnly(nodes []model.Node) []model.Node {
	out := []model.Node{}
	for _, n := range nodes {
		if n.IsFolder() {
			out = append(out, n)
		}
	}
	return out
}

// EnsureRoot finds the root container among the other-bookmarks children,
// creating it if missing. The first folder with the reserved name wins.
func (m *Manager) EnsureRoot(ctx context.Context) (model.Node, error) {
	children, err := m.tree.Children(ctx, m.otherID)
	if err != nil {
		return model.Node{}, fmt.Errorf("find root: %w", err)
	}
	for _, n := range children {
		if n.IsFolder() && n.Title == m.rootName {
			return n, nil
		}
	}

	root, err := m.tree.CreateFolder(ctx, m.otherID, m.rootName)
	if err != nil {
		return model.Node{}, fmt.Errorf("create root: %w", err)
	}
	m.log.Info().Str("root", root.ID).Msg("Created root container")
	return root, nil
}

// List returns every set, repairing the active pointer on the way.
func (m *Manager) List(ctx context.Context) ([]model.BookmarkSet, error) {
	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.sets(), nil
}

// load derives the current state, self-healing the active pointer.
func (m *Manager) load(ctx context.Context) (state, error) {
	root, err := m.EnsureRoot(ctx)
	if err != nil {
		return state{}, err
	}

	children, err := m.tree.Children(ctx, root.ID)
	if err != nil {
		return state{}, fmt.Errorf("list sets: %w", err)
	}
	st := state{rootID: root.ID, folders: foldersOnly(children)}

	// First run: whatever sits in the bar becomes the default set.
	if len(st.folders) == 0 {
		folder, err := m.tree.CreateFolder(ctx, root.ID, m.defaultName)
		if err != nil {
			return state{}, fmt.Errorf("create default set: %w", err)
		}
		if err := m.setActive(ctx, folder.ID); err != nil {
			return state{}, err
		}
		m.log.Info().Str("set", folder.ID).Msg("Created default set from bookmark bar")
		st.folders = []model.Node{folder}
		st.activeID = folder.ID
		return st, nil
	}

	activeID, err := m.activeID(ctx)
	if err != nil {
		return state{}, err
	}

	if activeID != "" && !st.has(activeID) {
		m.log.Info().Str("pointer", activeID).Msg("Cleared stale active set pointer")
		if err := m.clearActive(ctx); err != nil {
			return state{}, err
		}
		activeID = ""
	}

	if activeID != "" {
		if err := m.unpark(ctx, activeID); err != nil {
			return state{}, err
		}
	} else {
		recovered, err := m.recoverByEmptiness(ctx, st.folders)
		if err != nil {
			return state{}, err
		}
		if recovered != "" {
			if err := m.setActive(ctx, recovered); err != nil {
				return state{}, err
			}
			m.log.Info().Str("set", recovered).Msg("Recovered active set from empty folder")
		}
		activeID = recovered
	}

	st.activeID = activeID
	return st, nil
}

// recoverByEmptiness guesses the active set after the pointer was lost.
//
// While consistent, the active set's folder is the only empty one, so the
// first empty folder in listing order is taken as active. The guess is
// wrong if several folders are empty at once (a crash mid-merge, or a set
// that was created empty and never switched to). Returns "" if no folder
// is empty.
func (m *Manager) recoverByEmptiness(ctx context.Context, folders []model.Node) (string, error) {
	for _, f := range folders {
		contents, err := m.tree.Children(ctx, f.ID)
		if err != nil {
			return "", fmt.Errorf("inspect set %s: %w", f.ID, err)
		}
		if len(contents) == 0 {
			return f.ID, nil
		}
	}
	return "", nil
}

// unpark moves anything left in the active folder into the bar.
// Only an interrupted switch or delete leaves the active folder non-empty.
func (m *Manager) unpark(ctx context.Context, activeID string) error {
	contents, err := m.tree.Children(ctx, activeID)
	if err != nil {
		return fmt.Errorf("inspect active set %s: %w", activeID, err)
	}
	if len(contents) == 0 {
		return nil
	}
	m.log.Info().Str("set", activeID).Int("count", len(contents)).Msg("Moving stranded bookmarks back to bar")
	return m.moveAll(ctx, contents, m.barID)
}

// Create adds a new empty set. The active set and the bar are untouched.
func (m *Manager) Create(ctx context.Context, name string) ([]model.BookmarkSet, error) {
	defer logging.LogOperationStart(m.log, "create")()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	folder, err := m.tree.CreateFolder(ctx, st.rootID, name)
	if err != nil {
		return nil, fmt.Errorf("create set %q: %w", name, err)
	}
	m.log.Debug().Str("set", folder.ID).Str("name", name).Msg("Created set")

	return m.List(ctx)
}

// Switch makes targetID the active set. The outgoing set's bookmarks are
// parked in its folder and the target's bookmarks move into the bar.
func (m *Manager) Switch(ctx context.Context, targetID string) ([]model.BookmarkSet, error) {
	defer logging.LogOperationStart(m.log, "switch")()

	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if st.activeID != "" && targetID == st.activeID {
		return st.sets(), nil
	}
	if !st.has(targetID) {
		return nil, fmt.Errorf("switch to %s: %w", targetID, ErrSetNotFound)
	}

	if st.activeID != "" {
		if err := m.moveChildren(ctx, m.barID, st.activeID); err != nil {
			return nil, fmt.Errorf("park set %s: %w", st.activeID, err)
		}
	}
	if err := m.moveChildren(ctx, targetID, m.barID); err != nil {
		return nil, fmt.Errorf("load set %s: %w", targetID, err)
	}
	if err := m.setActive(ctx, targetID); err != nil {
		return nil, err
	}
	m.log.Debug().Str("from", st.activeID).Str("to", targetID).Msg("Switched set")

	return m.List(ctx)
}

// Delete removes setID. With a mergeTargetID its bookmarks move into that
// set; without one they are discarded. Deleting the last set keeps its
// bookmarks in the bar.
func (m *Manager) Delete(ctx context.Context, setID, mergeTargetID string) ([]model.BookmarkSet, error) {
	defer logging.LogOperationStart(m.log, "delete")()

	if mergeTargetID != "" && mergeTargetID == setID {
		return nil, fmt.Errorf("delete %s: %w", setID, ErrMergeIntoSelf)
	}

	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if !st.has(setID) {
		return nil, fmt.Errorf("delete %s: %w", setID, ErrSetNotFound)
	}

	switch {
	case len(st.folders) == 1:
		err = m.deleteLast(ctx, st, setID)
	case mergeTargetID != "":
		if !st.has(mergeTargetID) {
			return nil, fmt.Errorf("merge into %s: %w", mergeTargetID, ErrSetNotFound)
		}
		err = m.deleteMerge(ctx, st, setID, mergeTargetID)
	default:
		err = m.deleteDiscard(ctx, st, setID)
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", setID, err)
	}

	return m.List(ctx)
}

// deleteLast removes the only set. Its bookmarks stay in (or return to)
// the bar, and the next List synthesizes a fresh default set around them.
func (m *Manager) deleteLast(ctx context.Context, st state, setID string) error {
	if setID != st.activeID {
		if err := m.moveChildren(ctx, setID, m.barID); err != nil {
			return err
		}
	}
	if err := m.tree.RemoveTree(ctx, setID); err != nil {
		return err
	}
	m.log.Debug().Str("set", setID).Msg("Deleted last set, bookmarks kept in bar")
	return m.clearActive(ctx)
}

// deleteMerge moves setID's bookmarks into targetID, then removes setID.
func (m *Manager) deleteMerge(ctx context.Context, st state, setID, targetID string) error {
	deletingActive := setID == st.activeID

	switch {
	case deletingActive && targetID == st.activeID:
		// Unreachable: only one set is active and targetID != setID.
		return fmt.Errorf("%w: merge target %s and deleted set %s both active", ErrInconsistentState, targetID, setID)

	case deletingActive:
		// The bar holds setID's bookmarks. Combine them into the target,
		// then promote the target since the active set is going away.
		if err := m.moveChildren(ctx, m.barID, targetID); err != nil {
			return err
		}
		if err := m.tree.RemoveTree(ctx, setID); err != nil {
			return err
		}
		if err := m.moveChildren(ctx, targetID, m.barID); err != nil {
			return err
		}
		if err := m.setActive(ctx, targetID); err != nil {
			return err
		}

	case targetID == st.activeID:
		// Target is live in the bar; the bookmarks join it there.
		if err := m.moveChildren(ctx, setID, m.barID); err != nil {
			return err
		}
		if err := m.tree.RemoveTree(ctx, setID); err != nil {
			return err
		}

	default:
		if err := m.moveChildren(ctx, setID, targetID); err != nil {
			return err
		}
		if err := m.tree.RemoveTree(ctx, setID); err != nil {
			return err
		}
	}

	m.log.Debug().Str("set", setID).Str("target", targetID).Msg("Merged set")
	return nil
}

// deleteDiscard removes setID together with all of its bookmarks. When the
// active set goes, the first remaining set is promoted.
func (m *Manager) deleteDiscard(ctx context.Context, st state, setID string) error {
	if setID != st.activeID {
		if err := m.tree.RemoveTree(ctx, setID); err != nil {
			return err
		}
		m.log.Debug().Str("set", setID).Msg("Deleted inactive set")
		return nil
	}

	bar, err := m.tree.Children(ctx, m.barID)
	if err != nil {
		return err
	}
	for _, n := range bar {
		if err := m.tree.RemoveTree(ctx, n.ID); err != nil {
			return err
		}
	}
	if err := m.tree.RemoveTree(ctx, setID); err != nil {
		return err
	}
	if err := m.clearActive(ctx); err != nil {
		return err
	}

	children, err := m.tree.Children(ctx, st.rootID)
	if err != nil {
		return err
	}
	remaining := foldersOnly(children)
	if len(remaining) == 0 {
		return nil
	}
	next := remaining[0].ID
	if err := m.moveChildren(ctx, next, m.barID); err != nil {
		return err
	}
	if err := m.setActive(ctx, next); err != nil {
		return err
	}
	m.log.Debug().Str("set", setID).Str("promoted", next).Msg("Deleted active set")
	return nil
}

// Rename changes a set's name. No bookmarks move.
func (m *Manager) Rename(ctx context.Context, setID, name string) ([]model.BookmarkSet, error) {
	defer logging.LogOperationStart(m.log, "rename")()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	st, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if !st.has(setID) {
		return nil, fmt.Errorf("rename %s: %w", setID, ErrSetNotFound)
	}
	if err := m.tree.Update(ctx, setID, tree.Changes{Title: &name}); err != nil {
		return nil, fmt.Errorf("rename %s: %w", setID, err)
	}

	return m.List(ctx)
}

// moveChildren moves every direct child of fromID into toID, in order.
func (m *Manager) moveChildren(ctx context.Context, fromID, toID string) error {
	children, err := m.tree.Children(ctx, fromID)
	if err != nil {
		return err
	}
	return m.moveAll(ctx, children, toID)
}

func (m *Manager) moveAll(ctx context.Context, nodes []model.Node, toID string) error {
	for _, n := range nodes {
		if err := m.tree.Move(ctx, n.ID, toID); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) activeID(ctx context.Context) (string, error) {
	id, ok, err := m.kv.Get(ctx, ActiveSetKey)
	if err != nil {
		return "", fmt.Errorf("read active set: %w", err)
	}
	if !ok {
		return "", nil
	}
	return id, nil
}

func (m *Manager) setActive(ctx context.Context, id string) error {
	if err := m.kv.Set(ctx, ActiveSetKey, id); err != nil {
		return fmt.Errorf("store active set: %w", err)
	}
	return nil
}

func (m *Manager) clearActive(ctx context.Context) error {
	if err := m.kv.Remove(ctx, ActiveSetKey); err != nil {
		return fmt.Errorf("clear active set: %w", err)
	}
	return nil
}
