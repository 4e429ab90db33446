package model

import "time"

// Tree holds every bookmark node. Sibling order is slice order.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// NewTree creates a Tree containing only the fixed top-level folders.
func NewTree() *Tree {
	t := &Tree{Nodes: []Node{}}
	t.EnsureFixed()
	return t
}

// EnsureFixed adds the bar and other-bookmarks folders if missing.
func (t *Tree) EnsureFixed() {
	fixed := []struct{ id, title string }{
		{BarID, "Bookmarks Bar"},
		{OtherID, "Other Bookmarks"},
	}
	for _, f := range fixed {
		if t.NodeByID(f.id) == nil {
			t.Nodes = append(t.Nodes, Node{ID: f.id, Title: f.title, CreatedAt: time.Now()})
		}
	}
}

// IsFixed reports whether id names one of the fixed top-level folders.
func IsFixed(id string) bool {
	return id == BarID || id == OtherID
}

// Children returns the direct children of parentID in order.
func (t *Tree) Children(parentID string) []Node {
	result := []Node{}
	for _, n := range t.Nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			result = append(result, n)
		}
	}
	return result
}

// NodeByID finds a node by ID, returns nil if not found.
func (t *Tree) NodeByID(id string) *Node {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i]
		}
	}
	return nil
}

// IsAncestor reports whether ancestorID is id itself or one of its parents.
func (t *Tree) IsAncestor(ancestorID, id string) bool {
	for cur := t.NodeByID(id); cur != nil; {
		if cur.ID == ancestorID {
			return true
		}
		if cur.ParentID == nil {
			return false
		}
		cur = t.NodeByID(*cur.ParentID)
	}
	return false
}

// MoveToEnd reparents a node and places it after its new siblings.
// Returns false if the node does not exist.
func (t *Tree) MoveToEnd(id, parentID string) bool {
	for i := range t.Nodes {
		if t.Nodes[i].ID != id {
			continue
		}
		n := t.Nodes[i]
		n.ParentID = &parentID
		t.Nodes = append(t.Nodes[:i], t.Nodes[i+1:]...)
		t.Nodes = append(t.Nodes, n)
		return true
	}
	return false
}

// RemoveSubtree deletes a node and everything below it.
// Returns the number of nodes removed.
func (t *Tree) RemoveSubtree(id string) int {
	doomed := map[string]bool{id: true}
	// Nodes may appear before their parents after moves, so iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for _, n := range t.Nodes {
			if n.ParentID != nil && doomed[*n.ParentID] && !doomed[n.ID] {
				doomed[n.ID] = true
				changed = true
			}
		}
	}

	kept := t.Nodes[:0]
	removed := 0
	for _, n := range t.Nodes {
		if doomed[n.ID] {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	t.Nodes = kept
	return removed
}

// Clone returns a deep copy safe to hand to another goroutine.
func (t *Tree) Clone() *Tree {
	out := &Tree{Nodes: make([]Node, len(t.Nodes))}
	for i, n := range t.Nodes {
		if n.ParentID != nil {
			p := *n.ParentID
			n.ParentID = &p
		}
		out.Nodes[i] = n
	}
	return out
}

// hasURLIn checks whether a link with the given URL sits directly in parentID.
func (t *Tree) hasURLIn(parentID, url string) bool {
	for _, n := range t.Children(parentID) {
		if !n.IsFolder() && n.URL == url {
			return true
		}
	}
	return false
}

// folderNamed returns the first folder titled name directly in parentID.
func (t *Tree) folderNamed(parentID, name string) *Node {
	for _, n := range t.Children(parentID) {
		if n.IsFolder() && n.Title == name {
			return t.NodeByID(n.ID)
		}
	}
	return nil
}

// ImportMerge adds imported nodes below parentID.
// Imported nodes with a nil ParentID land directly in parentID. Folders
// with the same name at the same level are reused, and links whose URL
// already exists at their level are skipped.
func (t *Tree) ImportMerge(parentID string, nodes []Node) (added, skipped int) {
	// imported folder ID -> folder ID in this tree
	remap := map[string]string{}

	resolveParent := func(n Node) (string, bool) {
		if n.ParentID == nil {
			return parentID, true
		}
		id, ok := remap[*n.ParentID]
		return id, ok
	}

	for _, n := range nodes {
		if !n.IsFolder() {
			continue
		}
		target, ok := resolveParent(n)
		if !ok {
			continue
		}
		if existing := t.folderNamed(target, n.Title); existing != nil {
			remap[n.ID] = existing.ID
			continue
		}
		folder := NewFolder(NewFolderParams{Title: n.Title, ParentID: target})
		t.Nodes = append(t.Nodes, folder)
		remap[n.ID] = folder.ID
	}

	for _, n := range nodes {
		if n.IsFolder() {
			continue
		}
		target, ok := resolveParent(n)
		if !ok {
			skipped++
			continue
		}
		if t.hasURLIn(target, n.URL) {
			skipped++
			continue
		}
		link := NewLink(NewLinkParams{Title: n.Title, URL: n.URL, ParentID: target})
		if !n.CreatedAt.IsZero() {
			link.CreatedAt = n.CreatedAt
		}
		t.Nodes = append(t.Nodes, link)
		added++
	}

	return added, skipped
}
