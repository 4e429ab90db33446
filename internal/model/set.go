package model

// BookmarkSet is a named snapshot of the bookmark bar, backed by a folder.
// It is derived from the tree and the active pointer on every read.
type BookmarkSet struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// ActiveSet returns the active set, or nil if none is active.
func ActiveSet(sets []BookmarkSet) *BookmarkSet {
	for i := range sets {
		if sets[i].IsActive {
			return &sets[i]
		}
	}
	return nil
}

// SetByID finds a set by ID, returns nil if not found.
func SetByID(sets []BookmarkSet, id string) *BookmarkSet {
	for i := range sets {
		if sets[i].ID == id {
			return &sets[i]
		}
	}
	return nil
}
