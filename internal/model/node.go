package model

import "time"

// Fixed folder ids present in every tree.
const (
	BarID   = "1"
	OtherID = "2"
)

// Node is a folder or a link in the bookmark tree.
// Folders have an empty URL.
type Node struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId"` // nil = top level
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool {
	return n.URL == ""
}

// NewFolderParams holds parameters for creating a new folder Node.
type NewFolderParams struct {
	Title    string
	ParentID string
}

// NewFolder creates a folder Node with generated UUID.
func NewFolder(params NewFolderParams) Node {
	parentID := params.ParentID
	return Node{
		ID:        GenerateUUID(),
		ParentID:  &parentID,
		Title:     params.Title,
		CreatedAt: time.Now(),
	}
}

// NewLinkParams holds parameters for creating a new link Node.
type NewLinkParams struct {
	Title    string
	URL      string
	ParentID string
}

// NewLink creates a link Node with generated UUID.
func NewLink(params NewLinkParams) Node {
	parentID := params.ParentID
	return Node{
		ID:        GenerateUUID(),
		ParentID:  &parentID,
		Title:     params.Title,
		URL:       params.URL,
		CreatedAt: time.Now(),
	}
}
