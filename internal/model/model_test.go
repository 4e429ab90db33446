package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nikbrunner/bm/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func stringPtr(s string) *string { return &s }

func titles(nodes []model.Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestNewTree_SeedsFixedFolders(t *testing.T) {
	tree := model.NewTree()

	bar := tree.NodeByID(model.BarID)
	other := tree.NodeByID(model.OtherID)
	assert.Assert(t, bar != nil)
	assert.Assert(t, other != nil)
	assert.Assert(t, bar.IsFolder())
	assert.Assert(t, bar.ParentID == nil)

	// Idempotent
	tree.EnsureFixed()
	assert.Check(t, is.Len(tree.Nodes, 2))
}

func TestNode_JSONOmitsEmptyURL(t *testing.T) {
	folder := model.Node{ID: "f1", Title: "Work", ParentID: stringPtr(model.BarID)}
	data, err := json.Marshal(folder)
	assert.NilError(t, err)
	assert.Check(t, !strings.Contains(string(data), `"url"`))

	var got model.Node
	assert.NilError(t, json.Unmarshal(data, &got))
	assert.Check(t, got.IsFolder())
	assert.Equal(t, *got.ParentID, model.BarID)
}

func TestTree_ChildrenPreservesOrder(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		model.Node{ID: "a", Title: "A", URL: "https://a.com", ParentID: stringPtr(model.BarID)},
		model.Node{ID: "x", Title: "X", ParentID: stringPtr(model.OtherID)},
		model.Node{ID: "b", Title: "B", URL: "https://b.com", ParentID: stringPtr(model.BarID)},
	)

	assert.DeepEqual(t, titles(tree.Children(model.BarID)), []string{"A", "B"})
	assert.DeepEqual(t, titles(tree.Children("missing")), []string{})
}

func TestTree_MoveToEnd(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		model.Node{ID: "a", Title: "A", URL: "https://a.com", ParentID: stringPtr(model.BarID)},
		model.Node{ID: "b", Title: "B", URL: "https://b.com", ParentID: stringPtr(model.BarID)},
		model.Node{ID: "c", Title: "C", URL: "https://c.com", ParentID: stringPtr(model.OtherID)},
	)

	assert.Assert(t, tree.MoveToEnd("a", model.BarID))
	assert.DeepEqual(t, titles(tree.Children(model.BarID)), []string{"B", "A"})

	assert.Assert(t, tree.MoveToEnd("c", model.BarID))
	assert.DeepEqual(t, titles(tree.Children(model.BarID)), []string{"B", "A", "C"})
	assert.DeepEqual(t, titles(tree.Children(model.OtherID)), []string{})

	assert.Assert(t, !tree.MoveToEnd("nope", model.BarID))
}

func TestTree_RemoveSubtree(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		// Child listed before its parent, as happens after moves.
		model.Node{ID: "deep", Title: "Deep", URL: "https://deep.com", ParentID: stringPtr("sub")},
		model.Node{ID: "top", Title: "Top", ParentID: stringPtr(model.OtherID)},
		model.Node{ID: "sub", Title: "Sub", ParentID: stringPtr("top")},
		model.Node{ID: "keep", Title: "Keep", URL: "https://keep.com", ParentID: stringPtr(model.BarID)},
	)

	removed := tree.RemoveSubtree("top")

	assert.Equal(t, removed, 3)
	assert.Assert(t, tree.NodeByID("deep") == nil)
	assert.Assert(t, tree.NodeByID("keep") != nil)
}

func TestTree_IsAncestor(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		model.Node{ID: "top", Title: "Top", ParentID: stringPtr(model.OtherID)},
		model.Node{ID: "sub", Title: "Sub", ParentID: stringPtr("top")},
	)

	assert.Check(t, tree.IsAncestor("top", "sub"))
	assert.Check(t, tree.IsAncestor("sub", "sub"))
	assert.Check(t, tree.IsAncestor(model.OtherID, "sub"))
	assert.Check(t, !tree.IsAncestor("sub", "top"))
}

func TestTree_CloneIsIndependent(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes, model.Node{ID: "a", Title: "A", ParentID: stringPtr(model.BarID)})

	clone := tree.Clone()
	*clone.NodeByID("a").ParentID = model.OtherID
	clone.NodeByID("a").Title = "changed"

	assert.Equal(t, *tree.NodeByID("a").ParentID, model.BarID)
	assert.Equal(t, tree.NodeByID("a").Title, "A")
}

// === Import Merge Tests ===

func TestTree_ImportMerge_SkipsDuplicateURLs(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		model.Node{ID: "existing", Title: "Existing", URL: "https://example.com", ParentID: stringPtr(model.BarID)},
	)

	added, skipped := tree.ImportMerge(model.BarID, []model.Node{
		{ID: "new1", Title: "Duplicate", URL: "https://example.com"},
		{ID: "new2", Title: "New Site", URL: "https://newsite.com"},
	})

	assert.Equal(t, added, 1)
	assert.Equal(t, skipped, 1)
	assert.DeepEqual(t, titles(tree.Children(model.BarID)), []string{"Existing", "New Site"})
}

func TestTree_ImportMerge_ReusesFolderByName(t *testing.T) {
	tree := model.NewTree()
	tree.Nodes = append(tree.Nodes,
		model.Node{ID: "dev", Title: "Development", ParentID: stringPtr(model.BarID)},
	)

	added, _ := tree.ImportMerge(model.BarID, []model.Node{
		{ID: "imported-folder", Title: "Development"},
		{ID: "imported-sub", Title: "Go", ParentID: stringPtr("imported-folder")},
		{ID: "b1", Title: "Go Docs", URL: "https://go.dev", ParentID: stringPtr("imported-sub")},
	})

	assert.Equal(t, added, 1)
	assert.Check(t, is.Len(tree.Children(model.BarID), 1))

	sub := tree.Children("dev")
	assert.Assert(t, is.Len(sub, 1))
	assert.Equal(t, sub[0].Title, "Go")
	assert.DeepEqual(t, titles(tree.Children(sub[0].ID)), []string{"Go Docs"})
}

func TestBookmarkSet_Lookups(t *testing.T) {
	sets := []model.BookmarkSet{
		{ID: "s1", Name: "Work"},
		{ID: "s2", Name: "Home", IsActive: true},
	}

	assert.Equal(t, model.ActiveSet(sets).ID, "s2")
	assert.Equal(t, model.SetByID(sets, "s1").Name, "Work")
	assert.Assert(t, model.SetByID(sets, "nope") == nil)
	assert.Assert(t, model.ActiveSet(nil) == nil)
}
