package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bm/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmark-sets-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmark-sets-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportSets writes every set as a top-level folder in Netscape bookmark
// HTML format. The active set's bookmarks are read from the bar.
func ExportSets(tree *model.Tree, sets []model.BookmarkSet, barID string) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, set := range sets {
		source := set.ID
		if set.IsActive {
			source = barID
		}
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(set.Name))
		b.WriteString("    <DL><p>\n")
		writeItems(&b, tree, source, 2)
		b.WriteString("    </DL><p>\n")
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes the children of parentID in order.
func writeItems(b *strings.Builder, tree *model.Tree, parentID string, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range tree.Children(parentID) {
		if n.IsFolder() {
			fmt.Fprintf(b, "%s<DT><H3 ADD_DATE=\"%d\">%s</H3>\n", prefix, n.CreatedAt.Unix(), html.EscapeString(n.Title))
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeItems(b, tree, n.ID, indent+1)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
			continue
		}

		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(n.URL),
			n.CreatedAt.Unix(),
			html.EscapeString(n.Title),
		)
	}
}
