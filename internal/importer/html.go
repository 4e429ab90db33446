package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/bm/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into nodes in document
// order. Top-level nodes have a nil ParentID; the caller decides where they
// land. A browser's exported bookmark bar folder (PERSONAL_TOOLBAR_FOLDER)
// is flattened so its contents become top-level.
func ParseHTMLBookmarks(r io.Reader) ([]model.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var nodes []model.Node

	// Track current folder stack for hierarchy
	var folderStack []*string // stack of folder IDs, nil = top level
	var pending *string       // folder waiting to be pushed on next DL
	hasPending := false

	top := func() *string {
		if len(folderStack) == 0 {
			return nil
		}
		return folderStack[len(folderStack)-1]
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name == "" {
					return
				}
				if strings.EqualFold(getAttr(n, "personal_toolbar_folder"), "true") {
					// Contents stay at the current level.
					pending, hasPending = top(), true
					return
				}

				folder := model.Node{
					ID:        model.GenerateUUID(),
					ParentID:  top(),
					Title:     name,
					CreatedAt: parseDate(getAttr(n, "add_date")),
				}
				nodes = append(nodes, folder)

				id := folder.ID
				pending, hasPending = &id, true
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				nodes = append(nodes, model.Node{
					ID:        model.GenerateUUID(),
					ParentID:  top(),
					Title:     title,
					URL:       href,
					CreatedAt: parseDate(getAttr(n, "add_date")),
				})
				return // Don't recurse into A

			case "dl":
				// Definition list - marks folder contents
				pushed := false
				if hasPending {
					folderStack = append(folderStack, pending)
					pending, hasPending = nil, false
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return nodes, nil
}

// parseDate reads an ADD_DATE unix timestamp, defaulting to now.
func parseDate(s string) time.Time {
	if s != "" {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(ts, 0)
		}
	}
	return time.Now()
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
