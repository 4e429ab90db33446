package search

import (
	"github.com/nikbrunner/bm/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Set            model.BookmarkSet
	MatchedIndexes []int
	Score          int
}

// setNames implements fuzzy.Source for a set slice.
type setNames []model.BookmarkSet

func (s setNames) String(i int) string {
	return s[i].Name
}

func (s setNames) Len() int {
	return len(s)
}

// FuzzySearchSets searches sets by name using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchSets(sets []model.BookmarkSet, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, setNames(sets))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Set:            sets[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Resolve finds the sets a command-line query refers to.
// An exact id wins, then an exact name, then fuzzy name matches.
// More than one result means the query was ambiguous.
func Resolve(sets []model.BookmarkSet, query string) []SearchResult {
	for _, s := range sets {
		if s.ID == query {
			return []SearchResult{{Set: s}}
		}
	}
	for _, s := range sets {
		if s.Name == query {
			return []SearchResult{{Set: s}}
		}
	}
	return FuzzySearchSets(sets, query)
}
