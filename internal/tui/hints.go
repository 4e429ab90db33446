package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "switch")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, gg, G)
	Edit   []Hint // Edit hints (a, e, d)
	Action []Hint // Action hints (Enter, Y)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar: "j/k:move l:switch"
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	if len(all) == 0 {
		return ""
	}

	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return HintSet{
			Nav: []Hint{
				{Key: "j/k", Desc: "move"},
			},
			Action: []Hint{
				{Key: "l", Desc: "switch"},
				{Key: "Y", Desc: "yank id"},
			},
			Edit: []Hint{
				{Key: "a", Desc: "new"},
				{Key: "e", Desc: "rename"},
				{Key: "d", Desc: "del"},
			},
			System: []Hint{
				{Key: "?", Desc: "help"},
				{Key: "q", Desc: "quit"},
			},
		}
	case ModeCreate, ModeRename:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete:
		hints := HintSet{
			Action: []Hint{{Key: "Enter", Desc: "confirm"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
		if len(a.modal.Targets) > 0 {
			hints.Nav = []Hint{{Key: "h/l", Desc: "choose"}}
		}
		return hints
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}
