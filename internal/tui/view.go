package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bm/internal/tui/layout"
)

const activeMarker = "● "

func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeCreate, ModeRename, ModeConfirmDelete:
		return a.renderModal()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Bookmark Sets")+"\n",
		a.renderList(),
		a.renderStatusLine(),
		a.renderHints(a.getContextualHints()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, a.styles.App.Render(content))
}

func (a App) renderList() string {
	height := layout.CalculateListHeight(a.height, a.layoutConfig.List)

	if !a.loaded {
		return a.styles.Empty.Render("Loading...") + strings.Repeat("\n", height-1)
	}
	if len(a.sets) == 0 {
		return a.styles.Empty.Render("No sets. Press a to create one.") + strings.Repeat("\n", height-1)
	}

	width := layout.CalculateItemWidth(a.width, a.layoutConfig.List)
	start, end := layout.CalculateVisibleListItems(height, a.cursor, len(a.sets))

	rows := make([]string, 0, height)
	for i := start; i < end; i++ {
		set := a.sets[i]
		prefix := "  "
		if set.IsActive {
			prefix = activeMarker
		}
		text, _ := layout.TruncateWithPrefix(set.Name, width, prefix, a.layoutConfig.Text)

		switch {
		case i == a.cursor:
			rows = append(rows, a.styles.ItemSelected.Width(width).Render(text))
		case set.IsActive:
			rows = append(rows, a.styles.Item.Render(a.styles.Active.Render(text)))
		default:
			rows = append(rows, a.styles.Item.Render(text))
		}
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

// renderStatusLine renders the last message, or a blank line.
func (a App) renderStatusLine() string {
	switch {
	case a.messageText == "":
		return ""
	case a.messageType == MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case a.messageType == MessageSuccess:
		return a.styles.Success.Render("✓ " + a.messageText)
	default:
		return a.styles.Help.Render(a.messageText)
	}
}

func (a App) renderModal() string {
	var b strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.WidthPercent, a.layoutConfig.Modal)
	modalStyle := a.styles.Modal.Width(modalWidth)

	switch a.mode {
	case ModeCreate:
		b.WriteString(a.styles.Title.Render("New Set") + "\n\n")
		b.WriteString("Name:\n")
		b.WriteString(a.modal.NameInput.View())
		b.WriteString("\n\n")
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "create"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeRename:
		b.WriteString(a.styles.Title.Render("Rename Set") + "\n\n")
		b.WriteString("Name:\n")
		b.WriteString(a.modal.NameInput.View())
		b.WriteString("\n\n")
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "save"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeConfirmDelete:
		b.WriteString(a.renderDeleteDialog(modalWidth))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(b.String()))
}

func (a App) renderDeleteDialog(width int) string {
	var b strings.Builder

	name := a.modal.SetID
	for _, s := range a.sets {
		if s.ID == a.modal.SetID {
			name = s.Name
		}
	}
	b.WriteString(a.styles.Title.Render(fmt.Sprintf("Delete %q?", name)) + "\n\n")

	if len(a.modal.Targets) == 0 {
		b.WriteString("This is the last set.\n")
		b.WriteString(a.styles.Help.Render("Your bookmarks will stay in the bookmark bar.") + "\n\n")
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "delete"},
			{Key: "Esc", Desc: "cancel"},
		}))
		return b.String()
	}

	option := func(text string, selected bool) string {
		if selected {
			return a.styles.ItemSelected.Render("▸ " + text)
		}
		return a.styles.Item.Render("  " + text)
	}

	// With "delete all" selected, the merge line still names a target.
	target := a.modal.Targets[0]
	if idx := a.modal.TargetIdx; idx >= 0 {
		target = a.modal.Targets[idx]
	}
	merge, _ := layout.TruncateText("Merge bookmarks into ‹ "+target.Name+" ›", width-6, a.layoutConfig.Text)

	b.WriteString(option(merge, a.modal.TargetIdx >= 0) + "\n")
	b.WriteString(option("Delete all bookmarks", a.modal.TargetIdx < 0) + "\n\n")
	b.WriteString(a.renderHintsInline([]Hint{
		{Key: "h/l", Desc: "choose"},
		{Key: "Enter", Desc: "confirm"},
		{Key: "Esc", Desc: "cancel"},
	}))
	return b.String()
}

func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("l    switch\n")
	left.WriteString("Y    yank id\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    new set\n")
	right.WriteString("e    rename\n")
	right.WriteString("d    delete\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("delete dialog") + "\n")
	right.WriteString("h/l  merge target\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close"))

	colWidth := a.layoutConfig.Modal.HelpColumnWidth
	leftCol := lipgloss.NewStyle().Width(colWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(colWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, modalStyle.Render(cols))
}
