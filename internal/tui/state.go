package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/tui/layout"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCreate
	ModeRename
	ModeConfirmDelete
	ModeHelp
)

// MessageType selects how the status line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// ModalState holds state for the create, rename and delete dialogs.
type ModalState struct {
	NameInput textinput.Model
	SetID     string // set being renamed or deleted

	// Delete dialog. TargetIdx indexes Targets; -1 = delete all bookmarks.
	Targets   []model.BookmarkSet
	TargetIdx int
}

// NewModalState creates a new ModalState with an initialized input.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	input := textinput.New()
	input.Placeholder = "Set name"
	input.CharLimit = cfg.Input.NameCharLimit
	input.Width = cfg.Input.Width

	return ModalState{
		NameInput: input,
		TargetIdx: -1,
	}
}

// Reset clears the modal for a new session.
func (m *ModalState) Reset() {
	m.NameInput.Reset()
	m.NameInput.Blur()
	m.SetID = ""
	m.Targets = nil
	m.TargetIdx = -1
}

// MergeTarget returns the selected merge target id, or "" to discard.
func (m *ModalState) MergeTarget() string {
	if m.TargetIdx < 0 || m.TargetIdx >= len(m.Targets) {
		return ""
	}
	return m.Targets[m.TargetIdx].ID
}

// CycleTarget moves the delete dialog selection by delta. The cycle is
// every merge target followed by "delete all".
func (m *ModalState) CycleTarget(delta int) {
	n := len(m.Targets) + 1
	pos := m.TargetIdx
	if pos < 0 {
		pos = len(m.Targets)
	}
	pos = ((pos+delta)%n + n) % n
	if pos == len(m.Targets) {
		pos = -1
	}
	m.TargetIdx = pos
}
