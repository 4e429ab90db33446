package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/router"
	"github.com/nikbrunner/bm/internal/tui/layout"
)

// Handler answers set commands. *router.Router implements it.
type Handler interface {
	Handle(ctx context.Context, req router.Request) router.Response
}

// responseMsg carries a router answer back into Update.
type responseMsg struct {
	req  router.Request
	resp router.Response
}

// yankMsg reports the outcome of a clipboard write.
type yankMsg struct {
	id  string
	err error
}

// App is the main bubbletea model for the set manager.
type App struct {
	ctx          context.Context
	router       Handler
	confirm      bool
	copy         func(string) error
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	sets    []model.BookmarkSet
	loaded  bool
	cursor  int
	mode    Mode
	modal   ModalState
	pending bool // a request is in flight

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Router       Handler
	Context      context.Context      // optional, defaults to context.Background()
	Confirm      *bool                // optional, show the delete dialog (default true)
	Clipboard    func(string) error   // optional, defaults to the system clipboard
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	confirm := true
	if params.Confirm != nil {
		confirm = *params.Confirm
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return App{
		ctx:          ctx,
		router:       params.Router,
		confirm:      confirm,
		copy:         copyFn,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		modal:        NewModalState(cfg),
		width:        80,
		height:       24,
	}
}

// WithDimensions returns a copy of the app with fixed terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Sets returns the most recently received set list.
func (a App) Sets() []model.BookmarkSet {
	return a.sets
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the status line text.
func (a App) Message() string {
	return a.messageText
}

// DeleteTarget returns the merge target chosen in the delete dialog,
// or "" when all bookmarks will be deleted.
func (a App) DeleteTarget() string {
	return a.modal.MergeTarget()
}

func (a App) selected() *model.BookmarkSet {
	if a.cursor < 0 || a.cursor >= len(a.sets) {
		return nil
	}
	return &a.sets[a.cursor]
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

// request sends req through the router off the update loop.
func (a *App) request(req router.Request) tea.Cmd {
	a.pending = true
	h, ctx := a.router, a.ctx
	return func() tea.Msg {
		return responseMsg{req: req, resp: h.Handle(ctx, req)}
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	h, ctx := a.router, a.ctx
	req := router.Request{Type: router.GetSets}
	return func() tea.Msg {
		return responseMsg{req: req, resp: h.Handle(ctx, req)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case responseMsg:
		a.handleResponse(msg)
		return a, nil

	case yankMsg:
		if msg.err != nil {
			a.setMessage(MessageError, "Copy failed: "+msg.err.Error())
		} else {
			a.setMessage(MessageSuccess, "Copied "+msg.id)
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeCreate, ModeRename:
			return a.updateNameInput(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.Cancel) {
				a.mode = ModeNormal
			}
			return a, nil
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a *App) handleResponse(msg responseMsg) {
	a.pending = false
	if !msg.resp.Success {
		a.setMessage(MessageError, msg.resp.Error)
		return
	}

	before := len(a.sets)
	a.sets = msg.resp.Data
	a.loaded = true

	switch msg.req.Type {
	case router.CreateSet:
		if len(a.sets) > before {
			a.cursor = len(a.sets) - 1
		}
		a.setMessage(MessageSuccess, "Created "+strings.TrimSpace(msg.req.Name))
	case router.SwitchSet:
		if s := model.SetByID(a.sets, msg.req.SetID); s != nil {
			a.setMessage(MessageSuccess, "Switched to "+s.Name)
		}
	case router.RenameSet:
		a.setMessage(MessageSuccess, "Renamed to "+strings.TrimSpace(msg.req.Name))
	case router.DeleteSet:
		a.setMessage(MessageSuccess, "Deleted set")
	}

	if a.cursor >= len(a.sets) {
		a.cursor = len(a.sets) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.sets) > 0 && a.cursor < len(a.sets)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.sets) > 0 {
			a.cursor = len(a.sets) - 1
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Create):
		a.modal.Reset()
		a.mode = ModeCreate
		a.modal.NameInput.Focus()
		return a, textinput.Blink

	case a.selected() == nil || a.pending:
		// Everything below acts on the selected set.

	case key.Matches(msg, a.keys.Switch):
		return a, a.request(router.Request{Type: router.SwitchSet, SetID: a.selected().ID})

	case key.Matches(msg, a.keys.Rename):
		sel := a.selected()
		a.modal.Reset()
		a.modal.SetID = sel.ID
		a.modal.NameInput.SetValue(sel.Name)
		a.modal.NameInput.CursorEnd()
		a.modal.NameInput.Focus()
		a.mode = ModeRename
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Delete):
		sel := a.selected()
		if !a.confirm {
			return a, a.request(router.Request{Type: router.DeleteSet, SetID: sel.ID})
		}
		a.openDeleteDialog(*sel)

	case key.Matches(msg, a.keys.YankID):
		id, copyFn := a.selected().ID, a.copy
		return a, func() tea.Msg {
			return yankMsg{id: id, err: copyFn(id)}
		}
	}

	return a, nil
}

// openDeleteDialog prepares the delete modal. The preselected merge target
// is the active set when deleting an inactive one, else the first other set.
func (a *App) openDeleteDialog(set model.BookmarkSet) {
	a.modal.Reset()
	a.modal.SetID = set.ID
	for _, s := range a.sets {
		if s.ID != set.ID {
			a.modal.Targets = append(a.modal.Targets, s)
		}
	}
	if len(a.modal.Targets) > 0 {
		a.modal.TargetIdx = 0
		for i, s := range a.modal.Targets {
			if s.IsActive {
				a.modal.TargetIdx = i
			}
		}
	}
	a.mode = ModeConfirmDelete
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel), key.Matches(msg, a.keys.Quit):
		a.mode = ModeNormal
		a.modal.Reset()

	case key.Matches(msg, a.keys.Confirm):
		req := router.Request{
			Type:          router.DeleteSet,
			SetID:         a.modal.SetID,
			MergeTargetID: a.modal.MergeTarget(),
		}
		a.mode = ModeNormal
		a.modal.Reset()
		return a, a.request(req)

	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Up):
		if len(a.modal.Targets) > 0 {
			a.modal.CycleTarget(-1)
		}

	case key.Matches(msg, a.keys.Right), key.Matches(msg, a.keys.Down):
		if len(a.modal.Targets) > 0 {
			a.modal.CycleTarget(1)
		}
	}
	return a, nil
}

func (a App) updateNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.modal.Reset()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		req := router.Request{Type: router.CreateSet, Name: a.modal.NameInput.Value()}
		if a.mode == ModeRename {
			req = router.Request{Type: router.RenameSet, SetID: a.modal.SetID, Name: a.modal.NameInput.Value()}
		}
		a.mode = ModeNormal
		a.modal.Reset()
		return a, a.request(req)
	}

	var cmd tea.Cmd
	a.modal.NameInput, cmd = a.modal.NameInput.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
