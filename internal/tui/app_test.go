package tui_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/router"
	"github.com/nikbrunner/bm/internal/sets"
	"github.com/nikbrunner/bm/internal/storage"
	"github.com/nikbrunner/bm/internal/tree"
	"github.com/nikbrunner/bm/internal/tui"
	"github.com/nikbrunner/bm/internal/tui/layout"
)

// newTestApp builds an app over an in-memory manager holding the default
// set plus the named extra sets, and runs the initial load.
func newTestApp(t *testing.T, params tui.AppParams, extra ...string) tui.App {
	t.Helper()

	mgr := sets.NewManager(sets.ManagerParams{
		Tree: tree.NewMemory(nil),
		KV:   storage.NewMemoryKV(),
	})
	ctx := context.Background()
	if _, err := mgr.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range extra {
		if _, err := mgr.Create(ctx, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	if params.Router == nil {
		params.Router = router.New(mgr, nil)
	}
	app := tui.NewApp(params).WithDimensions(80, 24)
	return run(t, app, app.Init())
}

// run executes cmd synchronously and feeds its message back into the app.
func run(t *testing.T, app tui.App, cmd tea.Cmd) tui.App {
	t.Helper()
	if cmd == nil {
		return app
	}
	msg := cmd()
	if msg == nil {
		return app
	}
	updated, _ := app.Update(msg)
	return updated.(tui.App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys one by one, running any resulting commands. Commands
// from the name input are cursor blinks and are dropped.
func press(t *testing.T, app tui.App, keys ...string) tui.App {
	t.Helper()
	for _, k := range keys {
		updated, cmd := app.Update(keyMsg(k))
		app = updated.(tui.App)
		if app.Mode() == tui.ModeCreate || app.Mode() == tui.ModeRename {
			continue
		}
		app = run(t, app, cmd)
	}
	return app
}

func names(list []model.BookmarkSet) string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return strings.Join(out, ",")
}

func TestApp_InitLoadsSets(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")

	if got := names(app.Sets()); got != "Default,Work" {
		t.Errorf("expected Default,Work, got %s", got)
	}
	if active := model.ActiveSet(app.Sets()); active == nil || active.Name != "Default" {
		t.Errorf("expected Default to be active, got %+v", active)
	}
}

func TestApp_Navigation_JK(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work", "Home")

	app = press(t, app, "j")
	if app.Cursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.Cursor())
	}

	app = press(t, app, "k", "k")
	if app.Cursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.Cursor())
	}

	app = press(t, app, "j", "j", "j")
	if app.Cursor() != 2 {
		t.Errorf("j at bottom should stay at 2, got %d", app.Cursor())
	}
}

func TestApp_Navigation_GG(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work", "Home")

	app = press(t, app, "G")
	if app.Cursor() != 2 {
		t.Errorf("after G, expected cursor 2, got %d", app.Cursor())
	}

	app = press(t, app, "g")
	if app.Cursor() != 2 {
		t.Errorf("single g should not move, got %d", app.Cursor())
	}

	app = press(t, app, "g")
	if app.Cursor() != 0 {
		t.Errorf("after gg, expected cursor 0, got %d", app.Cursor())
	}
}

func TestApp_Switch(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")

	app = press(t, app, "j", "l")

	active := model.ActiveSet(app.Sets())
	if active == nil || active.Name != "Work" {
		t.Fatalf("expected Work to be active, got %+v", active)
	}
	if app.Message() != "Switched to Work" {
		t.Errorf("unexpected message %q", app.Message())
	}
}

func TestApp_Create(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app = press(t, app, "a")
	if app.Mode() != tui.ModeCreate {
		t.Fatalf("expected ModeCreate, got %v", app.Mode())
	}

	app = press(t, app, "Home", "enter")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after enter, got %v", app.Mode())
	}
	if got := names(app.Sets()); got != "Default,Home" {
		t.Errorf("expected Default,Home, got %s", got)
	}
	if app.Cursor() != 1 {
		t.Errorf("expected cursor on the new set, got %d", app.Cursor())
	}
}

func TestApp_Create_EmptyNameShowsError(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app = press(t, app, "a", "enter")

	if !strings.Contains(app.Message(), "must not be empty") {
		t.Errorf("expected empty name error, got %q", app.Message())
	}
	if len(app.Sets()) != 1 {
		t.Errorf("expected set list unchanged, got %d sets", len(app.Sets()))
	}
}

func TestApp_Create_EscCancels(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app = press(t, app, "a", "Temp", "esc")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after esc, got %v", app.Mode())
	}
	if len(app.Sets()) != 1 {
		t.Errorf("expected no new set, got %d sets", len(app.Sets()))
	}
}

func TestApp_Rename(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")

	app = press(t, app, "j", "e")
	if app.Mode() != tui.ModeRename {
		t.Fatalf("expected ModeRename, got %v", app.Mode())
	}

	app = press(t, app, "backspace", "backspace", "backspace", "backspace", "Job", "enter")

	if got := names(app.Sets()); got != "Default,Job" {
		t.Errorf("expected Default,Job, got %s", got)
	}
}

func TestApp_DeleteDialog_PreselectsActiveSet(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")
	defaultID := app.Sets()[0].ID

	app = press(t, app, "j", "d")
	if app.Mode() != tui.ModeConfirmDelete {
		t.Fatalf("expected ModeConfirmDelete, got %v", app.Mode())
	}
	if app.DeleteTarget() != defaultID {
		t.Errorf("expected Default preselected, got %q", app.DeleteTarget())
	}

	// l cycles to "delete all", h back to the merge target.
	app = press(t, app, "l")
	if app.DeleteTarget() != "" {
		t.Errorf("expected delete-all after l, got %q", app.DeleteTarget())
	}
	app = press(t, app, "h")
	if app.DeleteTarget() != defaultID {
		t.Errorf("expected Default after h, got %q", app.DeleteTarget())
	}

	app = press(t, app, "enter")
	if got := names(app.Sets()); got != "Default" {
		t.Errorf("expected only Default left, got %s", got)
	}
	if app.Message() != "Deleted set" {
		t.Errorf("unexpected message %q", app.Message())
	}
}

func TestApp_DeleteDialog_LastSet(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app = press(t, app, "d")
	view := layout.StripANSI(app.View())
	if !strings.Contains(view, "This is the last set.") || !strings.Contains(view, "bookmark bar") {
		t.Errorf("expected last-set notice, got:\n%s", view)
	}

	app = press(t, app, "enter")
	if len(app.Sets()) != 1 || !app.Sets()[0].IsActive {
		t.Errorf("expected a fresh active default set, got %+v", app.Sets())
	}
}

func TestApp_DeleteDialog_EscCancels(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")

	app = press(t, app, "j", "d", "esc")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal, got %v", app.Mode())
	}
	if len(app.Sets()) != 2 {
		t.Errorf("expected nothing deleted, got %d sets", len(app.Sets()))
	}
}

func TestApp_DeleteWithoutConfirm(t *testing.T) {
	confirm := false
	app := newTestApp(t, tui.AppParams{Confirm: &confirm}, "Work")

	app = press(t, app, "j", "d")

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected no dialog, got mode %v", app.Mode())
	}
	if got := names(app.Sets()); got != "Default" {
		t.Errorf("expected Work deleted, got %s", got)
	}
}

func TestApp_YankID(t *testing.T) {
	var copied string
	app := newTestApp(t, tui.AppParams{Clipboard: func(s string) error {
		copied = s
		return nil
	}})

	app = press(t, app, "Y")

	if copied != app.Sets()[0].ID {
		t.Errorf("expected id %q on clipboard, got %q", app.Sets()[0].ID, copied)
	}
	if app.Message() != "Copied "+copied {
		t.Errorf("unexpected message %q", app.Message())
	}
}

type failingHandler struct{}

func (failingHandler) Handle(context.Context, router.Request) router.Response {
	return router.Response{Success: false, Error: "bookmarks api unavailable"}
}

func TestApp_RouterErrorShownInStatusLine(t *testing.T) {
	app := newTestApp(t, tui.AppParams{Router: failingHandler{}})

	if app.Message() != "bookmarks api unavailable" {
		t.Errorf("unexpected message %q", app.Message())
	}
	view := layout.StripANSI(app.View())
	if !strings.Contains(view, "✗ bookmarks api unavailable") {
		t.Errorf("expected error in view, got:\n%s", view)
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app = press(t, app, "?")
	if app.Mode() != tui.ModeHelp {
		t.Fatalf("expected ModeHelp, got %v", app.Mode())
	}

	updated, cmd := app.Update(keyMsg("q"))
	app = updated.(tui.App)
	if app.Mode() != tui.ModeNormal {
		t.Errorf("q should close help, got mode %v", app.Mode())
	}
	if cmd != nil {
		t.Error("q in help should not quit")
	}
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_ViewMarksActiveSet(t *testing.T) {
	app := newTestApp(t, tui.AppParams{}, "Work")

	view := layout.StripANSI(app.View())

	if !strings.Contains(view, "● Default") {
		t.Errorf("expected active marker on Default, got:\n%s", view)
	}
	if strings.Contains(view, "● Work") {
		t.Error("Work should not be marked active")
	}
}
