package events

import (
	"testing"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/platform/fake"
)

type recordingRedrawQueue struct {
	queued []containers.ID
}

func (r *recordingRedrawQueue) QueueRedraw(id containers.ID) {
	r.queued = append(r.queued, id)
}

func buildTestTree(t *testing.T) (*containers.Tree, *containers.Container, *containers.Container) {
	t.Helper()
	tree := containers.NewTree()
	monitor := containers.NewMonitor(fake.NewMonitor("m1", "display-1", geometry.Rect{Width: 1920, Height: 1080}, 1.0, true), geometry.Rect{Width: 1920, Height: 1080}, 1.0)
	tree.AttachContainer(monitor, tree.RootID(), -1)
	workspace := containers.NewWorkspace("1", containers.DefaultWorkspaceLayout(), containers.GapsConfig{})
	tree.AttachContainer(workspace, monitor.ID(), -1)
	return tree, monitor, workspace
}

func newHandlers(tree *containers.Tree, redraw *recordingRedrawQueue) *Handlers {
	return &Handlers{
		Tree:     tree,
		Dispatch: &commands.Context{Tree: tree, Redraw: redraw},
	}
}

// findWindowByHandle re-resolves a window container by its native handle,
// since a window-state transition replaces the container (new id) while
// keeping the same underlying native window.
func findWindowByHandle(tree *containers.Tree, handle platform.WindowHandle) (*containers.Container, bool) {
	for _, c := range tree.Descendants(tree.RootID()) {
		if c.Kind().IsWindowContainer() && c.NativeWindow() != nil && c.NativeWindow().Handle() == handle {
			return c, true
		}
	}
	return nil, false
}

func TestWindowManagedCreatesTilingWindowByDefault(t *testing.T) {
	tree, _, workspace := buildTestTree(t)
	redraw := &recordingRedrawQueue{}
	h := newHandlers(tree, redraw)

	native := fake.NewWindow("h1", "notepad.exe", "Notepad", "untitled")
	window, err := h.WindowManaged(native)
	if err != nil {
		t.Fatalf("WindowManaged() error = %v", err)
	}
	if window == nil || window.Kind() != containers.KindTilingWindow {
		t.Fatalf("WindowManaged() = %v, want a TilingWindow", window)
	}
	ws, ok := tree.Workspace(window.ID())
	if !ok || ws.ID() != workspace.ID() {
		t.Fatalf("window landed in workspace %v, want %v", ws, workspace)
	}
	focused, ok := tree.FocusedContainer()
	if !ok || focused.ID() != window.ID() {
		t.Fatal("expected the newly managed window to become focused")
	}
	if len(redraw.queued) == 0 {
		t.Error("expected a redraw to be queued")
	}
}

func TestWindowManagedRunsBuiltinIgnoreRule(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})

	native := fake.NewWindow("h1", "StartMenuExperienceHost.exe", "Shell", "Start")
	window, err := h.WindowManaged(native)
	if err != nil {
		t.Fatalf("WindowManaged() error = %v", err)
	}
	if window != nil {
		t.Fatalf("WindowManaged() = %v, want nil (built-in Ignore rule should detach it)", window)
	}
}

func TestWindowDestroyedPrefersSameKindSibling(t *testing.T) {
	tree, _, workspace := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})

	a, err := h.WindowManaged(fake.NewWindow("a", "proc", "class", "a"))
	if err != nil {
		t.Fatalf("WindowManaged(a) error = %v", err)
	}
	b, err := h.WindowManaged(fake.NewWindow("b", "proc", "class", "b"))
	if err != nil {
		t.Fatalf("WindowManaged(b) error = %v", err)
	}
	tree.SetFocusedDescendant(a, tree.RootID())
	_ = b

	if err := h.WindowDestroyed("a"); err != nil {
		t.Fatalf("WindowDestroyed() error = %v", err)
	}
	if _, ok := tree.Get(a.ID()); ok {
		t.Error("destroyed window is still present in the tree")
	}
	focused, ok := tree.FocusedContainer()
	if !ok || focused.ID() != b.ID() {
		t.Fatalf("FocusedContainer() = %v, want b", focused)
	}
	if ws, ok := tree.Workspace(focused.ID()); !ok || ws.ID() != workspace.ID() {
		t.Fatal("expected focus to remain within the original workspace")
	}
}

func TestWindowVisibilityMinimizeAndRestore(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})

	if _, err := h.WindowManaged(fake.NewWindow("a", "proc", "class", "a")); err != nil {
		t.Fatalf("WindowManaged() error = %v", err)
	}

	if err := h.WindowVisibilityChanged("a", WindowMinimized); err != nil {
		t.Fatalf("WindowVisibilityChanged(minimized) error = %v", err)
	}
	minimized, ok := findWindowByHandle(tree, "a")
	if !ok || minimized.State().Kind != containers.StateMinimized {
		t.Fatalf("State() = %v, want Minimized", minimized.State())
	}

	if err := h.WindowVisibilityChanged("a", WindowMinimizeEnded); err != nil {
		t.Fatalf("WindowVisibilityChanged(minimize-ended) error = %v", err)
	}
	restored, ok := findWindowByHandle(tree, "a")
	if !ok || restored.State().Kind != containers.StateTiling {
		t.Fatalf("State() after restore = %v, want Tiling", restored.State())
	}
}

func TestDisplaySettingsChangedAddsAndRemovesMonitors(t *testing.T) {
	tree, monitor, _ := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})

	second := fake.NewMonitor("m2", "display-2", geometry.Rect{Width: 1280, Height: 720}, 1.0, false)
	if err := h.DisplaySettingsChanged([]platform.NativeMonitor{monitor.NativeMonitor(), second}); err != nil {
		t.Fatalf("DisplaySettingsChanged() error = %v", err)
	}
	if len(tree.Children(tree.RootID())) != 2 {
		t.Fatalf("monitor count = %d, want 2", len(tree.Children(tree.RootID())))
	}

	if err := h.DisplaySettingsChanged([]platform.NativeMonitor{monitor.NativeMonitor()}); err != nil {
		t.Fatalf("DisplaySettingsChanged() error = %v", err)
	}
	if len(tree.Children(tree.RootID())) != 1 {
		t.Fatalf("monitor count after removal = %d, want 1", len(tree.Children(tree.RootID())))
	}
}

func TestMouseMoveFocusFollowsCursor(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})
	h.FocusFollowsCursor = true

	a, err := h.WindowManaged(fake.NewWindow("a", "proc", "class", "a"))
	if err != nil {
		t.Fatalf("WindowManaged(a) error = %v", err)
	}
	b, err := h.WindowManaged(fake.NewWindow("b", "proc", "class", "b"))
	if err != nil {
		t.Fatalf("WindowManaged(b) error = %v", err)
	}
	a.SetCachedFrame(geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	b.SetCachedFrame(geometry.Rect{X: 200, Y: 0, Width: 100, Height: 100})
	tree.SetFocusedDescendant(b, tree.RootID())

	if err := h.MouseMove(geometry.Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("MouseMove() error = %v", err)
	}
	focused, ok := tree.FocusedContainer()
	if !ok || focused.ID() != a.ID() {
		t.Fatalf("FocusedContainer() = %v, want a", focused)
	}
}

func TestMouseMoveNoOpWhenDisabled(t *testing.T) {
	tree, _, _ := buildTestTree(t)
	h := newHandlers(tree, &recordingRedrawQueue{})

	a, err := h.WindowManaged(fake.NewWindow("a", "proc", "class", "a"))
	if err != nil {
		t.Fatalf("WindowManaged(a) error = %v", err)
	}
	b, err := h.WindowManaged(fake.NewWindow("b", "proc", "class", "b"))
	if err != nil {
		t.Fatalf("WindowManaged(b) error = %v", err)
	}
	a.SetCachedFrame(geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	tree.SetFocusedDescendant(b, tree.RootID())

	if err := h.MouseMove(geometry.Point{X: 50, Y: 50}); err != nil {
		t.Fatalf("MouseMove() error = %v", err)
	}
	focused, ok := tree.FocusedContainer()
	if !ok || focused.ID() != b.ID() {
		t.Fatal("expected focus to stay on b since focus-follows-cursor is disabled")
	}
}
