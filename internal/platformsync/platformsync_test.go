package platformsync

import (
	"testing"

	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/platform/fake"
)

func buildSyncTestTree(t *testing.T) (*containers.Tree, *containers.Container, *containers.Container) {
	t.Helper()
	tree := containers.NewTree()
	monitor := containers.NewMonitor(fake.NewMonitor("m1", "display-1", geometry.Rect{Width: 1920, Height: 1080}, 1.0, true), geometry.Rect{Width: 1920, Height: 1080}, 1.0)
	tree.AttachContainer(monitor, tree.RootID(), -1)
	workspace := containers.NewWorkspace("1", containers.DefaultWorkspaceLayout(), containers.GapsConfig{})
	tree.AttachContainer(workspace, monitor.ID(), -1)
	return tree, monitor, workspace
}

func attachSyncWindow(tree *containers.Tree, workspaceID containers.ID, handle string) (*fake.Window, *containers.Container) {
	native := fake.NewWindow(handle, "proc", "class", "title")
	w := containers.NewTilingWindow(native, 1.0, geometry.RectDelta{})
	tree.AttachContainer(w, workspaceID, -1)
	return native, w
}

func TestSyncAppliesFocusedWindowGeometry(t *testing.T) {
	tree, _, workspace := buildSyncTestTree(t)
	native, window := attachSyncWindow(tree, workspace.ID(), "a")
	tree.SetFocusedDescendant(window, tree.RootID())

	pending := New()
	pending.QueueFocusChange()
	pending.QueueContainerToRedraw(window.ID())

	cfg := &config.Config{}
	if err := Sync(tree, cfg, nil, pending, false); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(native.Positions) != 1 {
		t.Fatalf("SetPosition calls = %d, want 1", len(native.Positions))
	}
	if !native.Positions[0].Visible {
		t.Error("expected the window to be made visible")
	}
	if pending.focusChange || len(pending.containersToRedraw) != 0 {
		t.Error("Sync() did not drain the accumulator")
	}
}

func TestSyncHidesWindowOnNonDisplayedWorkspace(t *testing.T) {
	tree, monitor, _ := buildSyncTestTree(t)
	second := containers.NewWorkspace("2", containers.DefaultWorkspaceLayout(), containers.GapsConfig{})
	tree.AttachContainer(second, monitor.ID(), -1)
	native := fake.NewWindow("b", "proc", "class", "t")
	window := containers.NewNonTilingWindow(native, containers.WindowState{Kind: containers.StateFloating}, geometry.RectDelta{})
	tree.AttachContainer(window, second.ID(), -1)

	pending := New()
	pending.QueueContainerToRedraw(window.ID())

	cfg := &config.Config{}
	if err := Sync(tree, cfg, nil, pending, false); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(native.Positions) != 1 {
		t.Fatalf("SetPosition calls = %d, want 1", len(native.Positions))
	}
	if native.Positions[0].Visible {
		t.Error("expected the window on a non-displayed workspace to be hidden")
	}
	if window.DisplayState() != containers.DisplayHiding {
		t.Errorf("DisplayState() = %v, want DisplayHiding", window.DisplayState())
	}
}

func TestSyncPausedClearsOnlyRedrawSet(t *testing.T) {
	tree, _, workspace := buildSyncTestTree(t)
	_, window := attachSyncWindow(tree, workspace.ID(), "a")

	pending := New()
	pending.QueueContainerToRedraw(window.ID())
	pending.QueueFocusChange()

	cfg := &config.Config{}
	if err := Sync(tree, cfg, nil, pending, true); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(pending.containersToRedraw) != 0 {
		t.Error("expected the redraw set to be cleared while paused")
	}
}

func TestSyncCursorJumpsToFocusedWindowCenter(t *testing.T) {
	tree, _, workspace := buildSyncTestTree(t)
	_, window := attachSyncWindow(tree, workspace.ID(), "a")
	tree.SetFocusedDescendant(window, tree.RootID())

	pending := New()
	pending.QueueCursorJump()

	cfg := &config.Config{}
	cfg.General.CursorJump.Enabled = true
	cfg.General.CursorJump.Trigger = config.CursorJumpWindowFocus

	cursor := &fake.Cursor{}
	if err := Sync(tree, cfg, cursor, pending, false); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	want := tree.ToRect(window.ID()).Center()
	if cursor.Pos != want {
		t.Errorf("cursor.Pos = %v, want %v", cursor.Pos, want)
	}
}

func TestSyncAppliesWindowEffectsOnFocusChange(t *testing.T) {
	tree, _, workspace := buildSyncTestTree(t)
	nativeA, a := attachSyncWindow(tree, workspace.ID(), "a")
	nativeB, b := attachSyncWindow(tree, workspace.ID(), "b")
	tree.SetFocusedDescendant(a, tree.RootID())

	pending := New()
	pending.recentFocused = a
	pending.QueueFocusChange()
	tree.SetFocusedDescendant(b, tree.RootID())

	cfg := &config.Config{}
	cfg.WindowEffects.FocusedWindow.Border.Enabled = true
	cfg.WindowEffects.FocusedWindow.Border.Color = "#ff0000"
	cfg.WindowEffects.OtherWindows.Border.Enabled = true
	cfg.WindowEffects.OtherWindows.Border.Color = "#888888"

	if err := Sync(tree, cfg, nil, pending, false); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if nativeB.Effects.BorderColor != "#ff0000" {
		t.Errorf("focused window border = %q, want #ff0000", nativeB.Effects.BorderColor)
	}
	if nativeA.Effects.BorderColor != "#888888" {
		t.Errorf("unfocused window border = %q, want #888888", nativeA.Effects.BorderColor)
	}
}

func TestSyncIssuesZOrderOnlyCallWhenNotRedrawn(t *testing.T) {
	tree, _, workspace := buildSyncTestTree(t)
	nativeA, a := attachSyncWindow(tree, workspace.ID(), "a")
	_, b := attachSyncWindow(tree, workspace.ID(), "b")
	tree.SetFocusedDescendant(b, tree.RootID())

	pending := New()
	pending.recentFocused = b
	pending.QueueFocusChange()
	tree.SetFocusedDescendant(a, tree.RootID())

	cfg := &config.Config{}
	if err := Sync(tree, cfg, nil, pending, false); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(nativeA.Positions) == 0 {
		t.Fatal("expected the newly focused window to receive at least one SetPosition call")
	}
}

func TestPendingSyncQueueRedrawSatisfiesCommandsRedrawQueue(t *testing.T) {
	var _ interface {
		QueueRedraw(id containers.ID)
	} = New()
}

func TestResolveHideMethod(t *testing.T) {
	cases := map[config.HideMethodName]platform.HideMethod{
		config.HideMethodNameHide:          platform.HideMethodHide,
		config.HideMethodNameCloak:         platform.HideMethodCloak,
		config.HideMethodNamePlaceInCorner: platform.HideMethodPlaceInCorner,
		"":                                 platform.HideMethodHide,
	}
	for name, want := range cases {
		if got := resolveHideMethod(name); got != want {
			t.Errorf("resolveHideMethod(%q) = %v, want %v", name, got, want)
		}
	}
}
