package containers

import "testing"

// TestUpdateWindowStateNoopOnSameKind tests spec.md §4.4 case 1: setting
// the same WindowStateKind is a no-op for TilingWindow nodes.
func TestUpdateWindowStateNoopOnSameKind(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	window := attachWindow(tree, workspace.ID(), -1, "a")

	got := tree.UpdateWindowState(window, WindowState{Kind: StateTiling})
	if got.ID() != window.ID() {
		t.Error("no-op transition should return the same container")
	}
}

// TestUpdateWindowStateTilingToFloating tests spec.md §4.4 case 3: a
// TilingWindow becomes a NonTilingWindow carrying an InsertionTarget.
func TestUpdateWindowStateTilingToFloating(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	attachWindow(tree, workspace.ID(), -1, "a")
	b := attachWindow(tree, workspace.ID(), -1, "b")

	floated := tree.UpdateWindowState(b, WindowState{Kind: StateFloating})

	if floated.Kind() != KindNonTilingWindow {
		t.Fatalf("expected NonTilingWindow after float, got %v", floated.Kind())
	}
	if floated.InsertionTarget() == nil {
		t.Error("expected an InsertionTarget to be recorded for restore-to-tiling")
	}
	if violations := tree.Validate(); len(violations) != 0 {
		t.Errorf("Validate() after float = %v, want none", violations)
	}
}

// TestUpdateWindowStateFloatingToTilingRestoresSlot tests spec.md §4.4
// case 2: returning to tiling restores the remembered insertion slot.
func TestUpdateWindowStateFloatingToTilingRestoresSlot(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	attachWindow(tree, workspace.ID(), -1, "a")
	b := attachWindow(tree, workspace.ID(), -1, "b")

	floated := tree.UpdateWindowState(b, WindowState{Kind: StateFloating})
	retiled := tree.UpdateWindowState(floated, WindowState{Kind: StateTiling})

	if retiled.Kind() != KindTilingWindow {
		t.Fatalf("expected TilingWindow after restore, got %v", retiled.Kind())
	}
	parent, ok := tree.Parent(retiled.ID())
	if !ok || parent.ID() != workspace.ID() {
		t.Error("restored tiling window should be back under the workspace")
	}
	if violations := tree.Validate(); len(violations) != 0 {
		t.Errorf("Validate() after restore = %v, want none", violations)
	}
}
