package containers

import "testing"

// TestInsertManualAppendsWhenNoFocus tests that Manual layout appends to
// the workspace when nothing is focused yet.
func TestInsertManualAppendsWhenNoFocus(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	window := NewTilingWindow(nil, 0, geometry0())

	InsertTilingWindow(tree, workspace, window, nil)

	if len(tree.TilingChildren(workspace.ID())) != 1 {
		t.Fatalf("expected window attached to workspace")
	}
}

// TestInsertMasterStackWrapsSecondWindow tests that the second window in
// a MasterStack layout creates a stack Split beside the master.
func TestInsertMasterStackWrapsSecondWindow(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	workspace.SetLayout(WorkspaceLayout{Tag: LayoutMasterStack, MasterRatio: 0.6})

	master := NewTilingWindow(nil, 0, geometry0())
	InsertTilingWindow(tree, workspace, master, nil)

	second := NewTilingWindow(nil, 0, geometry0())
	InsertTilingWindow(tree, workspace, second, nil)

	topChildren := tree.TilingChildren(workspace.ID())
	if len(topChildren) != 2 {
		t.Fatalf("expected master + stack at top level, got %d", len(topChildren))
	}

	var stack *Container
	for _, c := range topChildren {
		if c.Kind() == KindSplit {
			stack = c
		}
	}
	if stack == nil {
		t.Fatal("expected a stack Split to have been created")
	}
	if len(tree.TilingChildren(stack.ID())) != 1 {
		t.Fatalf("expected 1 window in the stack, got %d", len(tree.TilingChildren(stack.ID())))
	}
}

// TestInsertMasterStackThirdWindowJoinsStack tests that a third window
// joins the existing stack rather than creating a new one.
func TestInsertMasterStackThirdWindowJoinsStack(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	workspace.SetLayout(WorkspaceLayout{Tag: LayoutMasterStack, MasterRatio: 0.5})

	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)
	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)
	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)

	topChildren := tree.TilingChildren(workspace.ID())
	if len(topChildren) != 2 {
		t.Fatalf("expected master + stack regardless of window count, got %d", len(topChildren))
	}
	for _, c := range topChildren {
		if c.Kind() == KindSplit && len(tree.TilingChildren(c.ID())) != 2 {
			t.Errorf("expected 2 windows in the stack, got %d", len(tree.TilingChildren(c.ID())))
		}
	}
}

// TestInsertDwindleAlternatesAxis tests that each new window wraps the
// previous deepest leaf in a Split with the opposite direction.
func TestInsertDwindleAlternatesAxis(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	workspace.SetLayout(WorkspaceLayout{Tag: LayoutDwindle, Direction: DirectionHorizontal})

	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)
	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)
	InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)

	if violations := tree.Validate(); len(violations) != 0 {
		t.Errorf("Validate() after dwindle inserts = %v, want none", violations)
	}

	top := tree.TilingChildren(workspace.ID())
	if len(top) != 1 || top[0].Kind() != KindSplit || top[0].Direction() != DirectionVertical {
		t.Fatalf("expected a single vertical Split under the horizontal workspace, got %d children", len(top))
	}
	inner := tree.TilingChildren(top[0].ID())
	if len(inner) != 2 || inner[1].Kind() != KindSplit || inner[1].Direction() != DirectionHorizontal {
		t.Fatalf("expected the vertical Split's last child to be a horizontal Split, got %d children", len(inner))
	}
}

// TestInsertGridDistributesAcrossColumns tests that Grid layout spreads
// windows across more than one column once the target count grows.
func TestInsertGridDistributesAcrossColumns(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	workspace.SetLayout(WorkspaceLayout{Tag: LayoutGrid})

	for i := 0; i < 5; i++ {
		InsertTilingWindow(tree, workspace, NewTilingWindow(nil, 0, geometry0()), nil)
	}

	columns := gridColumns(tree, workspace)
	if len(columns) < 2 {
		t.Fatalf("expected grid to use multiple columns for 5 windows, got %d", len(columns))
	}
	if violations := tree.Validate(); len(violations) != 0 {
		t.Errorf("Validate() after grid inserts = %v, want none", violations)
	}
}
