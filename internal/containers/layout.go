package containers

// Workspace layout policies (spec.md §4.5). These influence only
// *insertion* of new tiling windows and *healing* (rebuild-on-removal);
// explicit user moves always override the layout. Every branch below
// clamps rather than asserts on unexpected child counts, resolving
// spec.md §9's Open Question #2: these paths are unreachable via public
// commands by construction, not by convention.

// InsertTilingWindow adds window to workspace according to its configured
// layout, returning the parent it was attached under.
func InsertTilingWindow(t *Tree, workspace *Container, window *Container, focused *Container) ID {
	switch workspace.layout.Tag {
	case LayoutMasterStack:
		return insertMasterStack(t, workspace, window)
	case LayoutDwindle:
		return insertDwindle(t, workspace, window)
	case LayoutGrid:
		return insertGrid(t, workspace, window)
	default:
		return insertManual(t, workspace, window, focused)
	}
}

// insertManual places window next to the focused tiling window, or
// appends it to the workspace if nothing is focused (spec.md §4.5).
func insertManual(t *Tree, workspace *Container, window *Container, focused *Container) ID {
	if focused == nil || focused.kind == KindRoot || focused.kind == KindMonitor {
		t.AttachContainer(window, workspace.id, -1)
		return workspace.id
	}
	// Insert relative to the focused tiling container's position among its
	// own siblings, so Manual layout grows outward from the focus point.
	var anchor *Container
	for _, c := range t.SelfAndAncestors(focused.id) {
		if c.kind == KindTilingWindow || c.kind == KindSplit {
			anchor = c
			break
		}
	}
	if anchor == nil || anchor.id == workspace.id {
		t.AttachContainer(window, workspace.id, -1)
		return workspace.id
	}
	parentID := anchor.parentID
	idx := t.Index(anchor.id)
	t.AttachContainer(window, parentID, idx+1)
	return parentID
}

// insertMasterStack implements spec.md §4.5 MasterStack: the first tiling
// window is the master; subsequent windows go into a vertical Split held
// as the workspace's last child (the stack), whose tiling size is driven
// by master_ratio rather than automatic rebalancing.
func insertMasterStack(t *Tree, workspace *Container, window *Container) ID {
	existing := t.TilingChildren(workspace.id)
	ratio := workspace.layout.MasterRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}

	if len(existing) == 0 {
		t.AttachContainer(window, workspace.id, -1)
		window.tilingSize = 1.0
		return workspace.id
	}

	stack := findStackSplit(t, workspace, existing)
	if stack == nil {
		// Second window arriving: wrap it alone into a new stack Split so
		// the master keeps its own slot.
		master := existing[0]
		stack = NewSplit(DirectionVertical, workspace.gaps)
		t.AttachContainer(stack, workspace.id, -1)
		t.AttachContainer(window, stack.id, -1)
		master.tilingSize = ratio
		stack.tilingSize = 1 - ratio
		return stack.id
	}

	t.AttachContainer(window, stack.id, -1)
	applyMasterRatio(t, workspace, stack, ratio)
	return stack.id
}

func findStackSplit(t *Tree, workspace *Container, tilingChildren []*Container) *Container {
	for _, c := range tilingChildren {
		if c.kind == KindSplit && c.direction == DirectionVertical {
			return c
		}
	}
	return nil
}

func applyMasterRatio(t *Tree, workspace, stack *Container, ratio float64) {
	for _, c := range t.TilingChildren(workspace.id) {
		if c.id == stack.id {
			c.tilingSize = 1 - ratio
		} else {
			c.tilingSize = ratio
		}
	}
}

// insertDwindle implements spec.md §4.5 Dwindle: each new window
// recursively occupies the deepest open slot, alternating axes. The
// workspace starts horizontal; a second window wraps the existing single
// child in a vertical Split; further windows descend into the
// last-created Split, flipping axis at each level.
func insertDwindle(t *Tree, workspace *Container, window *Container) ID {
	existing := t.TilingChildren(workspace.id)
	if len(existing) == 0 {
		t.AttachContainer(window, workspace.id, -1)
		window.tilingSize = 1.0
		return workspace.id
	}

	deepest := existing[len(existing)-1]
	for deepest.kind == KindSplit {
		children := t.TilingChildren(deepest.id)
		if len(children) == 0 {
			break
		}
		deepest = children[len(children)-1]
	}

	if deepest.kind == KindWorkspace {
		t.AttachContainer(window, workspace.id, -1)
		return workspace.id
	}

	parent, ok := t.Parent(deepest.id)
	if !ok {
		t.AttachContainer(window, workspace.id, -1)
		return workspace.id
	}
	nextDirection := workspace.layout.Direction.Inverse()
	if parent.kind == KindSplit {
		nextDirection = parent.direction.Inverse()
	}

	split := NewSplit(nextDirection, workspace.gaps)
	t.WrapInSplitContainer(split, parent.id, []*Container{deepest})
	t.AttachContainer(window, split.id, -1)
	return split.id
}

// insertGrid implements spec.md §4.5 Grid: distribute windows across
// column Splits, inserting into the shortest column to keep heights
// balanced.
func insertGrid(t *Tree, workspace *Container, window *Container) ID {
	columns := gridColumns(t, workspace)
	if len(columns) == 0 {
		col := NewSplit(DirectionVertical, workspace.gaps)
		t.AttachContainer(col, workspace.id, -1)
		t.AttachContainer(window, col.id, -1)
		return col.id
	}

	shortest := columns[0]
	shortestCount := len(t.TilingChildren(shortest.id))
	for _, col := range columns[1:] {
		if n := len(t.TilingChildren(col.id)); n < shortestCount {
			shortest = col
			shortestCount = n
		}
	}

	targetCols := gridTargetColumnCount(len(t.allGridWindows(t.TilingChildren(workspace.id))) + 1)
	if len(columns) < targetCols {
		col := NewSplit(DirectionVertical, workspace.gaps)
		t.AttachContainer(col, workspace.id, -1)
		t.AttachContainer(window, col.id, -1)
		return col.id
	}

	t.AttachContainer(window, shortest.id, -1)
	return shortest.id
}

func gridColumns(t *Tree, workspace *Container) []*Container {
	var cols []*Container
	for _, c := range t.TilingChildren(workspace.id) {
		if c.kind == KindSplit && c.direction == DirectionVertical {
			cols = append(cols, c)
		}
	}
	return cols
}

func (t *Tree) allGridWindows(columns []*Container) []*Container {
	var out []*Container
	for _, col := range columns {
		out = append(out, t.TilingChildren(col.id)...)
	}
	return out
}

func gridTargetColumnCount(n int) int {
	if n <= 1 {
		return 1
	}
	if n <= 4 {
		return 2
	}
	return 3
}

// HealWorkspaceLayout rebuilds layout-maintained structure after a tiling
// window is removed (spec.md §4.5 "layout healing"): it flattens any
// single-child Splits the removal left behind (already handled by
// DetachContainer's invariant-6 check) and, for MasterStack, re-derives
// the master/stack ratio from whatever tiling windows remain.
func HealWorkspaceLayout(t *Tree, workspace *Container) {
	if workspace.layout.Tag != LayoutMasterStack {
		return
	}
	existing := t.TilingChildren(workspace.id)
	ratio := workspace.layout.MasterRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	stack := findStackSplit(t, workspace, existing)
	if stack != nil {
		applyMasterRatio(t, workspace, stack, ratio)
	}
}
