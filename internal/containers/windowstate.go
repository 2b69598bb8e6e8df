package containers

// UpdateWindowState implements the three cases of spec.md §4.4. When
// target's kind matches window's current kind the container is kept: a
// TilingWindow is returned unchanged, and a NonTilingWindow takes target's
// parameters in place (the replaced state becomes its prevState).
// Tiling<-NonTiling replaces the node with a TilingWindow; NonTiling<-any
// other kind replaces it with a NonTilingWindow carrying an InsertionTarget
// and the replaced state as prevState. Returns the (possibly new)
// Container so callers can requeue it for redraw/focus.
func (t *Tree) UpdateWindowState(window *Container, target WindowState) *Container {
	current := window.State()
	if current.Kind == target.Kind {
		if window.kind == KindNonTilingWindow {
			window.prevState = ptrState(current)
			window.state = target
		}
		return window
	}

	if target.Kind == StateTiling {
		return t.transitionToTiling(window)
	}
	return t.transitionToNonTiling(window, target)
}

// transitionToTiling handles NonTiling -> Tiling (spec.md §4.4 case 2).
func (t *Tree) transitionToTiling(window *Container) *Container {
	workspace, ok := t.Workspace(window.id)
	if !ok {
		return window
	}
	parentID := window.parentID
	index := t.Index(window.id)
	wasFloating := window.state.Kind == StateFloating

	siblingCount := len(t.TilingChildren(parentID))
	starterSize := 1.0 / float64(siblingCount+1)

	newWindow := NewTilingWindow(window.nativeWindow, starterSize, window.borderDelta)
	newWindow.doneWindowRules = window.doneWindowRules
	newWindow.cachedFrame = window.cachedFrame

	if wasFloating && window.insertionTarget == nil {
		// No remembered slot: place at the end of the workspace's tiling
		// children (spec.md §4.4).
		t.ReplaceContainer(newWindow, parentID, index)
		t.DetachContainer(newWindow)
		t.AttachContainer(newWindow, workspace.id, -1)
	} else if it := window.insertionTarget; it != nil {
		t.ReplaceContainer(newWindow, parentID, index)
		t.DetachContainer(newWindow)
		if _, ok := t.Get(it.ParentID); ok {
			t.AttachContainer(newWindow, it.ParentID, it.Index)
			newWindow.tilingSize = it.PrevTilingSize
			t.normalizeTilingSizes(it.ParentID)
		} else {
			t.AttachContainer(newWindow, workspace.id, -1)
		}
	} else {
		t.ReplaceContainer(newWindow, parentID, index)
	}

	HealWorkspaceLayout(t, workspace)
	return newWindow
}

// transitionToNonTiling handles Tiling -> {Floating,Fullscreen,Minimized}
// (spec.md §4.4 case 3). Minimized is applied to the tree at once; the OS
// window's actual minimized state is not checked here or by the commands
// package, which requests the OS minimize and then calls this directly.
// The remaining tiling siblings are rescaled to sum to 1 again.
func (t *Tree) transitionToNonTiling(window *Container, target WindowState) *Container {
	workspace, ok := t.Workspace(window.id)
	if !ok {
		return window
	}
	parentID := window.parentID
	index := t.Index(window.id)
	siblingCount := len(t.TilingChildren(parentID)) - 1

	it := &InsertionTarget{
		ParentID:         parentID,
		Index:            index,
		PrevTilingSize:   window.tilingSize,
		PrevSiblingCount: siblingCount,
	}

	newWindow := NewNonTilingWindow(window.nativeWindow, target, window.borderDelta)
	newWindow.doneWindowRules = window.doneWindowRules
	newWindow.cachedFrame = window.cachedFrame
	newWindow.insertionTarget = it
	newWindow.prevState = ptrState(window.State())

	t.ReplaceContainer(newWindow, parentID, index)

	if newWindow.parentID != workspace.id {
		t.DetachContainer(newWindow)
		t.AttachContainer(newWindow, workspace.id, -1)
	}

	t.rescaleAfterRemoval(parentID)
	HealWorkspaceLayout(t, workspace)
	return newWindow
}

func ptrState(s WindowState) *WindowState {
	v := s
	return &v
}
