package containers

import "github.com/tilewm/tilewm/internal/geometry"

// ToRect computes id's current target rectangle top-down (spec.md §4.2,
// "PositionGetters"). It is computed fresh every call, never cached on
// tiling containers (cachedFrame is reserved for the last rect actually
// applied to the native window).
func (t *Tree) ToRect(id ID) geometry.Rect {
	c, ok := t.Get(id)
	if !ok {
		return geometry.Rect{}
	}
	switch c.kind {
	case KindMonitor:
		return c.monitorRect
	case KindWorkspace:
		monitor, ok := t.Parent(id)
		if !ok {
			return geometry.Rect{}
		}
		outer := c.gaps.OuterGap
		if t.hasSingleTilingWindow(id) && c.gaps.SingleWindowOuterGap != nil {
			outer = *c.gaps.SingleWindowOuterGap
		}
		base := monitor.monitorRect
		scale := 1.0
		if c.gaps.ScaleWithDPI {
			scale = monitor.dpi
		}
		delta := outer.Resolve(base.Width, base.Height, scale)
		return base.Inset(delta)
	case KindSplit, KindTilingWindow:
		return t.childRect(id)
	case KindNonTilingWindow:
		return t.nonTilingRect(id, c)
	default:
		return geometry.Rect{}
	}
}

// nonTilingRect resolves a floating/fullscreen/minimized window's target
// rect: the full workspace rect for Fullscreen (spec.md §4.4), otherwise
// its floating placement inset by its border delta, falling back to a
// centered default-sized rect the first time a window floats without an
// explicit placement.
func (t *Tree) nonTilingRect(id ID, c *Container) geometry.Rect {
	workspace, ok := t.Workspace(id)
	if !ok {
		return geometry.Rect{}
	}
	workspaceRect := t.ToRect(workspace.id)

	if c.state.Kind == StateFullscreen {
		return workspaceRect
	}

	placement := c.floatingPlacement
	if !c.hasCustomFloatingPlacement {
		placement = defaultFloatingPlacement(workspaceRect)
	}
	return placement.Inset(c.borderDelta)
}

// defaultFloatingPlacement centers a window at half the workspace's extent
// the first time it floats without a prior custom placement.
func defaultFloatingPlacement(workspaceRect geometry.Rect) geometry.Rect {
	width := workspaceRect.Width / 2
	height := workspaceRect.Height / 2
	return geometry.Rect{
		X:      workspaceRect.X + (workspaceRect.Width-width)/2,
		Y:      workspaceRect.Y + (workspaceRect.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

// childRect resolves a tiling container's rect by finding its position
// among its parent's tiling-sized siblings (spec.md §4.2 steps 2-3).
func (t *Tree) childRect(id ID) geometry.Rect {
	parent, ok := t.Parent(id)
	if !ok {
		return geometry.Rect{}
	}
	parentRect := t.ToRect(parent.id)

	tilingChildren := t.TilingChildren(parent.id)
	idx := -1
	for i, child := range tilingChildren {
		if child.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return geometry.Rect{}
	}

	innerGap := 0
	scale := 1.0
	if parent.kind == KindWorkspace || parent.kind == KindSplit {
		if parent.gaps.ScaleWithDPI {
			if monitor, ok := t.Monitor(parent.id); ok {
				scale = monitor.dpi
			}
		}
	}
	extent := parentRect.Width
	if parent.direction == DirectionVertical {
		extent = parentRect.Height
	}
	innerGap = parent.gaps.InnerGap.ToPx(extent, scale)

	n := len(tilingChildren)
	usable := extent - innerGap*(n-1)
	if usable < 0 {
		usable = 0
	}

	offset := 0
	for i := 0; i < idx; i++ {
		offset += int(tilingChildren[i].tilingSize*float64(usable)) + innerGap
	}
	size := int(tilingChildren[idx].tilingSize * float64(usable))

	var rect geometry.Rect
	if parent.direction == DirectionHorizontal {
		rect = geometry.Rect{
			X:      parentRect.X + offset,
			Y:      parentRect.Y,
			Width:  size,
			Height: parentRect.Height,
		}
	} else {
		rect = geometry.Rect{
			X:      parentRect.X,
			Y:      parentRect.Y + offset,
			Width:  parentRect.Width,
			Height: size,
		}
	}

	self, _ := t.Get(id)
	if self.kind == KindTilingWindow {
		return rect.Inset(self.borderDelta)
	}
	return rect
}

// TilingChildren returns id's children that are tiling containers (Split
// or TilingWindow), i.e. the set that shares a parent's tiling-size axis.
// NonTilingWindow children (direct children of a Workspace) are excluded
// per invariant 5.
func (t *Tree) TilingChildren(id ID) []*Container {
	var out []*Container
	for _, child := range t.Children(id) {
		if child.kind == KindSplit || child.kind == KindTilingWindow {
			out = append(out, child)
		}
	}
	return out
}

func (t *Tree) hasSingleTilingWindow(workspaceID ID) bool {
	children := t.TilingChildren(workspaceID)
	return len(children) == 1 && children[0].kind == KindTilingWindow
}
