// Package events implements the reducer-side event handlers of spec.md
// §4.6: the WM thread's reaction to each OS/display/window notification,
// translated into tree mutations, window-rule runs, and redraw/focus
// requests. Grounded on a single-owner-goroutine reacting to a fixed set
// of named events (generalized here from session events to window/display
// events), and on original_source/packages/wm/src/events/* for the
// per-event-kind transition logic spec.md §4.6 condenses.
package events

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/rules"
)

// moveThreshold is spec.md §4.6's "first non-trivial Move (> 10 px from
// start)" that converts a dragged tiling window to Floating.
const moveThreshold = 10

// edgeSnapDistance is spec.md §4.7's floating-Move "snapping to monitor
// edges when within 15 px" distance. Nothing in this package reads it;
// no edge snapping is applied on drag end.
const edgeSnapDistance = 15

// Handlers owns everything the reducer's event-handling methods need: the
// tree they mutate, the command dispatcher they run window-rule commands
// through, the compiled window-rule set, and the subset of config that
// shapes default behaviour (initial window state, focus-follows-cursor).
type Handlers struct {
	Tree               *containers.Tree
	Dispatch           *commands.Context
	Rules              []rules.Rule
	WindowBehavior     config.WindowBehaviorConfig
	FocusFollowsCursor bool
}

// findByHandle locates the window container wrapping handle. There is no
// handle->id index (the tree is small enough in practice that a walk is
// cheap, and no other traversal in this package needs one either); this
// mirrors the tree-walk style commands.neighbourInDirection already uses
// for direction lookups instead of maintaining a secondary index.
func (h *Handlers) findByHandle(handle platform.WindowHandle) (*containers.Container, bool) {
	for _, c := range h.Tree.Descendants(h.Tree.RootID()) {
		if c.Kind().IsWindowContainer() && c.NativeWindow() != nil && c.NativeWindow().Handle() == handle {
			return c, true
		}
	}
	return nil, false
}

// targetWorkspace picks the workspace a newly managed window should land
// in: the workspace of the currently focused container, or the first
// workspace of the first monitor if nothing is focused yet.
func (h *Handlers) targetWorkspace() (*containers.Container, bool) {
	if focused, ok := h.Tree.FocusedContainer(); ok {
		if ws, ok := h.Tree.Workspace(focused.ID()); ok {
			return ws, true
		}
	}
	for _, monitor := range h.Tree.Children(h.Tree.RootID()) {
		if workspaces := h.Tree.Children(monitor.ID()); len(workspaces) > 0 {
			return workspaces[0], true
		}
	}
	return nil, false
}

// defaultFloatingState builds the WindowState a newly managed floating
// window starts in, from window_behavior.state_defaults.floating.
func (h *Handlers) defaultFloatingState() containers.WindowState {
	d := h.WindowBehavior.StateDefaults.Floating
	return containers.WindowState{Kind: containers.StateFloating, Centered: d.Centered, ShownOnTop: d.ShownOnTop}
}

// WindowManaged implements spec.md §4.6's WindowManaged(native): create a
// window container (tiling or floating per window_behavior.initial_state),
// run Manage window rules, queue focus/effect updates, and redraw the
// window's new parent workspace.
func (h *Handlers) WindowManaged(native platform.NativeWindow) (*containers.Container, error) {
	workspace, ok := h.targetWorkspace()
	if !ok {
		return nil, fmt.Errorf("no workspace available to manage window into")
	}

	var window *containers.Container
	if h.WindowBehavior.InitialState == "floating" {
		window = containers.NewNonTilingWindow(native, h.defaultFloatingState(), geometry.RectDelta{})
		h.Tree.AttachContainer(window, workspace.ID(), -1)
	} else {
		window = containers.NewTilingWindow(native, 0, geometry.RectDelta{})
		focused, _ := h.Tree.FocusedContainer()
		containers.InsertTilingWindow(h.Tree, workspace, window, focused)
	}

	window, err := rules.Run(h.withBuiltins(), h.Dispatch, h.Tree, window, rules.EventManage)
	if err != nil {
		return nil, fmt.Errorf("manage window rules: %w", err)
	}
	if window == nil {
		// A Manage rule (e.g. Ignore) detached the window; nothing further
		// to queue (spec.md §4.8).
		return nil, nil
	}

	h.Tree.SetFocusedDescendant(window, h.Tree.RootID())
	h.queueRedraw(workspace)
	return window, nil
}

// withBuiltins appends the built-in default rules after the configured
// ones, per spec.md §4.8's "iterate rules in config order plus built-in
// defaults."
func (h *Handlers) withBuiltins() []rules.Rule {
	return append(append([]rules.Rule(nil), h.Rules...), rules.BuiltinDefaults()...)
}

func (h *Handlers) queueRedraw(workspace *containers.Container) {
	if h.Dispatch != nil && h.Dispatch.Redraw != nil {
		h.Dispatch.Redraw.QueueRedraw(workspace.ID())
	}
}

// WindowFocused implements spec.md §4.6's WindowFocused(native): set
// focused descendant, queue focus/effect updates, run Focus window rules.
func (h *Handlers) WindowFocused(handle platform.WindowHandle) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	h.Tree.SetFocusedDescendant(window, h.Tree.RootID())
	if workspace, ok := h.Tree.Workspace(window.ID()); ok {
		h.queueRedraw(workspace)
	}
	_, err := rules.Run(h.withBuiltins(), h.Dispatch, h.Tree, window, rules.EventFocus)
	return err
}

// WindowDestroyed implements spec.md §4.6's WindowDestroyed(native):
// locate by handle, detach, destroy, heal the workspace, move focus to
// focus_target_after_removal, queue redraw, signal the caller to emit
// WindowUnmanaged.
func (h *Handlers) WindowDestroyed(handle platform.WindowHandle) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	workspace, _ := h.Tree.Workspace(window.ID())
	target := h.focusTargetAfterRemoval(window)

	h.Tree.DetachContainer(window)
	h.Tree.RemoveContainer(window)

	if workspace != nil {
		containers.HealWorkspaceLayout(h.Tree, workspace)
	}
	if target != nil {
		h.Tree.SetFocusedDescendant(target, h.Tree.RootID())
	}
	if workspace != nil {
		h.queueRedraw(workspace)
	}
	return nil
}

// focusTargetAfterRemoval implements spec.md §4.6's "prefer same-kind
// neighbour; else any tiling sibling; else the workspace itself."
func (h *Handlers) focusTargetAfterRemoval(removed *containers.Container) *containers.Container {
	siblings := h.Tree.Siblings(removed.ID())
	for _, s := range siblings {
		if s.Kind() == removed.Kind() {
			return s
		}
	}
	for _, s := range siblings {
		if s.Kind() == containers.KindTilingWindow {
			return s
		}
	}
	if workspace, ok := h.Tree.Workspace(removed.ID()); ok {
		return workspace
	}
	return nil
}

// WindowVisibilityEvent enumerates the six paired visibility
// notifications spec.md §4.6 groups together.
type WindowVisibilityEvent int

const (
	WindowShown WindowVisibilityEvent = iota
	WindowHidden
	WindowMinimized
	WindowMinimizeEnded
	WindowCloaked
	WindowUncloaked
)

// WindowVisibilityChanged implements spec.md §4.6's "WindowShown /
// WindowHidden / WindowMinimized / WindowMinimizeEnded / WindowCloaked /
// WindowUncloaked: update native cached properties; on minimize start,
// transition state to Minimized (capturing prev state); on minimize-end,
// restore prev_state (or config default) and re-home to tiling if
// applicable."
func (h *Handlers) WindowVisibilityChanged(handle platform.WindowHandle, event WindowVisibilityEvent) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	if frame, err := window.NativeWindow().Frame(); err == nil {
		window.SetCachedFrame(frame)
	}

	switch event {
	case WindowMinimized:
		updated := h.Tree.UpdateWindowState(window, containers.WindowState{Kind: containers.StateMinimized})
		if ws, ok := h.Tree.Workspace(updated.ID()); ok {
			h.queueRedraw(ws)
		}
	case WindowMinimizeEnded:
		restore := h.restoreState(window)
		updated := h.Tree.UpdateWindowState(window, restore)
		if ws, ok := h.Tree.Workspace(updated.ID()); ok {
			h.queueRedraw(ws)
		}
	}
	return nil
}

// restoreState picks prev_state, or the configured default, for a window
// coming back from Minimized (spec.md §4.6's minimize-end case).
func (h *Handlers) restoreState(window *containers.Container) containers.WindowState {
	if prev := window.PrevState(); prev != nil {
		return *prev
	}
	if h.WindowBehavior.InitialState == "floating" {
		return h.defaultFloatingState()
	}
	return containers.WindowState{Kind: containers.StateTiling}
}

// WindowTitleChanged implements spec.md §4.6's "WindowTitleChanged: run
// TitleChange window rules."
func (h *Handlers) WindowTitleChanged(handle platform.WindowHandle) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	_, err := rules.Run(h.withBuiltins(), h.Dispatch, h.Tree, window, rules.EventTitleChange)
	return err
}

// WindowMovedOrResizedStart implements spec.md §4.6's "record an
// ActiveDrag{operation: None, is_from_floating, initial_position}."
func (h *Handlers) WindowMovedOrResizedStart(handle platform.WindowHandle) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	pos := geometry.Point{}
	if frame, err := window.NativeWindow().Frame(); err == nil {
		pos = geometry.Point{X: frame.X, Y: frame.Y}
	}
	window.SetActiveDrag(&containers.ActiveDrag{
		Operation:      containers.DragNone,
		IsFromFloating: window.Kind() == containers.KindNonTilingWindow && window.State().Kind == containers.StateFloating,
		InitialPos:     pos,
	})
	return nil
}

// WindowMovedOrResized implements the five-step ongoing-drag logic of
// spec.md §4.6. It is intentionally conservative about step 1's duplicate
// suppression: callers that already dedupe identical frames upstream (the
// platform adapter layer, out of this package's scope) may pass every
// frame through without a correctness cost, since steps 2-5 below are
// themselves idempotent on an unchanged frame.
func (h *Handlers) WindowMovedOrResized(handle platform.WindowHandle) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	frame, err := window.NativeWindow().Frame()
	if err != nil {
		return fmt.Errorf("read frame for moved/resized window: %w", err)
	}
	window.SetCachedFrame(frame)

	if drag := window.ActiveDrag(); drag != nil {
		return h.handleActiveDrag(window, drag, frame)
	}

	monitor, ok := h.Tree.Monitor(window.ID())
	if !ok {
		return nil
	}
	workspace, _ := h.Tree.Workspace(window.ID())
	isFullscreenSized := workspace != nil && rectsApproximatelyEqual(frame, h.Tree.ToRect(workspace.ID()))

	state := window.State()
	switch {
	case isFullscreenSized && state.Kind != containers.StateFullscreen:
		maximized, _ := window.NativeWindow().IsMaximized()
		updated := h.Tree.UpdateWindowState(window, containers.WindowState{Kind: containers.StateFullscreen, Maximized: maximized})
		if ws, ok := h.Tree.Workspace(updated.ID()); ok {
			h.queueRedraw(ws)
		}
	case !isFullscreenSized && state.Kind == containers.StateFullscreen:
		updated := h.Tree.UpdateWindowState(window, h.restoreState(window))
		if ws, ok := h.Tree.Workspace(updated.ID()); ok {
			h.queueRedraw(ws)
		}
	case state.Kind == containers.StateFloating:
		window.SetFloatingPlacement(frame)
		window.SetHasCustomFloatingPlacement(true)
		for _, m := range h.Tree.Children(h.Tree.RootID()) {
			if m.ID() != monitor.ID() && h.Tree.ToRect(m.ID()).Contains(frame.Center()) {
				h.migrateFloatingWindowToMonitor(window, m)
				break
			}
		}
	}
	return nil
}

// handleActiveDrag implements spec.md §4.6 step 2: classify the drag as
// Move or Resize from the frame delta, and convert a dragged tiling window
// to Floating on the first move past moveThreshold so the user can drag
// freely.
func (h *Handlers) handleActiveDrag(window *containers.Container, drag *containers.ActiveDrag, frame geometry.Rect) error {
	dx := frame.X - drag.InitialPos.X
	dy := frame.Y - drag.InitialPos.Y
	moved := abs(dx) > 0 || abs(dy) > 0
	sizeUnchanged := frame.Width == window.CachedFrame().Width && frame.Height == window.CachedFrame().Height

	if moved && sizeUnchanged {
		drag.Operation = containers.DragMove
	} else {
		drag.Operation = containers.DragResize
	}

	if drag.Operation == containers.DragMove && window.Kind() == containers.KindTilingWindow && (abs(dx) > moveThreshold || abs(dy) > moveThreshold) {
		parent, hasParent := h.Tree.Parent(window.ID())
		converted := h.Tree.UpdateWindowState(window, h.defaultFloatingState())
		converted.SetFloatingPlacement(frame)
		if hasParent && parent.Kind() == containers.KindSplit && len(h.Tree.ChildIDs(parent.ID())) == 1 {
			h.Tree.FlattenSplitContainer(parent)
		}
		converted.SetActiveDrag(drag)
	}
	return nil
}

// migrateFloatingWindowToMonitor moves window into target monitor's
// currently displayed workspace (spec.md §4.6 step 5's "crossed into a
// different monitor" case).
func (h *Handlers) migrateFloatingWindowToMonitor(window *containers.Container, target *containers.Container) {
	displayed, ok := h.Tree.LastFocusedChild(target.ID())
	if !ok {
		return
	}
	h.Tree.MoveContainerWithinTree(window, displayed.ID(), -1)
}

// WindowMovedOrResizedEnd implements spec.md §4.6's drag-end handling:
// Resize applies the delta to tiling-size fractions of the dragged edges;
// Move snaps a temporarily-floated tiling window back into the workspace
// at the quadrant-indicated position, heals the layout, and clears the
// drag.
func (h *Handlers) WindowMovedOrResizedEnd(handle platform.WindowHandle, cursor geometry.Point) error {
	window, ok := h.findByHandle(handle)
	if !ok {
		return nil
	}
	drag := window.ActiveDrag()
	if drag == nil {
		return nil
	}
	defer window.SetActiveDrag(nil)

	switch drag.Operation {
	case containers.DragResize:
		return h.endResizeDrag(window)
	case containers.DragMove:
		return h.endMoveDrag(window, drag, cursor)
	}
	return nil
}

// endResizeDrag applies the width/height delta the drag produced to the
// tiling-size fractions of the dragged edges (spec.md §4.6).
func (h *Handlers) endResizeDrag(window *containers.Container) error {
	if window.Kind() != containers.KindTilingWindow {
		return nil
	}
	parent, ok := h.Tree.Parent(window.ID())
	if !ok {
		return nil
	}
	siblings := h.Tree.NextSiblings(window.ID())
	if len(siblings) == 0 {
		siblings = h.Tree.PrevSiblings(window.ID())
	}
	if len(siblings) == 0 {
		return nil
	}
	adjacent := siblings[0]

	parentRect := h.Tree.ToRect(parent.ID())
	extent := parentRect.Width
	if parent.Direction() == containers.DirectionVertical {
		extent = parentRect.Height
	}
	if extent == 0 {
		return nil
	}
	var newExtent int
	if parent.Direction() == containers.DirectionVertical {
		newExtent = window.CachedFrame().Height
	} else {
		newExtent = window.CachedFrame().Width
	}
	delta := (float64(newExtent) / float64(extent)) - window.TilingSize()

	window.SetTilingSize(window.TilingSize() + delta)
	adjacent.SetTilingSize(adjacent.TilingSize() - delta)
	if ws, ok := h.Tree.Workspace(window.ID()); ok {
		h.queueRedraw(ws)
	}
	return nil
}

// endMoveDrag snaps a temporarily-floated tiling window back into the
// workspace's tiling order, at the quadrant of the window under the
// cursor (spec.md §4.6).
func (h *Handlers) endMoveDrag(window *containers.Container, drag *containers.ActiveDrag, cursor geometry.Point) error {
	if !drag.IsFromFloating {
		return nil
	}
	workspace, ok := h.Tree.Workspace(window.ID())
	if !ok {
		return nil
	}
	under := h.windowUnderPoint(workspace, cursor, window.ID())
	var targetParent containers.ID
	var targetIndex int
	if under == nil {
		targetParent, targetIndex = workspace.ID(), -1
	} else {
		targetParent, targetIndex = h.quadrantInsertionPoint(under, cursor)
	}

	updated := h.Tree.UpdateWindowState(window, containers.WindowState{Kind: containers.StateTiling})
	h.Tree.MoveContainerWithinTree(updated, targetParent, targetIndex)
	containers.HealWorkspaceLayout(h.Tree, workspace)
	h.queueRedraw(workspace)
	return nil
}

// windowUnderPoint finds the topmost tiling window under cursor in
// workspace, excluding exclude.
func (h *Handlers) windowUnderPoint(workspace *containers.Container, cursor geometry.Point, exclude containers.ID) *containers.Container {
	for _, c := range h.Tree.TilingChildren(workspace.ID()) {
		if c.ID() == exclude || c.Kind() != containers.KindTilingWindow {
			continue
		}
		if h.Tree.ToRect(c.ID()).Contains(cursor) {
			return c
		}
	}
	return nil
}

// quadrantInsertionPoint decides where to insert relative to under based
// on which quadrant of its rect the cursor point falls in.
func (h *Handlers) quadrantInsertionPoint(under *containers.Container, cursor geometry.Point) (containers.ID, int) {
	parent, ok := h.Tree.Parent(under.ID())
	if !ok {
		return under.ID(), -1
	}
	quadrant := h.Tree.ToRect(under.ID()).QuadrantOf(cursor)
	idx := h.Tree.Index(under.ID())
	switch quadrant {
	case geometry.QuadrantLeft, geometry.QuadrantTop:
		return parent.ID(), idx
	default:
		return parent.ID(), idx + 1
	}
}

// DisplaySettingsChanged implements spec.md §4.6's monitor-diff handling:
// re-enumerate monitors, diff against current Monitor nodes by stable
// display id, add/remove Monitor nodes, queue a full redraw. Every
// workspace of a removed monitor moves to the primary monitor; bind-to-
// monitor settings and previous monitors are not consulted.
func (h *Handlers) DisplaySettingsChanged(live []platform.NativeMonitor) error {
	existing := h.Tree.Children(h.Tree.RootID())
	byDisplayID := make(map[string]*containers.Container, len(existing))
	for _, m := range existing {
		byDisplayID[m.NativeMonitor().DisplayID()] = m
	}

	seen := make(map[string]bool, len(live))
	var primary *containers.Container
	for _, native := range live {
		seen[native.DisplayID()] = true
		rect, _ := native.WorkingRect()
		dpi, _ := native.DPI()
		if existingMonitor, ok := byDisplayID[native.DisplayID()]; ok {
			existingMonitor.SetMonitorRect(rect)
			existingMonitor.SetDPI(dpi)
			if native.IsPrimary() {
				primary = existingMonitor
			}
			continue
		}
		added := containers.NewMonitor(native, rect, dpi)
		h.Tree.AttachContainer(added, h.Tree.RootID(), -1)
		if native.IsPrimary() {
			primary = added
		}
	}

	for _, m := range existing {
		if seen[m.NativeMonitor().DisplayID()] {
			continue
		}
		h.migrateWorkspacesOffMonitor(m, primary)
		h.Tree.RemoveContainer(m)
	}

	for _, m := range h.Tree.Children(h.Tree.RootID()) {
		h.queueRedraw(m)
		for _, ws := range h.Tree.Children(m.ID()) {
			h.queueRedraw(ws)
		}
	}
	return nil
}

// migrateWorkspacesOffMonitor moves all of removed's workspaces onto
// fallback (the primary monitor). Bound and unbound workspaces are
// treated alike; with no fallback monitor, nothing is moved.
func (h *Handlers) migrateWorkspacesOffMonitor(removed *containers.Container, fallback *containers.Container) {
	if fallback == nil {
		return
	}
	for _, ws := range h.Tree.Children(removed.ID()) {
		h.Tree.MoveContainerWithinTree(ws, fallback.ID(), -1)
	}
}

// MouseMove implements spec.md §4.6's focus-follows-cursor: if enabled,
// find the topmost manageable window under the cursor and, if different
// from the focused one, issue a focus change.
func (h *Handlers) MouseMove(cursor geometry.Point) error {
	if !h.FocusFollowsCursor {
		return nil
	}
	window := h.topmostWindowUnderPoint(cursor)
	if window == nil {
		return nil
	}
	focused, hasFocus := h.Tree.FocusedContainer()
	if hasFocus && focused.ID() == window.ID() {
		return nil
	}
	h.Tree.SetFocusedDescendant(window, h.Tree.RootID())
	if ws, ok := h.Tree.Workspace(window.ID()); ok {
		h.queueRedraw(ws)
	}
	return nil
}

// topmostWindowUnderPoint walks every window container whose cached frame
// contains cursor, preferring the most recently focused (an approximation
// of true Z-order, which platform-sync — not this package — tracks).
func (h *Handlers) topmostWindowUnderPoint(cursor geometry.Point) *containers.Container {
	for _, c := range h.Tree.DescendantFocusOrder(h.Tree.RootID()) {
		if !c.Kind().IsWindowContainer() {
			continue
		}
		if c.CachedFrame().Contains(cursor) {
			return c
		}
	}
	return nil
}

func rectsApproximatelyEqual(a, b geometry.Rect) bool {
	const tolerance = 2
	return abs(a.X-b.X) <= tolerance && abs(a.Y-b.Y) <= tolerance &&
		abs(a.Width-b.Width) <= tolerance && abs(a.Height-b.Height) <= tolerance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
