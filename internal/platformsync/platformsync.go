// Package platformsync implements spec.md §4.3: the pending-sync
// accumulator the reducer writes to instead of calling OS APIs directly,
// and the platform-sync pass that drains it into the minimum set of native
// window/cursor/effect calls. Grounded on
// original_source/packages/wm/src/commands/general/platform_sync.rs for
// the seven-step contract (focus resolution, windows-to-update, Z-order,
// cursor-jump, effects) and on internal/web/server.go for charmbracelet/log
// usage as the module's logging library. Most native calls are wrapped in
// platform.RetryOnFailure (spec.md §7's OSCallFailed transient-retry
// contract) rather than failing on the first transient error; the z-order-
// only SetPosition call and the delayed border re-apply are issued once,
// without retry.
package platformsync

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// PendingSync is the reducer-local accumulator of work for the next
// platform-sync pass (spec.md §4.3, Glossary "Pending-sync"). All queue_*
// methods are idempotent: queuing the same thing twice in one tick has no
// additional effect.
type PendingSync struct {
	containersToRedraw  map[containers.ID]bool
	workspacesToReorder map[containers.ID]bool
	focusChange         bool
	cursorJump          bool
	focusedEffectUpdate bool
	allEffectsUpdate    bool

	// recentFocused survives across ticks so the next Sync call can tell
	// whether focus actually moved and apply the unfocused-window effect
	// to only the one window that lost it (spec.md §4.3 step 6's "cheap
	// path").
	recentFocused *containers.Container
}

// New returns an empty PendingSync accumulator.
func New() *PendingSync {
	return &PendingSync{
		containersToRedraw:  make(map[containers.ID]bool),
		workspacesToReorder: make(map[containers.ID]bool),
	}
}

// QueueContainerToRedraw marks node as needing a platform-sync pass.
func (p *PendingSync) QueueContainerToRedraw(id containers.ID) {
	p.containersToRedraw[id] = true
}

// QueueContainersToRedraw is the plural form spec.md §4.3 names.
func (p *PendingSync) QueueContainersToRedraw(ids []containers.ID) {
	for _, id := range ids {
		p.containersToRedraw[id] = true
	}
}

// QueueRedraw satisfies commands.RedrawQueue, the narrow seam the reducer
// dispatches through; it is exactly QueueContainerToRedraw under another
// name so *PendingSync can be plugged in as commands.Context.Redraw.
func (p *PendingSync) QueueRedraw(id containers.ID) {
	p.QueueContainerToRedraw(id)
}

// QueueFocusChange records that the focused container changed this tick.
func (p *PendingSync) QueueFocusChange() { p.focusChange = true }

// QueueCursorJump requests a cursor warp on the next Sync, subject to
// general.cursor_jump.enabled.
func (p *PendingSync) QueueCursorJump() { p.cursorJump = true }

// QueueFocusedEffectUpdate requests the focused window's effects be
// reapplied without a full unfocused sweep.
func (p *PendingSync) QueueFocusedEffectUpdate() { p.focusedEffectUpdate = true }

// QueueAllEffectsUpdate requests every window's effects be reapplied
// (e.g. after a window_effects config reload).
func (p *PendingSync) QueueAllEffectsUpdate() { p.allEffectsUpdate = true }

// QueueWorkspaceToReorder marks a workspace as needing its taskbar/
// Z-order bookkeeping reconsidered.
func (p *PendingSync) QueueWorkspaceToReorder(id containers.ID) {
	p.workspacesToReorder[id] = true
}

// IsEmpty reports whether nothing is queued.
func (p *PendingSync) IsEmpty() bool {
	return len(p.containersToRedraw) == 0 && len(p.workspacesToReorder) == 0 &&
		!p.focusChange && !p.cursorJump && !p.focusedEffectUpdate && !p.allEffectsUpdate
}

// clearRedraw drops only the redraw set, used on the paused early-return
// (spec.md §4.3 step 1) so it doesn't silently accumulate forever.
func (p *PendingSync) clearRedraw() {
	p.containersToRedraw = make(map[containers.ID]bool)
}

// clear drains the accumulator at the end of a successful Sync (spec.md
// §4.3 step 7).
func (p *PendingSync) clear() {
	p.containersToRedraw = make(map[containers.ID]bool)
	p.workspacesToReorder = make(map[containers.ID]bool)
	p.focusChange = false
	p.cursorJump = false
	p.focusedEffectUpdate = false
	p.allEffectsUpdate = false
}

// Sync drains pending into the minimum set of native calls needed to bring
// the OS in line with tree (spec.md §4.3). It is idempotent when pending
// is empty. cursor may be nil (cursor-jump is then skipped regardless of
// config).
func Sync(tree *containers.Tree, cfg *config.Config, cursor platform.CursorController, pending *PendingSync, paused bool) error {
	if paused {
		pending.clearRedraw()
		return nil
	}

	focused, ok := tree.FocusedContainer()
	if !ok {
		pending.clear()
		return nil
	}
	recentFocused := pending.recentFocused

	if pending.focusChange {
		syncFocus(focused)
	}

	if len(pending.containersToRedraw) > 0 || pending.focusChange {
		redrawContainers(tree, cfg, focused, recentFocused, pending)
	}

	if pending.cursorJump && cfg.General.CursorJump.Enabled && cursor != nil {
		jumpCursor(tree, cfg, focused, cursor)
	}

	applyFocusedEffects := pending.focusChange || pending.focusedEffectUpdate || pending.allEffectsUpdate
	if applyFocusedEffects && focused.Kind().IsWindowContainer() {
		applyWindowEffects(focused, true, cfg)
	}

	switch {
	case pending.allEffectsUpdate:
		for _, w := range windowContainers(tree) {
			if w.ID() != focused.ID() {
				applyWindowEffects(w, false, cfg)
			}
		}
	case pending.focusChange:
		if recentFocused != nil && recentFocused.Kind().IsWindowContainer() && recentFocused.ID() != focused.ID() {
			if _, stillPresent := tree.Get(recentFocused.ID()); stillPresent {
				applyWindowEffects(recentFocused, false, cfg)
			}
		}
	}

	pending.recentFocused = focused
	pending.clear()
	return nil
}

// syncFocus sets the OS foreground window to focused's native handle
// (spec.md §4.3 step 3). When focus is on a container that is not a
// window (an empty workspace), no foreground call is made. Emitting WmEvent::FocusChanged is the caller's job (it owns the
// event bus); Sync only drives the native call.
func syncFocus(focused *containers.Container) {
	if !focused.Kind().IsWindowContainer() || focused.NativeWindow() == nil {
		return
	}
	win := focused.NativeWindow()
	if err := platform.RetryOnFailure(win.SetForeground, nil); err != nil {
		log.Warn("failed to set foreground window", "err", err)
	}
}

func windowContainers(tree *containers.Tree) []*containers.Container {
	var out []*containers.Container
	for _, d := range tree.Descendants(tree.RootID()) {
		if d.Kind().IsWindowContainer() {
			out = append(out, d)
		}
	}
	return out
}

func containsContainer(set []*containers.Container, id containers.ID) bool {
	for _, c := range set {
		if c.ID() == id {
			return true
		}
	}
	return false
}

func dedupeContainers(groups ...[]*containers.Container) []*containers.Container {
	seen := make(map[containers.ID]bool)
	var out []*containers.Container
	for _, group := range groups {
		for _, c := range group {
			if !seen[c.ID()] {
				seen[c.ID()] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// windowsToRedraw resolves pending.containersToRedraw into concrete window
// containers: a queued window is included directly; a queued Split/
// Workspace/Monitor contributes its window descendants (spec.md §4.3 step
// 4's "union of descendants-of-dirty-containers that are window
// containers").
func windowsToRedraw(tree *containers.Tree, pending *PendingSync) []*containers.Container {
	var out []*containers.Container
	seen := make(map[containers.ID]bool)
	add := func(w *containers.Container) {
		if !seen[w.ID()] {
			seen[w.ID()] = true
			out = append(out, w)
		}
	}
	for id := range pending.containersToRedraw {
		c, ok := tree.Get(id)
		if !ok {
			continue
		}
		if c.Kind().IsWindowContainer() {
			add(c)
			continue
		}
		for _, d := range tree.Descendants(id) {
			if d.Kind().IsWindowContainer() {
				add(d)
			}
		}
	}
	return out
}

// windowsToBringToFront implements spec.md §4.3 step 4's bring-to-front
// set: every sibling window on the focused window's workspace sharing its
// coarse state, when focus moved state or workspace; otherwise just the
// focused window itself.
func windowsToBringToFront(tree *containers.Tree, focused, recentFocused *containers.Container, pending *PendingSync) []*containers.Container {
	if !pending.focusChange || !focused.Kind().IsWindowContainer() {
		return nil
	}
	focusedWorkspace, ok := tree.Workspace(focused.ID())
	if !ok {
		return nil
	}

	shouldBringToFront := true
	if recentFocused != nil {
		prevWorkspace, _ := tree.Workspace(recentFocused.ID())
		stateChanged := recentFocused.State().Kind != focused.State().Kind
		workspaceChanged := prevWorkspace == nil || prevWorkspace.ID() != focusedWorkspace.ID()
		shouldBringToFront = stateChanged || workspaceChanged
	}

	if !shouldBringToFront {
		return []*containers.Container{focused}
	}

	var matching []*containers.Container
	for _, d := range tree.Descendants(focusedWorkspace.ID()) {
		if !d.Kind().IsWindowContainer() {
			continue
		}
		if d.State().Kind == containers.StateMinimized {
			continue
		}
		if d.State().Kind == focused.State().Kind {
			matching = append(matching, d)
		}
	}
	return matching
}

// windowZOrders assigns each window-to-update a Z-order (spec.md §4.3 step
// 4): always-on-top states win outright; bring-to-front windows chain via
// AfterHandle so relative focus order survives; everything else is Normal.
func windowZOrders(bringToFront, windowsToUpdate []*containers.Container) map[containers.ID]platform.ZOrder {
	orders := make(map[containers.ID]platform.ZOrder, len(windowsToUpdate))
	var prev *containers.Container
	for _, w := range windowsToUpdate {
		state := w.State()
		switch {
		case state.Kind == containers.StateFloating && state.ShownOnTop,
			state.Kind == containers.StateFullscreen && state.ShownOnTop:
			orders[w.ID()] = platform.ZOrder{TopMost: true}
		case containsContainer(bringToFront, w.ID()):
			if prev != nil {
				orders[w.ID()] = platform.ZOrder{BringToFront: true, AfterHandle: prev.NativeWindow().Handle()}
			} else {
				orders[w.ID()] = platform.ZOrder{BringToFront: true}
			}
			prev = w
		default:
			orders[w.ID()] = platform.ZOrder{}
		}
	}
	return orders
}

// redrawContainers is spec.md §4.3 step 4: compute windows-to-update,
// sort by focus order, and issue the minimum set of native calls.
func redrawContainers(tree *containers.Tree, cfg *config.Config, focused, recentFocused *containers.Container, pending *PendingSync) {
	toRedraw := windowsToRedraw(tree, pending)
	bringToFront := windowsToBringToFront(tree, focused, recentFocused, pending)
	toUpdate := dedupeContainers(toRedraw, bringToFront)

	focusOrder := tree.DescendantFocusOrder(tree.RootID())
	position := make(map[containers.ID]int, len(focusOrder))
	for i, w := range focusOrder {
		position[w.ID()] = i
	}
	sortByFocusOrder(toUpdate, position)

	zOrders := windowZOrders(bringToFront, toUpdate)
	hideMethod := resolveHideMethod(cfg.General.HideMethod)

	for _, w := range toUpdate {
		z := zOrders[w.ID()]
		if containsContainer(bringToFront, w.ID()) && !containsContainer(toRedraw, w.ID()) {
			frame := w.CachedFrame()
			if err := w.NativeWindow().SetPosition(frame, z, true); err != nil {
				log.Warn("failed to set window z-order", "err", err)
			}
			continue
		}
		applyWindowGeometry(tree, w, z, hideMethod, cfg.General.ShowAllInTaskbar)
	}
}

func sortByFocusOrder(containersList []*containers.Container, position map[containers.ID]int) {
	for i := 1; i < len(containersList); i++ {
		for j := i; j > 0; j-- {
			pi, oki := position[containersList[j].ID()]
			pj, okj := position[containersList[j-1].ID()]
			if !oki {
				pi = len(position)
			}
			if !okj {
				pj = len(position)
			}
			if pi < pj {
				containersList[j], containersList[j-1] = containersList[j-1], containersList[j]
			} else {
				break
			}
		}
	}
}

// applyWindowGeometry transitions a window's display state, computes its
// target rect, and issues SetPosition (spec.md §4.3 step 4's per-window
// sync). A pure Z-order-only call isn't modeled separately here: the
// NativeWindow adapter surface only exposes one combined SetPosition, so
// every non-z-only entry recomputes and reapplies the full rect, which is
// idempotent when nothing actually moved.
func applyWindowGeometry(tree *containers.Tree, w *containers.Container, z platform.ZOrder, hideMethod platform.HideMethod, showAllInTaskbar bool) {
	workspace, ok := tree.Workspace(w.ID())
	if !ok {
		return
	}
	displayed := isWorkspaceDisplayed(tree, workspace)
	w.SetDisplayState(nextDisplayState(w.DisplayState(), displayed))

	rect := tree.ToRect(w.ID())
	visible := w.DisplayState() == containers.DisplayShown || w.DisplayState() == containers.DisplayShowing

	if w.NativeWindow() == nil {
		return
	}
	win := w.NativeWindow()
	setPosition := func() error { return win.SetPosition(rect, z, visible) }
	refreshPosition := func() { rect = tree.ToRect(w.ID()) }
	if err := platform.RetryOnFailure(setPosition, refreshPosition); err != nil {
		log.Warn("failed to set window position", "err", err)
	}
	w.SetCachedFrame(rect)

	if hideMethod == platform.HideMethodCloak && !showAllInTaskbar {
		showing := w.DisplayState() == containers.DisplayShowing || w.DisplayState() == containers.DisplayHiding
		if showing {
			setTaskbar := func() error { return win.SetTaskbarVisible(visible) }
			if err := platform.RetryOnFailure(setTaskbar, nil); err != nil {
				log.Warn("failed to set taskbar visibility", "err", err)
			}
		}
	}
}

// nextDisplayState stages a display-state transition (spec.md §4.3 step 4,
// Glossary "Display state"): Hidden/Hiding move to Showing once the
// workspace becomes displayed, Shown/Showing move to Hiding once it stops
// being displayed; otherwise unchanged.
func nextDisplayState(current containers.DisplayState, workspaceDisplayed bool) containers.DisplayState {
	switch {
	case (current == containers.DisplayHidden || current == containers.DisplayHiding) && workspaceDisplayed:
		return containers.DisplayShowing
	case (current == containers.DisplayShown || current == containers.DisplayShowing) && !workspaceDisplayed:
		return containers.DisplayHiding
	default:
		return current
	}
}

// isWorkspaceDisplayed reports whether workspace is the front of its
// monitor's child-focus-order (spec.md Glossary: a monitor shows exactly
// one workspace at a time, tracked via last_focused_child rather than a
// separate "active workspace" field).
func isWorkspaceDisplayed(tree *containers.Tree, workspace *containers.Container) bool {
	monitor, ok := tree.Monitor(workspace.ID())
	if !ok {
		return false
	}
	displayed, ok := tree.LastFocusedChild(monitor.ID())
	return ok && displayed.ID() == workspace.ID()
}

func resolveHideMethod(name config.HideMethodName) platform.HideMethod {
	switch name {
	case config.HideMethodNameCloak:
		return platform.HideMethodCloak
	case config.HideMethodNamePlaceInCorner:
		return platform.HideMethodPlaceInCorner
	default:
		return platform.HideMethodHide
	}
}

// jumpCursor implements spec.md §4.3 step 5: warp the cursor to the
// window's center for the window-focus trigger, or to the focused
// monitor's center for the monitor-focus trigger — and only then if the
// cursor isn't already on that monitor.
func jumpCursor(tree *containers.Tree, cfg *config.Config, focused *containers.Container, cursor platform.CursorController) {
	var target *containers.Container
	switch cfg.General.CursorJump.Trigger {
	case config.CursorJumpMonitorFocus:
		monitor, ok := tree.Monitor(focused.ID())
		if !ok {
			return
		}
		pos, err := cursor.Position()
		if err != nil {
			return
		}
		if monitorAtPoint(tree, pos) == monitor.ID() {
			return
		}
		target = monitor
	default:
		target = focused
	}

	center := tree.ToRect(target.ID()).Center()
	moveCursor := func() error { return cursor.MoveTo(center) }
	refreshCenter := func() { center = tree.ToRect(target.ID()).Center() }
	if err := platform.RetryOnFailure(moveCursor, refreshCenter); err != nil {
		log.Warn("failed to move cursor", "err", err)
	}
}

func monitorAtPoint(tree *containers.Tree, p geometry.Point) containers.ID {
	for _, m := range tree.Children(tree.RootID()) {
		if m.Kind() != containers.KindMonitor {
			continue
		}
		if tree.ToRect(m.ID()).Contains(p) {
			return m.ID()
		}
	}
	return ""
}

// applyWindowEffects applies the focused- or unfocused-window effect set
// to w (spec.md §4.3 step 6). ApplyEffects is called once for every
// window, whatever the configuration; only the delayed (50 ms) border
// re-apply is skipped when neither effect set enables the border.
func applyWindowEffects(w *containers.Container, isFocused bool, cfg *config.Config) {
	if w.NativeWindow() == nil {
		return
	}
	focusedCfg := cfg.WindowEffects.FocusedWindow
	otherCfg := cfg.WindowEffects.OtherWindows
	effectCfg := otherCfg
	if isFocused {
		effectCfg = focusedCfg
	}

	effects := platform.WindowEffects{
		BorderEnabled:       effectCfg.Border.Enabled,
		BorderColor:         effectCfg.Border.Color,
		HideTitleBar:        effectCfg.HideTitleBar.Enabled,
		CornerStyleEnabled:  effectCfg.CornerStyle.Enabled,
		CornerStyle:         effectCfg.CornerStyle.Style,
		TransparencyEnabled: effectCfg.Transparency.Enabled,
		Opacity:             effectCfg.Transparency.Opacity,
	}
	if !effects.TransparencyEnabled {
		effects.Opacity = 1.0
	}

	win := w.NativeWindow()
	applyEffects := func() error { return win.ApplyEffects(effects) }
	if err := platform.RetryOnFailure(applyEffects, nil); err != nil {
		log.Warn("failed to apply window effects", "err", err)
	}

	if focusedCfg.Border.Enabled || otherCfg.Border.Enabled {
		native := w.NativeWindow()
		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = native.ApplyEffects(effects)
		}()
	}
}
