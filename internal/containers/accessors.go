package containers

import (
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// TilingSizeGetters (spec.md §4.1) — defined only for tiling containers
// (Split, TilingWindow); Workspace's "size" is implicitly 1.0 (it has no
// siblings to share an axis with).

// TilingSize returns c's tiling-size fraction. Valid only when
// c.Kind().IsTilingContainer() and c.Kind() != KindWorkspace.
func (c *Container) TilingSize() float64 { return c.tilingSize }

// SetTilingSize sets c's tiling-size fraction directly. Callers are
// responsible for keeping sibling sizes summing to 1 (see
// normalizeTilingSizes and rescaleAfterRemoval in mutate.go); this setter
// does not rebalance on its own.
func (c *Container) SetTilingSize(v float64) { c.tilingSize = v }

// TilingDirectionGetters — defined only for direction containers
// (Workspace, Split).

// Direction returns c's tiling direction.
func (c *Container) Direction() TilingDirection { return c.direction }

// SetDirection sets c's tiling direction.
func (c *Container) SetDirection(d TilingDirection) { c.direction = d }

// Gaps returns c's gaps config (Workspace, Split).
func (c *Container) Gaps() GapsConfig { return c.gaps }

// SetGaps sets c's gaps config.
func (c *Container) SetGaps(g GapsConfig) { c.gaps = g }

// Name returns a Workspace's unique name.
func (c *Container) Name() string { return c.name }

// SetName sets a Workspace's name.
func (c *Container) SetName(name string) { c.name = name }

// DisplayName returns a Workspace's optional display name.
func (c *Container) DisplayName() string { return c.displayName }

// SetDisplayName sets a Workspace's optional display name.
func (c *Container) SetDisplayName(v string) { c.displayName = v }

// BoundMonitorIndex returns a Workspace's optional bound-monitor index.
func (c *Container) BoundMonitorIndex() *int { return c.boundMonitorIndex }

// SetBoundMonitorIndex sets a Workspace's bound-monitor index.
func (c *Container) SetBoundMonitorIndex(idx *int) { c.boundMonitorIndex = idx }

// KeepAlive returns a Workspace's keep-alive flag.
func (c *Container) KeepAlive() bool { return c.keepAlive }

// SetKeepAlive sets a Workspace's keep-alive flag.
func (c *Container) SetKeepAlive(v bool) { c.keepAlive = v }

// Layout returns a Workspace's tiling-layout tag and parameters.
func (c *Container) Layout() WorkspaceLayout { return c.layout }

// SetLayout sets a Workspace's tiling-layout tag and parameters.
func (c *Container) SetLayout(l WorkspaceLayout) { c.layout = l }

// NativeMonitor returns a Monitor's native handle.
func (c *Container) NativeMonitor() platform.NativeMonitor { return c.nativeMonitor }

// MonitorRect returns a Monitor's cached working rect.
func (c *Container) MonitorRect() geometry.Rect { return c.monitorRect }

// SetMonitorRect updates a Monitor's cached working rect.
func (c *Container) SetMonitorRect(r geometry.Rect) { c.monitorRect = r }

// DPI returns a Monitor's cached DPI scale factor.
func (c *Container) DPI() float64 { return c.dpi }

// SetDPI updates a Monitor's cached DPI scale factor.
func (c *Container) SetDPI(dpi float64) { c.dpi = dpi }

// WindowGetters (spec.md §4.1) — defined for window containers
// (TilingWindow, NonTilingWindow).

// NativeWindow returns a window container's native handle.
func (c *Container) NativeWindow() platform.NativeWindow { return c.nativeWindow }

// BorderDelta returns a window container's border delta.
func (c *Container) BorderDelta() geometry.RectDelta { return c.borderDelta }

// SetBorderDelta sets a window container's border delta.
func (c *Container) SetBorderDelta(d geometry.RectDelta) { c.borderDelta = d }

// CachedFrame returns a window container's last-known native frame.
func (c *Container) CachedFrame() geometry.Rect { return c.cachedFrame }

// SetCachedFrame updates a window container's cached native frame.
func (c *Container) SetCachedFrame(r geometry.Rect) { c.cachedFrame = r }

// HasPendingDPIAdjustment reports whether a TilingWindow is awaiting a
// post-DPI-change resize.
func (c *Container) HasPendingDPIAdjustment() bool { return c.hasPendingDPIAdjustment }

// SetHasPendingDPIAdjustment sets the pending-DPI-adjustment flag.
func (c *Container) SetHasPendingDPIAdjustment(v bool) { c.hasPendingDPIAdjustment = v }

// MarkWindowRuleDone records that a run_once rule (by its stable key) has
// already fired for this window (spec.md §4.8).
func (c *Container) MarkWindowRuleDone(ruleKey string) {
	if c.doneWindowRules == nil {
		c.doneWindowRules = make(map[string]bool)
	}
	c.doneWindowRules[ruleKey] = true
}

// HasDoneWindowRule reports whether a run_once rule has already fired.
func (c *Container) HasDoneWindowRule(ruleKey string) bool {
	return c.doneWindowRules[ruleKey]
}

// State returns a NonTilingWindow's current state. TilingWindow nodes are
// implicitly StateTiling and do not carry a WindowState value.
func (c *Container) State() WindowState {
	if c.kind == KindTilingWindow {
		return WindowState{Kind: StateTiling}
	}
	return c.state
}

// SetState sets a NonTilingWindow's current state in place (used for
// transitions that don't change node kind, e.g. Floating -> Fullscreen).
func (c *Container) SetState(s WindowState) { c.state = s }

// PrevState returns a NonTilingWindow's previous state, if any.
func (c *Container) PrevState() *WindowState { return c.prevState }

// SetPrevState sets a NonTilingWindow's previous state.
func (c *Container) SetPrevState(s *WindowState) { c.prevState = s }

// FloatingPlacement returns a NonTilingWindow's floating placement rect.
func (c *Container) FloatingPlacement() geometry.Rect { return c.floatingPlacement }

// SetFloatingPlacement sets a NonTilingWindow's floating placement rect.
func (c *Container) SetFloatingPlacement(r geometry.Rect) { c.floatingPlacement = r }

// HasCustomFloatingPlacement reports whether the floating placement was
// explicitly set by the user (vs. a computed default).
func (c *Container) HasCustomFloatingPlacement() bool { return c.hasCustomFloatingPlacement }

// SetHasCustomFloatingPlacement sets the custom-floating-placement flag.
func (c *Container) SetHasCustomFloatingPlacement(v bool) { c.hasCustomFloatingPlacement = v }

// InsertionTarget returns a NonTilingWindow's restore-to-tiling metadata.
func (c *Container) InsertionTarget() *InsertionTarget { return c.insertionTarget }

// SetInsertionTarget sets a NonTilingWindow's restore-to-tiling metadata.
func (c *Container) SetInsertionTarget(it *InsertionTarget) { c.insertionTarget = it }

// ActiveDrag returns a window container's in-progress drag record, if any.
func (c *Container) ActiveDrag() *ActiveDrag { return c.activeDrag }

// SetActiveDrag sets a window container's in-progress drag record.
func (c *Container) SetActiveDrag(d *ActiveDrag) { c.activeDrag = d }

// DisplayState returns a NonTilingWindow's staged visibility state.
func (c *Container) DisplayState() DisplayState { return c.displayState }

// SetDisplayState sets a NonTilingWindow's staged visibility state.
func (c *Container) SetDisplayState(s DisplayState) { c.displayState = s }

// ToggledState implements the four-way fallback spec.md §4.1 describes for
// `toggled_state(target, config)`: if target's kind differs from c's
// current kind, target wins; else the container's own prevState wins; else
// the configured default; else flip between Tiling and Floating.
// (SUPPLEMENTED FEATURES, SPEC_FULL.md.)
func ToggledState(c *Container, target WindowState, configDefault WindowState) WindowState {
	current := c.State()
	if current.Kind != target.Kind {
		return target
	}
	if c.prevState != nil && c.prevState.Kind != current.Kind {
		return *c.prevState
	}
	if configDefault.Kind != current.Kind {
		return configDefault
	}
	if current.Kind == StateTiling {
		return WindowState{Kind: StateFloating}
	}
	return WindowState{Kind: StateTiling}
}
