package commands

import (
	"fmt"
	"strings"

	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// RedrawQueue is the seam into platform-sync's pending accumulator
// (spec.md §4.3): handlers that change geometry or visibility queue a
// workspace for redraw instead of computing OS calls themselves.
type RedrawQueue interface {
	QueueRedraw(workspaceID containers.ID)
}

// Context bundles everything a handler needs: the tree it mutates, the
// platform adapters it calls through, and the redraw queue it reports to.
// Grounded on original_source's wm::commands module functions, which all
// take an equivalent `&mut WmState` handle.
type Context struct {
	Tree    *containers.Tree
	Cursor  platform.CursorController
	Process platform.ProcessRunner
	Redraw  RedrawQueue

	// CursorJumpEnabled/CursorJumpOnFocus mirror general.cursor_jump (spec.md §6.1);
	// Focus consults these to decide whether to warp the cursor.
	CursorJumpEnabled bool
	CursorJumpOnFocus bool
}

func (c *Context) queueRedraw(workspace *containers.Container) {
	if workspace == nil || c.Redraw == nil {
		return
	}
	c.Redraw.QueueRedraw(workspace.ID())
}

// Dispatch executes one parsed Command with subject as the subject
// container (spec.md §4.7: "Commands operate on a subject container, by
// id or focused"). Returns the container callers should treat as the new
// subject (commands that replace a node, e.g. SetFloating, return the
// replacement).
func (c *Context) Dispatch(cmd Command, subject *containers.Container) (*containers.Container, error) {
	switch cmd.Verb {
	case VerbFocus:
		return c.handleFocus(cmd, subject)
	case VerbMove:
		return c.handleMove(cmd, subject)
	case VerbMoveWorkspace:
		return c.handleMove(Command{Verb: VerbMove, Direction: cmd.Direction}, subject)
	case VerbResize:
		return subject, c.handleResize(cmd, subject)
	case VerbAdjustBorders:
		return subject, c.handleAdjustBorders(cmd, subject)
	case VerbSetFloating:
		return c.handleSetState(subject, containers.WindowState{Kind: containers.StateFloating, Centered: boolOr(cmd.Centered, true), ShownOnTop: boolOr(cmd.ShownOnTop, false)})
	case VerbSetFullscreen:
		return c.handleSetState(subject, containers.WindowState{Kind: containers.StateFullscreen, Maximized: boolOr(cmd.Maximized, true), ShownOnTop: boolOr(cmd.ShownOnTop, false)})
	case VerbSetTiling:
		return c.handleSetState(subject, containers.WindowState{Kind: containers.StateTiling})
	case VerbSetMinimized:
		return c.handleSetMinimized(subject)
	case VerbToggleFloating:
		return c.handleToggle(subject, containers.WindowState{Kind: containers.StateFloating, Centered: boolOr(cmd.Centered, true), ShownOnTop: boolOr(cmd.ShownOnTop, false)})
	case VerbToggleFullscreen:
		return c.handleToggle(subject, containers.WindowState{Kind: containers.StateFullscreen, Maximized: boolOr(cmd.Maximized, true), ShownOnTop: boolOr(cmd.ShownOnTop, false)})
	case VerbToggleTiling:
		return c.handleToggle(subject, containers.WindowState{Kind: containers.StateTiling})
	case VerbToggleMinimized:
		if subject.State().Kind == containers.StateMinimized {
			return c.handleSetState(subject, containers.WindowState{Kind: containers.StateTiling})
		}
		return c.handleSetMinimized(subject)
	case VerbToggleTilingDirection:
		return subject, c.handleToggleTilingDirection(subject)
	case VerbSetTilingDirection:
		return subject, c.handleSetTilingDirection(subject, cmd.TilingDirection)
	case VerbSetTransparency:
		return subject, c.handleSetTransparency(cmd, subject)
	case VerbClose:
		return subject, c.handleClose(subject)
	case VerbIgnore:
		return subject, c.handleIgnore(subject)
	case VerbShellExec:
		return subject, c.handleShellExec(cmd)
	case VerbWmCycleFocus:
		return c.handleWmCycleFocus(cmd)
	case VerbWmRedraw:
		return subject, c.handleWmRedraw()
	default:
		return subject, fmt.Errorf("command %q is not handled by Dispatch (owned by the reducer)", cmd.Verb)
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// handleFocus implements spec.md §4.7's Focus command: compute the target
// container, set it focused, queue a redraw for any workspace whose
// displayed-on-monitor assignment changed, and cursor-jump if configured.
func (c *Context) handleFocus(cmd Command, subject *containers.Container) (*containers.Container, error) {
	target, err := c.resolveTarget(cmd, subject)
	if err != nil {
		return subject, err
	}
	c.Tree.SetFocusedDescendant(target, c.Tree.RootID())
	if ws, ok := c.Tree.Workspace(target.ID()); ok {
		c.queueRedraw(ws)
	}
	if c.CursorJumpEnabled && c.CursorJumpOnFocus && c.Cursor != nil {
		rect := c.Tree.ToRect(target.ID())
		_ = c.Cursor.MoveTo(rect.Center())
	}
	return target, nil
}

// resolveTarget implements the targeting flags shared by Focus and Move
// (spec.md §4.7): a spatial direction, an explicit container id, or a
// workspace-selection flag.
func (c *Context) resolveTarget(cmd Command, subject *containers.Container) (*containers.Container, error) {
	if cmd.ContainerID != "" {
		target, ok := c.Tree.Get(containers.ID(cmd.ContainerID))
		if !ok {
			return nil, fmt.Errorf("no container with id %q", cmd.ContainerID)
		}
		return target, nil
	}
	if cmd.Direction != nil {
		target, ok := c.neighbourInDirection(subject, *cmd.Direction)
		if !ok {
			return subject, nil
		}
		return target, nil
	}
	if cmd.Workspace != "" {
		if ws, ok := c.findWorkspaceByName(cmd.Workspace); ok {
			return ws, nil
		}
		return nil, fmt.Errorf("no workspace named %q", cmd.Workspace)
	}
	return subject, nil
}

// neighbourInDirection finds the tiling sibling (or, failing that, an
// ancestor's sibling along the same axis) that lies in direction d from
// subject. This is a tree-structural approximation of spec.md §4.7's
// "neighbour in spiral order": rather than a full geometric nearest-
// container search, it walks up through direction containers whose axis
// matches d, which is the same traversal-based approach a tiling layout
// with a single well-defined child order naturally supports.
func (c *Context) neighbourInDirection(subject *containers.Container, d Direction) (*containers.Container, bool) {
	cur := subject
	for {
		parent, ok := c.Tree.Parent(cur.ID())
		if !ok || parent.Kind() == containers.KindMonitor {
			return nil, false
		}
		if parent.Kind().IsDirectionContainer() && parent.Direction() == d.Axis() {
			forward := d == DirectionRight || d == DirectionDown
			idx := c.Tree.Index(cur.ID())
			children := c.Tree.Children(parent.ID())
			var next *containers.Container
			if forward && idx+1 < len(children) {
				next = children[idx+1]
			} else if !forward && idx > 0 {
				next = children[idx-1]
			}
			if next != nil {
				return c.descendToFocusTarget(next), true
			}
		}
		cur = parent
	}
}

// descendToFocusTarget follows last-focused-descendant into c so that
// focusing/moving into a Split lands on a concrete window.
func (c *Context) descendToFocusTarget(target *containers.Container) *containers.Container {
	if leaf, ok := c.Tree.LastFocusedDescendant(target.ID()); ok {
		return leaf
	}
	return target
}

func (c *Context) findWorkspaceByName(name string) (*containers.Container, bool) {
	for _, d := range c.Tree.Descendants(c.Tree.RootID()) {
		if d.Kind() == containers.KindWorkspace && d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// handleMove implements spec.md §4.7's Move command for tiling windows:
// swap with the neighbour in the given direction. At a boundary (no
// neighbour in that direction) the tree is left unchanged; the window is
// not moved to another workspace or monitor. Non-tiling subjects
// (floating/fullscreen) are returned unchanged.
func (c *Context) handleMove(cmd Command, subject *containers.Container) (*containers.Container, error) {
	if cmd.Direction == nil {
		return subject, fmt.Errorf("move requires --direction")
	}
	if subject.Kind() != containers.KindTilingWindow {
		return subject, nil
	}
	neighbour, ok := c.neighbourInDirection(subject, *cmd.Direction)
	if !ok || neighbour.ID() == subject.ID() {
		return subject, nil
	}
	subjectParent, sOK := c.Tree.Parent(subject.ID())
	neighbourParent, nOK := c.Tree.Parent(neighbour.ID())
	if !sOK || !nOK {
		return subject, nil
	}
	subjectIdx := c.Tree.Index(subject.ID())
	neighbourIdx := c.Tree.Index(neighbour.ID())
	c.Tree.MoveContainerWithinTree(subject, neighbourParent.ID(), neighbourIdx)
	c.Tree.MoveContainerWithinTree(neighbour, subjectParent.ID(), subjectIdx)
	if ws, ok := c.Tree.Workspace(subject.ID()); ok {
		c.queueRedraw(ws)
	}
	return subject, nil
}

// handleResize implements spec.md §4.7's Resize for tiling windows:
// adjusts the tiling-size fraction along the axis the flag names,
// taking the delta proportionally from all other tiling siblings so the
// set still sums to 1.
func (c *Context) handleResize(cmd Command, subject *containers.Container) error {
	if subject.Kind() != containers.KindTilingWindow {
		return nil
	}
	parent, ok := c.Tree.Parent(subject.ID())
	if !ok || !parent.Kind().IsDirectionContainer() {
		return nil
	}
	var length *geometry.LengthValue
	if parent.Direction() == containers.DirectionHorizontal {
		length = cmd.Width
	} else {
		length = cmd.Height
	}
	if length == nil {
		return nil
	}

	rect := c.Tree.ToRect(parent.ID())
	extent := rect.Width
	if parent.Direction() == containers.DirectionVertical {
		extent = rect.Height
	}
	if extent <= 0 {
		return nil
	}
	targetFraction := clamp01(float64(length.ToPx(extent, 1.0)) / float64(extent))
	applyResizeFraction(c.Tree, subject, parent, targetFraction)

	workspace, _ := c.Tree.Workspace(subject.ID())
	c.queueRedraw(workspace)
	return nil
}

// applyResizeFraction sets subject's tiling-size fraction to target,
// redistributing the delta across its tiling siblings proportionally so
// the set still sums to 1 (spec.md §3.3 invariant 7).
func applyResizeFraction(tree *containers.Tree, subject, parent *containers.Container, target float64) {
	siblings := tree.TilingChildren(parent.ID())
	if len(siblings) < 2 {
		return
	}
	target = clamp01(target)
	var othersSum float64
	for _, s := range siblings {
		if s.ID() != subject.ID() {
			othersSum += s.TilingSize()
		}
	}
	if othersSum <= 0 {
		return
	}
	remaining := 1.0 - target
	scale := remaining / othersSum
	for _, s := range siblings {
		if s.ID() == subject.ID() {
			s.SetTilingSize(target)
		} else {
			s.SetTilingSize(s.TilingSize() * scale)
		}
	}
}

// handleAdjustBorders implements spec.md §4.7's AdjustBorders: sets the
// subject window's border delta and queues a redraw.
func (c *Context) handleAdjustBorders(cmd Command, subject *containers.Container) error {
	if !subject.Kind().IsWindowContainer() {
		return nil
	}
	frame := subject.CachedFrame()
	d := subject.BorderDelta()
	if cmd.Top != nil {
		d.Top = cmd.Top.ToPx(frame.Height, 1.0)
	}
	if cmd.Right != nil {
		d.Right = cmd.Right.ToPx(frame.Width, 1.0)
	}
	if cmd.Bottom != nil {
		d.Bottom = cmd.Bottom.ToPx(frame.Height, 1.0)
	}
	if cmd.Left != nil {
		d.Left = cmd.Left.ToPx(frame.Width, 1.0)
	}
	subject.SetBorderDelta(d)
	if ws, ok := c.Tree.Workspace(subject.ID()); ok {
		c.queueRedraw(ws)
	}
	return nil
}

// handleSetState calls UpdateWindowState with an explicit target (spec.md
// §4.7's SetFloating/SetFullscreen/SetTiling).
func (c *Context) handleSetState(subject *containers.Container, target containers.WindowState) (*containers.Container, error) {
	if !subject.Kind().IsWindowContainer() {
		return subject, fmt.Errorf("subject %s is not a window container", subject.Kind())
	}
	updated := c.Tree.UpdateWindowState(subject, target)
	if ws, ok := c.Tree.Workspace(updated.ID()); ok {
		c.queueRedraw(ws)
	}
	return updated, nil
}

// handleSetMinimized requests the OS minimize and records the Minimized
// state; the reducer re-confirms via a later WindowMinimized event
// (spec.md §4.7's note that Minimized additionally requires OS
// confirmation).
func (c *Context) handleSetMinimized(subject *containers.Container) (*containers.Container, error) {
	if subject.NativeWindow() != nil {
		if err := subject.NativeWindow().Minimize(); err != nil {
			return subject, fmt.Errorf("minimize window: %w", err)
		}
	}
	return c.handleSetState(subject, containers.WindowState{Kind: containers.StateMinimized})
}

// handleToggle implements spec.md §4.7's Toggle* commands via
// ToggledState's four-way fallback.
func (c *Context) handleToggle(subject *containers.Container, target containers.WindowState) (*containers.Container, error) {
	resolved := containers.ToggledState(subject, target, containers.WindowState{Kind: containers.StateTiling})
	return c.handleSetState(subject, resolved)
}

// handleToggleTilingDirection flips the focused direction container's
// axis and rebalances (spec.md §4.7).
func (c *Context) handleToggleTilingDirection(subject *containers.Container) error {
	target := subject
	if !target.Kind().IsDirectionContainer() {
		parent, ok := c.Tree.Parent(subject.ID())
		if !ok {
			return nil
		}
		target = parent
	}
	target.SetDirection(target.Direction().Inverse())
	if ws, ok := c.Tree.Workspace(target.ID()); ok {
		c.queueRedraw(ws)
	}
	return nil
}

func (c *Context) handleSetTilingDirection(subject *containers.Container, d containers.TilingDirection) error {
	target := subject
	if !target.Kind().IsDirectionContainer() {
		parent, ok := c.Tree.Parent(subject.ID())
		if !ok {
			return nil
		}
		target = parent
	}
	target.SetDirection(d)
	if ws, ok := c.Tree.Workspace(target.ID()); ok {
		c.queueRedraw(ws)
	}
	return nil
}

// handleSetTransparency applies opacity directly via the OS call with no
// tree change (spec.md §4.7).
func (c *Context) handleSetTransparency(cmd Command, subject *containers.Container) error {
	if subject.NativeWindow() == nil {
		return nil
	}
	opacity := 1.0
	if cmd.Opacity != nil {
		opacity = *cmd.Opacity
	} else if cmd.OpacityDelta != nil {
		opacity = clamp01(currentOpacityHint + *cmd.OpacityDelta)
	}
	return subject.NativeWindow().ApplyEffects(platform.WindowEffects{TransparencyEnabled: true, Opacity: opacity})
}

// currentOpacityHint is the fixed baseline opacity-delta commands are
// applied to; the last-applied opacity of a window is not tracked, so a
// delta is always relative to 1.0.
const currentOpacityHint = 1.0

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Context) handleClose(subject *containers.Container) error {
	if subject.NativeWindow() == nil {
		return nil
	}
	return subject.NativeWindow().Close()
}

// handleIgnore detaches the window from the tree so the caller drops its
// reference (spec.md §4.7, §4.8's "If a rule's commands detach the
// window... return None").
func (c *Context) handleIgnore(subject *containers.Container) error {
	workspace, _ := c.Tree.Workspace(subject.ID())
	c.Tree.DetachContainer(subject)
	c.Tree.RemoveContainer(subject)
	if workspace != nil {
		containers.HealWorkspaceLayout(c.Tree, workspace)
		c.queueRedraw(workspace)
	}
	return nil
}

func (c *Context) handleShellExec(cmd Command) error {
	if c.Process == nil {
		return fmt.Errorf("no process runner configured")
	}
	return c.Process.Run(strings.Join(cmd.ShellCommand, " "), cmd.HideWindow)
}

// handleWmCycleFocus focuses the next window in descendant-focus order
// matching the omit filters (spec.md §4.7).
func (c *Context) handleWmCycleFocus(cmd Command) (*containers.Container, error) {
	order := c.Tree.DescendantFocusOrder(c.Tree.RootID())
	if len(order) == 0 {
		return nil, fmt.Errorf("no windows to cycle through")
	}
	focused, _ := c.Tree.FocusedContainer()
	startIdx := 0
	for i, w := range order {
		if focused != nil && w.ID() == focused.ID() {
			startIdx = i
			break
		}
	}
	for i := 1; i <= len(order); i++ {
		cand := order[(startIdx+i)%len(order)]
		if cmd.OmitFloating && cand.State().Kind == containers.StateFloating {
			continue
		}
		if cmd.OmitFullscreen && cand.State().Kind == containers.StateFullscreen {
			continue
		}
		if cmd.OmitMinimized && cand.State().Kind == containers.StateMinimized {
			continue
		}
		if cmd.OmitTiling && cand.Kind() == containers.KindTilingWindow {
			continue
		}
		c.Tree.SetFocusedDescendant(cand, c.Tree.RootID())
		if ws, ok := c.Tree.Workspace(cand.ID()); ok {
			c.queueRedraw(ws)
		}
		return cand, nil
	}
	return focused, nil
}

// handleWmRedraw queues every workspace for redraw (spec.md §4.7).
func (c *Context) handleWmRedraw() error {
	for _, d := range c.Tree.Descendants(c.Tree.RootID()) {
		if d.Kind() == containers.KindWorkspace {
			c.queueRedraw(d)
		}
	}
	return nil
}
