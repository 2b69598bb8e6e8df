// Package fake provides an in-memory platform.NativeWindow/NativeMonitor
// implementation used by reducer and platform-sync tests, standing in for
// the real OS adapters that spec.md §1 and §6 explicitly place out of
// scope.
package fake

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// Window is an in-memory NativeWindow recording every call made to it, so
// tests can assert on the minimum-work contract of platform-sync.
type Window struct {
	handle      platform.WindowHandle
	Process     string
	Class       string
	TitleText   string
	frame       geometry.Rect
	minimized   bool
	maximized   bool
	closed      bool
	taskbar     bool
	Effects     platform.WindowEffects
	Positions   []PositionCall
	Foregrounds int
}

// PositionCall records one SetPosition invocation.
type PositionCall struct {
	Rect    geometry.Rect
	Z       platform.ZOrder
	Visible bool
}

// NewWindow creates a fake window with the given handle and process/class
// used for window-rule matching in tests.
func NewWindow(handle, process, class, title string) *Window {
	return &Window{
		handle:    platform.WindowHandle(handle),
		Process:   process,
		Class:     class,
		TitleText: title,
		taskbar:   true,
	}
}

func (w *Window) Handle() platform.WindowHandle    { return w.handle }
func (w *Window) ProcessName() (string, error)     { return w.Process, nil }
func (w *Window) ClassName() (string, error)       { return w.Class, nil }
func (w *Window) Title() (string, error)           { return w.TitleText, nil }
func (w *Window) Frame() (geometry.Rect, error)    { return w.frame, nil }
func (w *Window) IsMinimized() (bool, error)        { return w.minimized, nil }
func (w *Window) IsMaximized() (bool, error)        { return w.maximized, nil }
func (w *Window) Close() error                      { w.closed = true; return nil }
func (w *Window) Closed() bool                       { return w.closed }

func (w *Window) SetPosition(rect geometry.Rect, z platform.ZOrder, visible bool) error {
	w.frame = rect
	w.Positions = append(w.Positions, PositionCall{Rect: rect, Z: z, Visible: visible})
	return nil
}

func (w *Window) SetForeground() error {
	w.Foregrounds++
	return nil
}

func (w *Window) Minimize() error {
	w.minimized = true
	return nil
}

func (w *Window) SetMaximized(v bool) { w.maximized = v }

func (w *Window) SetTaskbarVisible(visible bool) error {
	w.taskbar = visible
	return nil
}

func (w *Window) ApplyEffects(effects platform.WindowEffects) error {
	w.Effects = effects
	return nil
}

// Monitor is an in-memory NativeMonitor.
type Monitor struct {
	handle    platform.MonitorHandle
	displayID string
	rect      geometry.Rect
	dpi       float64
	primary   bool
}

// NewMonitor creates a fake monitor.
func NewMonitor(handle, displayID string, rect geometry.Rect, dpi float64, primary bool) *Monitor {
	return &Monitor{handle: platform.MonitorHandle(handle), displayID: displayID, rect: rect, dpi: dpi, primary: primary}
}

func (m *Monitor) Handle() platform.MonitorHandle    { return m.handle }
func (m *Monitor) DisplayID() string                 { return m.displayID }
func (m *Monitor) WorkingRect() (geometry.Rect, error) { return m.rect, nil }
func (m *Monitor) DPI() (float64, error)             { return m.dpi, nil }
func (m *Monitor) IsPrimary() bool                   { return m.primary }

// Cursor is an in-memory CursorController.
type Cursor struct {
	Pos geometry.Point
}

func (c *Cursor) MoveTo(p geometry.Point) error { c.Pos = p; return nil }
func (c *Cursor) Position() (geometry.Point, error) { return c.Pos, nil }

// ProcessRunner is an in-memory platform.ProcessRunner recording commands.
type ProcessRunner struct {
	Ran []string
}

func (p *ProcessRunner) Run(command string, hideWindow bool) error {
	p.Ran = append(p.Ran, fmt.Sprintf("%s hidden=%v", command, hideWindow))
	return nil
}
