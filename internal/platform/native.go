package platform

import "github.com/tilewm/tilewm/internal/geometry"

// WindowHandle is an opaque identifier for a native OS window. The core
// never interprets its contents; only a platform adapter implementation
// knows how to resolve one to a live OS window.
type WindowHandle string

// MonitorHandle is an opaque identifier for a native OS display.
type MonitorHandle string

// ZOrder describes where platform-sync should place a window relative to
// its siblings in the OS Z-order (spec.md §4.3 step 4).
type ZOrder struct {
	TopMost      bool
	AfterHandle  WindowHandle // set when chaining "bring to front after X"
	BringToFront bool
}

// HideMethod selects how platform-sync hides a window that isn't on the
// displayed workspace (spec.md §6.1 general.hide_method).
type HideMethod int

const (
	HideMethodHide HideMethod = iota
	HideMethodCloak
	HideMethodPlaceInCorner
)

// WindowEffects is the resolved (non-toggle) visual-effect state
// platform-sync applies to a window (spec.md §4.3 step 6).
type WindowEffects struct {
	BorderEnabled       bool
	BorderColor         string
	HideTitleBar        bool
	CornerStyleEnabled  bool
	CornerStyle         string
	TransparencyEnabled bool
	Opacity             float64
}

// NativeWindow is the adapter contract for a managed OS window. Real
// platform code (Win32/X11/AppKit) implements this; the core only calls
// through it.
type NativeWindow interface {
	Handle() WindowHandle
	ProcessName() (string, error)
	ClassName() (string, error)
	Title() (string, error)
	Frame() (geometry.Rect, error)
	SetPosition(rect geometry.Rect, z ZOrder, visible bool) error
	SetForeground() error
	Minimize() error
	IsMinimized() (bool, error)
	IsMaximized() (bool, error)
	Close() error
	SetTaskbarVisible(visible bool) error
	ApplyEffects(effects WindowEffects) error
}

// NativeMonitor is the adapter contract for a physical/virtual OS display.
type NativeMonitor interface {
	Handle() MonitorHandle
	DisplayID() string // stable identifier used to diff monitors across events
	WorkingRect() (geometry.Rect, error)
	DPI() (float64, error)
	IsPrimary() bool
}

// ShellWindowHandle names the OS shell/desktop window. Nothing in the
// module reads it: platform-sync makes no foreground call when focus lands
// on an empty workspace.
var ShellWindowHandle = WindowHandle("__shell__")

// CursorController abstracts moving the OS mouse cursor (spec.md §4.3
// step 5, cursor-jump).
type CursorController interface {
	MoveTo(p geometry.Point) error
	Position() (geometry.Point, error)
}

// ProcessRunner abstracts launching an external process (ShellExec
// command, spec.md §4.7).
type ProcessRunner interface {
	Run(command string, hideWindow bool) error
}
