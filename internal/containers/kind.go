// Package containers implements the six-variant container tree (spec.md §3):
// Root, Monitor, Workspace, Split, TilingWindow, NonTilingWindow. Node
// variants form a closed tagged union; per spec.md §9 this is modeled as a
// single struct carrying a Kind tag plus kind-specific fields, with shared
// behaviour implemented as free functions/methods rather than interface
// dispatch.
package containers

import "github.com/tilewm/tilewm/internal/geometry"

// Kind tags which of the six node variants a Container is.
type Kind int

const (
	KindRoot Kind = iota
	KindMonitor
	KindWorkspace
	KindSplit
	KindTilingWindow
	KindNonTilingWindow
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindMonitor:
		return "Monitor"
	case KindWorkspace:
		return "Workspace"
	case KindSplit:
		return "Split"
	case KindTilingWindow:
		return "TilingWindow"
	case KindNonTilingWindow:
		return "NonTilingWindow"
	default:
		return "Unknown"
	}
}

// IsTilingContainer reports whether k is one of {Workspace, Split, TilingWindow}.
func (k Kind) IsTilingContainer() bool {
	return k == KindWorkspace || k == KindSplit || k == KindTilingWindow
}

// IsWindowContainer reports whether k is one of {TilingWindow, NonTilingWindow}.
func (k Kind) IsWindowContainer() bool {
	return k == KindTilingWindow || k == KindNonTilingWindow
}

// IsDirectionContainer reports whether k is one of {Workspace, Split}.
func (k Kind) IsDirectionContainer() bool {
	return k == KindWorkspace || k == KindSplit
}

// TilingDirection is the axis a direction container (Workspace/Split) splits
// its children along.
type TilingDirection int

const (
	DirectionHorizontal TilingDirection = iota
	DirectionVertical
)

// Inverse returns the opposite axis, used when dwindle layout alternates.
func (d TilingDirection) Inverse() TilingDirection {
	if d == DirectionHorizontal {
		return DirectionVertical
	}
	return DirectionHorizontal
}

func (d TilingDirection) String() string {
	if d == DirectionVertical {
		return "vertical"
	}
	return "horizontal"
}

// WindowStateKind distinguishes the coarse kind of a NonTilingWindow state
// (or the implicit Tiling kind for TilingWindow nodes) independent of its
// parameters.
type WindowStateKind int

const (
	StateTiling WindowStateKind = iota
	StateFloating
	StateFullscreen
	StateMinimized
)

func (k WindowStateKind) String() string {
	switch k {
	case StateTiling:
		return "tiling"
	case StateFloating:
		return "floating"
	case StateFullscreen:
		return "fullscreen"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// WindowState is the full state of a window container. Kind selects which
// of the parameter fields apply; TilingWindow nodes are always implicitly
// StateTiling and never carry a WindowState value themselves.
type WindowState struct {
	Kind WindowStateKind

	// StateFloating params.
	Centered    bool
	ShownOnTop  bool

	// StateFullscreen params.
	Maximized bool
	// ShownOnTop is shared between Floating and Fullscreen.
}

// DisplayState stages a window's visibility across a platform-sync tick
// (spec.md Glossary: Display state).
type DisplayState int

const (
	DisplayShown DisplayState = iota
	DisplayShowing
	DisplayHiding
	DisplayHidden
)

// InsertionTarget records where a tiling window came from so it can be
// restored to the same spot on a later return-to-tiling (spec.md §3.2).
type InsertionTarget struct {
	ParentID        ID
	Index           int
	PrevTilingSize  float64
	PrevSiblingCount int
}

// DragOperation classifies an in-progress interactive drag.
type DragOperation int

const (
	DragNone DragOperation = iota
	DragMove
	DragResize
)

// ActiveDrag is attached to a window container while the user interactively
// moves or resizes it (spec.md Glossary: Active drag).
type ActiveDrag struct {
	Operation      DragOperation
	IsFromFloating bool
	InitialPos     geometry.Point
}

// GapsConfig is the resolved (pre-px) gaps configuration shared by
// Workspace and Split nodes.
type GapsConfig struct {
	ScaleWithDPI         bool
	InnerGap             geometry.LengthValue
	OuterGap             geometry.LengthRectDelta
	SingleWindowOuterGap *geometry.LengthRectDelta
}
