package containers

import (
	"github.com/google/uuid"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// ID uniquely and stably identifies a container for its lifetime
// (spec.md §3.2).
type ID string

// NewID generates a fresh container id.
func NewID() ID {
	return ID(uuid.NewString())
}

// Container is every node variant in the tree (spec.md §3.1), modeled as a
// single tagged struct per spec.md §9's guidance for languages without
// trait dispatch. Fields are grouped by which Kind(s) use them; unused
// fields for a given Kind are left zero.
type Container struct {
	id       ID
	kind     Kind
	parentID ID // zero value ("") for Root only

	children   []ID
	focusOrder []ID // same ids as children, most-recently-focused first

	// Monitor fields.
	nativeMonitor platform.NativeMonitor
	monitorRect   geometry.Rect
	dpi           float64

	// Workspace fields.
	name              string
	displayName       string
	boundMonitorIndex *int
	keepAlive         bool
	layout            WorkspaceLayout

	// Workspace + Split fields.
	direction TilingDirection
	gaps      GapsConfig

	// Split + TilingWindow fields.
	tilingSize float64

	// TilingWindow + NonTilingWindow fields.
	nativeWindow            platform.NativeWindow
	borderDelta             geometry.RectDelta
	cachedFrame             geometry.Rect
	doneWindowRules         map[string]bool
	hasPendingDPIAdjustment bool

	// NonTilingWindow-only fields.
	state                      WindowState
	prevState                  *WindowState
	floatingPlacement          geometry.Rect
	hasCustomFloatingPlacement bool
	insertionTarget            *InsertionTarget
	activeDrag                 *ActiveDrag
	displayState               DisplayState
}

// ID returns the container's stable id.
func (c *Container) ID() ID { return c.id }

// Kind returns which of the six variants c is.
func (c *Container) Kind() Kind { return c.kind }

// NewRoot constructs the singleton Root container.
func NewRoot() *Container {
	return &Container{id: NewID(), kind: KindRoot}
}

// NewMonitor constructs a Monitor container wrapping a native display.
func NewMonitor(native platform.NativeMonitor, rect geometry.Rect, dpi float64) *Container {
	return &Container{
		id:            NewID(),
		kind:          KindMonitor,
		nativeMonitor: native,
		monitorRect:   rect,
		dpi:           dpi,
	}
}

// NewWorkspace constructs a Workspace container with the given unique name.
func NewWorkspace(name string, layout WorkspaceLayout, gaps GapsConfig) *Container {
	return &Container{
		id:     NewID(),
		kind:   KindWorkspace,
		name:   name,
		layout: layout,
		gaps:   gaps,
	}
}

// NewSplit constructs a Split container at the given direction.
func NewSplit(direction TilingDirection, gaps GapsConfig) *Container {
	return &Container{
		id:        NewID(),
		kind:      KindSplit,
		direction: direction,
		gaps:      gaps,
	}
}

// NewTilingWindow constructs a TilingWindow wrapping a native window.
func NewTilingWindow(native platform.NativeWindow, tilingSize float64, borderDelta geometry.RectDelta) *Container {
	return &Container{
		id:              NewID(),
		kind:            KindTilingWindow,
		nativeWindow:    native,
		tilingSize:      tilingSize,
		borderDelta:     borderDelta,
		doneWindowRules: make(map[string]bool),
	}
}

// NewNonTilingWindow constructs a NonTilingWindow wrapping a native window
// in the given initial state.
func NewNonTilingWindow(native platform.NativeWindow, state WindowState, borderDelta geometry.RectDelta) *Container {
	return &Container{
		id:              NewID(),
		kind:            KindNonTilingWindow,
		nativeWindow:    native,
		state:           state,
		borderDelta:     borderDelta,
		displayState:    DisplayShown,
		doneWindowRules: make(map[string]bool),
	}
}
