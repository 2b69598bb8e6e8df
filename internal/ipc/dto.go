package ipc

import "github.com/tilewm/tilewm/internal/geometry"

// The DTOs below are the wire shapes spec.md §6.2's Query responses
// serialize to. This package stays free of an internal/containers import so
// the protocol layer can be grounded and tested independently of the tree;
// internal/wm (which owns both the tree and this server) is responsible for
// filling these in from live Container state.

// AppMetadataDTO answers QueryAppMetadata.
type AppMetadataDTO struct {
	Version string `json:"version"`
}

// BindingModesDTO answers QueryBindingModes: the names currently on the
// binding-mode stack, in push order with the top last (SUPPLEMENTED FEATURES,
// SPEC_FULL.md's binding-mode stack).
type BindingModesDTO struct {
	Active []string `json:"active"`
}

// FocusedDTO answers QueryFocused.
type FocusedDTO struct {
	ContainerID string `json:"container_id"`
	Kind        string `json:"kind"`
}

// TilingDirectionDTO answers QueryTilingDirection: the tiling direction a
// new split would take at the current focus.
type TilingDirectionDTO struct {
	Direction string `json:"direction"`
}

// PausedDTO answers QueryPaused.
type PausedDTO struct {
	Paused bool `json:"paused"`
}

// WindowDTO describes one window container, used both standalone
// (QueryWindows) and nested under a WorkspaceDTO.
type WindowDTO struct {
	ID          string       `json:"id"`
	Handle      string       `json:"handle"`
	ProcessName string       `json:"process_name"`
	ClassName   string       `json:"class_name"`
	Title       string       `json:"title"`
	State       string       `json:"state"`
	Tiling      bool         `json:"tiling"`
	Rect        geometry.Rect `json:"rect"`
	Focused     bool         `json:"focused"`
}

// WorkspaceDTO describes one workspace container, used both standalone
// (QueryWorkspaces) and nested under a MonitorDTO.
type WorkspaceDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name,omitempty"`
	Displayed   bool        `json:"displayed"`
	Windows     []WindowDTO `json:"windows"`
}

// MonitorDTO describes one monitor container, used for QueryMonitors.
type MonitorDTO struct {
	ID         string         `json:"id"`
	DisplayID  string         `json:"display_id"`
	Rect       geometry.Rect  `json:"rect"`
	DPI        float64        `json:"dpi"`
	Primary    bool           `json:"primary"`
	Workspaces []WorkspaceDTO `json:"workspaces"`
}
