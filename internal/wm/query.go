package wm

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/ipc"
)

// query answers one of spec.md §6.2's eight Query subjects. Must run on
// the reducer goroutine (see Query's DispatchSync wrapper in wm.go).
func (w *WM) query(kind ipc.QueryKind) (any, error) {
	switch kind {
	case ipc.QueryAppMetadata:
		return ipc.AppMetadataDTO{Version: w.version}, nil
	case ipc.QueryBindingModes:
		return ipc.BindingModesDTO{Active: w.activeBindingModeNames()}, nil
	case ipc.QueryFocused:
		return w.focusedDTO(), nil
	case ipc.QueryTilingDirection:
		return ipc.TilingDirectionDTO{Direction: w.currentTilingDirection().String()}, nil
	case ipc.QueryPaused:
		return ipc.PausedDTO{Paused: w.paused}, nil
	case ipc.QueryMonitors:
		return w.monitorDTOs(), nil
	case ipc.QueryWorkspaces:
		return w.workspaceDTOs(), nil
	case ipc.QueryWindows:
		return w.windowDTOs(), nil
	default:
		return nil, fmt.Errorf("unknown query %q", kind)
	}
}

// currentTilingDirection implements spec.md §6.2's "the tiling direction a
// new split would take at the current focus": the nearest direction
// container (Workspace/Split) at or above the focused container, mirroring
// commands.Context.handleToggleTilingDirection's own "subject, else its
// parent" walk.
func (w *WM) currentTilingDirection() containers.TilingDirection {
	focused, ok := w.tree.FocusedContainer()
	if !ok {
		return containers.DirectionHorizontal
	}
	target := focused
	if !target.Kind().IsDirectionContainer() {
		if parent, ok := w.tree.Parent(focused.ID()); ok {
			target = parent
		}
	}
	return target.Direction()
}

func (w *WM) focusedDTO() ipc.FocusedDTO {
	focused, ok := w.tree.FocusedContainer()
	if !ok {
		return ipc.FocusedDTO{}
	}
	return ipc.FocusedDTO{ContainerID: string(focused.ID()), Kind: focused.Kind().String()}
}

func (w *WM) windowDTO(window *containers.Container) ipc.WindowDTO {
	native := window.NativeWindow()
	process, _ := native.ProcessName()
	class, _ := native.ClassName()
	title, _ := native.Title()
	focused, _ := w.tree.FocusedContainer()
	return ipc.WindowDTO{
		ID:          string(window.ID()),
		Handle:      string(native.Handle()),
		ProcessName: process,
		ClassName:   class,
		Title:       title,
		State:       window.State().Kind.String(),
		Tiling:      window.Kind() == containers.KindTilingWindow,
		Rect:        w.tree.ToRect(window.ID()),
		Focused:     focused != nil && focused.ID() == window.ID(),
	}
}

func (w *WM) windowDTOs() []ipc.WindowDTO {
	var out []ipc.WindowDTO
	for _, c := range w.tree.Descendants(w.tree.RootID()) {
		if c.Kind().IsWindowContainer() {
			out = append(out, w.windowDTO(c))
		}
	}
	return out
}

func (w *WM) workspaceWindowDTOs(workspace *containers.Container) []ipc.WindowDTO {
	var out []ipc.WindowDTO
	for _, c := range w.tree.Descendants(workspace.ID()) {
		if c.Kind().IsWindowContainer() {
			out = append(out, w.windowDTO(c))
		}
	}
	return out
}

func (w *WM) workspaceDTO(workspace *containers.Container) ipc.WorkspaceDTO {
	return ipc.WorkspaceDTO{
		ID:          string(workspace.ID()),
		Name:        workspace.Name(),
		DisplayName: workspace.DisplayName(),
		Displayed:   w.isWorkspaceDisplayed(workspace),
		Windows:     w.workspaceWindowDTOs(workspace),
	}
}

// isWorkspaceDisplayed mirrors platformsync's own notion of "displayed":
// the front of its monitor's child-focus-order (see internal/platformsync's
// isWorkspaceDisplayed, grounded the same way — no separate active-workspace
// field exists on containers.Container).
func (w *WM) isWorkspaceDisplayed(workspace *containers.Container) bool {
	monitor, ok := w.tree.Monitor(workspace.ID())
	if !ok {
		return false
	}
	front, ok := w.tree.LastFocusedChild(monitor.ID())
	return ok && front.ID() == workspace.ID()
}

func (w *WM) workspaceDTOs() []ipc.WorkspaceDTO {
	var out []ipc.WorkspaceDTO
	for _, m := range w.tree.Children(w.tree.RootID()) {
		for _, ws := range w.tree.Children(m.ID()) {
			out = append(out, w.workspaceDTO(ws))
		}
	}
	return out
}

func (w *WM) monitorDTO(monitor *containers.Container) ipc.MonitorDTO {
	native := monitor.NativeMonitor()
	var workspaces []ipc.WorkspaceDTO
	for _, ws := range w.tree.Children(monitor.ID()) {
		workspaces = append(workspaces, w.workspaceDTO(ws))
	}
	return ipc.MonitorDTO{
		ID:         string(monitor.ID()),
		DisplayID:  native.DisplayID(),
		Rect:       monitor.MonitorRect(),
		DPI:        monitor.DPI(),
		Primary:    native.IsPrimary(),
		Workspaces: workspaces,
	}
}

func (w *WM) monitorDTOs() []ipc.MonitorDTO {
	var out []ipc.MonitorDTO
	for _, m := range w.tree.Children(w.tree.RootID()) {
		out = append(out, w.monitorDTO(m))
	}
	return out
}
