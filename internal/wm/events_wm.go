package wm

import (
	"github.com/charmbracelet/log"

	"github.com/tilewm/tilewm/internal/events"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/platform"
)

// The methods below are the OS-event-source entry points (spec.md §4.6):
// each dispatches onto the reducer goroutine, runs the corresponding
// events.Handlers method, publishes the IPC event it corresponds to on
// success, and runs one platform-sync pass. Callers (hook adapters, out of
// this package's scope) should call these from their own OS event-loop
// thread without synchronising — Dispatch queues the work in arrival order.

func (w *WM) logHandlerErr(event string, err error) {
	if err != nil {
		log.Error("wm: event handler failed", "event", event, "err", err)
	}
}

func (w *WM) HandleWindowManaged(native platform.NativeWindow) {
	w.dispatcher.Dispatch(func() {
		window, err := w.handlers.WindowManaged(native)
		w.logHandlerErr("window_managed", err)
		if err == nil && window != nil {
			w.publish(ipc.EventWindowManaged, w.windowDTO(window))
		}
		w.sync()
	})
}

func (w *WM) HandleWindowFocused(handle platform.WindowHandle) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowFocused(handle)
		w.logHandlerErr("window_focused", err)
		if err == nil {
			w.publish(ipc.EventFocusChanged, w.focusedDTO())
		}
		w.sync()
	})
}

func (w *WM) HandleWindowDestroyed(handle platform.WindowHandle) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowDestroyed(handle)
		w.logHandlerErr("window_destroyed", err)
		if err == nil {
			w.publish(ipc.EventWindowUnmanaged, map[string]string{"handle": string(handle)})
		}
		w.sync()
	})
}

func (w *WM) HandleWindowVisibilityChanged(handle platform.WindowHandle, event events.WindowVisibilityEvent) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowVisibilityChanged(handle, event)
		w.logHandlerErr("window_visibility_changed", err)
		w.sync()
	})
}

func (w *WM) HandleWindowTitleChanged(handle platform.WindowHandle) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowTitleChanged(handle)
		w.logHandlerErr("window_title_changed", err)
		w.sync()
	})
}

func (w *WM) HandleWindowMovedOrResizedStart(handle platform.WindowHandle) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowMovedOrResizedStart(handle)
		w.logHandlerErr("window_moved_or_resized_start", err)
		w.sync()
	})
}

func (w *WM) HandleWindowMovedOrResized(handle platform.WindowHandle) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowMovedOrResized(handle)
		w.logHandlerErr("window_moved_or_resized", err)
		w.sync()
	})
}

func (w *WM) HandleWindowMovedOrResizedEnd(handle platform.WindowHandle, cursor geometry.Point) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.WindowMovedOrResizedEnd(handle, cursor)
		w.logHandlerErr("window_moved_or_resized_end", err)
		if err == nil {
			if window, ok := w.handlers.Tree.FocusedContainer(); ok && window.NativeWindow() != nil && window.NativeWindow().Handle() == handle {
				w.publish(ipc.EventFocusedContainerMoved, w.focusedDTO())
			}
		}
		w.sync()
	})
}

// HandleDisplaySettingsChanged diffs the live monitor set against the
// tree's monitor nodes by display id before and after delegating to
// events.Handlers, so it can publish monitor_added/monitor_removed
// (spec.md §6.2's WM event set). It does not attempt to distinguish a
// monitor_updated from a no-op refresh — events.Handlers.DisplaySettingsChanged
// doesn't report which existing monitors actually changed rect/DPI, only
// that it checked all of them (a SPEC_FULL.md-scope simplification, logged
// in DESIGN.md).
func (w *WM) HandleDisplaySettingsChanged(live []platform.NativeMonitor) {
	w.dispatcher.Dispatch(func() {
		before := w.monitorDisplayIDs()
		err := w.handlers.DisplaySettingsChanged(live)
		w.logHandlerErr("display_settings_changed", err)
		if err == nil {
			w.publishMonitorDiff(before)
		}
		w.sync()
	})
}

func (w *WM) monitorDisplayIDs() map[string]bool {
	out := make(map[string]bool)
	for _, m := range w.tree.Children(w.tree.RootID()) {
		out[m.NativeMonitor().DisplayID()] = true
	}
	return out
}

func (w *WM) publishMonitorDiff(before map[string]bool) {
	after := w.monitorDisplayIDs()
	for id := range after {
		if !before[id] {
			w.publish(ipc.EventMonitorAdded, map[string]string{"display_id": id})
		}
	}
	for id := range before {
		if !after[id] {
			w.publish(ipc.EventMonitorRemoved, map[string]string{"display_id": id})
		}
	}
}

func (w *WM) HandleMouseMove(p geometry.Point) {
	w.dispatcher.Dispatch(func() {
		err := w.handlers.MouseMove(p)
		w.logHandlerErr("mouse_move", err)
		w.sync()
	})
}

// HandleKeyChord runs every command bound to chord under the
// currently-active keybinding set (spec.md §4.7, §6.1's binding-mode
// stack — SUPPLEMENTED FEATURES, SPEC_FULL.md).
func (w *WM) HandleKeyChord(chord string) {
	w.dispatcher.Dispatch(func() {
		for _, line := range w.activeCommandsFor(chord) {
			if err := w.runCommandLine("", line); err != nil {
				log.Warn("wm: keybinding command failed", "chord", chord, "command", line, "err", err)
			}
		}
		w.sync()
	})
}
