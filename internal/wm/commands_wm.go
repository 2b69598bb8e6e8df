package wm

import (
	"fmt"
	"strings"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/rules"
	"github.com/tilewm/tilewm/internal/wmerrors"
)

// resolveSubject implements spec.md §4.7's "commands operate on a subject
// container, by id or focused."
func (w *WM) resolveSubject(id string) (*containers.Container, error) {
	if id != "" {
		c, ok := w.tree.Get(containers.ID(id))
		if !ok {
			return nil, wmerrors.Newf(wmerrors.WindowHandleGone, "no container with id %q", id)
		}
		return c, nil
	}
	if focused, ok := w.tree.FocusedContainer(); ok {
		return focused, nil
	}
	return nil, fmt.Errorf("no focused container to act as subject")
}

func (w *WM) runCommandLine(subjectID, line string) error {
	cmd, err := commands.Parse(line)
	if err != nil {
		return err
	}
	subject, err := w.resolveSubject(subjectID)
	if err != nil {
		return err
	}
	_, err = w.runCommand(cmd, subject)
	return err
}

// runCommand routes the four WM-owned verbs (spec.md §4.7's
// wm-enable-binding-mode/wm-disable-binding-mode/wm-reload-config/
// wm-toggle-pause, none of which commands.Context.Dispatch handles since
// they mutate reducer-only state, not the tree) and delegates everything
// else to commands.Context.Dispatch.
func (w *WM) runCommand(cmd commands.Command, subject *containers.Container) (*containers.Container, error) {
	switch cmd.Verb {
	case commands.VerbWmEnableBindingMode:
		return subject, w.enableBindingMode(cmd.BindingModeName)
	case commands.VerbWmDisableBindingMode:
		return subject, w.disableBindingMode(cmd.BindingModeName)
	case commands.VerbWmTogglePause:
		return subject, w.togglePause()
	case commands.VerbWmReloadConfig:
		return subject, w.reloadConfig()
	default:
		return w.cmdCtx.Dispatch(cmd, subject)
	}
}

// activeCommandsFor resolves chord against the top of the binding-mode
// stack if one is active, else the global keybindings (spec.md §6.1,
// §4.7). Chord tokens are case-insensitive per spec.md §6.1.
func (w *WM) activeCommandsFor(chord string) []string {
	entries := w.cfg.Keybindings
	if len(w.bindingModeStack) > 0 {
		name := w.bindingModeStack[len(w.bindingModeStack)-1]
		for _, mode := range w.cfg.BindingModes {
			if mode.Name == name {
				entries = mode.Keybindings
				break
			}
		}
	}
	for _, entry := range entries {
		for _, bound := range entry.Bindings {
			if strings.EqualFold(bound, chord) {
				return entry.Commands
			}
		}
	}
	return nil
}

func (w *WM) bindingModeExists(name string) bool {
	for _, mode := range w.cfg.BindingModes {
		if mode.Name == name {
			return true
		}
	}
	return false
}

func (w *WM) activeBindingModeNames() []string {
	out := make([]string, len(w.bindingModeStack))
	copy(out, w.bindingModeStack)
	return out
}

// enableBindingMode pushes name onto the binding-mode stack (SUPPLEMENTED
// FEATURES, SPEC_FULL.md: a stack rather than a single active mode, so
// nested modes can be entered and left in order).
func (w *WM) enableBindingMode(name string) error {
	if !w.bindingModeExists(name) {
		return fmt.Errorf("unknown binding mode %q", name)
	}
	w.bindingModeStack = append(w.bindingModeStack, name)
	w.publish(ipc.EventBindingModesChanged, ipc.BindingModesDTO{Active: w.activeBindingModeNames()})
	return nil
}

// disableBindingMode pops name out of the stack wherever it appears
// (SUPPLEMENTED FEATURES, SPEC_FULL.md's "pop-by-name-anywhere", not just
// off the top — a keybinding inside a nested mode can name an outer mode
// to leave directly).
func (w *WM) disableBindingMode(name string) error {
	for i := len(w.bindingModeStack) - 1; i >= 0; i-- {
		if w.bindingModeStack[i] == name {
			w.bindingModeStack = append(w.bindingModeStack[:i], w.bindingModeStack[i+1:]...)
			w.publish(ipc.EventBindingModesChanged, ipc.BindingModesDTO{Active: w.activeBindingModeNames()})
			return nil
		}
	}
	return fmt.Errorf("binding mode %q is not active", name)
}

// togglePause flips the reducer's paused flag. Resuming queues a full
// redraw/effects pass so the screen catches up with every mutation that
// happened (or didn't get reflected) while paused (spec.md §4.3 step 1's
// "paused: clear the accumulator and return" implies mutations accumulate
// uselessly while paused; resuming must therefore force a full resync).
func (w *WM) togglePause() error {
	w.paused = !w.paused
	if !w.paused {
		w.queueFullRedraw()
		w.pending.QueueAllEffectsUpdate()
	}
	w.publish(ipc.EventPauseChanged, ipc.PausedDTO{Paused: w.paused})
	return nil
}

func (w *WM) queueFullRedraw() {
	for _, m := range w.tree.Children(w.tree.RootID()) {
		for _, ws := range w.tree.Children(m.ID()) {
			w.pending.QueueContainerToRedraw(ws.ID())
		}
	}
}

// reloadConfig implements spec.md §4.7's wm-reload-config and §7's
// ConfigInvalid policy: on a parse/validate failure, keep the previous
// config and return the error (the IPC/keybinding caller surfaces it;
// there is no dedicated WM event for a failed reload in spec.md §6.2's
// event set, so the command response's error field carries it instead).
func (w *WM) reloadConfig() error {
	cfg, err := config.Load(w.cfgPath)
	if err != nil {
		return wmerrors.New(wmerrors.ConfigInvalid, err)
	}
	if result := config.Validate(cfg); result.HasErrors() {
		return wmerrors.Newf(wmerrors.ConfigInvalid, "config reload: %v", result.Errors)
	}

	compiledRules, err := rules.Compile(cfg.WindowRules)
	if err != nil {
		return wmerrors.New(wmerrors.ConfigInvalid, err)
	}

	w.cfg = cfg
	w.cmdCtx.CursorJumpEnabled = cfg.General.CursorJump.Enabled
	w.cmdCtx.CursorJumpOnFocus = cfg.General.CursorJump.Trigger == config.CursorJumpWindowFocus
	w.handlers.WindowBehavior = cfg.WindowBehavior
	w.handlers.FocusFollowsCursor = cfg.General.FocusFollowsCursor
	w.handlers.Rules = compiledRules
	w.bindingModeStack = nil

	w.queueFullRedraw()
	w.pending.QueueAllEffectsUpdate()
	w.publish(ipc.EventUserConfigChanged, struct{}{})

	for _, line := range cfg.General.ConfigReloadCommands {
		if err := w.runCommandLine("", line); err != nil {
			return fmt.Errorf("config_reload_commands: %w", err)
		}
	}
	return nil
}
