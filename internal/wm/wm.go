// Package wm is the reducer: it owns the container tree, the loaded
// config, and the pending-sync accumulator, and is the single place spec.md
// §5's "single-threaded cooperative reducer on the WM thread" is
// implemented. Grounded on platform.Dispatcher (already built to spec.md
// §5's dispatch/dispatch_sync contract): OS event-source callbacks call
// Dispatch (fire-and-forget, queued in arrival order) and IPC requests call
// DispatchSync (blocking until the reducer has processed them), so both
// funnel through the same serialising channel spec.md §5 describes as an
// "unbounded, lossless MPSC channel" feeding a single owning thread — here,
// the goroutine that calls Run.
package wm

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/events"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/platformsync"
	"github.com/tilewm/tilewm/internal/rules"
)

// WM is the reducer. Every field below is touched only from the
// dispatcher's owning goroutine (see package doc) — no field needs a lock,
// matching spec.md §5's "there are no locks inside the core."
type WM struct {
	tree       *containers.Tree
	cfg        *config.Config
	cfgPath    string
	dispatcher *platform.Dispatcher
	pending    *platformsync.PendingSync
	cmdCtx     *commands.Context
	handlers   *events.Handlers
	paused     bool

	bindingModeStack []string
	subscriptions    map[string]*subscription

	cursorTB *platform.ThreadBound[platform.CursorController]
	version  string
}

type subscription struct {
	events map[ipc.EventName]bool
	ch     chan ipc.Event
}

// boundCursor adapts a platform.ThreadBound-wrapped CursorController back
// into a CursorController, so platformsync.Sync keeps calling a plain
// interface while every call is actually funneled through the owning
// dispatcher goroutine (spec.md §5/§9's "global mutable state on the OS
// side" must only be touched from the one thread that owns it).
type boundCursor struct {
	tb *platform.ThreadBound[platform.CursorController]
}

func (b *boundCursor) MoveTo(p geometry.Point) error {
	err, _ := b.tb.With(func(c platform.CursorController) any {
		return c.MoveTo(p)
	}).(error)
	return err
}

func (b *boundCursor) Position() (geometry.Point, error) {
	result := b.tb.With(func(c platform.CursorController) any {
		pos, err := c.Position()
		return [2]any{pos, err}
	}).([2]any)
	pos, _ := result[0].(geometry.Point)
	err, _ := result[1].(error)
	return pos, err
}

// Options bundles everything New needs beyond the loaded config and
// initial tree: the platform adapters the reducer drives, and a version
// string for QueryAppMetadata.
type Options struct {
	Cursor  platform.CursorController
	Process platform.ProcessRunner
	Version string
}

// New wires a reducer around tree and cfg. Call Run (on the goroutine that
// should own the reducer) before any Dispatch/DispatchSync call from other
// goroutines.
func New(tree *containers.Tree, cfg *config.Config, cfgPath string, opts Options) (*WM, error) {
	compiledRules, err := rules.Compile(cfg.WindowRules)
	if err != nil {
		return nil, fmt.Errorf("compile window rules: %w", err)
	}

	dispatcher := platform.NewDispatcher()
	pending := platformsync.New()

	var cursor platform.CursorController
	var cursorTB *platform.ThreadBound[platform.CursorController]
	if opts.Cursor != nil {
		cursorTB = platform.NewThreadBound(opts.Cursor, dispatcher, func(platform.CursorController) {})
		cursor = &boundCursor{tb: cursorTB}
	}

	cmdCtx := &commands.Context{
		Tree:              tree,
		Cursor:            cursor,
		Process:           opts.Process,
		Redraw:            pending,
		CursorJumpEnabled: cfg.General.CursorJump.Enabled,
		CursorJumpOnFocus: cfg.General.CursorJump.Trigger == config.CursorJumpWindowFocus,
	}
	handlers := &events.Handlers{
		Tree:               tree,
		Dispatch:           cmdCtx,
		Rules:              compiledRules,
		WindowBehavior:     cfg.WindowBehavior,
		FocusFollowsCursor: cfg.General.FocusFollowsCursor,
	}

	return &WM{
		tree:          tree,
		cfg:           cfg,
		cfgPath:       cfgPath,
		dispatcher:    dispatcher,
		pending:       pending,
		cmdCtx:        cmdCtx,
		handlers:      handlers,
		subscriptions: make(map[string]*subscription),
		cursorTB:      cursorTB,
		version:       opts.Version,
	}, nil
}

// Run pumps the reducer's dispatch queue until Stop is called. Must run on
// the goroutine meant to own the tree/config/pending-sync.
func (w *WM) Run() { w.dispatcher.Run() }

// Stop halts Run, rejects further dispatched work, and releases the
// dispatcher-bound cursor controller (platform.ThreadBound.Close).
func (w *WM) Stop() {
	if w.cursorTB != nil {
		w.cursorTB.Close()
	}
	w.dispatcher.Stop()
}

// Dispatcher exposes the underlying dispatcher so event-source adapters
// (hooks running on their own OS event-loop thread, out of this package's
// scope) can forward typed notifications without this package importing
// them.
func (w *WM) Dispatcher() *platform.Dispatcher { return w.dispatcher }

// sync runs one platform-sync pass (spec.md §4.3) to completion. Called at
// the end of every dispatched event/command handler, per spec.md §5's
// "platform-sync runs to completion between events."
func (w *WM) sync() {
	if err := platformsync.Sync(w.tree, w.cfg, w.cmdCtx.Cursor, w.pending, w.paused); err != nil {
		log.Error("wm: platform-sync", "err", err)
	}
}

// publish fans data out, JSON-encoded, to every subscription whose event
// set contains name. A full subscriber channel drops the event with a
// warning rather than blocking the reducer — spec.md §5 specifies the
// OS-event MPSC channel as unbounded and lossless, but says nothing about
// IPC event delivery to a slow client, and the reducer itself must never
// block on a socket write (SPEC_FULL.md deliberate simplification, logged
// in DESIGN.md).
func (w *WM) publish(name ipc.EventName, data any) {
	if len(w.subscriptions) == 0 {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error("wm: marshal event payload", "event", name, "err", err)
		return
	}
	for id, sub := range w.subscriptions {
		if !sub.events[name] {
			continue
		}
		select {
		case sub.ch <- ipc.Event{SubscriptionID: id, Success: true, Data: raw}:
		default:
			log.Warn("wm: dropping event for slow subscriber", "subscription", id, "event", name)
		}
	}
}

// Query implements ipc.Backend.
func (w *WM) Query(kind ipc.QueryKind) (any, error) {
	var result any
	var err error
	w.dispatcher.DispatchSync(func() {
		result, err = w.query(kind)
	})
	return result, err
}

// RunCommand implements ipc.Backend.
func (w *WM) RunCommand(subjectContainerID, invoke string) (string, error) {
	var affected *containers.Container
	var err error
	w.dispatcher.DispatchSync(func() {
		var cmd commands.Command
		if cmd, err = commands.Parse(invoke); err != nil {
			return
		}
		var subject *containers.Container
		if subject, err = w.resolveSubject(subjectContainerID); err != nil {
			return
		}
		if affected, err = w.runCommand(cmd, subject); err == nil {
			w.sync()
		}
	})
	if err != nil {
		return "", err
	}
	if affected == nil {
		return "", nil
	}
	return string(affected.ID()), nil
}

// Subscribe implements ipc.Backend.
func (w *WM) Subscribe(eventNames []ipc.EventName) (string, <-chan ipc.Event, error) {
	set := make(map[ipc.EventName]bool, len(eventNames))
	for _, n := range eventNames {
		set[n] = true
	}
	var id string
	ch := make(chan ipc.Event, 64)
	w.dispatcher.DispatchSync(func() {
		id = uuid.NewString()
		w.subscriptions[id] = &subscription{events: set, ch: ch}
	})
	return id, ch, nil
}

// Unsubscribe implements ipc.Backend.
func (w *WM) Unsubscribe(id string) error {
	var found bool
	w.dispatcher.DispatchSync(func() {
		if sub, ok := w.subscriptions[id]; ok {
			close(sub.ch)
			delete(w.subscriptions, id)
			found = true
		}
	})
	if !found {
		return fmt.Errorf("no subscription %q", id)
	}
	return nil
}
