// Package platform defines the native-window/native-monitor adapter
// contracts the core treats as opaque (spec.md §6, "raw OS-API adapters"),
// plus the thread-binding primitives spec.md §5 and §9 describe for values
// whose OS contract pins them to one event-loop thread.
package platform

// Dispatcher serializes work onto a single designated goroutine — the Go
// analogue of wm-platform's event-loop-thread dispatcher. A goroutine that
// already knows it is the owner should use RunInline instead of
// DispatchSync to avoid deadlocking on itself (spec.md §5: "calling from
// the target thread itself executes inline").
type Dispatcher struct {
	work   chan func()
	closed chan struct{}
}

// NewDispatcher creates a dispatcher. Call Run on the goroutine that should
// own dispatched work before any other goroutine calls Dispatch/DispatchSync.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		work:   make(chan func(), 256),
		closed: make(chan struct{}),
	}
}

// Run pumps dispatched work until Stop is called. It must run on the
// goroutine meant to own this dispatcher's work (the "event-loop thread").
func (d *Dispatcher) Run() {
	for {
		select {
		case fn, ok := <-d.work:
			if !ok {
				return
			}
			fn()
		case <-d.closed:
			return
		}
	}
}

// Dispatch schedules fn to run on the owning goroutine and returns
// immediately (fire-and-forget), matching wm-platform's `dispatch`.
func (d *Dispatcher) Dispatch(fn func()) {
	select {
	case d.work <- fn:
	case <-d.closed:
	}
}

// DispatchSync schedules fn on the owning goroutine and blocks the caller
// until it has run, matching wm-platform's `dispatch_sync`.
func (d *Dispatcher) DispatchSync(fn func()) {
	done := make(chan struct{})
	d.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-d.closed:
	}
}

// Stop halts Run and rejects any further dispatched work.
func (d *Dispatcher) Stop() {
	select {
	case <-d.closed:
	default:
		close(d.closed)
	}
}

// RunInline executes fn directly on the calling goroutine instead of
// dispatching through the channel. Use this when already on the
// dispatcher's owning goroutine (e.g. from inside a Dispatch callback) to
// avoid deadlocking on DispatchSync.
func (d *Dispatcher) RunInline(fn func()) {
	fn()
}
