// Package ipc implements the local IPC surface spec.md §6.2 names: a
// framed, newline-delimited JSON protocol carrying Query/Command/
// Subscribe/Unsubscribe requests over a Unix domain socket. Grounded on a
// net.Listen("unix", ...) + os.Chmod(0700) daemon shape: an acceptLoop
// spawning a goroutine per connection, a per-connection read loop
// dispatching messages by tag, and a per-client subscription-forwarding
// goroutine, adapted here to newline-delimited JSON and named-event fan-out.
package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Backend is the seam into the WM reducer: everything the IPC server needs
// to answer a query, run a command, or fan out events, without importing
// internal/containers directly (see dto.go's package comment).
type Backend interface {
	Query(kind QueryKind) (any, error)
	RunCommand(subjectContainerID, invoke string) (string, error)
	Subscribe(events []EventName) (id string, ch <-chan Event, err error)
	Unsubscribe(id string) error
}

// Server listens on a Unix domain socket and serves Backend over spec.md
// §6.2's protocol.
type Server struct {
	backend    Backend
	socketPath string

	listener net.Listener

	mu      sync.Mutex
	clients map[string]*connState
}

// connState tracks one connected client: one struct per accepted
// connection, guarding concurrent writes with its own mutex since
// subscription fan-out and request/response replies both write to the
// same connection.
type connState struct {
	conn   net.Conn
	id     string
	writeMu sync.Mutex
	subs   map[string]func()
}

// New builds a Server bound to backend; it does not listen until Start.
func New(backend Backend, socketPath string) *Server {
	return &Server{backend: backend, socketPath: socketPath, clients: make(map[string]*connState)}
}

// Start removes any stale socket file, listens, restricts permissions to
// the owner (spec.md §6.2 implies a local, not network-exposed, socket),
// and begins accepting connections in the background.
func (s *Server) Start() error {
	if _, err := os.Stat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("remove stale ipc socket: %w", err)
		}
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on ipc socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0700); err != nil {
		_ = listener.Close()
		return fmt.Errorf("set ipc socket permissions: %w", err)
	}
	s.listener = listener
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every open connection.
func (s *Server) Stop() {
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cs := range s.clients {
		for _, cancel := range cs.subs {
			cancel()
		}
		_ = cs.conn.Close()
	}
	s.clients = make(map[string]*connState)
	_ = os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	cs := &connState{conn: conn, id: uuid.NewString(), subs: make(map[string]func())}

	s.mu.Lock()
	s.clients[cs.id] = cs
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, cs.id)
		s.mu.Unlock()
		for _, cancel := range cs.subs {
			cancel()
		}
		_ = conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(cs, fail(fmt.Errorf("malformed request: %w", err)))
			continue
		}
		s.dispatch(cs, req)
	}
}

func (s *Server) dispatch(cs *connState, req Request) {
	switch req.Type {
	case RequestQuery:
		s.handleQuery(cs, req)
	case RequestCommand:
		s.handleCommand(cs, req)
	case RequestSubscribe:
		s.handleSubscribe(cs, req)
	case RequestUnsubscribe:
		s.handleUnsubscribe(cs, req)
	default:
		s.reply(cs, fail(fmt.Errorf("unknown request type %q", req.Type)))
	}
}

func (s *Server) handleQuery(cs *connState, req Request) {
	data, err := s.backend.Query(req.Query)
	if err != nil {
		s.reply(cs, fail(err))
		return
	}
	s.reply(cs, ok(data))
}

// commandResult is handleCommand's success payload: the id of the
// container the command actually affected (spec.md §6.2's "returns the
// subject container id actually affected").
type commandResult struct {
	SubjectContainerID string `json:"subject_container_id"`
}

func (s *Server) handleCommand(cs *connState, req Request) {
	affected, err := s.backend.RunCommand(req.SubjectContainerID, req.Command)
	if err != nil {
		s.reply(cs, fail(err))
		return
	}
	s.reply(cs, ok(commandResult{SubjectContainerID: affected}))
}

type subscribeResult struct {
	SubscriptionID string `json:"subscription_id"`
}

func (s *Server) handleSubscribe(cs *connState, req Request) {
	id, ch, err := s.backend.Subscribe(req.Events)
	if err != nil {
		s.reply(cs, fail(err))
		return
	}
	done := make(chan struct{})
	s.mu.Lock()
	cs.subs[id] = func() { close(done) }
	s.mu.Unlock()
	go s.forwardEvents(cs, ch, done)
	s.reply(cs, ok(subscribeResult{SubscriptionID: id}))
}

// forwardEvents streams ch to cs until done is closed or ch is drained, a
// goroutine-per-subscription fan-out idiom.
func (s *Server) forwardEvents(cs *connState, ch <-chan Event, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			s.writeEvent(cs, ev)
		}
	}
}

func (s *Server) handleUnsubscribe(cs *connState, req Request) {
	s.mu.Lock()
	cancel, ok2 := cs.subs[req.SubscriptionID]
	if ok2 {
		delete(cs.subs, req.SubscriptionID)
	}
	s.mu.Unlock()
	if ok2 {
		cancel()
	}
	if err := s.backend.Unsubscribe(req.SubscriptionID); err != nil {
		s.reply(cs, fail(err))
		return
	}
	s.reply(cs, ok(struct{}{}))
}

func (s *Server) reply(cs *connState, resp Response) {
	s.writeLine(cs, resp)
}

func (s *Server) writeEvent(cs *connState, ev Event) {
	s.writeLine(cs, ev)
}

func (s *Server) writeLine(cs *connState, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error("ipc: marshal response", "err", err)
		return
	}
	cs.writeMu.Lock()
	defer cs.writeMu.Unlock()
	if _, err := cs.conn.Write(append(raw, '\n')); err != nil {
		log.Warn("ipc: write to client failed", "client", cs.id, "err", err)
	}
}
