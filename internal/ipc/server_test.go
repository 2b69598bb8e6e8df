package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"
)

type fakeBackend struct {
	queries map[QueryKind]any
	ran     []string
	subCh   chan Event
	subID   string
	unsubbed string
}

func (f *fakeBackend) Query(kind QueryKind) (any, error) {
	v, ok := f.queries[kind]
	if !ok {
		return nil, fmt.Errorf("no fixture for query %q", kind)
	}
	return v, nil
}

func (f *fakeBackend) RunCommand(subjectContainerID, invoke string) (string, error) {
	f.ran = append(f.ran, invoke)
	if invoke == "fail" {
		return "", fmt.Errorf("command rejected")
	}
	if subjectContainerID != "" {
		return subjectContainerID, nil
	}
	return "resolved-subject", nil
}

func (f *fakeBackend) Subscribe(events []EventName) (string, <-chan Event, error) {
	f.subID = "sub-1"
	f.subCh = make(chan Event, 4)
	return f.subID, f.subCh, nil
}

func (f *fakeBackend) Unsubscribe(id string) error {
	f.unsubbed = id
	return nil
}

func dial(t *testing.T, socketPath string) (net.Conn, *bufio.Reader) {
	t.Helper()
	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.Dial("unix", socketPath)
		if err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial ipc socket: %v", err)
	}
	return conn, bufio.NewReader(conn)
}

func send(t *testing.T, conn net.Conn, req Request) {
	t.Helper()
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	if _, err := conn.Write(append(raw, '\n')); err != nil {
		t.Fatalf("write request: %v", err)
	}
}

func readResponse(t *testing.T, r *bufio.Reader) Response {
	t.Helper()
	line, err := r.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func readEvent(t *testing.T, r *bufio.Reader) Event {
	t.Helper()
	line, err := r.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return ev
}

func startTestServer(t *testing.T, backend Backend) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "tilewm.sock")
	srv := New(backend, socketPath)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Stop)
	return socketPath
}

func TestQueryReturnsBackendData(t *testing.T) {
	backend := &fakeBackend{queries: map[QueryKind]any{
		QueryPaused: PausedDTO{Paused: true},
	}}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	send(t, conn, Request{Type: RequestQuery, Query: QueryPaused})
	resp := readResponse(t, r)
	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.Error)
	}
	var got PausedDTO
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if !got.Paused {
		t.Error("Paused = false, want true")
	}
}

func TestQueryUnknownKindFails(t *testing.T) {
	backend := &fakeBackend{queries: map[QueryKind]any{}}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	send(t, conn, Request{Type: RequestQuery, Query: QueryMonitors})
	resp := readResponse(t, r)
	if resp.Success {
		t.Fatal("expected Success = false for an unfixtured query")
	}
}

func TestCommandReturnsAffectedSubject(t *testing.T) {
	backend := &fakeBackend{}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	send(t, conn, Request{Type: RequestCommand, SubjectContainerID: "c1", Command: "focus --direction left"})
	resp := readResponse(t, r)
	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.Error)
	}
	var got commandResult
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if got.SubjectContainerID != "c1" {
		t.Errorf("SubjectContainerID = %q, want c1", got.SubjectContainerID)
	}
	if len(backend.ran) != 1 || backend.ran[0] != "focus --direction left" {
		t.Errorf("backend.ran = %v", backend.ran)
	}
}

func TestCommandFailurePropagatesError(t *testing.T) {
	backend := &fakeBackend{}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	send(t, conn, Request{Type: RequestCommand, Command: "fail"})
	resp := readResponse(t, r)
	if resp.Success {
		t.Fatal("expected Success = false")
	}
	if resp.Error == "" {
		t.Error("expected a non-empty Error")
	}
}

func TestSubscribeReceivesEventsUntilUnsubscribed(t *testing.T) {
	backend := &fakeBackend{}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	send(t, conn, Request{Type: RequestSubscribe, Events: []EventName{EventFocusChanged}})
	resp := readResponse(t, r)
	if !resp.Success {
		t.Fatalf("Success = false, error = %q", resp.Error)
	}
	var sub subscribeResult
	if err := json.Unmarshal(resp.Data, &sub); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if sub.SubscriptionID != "sub-1" {
		t.Fatalf("SubscriptionID = %q, want sub-1", sub.SubscriptionID)
	}

	payload, _ := json.Marshal(map[string]string{"container_id": "c1"})
	backend.subCh <- Event{SubscriptionID: sub.SubscriptionID, Success: true, Data: payload}
	ev := readEvent(t, r)
	if ev.SubscriptionID != sub.SubscriptionID || !ev.Success {
		t.Fatalf("ev = %+v", ev)
	}

	send(t, conn, Request{Type: RequestUnsubscribe, SubscriptionID: sub.SubscriptionID})
	unsub := readResponse(t, r)
	if !unsub.Success {
		t.Fatalf("unsubscribe Success = false, error = %q", unsub.Error)
	}
	if backend.unsubbed != sub.SubscriptionID {
		t.Errorf("backend.unsubbed = %q, want %q", backend.unsubbed, sub.SubscriptionID)
	}
}

func TestMalformedRequestReturnsError(t *testing.T) {
	backend := &fakeBackend{}
	socketPath := startTestServer(t, backend)
	conn, r := dial(t, socketPath)
	defer conn.Close()

	if _, err := conn.Write([]byte("{not json}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp := readResponse(t, r)
	if resp.Success {
		t.Fatal("expected Success = false for malformed JSON")
	}
}
