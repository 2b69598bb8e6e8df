package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client is a thin request/response wrapper around one connection to a
// Server, used by cmd/tilewm's query/command/sub/unsub subcommands.
// Grounded on a connect/send/recv client shape, adapted to this package's
// newline-delimited JSON Request/Response/Event envelopes.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

// Dial connects to the Unix domain socket at socketPath.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Client{conn: conn, scanner: scanner}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) send(req Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if _, err := c.conn.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

func (c *Client) recvResponse() (Response, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		return Response{}, fmt.Errorf("connection closed")
	}
	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return Response{}, fmt.Errorf("parse response: %w", err)
	}
	return resp, nil
}

func (c *Client) roundTrip(req Request) (json.RawMessage, error) {
	if err := c.send(req); err != nil {
		return nil, err
	}
	resp, err := c.recvResponse()
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Data, nil
}

// Query sends a Query request and returns the raw JSON data payload.
func (c *Client) Query(kind QueryKind) (json.RawMessage, error) {
	return c.roundTrip(Request{Type: RequestQuery, Query: kind})
}

// RunCommand sends a Command request.
func (c *Client) RunCommand(subjectContainerID, invoke string) (json.RawMessage, error) {
	return c.roundTrip(Request{Type: RequestCommand, SubjectContainerID: subjectContainerID, Command: invoke})
}

// Subscribe sends a Subscribe request and returns the new subscription id.
// Events then arrive on this same connection; call ReadEvent to receive them.
func (c *Client) Subscribe(events []EventName) (string, error) {
	data, err := c.roundTrip(Request{Type: RequestSubscribe, Events: events})
	if err != nil {
		return "", err
	}
	var result subscribeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("parse subscribe result: %w", err)
	}
	return result.SubscriptionID, nil
}

// Unsubscribe sends an Unsubscribe request, valid on any open connection
// (spec.md §6.2 scopes subscriptions to the backend, not the socket).
func (c *Client) Unsubscribe(id string) error {
	_, err := c.roundTrip(Request{Type: RequestUnsubscribe, SubscriptionID: id})
	return err
}

// ReadEvent blocks for the next line on the connection and parses it as an
// Event. After Subscribe, every subsequent line on this connection is an
// Event push rather than a Response to a request.
func (c *Client) ReadEvent() (Event, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Event{}, fmt.Errorf("read event: %w", err)
		}
		return Event{}, fmt.Errorf("connection closed")
	}
	var ev Event
	if err := json.Unmarshal(c.scanner.Bytes(), &ev); err != nil {
		return Event{}, fmt.Errorf("parse event: %w", err)
	}
	return ev, nil
}
