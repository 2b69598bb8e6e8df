package ipc

import "encoding/json"

// QueryKind is one of spec.md §6.2's eight query subjects.
type QueryKind string

const (
	QueryAppMetadata     QueryKind = "app_metadata"
	QueryBindingModes    QueryKind = "binding_modes"
	QueryFocused         QueryKind = "focused"
	QueryTilingDirection QueryKind = "tiling_direction"
	QueryMonitors        QueryKind = "monitors"
	QueryWindows         QueryKind = "windows"
	QueryWorkspaces      QueryKind = "workspaces"
	QueryPaused          QueryKind = "paused"
)

// EventName is one of spec.md §6.2's WM event set, subscribable 1:1.
type EventName string

const (
	EventApplicationExiting    EventName = "application_exiting"
	EventBindingModesChanged   EventName = "binding_modes_changed"
	EventFocusChanged          EventName = "focus_changed"
	EventFocusedContainerMoved EventName = "focused_container_moved"
	EventMonitorAdded          EventName = "monitor_added"
	EventMonitorUpdated        EventName = "monitor_updated"
	EventMonitorRemoved        EventName = "monitor_removed"
	EventTilingDirectionChanged EventName = "tiling_direction_changed"
	EventUserConfigChanged     EventName = "user_config_changed"
	EventWindowManaged         EventName = "window_managed"
	EventWindowUnmanaged       EventName = "window_unmanaged"
	EventWorkspaceActivated    EventName = "workspace_activated"
	EventWorkspaceDeactivated  EventName = "workspace_deactivated"
	EventWorkspaceUpdated      EventName = "workspace_updated"
	EventPauseChanged          EventName = "pause_changed"
)

// RequestType tags which of the four request shapes a Request carries.
type RequestType string

const (
	RequestQuery       RequestType = "query"
	RequestCommand     RequestType = "command"
	RequestSubscribe   RequestType = "subscribe"
	RequestUnsubscribe RequestType = "unsubscribe"
)

// Request is one line of a client's newline-delimited JSON stream
// (spec.md §6.2). Only the fields relevant to Type are populated, mirroring
// commands.Command's tagged-struct convention.
type Request struct {
	Type RequestType `json:"type"`

	// Query.
	Query QueryKind `json:"query,omitempty"`

	// Command.
	SubjectContainerID string `json:"subject_container_id,omitempty"`
	Command            string `json:"command,omitempty"`

	// Subscribe.
	Events []EventName `json:"events,omitempty"`

	// Unsubscribe.
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// Response is spec.md §6.2's `{success, data?, error?, client_message}`
// envelope, returned for every request.
type Response struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
	ClientMessage string          `json:"client_message,omitempty"`
}

// Event is spec.md §6.2's `{subscription_id, success, data, error?}`
// envelope, pushed to a connection for every event it is subscribed to.
type Event struct {
	SubscriptionID string          `json:"subscription_id"`
	Success        bool            `json:"success"`
	Data           json.RawMessage `json:"data,omitempty"`
	Error          string          `json:"error,omitempty"`
}

func ok(v any) Response {
	raw, err := json.Marshal(v)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return Response{Success: true, Data: raw}
}

func fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
