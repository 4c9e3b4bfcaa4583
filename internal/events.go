package internal

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies one of the fixed stream event kinds
type EventKind string

const (
	EventText         EventKind = "text"
	EventToolRequest  EventKind = "tool_request"
	EventToolResult   EventKind = "tool_result"
	EventToolRejected EventKind = "tool_rejected"
	EventToolBlocked  EventKind = "tool_blocked"
	EventToolError    EventKind = "tool_error"
	EventError        EventKind = "error"
	EventDone         EventKind = "done"
)

// unknownErrorMessage is used when an error event carries no message
const unknownErrorMessage = "An unknown error occurred"

// StreamEvent is a decoded turn stream event. Defaults are filled at the
// parse boundary so consumers never re-derive them: only the fields
// meaningful for the Kind are populated.
type StreamEvent struct {
	Kind EventKind

	// text
	Content string

	// tool_request / tool_result / tool_rejected / tool_blocked / tool_error
	Tool            string
	Params          map[string]any
	Description     string
	RiskLevel       RiskLevel
	ApprovalID      string
	Result          string
	ExecutionTimeMs int64

	// error
	ErrorMessage string

	// done
	SessionID string
}

// rawEvent is the loose wire shape of a frame payload
type rawEvent struct {
	Type            string          `json:"type"`
	Content         string          `json:"content"`
	Tool            string          `json:"tool"`
	Params          map[string]any  `json:"params"`
	Description     string          `json:"description"`
	RiskLevel       string          `json:"risk_level"`
	ApprovalID      string          `json:"approval_id"`
	Result          json.RawMessage `json:"result"`
	ExecutionTimeMs int64           `json:"execution_time_ms"`
	SessionID       string          `json:"session_id"`
	Message         string          `json:"message"`
	Error           string          `json:"error"`
}

// ParseEvent classifies a frame payload into a StreamEvent. It returns
// ok=false for unknown event kinds and payloads that are not JSON objects;
// both are skipped so the protocol stays forward-compatible.
func ParseEvent(payload []byte) (StreamEvent, bool) {
	var raw rawEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		LogDebug("dropping unparseable event: %v", err)
		return StreamEvent{}, false
	}

	switch EventKind(raw.Type) {
	case EventText:
		return StreamEvent{Kind: EventText, Content: raw.Content}, true

	case EventToolRequest:
		ev := StreamEvent{
			Kind:        EventToolRequest,
			Tool:        raw.Tool,
			Params:      raw.Params,
			Description: raw.Description,
			RiskLevel:   RiskLevel(raw.RiskLevel),
			ApprovalID:  raw.ApprovalID,
		}
		if ev.Params == nil {
			ev.Params = map[string]any{}
		}
		if ev.Description == "" {
			ev.Description = fmt.Sprintf("Execute tool '%s'", raw.Tool)
		}
		if !ValidRiskLevel(raw.RiskLevel) {
			ev.RiskLevel = RiskMedium
		}
		return ev, true

	case EventToolResult:
		return StreamEvent{
			Kind:            EventToolResult,
			Tool:            raw.Tool,
			Result:          stringifyResult(raw.Result),
			ExecutionTimeMs: raw.ExecutionTimeMs,
		}, true

	case EventToolRejected, EventToolBlocked:
		return StreamEvent{Kind: EventKind(raw.Type), Tool: raw.Tool}, true

	case EventToolError:
		return StreamEvent{Kind: EventToolError, Tool: raw.Tool, ErrorMessage: raw.Error}, true

	case EventError:
		msg := raw.Message
		if msg == "" {
			msg = unknownErrorMessage
		}
		return StreamEvent{Kind: EventError, ErrorMessage: msg}, true

	case EventDone:
		return StreamEvent{Kind: EventDone, SessionID: raw.SessionID}, true
	}

	LogDebug("ignoring unknown event kind: %s", raw.Type)
	return StreamEvent{}, false
}

// stringifyResult renders a result value for display: JSON strings are
// unwrapped, everything else is kept as compact JSON.
func stringifyResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return string(raw)
	}
	compact, err := json.Marshal(buf)
	if err != nil {
		return string(raw)
	}
	return string(compact)
}
