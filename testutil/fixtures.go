package testutil

import (
	"strings"
	"testing"
)

// Frame wraps one event payload in the wire framing used by the turn stream
func Frame(payload string) string {
	return "data: " + payload + "\n"
}

// Stream joins event payloads into a complete turn stream body
func Stream(payloads ...string) string {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString(Frame(p))
	}
	return b.String()
}

// TextTurnStream is a minimal successful turn: two text fragments and done
func TextTurnStream(sessionID string) string {
	return Stream(
		`{"type":"text","content":"Hello"}`,
		`{"type":"text","content":" world"}`,
		`{"type":"done","session_id":"`+sessionID+`"}`,
	)
}

// ToolTurnStream is a turn that requests a tool, reports its result, and
// finishes with a closing text fragment.
func ToolTurnStream(sessionID string) string {
	return Stream(
		`{"type":"text","content":"Let me check."}`,
		`{"type":"tool_request","tool":"web_search","params":{"query":"weather"},"description":"Search the web","risk_level":"low","approval_id":"appr-1"}`,
		`{"type":"tool_result","tool":"web_search","result":"sunny","execution_time_ms":120}`,
		`{"type":"text","content":"It is sunny."}`,
		`{"type":"done","session_id":"`+sessionID+`"}`,
	)
}

// SampleConversationJSON is a persisted conversation as served by the
// conversation detail endpoint.
func SampleConversationJSON(t *testing.T, id string) string {
	t.Helper()
	return `{
		"id": "` + id + `",
		"title": "Weather chat",
		"created_at": "2025-06-01T10:00:00Z",
		"updated_at": "2025-06-01T10:05:00Z",
		"messages": [
			{"id": "m1", "role": "user", "content": "What is the weather?", "created_at": "2025-06-01T10:00:00Z"},
			{"id": "m2", "role": "tool", "content": "sunny", "created_at": "2025-06-01T10:00:02Z"},
			{"id": "m3", "role": "assistant", "content": "It is sunny.", "created_at": "2025-06-01T10:00:05Z"}
		]
	}`
}
