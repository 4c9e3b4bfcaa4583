package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/neurovexon/axon-cli/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONLExporter{}

	if err := exporter.Export(testConversation("conv1", sampleMessages()), &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	for i, line := range lines {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if obj["role"] == "" || obj["content"] == "" {
			t.Errorf("line %d = %v", i, obj)
		}
	}
}

func TestJSONLExporter_ToolEntry(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONLExporter{}
	conv := testConversation("conv1", []internal.StoredMessage{
		{Role: "user", Content: "weather?"},
		{Role: "tool", Content: "sunny", ToolInfo: &internal.ToolInfo{
			Name: "web_search", Status: internal.ToolExecuted, Result: "sunny", ExecutionTimeMs: 120,
		}},
	})

	if err := exporter.Export(conv, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &obj); err != nil {
		t.Fatalf("tool line is not valid JSON: %v", err)
	}
	info, ok := obj["tool_info"].(map[string]interface{})
	if !ok {
		t.Fatalf("tool line missing tool_info: %v", obj)
	}
	if info["name"] != "web_search" || info["status"] != "executed" {
		t.Errorf("tool_info = %v", info)
	}
	if info["execution_time_ms"] != float64(120) {
		t.Errorf("execution_time_ms = %v, want 120", info["execution_time_ms"])
	}

	obj = map[string]interface{}{}
	if err := json.Unmarshal([]byte(lines[0]), &obj); err != nil {
		t.Fatalf("user line is not valid JSON: %v", err)
	}
	if _, ok := obj["tool_info"]; ok {
		t.Errorf("user line should not carry tool_info: %v", obj)
	}
}

func TestJSONLExporter_SkipsEmptyTimestamp(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONLExporter{}
	conv := testConversation("conv1", []internal.StoredMessage{
		{Role: "user", Content: "hi"},
	})

	if err := exporter.Export(conv, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}
	if strings.Contains(buf.String(), "created_at") {
		t.Errorf("output should omit empty timestamps: %s", buf.String())
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}
