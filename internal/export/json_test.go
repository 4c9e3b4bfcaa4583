package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/neurovexon/axon-cli/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := &JSONExporter{}

	if err := exporter.Export(testConversation("conv1", sampleMessages()), &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var got internal.ConversationDetail
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.ID != "conv1" || len(got.Messages) != 2 {
		t.Errorf("got %+v", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  ")) {
		t.Error("output should be pretty-printed")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
