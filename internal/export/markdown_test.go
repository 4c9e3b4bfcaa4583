package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neurovexon/axon-cli/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name string
		conv *internal.ConversationDetail
		want []string
	}{
		{
			name: "basic conversation",
			conv: testConversation("conv1", sampleMessages()),
			want: []string{
				"# Test chat",
				"**Conversation:** conv1",
				"**Messages:** 2",
				"## Messages",
				"**user:**",
				"Hello, how are you?",
				"**assistant:**",
			},
		},
		{
			name: "message with timestamp",
			conv: testConversation("conv2", []internal.StoredMessage{
				{Role: "user", Content: "Hello", CreatedAt: "2025-06-01T10:00:00Z"},
			}),
			want: []string{
				"**user:** (2025-06-01T10:00:00Z)",
			},
		},
		{
			name: "tool entry shows name and status",
			conv: testConversation("conv4", []internal.StoredMessage{
				{Role: "tool", Content: "sunny", ToolInfo: &internal.ToolInfo{
					Name: "web_search", Status: internal.ToolExecuted, Result: "sunny",
				}},
			}),
			want: []string{
				"**tool web_search [executed]:**",
				"sunny",
			},
		},
		{
			name: "untitled conversation falls back to id",
			conv: &internal.ConversationDetail{
				Conversation: internal.Conversation{ID: "conv3"},
			},
			want: []string{
				"# conv3",
				"**Messages:** 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:   "This is **bold** text",
			want:    []string{"\\*\\*bold\\*\\*"},
			notWant: []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:   "This is __underlined__ text",
			want:    []string{"\\_\\_underlined\\_\\_"},
			notWant: []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}
