package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neurovexon/axon-cli/internal"
)

func TestAssistantPrinter_LabelOnFirstDelta(t *testing.T) {
	var buf bytes.Buffer
	p := &assistantPrinter{out: &buf}

	p.delta("It is ")
	p.delta("sunny.")
	p.finishTurn()

	got := buf.String()
	if !strings.Contains(got, "axon>") {
		t.Errorf("output = %q, want the axon> label", got)
	}
	if !strings.Contains(got, "It is sunny.") {
		t.Errorf("output = %q, want the streamed text", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("output = %q, want a closing newline", got)
	}
}

func TestAssistantPrinter_NoLabelWithoutDeltas(t *testing.T) {
	var buf bytes.Buffer
	p := &assistantPrinter{out: &buf}

	p.finishTurn()

	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing on a turn with no reply text", buf.String())
	}
}

func TestAssistantPrinter_ResetsBetweenTurns(t *testing.T) {
	var buf bytes.Buffer
	p := &assistantPrinter{out: &buf}

	p.delta("first")
	p.finishTurn()
	buf.Reset()

	p.finishTurn()
	if buf.Len() != 0 {
		t.Errorf("output = %q, a finished turn must not leak into the next", buf.String())
	}
}

func TestFirstUserLine(t *testing.T) {
	tests := []struct {
		name     string
		messages []internal.Message
		want     string
	}{
		{
			name: "first user message wins",
			messages: []internal.Message{
				{Role: internal.RoleAssistant, Content: "hi"},
				{Role: internal.RoleUser, Content: "what is the weather?"},
				{Role: internal.RoleUser, Content: "second question"},
			},
			want: "what is the weather?",
		},
		{
			name: "multiline truncated to first line",
			messages: []internal.Message{
				{Role: internal.RoleUser, Content: "line one\nline two"},
			},
			want: "line one",
		},
		{
			name: "long line shortened",
			messages: []internal.Message{
				{Role: internal.RoleUser, Content: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
			},
			want: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa...",
		},
		{
			name:     "no user message",
			messages: []internal.Message{{Role: internal.RoleAssistant, Content: "hi"}},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstUserLine(tt.messages); got != tt.want {
				t.Errorf("firstUserLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
