package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	old := time.Now().AddDate(-2, 0, 0).Format(time.RFC3339)

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "empty",
			value: "",
			want:  "—",
		},
		{
			name:  "unparseable long value truncated to date",
			value: "2025-06-01 10:00:00",
			want:  "2025-06-01",
		},
		{
			name:  "years old uses date format",
			value: old,
			want:  old[:10],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTimestamp(tt.value)
			if !strings.Contains(got, tt.want) {
				t.Errorf("formatTimestamp(%q) = %q, want it to contain %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp_Recent(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC3339)
	got := formatTimestamp(recent)
	if !strings.Contains(got, "Today") {
		t.Errorf("formatTimestamp(%q) = %q, want a Today format", recent, got)
	}
}
