package internal

import "testing"

func TestValidRiskLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"low", true},
		{"medium", true},
		{"high", true},
		{"critical", true},
		{"extreme", false},
		{"", false},
		{"LOW", false},
	}
	for _, tt := range tests {
		if got := ValidRiskLevel(tt.level); got != tt.want {
			t.Errorf("ValidRiskLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewMessageID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewMessageID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
