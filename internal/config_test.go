package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neurovexon/axon-cli/testutil"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cfg, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`server_url: https://axon.example.com
api_token: tok-123
default_agent: researcher
system_prompt: Be concise.
timeout_seconds: 60
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ServerURL != "https://axon.example.com" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.APIToken != "tok-123" || cfg.DefaultAgent != "researcher" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SystemPrompt != "Be concise." || cfg.TimeoutSeconds != 60 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_token: tok\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server_url: [not: closed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed YAML")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := &Config{
		ServerURL:      "http://localhost:9000",
		APIToken:       "tok",
		DefaultAgent:   "coder",
		TimeoutSeconds: 45,
	}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.ServerURL != cfg.ServerURL || got.APIToken != cfg.APIToken ||
		got.DefaultAgent != cfg.DefaultAgent || got.TimeoutSeconds != cfg.TimeoutSeconds {
		t.Errorf("round trip mismatch: %+v vs %+v", got, cfg)
	}
}
