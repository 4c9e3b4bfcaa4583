package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid http URL", baseURL: "http://localhost:8000", wantErr: false},
		{name: "valid https URL", baseURL: "https://axon.example.com", wantErr: false},
		{name: "trailing path stripped", baseURL: "http://localhost:8000/api", wantErr: false},
		{name: "missing scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestClient_StreamTurn(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	var gotTurn TurnRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotTurn)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"type\":\"done\",\"session_id\":\"s1\"}\n"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithToken("secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	body, err := client.StreamTurn(context.Background(), TurnRequest{Message: "hi", SessionID: "s0"})
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}
	defer func() { _ = body.Close() }()

	if gotPath != "/api/v1/chat/agent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAccept != "text/event-stream" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotTurn.Message != "hi" || gotTurn.SessionID != "s0" {
		t.Errorf("turn payload = %+v", gotTurn)
	}

	data, _ := io.ReadAll(body)
	if len(data) == 0 {
		t.Error("stream body should be readable")
	}
}

func TestClient_StreamTurnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no provider"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.StreamTurn(context.Background(), TurnRequest{Message: "hi"})
	if err == nil {
		t.Fatal("StreamTurn() should fail on HTTP errors")
	}
	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("error = %T, want *StreamError", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("wrapped error = %v", err)
	}
}

func TestClient_ResolveApproval(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("decision")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	if err := client.ResolveApproval(context.Background(), "appr-1", DecideSession); err != nil {
		t.Fatalf("ResolveApproval() error = %v", err)
	}
	if gotPath != "/api/v1/chat/approve/appr-1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "session" {
		t.Errorf("decision = %q", gotQuery)
	}
}

func TestClient_ListConversations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/conversations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		_, _ = w.Write([]byte(`[{"id":"c1","title":"First"},{"id":"c2","title":"Second"}]`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	conversations, err := client.ListConversations(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(conversations) != 2 || conversations[0].ID != "c1" {
		t.Errorf("conversations = %+v", conversations)
	}
}

func TestClient_GetConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/conversations/c1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"c1","title":"First","messages":[{"id":"m1","role":"user","content":"hi"}]}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	detail, err := client.GetConversation(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if detail.ID != "c1" || len(detail.Messages) != 1 {
		t.Errorf("detail = %+v", detail)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.GetConversation(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Method != http.MethodGet {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/settings/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok","providers":{"openai":true,"ollama":false}}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "ok" || !health.Providers["openai"] || health.Providers["ollama"] {
		t.Errorf("health = %+v", health)
	}
}

func TestClient_MemoryEndpoints(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		_, _ = w.Write([]byte(`{"id":"mem-1","key":"name","content":"Ada"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	entry, err := client.CreateMemory(context.Background(), "name", "Ada", "personal")
	if err != nil {
		t.Fatalf("CreateMemory() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/memory" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
	if gotBody["source"] != "user" || gotBody["category"] != "personal" {
		t.Errorf("body = %+v", gotBody)
	}
	if entry.ID != "mem-1" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestClient_SkillEndpoints(t *testing.T) {
	var gotPath string
	var gotBody map[string]bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	if err := client.ToggleSkill(context.Background(), "sk-1", true); err != nil {
		t.Fatalf("ToggleSkill() error = %v", err)
	}
	if gotPath != "/api/v1/skills/sk-1/toggle" {
		t.Errorf("path = %q", gotPath)
	}
	if !gotBody["enabled"] {
		t.Errorf("body = %+v", gotBody)
	}
}
