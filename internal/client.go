package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// apiPrefix is the version prefix of every backend endpoint
const apiPrefix = "/api/v1"

// Client is an HTTP client for the Axon backend API
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	streamClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithToken sets the bearer token attached to every request
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout for non-streaming requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing scheme or host", baseURL)
	}
	c := &Client{
		baseURL:      u.Scheme + "://" + u.Host,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do performs a request and decodes a JSON response into result when non-nil
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: clipString(string(respBody), 300)}
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// StreamTurn opens the agent turn stream. The caller owns the returned body
// and must close it; the engine decodes it frame by frame.
func (c *Client) StreamTurn(ctx context.Context, turn TurnRequest) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chat/agent", turn)
	if err != nil {
		return nil, &StreamError{Op: "open", Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No client timeout here: the stream stays open for the whole turn.
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, &StreamError{Op: "open", Err: err}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &StreamError{Op: "open", Err: &APIError{
			Method: http.MethodPost,
			Path:   "/chat/agent",
			Status: resp.StatusCode,
			Body:   clipString(string(body), 300),
		}}
	}
	return resp.Body, nil
}

// ResolveApproval commits a human decision for a pending tool request
func (c *Client) ResolveApproval(ctx context.Context, approvalID string, decision ApprovalDecision) error {
	path := "/chat/approve/" + url.PathEscape(approvalID) + "?decision=" + url.QueryEscape(string(decision))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// ListConversations fetches up to limit conversation summaries
func (c *Client) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	var conversations []Conversation
	err := c.do(ctx, http.MethodGet, "/chat/conversations?limit="+strconv.Itoa(limit), nil, &conversations)
	return conversations, err
}

// GetConversation fetches one conversation with its message history
func (c *Client) GetConversation(ctx context.Context, id string) (*ConversationDetail, error) {
	var detail ConversationDetail
	if err := c.do(ctx, http.MethodGet, "/chat/conversations/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteConversation deletes a conversation server-side
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chat/conversations/"+url.PathEscape(id), nil, nil)
}

// Settings mirrors the backend settings resource
type Settings struct {
	AppName            string   `json:"app_name"`
	AppVersion         string   `json:"app_version"`
	LLMProvider        string   `json:"llm_provider"`
	Theme              string   `json:"theme"`
	SystemPrompt       string   `json:"system_prompt,omitempty"`
	AvailableProviders []string `json:"available_providers"`
}

// GetSettings fetches backend settings
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings applies a partial settings update
func (c *Client) UpdateSettings(ctx context.Context, updates map[string]string) error {
	return c.do(ctx, http.MethodPut, "/settings", updates, nil)
}

// HealthStatus is the backend health report
type HealthStatus struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
}

// Health checks backend and provider availability
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	if err := c.do(ctx, http.MethodGet, "/settings/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// MemoryEntry is one persistent agent memory
type MemoryEntry struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Content   string `json:"content"`
	Source    string `json:"source"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListMemories fetches memories, optionally filtered by category or search
func (c *Client) ListMemories(ctx context.Context, category, search string, limit int) ([]MemoryEntry, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if search != "" {
		q.Set("search", search)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/memory"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var entries []MemoryEntry
	err := c.do(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}

// CreateMemory stores a new memory
func (c *Client) CreateMemory(ctx context.Context, key, content, category string) (*MemoryEntry, error) {
	body := map[string]string{"key": key, "content": content, "source": "user"}
	if category != "" {
		body["category"] = category
	}
	var entry MemoryEntry
	if err := c.do(ctx, http.MethodPost, "/memory", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateMemory replaces the content of one memory
func (c *Client) UpdateMemory(ctx context.Context, id, content string) (*MemoryEntry, error) {
	var entry MemoryEntry
	if err := c.do(ctx, http.MethodPut, "/memory/"+url.PathEscape(id), map[string]string{"content": content}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteMemory removes one memory
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/memory/"+url.PathEscape(id), nil, nil)
}

// ClearMemories removes all memories
func (c *Client) ClearMemories(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/memory", nil, nil)
}

// Skill is an installable agent capability
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author,omitempty"`
	Enabled     bool   `json:"enabled"`
	Approved    bool   `json:"approved"`
	RiskLevel   string `json:"risk_level"`
}

// ListSkills fetches all skills
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var skills []Skill
	err := c.do(ctx, http.MethodGet, "/skills", nil, &skills)
	return skills, err
}

// ApproveSkill sets a skill's approval flag
func (c *Client) ApproveSkill(ctx context.Context, id string, approved bool) error {
	return c.do(ctx, http.MethodPost, "/skills/"+url.PathEscape(id)+"/approve", map[string]bool{"approved": approved}, nil)
}

// ToggleSkill enables or disables a skill
func (c *Client) ToggleSkill(ctx context.Context, id string, enabled bool) error {
	return c.do(ctx, http.MethodPost, "/skills/"+url.PathEscape(id)+"/toggle", map[string]bool{"enabled": enabled}, nil)
}

// DeleteSkill removes a skill
func (c *Client) DeleteSkill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/skills/"+url.PathEscape(id), nil, nil)
}

// ScanSkills asks the backend to rescan its skills directory
func (c *Client) ScanSkills(ctx context.Context) (int, error) {
	var result struct {
		Found int `json:"found"`
	}
	if err := c.do(ctx, http.MethodPost, "/skills/scan", nil, &result); err != nil {
		return 0, err
	}
	return result.Found, nil
}
