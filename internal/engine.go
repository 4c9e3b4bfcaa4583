package internal

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// sendFailureMessage is shown when a turn aborts before producing any text
const sendFailureMessage = "Failed to send message. Please check the backend connection and try again."

var (
	// ErrStreaming is returned when a turn is submitted while another is in flight
	ErrStreaming = errors.New("a turn is already streaming")
	// ErrApprovalPending is returned when a turn is submitted while a tool
	// request awaits a decision
	ErrApprovalPending = errors.New("a tool approval is pending")
	// ErrEmptyMessage is returned for blank submissions
	ErrEmptyMessage = errors.New("message is empty")
)

// TurnRequest is the payload of a streaming turn
type TurnRequest struct {
	Message      string `json:"message"`
	SessionID    string `json:"session_id,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	AgentID      string `json:"agent_id,omitempty"`
}

// Backend is the slice of the API client the engine depends on
type Backend interface {
	StreamTurn(ctx context.Context, req TurnRequest) (io.ReadCloser, error)
	ResolveApproval(ctx context.Context, approvalID string, decision ApprovalDecision) error
	GetConversation(ctx context.Context, id string) (*ConversationDetail, error)
}

// Hooks let a rendering layer observe the transcript as it changes. All
// callbacks run synchronously on the goroutine driving the stream; a hook
// may call Approve or Reject on the engine from within OnToolRequest.
type Hooks struct {
	// OnAssistantDelta receives each assistant text fragment in arrival order
	OnAssistantDelta func(delta string)
	// OnToolRequest fires when a tool request arms the approval gate
	OnToolRequest func(p PendingApproval)
	// OnToolUpdate fires when a tool message leaves the pending state
	OnToolUpdate func(msg Message)
}

// Engine owns one conversation: the ordered transcript, the single-slot
// approval gate, and the server-assigned session identity. It is not safe
// for concurrent use; all methods must be called from one goroutine.
type Engine struct {
	backend      Backend
	hooks        Hooks
	systemPrompt string
	agentID      string

	messages  []Message
	sessionID string
	pending   *PendingApproval
	streaming bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithSystemPrompt sets the system prompt sent with every turn
func WithSystemPrompt(prompt string) EngineOption {
	return func(e *Engine) { e.systemPrompt = prompt }
}

// WithAgent sets the agent id sent with every turn
func WithAgent(agentID string) EngineOption {
	return func(e *Engine) { e.agentID = agentID }
}

// WithHooks attaches rendering callbacks
func WithHooks(hooks Hooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// NewEngine creates an engine bound to a backend
func NewEngine(backend Backend, opts ...EngineOption) *Engine {
	e := &Engine{backend: backend}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Messages returns a copy of the transcript in insertion order
func (e *Engine) Messages() []Message {
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// SessionID returns the server-assigned conversation id, or "" before the
// first completed turn
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Pending returns the tool request awaiting a decision, or nil
func (e *Engine) Pending() *PendingApproval {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// Streaming reports whether a turn is currently in flight
func (e *Engine) Streaming() bool {
	return e.streaming
}

// Send submits one user turn and consumes the resulting event stream to
// completion. It refuses to start while a previous turn is streaming or a
// tool approval is pending. Cancelling ctx aborts the read loop and is
// handled like any other transport failure.
func (e *Engine) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if e.streaming {
		return ErrStreaming
	}
	if e.pending != nil {
		return ErrApprovalPending
	}

	e.messages = append(e.messages, Message{
		ID:        NewMessageID(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	placeholderID := NewMessageID()
	e.messages = append(e.messages, Message{
		ID:        placeholderID,
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	})

	e.streaming = true
	defer func() {
		e.streaming = false
		e.dropEmptyPlaceholder(placeholderID)
	}()

	body, err := e.backend.StreamTurn(ctx, TurnRequest{
		Message:      text,
		SessionID:    e.sessionID,
		SystemPrompt: e.systemPrompt,
		AgentID:      e.agentID,
	})
	if err != nil {
		e.patchPlaceholderIfEmpty(placeholderID, sendFailureMessage)
		return err
	}
	defer func() { _ = body.Close() }()

	err = Decode(body, func(payload []byte) error {
		ev, ok := ParseEvent(payload)
		if !ok {
			return nil
		}
		e.apply(ev, placeholderID)
		return nil
	})
	if err != nil {
		e.patchPlaceholderIfEmpty(placeholderID, sendFailureMessage)
		return err
	}
	return nil
}

// apply advances the transcript state machine by one event. Events are
// applied strictly in arrival order; tool correlation depends on it.
func (e *Engine) apply(ev StreamEvent, placeholderID string) {
	switch ev.Kind {
	case EventText:
		i := e.indexOf(placeholderID)
		if i < 0 {
			return
		}
		e.messages[i].Content += ev.Content
		if e.hooks.OnAssistantDelta != nil && ev.Content != "" {
			e.hooks.OnAssistantDelta(ev.Content)
		}

	case EventToolRequest:
		e.messages = append(e.messages, Message{
			ID:        NewMessageID(),
			Role:      RoleTool,
			Timestamp: time.Now(),
			ToolInfo:  &ToolInfo{Name: ev.Tool, Status: ToolPending},
		})
		if e.pending != nil {
			// Single-slot gate: the first request keeps the slot; name-based
			// correlation is only safe with one pending approval at a time.
			LogWarn("tool request for %q arrived while %q awaits a decision; gate not re-armed", ev.Tool, e.pending.Tool)
			return
		}
		p := PendingApproval{
			Tool:        ev.Tool,
			Params:      ev.Params,
			Description: ev.Description,
			RiskLevel:   ev.RiskLevel,
			ApprovalID:  ev.ApprovalID,
		}
		e.pending = &p
		if e.hooks.OnToolRequest != nil {
			e.hooks.OnToolRequest(p)
		}

	case EventToolResult:
		i := e.lastToolIndex(ev.Tool, true)
		if i < 0 {
			LogDebug("tool_result for %q matched no active entry; dropped", ev.Tool)
			return
		}
		e.messages[i].Content = ev.Result
		e.messages[i].ToolInfo.Status = ToolExecuted
		e.messages[i].ToolInfo.Result = ev.Result
		e.messages[i].ToolInfo.ExecutionTimeMs = ev.ExecutionTimeMs
		e.notifyToolUpdate(i)

	case EventToolRejected, EventToolBlocked:
		i := e.lastToolIndex(ev.Tool, true)
		if i < 0 {
			LogDebug("%s for %q matched no active entry; dropped", ev.Kind, ev.Tool)
			return
		}
		e.messages[i].ToolInfo.Status = ToolRejected
		e.notifyToolUpdate(i)

	case EventToolError:
		// Errors can surface after execution began, so match any status.
		i := e.lastToolIndex(ev.Tool, false)
		if i < 0 {
			LogDebug("tool_error for %q matched no entry; dropped", ev.Tool)
			return
		}
		e.messages[i].ToolInfo.Status = ToolFailed
		e.messages[i].ToolInfo.Error = ev.ErrorMessage
		e.notifyToolUpdate(i)

	case EventError:
		// Never destroy partial output already shown.
		e.patchPlaceholderIfEmpty(placeholderID, "Error: "+ev.ErrorMessage)

	case EventDone:
		if ev.SessionID != "" {
			e.sessionID = ev.SessionID
		}
		e.streaming = false
	}
}

// Approve resolves the pending approval with decision once or session and
// patches the matching tool entry to approved. Resolution failures are
// logged and swallowed and the gate clears regardless: the server is the
// source of truth for whether the tool actually ran, and the client must
// never stay blocked.
func (e *Engine) Approve(ctx context.Context, decision ApprovalDecision) {
	if e.pending == nil {
		return
	}
	if decision != DecideOnce && decision != DecideSession {
		LogWarn("invalid approval decision %q; use Reject to deny", decision)
		return
	}
	p := *e.pending
	e.pending = nil
	if err := e.backend.ResolveApproval(ctx, p.ApprovalID, decision); err != nil {
		LogWarn("approval resolution failed for %q: %v", p.Tool, err)
		return
	}
	if i := e.lastToolIndex(p.Tool, true); i >= 0 {
		e.messages[i].ToolInfo.Status = ToolApproved
		e.notifyToolUpdate(i)
	}
}

// Reject resolves the pending approval with decision never and patches the
// matching tool entry to rejected. Like Approve, it fails open.
func (e *Engine) Reject(ctx context.Context) {
	if e.pending == nil {
		return
	}
	p := *e.pending
	e.pending = nil
	if err := e.backend.ResolveApproval(ctx, p.ApprovalID, DecideNever); err != nil {
		LogWarn("rejection failed for %q: %v", p.Tool, err)
	}
	if i := e.lastToolIndex(p.Tool, true); i >= 0 {
		e.messages[i].ToolInfo.Status = ToolRejected
		e.notifyToolUpdate(i)
	}
}

// LoadConversation replaces the transcript and session identity wholesale
// with a persisted conversation. Only user and assistant entries are
// restored; tool records live in the server audit log.
func (e *Engine) LoadConversation(ctx context.Context, id string) error {
	detail, err := e.backend.GetConversation(ctx, id)
	if err != nil {
		return err
	}
	msgs := make([]Message, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		role := Role(m.Role)
		if role != RoleUser && role != RoleAssistant {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, m.CreatedAt)
		msgs = append(msgs, Message{
			ID:        m.ID,
			Role:      role,
			Content:   m.Content,
			Timestamp: ts,
		})
	}
	e.messages = msgs
	e.sessionID = detail.ID
	e.pending = nil
	e.streaming = false
	return nil
}

// Reset clears the transcript and session identity for a new conversation
func (e *Engine) Reset() {
	e.messages = nil
	e.sessionID = ""
	e.pending = nil
	e.streaming = false
}

func (e *Engine) indexOf(id string) int {
	for i := range e.messages {
		if e.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// lastToolIndex finds the most recent tool entry for name. With activeOnly
// set it only matches entries not yet in a terminal state, i.e. pending or
// approved.
func (e *Engine) lastToolIndex(name string, activeOnly bool) int {
	for i := len(e.messages) - 1; i >= 0; i-- {
		m := e.messages[i]
		if m.Role != RoleTool || m.ToolInfo == nil || m.ToolInfo.Name != name {
			continue
		}
		if activeOnly && m.ToolInfo.Status != ToolPending && m.ToolInfo.Status != ToolApproved {
			continue
		}
		return i
	}
	return -1
}

func (e *Engine) notifyToolUpdate(i int) {
	if e.hooks.OnToolUpdate != nil {
		e.hooks.OnToolUpdate(e.messages[i])
	}
}

func (e *Engine) patchPlaceholderIfEmpty(id, content string) {
	i := e.indexOf(id)
	if i >= 0 && e.messages[i].Content == "" {
		e.messages[i].Content = content
	}
}

// dropEmptyPlaceholder removes the assistant placeholder after a turn that
// produced no text, e.g. a tool-only turn. An empty bubble is never shown.
func (e *Engine) dropEmptyPlaceholder(id string) {
	i := e.indexOf(id)
	if i < 0 || e.messages[i].Content != "" {
		return
	}
	e.messages = append(e.messages[:i], e.messages[i+1:]...)
}
