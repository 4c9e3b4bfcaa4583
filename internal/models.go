package internal

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Role identifies the author of a transcript message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolStatus is the lifecycle state of a tool message.
// "pending" is the only non-terminal state; once left it is never re-entered.
type ToolStatus string

const (
	ToolPending  ToolStatus = "pending"
	ToolApproved ToolStatus = "approved"
	ToolRejected ToolStatus = "rejected"
	ToolExecuted ToolStatus = "executed"
	ToolFailed   ToolStatus = "failed"
)

// RiskLevel classifies how dangerous a requested tool invocation is
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ValidRiskLevel reports whether s is one of the four known risk levels
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ToolInfo carries the tool-specific fields of a tool message
type ToolInfo struct {
	Name            string     `json:"name" yaml:"name"`
	Status          ToolStatus `json:"status" yaml:"status"`
	Result          string     `json:"result,omitempty" yaml:"result,omitempty"`
	Error           string     `json:"error,omitempty" yaml:"error,omitempty"`
	ExecutionTimeMs int64      `json:"execution_time_ms,omitempty" yaml:"execution_time_ms,omitempty"`
}

// Message is one entry in a conversation transcript
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	ToolInfo  *ToolInfo `json:"tool_info,omitempty"`
}

// PendingApproval is a tool request waiting for a human decision.
// At most one exists per engine; its presence blocks new submissions.
type PendingApproval struct {
	Tool        string         `json:"tool"`
	Params      map[string]any `json:"params"`
	Description string         `json:"description"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	ApprovalID  string         `json:"approval_id"`
}

// ApprovalDecision is the value sent to the approval endpoint
type ApprovalDecision string

const (
	DecideOnce    ApprovalDecision = "once"
	DecideSession ApprovalDecision = "session"
	DecideNever   ApprovalDecision = "never"
)

// Conversation is a conversation summary as returned by the listing endpoint
type Conversation struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`
}

// StoredMessage is one persisted message of a reloaded conversation.
// ToolInfo is set only for cached tool entries; server history omits it.
type StoredMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt string    `json:"created_at" yaml:"created_at"`
	ToolInfo  *ToolInfo `json:"tool_info,omitempty" yaml:"tool_info,omitempty"`
}

// ConversationDetail is a conversation with its full message history
type ConversationDetail struct {
	Conversation `yaml:",inline"`
	Messages     []StoredMessage `json:"messages" yaml:"messages"`
}

var messageSeq atomic.Uint64

// NewMessageID generates a locally unique id for user/assistant entries.
// Server-generated ids are used for reloaded history.
func NewMessageID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), messageSeq.Add(1))
}
