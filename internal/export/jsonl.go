package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/neurovexon/axon-cli/internal"
)

// JSONLExporter exports conversations in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conv *internal.ConversationDetail, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range conv.Messages {
		// Create message object
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		// Add timestamp if present
		if msg.CreatedAt != "" {
			obj["created_at"] = msg.CreatedAt
		}

		// Tool entries keep their status and timing
		if msg.ToolInfo != nil {
			obj["tool_info"] = msg.ToolInfo
		}

		// Encode to single line
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
