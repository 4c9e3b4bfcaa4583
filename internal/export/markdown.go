package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/neurovexon/axon-cli/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.ConversationDetail, w io.Writer) error {
	// Header
	title := conv.Title
	if title == "" {
		title = conv.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Conversation:** %s  \n", conv.ID)
	if conv.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", conv.CreatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	// Messages
	for i, msg := range conv.Messages {
		timestamp := ""
		if msg.CreatedAt != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.CreatedAt)
		}

		// Escape markdown in content if needed
		content := escapeMarkdown(msg.Content)

		role := msg.Role
		if msg.ToolInfo != nil {
			role = fmt.Sprintf("%s %s [%s]", msg.Role, msg.ToolInfo.Name, msg.ToolInfo.Status)
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", role, timestamp, content)

		// Add horizontal rule after each message (except the last one)
		if i < len(conv.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
