package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

var showCached bool

var (
	// Styles for show command
	convHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	convMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	toolMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Show messages for a conversation",
	Long:  `Display the full message history of a conversation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cache := openCache()
		if cache != nil {
			defer func() { _ = cache.Close() }()
		}

		detail, err := fetchConversation(cmd, cache, id, showCached)
		if err != nil {
			return err
		}

		title := detail.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Println(convHeaderStyle.Render("💬 " + title))
		fmt.Println(convMetaStyle.Render(fmt.Sprintf("ID: %s  •  %d message(s)", detail.ID, len(detail.Messages))))
		fmt.Println()

		for _, msg := range detail.Messages {
			var label string
			switch internal.Role(msg.Role) {
			case internal.RoleUser:
				label = userMessageStyle.Render("You")
			case internal.RoleAssistant:
				label = assistantMessageStyle.Render("Axon")
			case internal.RoleTool:
				label = toolMessageStyle.Render("Tool")
				if msg.ToolInfo != nil {
					status := string(msg.ToolInfo.Status)
					if msg.ToolInfo.ExecutionTimeMs > 0 {
						status += fmt.Sprintf(", %dms", msg.ToolInfo.ExecutionTimeMs)
					}
					label = toolMessageStyle.Render(fmt.Sprintf("Tool %s (%s)", msg.ToolInfo.Name, status))
				}
			default:
				label = convMetaStyle.Render(msg.Role)
			}
			if msg.CreatedAt != "" {
				label += " " + timestampStyle.Render(msg.CreatedAt)
			}
			fmt.Println(label)
			fmt.Println(messageContentStyle.Render(msg.Content))
		}
		return nil
	},
}

// fetchConversation loads a conversation from the backend, falling back to
// the cache; with cachedOnly the backend is never contacted.
func fetchConversation(cmd *cobra.Command, cache *internal.Cache, id string, cachedOnly bool) (*internal.ConversationDetail, error) {
	if cachedOnly {
		if cache == nil {
			return nil, fmt.Errorf("cache unavailable")
		}
		detail, err := cache.GetConversation(id)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, fmt.Errorf("conversation not cached: %s", id)
		}
		return detail, nil
	}

	client, _, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	detail, err := client.GetConversation(cmd.Context(), id)
	if err != nil {
		if cache != nil {
			if cached, cacheErr := cache.GetConversation(id); cacheErr == nil && cached != nil {
				internal.LogWarn("Backend unreachable (%v), showing cached copy", err)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch conversation %s: %w", id, err)
	}
	if cache != nil {
		if err := cache.SaveConversation(detail); err != nil {
			internal.LogDebug("Failed to cache conversation: %v", err)
		}
	}
	return detail, nil
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showCached, "cached", false, "Read from the local cache without contacting the backend")
}
