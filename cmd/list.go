package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

var (
	listLimit  int
	listCached bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long:  `List conversations stored on the Axon backend, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := openCache()
		if cache != nil {
			defer func() { _ = cache.Close() }()
		}

		var conversations []internal.Conversation
		if listCached {
			if cache == nil {
				return fmt.Errorf("cache unavailable")
			}
			var err error
			conversations, err = cache.ListConversations()
			if err != nil {
				return fmt.Errorf("failed to read cache: %w", err)
			}
		} else {
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			conversations, err = client.ListConversations(cmd.Context(), listLimit)
			if err != nil {
				// Fall back to the cache when the backend is unreachable
				if cache == nil {
					return fmt.Errorf("failed to list conversations: %w", err)
				}
				internal.LogWarn("Backend unreachable (%v), showing cached conversations", err)
				conversations, err = cache.ListConversations()
				if err != nil {
					return fmt.Errorf("failed to read cache: %w", err)
				}
			} else if cache != nil {
				if err := cache.SaveSummaries(conversations); err != nil {
					internal.LogDebug("Failed to cache summaries: %v", err)
				}
			}
		}

		displayConversations(conversations)
		return nil
	},
}

func displayConversations(conversations []internal.Conversation) {
	if len(conversations) == 0 {
		fmt.Println(headerStyle.Render("📋 No conversations found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d conversation(s)", len(conversations)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, conv := range conversations {
		title := conv.Title
		if title == "" {
			title = "Untitled"
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title)

		updated := formatTimestamp(conv.UpdatedAt)

		// Show short ID (first 8 chars) for readability
		shortID := conv.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", id, title, updated)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(conversations[0].ID) +
		idStyle.Render(") with `axon show <id>`"))
}

// formatTimestamp renders an RFC3339 timestamp relative to now
func formatTimestamp(value string) string {
	if value == "" {
		return dateStyle.Render("—")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		if len(value) >= 10 {
			return dateStyle.Render(value[:10])
		}
		return dateStyle.Render(value)
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of conversations to list")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "List from the local cache without contacting the backend")
}
