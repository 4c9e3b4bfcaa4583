package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	memoryCategory string
	memorySearch   string
	memoryLimit    int
)

// memoryCmd groups the memory subcommands
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage agent memories",
	Long:  `List, add, and remove the persistent memories the agent keeps about you.`,
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		entries, err := client.ListMemories(cmd.Context(), memoryCategory, memorySearch, memoryLimit)
		if err != nil {
			return fmt.Errorf("failed to list memories: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println(headerStyle.Render("🧠 No memories found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("🧠 %d memor(ies)", len(entries))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Key")+"\t"+titleStyle.Render("Category")+"\t"+titleStyle.Render("Content")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, entry := range entries {
			content := entry.Content
			if len(content) > 50 {
				content = content[:47] + "..."
			}
			category := entry.Category
			if category == "" {
				category = "—"
			}
			shortID := entry.ID
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", idStyle.Render(shortID), entry.Key, dateStyle.Render(category), content)
		}
		_ = w.Flush()
		return nil
	},
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <key> <content>",
	Short: "Add a memory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		entry, err := client.CreateMemory(cmd.Context(), args[0], args[1], memoryCategory)
		if err != nil {
			return fmt.Errorf("failed to add memory: %w", err)
		}
		fmt.Printf("Added memory %s (%s)\n", entry.ID, entry.Key)
		return nil
	},
}

var memoryUpdateCmd = &cobra.Command{
	Use:   "update <memory-id> <content>",
	Short: "Update a memory's content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		entry, err := client.UpdateMemory(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to update memory %s: %w", args[0], err)
		}
		fmt.Printf("Updated memory %s\n", entry.ID)
		return nil
	},
}

var memoryDeleteCmd = &cobra.Command{
	Use:     "delete <memory-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a memory",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.DeleteMemory(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete memory %s: %w", args[0], err)
		}
		fmt.Printf("Deleted memory %s\n", args[0])
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all memories",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ClearMemories(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear memories: %w", err)
		}
		fmt.Println("Cleared all memories")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryUpdateCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryClearCmd)

	memoryListCmd.Flags().StringVar(&memoryCategory, "category", "", "Filter by category")
	memoryListCmd.Flags().StringVar(&memorySearch, "search", "", "Filter by search term")
	memoryListCmd.Flags().IntVar(&memoryLimit, "limit", 0, "Maximum number of memories to list")
	memoryAddCmd.Flags().StringVar(&memoryCategory, "category", "", "Category for the new memory")
}
