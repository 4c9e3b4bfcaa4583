package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation",
	Long:  `Delete a conversation from the backend and the local cache.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		if !deleteYes {
			fmt.Printf("Delete conversation %s? [y/N]: ", id)
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.DeleteConversation(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete conversation %s: %w", id, err)
		}

		if cache := openCache(); cache != nil {
			defer func() { _ = cache.Close() }()
			if err := cache.DeleteConversation(id); err != nil {
				internal.LogWarn("Failed to remove cached copy: %v", err)
			}
		}

		fmt.Printf("Deleted conversation %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
