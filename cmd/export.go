package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neurovexon/axon-cli/internal"
	"github.com/neurovexon/axon-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportCached bool
	exportAll    bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [conversation-id]",
	Short: "Export conversations to file",
	Long: `Export conversations to various formats (jsonl, md, yaml, json).

Export one conversation by id, or everything with --all.
Use 'axon list' to see available conversation IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !exportAll {
			return fmt.Errorf("specify a conversation id or --all")
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		cache := openCache()
		if cache != nil {
			defer func() { _ = cache.Close() }()
		}

		var details []*internal.ConversationDetail
		if len(args) == 1 {
			detail, err := fetchConversation(cmd, cache, args[0], exportCached)
			if err != nil {
				return err
			}
			details = append(details, detail)
		} else {
			summaries, err := listAllConversations(cmd, cache)
			if err != nil {
				return err
			}
			for _, conv := range summaries {
				detail, err := fetchConversation(cmd, cache, conv.ID, exportCached)
				if err != nil {
					internal.LogWarn("Skipping conversation %s: %v", conv.ID, err)
					continue
				}
				details = append(details, detail)
			}
		}

		// Ensure output directory exists
		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, detail := range details {
			filename := fmt.Sprintf("conversation_%s.%s", detail.ID, exporter.Extension())
			path := filepath.Join(exportOut, filename)

			file, err := os.Create(path)
			if err != nil {
				internal.LogError("Failed to create file %s: %v", path, err)
				continue
			}
			if err := exporter.Export(detail, file); err != nil {
				_ = file.Close()
				internal.LogError("Failed to export conversation %s: %v", detail.ID, err)
				continue
			}
			if err := file.Close(); err != nil {
				internal.LogWarn("Failed to close file %s: %v", path, err)
			}
			exported++
		}

		fmt.Printf("Export complete: %d conversation(s) exported to %s\n", exported, exportOut)
		return nil
	},
}

// listAllConversations fetches summaries from the backend, or the cache when
// unreachable or --cached is set.
func listAllConversations(cmd *cobra.Command, cache *internal.Cache) ([]internal.Conversation, error) {
	if exportCached {
		if cache == nil {
			return nil, fmt.Errorf("cache unavailable")
		}
		return cache.ListConversations()
	}
	client, _, err := newAPIClient()
	if err != nil {
		return nil, err
	}
	conversations, err := client.ListConversations(cmd.Context(), 0)
	if err != nil {
		if cache != nil {
			internal.LogWarn("Backend unreachable (%v), exporting cached conversations", err)
			return cache.ListConversations()
		}
		return nil, err
	}
	return conversations, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every conversation")
	exportCmd.Flags().BoolVar(&exportCached, "cached", false, "Export from the local cache without contacting the backend")
}
