package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or update backend settings",
	Long:  `View the backend settings, or update them with 'settings set'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsShowCmd.RunE(cmd, args)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show backend settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		settings, err := client.GetSettings(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch settings: %w", err)
		}

		fmt.Printf("App:          %s %s\n", settings.AppName, settings.AppVersion)
		fmt.Printf("LLM provider: %s\n", settings.LLMProvider)
		fmt.Printf("Theme:        %s\n", settings.Theme)
		if settings.SystemPrompt != "" {
			fmt.Printf("System prompt:\n  %s\n", settings.SystemPrompt)
		}
		if len(settings.AvailableProviders) > 0 {
			fmt.Printf("Providers:    %s\n", strings.Join(settings.AvailableProviders, ", "))
		}
		return nil
	},
}

// settingsSetCmd applies key=value updates
var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value> [key=value...]",
	Short: "Update backend settings",
	Long: `Apply one or more settings updates, for example:

  axon settings set llm_provider=openai theme=dark`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates := make(map[string]string, len(args))
		for _, arg := range args {
			key, value, found := strings.Cut(arg, "=")
			if !found || key == "" {
				return fmt.Errorf("invalid setting %q, expected key=value", arg)
			}
			updates[key] = value
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.UpdateSettings(cmd.Context(), updates); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		fmt.Printf("Updated %d setting(s)\n", len(updates))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
