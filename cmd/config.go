package cmd

import (
	"fmt"
	"strconv"

	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

// configCmd groups the local configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or update local configuration",
	Long:  `View or update the local configuration file (~/.axon-cli/config.yaml).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("server_url:      %s\n", cfg.ServerURL)
		fmt.Printf("api_token:       %s\n", maskToken(cfg.APIToken))
		fmt.Printf("default_agent:   %s\n", orDash(cfg.DefaultAgent))
		fmt.Printf("system_prompt:   %s\n", orDash(cfg.SystemPrompt))
		fmt.Printf("timeout_seconds: %d\n", cfg.TimeoutSeconds)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set one configuration value and write it back to the config file.

Keys: server_url, api_token, default_agent, system_prompt, timeout_seconds`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		path := configPath
		if path == "" {
			var err error
			path, err = internal.DefaultConfigPath()
			if err != nil {
				return err
			}
		}
		cfg, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}

		switch key {
		case "server_url":
			cfg.ServerURL = value
		case "api_token":
			cfg.APIToken = value
		case "default_agent":
			cfg.DefaultAgent = value
		case "system_prompt":
			cfg.SystemPrompt = value
		case "timeout_seconds":
			seconds, err := strconv.Atoi(value)
			if err != nil || seconds <= 0 {
				return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
			}
			cfg.TimeoutSeconds = seconds
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := cfg.SaveConfig(path); err != nil {
			return err
		}
		fmt.Printf("Set %s in %s\n", key, path)
		return nil
	},
}

func maskToken(token string) string {
	if token == "" {
		return "—"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
