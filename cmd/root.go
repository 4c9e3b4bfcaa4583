package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	serverURL  string
	apiToken   string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "axon",
	Short: "Chat with an Axon agent from the terminal",
	Long: `A CLI client for the Axon agent backend.

Axon streams agent replies token by token, pauses for your approval before
running tools, and keeps every conversation on the server so you can pick
any of them back up later.

Features:
  • Interactive streaming chat with tool approval prompts
  • List, view, export, and delete server-side conversations
  • Local cache so history stays browsable offline
  • Manage agent memories and skills
  • Export conversations in multiple formats (JSONL, Markdown, YAML, JSON)

Quick Start:
  axon chat                       # Start a conversation
  axon list                       # List conversations
  axon show <conversation-id>     # View a conversation
  axon export <conversation-id>   # Export as Markdown

Configuration lives in ~/.axon-cli/config.yaml.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API bearer token (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.axon-cli/config.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves the effective configuration: file values overridden by
// persistent flags.
func loadConfig() (*internal.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = internal.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if apiToken != "" {
		cfg.APIToken = apiToken
	}
	return cfg, nil
}

// newAPIClient builds a backend client from the effective configuration
func newAPIClient() (*internal.Client, *internal.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts := []internal.ClientOption{
		internal.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if cfg.APIToken != "" {
		opts = append(opts, internal.WithToken(cfg.APIToken))
	}
	client, err := internal.NewClient(cfg.ServerURL, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// openCache opens the local conversation cache, logging and returning nil on
// failure. Cache trouble never blocks a command.
func openCache() *internal.Cache {
	path, err := internal.DefaultCachePath()
	if err != nil {
		internal.LogWarn("Cache unavailable: %v", err)
		return nil
	}
	cache, err := internal.OpenCache(path)
	if err != nil {
		internal.LogWarn("Cache unavailable: %v", err)
		return nil
	}
	return cache
}
