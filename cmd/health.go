package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the Axon backend",
	Long: `Check the health of the Axon setup by verifying:
  • Configuration and server URL
  • Backend reachability
  • LLM provider availability

This command is useful for debugging connection issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Axon Health Check"))
		fmt.Println()

		// Step 1: Resolve configuration
		fmt.Println(infoStyle.Render("Step 1: Loading configuration..."))
		client, cfg, err := newAPIClient()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Configuration error:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Println(successStyle.Render("✅ Configuration loaded"))
		if verbose {
			fmt.Printf("   Server: %s\n", client.BaseURL())
			fmt.Printf("   Token:  %v\n", cfg.APIToken != "")
		}
		fmt.Println()

		// Step 2: Contact the backend
		fmt.Println(infoStyle.Render("Step 2: Contacting backend..."))
		health, err := client.Health(cmd.Context())
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Backend unreachable:"), err)
			return fmt.Errorf("health check failed: backend unreachable")
		}
		fmt.Println(successStyle.Render("✅ Backend responded"))
		fmt.Println()

		// Step 3: Provider availability
		fmt.Println(infoStyle.Render("Step 3: Checking LLM providers..."))
		available := 0
		for name, ok := range health.Providers {
			if ok {
				available++
				fmt.Println(successStyle.Render("✅ " + name))
			} else {
				fmt.Println(warningStyle.Render("⚠️  " + name + " unavailable"))
			}
		}
		if len(health.Providers) == 0 {
			fmt.Println(warningStyle.Render("⚠️  No providers reported"))
		}
		fmt.Println()

		// Summary
		fmt.Println(sectionStyle.Render("📊 Summary"))
		fmt.Println()
		if health.Status == "ok" && available > 0 {
			fmt.Println(successStyle.Render("✅ Health check passed!"))
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Backend: %s", client.BaseURL())))
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Providers: %d available", available)))
			return nil
		}
		if health.Status == "ok" {
			fmt.Println(warningStyle.Render("⚠️  Backend healthy but no providers available"))
			fmt.Println("   • Chat turns will fail until a provider is configured")
			return nil
		}
		fmt.Println(errorStyle.Render("❌ Health check failed"))
		fmt.Printf("   • Backend status: %s\n", health.Status)
		return fmt.Errorf("health check failed: backend status %s", health.Status)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
