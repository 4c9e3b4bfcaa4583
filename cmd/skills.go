package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// skillsCmd groups the skills subcommands
var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage agent skills",
	Long:  `List, approve, enable, and remove the skills installed on the backend.`,
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		skills, err := client.ListSkills(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list skills: %w", err)
		}
		if len(skills) == 0 {
			fmt.Println(headerStyle.Render("🛠  No skills installed"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("🛠  %d skill(s)", len(skills))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Version")+"\t"+titleStyle.Render("Risk")+"\t"+titleStyle.Render("Approved")+"\t"+titleStyle.Render("Enabled")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))
		for _, skill := range skills {
			name := skill.DisplayName
			if name == "" {
				name = skill.Name
			}
			approved := "no"
			if skill.Approved {
				approved = "yes"
			}
			enabled := "no"
			if skill.Enabled {
				enabled = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(name),
				dateStyle.Render(skill.Version),
				skill.RiskLevel, approved, enabled)
		}
		_ = w.Flush()
		return nil
	},
}

var skillsApproveCmd = &cobra.Command{
	Use:   "approve <skill-id>",
	Short: "Approve a skill for use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ApproveSkill(cmd.Context(), args[0], true); err != nil {
			return fmt.Errorf("failed to approve skill %s: %w", args[0], err)
		}
		fmt.Printf("Approved skill %s\n", args[0])
		return nil
	},
}

var skillsRevokeCmd = &cobra.Command{
	Use:   "revoke <skill-id>",
	Short: "Revoke a skill's approval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ApproveSkill(cmd.Context(), args[0], false); err != nil {
			return fmt.Errorf("failed to revoke skill %s: %w", args[0], err)
		}
		fmt.Printf("Revoked skill %s\n", args[0])
		return nil
	},
}

var skillsEnableCmd = &cobra.Command{
	Use:   "enable <skill-id>",
	Short: "Enable a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ToggleSkill(cmd.Context(), args[0], true); err != nil {
			return fmt.Errorf("failed to enable skill %s: %w", args[0], err)
		}
		fmt.Printf("Enabled skill %s\n", args[0])
		return nil
	},
}

var skillsDisableCmd = &cobra.Command{
	Use:   "disable <skill-id>",
	Short: "Disable a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ToggleSkill(cmd.Context(), args[0], false); err != nil {
			return fmt.Errorf("failed to disable skill %s: %w", args[0], err)
		}
		fmt.Printf("Disabled skill %s\n", args[0])
		return nil
	},
}

var skillsDeleteCmd = &cobra.Command{
	Use:     "delete <skill-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a skill",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.DeleteSkill(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete skill %s: %w", args[0], err)
		}
		fmt.Printf("Deleted skill %s\n", args[0])
		return nil
	},
}

var skillsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the backend skills directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newAPIClient()
		if err != nil {
			return err
		}
		found, err := client.ScanSkills(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to scan skills: %w", err)
		}
		fmt.Printf("Scan complete: %d skill(s) found\n", found)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsApproveCmd)
	skillsCmd.AddCommand(skillsRevokeCmd)
	skillsCmd.AddCommand(skillsEnableCmd)
	skillsCmd.AddCommand(skillsDisableCmd)
	skillsCmd.AddCommand(skillsDeleteCmd)
	skillsCmd.AddCommand(skillsScanCmd)
}
