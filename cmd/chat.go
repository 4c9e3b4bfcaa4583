package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/neurovexon/axon-cli/internal"
	"github.com/spf13/cobra"
)

var (
	chatSystemPrompt string
	chatAgent        string
	chatResume       string
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	riskStyles = map[internal.RiskLevel]lipgloss.Style{
		internal.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		internal.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		internal.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Bold(true),
		internal.RiskCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive streaming chat with the Axon agent.

Replies stream token by token. When the agent wants to run a tool you are
asked to approve it first:
  y - allow this one invocation
  a - allow this tool for the rest of the session
  n - never allow this tool

Commands inside the session:
  /new         start a fresh conversation
  /load <id>   resume a saved conversation
  /exit        leave the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newAPIClient()
		if err != nil {
			return err
		}

		systemPrompt := chatSystemPrompt
		if systemPrompt == "" {
			systemPrompt = cfg.SystemPrompt
		}
		agent := chatAgent
		if agent == "" {
			agent = cfg.DefaultAgent
		}

		ctx := cmd.Context()
		reader := bufio.NewReader(os.Stdin)
		out := cmd.OutOrStdout()

		printer := &assistantPrinter{out: out}

		var engine *internal.Engine
		engine = internal.NewEngine(client,
			internal.WithSystemPrompt(systemPrompt),
			internal.WithAgent(agent),
			internal.WithHooks(internal.Hooks{
				OnAssistantDelta: printer.delta,
				OnToolRequest: func(p internal.PendingApproval) {
					promptApproval(ctx, engine, reader, out, p)
				},
				OnToolUpdate: func(msg internal.Message) {
					printToolUpdate(out, msg)
				},
			}),
		)

		if chatResume != "" {
			if err := engine.LoadConversation(ctx, chatResume); err != nil {
				return fmt.Errorf("failed to load conversation %s: %w", chatResume, err)
			}
			printTranscript(out, engine.Messages())
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Resumed conversation %s", chatResume)))
		}

		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Connected to %s — /exit to quit", client.BaseURL())))

		cache := openCache()
		if cache != nil {
			defer func() { _ = cache.Close() }()
		}

		for {
			fmt.Fprint(out, promptStyle.Render("you> "))
			line, err := reader.ReadString('\n')
			if err != nil {
				// EOF ends the session like /exit
				fmt.Fprintln(out)
				break
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				if done := runChatCommand(ctx, engine, out, line); done {
					break
				}
				continue
			}

			if err := engine.Send(ctx, line); err != nil {
				printer.finishTurn()
				internal.LogError("Turn failed: %v", err)
				continue
			}
			printer.finishTurn()

			if cache != nil {
				if err := cache.SaveTranscript(engine.SessionID(), firstUserLine(engine.Messages()), engine.Messages()); err != nil {
					internal.LogDebug("Failed to cache transcript: %v", err)
				}
			}
		}
		return nil
	},
}

// assistantPrinter writes streamed reply deltas. The axon> label is printed
// on the first delta of a turn, not before Send, so a tool-only turn does
// not leave a dangling label.
type assistantPrinter struct {
	out     io.Writer
	started bool
}

func (p *assistantPrinter) delta(s string) {
	if !p.started {
		fmt.Fprint(p.out, assistantLabelStyle.Render("axon> "))
		p.started = true
	}
	fmt.Fprint(p.out, s)
}

// finishTurn closes the reply line if one was started
func (p *assistantPrinter) finishTurn() {
	if p.started {
		fmt.Fprintln(p.out)
	}
	p.started = false
}

// promptApproval asks for a decision on a pending tool request and resolves
// it on the engine before the stream continues.
func promptApproval(ctx context.Context, engine *internal.Engine, reader *bufio.Reader, out io.Writer, p internal.PendingApproval) {
	risk, ok := riskStyles[p.RiskLevel]
	if !ok {
		risk = riskStyles[internal.RiskMedium]
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, toolStyle.Render(fmt.Sprintf("⚙ Tool request: %s", p.Tool)))
	fmt.Fprintln(out, "  "+p.Description)
	fmt.Fprintln(out, "  Risk: "+risk.Render(string(p.RiskLevel)))
	if len(p.Params) > 0 {
		if params, err := json.Marshal(p.Params); err == nil {
			fmt.Fprintln(out, dimStyle.Render("  Params: "+string(params)))
		}
	}

	for {
		fmt.Fprint(out, promptStyle.Render("Allow? [y]es once / [a]lways this session / [n]ever: "))
		line, err := reader.ReadString('\n')
		if err != nil {
			// Stdin is gone; deny rather than hang the turn.
			engine.Reject(ctx)
			return
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			engine.Approve(ctx, internal.DecideOnce)
			return
		case "a", "always":
			engine.Approve(ctx, internal.DecideSession)
			return
		case "n", "no", "never":
			engine.Reject(ctx)
			return
		}
	}
}

func printToolUpdate(out io.Writer, msg internal.Message) {
	if msg.ToolInfo == nil {
		return
	}
	info := msg.ToolInfo
	switch info.Status {
	case internal.ToolApproved:
		fmt.Fprintln(out, toolStyle.Render(fmt.Sprintf("⚙ %s approved, running...", info.Name)))
	case internal.ToolExecuted:
		suffix := ""
		if info.ExecutionTimeMs > 0 {
			suffix = fmt.Sprintf(" (%dms)", info.ExecutionTimeMs)
		}
		fmt.Fprintln(out, toolStyle.Render(fmt.Sprintf("⚙ %s done%s", info.Name, suffix)))
	case internal.ToolRejected:
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("⚙ %s rejected", info.Name)))
	case internal.ToolFailed:
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("⚙ %s failed: %s", info.Name, info.Error)))
	}
}

// runChatCommand handles a slash command; it returns true when the session
// should end.
func runChatCommand(ctx context.Context, engine *internal.Engine, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		return true
	case "/new":
		engine.Reset()
		fmt.Fprintln(out, dimStyle.Render("Started a new conversation"))
	case "/load":
		if len(fields) < 2 {
			fmt.Fprintln(out, dimStyle.Render("Usage: /load <conversation-id>"))
			return false
		}
		if err := engine.LoadConversation(ctx, fields[1]); err != nil {
			internal.LogError("Failed to load conversation: %v", err)
			return false
		}
		printTranscript(out, engine.Messages())
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Resumed conversation %s", fields[1])))
	default:
		fmt.Fprintln(out, dimStyle.Render("Commands: /new, /load <id>, /exit"))
	}
	return false
}

func printTranscript(out io.Writer, messages []internal.Message) {
	for _, msg := range messages {
		switch msg.Role {
		case internal.RoleUser:
			fmt.Fprintln(out, promptStyle.Render("you> ")+msg.Content)
		case internal.RoleAssistant:
			fmt.Fprintln(out, assistantLabelStyle.Render("axon> ")+msg.Content)
		}
	}
}

// firstUserLine derives a display title from the first user message
func firstUserLine(messages []internal.Message) string {
	for _, msg := range messages {
		if msg.Role != internal.RoleUser {
			continue
		}
		title := msg.Content
		if i := strings.IndexByte(title, '\n'); i >= 0 {
			title = title[:i]
		}
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		return title
	}
	return ""
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSystemPrompt, "system", "", "System prompt for this session (overrides config)")
	chatCmd.Flags().StringVar(&chatAgent, "agent", "", "Agent id to chat with (overrides config)")
	chatCmd.Flags().StringVar(&chatResume, "resume", "", "Resume a saved conversation by id")
}
