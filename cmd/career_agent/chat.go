package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/orchestrator"
	"github.com/jonathan/career-assistant/internal/types"
)

var (
	chatConfigPath string
	chatVerbose    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start a terminal chat session with the career assistant.

Messages are routed automatically; use /mode to pin a category (for
example /mode INTERVIEW_MOCK for a mock interview). Type /help for the
full command list.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatConfigPath, "config", "", "Path to config.json file")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print routing and session state after each turn")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(chatConfigPath)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		chatVerbose = true
	}

	factory, cleanup, err := buildOrchestratorFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	orch := factory()
	printer := observability.NewPrinter(os.Stdout)

	fmt.Println("Career assistant ready. Type /help for commands, /quit to exit.")

	mode := types.CategoryUnclear // auto-routing
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, newMode := handleCommand(line, orch, printer, mode)
			mode = newMode
			if done {
				break
			}
			continue
		}

		result := orch.Process(ctx, line, mode, nil)
		if chatVerbose {
			printer.PrintRouting(result.Category)
			printer.PrintPending(orch.Store().Pending())
		}
		fmt.Printf("\n%s\n\n", result.Output)
	}

	return scanner.Err()
}

// handleCommand executes a slash command. It returns whether the REPL
// should exit, plus the (possibly updated) pinned mode.
func handleCommand(line string, orch *orchestrator.Orchestrator, printer *observability.Printer, mode types.Category) (bool, types.Category) {
	parts := strings.Fields(line)
	switch parts[0] {
	case "/quit", "/exit":
		fmt.Println("Goodbye!")
		return true, mode

	case "/help":
		fmt.Println(`Commands:
  /mode [CATEGORY]       Pin routing to a category, or "auto" to resume routing
  /profile               Show the stored profile
  /profile FIELD VALUE   Set a profile field (name, job_title, experience, skills)
  /history               Show the conversation so far
  /clear                 Clear conversation history (profile survives)
  /quit                  Exit`)
		return false, mode

	case "/mode":
		if len(parts) < 2 || strings.EqualFold(parts[1], "auto") {
			fmt.Println("Routing automatically.")
			return false, types.CategoryUnclear
		}
		category, ok := types.ParseCategory(parts[1])
		if !ok {
			fmt.Printf("Unknown category %q. Valid: %v\n", parts[1], types.AllCategories)
			return false, mode
		}
		fmt.Printf("Pinned to %s.\n", category)
		return false, category

	case "/profile":
		if len(parts) >= 3 {
			orch.Store().UpdateProfile(parts[1], strings.Join(parts[2:], " "))
		}
		printer.PrintProfile(orch.Store().ProfileSnapshot())
		return false, mode

	case "/history":
		printer.PrintHistory(orch.Store().History())
		return false, mode

	case "/clear":
		orch.Store().ClearHistory()
		fmt.Println("History cleared.")
		return false, mode

	default:
		fmt.Printf("Unknown command %s. Type /help for commands.\n", parts[0])
		return false, mode
	}
}
