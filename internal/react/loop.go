package react

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
)

// Tool is an action the model may take during a loop. Run failures are
// fed back to the model as observations, not surfaced to the caller.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, input string) (string, error)
}

const (
	defaultMaxSteps = 8
	defaultBudget   = 2 * time.Minute
)

// Loop drives a reasoning-action episode against an LLM and a tool set.
type Loop struct {
	llmClient llm.Client
	tools     []Tool
	maxSteps  int
	budget    time.Duration
}

// Result is the outcome of a completed episode. Degraded marks output
// that did not come from a clean final-answer marker: the caller gets
// the best text available plus a note, never an empty string.
type Result struct {
	Output   string
	Degraded bool
	Steps    int
}

// NewLoop creates a loop with the default step and wall-clock budgets.
func NewLoop(client llm.Client, tools []Tool) *Loop {
	return &Loop{
		llmClient: client,
		tools:     tools,
		maxSteps:  defaultMaxSteps,
		budget:    defaultBudget,
	}
}

// WithLimits overrides the step and wall-clock budgets. Zero values
// keep the current setting.
func (l *Loop) WithLimits(maxSteps int, budget time.Duration) *Loop {
	if maxSteps > 0 {
		l.maxSteps = maxSteps
	}
	if budget > 0 {
		l.budget = budget
	}
	return l
}

// Run executes the episode. The template must carry {{.Tools}},
// {{.ToolNames}} and {{.Scratchpad}} placeholders; domain placeholders
// are expected to be formatted in by the caller beforehand.
//
// Errors are returned only for transport failures from the LLM client;
// budget exhaustion and unparseable completions produce a degraded
// Result instead.
func (l *Loop) Run(ctx context.Context, template string, tier llm.ModelTier) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, l.budget)
	defer cancel()

	var scratchpad strings.Builder
	var lastRaw string

	for step := 1; step <= l.maxSteps; step++ {
		prompt := prompts.Format(template, map[string]string{
			"Tools":      l.describeTools(),
			"ToolNames":  l.toolNames(),
			"Scratchpad": scratchpad.String(),
		})

		raw, err := l.llmClient.GenerateContent(ctx, prompt, tier)
		if err != nil {
			if ctx.Err() != nil && lastRaw != "" {
				return degraded(lastRaw, step, "time budget exhausted"), nil
			}
			return nil, err
		}
		lastRaw = raw

		parsed := ParseStep(raw)
		switch {
		case parsed.Done:
			fmt.Printf("   ✓ final answer after %d step(s)\n", step)
			return &Result{Output: parsed.FinalText, Steps: step}, nil
		case parsed.Action != "":
			observation := l.runTool(ctx, parsed.Action, parsed.ActionInput)
			fmt.Printf("   → step %d: %s(%q)\n", step, parsed.Action, truncate(parsed.ActionInput, 60))
			scratchpad.WriteString(raw)
			scratchpad.WriteString("\nObservation: ")
			scratchpad.WriteString(observation)
			scratchpad.WriteString("\n")
		default:
			// No marker at all: return the whole transcript rather
			// than nothing, flagged so callers can detect it.
			return degraded(raw, step, "no final-answer marker in completion"), nil
		}
	}

	return degraded(lastRaw, l.maxSteps, "step budget exhausted"), nil
}

func degraded(raw string, steps int, reason string) *Result {
	return &Result{
		Output:   fmt.Sprintf("[incomplete: %s]\n\n%s", reason, strings.TrimSpace(raw)),
		Degraded: true,
		Steps:    steps,
	}
}

func (l *Loop) runTool(ctx context.Context, name, input string) string {
	for _, tool := range l.tools {
		if strings.EqualFold(tool.Name(), name) {
			out, err := tool.Run(ctx, input)
			if err != nil {
				return fmt.Sprintf("tool %s failed: %v", name, err)
			}
			return out
		}
	}
	return fmt.Sprintf("unknown tool %q; available tools: [%s]", name, l.toolNames())
}

func (l *Loop) describeTools() string {
	var b strings.Builder
	for _, tool := range l.tools {
		fmt.Fprintf(&b, "%s: %s\n", tool.Name(), tool.Description())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *Loop) toolNames() string {
	names := make([]string, len(l.tools))
	for i, tool := range l.tools {
		names[i] = tool.Name()
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
