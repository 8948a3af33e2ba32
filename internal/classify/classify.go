// Package classify maps a user message to an intent category with a
// single completion call on the cheapest model tier.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/types"
)

// recentTurns bounds how much conversation history the routing prompt
// sees. More than a few turns adds tokens without improving accuracy.
const recentTurns = 3

// Classifier routes messages to categories via the routing prompt.
type Classifier struct {
	llmClient llm.Client
}

// NewClassifier creates a classifier backed by the given LLM client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llmClient: client}
}

// Classify maps (message, recent history, profile) to a Category.
//
// The model's reply must equal one of the category labels exactly after
// trimming and uppercasing; any other reply, and any transport failure,
// yields UNCLEAR. Classification never returns an error: a wrong route
// degrades to a clarifying answer downstream, which beats failing the
// whole turn.
func (c *Classifier) Classify(ctx context.Context, message string, history []types.Message, profile map[string]string) types.Category {
	template, err := prompts.Get("routing.json", "classify-intent")
	if err != nil {
		fmt.Printf("   ⚠ routing prompt unavailable: %v\n", err)
		return types.CategoryUnclear
	}

	prompt := prompts.Format(template, map[string]string{
		"UserMessage":        message,
		"UserProfile":        formatProfile(profile),
		"RecentConversation": formatHistory(history),
	})

	raw, err := c.llmClient.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		fmt.Printf("   ⚠ intent classification failed: %v\n", err)
		return types.CategoryUnclear
	}

	// Some models wrap even one-word answers in code fences.
	category, ok := types.ParseCategory(llm.CleanJSONBlock(raw))
	if !ok {
		fmt.Printf("   ⚠ unrecognized classifier output: %q\n", strings.TrimSpace(raw))
		return types.CategoryUnclear
	}
	return category
}

// formatProfile renders the profile fields the routing prompt cares
// about. An empty profile renders as an explicit placeholder so the
// model does not invent one.
func formatProfile(profile map[string]string) string {
	if len(profile) == 0 {
		return "(no profile on record)"
	}
	var b strings.Builder
	for _, field := range []string{"name", "job_title", "experience", "skills"} {
		if v := profile[field]; v != "" {
			fmt.Fprintf(&b, "%s: %s\n", field, v)
		}
	}
	if b.Len() == 0 {
		return "(no profile on record)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory renders the most recent turns as role-tagged lines.
func formatHistory(history []types.Message) string {
	if len(history) == 0 {
		return "(no prior conversation)"
	}
	start := len(history) - recentTurns
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, m := range history[start:] {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}
