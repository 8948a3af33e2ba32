package skills

import (
	"context"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/react"
	"github.com/jonathan/career-assistant/internal/types"
)

// Tutorials writes a beginner-focused, project-based tutorial on the
// requested topic, researching existing material with the search tool.
type Tutorials struct {
	llmClient llm.Client
	tools     []react.Tool
}

// NewTutorials creates the tutorial skill.
func NewTutorials(client llm.Client, tools []react.Tool) *Tutorials {
	return &Tutorials{llmClient: client, tools: tools}
}

// Invoke runs the research episode and returns the finished tutorial.
func (t *Tutorials) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("tutorials.json", "react-tutorial")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Question":    input.Message,
		"UserContext": orDefault(input.Field(FieldUserContext), "(none provided)"),
	})

	// Tutorials are long-form; give the loop the bigger model.
	result, err := react.NewLoop(t.llmClient, t.tools).Run(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: result.Output}, nil
}
