package skills

import (
	"context"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/types"
)

// QnA answers general career questions with a single completion.
type QnA struct {
	llmClient llm.Client
}

// NewQnA creates the general question-answering skill.
func NewQnA(client llm.Client) *QnA {
	return &QnA{llmClient: client}
}

// Invoke answers the user's question directly.
func (q *QnA) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("qna.json", "career-qna")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Question": input.Message,
	})

	raw, err := q.llmClient.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: raw}, nil
}
