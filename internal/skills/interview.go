package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/react"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// InterviewPrep researches a role and produces a preparation guide via
// a reasoning-action loop with the search tool.
type InterviewPrep struct {
	llmClient llm.Client
	tools     []react.Tool
}

// NewInterviewPrep creates the prep-guide skill.
func NewInterviewPrep(client llm.Client, tools []react.Tool) *InterviewPrep {
	return &InterviewPrep{llmClient: client, tools: tools}
}

func (p *InterviewPrep) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("interview.json", "react-prep-guide")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"JobTitle":       input.Field(slots.FieldJobTitle),
		"UserExperience": orDefault(input.Field(FieldUserExperience), "(not provided)"),
	})

	result, err := react.NewLoop(p.llmClient, p.tools).Run(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: result.Output}, nil
}

// MockInterview plays the interviewer for one turn of a mock interview.
// The whole conversation so far rides in the prompt; the model answers
// as the interviewer only.
type MockInterview struct {
	llmClient llm.Client
}

// NewMockInterview creates the mock-interview skill.
func NewMockInterview(client llm.Client) *MockInterview {
	return &MockInterview{llmClient: client}
}

func (m *MockInterview) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("interview.json", "mock-interview")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"UserName":       orDefault(input.Field(FieldUserName), DefaultUserName),
		"JobTitle":       input.Field(slots.FieldJobTitle),
		"UserExperience": orDefault(input.Field(FieldUserExperience), "(not provided)"),
		"History":        FormatInterviewHistory(input.History, input.Message),
	})

	raw, err := m.llmClient.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: CleanInterviewerResponse(raw)}, nil
}

// InterviewEvaluate scores a finished mock interview and writes a
// feedback report.
type InterviewEvaluate struct {
	llmClient llm.Client
}

// NewInterviewEvaluate creates the evaluation skill.
func NewInterviewEvaluate(client llm.Client) *InterviewEvaluate {
	return &InterviewEvaluate{llmClient: client}
}

func (e *InterviewEvaluate) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("interview.json", "evaluate-interview")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"UserName":       orDefault(input.Field(FieldUserName), DefaultUserName),
		"JobTitle":       input.Field(slots.FieldJobTitle),
		"UserExperience": orDefault(input.Field(FieldUserExperience), "(not provided)"),
		"History":        FormatInterviewHistory(input.History, ""),
	})

	raw, err := e.llmClient.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: raw}, nil
}

// FormatInterviewHistory renders the conversation as Candidate and
// Interviewer lines, appending the latest unanswered candidate message
// when one is given.
func FormatInterviewHistory(history []types.Message, latest string) string {
	var b strings.Builder
	for _, m := range history {
		switch m.Role {
		case types.RoleUser:
			fmt.Fprintf(&b, "Candidate: %s\n", m.Content)
		case types.RoleAssistant:
			fmt.Fprintf(&b, "Interviewer: %s\n", m.Content)
		}
	}
	if latest != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", latest)
	}
	if b.Len() == 0 {
		return "(the interview has not started yet)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// CleanInterviewerResponse strips artifacts the model sometimes leaks
// into mock-interview turns: a leading speaker label and any predicted
// candidate reply after its own question.
func CleanInterviewerResponse(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "\nCandidate:"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimPrefix(text, "Interviewer:")

	return strings.TrimSpace(text)
}
