package skills

import (
	"context"
	"fmt"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/react"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// JobSearch finds live job postings for a role and location using the
// search tool inside a reasoning-action loop.
type JobSearch struct {
	llmClient llm.Client
	tools     []react.Tool
}

// NewJobSearch creates the job search skill.
func NewJobSearch(client llm.Client, tools []react.Tool) *JobSearch {
	return &JobSearch{llmClient: client, tools: tools}
}

// Invoke runs the search episode and returns the final analysis.
func (j *JobSearch) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	template, err := prompts.Get("jobsearch.json", "react-job-search")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"JobTitle":    input.Field(slots.FieldJobTitle),
		"Location":    input.Field(slots.FieldLocation),
		"JobType":     orDefault(input.Field(FieldJobType), DefaultJobType),
		"UserContext": orDefault(input.Field(FieldUserContext), "(none provided)"),
	})

	fmt.Printf("   🔎 searching for %s roles in %s\n",
		input.Field(slots.FieldJobTitle), input.Field(slots.FieldLocation))

	result, err := react.NewLoop(j.llmClient, j.tools).Run(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	return &types.SkillResult{Output: result.Output}, nil
}
