package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// EndSessionMarker is emitted by the model when the user asks to wrap
// up a resume session. Output containing it never overwrites the
// stored resume.
const EndSessionMarker = "END_SESSION"

// EndSessionResponse is the fixed confirmation shown when a resume
// session ends.
const EndSessionResponse = "Great, I've saved your resume. Feel free to come back any time to refine it or target a new role. Good luck!"

// ResumeBuilder generates a tailored resume from a job description and
// the user's background, then supports conversational refinement of it.
type ResumeBuilder struct {
	llmClient llm.Client
}

// NewResumeBuilder creates the resume skill.
func NewResumeBuilder(client llm.Client) *ResumeBuilder {
	return &ResumeBuilder{llmClient: client}
}

// Invoke builds a fresh resume when no previous one is supplied, and
// refines the previous one otherwise.
func (r *ResumeBuilder) Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error) {
	previous := input.Field(FieldPreviousResume)

	var prompt string
	if previous == "" {
		fmt.Printf("   📄 building a new resume\n")
		template, err := prompts.Get("resume.json", "build-resume")
		if err != nil {
			return nil, err
		}
		prompt = prompts.Format(template, map[string]string{
			"JobDescription": input.Field(slots.FieldJobDescription),
			"UserDetails":    input.Field(slots.FieldUserDetails),
			"UserRequest":    input.Message,
			"PreviousResume": "",
			"Template":       prompts.MustGet("resume.json", "latex-template"),
		})
	} else {
		fmt.Printf("   📄 refining the existing resume\n")
		template, err := prompts.Get("resume.json", "refine-resume")
		if err != nil {
			return nil, err
		}
		prompt = prompts.Format(template, map[string]string{
			"PreviousResume": previous,
			"UserRequest":    orDefault(input.Field(FieldUserRequest), input.Message),
			"JobDescription": input.Field(slots.FieldJobDescription),
		})
	}

	raw, err := r.llmClient.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	if strings.Contains(raw, EndSessionMarker) {
		return &types.SkillResult{Output: EndSessionResponse}, nil
	}

	resume := strings.TrimSpace(raw)
	return &types.SkillResult{Output: resume, Resume: resume}, nil
}
