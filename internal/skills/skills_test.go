package skills

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// stubClient returns canned responses in order and records prompts.
type stubClient struct {
	responses []string
	err       error
	prompts   []string
	tiers     []llm.ModelTier
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.tiers = append(s.tiers, tier)
	if s.err != nil {
		return "", s.err
	}
	i := len(s.prompts) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubClient) Close() error                  { return nil }

func TestResumeBuilder_FreshBuild(t *testing.T) {
	client := &stubClient{responses: []string{"\\documentclass{article} tailored resume"}}
	rb := NewResumeBuilder(client)

	result, err := rb.Invoke(context.Background(), types.SkillInput{
		Message: "build me a resume",
		Fields: map[string]string{
			slots.FieldJobDescription: "Senior Go engineer at a payments company.",
			slots.FieldUserDetails:    "8 years backend, Go and Postgres.",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, result.Output, result.Resume)
	assert.Contains(t, result.Resume, "tailored resume")
	// The build prompt carries both collected fields and the template.
	assert.Contains(t, client.prompts[0], "payments company")
	assert.Contains(t, client.prompts[0], "8 years backend")
	assert.Contains(t, client.prompts[0], "\\documentclass")
	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
}

func TestResumeBuilder_Refinement(t *testing.T) {
	client := &stubClient{responses: []string{"updated resume text"}}
	rb := NewResumeBuilder(client)

	result, err := rb.Invoke(context.Background(), types.SkillInput{
		Message: "make the summary punchier",
		Fields: map[string]string{
			FieldPreviousResume: "old resume text",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "updated resume text", result.Resume)
	assert.Contains(t, client.prompts[0], "old resume text")
	assert.Contains(t, client.prompts[0], "make the summary punchier")
}

func TestResumeBuilder_EndSessionMarker(t *testing.T) {
	client := &stubClient{responses: []string{"Sure. " + EndSessionMarker}}
	rb := NewResumeBuilder(client)

	result, err := rb.Invoke(context.Background(), types.SkillInput{
		Message: "that's all, thanks",
		Fields:  map[string]string{FieldPreviousResume: "existing resume"},
	})
	require.NoError(t, err)

	assert.Equal(t, EndSessionResponse, result.Output)
	assert.Empty(t, result.Resume, "session end must not overwrite the stored resume")
}

func TestResumeBuilder_TransportErrorPropagates(t *testing.T) {
	client := &stubClient{err: &llm.CallError{Kind: llm.KindRateLimited, Message: "429"}}
	rb := NewResumeBuilder(client)

	_, err := rb.Invoke(context.Background(), types.SkillInput{Message: "build"})
	require.Error(t, err)
	assert.True(t, llm.IsRateLimited(err))
}

func TestQnA(t *testing.T) {
	client := &stubClient{responses: []string{"A cover letter introduces you."}}
	q := NewQnA(client)

	result, err := q.Invoke(context.Background(), types.SkillInput{Message: "what is a cover letter?"})
	require.NoError(t, err)

	assert.Equal(t, "A cover letter introduces you.", result.Output)
	assert.Contains(t, client.prompts[0], "what is a cover letter?")
}

func TestJobSearch_DefaultsAndFinalAnswer(t *testing.T) {
	client := &stubClient{responses: []string{"Final Answer: three matching roles"}}
	js := NewJobSearch(client, nil)

	result, err := js.Invoke(context.Background(), types.SkillInput{
		Message: "find me jobs",
		Fields: map[string]string{
			slots.FieldJobTitle: "Data Engineer",
			slots.FieldLocation: "Remote",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "three matching roles", result.Output)
	assert.Contains(t, client.prompts[0], "Data Engineer")
	assert.Contains(t, client.prompts[0], DefaultJobType)
}

func TestTutorials_UsesAdvancedTier(t *testing.T) {
	client := &stubClient{responses: []string{"Final Answer: # Table of Contents\n..."}}
	tut := NewTutorials(client, nil)

	result, err := tut.Invoke(context.Background(), types.SkillInput{Message: "teach me Docker"})
	require.NoError(t, err)

	assert.Contains(t, result.Output, "Table of Contents")
	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
	assert.Contains(t, client.prompts[0], "teach me Docker")
}

func TestMockInterview_HistoryAndCleaning(t *testing.T) {
	client := &stubClient{responses: []string{
		"Interviewer: Good answer. Tell me about a hard bug.\nCandidate: Well, once I...",
	}}
	mock := NewMockInterview(client)

	result, err := mock.Invoke(context.Background(), types.SkillInput{
		Message: "I used goroutines with a worker pool.",
		Fields:  map[string]string{slots.FieldJobTitle: "Go Developer"},
		History: []types.Message{
			{Role: types.RoleAssistant, Content: "How would you scale a queue consumer?"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Good answer. Tell me about a hard bug.", result.Output)
	assert.Contains(t, client.prompts[0], "Interviewer: How would you scale a queue consumer?")
	assert.Contains(t, client.prompts[0], "Candidate: I used goroutines with a worker pool.")
	assert.Contains(t, client.prompts[0], DefaultUserName)
}

func TestInterviewEvaluate(t *testing.T) {
	client := &stubClient{responses: []string{"## Evaluation Report"}}
	eval := NewInterviewEvaluate(client)

	result, err := eval.Invoke(context.Background(), types.SkillInput{
		Fields: map[string]string{
			slots.FieldJobTitle: "SRE",
			FieldUserName:       "Dana",
		},
		History: []types.Message{
			{Role: types.RoleAssistant, Content: "Describe an incident you led."},
			{Role: types.RoleUser, Content: "A cascading cache failure."},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, result.Output, "Evaluation Report")
	assert.Contains(t, client.prompts[0], "Dana")
	assert.Contains(t, client.prompts[0], "Candidate: A cascading cache failure.")
	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
}

func TestFormatInterviewHistory_Empty(t *testing.T) {
	assert.Equal(t, "(the interview has not started yet)", FormatInterviewHistory(nil, ""))
}

func TestCleanInterviewerResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"clean response untouched", "What draws you to this role?", "What draws you to this role?"},
		{"leading label stripped", "Interviewer: What draws you to this role?", "What draws you to this role?"},
		{"predicted candidate reply cut", "Next question.\nCandidate: I would say...", "Next question."},
		{"whitespace trimmed", "  hello  ", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanInterviewerResponse(tt.raw))
		})
	}
}
