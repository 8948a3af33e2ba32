package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/session"
	"github.com/jonathan/career-assistant/internal/skills"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// fixedClassifier always routes to one category and counts calls.
type fixedClassifier struct {
	category types.Category
	calls    int
}

func (f *fixedClassifier) Classify(context.Context, string, []types.Message, map[string]string) types.Category {
	f.calls++
	return f.category
}

// recordingHandler returns a canned result and records every input.
type recordingHandler struct {
	result *types.SkillResult
	err    error
	inputs []types.SkillInput
}

func (r *recordingHandler) Invoke(_ context.Context, input types.SkillInput) (*types.SkillResult, error) {
	r.inputs = append(r.inputs, input)
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func newOrchestrator(classifier IntentClassifier, handlers map[types.Category]skills.Handler) (*Orchestrator, *session.Store) {
	store := session.NewStore()
	return New(classifier, handlers, store), store
}

const longJobDescription = "I need a resume for this job: We are looking for a senior backend engineer with deep Go experience, strong PostgreSQL skills, a track record of designing distributed systems, and the ability to mentor junior engineers across multiple product teams."

func TestProcess_ScenarioA_FirstCallAsksForUserDetails(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "resume", Resume: "resume"}}
	o, store := newOrchestrator(
		&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler},
	)

	result := o.Process(context.Background(), longJobDescription, "", nil)

	assert.Equal(t, types.CategoryResumeBuilder, result.Category)
	assert.Equal(t, slots.Question(slots.FieldUserDetails), result.Output)
	assert.Empty(t, handler.inputs, "skill must not run before collection completes")

	pending := store.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, types.CategoryResumeBuilder, pending.Category)
	assert.Equal(t, []string{slots.FieldUserDetails}, pending.Missing)
	assert.Contains(t, pending.Collected[slots.FieldJobDescription], "senior backend engineer")
}

func TestProcess_ScenarioB_FollowUpCompletesCollection(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "your resume", Resume: "LATEX RESUME"}}
	o, store := newOrchestrator(
		&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler},
	)

	o.Process(context.Background(), longJobDescription, "", nil)
	result := o.Process(context.Background(), "5 years Python, led 3 projects", "", nil)

	assert.Equal(t, "your resume", result.Output)
	require.Len(t, handler.inputs, 1)
	input := handler.inputs[0]
	assert.Contains(t, input.Field(slots.FieldJobDescription), "senior backend engineer")
	assert.Equal(t, "5 years Python, led 3 projects", input.Field(slots.FieldUserDetails))

	assert.Equal(t, "LATEX RESUME", store.ProfileField(session.ProfileResumeContent))
	assert.Nil(t, store.Pending())
}

func TestProcess_ScenarioC_MockInterviewCollection(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "Tell me about yourself."}}
	classifier := &fixedClassifier{category: types.CategoryInterviewMock}
	o, _ := newOrchestrator(classifier,
		map[types.Category]skills.Handler{types.CategoryInterviewMock: handler})

	first := o.Process(context.Background(), "start a mock interview", "", nil)
	assert.Equal(t, types.CategoryInterviewMock, first.Category)
	assert.Equal(t, slots.Question(slots.FieldJobTitle), first.Output)

	second := o.Process(context.Background(), "Backend Engineer", "", nil)
	assert.Equal(t, "Tell me about yourself.", second.Output)
	require.Len(t, handler.inputs, 1)
	assert.Equal(t, "Backend Engineer", handler.inputs[0].Field(slots.FieldJobTitle))
}

func TestProcess_SingleFlightPendingConsumesMessage(t *testing.T) {
	// Classifier would route everything to JOB_SEARCH, but the active
	// resume collection must consume the message first.
	handler := &recordingHandler{result: &types.SkillResult{Output: "resume", Resume: "r"}}
	jobHandler := &recordingHandler{result: &types.SkillResult{Output: "jobs"}}
	classifier := &fixedClassifier{category: types.CategoryJobSearch}
	o, store := newOrchestrator(classifier, map[types.Category]skills.Handler{
		types.CategoryResumeBuilder: handler,
		types.CategoryJobSearch:     jobHandler,
	})

	store.SetPending(&session.PendingSlotFill{
		Category:  types.CategoryResumeBuilder,
		Missing:   []string{slots.FieldUserDetails},
		Collected: map[string]string{slots.FieldJobDescription: "a JD"},
	})

	result := o.Process(context.Background(), "find me jobs in Berlin", "", nil)

	assert.Equal(t, types.CategoryResumeBuilder, result.Category)
	assert.Empty(t, jobHandler.inputs, "pending collection must not be preempted")
	require.Len(t, handler.inputs, 1)
	assert.Equal(t, "find me jobs in Berlin", handler.inputs[0].Field(slots.FieldUserDetails))
	assert.Equal(t, 0, classifier.calls, "no classification while a collection is pending")
}

func TestProcess_PendingAsksNextQuestionInOrder(t *testing.T) {
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryJobSearch}, nil)

	store.SetPending(&session.PendingSlotFill{
		Category:  types.CategoryJobSearch,
		Missing:   []string{slots.FieldJobTitle, slots.FieldLocation},
		Collected: map[string]string{},
	})

	result := o.Process(context.Background(), "Platform Engineer", "", nil)

	assert.Equal(t, slots.Question(slots.FieldLocation), result.Output)
	pending := store.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, []string{slots.FieldLocation}, pending.Missing)
	assert.Equal(t, "Platform Engineer", pending.Collected[slots.FieldJobTitle])
}

func TestProcess_BlankReplyDuringCollectionReasks(t *testing.T) {
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryJobSearch}, nil)

	store.SetPending(&session.PendingSlotFill{
		Category:  types.CategoryJobSearch,
		Missing:   []string{slots.FieldJobTitle, slots.FieldLocation},
		Collected: map[string]string{},
	})

	result := o.Process(context.Background(), "   \t  ", "", nil)

	assert.Equal(t, slots.Question(slots.FieldJobTitle), result.Output)
	pending := store.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, []string{slots.FieldJobTitle, slots.FieldLocation}, pending.Missing,
		"blank reply must not consume a slot")
	assert.NotContains(t, pending.Collected, slots.FieldJobTitle)
}

func TestProcess_DeterministicQuestionOrder(t *testing.T) {
	// JOB_SEARCH with nothing provided asks for job_title first.
	o, _ := newOrchestrator(&fixedClassifier{category: types.CategoryJobSearch}, nil)

	result := o.Process(context.Background(), "I want a new job", "", nil)
	assert.Equal(t, slots.Question(slots.FieldJobTitle), result.Output)
}

func TestProcess_ShortMessageNotTreatedAsJobDescription(t *testing.T) {
	// Long enough to clear 100 characters but without any posting
	// vocabulary; it must not be mistaken for a pasted job description.
	message := strings.Repeat("please make my resume really shine today ", 6)
	o, _ := newOrchestrator(&fixedClassifier{category: types.CategoryResumeBuilder}, nil)

	result := o.Process(context.Background(), message, "", nil)

	assert.Equal(t, slots.Question(slots.FieldJobDescription), result.Output)
}

func TestLooksLikeJobDescription(t *testing.T) {
	filler := strings.Repeat("x", messageAsJobDescriptionChars+1)

	assert.True(t, looksLikeJobDescription(filler+" Requirements: Go"))
	assert.True(t, looksLikeJobDescription(filler+" we are looking for an engineer"))
	assert.False(t, looksLikeJobDescription(filler), "length alone is not enough")
	assert.False(t, looksLikeJobDescription("short posting with requirements"),
		"keywords alone are not enough")
}

func TestProcess_ResumeRefinementSkipsCollection(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "shorter resume", Resume: "shorter resume"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler})

	store.UpdateProfile(session.ProfileResumeContent, "existing resume")

	result := o.Process(context.Background(), "make it shorter", "", nil)

	assert.Equal(t, "shorter resume", result.Output)
	require.Len(t, handler.inputs, 1)
	assert.Equal(t, "existing resume", handler.inputs[0].Field(skills.FieldPreviousResume))
	assert.Nil(t, store.Pending())
}

func TestProcess_EndResumeSessionShortCircuit(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "should not run"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler})

	store.UpdateProfile(session.ProfileResumeContent, "existing resume")
	store.SetPending(&session.PendingSlotFill{
		Category:  types.CategoryResumeBuilder,
		Missing:   []string{slots.FieldUserDetails},
		Collected: map[string]string{},
	})

	result := o.Process(context.Background(), "End Resume SESSION", "", nil)

	assert.Equal(t, skills.EndSessionResponse, result.Output)
	assert.Equal(t, types.CategoryResumeBuilder, result.Category)
	assert.Empty(t, handler.inputs)
	assert.Nil(t, store.Pending())
	// The resume itself survives the session end.
	assert.Equal(t, "existing resume", store.ProfileField(session.ProfileResumeContent))
}

func TestProcess_EndCommandWithoutResumeIsOrdinaryMessage(t *testing.T) {
	classifier := &fixedClassifier{category: types.CategoryGeneralQnA}
	handler := &recordingHandler{result: &types.SkillResult{Output: "answered"}}
	o, _ := newOrchestrator(classifier,
		map[types.Category]skills.Handler{types.CategoryGeneralQnA: handler})

	result := o.Process(context.Background(), "end resume session", "", nil)

	assert.Equal(t, "answered", result.Output)
	assert.Equal(t, 1, classifier.calls)
}

func TestProcess_HandlerFailureNeverPropagates(t *testing.T) {
	handler := &recordingHandler{err: errors.New("boom")}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryTutorials},
		map[types.Category]skills.Handler{types.CategoryTutorials: handler})

	result := o.Process(context.Background(), "teach me Kafka", "", nil)

	assert.Equal(t, types.CategoryTutorials, result.Category)
	assert.NotEmpty(t, result.Output)
	assert.Contains(t, strings.ToLower(result.Output), "tutorials")

	// The substitute stands in for the skill output, so it shows up in
	// both the conversation history and the per-category response log.
	logged := store.Responses(types.CategoryTutorials)
	require.Len(t, logged, 1)
	assert.Equal(t, result.Output, logged[0].Response)
	history := store.History()
	require.Len(t, history, 2)
	assert.Equal(t, result.Output, history[1].Content)
}

func TestProcess_RateLimitFailureGuidance(t *testing.T) {
	handler := &recordingHandler{err: &llm.CallError{Kind: llm.KindRateLimited, Message: "quota"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler})

	o.Process(context.Background(), longJobDescription, "", nil)
	result := o.Process(context.Background(), "10 years of Go", "", nil)

	assert.Contains(t, result.Output, "rate limited")
	assert.Contains(t, result.Output, "saved")
	// The job description memory survives the failure for the retry.
	assert.Contains(t, store.ProfileField(session.ProfileLastJobDescription), "senior backend engineer")
}

func TestProcess_ResumeFailureMentionsRequirements(t *testing.T) {
	handler := &recordingHandler{err: errors.New("model exploded")}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryResumeBuilder},
		map[types.Category]skills.Handler{types.CategoryResumeBuilder: handler})

	store.UpdateProfile(session.ProfileResumeContent, "existing")
	result := o.Process(context.Background(), "tweak the skills section", "", nil)

	assert.Contains(t, result.Output, "job description")
	assert.Equal(t, "existing", store.ProfileField(session.ProfileResumeContent),
		"profile is never cleared on failure")
}

func TestProcess_ProfileFallbackForInterviewPrep(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "guide"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryInterviewPrep},
		map[types.Category]skills.Handler{types.CategoryInterviewPrep: handler})

	store.UpdateProfile(session.ProfileExperience, "6 years of distributed systems")

	o.Process(context.Background(), "prep me", "", map[string]string{slots.FieldJobTitle: "Staff Engineer"})

	require.Len(t, handler.inputs, 1)
	assert.Equal(t, "6 years of distributed systems", handler.inputs[0].Field(skills.FieldUserExperience))
	assert.Equal(t, "Staff Engineer", handler.inputs[0].Field(slots.FieldJobTitle))
}

func TestProcess_ExplicitCategorySkipsClassification(t *testing.T) {
	classifier := &fixedClassifier{category: types.CategoryJobSearch}
	handler := &recordingHandler{result: &types.SkillResult{Output: "answered"}}
	o, _ := newOrchestrator(classifier,
		map[types.Category]skills.Handler{types.CategoryGeneralQnA: handler})

	result := o.Process(context.Background(), "what is a take-home?", types.CategoryGeneralQnA, nil)

	assert.Equal(t, types.CategoryGeneralQnA, result.Category)
	assert.Equal(t, 0, classifier.calls)
}

func TestProcess_UnclearReturnsClarification(t *testing.T) {
	o, _ := newOrchestrator(&fixedClassifier{category: types.CategoryUnclear}, nil)

	result := o.Process(context.Background(), "hmm", "", nil)

	assert.Equal(t, types.CategoryUnclear, result.Category)
	assert.Contains(t, result.Output, "What would you like help with?")
}

func TestProcess_ExtraContextWinsOverProfile(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "guide"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryInterviewPrep},
		map[types.Category]skills.Handler{types.CategoryInterviewPrep: handler})

	store.UpdateProfile(session.ProfileJobTitle, "Old Title")

	o.Process(context.Background(), "prep me", "", map[string]string{slots.FieldJobTitle: "New Title"})

	require.Len(t, handler.inputs, 1)
	assert.Equal(t, "New Title", handler.inputs[0].Field(slots.FieldJobTitle))
}

func TestProcess_HistoryAndResponseLogUpdated(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "an answer"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryGeneralQnA},
		map[types.Category]skills.Handler{types.CategoryGeneralQnA: handler})

	o.Process(context.Background(), "a question", "", nil)

	history := store.History()
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, "a question", history[0].Content)
	assert.Equal(t, "an answer", history[1].Content)

	logged := store.Responses(types.CategoryGeneralQnA)
	require.Len(t, logged, 1)
	assert.Equal(t, "an answer", logged[0].Response)
}

func TestProcess_ClarifyingQuestionNotLoggedAsResponse(t *testing.T) {
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryJobSearch}, nil)

	o.Process(context.Background(), "find jobs", "", nil)

	assert.Empty(t, store.Responses(types.CategoryJobSearch))
	assert.Len(t, store.History(), 2)
}

func TestProcess_HandlerSeesHistoryBeforeCurrentMessage(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "next question"}}
	o, store := newOrchestrator(&fixedClassifier{category: types.CategoryInterviewMock},
		map[types.Category]skills.Handler{types.CategoryInterviewMock: handler})

	store.UpdateProfile(session.ProfileJobTitle, "Go Developer")
	store.AppendAssistant("Tell me about yourself.")

	o.Process(context.Background(), "I build backend systems.", "", nil)

	require.Len(t, handler.inputs, 1)
	history := handler.inputs[0].History
	require.Len(t, history, 1)
	assert.Equal(t, "Tell me about yourself.", history[0].Content)
	assert.Equal(t, "I build backend systems.", handler.inputs[0].Message)
}

func TestProcess_EmptyHandlerOutputSubstituted(t *testing.T) {
	handler := &recordingHandler{result: &types.SkillResult{Output: "   "}}
	o, _ := newOrchestrator(&fixedClassifier{category: types.CategoryGeneralQnA},
		map[types.Category]skills.Handler{types.CategoryGeneralQnA: handler})

	result := o.Process(context.Background(), "a question", "", nil)

	assert.NotEmpty(t, strings.TrimSpace(result.Output))
	assert.Contains(t, result.Output, "couldn't process")
}
