// Package orchestrator composes the classifier, the slot-filling
// coordinator, and the skill handlers into the single Process entry
// point. One orchestrator owns one session's shared context; Process
// never returns an error, every failure becomes user-facing text.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/career-assistant/internal/session"
	"github.com/jonathan/career-assistant/internal/skills"
	"github.com/jonathan/career-assistant/internal/slots"
	"github.com/jonathan/career-assistant/internal/types"
)

// endSessionCommand short-circuits a resume session when a resume
// already exists; matching is case-insensitive on the trimmed message.
const endSessionCommand = "end resume session"

// IntentClassifier routes a message to a category. Implementations must
// never fail; uncertainty is expressed as CategoryUnclear.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, history []types.Message, profile map[string]string) types.Category
}

// Result is the normalized outcome of one Process call.
type Result struct {
	Category types.Category
	Output   string
}

// Orchestrator drives one conversation session. All Process calls on
// the same instance are serialized, which keeps the pending slot fill
// single-flight.
type Orchestrator struct {
	mu         sync.Mutex
	classifier IntentClassifier
	handlers   map[types.Category]skills.Handler
	store      *session.Store
}

// New creates an orchestrator over the given session store. The
// handlers map is keyed by category; categories without a handler fall
// back to the clarification response.
func New(classifier IntentClassifier, handlers map[types.Category]skills.Handler, store *session.Store) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		handlers:   handlers,
		store:      store,
	}
}

// Store exposes the session store for read access by callers (CLI
// profile commands, HTTP history endpoints). Mutation during a Process
// call is prevented by the store's own locking.
func (o *Orchestrator) Store() *session.Store {
	return o.store
}

// Process handles one user message: consumes pending slot collection,
// classifies when no explicit category is given, resolves requirements,
// dispatches the skill, and updates the session. The explicit category
// skips classification when valid; extra carries caller-supplied
// structured fields.
func (o *Orchestrator) Process(ctx context.Context, message string, explicit types.Category, extra map[string]string) *Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	trimmed := strings.TrimSpace(message)

	// Resume session termination bypasses everything, including any
	// pending collection.
	if strings.EqualFold(trimmed, endSessionCommand) && o.store.HasResume() {
		o.store.ClearPending()
		return o.finish(types.CategoryResumeBuilder, message, skills.EndSessionResponse, false)
	}

	fields := make(map[string]string, len(extra))
	for k, v := range extra {
		fields[k] = v
	}

	var category types.Category

	if pending := o.store.Pending(); pending != nil {
		// An active collection always consumes the message, whatever
		// the classifier would have said. A blank reply re-asks the
		// same question instead of recording an empty answer.
		if trimmed == "" {
			return o.finish(pending.Category, message, slots.Question(pending.Missing[0]), false)
		}
		pending.Collected[pending.Missing[0]] = trimmed
		pending.Missing = pending.Missing[1:]

		if len(pending.Missing) > 0 {
			question := slots.Question(pending.Missing[0])
			return o.finish(pending.Category, message, question, false)
		}

		for k, v := range pending.Collected {
			fields[k] = v
		}
		category = pending.Category
		o.store.ClearPending()
	} else if explicit.Valid() && explicit != types.CategoryUnclear {
		category = explicit
	} else {
		category = o.classifier.Classify(ctx, trimmed, o.store.History(), o.store.ProfileSnapshot())
		fmt.Printf("   🧭 routed to %s\n", category)
	}

	if category == types.CategoryUnclear {
		return o.finish(category, message, clarificationResponse, false)
	}

	o.backfillFields(category, trimmed, fields)

	resolution := slots.Resolve(category, fields, o.store.HasResume())
	if !resolution.Ready {
		o.store.SetPending(&session.PendingSlotFill{
			Category:  category,
			Missing:   resolution.Missing,
			Collected: resolution.Collected,
		})
		return o.finish(category, message, slots.Question(resolution.Missing[0]), false)
	}
	o.store.ClearPending()

	// Remember the job description before invoking the skill so a
	// failed attempt can be retried without re-pasting the posting.
	if category == types.CategoryResumeBuilder {
		if jd := resolution.Collected[slots.FieldJobDescription]; len(jd) > jobDescriptionMemoryChars {
			o.store.UpdateProfile(session.ProfileLastJobDescription, jd)
		}
	}

	handler, ok := o.handlers[category]
	if !ok {
		return o.finish(category, message, clarificationResponse, false)
	}

	history := o.store.History()
	result, err := handler.Invoke(ctx, types.SkillInput{
		Message: trimmed,
		Fields:  resolution.Collected,
		History: history,
	})
	if err != nil {
		// Partial state survives failures: pending fields and the
		// profile are never cleared here. The substitute message is
		// the skill's output for this turn, so it is logged like one.
		return o.finish(category, message, translateFailure(category, err), true)
	}

	o.applySideEffects(category, result)

	output := result.Output
	if strings.TrimSpace(output) == "" {
		output = emptyOutputResponse
	}
	return o.finish(category, message, output, true)
}

// backfillFields merges profile-derived fallbacks and message
// heuristics into the provided fields. Explicit values always win.
func (o *Orchestrator) backfillFields(category types.Category, message string, fields map[string]string) {
	profile := o.store.ProfileSnapshot()

	backfill := func(field, value string) {
		if strings.TrimSpace(fields[field]) == "" && value != "" {
			fields[field] = value
		}
	}

	backfill(slots.FieldJobTitle, profile[session.ProfileJobTitle])
	backfill(skills.FieldUserExperience, profile[session.ProfileExperience])
	backfill(skills.FieldUserContext, profile[session.ProfileSkills])
	backfill(skills.FieldUserName, profile[session.ProfileName])
	backfill(skills.FieldPreviousResume, profile[session.ProfileResumeContent])

	if category == types.CategoryResumeBuilder {
		// A message that reads like a pasted posting is used as the
		// job description; otherwise fall back to the last one seen
		// this session.
		if looksLikeJobDescription(message) {
			backfill(slots.FieldJobDescription, message)
		}
		backfill(slots.FieldJobDescription, profile[session.ProfileLastJobDescription])

		if details := deriveUserDetails(profile); details != "" {
			backfill(slots.FieldUserDetails, details)
		}
	}
}

// applySideEffects records the session mutations a successful skill
// invocation is allowed to cause.
func (o *Orchestrator) applySideEffects(category types.Category, result *types.SkillResult) {
	if category == types.CategoryResumeBuilder && result.Resume != "" {
		o.store.UpdateProfile(session.ProfileResumeContent, result.Resume)
	}
}

// finish appends the exchange to the conversation history, logs skill
// outputs, and builds the result. logResponse is false for clarifying
// questions, which are conversation plumbing rather than skill output.
func (o *Orchestrator) finish(category types.Category, message, output string, logResponse bool) *Result {
	o.store.AppendUser(message)
	o.store.AppendAssistant(output)
	if logResponse {
		o.store.LogResponse(category, message, output)
	}
	return &Result{Category: category, Output: output}
}
