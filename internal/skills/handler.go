// Package skills holds the category handlers the orchestrator
// dispatches to. Each handler receives a plain structured input and
// returns a plain result; none of them see or mutate session state.
package skills

import (
	"context"

	"github.com/jonathan/career-assistant/internal/types"
)

// Handler is the contract every skill implements. Invoke returns a
// result whose Output field is always user-facing text; errors are
// transport or prompt failures for the orchestrator to translate.
type Handler interface {
	Invoke(ctx context.Context, input types.SkillInput) (*types.SkillResult, error)
}

// Optional input field names shared by the handlers. The required
// fields live in the slots package; these are enrichments the
// orchestrator backfills from the profile or defaults.
const (
	FieldJobType        = "job_type"
	FieldUserContext    = "user_context"
	FieldUserExperience = "user_experience"
	FieldUserName       = "user_name"
	FieldPreviousResume = "previous_resume"
	FieldUserRequest    = "user_request"
)

// Defaults applied when an optional field is absent everywhere.
const (
	DefaultJobType  = "Full-time"
	DefaultUserName = "Candidate"
)

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
