// Package slots implements the slot-filling coordinator: the static
// requirement table mapping each category to the ordered fields it needs,
// and the resolution step that decides between invoking a skill and
// asking the user a clarifying question.
package slots

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// Field names collected from the user before a skill can run.
const (
	FieldJobDescription = "job_description"
	FieldUserDetails    = "user_details"
	FieldJobTitle       = "job_title"
	FieldLocation       = "location"
)

// requirements lists, per category, the fields that must be non-empty
// before invocation. Order is significant: missing fields are asked in
// this order, not arrival order.
var requirements = map[types.Category][]string{
	types.CategoryResumeBuilder:     {FieldJobDescription, FieldUserDetails},
	types.CategoryJobSearch:         {FieldJobTitle, FieldLocation},
	types.CategoryInterviewPrep:     {FieldJobTitle},
	types.CategoryInterviewMock:     {FieldJobTitle},
	types.CategoryInterviewEvaluate: {FieldJobTitle},
}

// questions holds bespoke clarifying questions for fields that deserve
// better phrasing than the generic template.
var questions = map[string]string{
	FieldJobDescription: "Could you paste the job description you are targeting? The full posting text works best.",
	FieldUserDetails:    "Tell me about your background: your experience, key skills, and any projects or achievements you want highlighted.",
	FieldJobTitle:       "What job title or role are you interested in?",
	FieldLocation:       "Which location should I search in? A city, region, or \"Remote\" all work.",
}

// Requirements returns the ordered required field names for a category.
// Categories with no hard requirement return nil.
func Requirements(category types.Category) []string {
	return requirements[category]
}

// Question returns the clarifying question to ask for a field, falling
// back to a generic template for fields without bespoke phrasing.
func Question(field string) string {
	if q, ok := questions[field]; ok {
		return q
	}
	return fmt.Sprintf("Please provide the %s.", strings.ReplaceAll(field, "_", " "))
}
