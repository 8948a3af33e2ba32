// Package types provides type definitions for structured data used throughout the career-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Category identifies which skill handles a message.
type Category string

// The closed set of routing categories. Unclear never reaches a skill
// handler; it always short-circuits to a clarifying response.
const (
	CategoryResumeBuilder     Category = "RESUME_BUILDER"
	CategoryJobSearch         Category = "JOB_SEARCH"
	CategoryInterviewPrep     Category = "INTERVIEW_PREP"
	CategoryInterviewMock     Category = "INTERVIEW_MOCK"
	CategoryInterviewEvaluate Category = "INTERVIEW_EVALUATE"
	CategoryTutorials         Category = "TUTORIALS"
	CategoryGeneralQnA        Category = "GENERAL_QNA"
	CategoryUnclear           Category = "UNCLEAR"
)

// AllCategories lists every routable category, Unclear last.
var AllCategories = []Category{
	CategoryResumeBuilder,
	CategoryJobSearch,
	CategoryInterviewPrep,
	CategoryInterviewMock,
	CategoryInterviewEvaluate,
	CategoryTutorials,
	CategoryGeneralQnA,
	CategoryUnclear,
}

// ParseCategory normalizes raw text (trim + uppercase) and accepts it
// only on an exact match against the label set. Anything else, such as
// extra words or partial labels, yields Unclear and false.
// The strictness is intentional: a verbose model completion must never
// route a message by substring accident.
func ParseCategory(raw string) (Category, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for _, c := range AllCategories {
		if normalized == string(c) {
			return c, true
		}
	}
	return CategoryUnclear, false
}

// IsInterview reports whether the category is one of the interview variants.
func (c Category) IsInterview() bool {
	return c == CategoryInterviewPrep || c == CategoryInterviewMock || c == CategoryInterviewEvaluate
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the wire label for the category.
func (c Category) String() string {
	return string(c)
}
