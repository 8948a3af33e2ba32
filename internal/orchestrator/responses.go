package orchestrator

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/session"
	"github.com/jonathan/career-assistant/internal/types"
)

// jobDescriptionMemoryChars is the length a collected job description
// must exceed before it is remembered in the profile for later turns.
const jobDescriptionMemoryChars = 100

// messageAsJobDescriptionChars is the length a raw message must exceed
// before it can be treated as a pasted job description. Length alone is
// not enough; the message also has to read like a posting.
const messageAsJobDescriptionChars = 200

var jobDescriptionKeywords = []string{
	"requirements",
	"qualifications",
	"responsibilities",
	"job description",
	"position",
	"looking for",
}

// looksLikeJobDescription reports whether a message is long enough and
// carries enough posting vocabulary to stand in for a job description.
func looksLikeJobDescription(message string) bool {
	if len(message) <= messageAsJobDescriptionChars {
		return false
	}
	lower := strings.ToLower(message)
	for _, kw := range jobDescriptionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const clarificationResponse = "I'm not sure what you'd like to do. I can build and refine resumes, search for jobs, create interview prep guides, run mock interviews, evaluate mock interviews, write tutorials, or answer career questions. What would you like help with?"

const rateLimitResponse = "The language model is currently rate limited. Please wait a minute and try again. Everything you've already provided is saved, so nothing needs to be re-entered."

const resumeFailureResponse = "Something went wrong while working on your resume. Please check that you've given me the job description and your background details, then try again. Your inputs are preserved."

const emptyOutputResponse = "I couldn't process that request. Please try rephrasing it."

// translateFailure maps a skill failure to user-facing text. Rate
// limits get explicit wait-and-retry guidance; resume failures remind
// the user of what the builder needs; everything else gets a generic
// retry message. Errors never escape to the caller.
func translateFailure(category types.Category, err error) string {
	fmt.Printf("   ✗ %s handler failed: %v\n", category, err)

	if llm.IsRateLimited(err) {
		return rateLimitResponse
	}
	if category == types.CategoryResumeBuilder {
		return resumeFailureResponse
	}
	return fmt.Sprintf("Sorry, something went wrong while handling your %s request. Please try again.",
		strings.ToLower(strings.ReplaceAll(string(category), "_", " ")))
}

// deriveUserDetails assembles a user_details fallback from the profile
// when experience or skills are on record.
func deriveUserDetails(profile map[string]string) string {
	var parts []string
	if name := profile[session.ProfileName]; name != "" {
		parts = append(parts, "Name: "+name)
	}
	if title := profile[session.ProfileJobTitle]; title != "" {
		parts = append(parts, "Target role: "+title)
	}
	if exp := profile[session.ProfileExperience]; exp != "" {
		parts = append(parts, "Experience: "+exp)
	}
	if sk := profile[session.ProfileSkills]; sk != "" {
		parts = append(parts, "Skills: "+sk)
	}
	// Name and title alone are not enough to write a resume from.
	if profile[session.ProfileExperience] == "" && profile[session.ProfileSkills] == "" {
		return ""
	}
	return strings.Join(parts, "\n")
}
