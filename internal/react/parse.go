// Package react runs bounded reasoning-action loops: the model thinks,
// optionally calls a tool, observes the result, and repeats until it
// emits a final answer or the step budget runs out.
package react

import "strings"

// Markers the model is instructed to emit. Parsing is anchored on these
// exact strings; everything else in the transcript is free-form thought.
const (
	finalAnswerMarker = "Final Answer:"
	actionMarker      = "Action:"
	actionInputMarker = "Action Input:"
	observationMarker = "Observation:"
)

// Step is the single parsed interpretation of one model completion.
// Exactly one of two shapes is meaningful: Done with FinalText, or a
// tool call with Action and ActionInput. A Step with neither signals an
// unparseable completion and the loop terminates with degraded output.
type Step struct {
	Done        bool
	FinalText   string
	Action      string
	ActionInput string
}

// ParseStep interprets a raw model completion. The final-answer marker
// wins over an action marker when both appear, matching the instruction
// that the final answer ends the episode.
func ParseStep(raw string) Step {
	if idx := strings.Index(raw, finalAnswerMarker); idx >= 0 {
		return Step{
			Done:      true,
			FinalText: strings.TrimSpace(raw[idx+len(finalAnswerMarker):]),
		}
	}

	action, ok := extractAfter(raw, actionMarker)
	if !ok {
		return Step{}
	}
	input, _ := extractAfter(raw, actionInputMarker)
	return Step{Action: action, ActionInput: input}
}

// extractAfter returns the text following the first occurrence of
// marker, truncated at the next observation marker (models sometimes
// hallucinate the observation) and at the end of the section.
func extractAfter(raw, marker string) (string, bool) {
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(marker):]
	if obs := strings.Index(rest, observationMarker); obs >= 0 {
		rest = rest[:obs]
	}
	// Action occupies a single line; Action Input may span several.
	if marker == actionMarker {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
	}
	rest = strings.Trim(rest, " \t\r\n`")
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest), true
}
