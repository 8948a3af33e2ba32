package slots

import (
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// Resolution is the outcome of checking a category's requirements
// against the fields provided so far. When Ready is false, Missing holds
// the still-absent fields in declared requirement order and the first
// one should be asked next.
type Resolution struct {
	Ready     bool
	Missing   []string
	Collected map[string]string
}

// Resolve computes which required fields for a category are still
// missing. Provided values that are empty or whitespace-only count as
// absent.
//
// RESUME_BUILDER enforces its requirements only until a resume exists in
// the session; after that every message is treated as a refinement
// request and the category is always ready.
func Resolve(category types.Category, provided map[string]string, resumeExists bool) Resolution {
	collected := make(map[string]string, len(provided))
	for k, v := range provided {
		if strings.TrimSpace(v) != "" {
			collected[k] = v
		}
	}

	if category == types.CategoryResumeBuilder && resumeExists {
		return Resolution{Ready: true, Collected: collected}
	}

	var missing []string
	for _, field := range Requirements(category) {
		if _, ok := collected[field]; !ok {
			missing = append(missing, field)
		}
	}

	return Resolution{
		Ready:     len(missing) == 0,
		Missing:   missing,
		Collected: collected,
	}
}
