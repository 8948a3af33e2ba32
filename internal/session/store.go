// Package session provides the shared conversation context owned by an
// orchestrator instance: the user profile, the append-only conversation
// history, per-category response logs, and the single in-flight
// slot-filling state. One Store belongs to exactly one session; skill
// handlers never see it; they receive derived copies.
package session

import (
	"sync"

	"github.com/jonathan/career-assistant/internal/types"
)

// Profile field names. Last write wins; no history of prior values.
const (
	ProfileName               = "name"
	ProfileJobTitle           = "job_title"
	ProfileExperience         = "experience"
	ProfileSkills             = "skills"
	ProfileResumeContent      = "resume_content"
	ProfileLastJobDescription = "last_job_description"
)

// PendingSlotFill tracks a multi-turn field collection in progress.
// At most one exists per session (single-flight): while it is active the
// next raw user message is always consumed as the value of Missing[0],
// regardless of what intent classification would say.
type PendingSlotFill struct {
	Category  types.Category
	Missing   []string
	Collected map[string]string
}

// Store is the mutable shared context for one conversation session.
// All methods are safe for concurrent use; the orchestrator additionally
// serializes whole Process calls so the pending state stays single-flight.
type Store struct {
	mu        sync.Mutex
	profile   map[string]string
	history   []types.Message
	responses map[types.Category][]types.Exchange
	pending   *PendingSlotFill
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		profile:   make(map[string]string),
		responses: make(map[types.Category][]types.Exchange),
	}
}

// UpdateProfile sets a profile field. Idempotent, last write wins.
func (s *Store) UpdateProfile(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile[field] = value
}

// ProfileField returns the value of a profile field, or "" when unset.
func (s *Store) ProfileField(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile[field]
}

// ProfileSnapshot returns a copy of the whole profile map.
func (s *Store) ProfileSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]string, len(s.profile))
	for k, v := range s.profile {
		snapshot[k] = v
	}
	return snapshot
}

// HasResume reports whether a resume has been produced in this session.
func (s *Store) HasResume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile[ProfileResumeContent] != ""
}

// AppendUser appends a user turn to the conversation history.
func (s *Store) AppendUser(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.Message{Role: types.RoleUser, Content: content})
}

// AppendAssistant appends an assistant turn to the conversation history.
func (s *Store) AppendAssistant(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.Message{Role: types.RoleAssistant, Content: content})
}

// History returns a copy of the full conversation history in call order.
func (s *Store) History() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Message, len(s.history))
	copy(out, s.history)
	return out
}

// RecentHistory returns a copy of the last n turns (or fewer).
func (s *Store) RecentHistory(n int) []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.history) == 0 {
		return nil
	}
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]types.Message, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// ClearHistory discards the conversation history and response logs.
// The profile and any pending slot fill survive; only an explicit
// profile update or collection completion changes those.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.responses = make(map[types.Category][]types.Exchange)
}

// LogResponse appends an exchange to a category's response log.
func (s *Store) LogResponse(category types.Category, userMessage, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[category] = append(s.responses[category], types.Exchange{
		UserMessage: userMessage,
		Response:    response,
	})
}

// Responses returns a copy of the response log for a category.
func (s *Store) Responses(category types.Category) []types.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Exchange, len(s.responses[category]))
	copy(out, s.responses[category])
	return out
}

// SetPending records an in-flight slot collection, replacing any
// previous one.
func (s *Store) SetPending(p *PendingSlotFill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
}

// Pending returns the current slot collection, or nil when none is
// active. The returned value is the live struct; only the orchestrator
// mutates it, inside its per-call critical section.
func (s *Store) Pending() *PendingSlotFill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// ClearPending destroys the in-flight slot collection.
func (s *Store) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
