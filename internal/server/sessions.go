package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/career-assistant/internal/orchestrator"
	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/jonathan/career-assistant/internal/server/middleware"
	"github.com/jonathan/career-assistant/internal/types"
)

// sessionRegistry tracks live conversation sessions. Each session owns
// its own orchestrator and therefore its own state; the registry only
// maps IDs to them.
type sessionRegistry struct {
	mu              sync.RWMutex
	sessions        map[uuid.UUID]*orchestrator.Orchestrator
	newOrchestrator func() *orchestrator.Orchestrator
}

func newSessionRegistry(factory func() *orchestrator.Orchestrator) *sessionRegistry {
	return &sessionRegistry{
		sessions:        make(map[uuid.UUID]*orchestrator.Orchestrator),
		newOrchestrator: factory,
	}
}

func (r *sessionRegistry) create() (uuid.UUID, *orchestrator.Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	orch := r.newOrchestrator()
	r.sessions[id] = orch
	return id, orch
}

func (r *sessionRegistry) get(id uuid.UUID) (*orchestrator.Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orch, ok := r.sessions[id]
	return orch, ok
}

// MessageRequest is the payload for POST /sessions/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
	// Category optionally skips intent classification (e.g. a UI tab
	// that is already scoped to mock interviews).
	Category string `json:"category,omitempty"`
	// Context carries extra skill fields such as job_description.
	Context map[string]string `json:"context,omitempty"`
}

// MessageResponse is the reply for a processed message.
type MessageResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Category  string    `json:"category"`
	Output    string    `json:"output"`
}

// handleCreateSession creates a new conversation session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, orch := s.sessions.create()

	if s.db != nil {
		userID := s.optionalUserID(r)
		if err := s.db.UpsertSession(r.Context(), id, userID, orch.Store().ProfileSnapshot()); err != nil {
			log.Printf("Failed to persist session %s: %v", id, err)
		}
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"session_id": id.String()})
}

// handleMessage routes one user message through the orchestrator.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	explicit := types.CategoryUnclear
	if req.Category != "" {
		parsed, ok := types.ParseCategory(req.Category)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, "unknown category: "+req.Category)
			return
		}
		explicit = parsed
	}

	result := orch.Process(r.Context(), req.Message, explicit, req.Context)

	if s.db != nil {
		s.persistExchange(r.Context(), id, orch, req.Message, result)
	}

	s.jsonResponse(w, http.StatusOK, MessageResponse{
		SessionID: id,
		Category:  result.Category.String(),
		Output:    result.Output,
	})
}

// handleHistory returns the full conversation transcript.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	history := orch.Store().History()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"turns":   history,
		"count":   len(history),
		"pending": orch.Store().Pending(),
	})
}

// handleResponses returns logged skill responses grouped by category.
func (s *Server) handleResponses(w http.ResponseWriter, r *http.Request) {
	_, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	grouped := make(map[string][]types.Exchange)
	for _, category := range types.AllCategories {
		if exchanges := orch.Store().Responses(category); len(exchanges) > 0 {
			grouped[category.String()] = exchanges
		}
	}

	s.jsonResponse(w, http.StatusOK, grouped)
}

// handleGetProfile returns the session's user profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	_, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	s.jsonResponse(w, http.StatusOK, orch.Store().ProfileSnapshot())
}

// handleUpdateProfile sets a single profile field. The payload is
// validated against a JSON schema so unknown fields are rejected
// before they reach the store.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateProfileUpdate(string(body)); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	orch.Store().UpdateProfile(req.Field, req.Value)

	if s.db != nil {
		userID := s.optionalUserID(r)
		if err := s.db.UpsertSession(r.Context(), id, userID, orch.Store().ProfileSnapshot()); err != nil {
			log.Printf("Failed to persist profile for session %s: %v", id, err)
		}
	}

	s.jsonResponse(w, http.StatusOK, orch.Store().ProfileSnapshot())
}

// handleClearSession clears conversation history while keeping the
// profile and any in-flight slot collection.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	_, orch, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}

	orch.Store().ClearHistory()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// sessionFromPath resolves the {id} path segment to a live session.
func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, *orchestrator.Orchestrator, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session ID")
		return uuid.Nil, nil, false
	}

	orch, ok := s.sessions.get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, (&ErrSessionNotFound{SessionID: id}).Error())
		return uuid.Nil, nil, false
	}

	return id, orch, true
}

// optionalUserID returns the authenticated user ID, or nil for
// anonymous sessions.
func (s *Server) optionalUserID(r *http.Request) *uuid.UUID {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil
	}
	return &userID
}

// persistExchange writes the turn and refreshed profile to the
// database. Persistence failures are logged, never surfaced; the chat
// response already succeeded.
func (s *Server) persistExchange(ctx context.Context, sessionID uuid.UUID, orch *orchestrator.Orchestrator, message string, result *orchestrator.Result) {
	if err := s.db.SaveExchange(ctx, sessionID, result.Category.String(), message, result.Output); err != nil {
		log.Printf("Failed to persist exchange for session %s: %v", sessionID, err)
	}
	if err := s.db.UpsertSession(ctx, sessionID, nil, orch.Store().ProfileSnapshot()); err != nil {
		log.Printf("Failed to persist profile for session %s: %v", sessionID, err)
	}
}
