package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertSession creates or refreshes a chat session row, storing the
// current profile snapshot as JSONB.
func (db *DB) UpsertSession(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID, profile map[string]string) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id, user_id, profile)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET profile = $3, updated_at = NOW()`,
		sessionID, userID, profileJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// GetSession returns a persisted session, or nil when absent.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID) (*ChatSession, error) {
	var (
		s           ChatSession
		profileJSON []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, profile, created_at, updated_at
		 FROM chat_sessions WHERE id = $1`,
		sessionID,
	).Scan(&s.ID, &s.UserID, &profileJSON, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &s.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &s, nil
}

// SaveExchange appends one turn pair to a session's transcript.
func (db *DB) SaveExchange(ctx context.Context, sessionID uuid.UUID, category, userMessage, response string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO exchanges (session_id, category, user_message, response)
		 VALUES ($1, $2, $3, $4)`,
		sessionID, category, userMessage, response,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

// ListExchanges returns a session's transcript in chronological order.
func (db *DB) ListExchanges(ctx context.Context, sessionID uuid.UUID) ([]Exchange, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, category, user_message, response, created_at
		 FROM exchanges WHERE session_id = $1 ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Category, &e.UserMessage, &e.Response, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, rows.Err()
}
