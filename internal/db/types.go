package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChatSession is a persisted conversation session.
type ChatSession struct {
	ID        uuid.UUID         `json:"id"`
	UserID    *uuid.UUID        `json:"user_id,omitempty"`
	Profile   map[string]string `json:"profile"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Exchange is one persisted user/assistant turn pair.
type Exchange struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	Category    string    `json:"category"`
	UserMessage string    `json:"user_message"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
}
