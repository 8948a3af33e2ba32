package types

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Exchange pairs a user message with the assistant response it produced.
// Exchanges are append-only audit records; they are never read back into
// prompts except as recent-history windows.
type Exchange struct {
	UserMessage string `json:"user_message"`
	Response    string `json:"response"`
}
