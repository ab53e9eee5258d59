package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleSystem marks the system instruction turn.
	RoleSystem Role = "system"
	// RoleUser marks a user turn.
	RoleUser Role = "user"
	// RoleAssistant marks an assistant turn.
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// Query is one retrieval request. It is immutable for the duration of a
// pipeline run; nothing in the engine mutates or persists it.
type Query struct {
	TenantID string
	Text     string
	History  []Turn
}
