package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one transcript entry in the grounded Q&A view. The ID ties
// an in-flight question to its eventual answer.
type ChatMessage struct {
	ID   uuid.UUID
	Role string
	Text string
}

// NewChatMessage creates a transcript entry with a fresh ID.
func NewChatMessage(role, text string) ChatMessage {
	return ChatMessage{ID: uuid.New(), Role: role, Text: text}
}

// Answer is the model's reply to a grounded question. Grounding carries the
// service's citation metadata verbatim; it is display data, never interpreted.
type Answer struct {
	Text      string
	Grounding json.RawMessage
}

// GroundingJSON returns the grounding metadata pretty-printed for display,
// or a placeholder when the service returned none.
func (a Answer) GroundingJSON() string {
	if len(a.Grounding) == 0 {
		return "(no grounding metadata returned)"
	}
	var buf map[string]any
	if err := json.Unmarshal(a.Grounding, &buf); err != nil {
		return string(a.Grounding)
	}
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(a.Grounding)
	}
	return string(out)
}
