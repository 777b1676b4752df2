package models

import (
	"strings"
	"time"

	"github.com/Rorical/ecli/internal/provider"
	"github.com/google/uuid"
)

type Role int

const (
	User Role = iota
	Assistant
	System
)

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

// Message is one transcript entry. Entries are appended, never edited.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Service   provider.ID // empty for user and most system entries
	Timestamp time.Time
}

func NewMessage(role Role, content string, service provider.ID) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Service:   service,
		Timestamp: time.Now(),
	}
}

var systemMarkers = []string{"✅", "❌", "⚠️"}

// ResultRole classifies a completed provider output. Confirmation, error
// and warning templates are recorded as system notices.
func ResultRole(output string) Role {
	trimmed := strings.TrimSpace(output)
	for _, m := range systemMarkers {
		if strings.HasPrefix(trimmed, m) {
			return System
		}
	}
	return Assistant
}
