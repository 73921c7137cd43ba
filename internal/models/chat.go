package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли сообщений в диалоге с ассистентом.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatSettings — настройки личности AI ассистента (singleton).
type ChatSettings struct {
	ID            int       `db:"id" json:"id"`
	AssistantName string    `db:"assistant_name" json:"assistant_name"`
	Tone          string    `db:"tone" json:"tone"`
	SystemPrompt  string    `db:"system_prompt" json:"system_prompt"`
	Enabled       bool      `db:"enabled" json:"enabled"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Conversation — сессия чата посетителя с ассистентом.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	VisitorID string    `db:"visitor_id" json:"visitor_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMessage — одна реплика диалога.
type ChatMessage struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
