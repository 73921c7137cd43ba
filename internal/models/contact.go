package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage — сообщение из контактной формы.
type ContactMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
