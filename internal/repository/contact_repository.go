package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// ErrContactMessageNotFound возвращается, когда сообщение не найдено.
var ErrContactMessageNotFound = errors.New("contact message not found")

// ContactRepository отвечает за сообщения контактной формы.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository создаёт экземпляр репозитория.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create сохраняет сообщение из контактной формы.
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		return fmt.Errorf("contact repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает сообщение по идентификатору.
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	query := `SELECT * FROM contact_messages WHERE id = $1`

	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactMessageNotFound
		}
		return nil, fmt.Errorf("contact repository: get by id %w", err)
	}

	return &msg, nil
}

// List возвращает сообщения по убыванию времени.
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	query := `SELECT * FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &msgs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("contact repository: list %w", err)
	}

	return msgs, nil
}

// MarkRead отмечает сообщение прочитанным.
func (r *ContactRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("contact repository: mark read %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact repository: mark read rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactMessageNotFound
	}

	return nil
}

// Delete удаляет сообщение.
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("contact repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactMessageNotFound
	}

	return nil
}
