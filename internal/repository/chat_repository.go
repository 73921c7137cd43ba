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

// ErrConversationNotFound возвращается, когда диалог не найден.
var ErrConversationNotFound = errors.New("conversation not found")

// ChatRepository отвечает за диалоги с AI ассистентом и его настройки.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository создаёт экземпляр репозитория.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetSettings возвращает настройки ассистента (единственная строка).
func (r *ChatRepository) GetSettings(ctx context.Context) (*models.ChatSettings, error) {
	var settings models.ChatSettings
	query := `SELECT * FROM chat_settings WHERE id = 1`

	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("chat repository: get settings %w", err)
	}

	return &settings, nil
}

// UpdateSettings записывает настройки ассистента.
func (r *ChatRepository) UpdateSettings(ctx context.Context, settings *models.ChatSettings) error {
	query := `
		UPDATE chat_settings
		SET assistant_name = $1, tone = $2, system_prompt = $3, enabled = $4, updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		settings.AssistantName,
		settings.Tone,
		settings.SystemPrompt,
		settings.Enabled,
	).Scan(&settings.UpdatedAt); err != nil {
		return fmt.Errorf("chat repository: update settings %w", err)
	}

	return nil
}

// GetOrCreateConversation возвращает диалог посетителя, создавая при необходимости.
func (r *ChatRepository) GetOrCreateConversation(ctx context.Context, visitorID string) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (visitor_id)
		VALUES ($1)
		ON CONFLICT (visitor_id) DO UPDATE SET visitor_id = EXCLUDED.visitor_id
		RETURNING id, visitor_id, created_at
	`

	var conv models.Conversation
	if err := r.db.GetContext(ctx, &conv, query, visitorID); err != nil {
		return nil, fmt.Errorf("chat repository: get or create conversation %w", err)
	}

	return &conv, nil
}

// GetConversation возвращает диалог по идентификатору.
func (r *ChatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	query := `SELECT * FROM conversations WHERE id = $1`

	if err := r.db.GetContext(ctx, &conv, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("chat repository: get conversation %w", err)
	}

	return &conv, nil
}

// ListConversations возвращает диалоги по убыванию времени создания.
func (r *ChatRepository) ListConversations(ctx context.Context, limit, offset int) ([]models.Conversation, error) {
	var convs []models.Conversation
	query := `SELECT * FROM conversations ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &convs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("chat repository: list conversations %w", err)
	}

	return convs, nil
}

// AppendMessage сохраняет реплику диалога.
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		msg.ConversationID,
		msg.Role,
		msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("chat repository: insert message %w", err)
	}

	return nil
}

// ListMessages возвращает реплики диалога по возрастанию времени.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	query := `
		SELECT * FROM (
			SELECT * FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) t ORDER BY created_at
	`

	if err := r.db.SelectContext(ctx, &msgs, query, conversationID, limit); err != nil {
		return nil, fmt.Errorf("chat repository: list messages %w", err)
	}

	return msgs, nil
}
