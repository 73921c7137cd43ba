package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
	"github.com/ignatzorin/portfolio-backend/internal/validation"
)

// Сколько последних реплик диалога уходит в контекст модели.
const chatHistoryLimit = 20

// ChatRepository описывает взаимодействие сервиса с хранилищем чата.
type ChatRepository interface {
	GetSettings(ctx context.Context) (*models.ChatSettings, error)
	UpdateSettings(ctx context.Context, settings *models.ChatSettings) error
	GetOrCreateConversation(ctx context.Context, visitorID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, limit, offset int) ([]models.Conversation, error)
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

// AssistantClient описывает внешнего AI собеседника.
type AssistantClient interface {
	Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error)
	StreamComplete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string, onDelta func(chunk string) error) error
}

// ChatService содержит бизнес-логику чата с AI ассистентом.
type ChatService struct {
	repo      ChatRepository
	assistant AssistantClient
}

// NewChatService создаёт сервис чата. assistant может быть nil — тогда
// чат отвечает ошибкой о недоступности.
func NewChatService(repo ChatRepository, assistant AssistantClient) *ChatService {
	return &ChatService{repo: repo, assistant: assistant}
}

// GetSettings возвращает полные настройки ассистента (администратор).
func (s *ChatService) GetSettings(ctx context.Context, principal *models.Principal) (*models.ChatSettings, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}
	return s.repo.GetSettings(ctx)
}

// PublicSettings — видимая посетителю часть настроек.
type PublicSettings struct {
	AssistantName string `json:"assistant_name"`
	Enabled       bool   `json:"enabled"`
}

// GetPublicSettings возвращает имя ассистента и флаг доступности.
func (s *ChatService) GetPublicSettings(ctx context.Context) (*PublicSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSettings{
		AssistantName: settings.AssistantName,
		Enabled:       settings.Enabled && s.assistant != nil,
	}, nil
}

// UpdateSettings записывает настройки личности ассистента.
func (s *ChatService) UpdateSettings(ctx context.Context, principal *models.Principal, settings *models.ChatSettings) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if strings.TrimSpace(settings.AssistantName) == "" {
		return apperror.Validation("assistant_name")
	}
	if strings.TrimSpace(settings.SystemPrompt) == "" {
		return apperror.Validation("system_prompt")
	}

	return s.repo.UpdateSettings(ctx, settings)
}

// SendMessage сохраняет реплику посетителя, запрашивает ответ модели и
// сохраняет его в тот же диалог.
func (s *ChatService) SendMessage(ctx context.Context, visitorID, content string) (*models.ChatMessage, error) {
	settings, history, conv, err := s.prepareTurn(ctx, visitorID, content)
	if err != nil {
		return nil, err
	}

	reply, err := s.assistant.Complete(ctx, composeSystemPrompt(settings), history, content)
	if err != nil {
		return nil, fmt.Errorf("chat service: ассистент недоступен: %w", err)
	}

	return s.saveTurn(ctx, conv.ID, content, reply)
}

// StreamMessage — потоковый вариант SendMessage: чанки ответа уходят в
// onDelta, полный ответ сохраняется после завершения потока.
func (s *ChatService) StreamMessage(ctx context.Context, visitorID, content string, onDelta func(chunk string) error) (*models.ChatMessage, error) {
	settings, history, conv, err := s.prepareTurn(ctx, visitorID, content)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	err = s.assistant.StreamComplete(ctx, composeSystemPrompt(settings), history, content, func(chunk string) error {
		sb.WriteString(chunk)
		return onDelta(chunk)
	})
	if err != nil {
		return nil, fmt.Errorf("chat service: ассистент недоступен: %w", err)
	}

	return s.saveTurn(ctx, conv.ID, content, sb.String())
}

// History возвращает историю диалога посетителя.
func (s *ChatService) History(ctx context.Context, visitorID string) ([]models.ChatMessage, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, apperror.Validation("visitor_id")
	}

	conv, err := s.repo.GetOrCreateConversation(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListMessages(ctx, conv.ID, chatHistoryLimit)
}

// ListConversations возвращает диалоги (администратор).
func (s *ChatService) ListConversations(ctx context.Context, principal *models.Principal, limit, offset int) ([]models.Conversation, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}
	return s.repo.ListConversations(ctx, limit, offset)
}

// ListMessages возвращает реплики диалога (администратор).
func (s *ChatService) ListMessages(ctx context.Context, principal *models.Principal, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.NotFound("conversations", conversationID.String())
		}
		return nil, err
	}

	return s.repo.ListMessages(ctx, conversationID, chatHistoryLimit)
}

// prepareTurn валидирует реплику и собирает контекст диалога.
func (s *ChatService) prepareTurn(ctx context.Context, visitorID, content string) (*models.ChatSettings, []models.ChatMessage, *models.Conversation, error) {
	if strings.TrimSpace(visitorID) == "" {
		return nil, nil, nil, apperror.Validation("visitor_id")
	}
	if err := validation.ValidateLength("сообщение", content, validation.MinCommentLength, validation.MaxCommentLength); err != nil {
		return nil, nil, nil, fmt.Errorf("chat service: %w", err)
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if !settings.Enabled || s.assistant == nil {
		return nil, nil, nil, fmt.Errorf("chat service: ассистент отключён")
	}

	conv, err := s.repo.GetOrCreateConversation(ctx, visitorID)
	if err != nil {
		return nil, nil, nil, err
	}

	history, err := s.repo.ListMessages(ctx, conv.ID, chatHistoryLimit)
	if err != nil {
		return nil, nil, nil, err
	}

	return settings, history, conv, nil
}

// saveTurn сохраняет пару реплик: посетителя и ассистента.
func (s *ChatService) saveTurn(ctx context.Context, conversationID uuid.UUID, userContent, assistantContent string) (*models.ChatMessage, error) {
	userMsg := &models.ChatMessage{
		ConversationID: conversationID,
		Role:           models.ChatRoleUser,
		Content:        strings.TrimSpace(userContent),
	}
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		ConversationID: conversationID,
		Role:           models.ChatRoleAssistant,
		Content:        strings.TrimSpace(assistantContent),
	}
	if err := s.repo.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return assistantMsg, nil
}

// composeSystemPrompt собирает системный промпт из настроек личности.
func composeSystemPrompt(settings *models.ChatSettings) string {
	var sb strings.Builder
	sb.WriteString(settings.SystemPrompt)
	if settings.AssistantName != "" {
		sb.WriteString(fmt.Sprintf("\nТебя зовут %s.", settings.AssistantName))
	}
	if settings.Tone != "" {
		sb.WriteString(fmt.Sprintf("\nТон общения: %s.", settings.Tone))
	}
	return sb.String()
}
