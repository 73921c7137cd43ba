package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

type fakeChatRepo struct {
	settings      *models.ChatSettings
	conversations map[string]*models.Conversation
	messages      []models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		settings: &models.ChatSettings{
			ID:            1,
			AssistantName: "Ассистент",
			SystemPrompt:  "Ты ассистент на сайте-портфолио.",
			Enabled:       true,
		},
		conversations: make(map[string]*models.Conversation),
	}
}

func (f *fakeChatRepo) GetSettings(_ context.Context) (*models.ChatSettings, error) {
	copied := *f.settings
	return &copied, nil
}

func (f *fakeChatRepo) UpdateSettings(_ context.Context, settings *models.ChatSettings) error {
	copied := *settings
	f.settings = &copied
	return nil
}

func (f *fakeChatRepo) GetOrCreateConversation(_ context.Context, visitorID string) (*models.Conversation, error) {
	if conv, ok := f.conversations[visitorID]; ok {
		copied := *conv
		return &copied, nil
	}
	conv := &models.Conversation{
		ID:        uuid.New(),
		VisitorID: visitorID,
		CreatedAt: time.Now(),
	}
	f.conversations[visitorID] = conv
	copied := *conv
	return &copied, nil
}

func (f *fakeChatRepo) GetConversation(_ context.Context, id uuid.UUID) (*models.Conversation, error) {
	for _, conv := range f.conversations {
		if conv.ID == id {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, repository.ErrConversationNotFound
}

func (f *fakeChatRepo) ListConversations(_ context.Context, limit, offset int) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeChatRepo) AppendMessage(_ context.Context, msg *models.ChatMessage) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, conversationID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeAssistant struct {
	reply        string
	chunks       []string
	err          error
	systemPrompt string
	lastHistory  []models.ChatMessage
}

func (f *fakeAssistant) Complete(_ context.Context, systemPrompt string, history []models.ChatMessage, _ string) (string, error) {
	f.systemPrompt = systemPrompt
	f.lastHistory = history
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAssistant) StreamComplete(_ context.Context, systemPrompt string, history []models.ChatMessage, _ string, onDelta func(chunk string) error) error {
	f.systemPrompt = systemPrompt
	f.lastHistory = history
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := onDelta(chunk); err != nil {
			return err
		}
	}
	return nil
}

func TestChatService_SendMessage_SavesBothTurns(t *testing.T) {
	repo := newFakeChatRepo()
	assistant := &fakeAssistant{reply: "Здравствуйте! Чем могу помочь?"}
	svc := NewChatService(repo, assistant)

	msg, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	require.NoError(t, err)

	assert.Equal(t, models.ChatRoleAssistant, msg.Role)
	assert.Equal(t, "Здравствуйте! Чем могу помочь?", msg.Content)

	require.Len(t, repo.messages, 2)
	assert.Equal(t, models.ChatRoleUser, repo.messages[0].Role)
	assert.Equal(t, "Привет", repo.messages[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, repo.messages[1].Role)
}

func TestChatService_SendMessage_ComposesSystemPrompt(t *testing.T) {
	repo := newFakeChatRepo()
	repo.settings.AssistantName = "Игнат"
	repo.settings.Tone = "дружелюбный"

	assistant := &fakeAssistant{reply: "Ок"}
	svc := NewChatService(repo, assistant)

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	require.NoError(t, err)

	assert.Contains(t, assistant.systemPrompt, "Тебя зовут Игнат.")
	assert.Contains(t, assistant.systemPrompt, "Тон общения: дружелюбный.")
}

func TestChatService_SendMessage_HistoryPassedToAssistant(t *testing.T) {
	repo := newFakeChatRepo()
	assistant := &fakeAssistant{reply: "Ответ"}
	svc := NewChatService(repo, assistant)

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Первый вопрос")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "visitor-1", "Второй вопрос")
	require.NoError(t, err)

	// Во второй ход ушла история из двух реплик первого хода.
	require.Len(t, assistant.lastHistory, 2)
	assert.Equal(t, "Первый вопрос", assistant.lastHistory[0].Content)
}

func TestChatService_SendMessage_DisabledAssistant(t *testing.T) {
	repo := newFakeChatRepo()
	repo.settings.Enabled = false
	svc := NewChatService(repo, &fakeAssistant{reply: "Ок"})

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	assert.Error(t, err)
	assert.Empty(t, repo.messages)
}

func TestChatService_SendMessage_NilAssistant(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, nil)

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	assert.Error(t, err)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeAssistant{reply: "Ок"})

	_, err := svc.SendMessage(context.Background(), "", "Привет")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SendMessage(context.Background(), "visitor-1", "")
	assert.Error(t, err)
}

func TestChatService_SendMessage_AssistantError(t *testing.T) {
	repo := newFakeChatRepo()
	assistant := &fakeAssistant{err: errors.New("connection refused")}
	svc := NewChatService(repo, assistant)

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	assert.Error(t, err)

	// При ошибке модели ничего не сохраняется.
	assert.Empty(t, repo.messages)
}

func TestChatService_StreamMessage_AccumulatesDeltas(t *testing.T) {
	repo := newFakeChatRepo()
	assistant := &fakeAssistant{chunks: []string{"Здрав", "ствуй", "те!"}}
	svc := NewChatService(repo, assistant)

	var received []string
	msg, err := svc.StreamMessage(context.Background(), "visitor-1", "Привет", func(chunk string) error {
		received = append(received, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Здрав", "ствуй", "те!"}, received)
	assert.Equal(t, "Здравствуйте!", msg.Content)
	require.Len(t, repo.messages, 2)
}

func TestChatService_StreamMessage_DeltaErrorAborts(t *testing.T) {
	repo := newFakeChatRepo()
	assistant := &fakeAssistant{chunks: []string{"Здрав", "ствуйте"}}
	svc := NewChatService(repo, assistant)

	_, err := svc.StreamMessage(context.Background(), "visitor-1", "Привет", func(chunk string) error {
		return errors.New("клиент отключился")
	})

	assert.Error(t, err)
	assert.Empty(t, repo.messages)
}

func TestChatService_History(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeAssistant{reply: "Ответ"})

	_, err := svc.History(context.Background(), "")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SendMessage(context.Background(), "visitor-1", "Привет")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestChatService_GetPublicSettings(t *testing.T) {
	repo := newFakeChatRepo()
	repo.settings.AssistantName = "Игнат"

	svc := NewChatService(repo, &fakeAssistant{})
	public, err := svc.GetPublicSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Игнат", public.AssistantName)
	assert.True(t, public.Enabled)

	// Без подключённого клиента чат считается выключенным.
	svc = NewChatService(repo, nil)
	public, err = svc.GetPublicSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, public.Enabled)
}

func TestChatService_UpdateSettings(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeAssistant{})

	settings := &models.ChatSettings{
		ID:            1,
		AssistantName: "Игнат",
		SystemPrompt:  "Новый промпт.",
		Enabled:       true,
	}

	err := svc.UpdateSettings(context.Background(), nil, settings)
	assert.True(t, apperror.IsUnauthorized(err))

	settings.AssistantName = "  "
	err = svc.UpdateSettings(context.Background(), admin(), settings)
	assert.True(t, apperror.IsValidation(err))

	settings.AssistantName = "Игнат"
	require.NoError(t, svc.UpdateSettings(context.Background(), admin(), settings))
	assert.Equal(t, "Игнат", repo.settings.AssistantName)
}

func TestChatService_AdminListings(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeAssistant{reply: "Ответ"})

	_, err := svc.SendMessage(context.Background(), "visitor-1", "Привет")
	require.NoError(t, err)

	_, err = svc.ListConversations(context.Background(), nil, 20, 0)
	assert.True(t, apperror.IsUnauthorized(err))

	conversations, err := svc.ListConversations(context.Background(), admin(), 20, 0)
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	messages, err := svc.ListMessages(context.Background(), admin(), conversations[0].ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	_, err = svc.ListMessages(context.Background(), admin(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
