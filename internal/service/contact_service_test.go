package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

type fakeContactRepo struct {
	messages map[uuid.UUID]*models.ContactMessage
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{messages: make(map[uuid.UUID]*models.ContactMessage)}
}

func (f *fakeContactRepo) Create(_ context.Context, msg *models.ContactMessage) error {
	msg.ID = uuid.New()
	stored := *msg
	f.messages[msg.ID] = &stored
	return nil
}

func (f *fakeContactRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, repository.ErrContactMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeContactRepo) List(_ context.Context, limit, offset int) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	for _, m := range f.messages {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeContactRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	msg, ok := f.messages[id]
	if !ok {
		return repository.ErrContactMessageNotFound
	}
	msg.IsRead = true
	return nil
}

func (f *fakeContactRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.messages[id]; !ok {
		return repository.ErrContactMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

func validSubmitInput() SubmitInput {
	return SubmitInput{
		Name:    "Иван",
		Email:   "ivan@example.com",
		Message: "Здравствуйте, хочу обсудить проект.",
	}
}

func TestContactService_Submit_Success(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	in := validSubmitInput()
	in.Email = "  IVAN@Example.COM "

	msg, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", msg.Email)
	assert.False(t, msg.IsRead)
	assert.Len(t, repo.messages, 1)
}

func TestContactService_Submit_Validation(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	in := validSubmitInput()
	in.Name = "И"
	_, err := svc.Submit(context.Background(), in)
	assert.Error(t, err)

	in = validSubmitInput()
	in.Email = "not-an-email"
	_, err = svc.Submit(context.Background(), in)
	assert.Error(t, err)

	in = validSubmitInput()
	in.Message = "Коротко"
	_, err = svc.Submit(context.Background(), in)
	assert.NoError(t, err)

	in = validSubmitInput()
	in.Message = "Нет"
	_, err = svc.Submit(context.Background(), in)
	assert.Error(t, err)
}

func TestContactService_List_RequiresAdmin(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	_, err := svc.List(context.Background(), nil, 20, 0)
	assert.True(t, apperror.IsUnauthorized(err))

	_, err = svc.List(context.Background(), &models.Principal{ID: uuid.New()}, 20, 0)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestContactService_Get_MarksRead(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	created, err := svc.Submit(context.Background(), validSubmitInput())
	require.NoError(t, err)

	msg, err := svc.Get(context.Background(), admin(), created.ID)
	require.NoError(t, err)
	assert.True(t, msg.IsRead)

	// Состояние сохранено в хранилище, не только в возвращённой копии.
	assert.True(t, repo.messages[created.ID].IsRead)
}

func TestContactService_Get_NotFound(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	_, err := svc.Get(context.Background(), admin(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestContactService_Delete(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	created, err := svc.Submit(context.Background(), validSubmitInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), nil, created.ID)
	assert.True(t, apperror.IsUnauthorized(err))

	require.NoError(t, svc.Delete(context.Background(), admin(), created.ID))
	assert.Empty(t, repo.messages)

	err = svc.Delete(context.Background(), admin(), created.ID)
	assert.True(t, apperror.IsNotFound(err))
}
