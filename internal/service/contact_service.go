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

// ContactRepository описывает взаимодействие сервиса с хранилищем
// сообщений контактной формы.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactService содержит бизнес-логику контактной формы.
type ContactService struct {
	repo ContactRepository
}

// NewContactService создаёт сервис контактной формы.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// SubmitInput содержит данные формы.
type SubmitInput struct {
	Name    string
	Email   string
	Subject *string
	Message string
}

// Submit принимает сообщение посетителя. Публичная операция.
func (s *ContactService) Submit(ctx context.Context, in SubmitInput) (*models.ContactMessage, error) {
	if err := validation.ValidateLength("имя", in.Name, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, fmt.Errorf("contact service: %w", err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("contact service: %w", err)
	}
	if err := validation.ValidateLength("сообщение", in.Message, validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, fmt.Errorf("contact service: %w", err)
	}
	if in.Subject != nil {
		if err := validation.ValidateLength("тема", *in.Subject, 0, validation.MaxSubjectLength); err != nil {
			return nil, fmt.Errorf("contact service: %w", err)
		}
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: in.Subject,
		Message: strings.TrimSpace(in.Message),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// List возвращает входящие сообщения (только администратор).
func (s *ContactService) List(ctx context.Context, principal *models.Principal, limit, offset int) ([]models.ContactMessage, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, limit, offset)
}

// Get возвращает сообщение и отмечает его прочитанным.
func (s *ContactService) Get(ctx context.Context, principal *models.Principal, id uuid.UUID) (*models.ContactMessage, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactMessageNotFound) {
			return nil, apperror.NotFound("contact_messages", id.String())
		}
		return nil, err
	}

	if !msg.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		msg.IsRead = true
	}

	return msg, nil
}

// Delete удаляет сообщение.
func (s *ContactService) Delete(ctx context.Context, principal *models.Principal, id uuid.UUID) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContactMessageNotFound) {
			return apperror.NotFound("contact_messages", id.String())
		}
		return err
	}

	return nil
}
