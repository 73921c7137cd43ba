package service

import (
	"context"
	"errors"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

// SiteRepository описывает взаимодействие сервиса с хранилищем секций сайта.
type SiteRepository interface {
	Get(ctx context.Context, section string) (*models.SiteContent, error)
	Upsert(ctx context.Context, section string, payload models.Payload) (*models.SiteContent, error)
}

// Обязательные поля секций сайта.
var siteSectionRequired = map[string][]string{
	models.SiteSectionHeader: {"title"},
	models.SiteSectionFooter: {"copyright"},
}

// SiteService содержит бизнес-логику шапки и подвала сайта.
type SiteService struct {
	repo SiteRepository
}

// NewSiteService создаёт сервис секций сайта.
func NewSiteService(repo SiteRepository) *SiteService {
	return &SiteService{repo: repo}
}

// Get возвращает содержимое секции. Публичная операция.
func (s *SiteService) Get(ctx context.Context, section string) (*models.SiteContent, error) {
	if _, ok := siteSectionRequired[section]; !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная секция "+section)
	}

	sc, err := s.repo.Get(ctx, section)
	if err != nil {
		if errors.Is(err, repository.ErrSiteSectionNotFound) {
			return nil, apperror.NotFound("site_content", section)
		}
		return nil, err
	}

	return sc, nil
}

// Update записывает содержимое секции целиком.
func (s *SiteService) Update(ctx context.Context, principal *models.Principal, section string, payload models.Payload) (*models.SiteContent, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	required, ok := siteSectionRequired[section]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестная секция "+section)
	}

	for _, field := range required {
		if payload.StringField(field) == "" {
			return nil, apperror.Validation(field)
		}
	}

	return s.repo.Upsert(ctx, section, payload)
}
