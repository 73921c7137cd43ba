package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// ErrSiteSectionNotFound возвращается, когда секция сайта не найдена.
var ErrSiteSectionNotFound = errors.New("site section not found")

// SiteRepository отвечает за singleton-документы секций сайта.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository создаёт экземпляр репозитория.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Get возвращает содержимое секции.
func (r *SiteRepository) Get(ctx context.Context, section string) (*models.SiteContent, error) {
	var sc models.SiteContent
	query := `SELECT section, payload, updated_at FROM site_content WHERE section = $1`

	if err := r.db.GetContext(ctx, &sc, query, section); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteSectionNotFound
		}
		return nil, fmt.Errorf("site repository: get %w", err)
	}

	return &sc, nil
}

// Upsert записывает содержимое секции.
func (r *SiteRepository) Upsert(ctx context.Context, section string, payload models.Payload) (*models.SiteContent, error) {
	query := `
		INSERT INTO site_content (section, payload)
		VALUES ($1, $2)
		ON CONFLICT (section) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
		RETURNING section, payload, updated_at
	`

	var sc models.SiteContent
	if err := r.db.GetContext(ctx, &sc, query, section, payload); err != nil {
		return nil, fmt.Errorf("site repository: upsert %w", err)
	}

	return &sc, nil
}
