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

// ErrMediaNotFound возвращается, когда файл не найден.
var ErrMediaNotFound = errors.New("media file not found")

// MediaRepository отвечает за метаданные загруженных изображений.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создаёт экземпляр репозитория.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет метаданные файла.
func (r *MediaRepository) Create(ctx context.Context, file *models.MediaFile) error {
	query := `
		INSERT INTO media_files (file_path, file_type, file_size)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		file.FilePath,
		file.FileType,
		file.FileSize,
	).Scan(&file.ID, &file.CreatedAt); err != nil {
		return fmt.Errorf("media repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает файл по идентификатору.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	var file models.MediaFile
	query := `SELECT * FROM media_files WHERE id = $1`

	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("media repository: get by id %w", err)
	}

	return &file, nil
}

// GetByPath возвращает файл по относительному пути.
func (r *MediaRepository) GetByPath(ctx context.Context, path string) (*models.MediaFile, error) {
	var file models.MediaFile
	query := `SELECT * FROM media_files WHERE file_path = $1`

	if err := r.db.GetContext(ctx, &file, query, path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("media repository: get by path %w", err)
	}

	return &file, nil
}

// Delete удаляет метаданные файла.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("media repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("media repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrMediaNotFound
	}

	return nil
}
