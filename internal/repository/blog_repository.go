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

// Ошибки блога.
var (
	ErrBlogPostNotFound    = errors.New("blog post not found")
	ErrBlogCommentNotFound = errors.New("blog comment not found")
	ErrSlugTaken           = errors.New("slug already taken")
)

// BlogRepository отвечает за записи блога и комментарии.
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository создаёт экземпляр репозитория.
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create создаёт запись блога.
func (r *BlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (slug, title, excerpt, content, cover_image, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.CoverImage,
		post.Published,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("blog repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает запись по идентификатору.
func (r *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	query := `SELECT * FROM blog_posts WHERE id = $1`

	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("blog repository: get by id %w", err)
	}

	return &post, nil
}

// GetBySlug возвращает запись по slug.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	query := `SELECT * FROM blog_posts WHERE slug = $1`

	if err := r.db.GetContext(ctx, &post, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("blog repository: get by slug %w", err)
	}

	return &post, nil
}

// List возвращает записи блога; publishedOnly скрывает черновики.
func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.BlogPost, error) {
	query := `SELECT * FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	var posts []models.BlogPost
	if err := r.db.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("blog repository: list %w", err)
	}

	return posts, nil
}

// Update обновляет запись блога.
func (r *BlogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET slug = $1, title = $2, excerpt = $3, content = $4, cover_image = $5, published = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.CoverImage,
		post.Published,
		post.ID,
	).Scan(&post.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBlogPostNotFound
		}
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("blog repository: update %w", err)
	}

	return nil
}

// Delete удаляет запись блога вместе с комментариями (каскад в схеме).
func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blog repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("blog repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrBlogPostNotFound
	}

	return nil
}

// CreateComment добавляет комментарий к записи.
func (r *BlogRepository) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	query := `
		INSERT INTO blog_comments (post_id, author_name, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		comment.PostID,
		comment.AuthorName,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("blog repository: insert comment %w", err)
	}

	return nil
}

// ListComments возвращает комментарии записи по возрастанию времени.
func (r *BlogRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]models.BlogComment, error) {
	var comments []models.BlogComment
	query := `SELECT * FROM blog_comments WHERE post_id = $1 ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("blog repository: list comments %w", err)
	}

	return comments, nil
}

// DeleteComment удаляет комментарий.
func (r *BlogRepository) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("blog repository: delete comment %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("blog repository: delete comment rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrBlogCommentNotFound
	}

	return nil
}
