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

// BlogRepository описывает взаимодействие сервиса с хранилищем блога.
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateComment(ctx context.Context, comment *models.BlogComment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.BlogComment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

// BlogService содержит бизнес-логику блога и комментариев.
type BlogService struct {
	repo   BlogRepository
	events *Events
}

// NewBlogService создаёт сервис блога.
func NewBlogService(repo BlogRepository, events *Events) *BlogService {
	return &BlogService{repo: repo, events: events}
}

// PostInput содержит данные записи блога.
type PostInput struct {
	Slug       string
	Title      string
	Excerpt    *string
	Content    string
	CoverImage *string
	Published  bool
}

// CreatePost создаёт запись блога. Пустой slug формируется из заголовка.
func (s *BlogService) CreatePost(ctx context.Context, principal *models.Principal, in PostInput) (*models.BlogPost, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	if err := validation.ValidateLength("заголовок", in.Title, validation.MinPostTitleLength, validation.MaxPostTitleLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}
	if err := validation.ValidateLength("текст записи", in.Content, validation.MinPostContentLength, validation.MaxPostContentLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = validation.Slugify(in.Title)
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}

	post := &models.BlogPost{
		Slug:       slug,
		Title:      in.Title,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Published:  in.Published,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, fmt.Errorf("blog service: slug %q уже занят", slug)
		}
		return nil, err
	}

	return post, nil
}

// GetPost возвращает запись по slug. Черновики видит только администратор.
func (s *BlogService) GetPost(ctx context.Context, principal *models.Principal, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return nil, apperror.NotFound("blog", slug)
		}
		return nil, err
	}

	if !post.Published && (principal == nil || !principal.IsAdmin) {
		return nil, apperror.NotFound("blog", slug)
	}

	return post, nil
}

// ListPosts возвращает записи блога. Для публичного запроса — только
// опубликованные.
func (s *BlogService) ListPosts(ctx context.Context, principal *models.Principal, limit, offset int) ([]models.BlogPost, error) {
	publishedOnly := principal == nil || !principal.IsAdmin
	return s.repo.List(ctx, publishedOnly, limit, offset)
}

// UpdatePost обновляет запись блога. Смена обложки публикует событие
// удаления старого файла.
func (s *BlogService) UpdatePost(ctx context.Context, principal *models.Principal, id uuid.UUID, in PostInput) (*models.BlogPost, error) {
	if err := authorize(principal); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return nil, apperror.NotFound("blog", id.String())
		}
		return nil, err
	}

	if err := validation.ValidateLength("заголовок", in.Title, validation.MinPostTitleLength, validation.MaxPostTitleLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}
	if err := validation.ValidateLength("текст записи", in.Content, validation.MinPostContentLength, validation.MaxPostContentLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = existing.Slug
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}

	oldCover := existing.CoverImage

	existing.Slug = slug
	existing.Title = in.Title
	existing.Excerpt = in.Excerpt
	existing.Content = in.Content
	existing.CoverImage = in.CoverImage
	existing.Published = in.Published

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, fmt.Errorf("blog service: slug %q уже занят", slug)
		}
		return nil, err
	}

	if s.events != nil && oldCover != nil && (in.CoverImage == nil || *in.CoverImage != *oldCover) {
		s.events.PublishItemDeleted(ctx, ItemDeletedEvent{
			Collection: "blog",
			ItemID:     existing.ID,
			Payload:    models.Payload{"image": *oldCover},
		})
	}

	return existing, nil
}

// DeletePost удаляет запись блога и публикует событие для очистки обложки.
func (s *BlogService) DeletePost(ctx context.Context, principal *models.Principal, id uuid.UUID) error {
	if err := authorize(principal); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return apperror.NotFound("blog", id.String())
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.events != nil && existing.CoverImage != nil {
		s.events.PublishItemDeleted(ctx, ItemDeletedEvent{
			Collection: "blog",
			ItemID:     existing.ID,
			Payload:    models.Payload{"image": *existing.CoverImage},
		})
	}

	return nil
}

// AddComment добавляет публичный комментарий к опубликованной записи.
func (s *BlogService) AddComment(ctx context.Context, slug, authorName, content string) (*models.BlogComment, error) {
	if err := validation.ValidateLength("имя", authorName, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}
	if err := validation.ValidateLength("комментарий", content, validation.MinCommentLength, validation.MaxCommentLength); err != nil {
		return nil, fmt.Errorf("blog service: %w", err)
	}

	post, err := s.GetPost(ctx, nil, slug)
	if err != nil {
		return nil, err
	}

	comment := &models.BlogComment{
		PostID:     post.ID,
		AuthorName: strings.TrimSpace(authorName),
		Content:    strings.TrimSpace(content),
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments возвращает комментарии опубликованной записи.
func (s *BlogService) ListComments(ctx context.Context, slug string) ([]models.BlogComment, error) {
	post, err := s.GetPost(ctx, nil, slug)
	if err != nil {
		return nil, err
	}

	return s.repo.ListComments(ctx, post.ID)
}

// DeleteComment удаляет комментарий (только администратор).
func (s *BlogService) DeleteComment(ctx context.Context, principal *models.Principal, commentID uuid.UUID) error {
	if err := authorize(principal); err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrBlogCommentNotFound) {
			return apperror.NotFound("blog_comments", commentID.String())
		}
		return err
	}

	return nil
}
