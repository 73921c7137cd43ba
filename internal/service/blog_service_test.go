package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/pkg/apperror"
	"github.com/ignatzorin/portfolio-backend/internal/repository"
)

type fakeBlogRepo struct {
	posts    map[uuid.UUID]*models.BlogPost
	comments map[uuid.UUID]*models.BlogComment
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{
		posts:    make(map[uuid.UUID]*models.BlogPost),
		comments: make(map[uuid.UUID]*models.BlogComment),
	}
}

func (f *fakeBlogRepo) Create(_ context.Context, post *models.BlogPost) error {
	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return repository.ErrSlugTaken
		}
	}
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeBlogRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrBlogPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrBlogPostNotFound
}

func (f *fakeBlogRepo) List(_ context.Context, publishedOnly bool, limit, offset int) ([]models.BlogPost, error) {
	var out []models.BlogPost
	for _, p := range f.posts {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeBlogRepo) Update(_ context.Context, post *models.BlogPost) error {
	if _, ok := f.posts[post.ID]; !ok {
		return repository.ErrBlogPostNotFound
	}
	for id, p := range f.posts {
		if id != post.ID && p.Slug == post.Slug {
			return repository.ErrSlugTaken
		}
	}
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeBlogRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.posts[id]; !ok {
		return repository.ErrBlogPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeBlogRepo) CreateComment(_ context.Context, comment *models.BlogComment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeBlogRepo) ListComments(_ context.Context, postID uuid.UUID) ([]models.BlogComment, error) {
	var out []models.BlogComment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeBlogRepo) DeleteComment(_ context.Context, commentID uuid.UUID) error {
	if _, ok := f.comments[commentID]; !ok {
		return repository.ErrBlogCommentNotFound
	}
	delete(f.comments, commentID)
	return nil
}

func validPostInput() PostInput {
	return PostInput{
		Title:     "Первый пост",
		Slug:      "pervyi-post",
		Content:   "Содержимое записи достаточной длины.",
		Published: true,
	}
}

func TestBlogService_CreatePost_GeneratesSlug(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	in := validPostInput()
	in.Slug = ""
	in.Title = "Hello World"

	post, err := svc.CreatePost(context.Background(), admin(), in)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
}

func TestBlogService_CreatePost_SlugTaken(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	_, err := svc.CreatePost(context.Background(), admin(), validPostInput())
	require.NoError(t, err)

	_, err = svc.CreatePost(context.Background(), admin(), validPostInput())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "занят")
}

func TestBlogService_CreatePost_RequiresAdmin(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	_, err := svc.CreatePost(context.Background(), nil, validPostInput())
	assert.True(t, apperror.IsUnauthorized(err))

	_, err = svc.CreatePost(context.Background(), &models.Principal{ID: uuid.New()}, validPostInput())
	assert.True(t, apperror.IsUnauthorized(err))
	assert.Empty(t, repo.posts)
}

func TestBlogService_GetPost_DraftHiddenFromPublic(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	in := validPostInput()
	in.Published = false
	_, err := svc.CreatePost(context.Background(), admin(), in)
	require.NoError(t, err)

	// Аноним не видит черновик.
	_, err = svc.GetPost(context.Background(), nil, in.Slug)
	assert.True(t, apperror.IsNotFound(err))

	// Администратор видит.
	post, err := svc.GetPost(context.Background(), admin(), in.Slug)
	require.NoError(t, err)
	assert.False(t, post.Published)
}

func TestBlogService_ListPosts_PublishedOnlyForPublic(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	published := validPostInput()
	_, err := svc.CreatePost(context.Background(), admin(), published)
	require.NoError(t, err)

	draft := validPostInput()
	draft.Slug = "chernovik"
	draft.Published = false
	_, err = svc.CreatePost(context.Background(), admin(), draft)
	require.NoError(t, err)

	public, err := svc.ListPosts(context.Background(), nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	all, err := svc.ListPosts(context.Background(), admin(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBlogService_UpdatePost_CoverChangePublishesEvent(t *testing.T) {
	repo := newFakeBlogRepo()
	events := NewEvents()

	received := make(chan ItemDeletedEvent, 1)
	events.Subscribe(subscriberFunc(func(_ context.Context, event ItemDeletedEvent) {
		received <- event
	}))

	svc := NewBlogService(repo, events)

	oldCover := "/media/2026/01/old.webp"
	in := validPostInput()
	in.CoverImage = &oldCover
	post, err := svc.CreatePost(context.Background(), admin(), in)
	require.NoError(t, err)

	newCover := "/media/2026/01/new.webp"
	in.CoverImage = &newCover
	_, err = svc.UpdatePost(context.Background(), admin(), post.ID, in)
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, oldCover, event.Payload["image"])
	case <-time.After(time.Second):
		t.Fatal("событие об удалённой обложке не получено")
	}
}

func TestBlogService_UpdatePost_KeepsSlugWhenEmpty(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	post, err := svc.CreatePost(context.Background(), admin(), validPostInput())
	require.NoError(t, err)

	in := validPostInput()
	in.Slug = ""
	in.Title = "Обновлённый заголовок"

	updated, err := svc.UpdatePost(context.Background(), admin(), post.ID, in)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, updated.Slug)
}

func TestBlogService_DeletePost_PublishesCoverCleanup(t *testing.T) {
	repo := newFakeBlogRepo()
	events := NewEvents()

	received := make(chan ItemDeletedEvent, 1)
	events.Subscribe(subscriberFunc(func(_ context.Context, event ItemDeletedEvent) {
		received <- event
	}))

	svc := NewBlogService(repo, events)

	cover := "/media/2026/02/cover.png"
	in := validPostInput()
	in.CoverImage = &cover
	post, err := svc.CreatePost(context.Background(), admin(), in)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(context.Background(), admin(), post.ID))
	assert.Empty(t, repo.posts)

	select {
	case event := <-received:
		assert.Equal(t, cover, event.Payload["image"])
	case <-time.After(time.Second):
		t.Fatal("событие об удалённой обложке не получено")
	}
}

func TestBlogService_DeletePost_NotFound(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	err := svc.DeletePost(context.Background(), admin(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestBlogService_AddComment_PublicOnPublishedPost(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	post, err := svc.CreatePost(context.Background(), admin(), validPostInput())
	require.NoError(t, err)

	comment, err := svc.AddComment(context.Background(), post.Slug, "Гость", "Отличная статья!")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)

	comments, err := svc.ListComments(context.Background(), post.Slug)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestBlogService_AddComment_DraftRejected(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	in := validPostInput()
	in.Published = false
	_, err := svc.CreatePost(context.Background(), admin(), in)
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), in.Slug, "Гость", "Комментарий к черновику")
	assert.True(t, apperror.IsNotFound(err))
}

func TestBlogService_AddComment_ValidatesInput(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	post, err := svc.CreatePost(context.Background(), admin(), validPostInput())
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), post.Slug, "Г", "Комментарий")
	assert.Error(t, err)

	_, err = svc.AddComment(context.Background(), post.Slug, "Гость", "")
	assert.Error(t, err)
	assert.Empty(t, repo.comments)
}

func TestBlogService_DeleteComment_AdminOnly(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil)

	post, err := svc.CreatePost(context.Background(), admin(), validPostInput())
	require.NoError(t, err)

	comment, err := svc.AddComment(context.Background(), post.Slug, "Гость", "Комментарий")
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), nil, comment.ID)
	assert.True(t, apperror.IsUnauthorized(err))

	require.NoError(t, svc.DeleteComment(context.Background(), admin(), comment.ID))
	assert.Empty(t, repo.comments)
}
