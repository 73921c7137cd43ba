package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/http/handlers/common"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// BlogHandler обслуживает маршруты блога и комментариев.
type BlogHandler struct {
	blog *service.BlogService
}

// NewBlogHandler создаёт новый хэндлер.
func NewBlogHandler(blog *service.BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

// postRequest — тело создания и обновления записи.
type postRequest struct {
	Slug       string  `json:"slug"`
	Title      string  `json:"title" binding:"required"`
	Excerpt    *string `json:"excerpt"`
	Content    string  `json:"content" binding:"required"`
	CoverImage *string `json:"cover_image"`
	Published  bool    `json:"published"`
}

func (r postRequest) toInput() service.PostInput {
	return service.PostInput{
		Slug:       r.Slug,
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Published:  r.Published,
	}
}

// ListPosts обрабатывает GET /blog.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	posts, err := h.blog.ListPosts(c.Request.Context(), common.CurrentPrincipal(c), limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, posts)
}

// GetPost обрабатывает GET /blog/:slug.
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blog.GetPost(c.Request.Context(), common.CurrentPrincipal(c), c.Param("slug"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, post)
}

// CreatePost обрабатывает POST /admin/blog.
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.blog.CreatePost(c.Request.Context(), common.CurrentPrincipal(c), req.toInput())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, post)
}

// UpdatePost обрабатывает PUT /admin/blog/:id.
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	var req postRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.blog.UpdatePost(c.Request.Context(), common.CurrentPrincipal(c), id, req.toInput())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, post)
}

// DeletePost обрабатывает DELETE /admin/blog/:id.
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор записи")
		return
	}

	if err := h.blog.DeletePost(c.Request.Context(), common.CurrentPrincipal(c), id); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "запись удалена"})
}

// AddComment обрабатывает POST /blog/:slug/comments.
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req struct {
		AuthorName string `json:"author_name" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.blog.AddComment(c.Request.Context(), c.Param("slug"), req.AuthorName, req.Content)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, comment)
}

// ListComments обрабатывает GET /blog/:slug/comments.
func (h *BlogHandler) ListComments(c *gin.Context) {
	comments, err := h.blog.ListComments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, comments)
}

// DeleteComment обрабатывает DELETE /admin/blog/comments/:id.
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор комментария")
		return
	}

	if err := h.blog.DeleteComment(c.Request.Context(), common.CurrentPrincipal(c), id); err != nil {
		common.AbortWithError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"message": "комментарий удалён"})
}
