package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost описывает запись блога.
type BlogPost struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Slug       string    `db:"slug" json:"slug"`
	Title      string    `db:"title" json:"title"`
	Excerpt    *string   `db:"excerpt" json:"excerpt,omitempty"`
	Content    string    `db:"content" json:"content"`
	CoverImage *string   `db:"cover_image" json:"cover_image,omitempty"`
	Published  bool      `db:"published" json:"published"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BlogComment — публичный комментарий посетителя к записи блога.
type BlogComment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PostID     uuid.UUID `db:"post_id" json:"post_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
