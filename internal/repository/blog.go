// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/SAITARUN432/backendblog/internal/models"
)

// BlogRepository stores Blog aggregates. Every lookup by id reports an absent
// blog as models.ErrBlogNotFound, and comment lookups report models.ErrCommentNotFound.
// ToggleLike and the comment mutations are atomic per blog.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context) ([]*models.Blog, error)
	UpdateFields(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error)
	AddComment(ctx context.Context, id string, comment models.Comment) (*models.Blog, error)
	EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error)
	DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error)
	Ping(ctx context.Context) error
}
