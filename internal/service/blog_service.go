// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAITARUN432/backendblog/internal/middleware"
	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/notifications"
	"github.com/SAITARUN432/backendblog/internal/observability"
	"github.com/SAITARUN432/backendblog/internal/repository"
)

// EventPublisher delivers blog events to live subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev notifications.Event) error
}

type BlogService struct {
	repo   repository.BlogRepository
	events EventPublisher
	now    func() time.Time
}

type CreateBlogInput struct {
	AuthorName string
	Body       string
	ImagePath  *string
}

type UpdateBlogInput struct {
	BlogID string
	Patch  models.BlogPatch
}

type ToggleLikeInput struct {
	BlogID string
	UserID string
}

type AddCommentInput struct {
	BlogID string
	Author string
	Text   string
}

type EditCommentInput struct {
	BlogID    string
	CommentID string
	Text      string
}

type DeleteCommentInput struct {
	BlogID    string
	CommentID string
}

// NewBlogService wires the service. events may be nil.
func NewBlogService(repo repository.BlogRepository, events EventPublisher) *BlogService {
	return &BlogService{repo: repo, events: events, now: time.Now}
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	blog := models.NewBlog(in.AuthorName, in.Body, in.ImagePath)
	blog.CreatedAt = s.now().UTC()
	blog.UpdatedAt = blog.CreatedAt

	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}

	s.recorded(ctx, "create", notifications.BlogCreated, blog)
	return blog, nil
}

func (s *BlogService) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	blogs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []*models.Blog{}
	}
	return blogs, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.repo.UpdateFields(ctx, in.BlogID, in.Patch)
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, "update", notifications.BlogUpdated, blog)
	return blog, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorded(ctx, "delete", notifications.BlogDeleted, map[string]string{"_id": id})
	return nil
}

// ToggleLike flips userID's like on the blog and reports whether it is now liked.
func (s *BlogService) ToggleLike(ctx context.Context, in ToggleLikeInput) (*models.Blog, bool, error) {
	if in.UserID == "" {
		return nil, false, models.NewValidationError("userId is required")
	}

	blog, err := s.repo.ToggleLike(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, false, err
	}

	liked := blog.HasLiked(in.UserID)
	observability.RecordLikeToggle(liked)
	s.recorded(ctx, "toggle_like", notifications.BlogLiked, blog)
	return blog, liked, nil
}

// AddComment appends a comment. Author and text are stored as given.
func (s *BlogService) AddComment(ctx context.Context, in AddCommentInput) (*models.Blog, error) {
	comment := models.Comment{
		Author:    in.Author,
		Text:      in.Text,
		CreatedAt: s.now().UTC(),
	}

	blog, err := s.repo.AddComment(ctx, in.BlogID, comment)
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, "add_comment", notifications.BlogCommented, blog)
	return blog, nil
}

func (s *BlogService) EditComment(ctx context.Context, in EditCommentInput) (*models.Blog, error) {
	blog, err := s.repo.EditComment(ctx, in.BlogID, in.CommentID, in.Text)
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, "edit_comment", notifications.BlogCommented, blog)
	return blog, nil
}

// DeleteComment removes a comment; an unknown comment id leaves the blog unchanged.
func (s *BlogService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Blog, error) {
	blog, err := s.repo.DeleteComment(ctx, in.BlogID, in.CommentID)
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, "delete_comment", notifications.BlogCommented, blog)
	return blog, nil
}

// recorded counts a successful mutation and fans the event out. Delivery
// failures are logged; the write already succeeded.
func (s *BlogService) recorded(ctx context.Context, op, eventType string, payload any) {
	observability.RecordMutation(op)
	middleware.Logger.InfoContext(ctx, "blog mutated", slog.String("op", op))

	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, notifications.Event{Type: eventType, Payload: payload}); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish blog event",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
}
