package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/notifications"

	"github.com/stretchr/testify/require"
)

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	createFn        func(context.Context, *models.Blog) error
	getByIDFn       func(context.Context, string) (*models.Blog, error)
	listFn          func(context.Context) ([]*models.Blog, error)
	updateFieldsFn  func(context.Context, string, models.BlogPatch) (*models.Blog, error)
	deleteFn        func(context.Context, string) error
	toggleLikeFn    func(context.Context, string, string) (*models.Blog, error)
	addCommentFn    func(context.Context, string, models.Comment) (*models.Blog, error)
	editCommentFn   func(context.Context, string, string, string) (*models.Blog, error)
	deleteCommentFn func(context.Context, string, string) (*models.Blog, error)
}

func (s *blogRepoStub) Create(ctx context.Context, b *models.Blog) error { return s.createFn(ctx, b) }
func (s *blogRepoStub) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return s.getByIDFn(ctx, id)
}
func (s *blogRepoStub) List(ctx context.Context) ([]*models.Blog, error) { return s.listFn(ctx) }
func (s *blogRepoStub) UpdateFields(ctx context.Context, id string, p models.BlogPatch) (*models.Blog, error) {
	return s.updateFieldsFn(ctx, id, p)
}
func (s *blogRepoStub) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s *blogRepoStub) ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error) {
	return s.toggleLikeFn(ctx, id, userID)
}
func (s *blogRepoStub) AddComment(ctx context.Context, id string, c models.Comment) (*models.Blog, error) {
	return s.addCommentFn(ctx, id, c)
}
func (s *blogRepoStub) EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error) {
	return s.editCommentFn(ctx, id, commentID, text)
}
func (s *blogRepoStub) DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error) {
	return s.deleteCommentFn(ctx, id, commentID)
}
func (s *blogRepoStub) Ping(context.Context) error { return nil }

// memoryBlogRepo returns a stub backed by a map, applying the aggregate rules.
func memoryBlogRepo() *blogRepoStub {
	blogs := map[string]*models.Blog{}
	var order []string
	next := 0

	get := func(id string) (*models.Blog, error) {
		b, ok := blogs[id]
		if !ok {
			return nil, models.NewBlogNotFoundError(id)
		}
		return b, nil
	}
	clone := func(b *models.Blog) *models.Blog {
		c := *b
		c.LikedBy = append([]string{}, b.LikedBy...)
		c.Comments = append([]models.Comment{}, b.Comments...)
		return &c
	}

	return &blogRepoStub{
		createFn: func(_ context.Context, b *models.Blog) error {
			next++
			b.ID = "blog-" + strconv.Itoa(next)
			blogs[b.ID] = clone(b)
			order = append(order, b.ID)
			return nil
		},
		getByIDFn: func(_ context.Context, id string) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			return clone(b), nil
		},
		listFn: func(context.Context) ([]*models.Blog, error) {
			out := []*models.Blog{}
			for _, id := range order {
				if b, ok := blogs[id]; ok {
					out = append(out, clone(b))
				}
			}
			return out, nil
		},
		updateFieldsFn: func(_ context.Context, id string, p models.BlogPatch) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			b.Apply(p)
			return clone(b), nil
		},
		deleteFn: func(_ context.Context, id string) error {
			if _, err := get(id); err != nil {
				return err
			}
			delete(blogs, id)
			return nil
		},
		toggleLikeFn: func(_ context.Context, id, userID string) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			b.ToggleLike(userID)
			return clone(b), nil
		},
		addCommentFn: func(_ context.Context, id string, c models.Comment) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			c.ID = "c" + strconv.Itoa(len(b.Comments)+1)
			b.AddComment(c)
			return clone(b), nil
		},
		editCommentFn: func(_ context.Context, id, commentID, text string) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			if err := b.EditComment(commentID, text); err != nil {
				return nil, err
			}
			return clone(b), nil
		},
		deleteCommentFn: func(_ context.Context, id, commentID string) (*models.Blog, error) {
			b, err := get(id)
			if err != nil {
				return nil, err
			}
			b.RemoveComment(commentID)
			return clone(b), nil
		},
	}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []notifications.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev notifications.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}
