// Package seed creates demo users and blogs for development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAITARUN432/backendblog/internal/middleware"
	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Options configuration for the seeder
type Options struct {
	NumBlogs    int
	MaxComments int
	MaxLikes    int
	// Seed fixes the fake data generator. Zero picks a random seed.
	Seed int64
}

// Seeder writes through the services so seeded data follows the same rules as API writes.
type Seeder struct {
	users   *service.UserService
	blogs   *service.BlogService
	factory *Factory
	opts    Options
}

func NewSeeder(users *service.UserService, blogs *service.BlogService, opts Options) *Seeder {
	return &Seeder{
		users:   users,
		blogs:   blogs,
		factory: NewFactory(gofakeit.New(opts.Seed)),
		opts:    opts,
	}
}

// SeedUser registers a login-capable user.
func (s *Seeder) SeedUser(ctx context.Context, in service.RegisterUserInput) (*models.User, error) {
	user, err := s.users.RegisterUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", in.Email, err)
	}
	middleware.Logger.InfoContext(ctx, "seeded user", slog.String("email", user.Email))
	return user, nil
}

// SeedBlogs creates NumBlogs fake blogs, each with up to MaxComments comments
// and up to MaxLikes likes from random user ids.
func (s *Seeder) SeedBlogs(ctx context.Context) ([]*models.Blog, error) {
	blogs := make([]*models.Blog, 0, s.opts.NumBlogs)

	for range s.opts.NumBlogs {
		blog, err := s.blogs.CreateBlog(ctx, s.factory.Blog())
		if err != nil {
			return blogs, fmt.Errorf("seed blog: %w", err)
		}

		for range s.factory.Upto(s.opts.MaxComments) {
			in := s.factory.Comment(blog.ID)
			if blog, err = s.blogs.AddComment(ctx, in); err != nil {
				return blogs, fmt.Errorf("seed comment: %w", err)
			}
		}

		for range s.factory.Upto(s.opts.MaxLikes) {
			if blog, _, err = s.blogs.ToggleLike(ctx, service.ToggleLikeInput{
				BlogID: blog.ID,
				UserID: s.factory.UserID(),
			}); err != nil {
				return blogs, fmt.Errorf("seed like: %w", err)
			}
		}

		blogs = append(blogs, blog)
	}

	middleware.Logger.InfoContext(ctx, "seeded blogs", slog.Int("count", len(blogs)))
	return blogs, nil
}
