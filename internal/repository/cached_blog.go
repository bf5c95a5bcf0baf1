package repository

import (
	"context"

	"github.com/SAITARUN432/backendblog/internal/cache"
	"github.com/SAITARUN432/backendblog/internal/models"

	"github.com/redis/go-redis/v9"
)

// cachedBlogRepository reads through Redis and drops the affected keys after
// every successful write.
type cachedBlogRepository struct {
	inner BlogRepository
	rdb   *redis.Client
}

// NewCachedBlogRepository wraps inner with a Redis read-through cache. A nil
// client returns inner unchanged.
func NewCachedBlogRepository(inner BlogRepository, rdb *redis.Client) BlogRepository {
	if rdb == nil {
		return inner
	}
	return &cachedBlogRepository{inner: inner, rdb: rdb}
}

func (r *cachedBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.inner.Create(ctx, blog); err != nil {
		return err
	}
	cache.Invalidate(ctx, r.rdb, cache.BlogListKey)
	return nil
}

func (r *cachedBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog *models.Blog
	err := cache.Aside(ctx, r.rdb, cache.BlogKey(id), &blog, cache.BlogTTL, func() error {
		var err error
		blog, err = r.inner.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	blog.Normalize()
	return blog, nil
}

func (r *cachedBlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := cache.Aside(ctx, r.rdb, cache.BlogListKey, &blogs, cache.BlogListTTL, func() error {
		var err error
		blogs, err = r.inner.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []*models.Blog{}
	}
	for _, b := range blogs {
		b.Normalize()
	}
	return blogs, nil
}

func (r *cachedBlogRepository) UpdateFields(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	return r.invalidateAfter(ctx, id)(r.inner.UpdateFields(ctx, id, patch))
}

func (r *cachedBlogRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, r.rdb, cache.BlogKey(id), cache.BlogListKey)
	return nil
}

func (r *cachedBlogRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error) {
	return r.invalidateAfter(ctx, id)(r.inner.ToggleLike(ctx, id, userID))
}

func (r *cachedBlogRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Blog, error) {
	return r.invalidateAfter(ctx, id)(r.inner.AddComment(ctx, id, comment))
}

func (r *cachedBlogRepository) EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error) {
	return r.invalidateAfter(ctx, id)(r.inner.EditComment(ctx, id, commentID, text))
}

func (r *cachedBlogRepository) DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error) {
	return r.invalidateAfter(ctx, id)(r.inner.DeleteComment(ctx, id, commentID))
}

func (r *cachedBlogRepository) Ping(ctx context.Context) error {
	if err := r.inner.Ping(ctx); err != nil {
		return err
	}
	return r.rdb.Ping(ctx).Err()
}

func (r *cachedBlogRepository) invalidateAfter(ctx context.Context, id string) func(*models.Blog, error) (*models.Blog, error) {
	return func(blog *models.Blog, err error) (*models.Blog, error) {
		if err != nil {
			return nil, err
		}
		cache.Invalidate(ctx, r.rdb, cache.BlogKey(id), cache.BlogListKey)
		return blog, nil
	}
}
