package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormBlogRepository keeps each blog as one row; liked users and comments are JSON columns.
type gormBlogRepository struct {
	db     *gorm.DB
	system string
}

// NewGormBlogRepository creates a blog repository backed by Postgres or SQLite.
func NewGormBlogRepository(db *gorm.DB) BlogRepository {
	return &gormBlogRepository{db: db, system: db.Dialector.Name()}
}

func (r *gormBlogRepository) Create(ctx context.Context, blog *models.Blog) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.system, "blog.create")
	defer func() { observability.EndSpan(span, err) }()

	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}
	for i := range blog.Comments {
		if blog.Comments[i].ID == "" {
			blog.Comments[i].ID = uuid.NewString()
		}
	}
	blog.Normalize()
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *gormBlogRepository) GetByID(ctx context.Context, id string) (_ *models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.system, "blog.get")
	defer func() { observability.EndSpan(span, err) }()

	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, id)
	}
	blog.Normalize()
	return &blog, nil
}

func (r *gormBlogRepository) List(ctx context.Context) (_ []*models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.system, "blog.list")
	defer func() { observability.EndSpan(span, err) }()

	var blogs []*models.Blog
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&blogs).Error; err != nil {
		return nil, err
	}
	for _, b := range blogs {
		b.Normalize()
	}
	return blogs, nil
}

func (r *gormBlogRepository) UpdateFields(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	return r.mutate(ctx, "blog.update", id, func(b *models.Blog) (bool, error) {
		if patch.IsEmpty() {
			return false, nil
		}
		b.Apply(patch)
		return true, nil
	})
}

func (r *gormBlogRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.system, "blog.delete")
	defer func() { observability.EndSpan(span, err) }()

	result := r.db.WithContext(ctx).Delete(&models.Blog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.NewBlogNotFoundError(id)
	}
	return nil
}

func (r *gormBlogRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error) {
	return r.mutate(ctx, "blog.toggle_like", id, func(b *models.Blog) (bool, error) {
		b.ToggleLike(userID)
		return true, nil
	})
}

func (r *gormBlogRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Blog, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	return r.mutate(ctx, "blog.add_comment", id, func(b *models.Blog) (bool, error) {
		b.AddComment(comment)
		return true, nil
	})
}

func (r *gormBlogRepository) EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error) {
	return r.mutate(ctx, "blog.edit_comment", id, func(b *models.Blog) (bool, error) {
		if err := b.EditComment(commentID, text); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (r *gormBlogRepository) DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error) {
	return r.mutate(ctx, "blog.delete_comment", id, func(b *models.Blog) (bool, error) {
		return b.RemoveComment(commentID), nil
	})
}

func (r *gormBlogRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// mutate loads the blog under a row lock, applies fn and saves it when fn
// reports a change. SQLite has no row locks; its single connection serializes
// writers instead.
func (r *gormBlogRepository) mutate(ctx context.Context, op, id string, fn func(*models.Blog) (bool, error)) (_ *models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.system, op)
	defer func() { observability.EndSpan(span, err) }()

	var blog models.Blog
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&blog, "id = ?", id).Error; err != nil {
			return notFoundOr(err, id)
		}
		blog.Normalize()

		changed, err := fn(&blog)
		if err != nil || !changed {
			return err
		}

		blog.Normalize()
		blog.UpdatedAt = time.Now().UTC()
		return tx.Save(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func notFoundOr(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewBlogNotFoundError(id)
	}
	return err
}
