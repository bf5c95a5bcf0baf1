package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SAITARUN432/backendblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBlogRepositoryContract exercises behaviour every BlogRepository must share.
// missingID is a well-formed id that names no blog in the store.
func runBlogRepositoryContract(t *testing.T, newRepo func(t *testing.T) BlogRepository, missingID string) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))
		require.NotEmpty(t, blog.ID)

		got, err := repo.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.AuthorName)
		assert.Equal(t, "hi", got.Body)
		assert.Nil(t, got.ImagePath)
		assert.Equal(t, 0, got.LikeCount)
		assert.Empty(t, got.LikedBy)
		assert.Empty(t, got.Comments)
	})

	t.Run("empty content is accepted", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("", "", nil)
		require.NoError(t, repo.Create(ctx, blog))
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, missingID)
		assert.ErrorIs(t, err, models.ErrBlogNotFound)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)
		for i := range 3 {
			require.NoError(t, repo.Create(ctx, models.NewBlog(fmt.Sprintf("author-%d", i), "body", nil)))
		}

		blogs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, blogs, 3)
		for i, b := range blogs {
			assert.Equal(t, fmt.Sprintf("author-%d", i), b.AuthorName)
		}
	})

	t.Run("update fields", func(t *testing.T) {
		repo := newRepo(t)
		img := "/uploads/1-a.png"
		blog := models.NewBlog("alice", "hi", &img)
		require.NoError(t, repo.Create(ctx, blog))

		body := "edited"
		updated, err := repo.UpdateFields(ctx, blog.ID, models.BlogPatch{Body: &body})
		require.NoError(t, err)
		assert.Equal(t, "alice", updated.AuthorName)
		assert.Equal(t, "edited", updated.Body)
		require.NotNil(t, updated.ImagePath)
		assert.Equal(t, img, *updated.ImagePath)

		_, err = repo.UpdateFields(ctx, missingID, models.BlogPatch{Body: &body})
		assert.ErrorIs(t, err, models.ErrBlogNotFound)
	})

	t.Run("delete then get", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))

		require.NoError(t, repo.Delete(ctx, blog.ID))
		_, err := repo.GetByID(ctx, blog.ID)
		assert.ErrorIs(t, err, models.ErrBlogNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, blog.ID), models.ErrBlogNotFound)
	})

	t.Run("toggle like", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))

		liked, err := repo.ToggleLike(ctx, blog.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, liked.LikeCount)
		assert.Equal(t, []string{"u1"}, liked.LikedBy)

		unliked, err := repo.ToggleLike(ctx, blog.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, unliked.LikeCount)
		assert.Empty(t, unliked.LikedBy)

		_, err = repo.ToggleLike(ctx, missingID, "u1")
		assert.ErrorIs(t, err, models.ErrBlogNotFound)
	})

	t.Run("user ids are opaque", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))

		got, err := repo.ToggleLike(ctx, blog.ID, "$likes")
		require.NoError(t, err)
		assert.Equal(t, []string{"$likes"}, got.LikedBy)
	})

	t.Run("concurrent toggles by distinct users", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.ToggleLike(ctx, blog.ID, fmt.Sprintf("user-%d", i))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.LikeCount)
		assert.Len(t, got.LikedBy, n)
	})

	t.Run("comment lifecycle", func(t *testing.T) {
		repo := newRepo(t)
		blog := models.NewBlog("alice", "hi", nil)
		require.NoError(t, repo.Create(ctx, blog))

		created := time.Now().UTC().Truncate(time.Millisecond)
		withComment, err := repo.AddComment(ctx, blog.ID, models.Comment{Author: "bob", Text: "nice post", CreatedAt: created})
		require.NoError(t, err)
		require.Len(t, withComment.Comments, 1)
		comment := withComment.Comments[0]
		require.NotEmpty(t, comment.ID)

		edited, err := repo.EditComment(ctx, blog.ID, comment.ID, "even nicer")
		require.NoError(t, err)
		require.Len(t, edited.Comments, 1)
		assert.Equal(t, comment.ID, edited.Comments[0].ID)
		assert.Equal(t, "bob", edited.Comments[0].Author)
		assert.Equal(t, "even nicer", edited.Comments[0].Text)
		assert.True(t, created.Equal(edited.Comments[0].CreatedAt))

		_, err = repo.EditComment(ctx, blog.ID, missingID, "x")
		assert.ErrorIs(t, err, models.ErrCommentNotFound)
		_, err = repo.EditComment(ctx, missingID, comment.ID, "x")
		assert.ErrorIs(t, err, models.ErrBlogNotFound)

		unchanged, err := repo.DeleteComment(ctx, blog.ID, missingID)
		require.NoError(t, err)
		assert.Len(t, unchanged.Comments, 1)

		removed, err := repo.DeleteComment(ctx, blog.ID, comment.ID)
		require.NoError(t, err)
		assert.Empty(t, removed.Comments)

		_, err = repo.DeleteComment(ctx, missingID, comment.ID)
		assert.ErrorIs(t, err, models.ErrBlogNotFound)
		_, err = repo.AddComment(ctx, missingID, models.Comment{Author: "bob", Text: "x"})
		assert.ErrorIs(t, err, models.ErrBlogNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
