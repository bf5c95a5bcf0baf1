package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SAITARUN432/backendblog/internal/config"
	"github.com/SAITARUN432/backendblog/internal/database"
	"github.com/SAITARUN432/backendblog/internal/repository"
	"github.com/SAITARUN432/backendblog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

func newSQLiteSeeder(t *testing.T, opts Options) (*Seeder, repository.BlogRepository, repository.UserRepository) {
	t.Helper()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), config.StoreSQLite)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	blogs := repository.NewGormBlogRepository(db)
	users := repository.NewGormUserRepository(db)
	return NewSeeder(service.NewUserService(users), service.NewBlogService(blogs, nil), opts), blogs, users
}

func TestSeedBlogs(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newSQLiteSeeder(t, Options{NumBlogs: 5, MaxComments: 3, MaxLikes: 4, Seed: 42})

	seeded, err := s.SeedBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 5)

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 5)

	for i, b := range stored {
		assert.Equal(t, seeded[i].ID, b.ID)
		assert.NotEmpty(t, b.AuthorName)
		assert.NotEmpty(t, b.Body)
		assert.LessOrEqual(t, len(b.Comments), 3)
		assert.LessOrEqual(t, b.LikeCount, 4)
		assert.Equal(t, len(b.LikedBy), b.LikeCount)
	}
}

func TestSeedUser(t *testing.T) {
	ctx := context.Background()
	s, _, users := newSQLiteSeeder(t, Options{})

	_, err := s.SeedUser(ctx, service.RegisterUserInput{Name: "Bob", Email: "Bob@Example.com", Password: "pw"})
	require.NoError(t, err)

	stored, err := users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw")))

	_, err = s.SeedUser(ctx, service.RegisterUserInput{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	assert.Error(t, err)
}

func TestFactory_Upto(t *testing.T) {
	f := NewFactory(gofakeit.New(1))
	assert.Equal(t, 0, f.Upto(0))
	assert.Equal(t, 0, f.Upto(-3))
	for range 50 {
		n := f.Upto(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 3)
	}
}
