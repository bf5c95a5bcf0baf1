package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SAITARUN432/backendblog/internal/media"
	"github.com/SAITARUN432/backendblog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBlogRepository is a mock of the BlogRepository interface
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) blog(args mock.Arguments) (*models.Blog, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id))
}

func (m *MockBlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) UpdateFields(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, patch))
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBlogRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, userID))
}

func (m *MockBlogRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, comment))
}

func (m *MockBlogRepository) EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, commentID, text))
}

func (m *MockBlogRepository) DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, commentID))
}

func (m *MockBlogRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type nopUserRepository struct{}

func (nopUserRepository) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (nopUserRepository) Create(context.Context, *models.User) error              { return nil }

func newMockedServer(t *testing.T, repo *MockBlogRepository) *testServer {
	t.Helper()
	cfg := testConfig(t)
	s, err := NewServerWithDeps(cfg, Deps{
		Blogs: repo,
		Users: nopUserRepository{},
		Media: media.NewStore(afero.NewMemMapFs(), cfg.MaxUploadMB),
	})
	require.NoError(t, err)
	return &testServer{Server: s, app: s.App()}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"blog not found", models.NewBlogNotFoundError("x"), fiber.StatusNotFound},
		{"comment not found", models.NewCommentNotFoundError("x"), fiber.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", models.ErrBlogNotFound), fiber.StatusNotFound},
		{"validation", models.NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{"forbidden", models.NewForbiddenError("no"), fiber.StatusForbidden},
		{"config", models.NewConfigError("JWT secret not configured"), fiber.StatusInternalServerError},
		{"internal", models.NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapServiceError(tt.err))
		})
	}
}

func TestStoreFailure_IsNotLeaked(t *testing.T) {
	repo := new(MockBlogRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("db connection error: password=hunter2"))
	repo.On("GetByID", mock.Anything, "b1").Return(nil, errors.New("db connection error"))
	ts := newMockedServer(t, repo)

	for _, path := range []string{"/api/blogs", "/api/blogs/b1"} {
		resp, body := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		e := decodeError(t, body)
		assert.Equal(t, models.CodeInternal, e.Code)
		assert.Equal(t, "Internal server error", e.Error)
		assert.NotContains(t, string(body), "hunter2")
	}
	repo.AssertExpectations(t)
}

func TestCreateBlog_StoreFailure(t *testing.T) {
	repo := new(MockBlogRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Blog")).Return(errors.New("insert failed"))
	ts := newMockedServer(t, repo)

	resp, _ := ts.do(t, http.MethodPost, "/api/blogs", fiber.Map{"userName": "alice", "textArea": "hi"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestToggleLike_PassesUserThrough(t *testing.T) {
	repo := new(MockBlogRepository)
	blog := models.NewBlog("alice", "hi", nil)
	blog.ID = "b1"
	blog.ToggleLike("$likes")
	repo.On("ToggleLike", mock.Anything, "b1", "$likes").Return(blog, nil).Once()
	ts := newMockedServer(t, repo)

	resp, body := ts.do(t, http.MethodPut, "/api/blogs/b1/like", fiber.Map{"userId": "$likes"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"$likes"}, decodeBlog(t, body).LikedBy)
	repo.AssertExpectations(t)
}
