package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockArticleRepository is a mock of the ArticleRepository interface
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) IncrementReadCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) List(ctx context.Context, f repository.ArticleFilter, limit, offset int) ([]*models.Article, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockArticleRepository) Count(ctx context.Context, f repository.ArticleFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	args := m.Called(ctx, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestServer wires a Server over the given mocks, bypassing DB and Redis.
func newTestServer(userRepo repository.UserRepository, articleRepo repository.ArticleRepository) *Server {
	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret-key", Port: "0"},
		userRepo:    userRepo,
		articleRepo: articleRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.articleService = service.NewArticleService(articleRepo, userRepo)
	return s
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestSignupHandler(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, nil)
	mockUsers.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil)

	s := newTestServer(mockUsers, new(MockArticleRepository))
	app := fiber.New()
	app.Post("/user/signup", s.Signup)

	t.Run("Success", func(t *testing.T) {
		resp := postJSON(t, app, "/user/signup", map[string]string{
			"first_name": "Jane",
			"last_name":  "Doe",
			"email":      "jane@example.com",
			"password":   "SecurePass12",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		assert.Equal(t, "success", envelope["status"])
		assert.Equal(t, "Signup successful", envelope["message"])

		data := envelope["data"].(map[string]any)
		user := data["user"].(map[string]any)
		assert.Equal(t, "jane@example.com", user["email"])
		// Password hash must never leave the API.
		_, exposed := user["password"]
		assert.False(t, exposed)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		resp := postJSON(t, app, "/user/signup", map[string]string{"email": "jane@example.com"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		assert.Equal(t, "failed", envelope["status"])
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		taken := new(MockUserRepository)
		taken.On("GetByEmail", mock.Anything, "jane@example.com").
			Return(&models.User{ID: 2, Email: "jane@example.com"}, nil)

		s := newTestServer(taken, new(MockArticleRepository))
		app := fiber.New()
		app.Post("/user/signup", s.Signup)

		resp := postJSON(t, app, "/user/signup", map[string]string{
			"first_name": "Jane",
			"last_name":  "Doe",
			"email":      "jane@example.com",
			"password":   "SecurePass12",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestLoginHandler(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{ID: 1, FirstName: "Jane", Email: "jane@example.com", Password: string(hashed)}, nil)
	mockUsers.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	s := newTestServer(mockUsers, new(MockArticleRepository))
	app := fiber.New()
	app.Post("/user/login", s.Login)

	t.Run("Success Returns Token", func(t *testing.T) {
		resp := postJSON(t, app, "/user/login", map[string]string{
			"email":    "jane@example.com",
			"password": "SecurePass12",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		assert.Equal(t, "success", envelope["status"])
		data := envelope["data"].(map[string]any)
		token := data["token"].(string)
		assert.NotEmpty(t, token)

		// The issued token must pass our own auth middleware checks.
		userID, ok := s.parseToken(token)
		assert.True(t, ok)
		assert.Equal(t, uint(1), userID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		resp := postJSON(t, app, "/user/login", map[string]string{
			"email":    "jane@example.com",
			"password": "WrongPass99",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		resp := postJSON(t, app, "/user/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "SecurePass12",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutHandler(t *testing.T) {
	s := newTestServer(new(MockUserRepository), new(MockArticleRepository))
	app := fiber.New()
	app.Post("/user/logout", s.Logout)

	resp := postJSON(t, app, "/user/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "success", envelope["status"])
	assert.Equal(t, "Logout successful", envelope["message"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(new(MockUserRepository), new(MockArticleRepository))
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": currentUserID(c)})
	})

	token, err := s.generateToken(42, "Jane", "jane@example.com")
	require.NoError(t, err)

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Bearer Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Query Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Foreign Secret Rejected", func(t *testing.T) {
		other := newTestServer(new(MockUserRepository), new(MockArticleRepository))
		other.config.JWTSecret = "some-other-secret"
		foreign, err := other.generateToken(42, "Jane", "jane@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
