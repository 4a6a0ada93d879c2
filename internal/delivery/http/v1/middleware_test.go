package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/go-task-manager/internal/models"
	"github.com/dkovalev/go-task-manager/internal/repositories/users"
	"github.com/dkovalev/go-task-manager/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byName: make(map[string]*models.User)}
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepository) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return users.ErrUsernameTaken
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.byName[user.Username] = &clone
	return nil
}

var testHashParams = &argon2id.Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type middlewareFixture struct {
	router *gin.Engine
	tokens services.TokenService
	repo   *fakeUserRepository
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	repo := newFakeUserRepository()
	tokens := services.NewTokenService(
		"go-task-manager-test",
		[]byte("0123456789abcdef0123456789abcdef"),
		time.Hour,
	)
	handler := &handlerImpl{
		logger: zerolog.Nop(),
		tokens: tokens,
		users:  repo,
	}

	router := gin.New()
	router.GET("/protected", handler.HandleAuthMiddleware, func(c *gin.Context) {
		principal, ok := principalFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": principal.Username})
	})

	return &middlewareFixture{
		router: router,
		tokens: tokens,
		repo:   repo,
	}
}

func (f *middlewareFixture) registerUser(t *testing.T, username string) *models.User {
	t.Helper()

	hasher := services.NewPasswordHasher(testHashParams)
	hash, err := hasher.Hash("pw123456")
	require.NoError(t, err)

	user := &models.User{Username: username, PasswordHash: hash}
	require.NoError(t, f.repo.Save(context.Background(), user))
	return user
}

func (f *middlewareFixture) request(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)
	f.registerUser(t, "alice")

	token, _, err := f.tokens.Issue("alice", nil)
	require.NoError(t, err)

	w := f.request(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)

	w := f.request(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)
	f.registerUser(t, "alice")

	token, _, err := f.tokens.Issue("alice", nil)
	require.NoError(t, err)

	w := f.request(t, "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)

	w := f.request(t, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)

	// A structurally valid token whose subject doesn't resolve
	// to any stored user must be rejected.
	token, _, err := f.tokens.Issue("ghost", nil)
	require.NoError(t, err)

	w := f.request(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)
	f.registerUser(t, "alice")

	expired := services.NewTokenService(
		"go-task-manager-test",
		[]byte("0123456789abcdef0123456789abcdef"),
		-time.Second,
	)
	token, _, err := expired.Issue("alice", nil)
	require.NoError(t, err)

	w := f.request(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ForeignKey(t *testing.T) {
	t.Parallel()

	f := newMiddlewareFixture(t)
	f.registerUser(t, "alice")

	foreign := services.NewTokenService(
		"go-task-manager-test",
		[]byte("another-signing-key-material-123"),
		time.Hour,
	)
	token, _, err := foreign.Issue("alice", nil)
	require.NoError(t, err)

	w := f.request(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
