package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/model"
)

// stubUserRepo resolves every lookup to a fixed user, or fails when nil.
type stubUserRepo struct {
	user *model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

const testSecret = "test-secret"

func issueToken(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := auth.NewJWTService(testSecret, "HS256", 30*time.Minute).Generate(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

func newProtectedServer(repo *stubUserRepo, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{JWT(testSecret), LoadUser(repo)}, extra...)
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, CurrentUser(c))
	}, chain...)
	return e
}

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	user := &model.User{ID: 1, Email: "user@example.com", Role: model.RoleRegular}
	repo := &stubUserRepo{user: user}

	t.Run("valid token passes", func(t *testing.T) {
		rec := doRequest(newProtectedServer(repo), issueToken(t, user))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := doRequest(newProtectedServer(repo), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := doRequest(newProtectedServer(repo), "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		token, err := auth.NewJWTService("other-secret", "HS256", time.Minute).Generate(user.ID, user.Email)
		require.NoError(t, err)
		rec := doRequest(newProtectedServer(repo), token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for deleted user is rejected", func(t *testing.T) {
		ghost := &model.User{ID: 99, Email: "ghost@example.com"}
		rec := doRequest(newProtectedServer(repo), issueToken(t, ghost))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("regular user is forbidden", func(t *testing.T) {
		user := &model.User{ID: 1, Role: model.RoleRegular}
		repo := &stubUserRepo{user: user}
		rec := doRequest(newProtectedServer(repo, RequireAdmin), issueToken(t, user))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := &model.User{ID: 2, Role: model.RoleAdmin}
		repo := &stubUserRepo{user: admin}
		rec := doRequest(newProtectedServer(repo, RequireAdmin), issueToken(t, admin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no resolved user is unauthenticated", func(t *testing.T) {
		e := echo.New()
		e.GET("/protected", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}, RequireAdmin)

		rec := doRequest(e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
