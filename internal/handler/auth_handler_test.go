package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/errors"
	"storefront/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func postJSON(e *echo.Echo, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Register", mock.Anything, "Test User", "new@example.com", "secret123").
			Return(&model.User{ID: 1, Name: "Test User", Email: "new@example.com", Role: model.RoleRegular}, nil)
		h := NewAuthHandler(svc)

		rec := postJSON(newEcho(), h.Register,
			`{"name":"Test User","email":"new@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "new@example.com", user.Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email maps to 400", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Register", mock.Anything, "Test User", "taken@example.com", "secret123").
			Return(nil, errors.ErrEmailTaken)
		h := NewAuthHandler(svc)

		rec := postJSON(newEcho(), h.Register,
			`{"name":"Test User","email":"taken@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email rejected before the service", func(t *testing.T) {
		svc := new(MockUserService)
		h := NewAuthHandler(svc)

		rec := postJSON(newEcho(), h.Register,
			`{"name":"Test User","email":"not-an-email","password":"secret123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns bearer token", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Login", mock.Anything, "user@example.com", "secret123").
			Return("signed-token", &model.User{ID: 1}, nil)
		h := NewAuthHandler(svc)

		rec := postJSON(newEcho(), h.Login,
			`{"email":"user@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Login", mock.Anything, "user@example.com", "wrongpass1").
			Return("", nil, errors.ErrInvalidCredentials)
		h := NewAuthHandler(svc)

		rec := postJSON(newEcho(), h.Login,
			`{"email":"user@example.com","password":"wrongpass1"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
