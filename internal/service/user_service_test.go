package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", "HS256", 30*time.Minute)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(repo *MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success",
			email:    "new@example.com",
			password: "secret123",
			setup: func(repo *MockUserRepository) {
				repo.On("FindByEmail", ctx, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "duplicate email",
			email:    "taken@example.com",
			password: "secret123",
			setup: func(repo *MockUserRepository) {
				repo.On("FindByEmail", ctx, "taken@example.com").
					Return(&model.User{ID: 1, Email: "taken@example.com"}, nil)
			},
			wantErr: errors.ErrEmailTaken,
		},
		{
			name:     "weak password",
			email:    "new@example.com",
			password: "short",
			setup:    func(repo *MockUserRepository) {},
			wantErr:  errors.ErrWeakPassword,
		},
		{
			name:     "password without digits",
			email:    "new@example.com",
			password: "lettersonly",
			setup:    func(repo *MockUserRepository) {},
			wantErr:  errors.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setup(repo)
			svc := NewUserService(repo, newTestJWTService())

			user, err := svc.Register(ctx, "Test User", tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleRegular, user.Role)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &model.User{
		ID:           7,
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleRegular,
	}

	t.Run("success issues verifiable token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "user@example.com").Return(stored, nil)
		jwtService := newTestJWTService()
		svc := NewUserService(repo, jwtService)

		token, user, err := svc.Login(ctx, "user@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)

		claims, err := jwtService.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "user@example.com").Return(stored, nil)
		svc := NewUserService(repo, newTestJWTService())

		_, _, err := svc.Login(ctx, "user@example.com", "wrongpass1")
		assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, newTestJWTService())

		_, _, err := svc.Login(ctx, "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, uint(3)).Return(&model.User{ID: 3}, nil)
		svc := NewUserService(repo, newTestJWTService())

		user, err := svc.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), user.ID)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, newTestJWTService())

		_, err := svc.GetByID(ctx, 404)
		assert.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}
