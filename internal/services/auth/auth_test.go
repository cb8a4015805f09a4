package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/jwt"
	"asteca_portfolio/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session models.Session, exp time.Duration) error {
	args := m.Called(ctx, session, exp)
	return args.Error(0)
}

func (m *MockSessionRepository) SessionExists(ctx context.Context, userID, sessionID string) (bool, error) {
	args := m.Called(ctx, userID, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, userID, sessionID string) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteAllUserSessions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return models.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
		IsActive:     true,
	}
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "admin123")

	tests := []struct {
		name      string
		username  string
		password  string
		mockSetup func(users *MockUserRepository, sessions *MockSessionRepository)
		wantErr   error
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "admin123",
			mockSetup: func(users *MockUserRepository, sessions *MockSessionRepository) {
				users.On("UserByUsername", ctx, "admin").Return(user, nil).Once()
				sessions.On("DeleteAllUserSessions", ctx, user.ID.String()).Return(nil).Once()
				sessions.On("SaveSession", ctx, mock.MatchedBy(func(s models.Session) bool {
					return s.UserID == user.ID && s.ID != ""
				}), 24*time.Hour).Return(nil).Once()
				users.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "x",
			mockSetup: func(users *MockUserRepository, _ *MockSessionRepository) {
				users.On("UserByUsername", ctx, "ghost").
					Return(models.User{}, storage.ErrUserNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "nope",
			mockSetup: func(users *MockUserRepository, _ *MockSessionRepository) {
				users.On("UserByUsername", ctx, "admin").Return(user, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			username: "admin",
			password: "admin123",
			mockSetup: func(users *MockUserRepository, _ *MockSessionRepository) {
				inactive := user
				inactive.IsActive = false
				users.On("UserByUsername", ctx, "admin").Return(inactive, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			sessions := new(MockSessionRepository)
			tt.mockSetup(users, sessions)

			a := New(slog.Default(), users, sessions, testSecret, 24*time.Hour)

			token, got, err := a.Login(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, got.ID)
				assert.NotNil(t, got.LastLogin)

				claims, err := jwt.ParseToken(token, testSecret)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
			}

			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "admin123")

	token, err := jwt.NewToken(user, "sid", testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("live session", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		sessions.On("SessionExists", ctx, user.ID.String(), "sid").Return(true, nil).Once()
		users.On("UserByID", ctx, user.ID).Return(user, nil).Once()

		got, err := New(slog.Default(), users, sessions, testSecret, time.Hour).Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("session deleted", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		sessions.On("SessionExists", ctx, user.ID.String(), "sid").Return(false, nil).Once()

		_, err := New(slog.Default(), users, sessions, testSecret, time.Hour).Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidSession)
		users.AssertNotCalled(t, "UserByID", mock.Anything, mock.Anything)
	})

	t.Run("bad token", func(t *testing.T) {
		a := New(slog.Default(), new(MockUserRepository), new(MockSessionRepository), testSecret, time.Hour)

		_, err := a.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("repository failure", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("SessionExists", ctx, user.ID.String(), "sid").Return(false, errors.New("redis down")).Once()

		_, err := New(slog.Default(), new(MockUserRepository), sessions, testSecret, time.Hour).Authenticate(ctx, token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidSession)
	})
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "admin123")

	token, err := jwt.NewToken(user, "sid", testSecret, time.Hour)
	require.NoError(t, err)

	sessions := new(MockSessionRepository)
	sessions.On("DeleteSession", ctx, user.ID.String(), "sid").Return(nil).Once()

	a := New(slog.Default(), new(MockUserRepository), sessions, testSecret, time.Hour)

	assert.NoError(t, a.Logout(ctx, token))
	assert.NoError(t, a.Logout(ctx, "garbage"))

	sessions.AssertExpectations(t)
}

func TestAuth_ChangePassword(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "admin123")

	t.Run("success", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("UserByID", ctx, user.ID).Return(user, nil).Once()
		users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(hash []byte) bool {
			return bcrypt.CompareHashAndPassword(hash, []byte("new-secret")) == nil
		})).Return(nil).Once()

		a := New(slog.Default(), users, new(MockSessionRepository), testSecret, time.Hour)
		require.NoError(t, a.ChangePassword(ctx, user.ID, "admin123", "new-secret"))
		users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("UserByID", ctx, user.ID).Return(user, nil).Once()

		a := New(slog.Default(), users, new(MockSessionRepository), testSecret, time.Hour)
		assert.ErrorIs(t, a.ChangePassword(ctx, user.ID, "bad", "new-secret"), ErrWrongPassword)
	})
}

func TestAuth_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("already present", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("UserByUsername", ctx, "admin").Return(newTestUser(t, "x"), nil).Once()

		a := New(slog.Default(), users, new(MockSessionRepository), testSecret, time.Hour)
		require.NoError(t, a.EnsureAdmin(ctx, "admin", "admin@example.com", "admin123"))
		users.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("UserByUsername", ctx, "admin").Return(models.User{}, storage.ErrUserNotFound).Once()
		users.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "admin" && u.IsAdmin && u.IsActive &&
				bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("admin123")) == nil
		})).Return(uuid.New(), nil).Once()

		a := New(slog.Default(), users, new(MockSessionRepository), testSecret, time.Hour)
		require.NoError(t, a.EnsureAdmin(ctx, "admin", "admin@example.com", "admin123"))
		users.AssertExpectations(t)
	})
}
