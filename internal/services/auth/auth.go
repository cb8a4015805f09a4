package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/jwt"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/repository"
	"asteca_portfolio/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type Auth struct {
	log        *slog.Logger
	users      repository.UserRepository
	sessions   repository.SessionRepository
	secret     string
	sessionTTL time.Duration
}

func New(log *slog.Logger, users repository.UserRepository, sessions repository.SessionRepository, secret string, sessionTTL time.Duration) *Auth {
	return &Auth{
		log:        log,
		users:      users,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Login проверяет пароль и выдаёт новый токен сессии.
// Предыдущие сессии пользователя при этом закрываются.
func (a *Auth) Login(ctx context.Context, username, password string) (string, models.User, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		log.Warn("inactive user")

		return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := a.sessions.DeleteAllUserSessions(ctx, user.ID.String()); err != nil {
		log.Error("failed to drop previous sessions", sl.Err(err))

		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.sessionTTL),
	}

	token, err := jwt.NewToken(user, session.ID, a.secret, a.sessionTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.sessions.SaveSession(ctx, session, a.sessionTTL); err != nil {
		log.Error("failed to save session", sl.Err(err))

		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	} else {
		user.LastLogin = &now
	}

	log.Info("user logged in successfully")

	return token, user, nil
}

// Authenticate возвращает владельца токена, если сессия ещё действует
func (a *Auth) Authenticate(ctx context.Context, token string) (models.User, error) {
	const op = "auth.Authenticate"

	claims, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	exists, err := a.sessions.SessionExists(ctx, claims.UserID, claims.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidSession)
	}

	return user, nil
}

// Logout закрывает сессию токена. Недействительный токен не считается ошибкой.
func (a *Auth) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	claims, err := jwt.ParseToken(token, a.secret)
	if err != nil {
		return nil
	}

	if err := a.sessions.DeleteSession(ctx, claims.UserID, claims.ID); err != nil {
		a.log.Error("failed to delete session", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(currentPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.UpdatePassword(ctx, userID, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password changed")

	return nil
}

// EnsureAdmin создаёт администратора по умолчанию, если его ещё нет
func (a *Auth) EnsureAdmin(ctx context.Context, username, email, password string) error {
	const op = "auth.EnsureAdmin"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	_, err := a.users.UserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = a.users.SaveUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passHash,
		IsAdmin:      true,
		IsActive:     true,
	})
	if err != nil && !errors.Is(err, storage.ErrUserExists) {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("default admin created")

	return nil
}
