package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/transport/http/dto"
)

type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type Persister interface {
	Load() (Session, error)
	Save(s Session) error
	Clear() error
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (dto.LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (models.User, error)
}

// CookieResetter реализуют клиенты, которые держат cookie сессии сервера
type CookieResetter interface {
	ResetCookies() error
}

// Store единственный владелец сессии. API-клиент только читает токен через Token.
type Store struct {
	mu      sync.RWMutex
	log     *slog.Logger
	auth    Authenticator
	persist Persister
	current *Session
}

func NewStore(log *slog.Logger, auth Authenticator, persist Persister) *Store {
	return &Store{
		log:     log,
		auth:    auth,
		persist: persist,
	}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Login при ошибке ничего не сохраняет и не трогает текущую сессию
func (s *Store) Login(ctx context.Context, username, password string) (Session, error) {
	const op = "session.Store.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		return Session{}, err
	}

	if resp.SessionToken == "" {
		return Session{}, fmt.Errorf("%s: server returned empty session token", op)
	}

	sess := Session{Token: resp.SessionToken, User: resp.User}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	if err := s.persist.Save(sess); err != nil {
		log.Warn("failed to persist session", sl.Err(err))
	}

	return sess, nil
}

// Logout сообщает серверу о выходе, но локальную сессию стирает в любом случае
func (s *Store) Logout(ctx context.Context) error {
	const op = "session.Store.Logout"

	if s.Token() != "" {
		if err := s.auth.Logout(ctx); err != nil {
			s.log.Warn("server logout failed", slog.String("op", op), sl.Err(err))
		}
	}

	return s.clear(op)
}

// Invalidate стирает сессию без обращения к серверу, например после 401
func (s *Store) Invalidate() {
	_ = s.clear("session.Store.Invalidate")
}

func (s *Store) clear(op string) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if resetter, ok := s.auth.(CookieResetter); ok {
		if err := resetter.ResetCookies(); err != nil {
			s.log.Warn("failed to reset session cookies", slog.String("op", op), sl.Err(err))
		}
	}

	if err := s.persist.Clear(); err != nil {
		s.log.Error("failed to clear persisted session", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Restore поднимает сохранённую сессию и подтверждает её через /auth/me.
// 401 стирает сессию. При сетевой ошибке файл остаётся, но сессия
// не активируется до следующей успешной проверки.
func (s *Store) Restore(ctx context.Context) error {
	const op = "session.Store.Restore"

	log := s.log.With(slog.String("op", op))

	saved, err := s.persist.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return ErrNoSession
		}
		log.Warn("persisted session unreadable", sl.Err(err))
		_ = s.persist.Clear()
		return ErrNoSession
	}

	s.mu.Lock()
	s.current = &saved
	s.mu.Unlock()

	user, err := s.auth.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Info("persisted session expired")
			s.Invalidate()
			return fmt.Errorf("%s: %w", op, err)
		}

		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()

		log.Warn("could not confirm session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	saved.User = user

	s.mu.Lock()
	s.current = &saved
	s.mu.Unlock()

	if err := s.persist.Save(saved); err != nil {
		log.Warn("failed to refresh persisted session", sl.Err(err))
	}

	return nil
}
