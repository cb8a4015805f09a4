package repository

import (
	"context"
	"strings"
	"time"

	"asteca_portfolio/internal/domain/models"

	"github.com/patrickmn/go-cache"
)

// MemorySessionRepo хранит сессии в памяти процесса, когда Redis не настроен.
// Сессии теряются при перезапуске.
type MemorySessionRepo struct {
	cache *cache.Cache
}

func NewMemorySessionRepo(defaultExpiration, cleanupInterval time.Duration) *MemorySessionRepo {
	return &MemorySessionRepo{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (r *MemorySessionRepo) SaveSession(_ context.Context, session models.Session, exp time.Duration) error {
	r.cache.Set(sessionKey(session.UserID.String(), session.ID), session, exp)
	return nil
}

func (r *MemorySessionRepo) SessionExists(_ context.Context, userID, sessionID string) (bool, error) {
	_, found := r.cache.Get(sessionKey(userID, sessionID))
	return found, nil
}

func (r *MemorySessionRepo) DeleteSession(_ context.Context, userID, sessionID string) error {
	r.cache.Delete(sessionKey(userID, sessionID))
	return nil
}

func (r *MemorySessionRepo) DeleteAllUserSessions(_ context.Context, userID string) error {
	prefix := sessionKey(userID, "")
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
	return nil
}
