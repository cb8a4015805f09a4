package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"asteca_portfolio/internal/domain/models"
	redisapp "asteca_portfolio/internal/storage/redis"
)

type RedisSessionRepo struct {
	Client *redisapp.Client
}

func NewRedisSessionRepo(client *redisapp.Client) *RedisSessionRepo {
	return &RedisSessionRepo{Client: client}
}

func (r *RedisSessionRepo) SaveSession(ctx context.Context, session models.Session, exp time.Duration) error {
	const op = "repository.RedisSessionRepo.SaveSession"

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, sessionKey(session.UserID.String(), session.ID), payload, exp).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSessionRepo) SessionExists(ctx context.Context, userID, sessionID string) (bool, error) {
	const op = "repository.RedisSessionRepo.SessionExists"

	n, err := r.Client.Exists(ctx, sessionKey(userID, sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (r *RedisSessionRepo) DeleteSession(ctx context.Context, userID, sessionID string) error {
	const op = "repository.RedisSessionRepo.DeleteSession"

	if err := r.Client.Del(ctx, sessionKey(userID, sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSessionRepo) DeleteAllUserSessions(ctx context.Context, userID string) error {
	const op = "repository.RedisSessionRepo.DeleteAllUserSessions"

	keys, err := r.Client.Keys(ctx, sessionKey(userID, "*")).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func sessionKey(userID, sessionID string) string {
	return "session:" + userID + ":" + sessionID
}
