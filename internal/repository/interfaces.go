package repository

import (
	"context"
	"time"

	"asteca_portfolio/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error
}

type SessionRepository interface {
	SaveSession(ctx context.Context, session models.Session, exp time.Duration) error
	SessionExists(ctx context.Context, userID, sessionID string) (bool, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
}

type PortfolioRepository interface {
	CreateItem(ctx context.Context, item models.PortfolioItem) (models.PortfolioItem, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (models.PortfolioItem, error)
	ListItems(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error)
	UpdateItemFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	CountItems(ctx context.Context) (models.PortfolioStats, error)
}

type ContactRepository interface {
	SaveMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)
	ListMessages(ctx context.Context) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountMessages(ctx context.Context) (models.ContactStats, error)
}
