package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/services/auth"
	"asteca_portfolio/internal/storage"
	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "asteca_portfolio/docs"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, models.User, error)
	Authenticate(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type PortfolioService interface {
	ListPublic(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error)
	ListAdmin(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error)
	GetPublic(ctx context.Context, id uuid.UUID) (models.PortfolioItem, error)
	Create(ctx context.Context, req dto.CreateItemRequest, createdBy uuid.UUID) (models.PortfolioItem, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (models.PortfolioItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (models.Stats, error)
}

type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type MediaService interface {
	UploadMedia(ctx context.Context, file *multipart.FileHeader) (models.StoredFile, error)
}

// HealthChecker реализуют хранилища, участвующие в readiness-пробе
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log              *slog.Logger
	AuthService      AuthService
	PortfolioService PortfolioService
	ContactService   ContactService
	MediaService     MediaService
	checks           map[string]HealthChecker
	cookieSecure     bool
	sessionMaxAge    int
}

type Option func(*Routers)

// WithHealthCheck добавляет зависимость в /health/ready
func WithHealthCheck(name string, checker HealthChecker) Option {
	return func(r *Routers) {
		r.checks[name] = checker
	}
}

// WithSessionCookie задаёт параметры cookie, выставляемой при входе
func WithSessionCookie(secure bool, maxAge int) Option {
	return func(r *Routers) {
		r.cookieSecure = secure
		r.sessionMaxAge = maxAge
	}
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	portfolioService PortfolioService,
	contactService ContactService,
	mediaService MediaService,
	opts ...Option,
) *Routers {
	r := &Routers{
		log:              log,
		AuthService:      authService,
		PortfolioService: portfolioService,
		ContactService:   contactService,
		MediaService:     mediaService,
		checks:           make(map[string]HealthChecker),
		sessionMaxAge:    86400,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var ErrInvalidUUID = errors.New("not valid UUID")

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return id, nil
}

// validationDetails собирает текст ошибок валидации домена
func validationDetails(err error) (string, bool) {
	var itemErr *models.ItemValidationError
	if errors.As(err, &itemErr) {
		return itemErr.Error(), true
	}

	var mediaErr *models.MediaValidationError
	if errors.As(err, &mediaErr) {
		return mediaErr.Error(), true
	}

	return "", false
}

// errorStatus переводит ошибки сервисов и хранилища в HTTP-код и тело ответа
func errorStatus(err error) (int, response.ErrorResponse) {
	if details, ok := validationDetails(err); ok {
		return http.StatusBadRequest, response.ErrorResponseWithDetails("validation failed", details)
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrAuthenticationFailed
	case errors.Is(err, auth.ErrInvalidSession):
		return http.StatusUnauthorized, response.ErrorResponse{Error: "invalid or expired session"}
	case errors.Is(err, auth.ErrWrongPassword):
		return http.StatusBadRequest, response.ErrorResponse{Error: "current password is incorrect"}
	case errors.Is(err, storage.ErrItemNotFound):
		return http.StatusNotFound, response.ErrItemNotFound
	case errors.Is(err, storage.ErrMessageNotFound):
		return http.StatusNotFound, response.ErrMessageNotFound
	case errors.Is(err, storage.ErrUserNotFound):
		return http.StatusNotFound, response.ErrorResponse{Error: "user not found"}
	case errors.Is(err, storage.ErrInvalidFileType):
		return http.StatusBadRequest, response.ErrorResponse{Error: "file type not allowed"}
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, response.ErrorResponse{Error: "file too large"}
	}

	return http.StatusInternalServerError, response.ErrInternal
}

func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.String("error", err.Error()))
	} else {
		log.Warn("request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	return c.JSON(status, body)
}
