package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/services/auth"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName     = "portfolio_session"
	SessionTokenKey = "session_token"

	contextUserKey  = "user"
	contextTokenKey = "session_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// TokenFromRequest берёт токен из заголовка Authorization, затем из cookie сессии
func TokenFromRequest(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}

	token, _ := sess.Values[SessionTokenKey].(string)
	return token
}

func RequireAuth(log *slog.Logger, authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
			}

			user, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidSession) {
					return c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid or expired session"})
				}

				log.Error("failed to authenticate request", sl.Err(err))
				return c.JSON(http.StatusInternalServerError, response.ErrInternal)
			}

			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)

			return next(c)
		}
	}
}

// RequireAdmin ставится после RequireAuth
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		}

		if !user.IsAdmin {
			return c.JSON(http.StatusForbidden, response.ErrAdminRequired)
		}

		return next(c)
	}
}

func CurrentUser(c echo.Context) (models.User, bool) {
	user, ok := c.Get(contextUserKey).(models.User)
	return user, ok
}

func CurrentToken(c echo.Context) string {
	token, _ := c.Get(contextTokenKey).(string)
	return token
}
