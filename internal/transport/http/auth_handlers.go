package http

import (
	"errors"
	"log/slog"
	"net/http"

	"asteca_portfolio/internal/metrics"
	"asteca_portfolio/internal/middleware"
	"asteca_portfolio/internal/services/auth"
	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/request"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Login godoc
// @Summary Вход администратора
// @Description Проверяет логин и пароль, выдаёт токен сессии и ставит http-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Не указаны логин или пароль"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Router /auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("missing credentials")
		return c.JSON(http.StatusBadRequest, response.ErrMissingCredentials)
	}

	token, user, err := r.AuthService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return r.fail(c, log, err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	if err := r.saveSessionCookie(c, token, r.sessionMaxAge); err != nil {
		log.Warn("failed to set session cookie", slog.String("error", err.Error()))
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message:      "Login successful",
		User:         user,
		SessionToken: token,
	})
}

// Logout godoc
// @Summary Выход
// @Description Закрывает текущую сессию и удаляет cookie. Без сессии тоже отвечает 200.
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	if token := middleware.TokenFromRequest(c); token != "" {
		if err := r.AuthService.Logout(c.Request().Context(), token); err != nil {
			log.Error("failed to close session", slog.String("error", err.Error()))
		}
	}

	if err := r.saveSessionCookie(c, "", -1); err != nil {
		log.Warn("failed to clear session cookie", slog.String("error", err.Error()))
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Logged out successfully"))
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} response.ErrorResponse "Нет действующей сессии"
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (r *Routers) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
	}

	return c.JSON(http.StatusOK, dto.MeResponse{User: user})
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль или слишком короткий новый"
// @Failure 401 {object} response.ErrorResponse "Нет действующей сессии"
// @Security ApiKeyAuth
// @Router /auth/change-password [post]
func (r *Routers) ChangePassword(c echo.Context) error {
	const op = "http.routers.ChangePassword"

	log := r.log.With(
		slog.String("op", op),
	)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
	}

	var req dto.ChangePasswordRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.ErrInvalidRequestFormat.Error, err.Error()))
	}

	if err := r.AuthService.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Password changed successfully"))
}

func (r *Routers) saveSessionCookie(c echo.Context, token string, maxAge int) error {
	sess, err := session.Get(middleware.SessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	if token == "" {
		delete(sess.Values, middleware.SessionTokenKey)
	} else {
		sess.Values[middleware.SessionTokenKey] = token
	}

	return sess.Save(c.Request(), c.Response())
}
