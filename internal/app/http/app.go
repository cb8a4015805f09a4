package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"asteca_portfolio/internal/config"
	"asteca_portfolio/internal/lib/logger/sl"
	appmw "asteca_portfolio/internal/middleware"
	httprouters "asteca_portfolio/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	cfg     *config.Config
}

func New(log *slog.Logger, cfg *config.Config, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = NewValidator()

	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.HTTP.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !containsWildcard(cfg.HTTP.CORSOrigins),
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.FileStorage.MaxSize+1<<20)))
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		cfg:     cfg,
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Echo нужен тестам и для встраивания в httptest.Server
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("address", s.address()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) address() string {
	return net.JoinHostPort(s.cfg.HTTP.Host, s.cfg.HTTP.Port)
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	timeout := s.cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	optCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() error {
	loginLimit, err := appmw.RateLimit(s.log, s.cfg.RateLimit.Login)
	if err != nil {
		s.log.Error("invalid login rate limit", sl.Err(err))
		return err
	}

	requireAuth := appmw.RequireAuth(s.log, s.routers.AuthService)

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)
	s.e.Static(s.cfg.FileStorage.BaseURL, s.cfg.FileStorage.BaseDir)

	api := s.e.Group(strings.TrimRight(s.cfg.HTTP.APIPrefix, "/"))
	{
		api.GET("/health", s.routers.Health)
		api.GET("/health/ready", s.routers.Ready)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.routers.Login, loginLimit)
			authGroup.POST("/logout", s.routers.Logout)
			authGroup.GET("/me", s.routers.Me, requireAuth)
			authGroup.POST("/change-password", s.routers.ChangePassword, requireAuth)
		}

		api.GET("/portfolio", s.routers.ListPortfolio)
		api.GET("/portfolio/:id", s.routers.GetPortfolioItem)
		api.POST("/contact", s.routers.SubmitContact)

		admin := api.Group("/admin", requireAuth, appmw.RequireAdmin)
		{
			admin.GET("/portfolio", s.routers.AdminListPortfolio)
			admin.POST("/portfolio", s.routers.CreatePortfolioItem)
			admin.PUT("/portfolio/:id", s.routers.UpdatePortfolioItem)
			admin.DELETE("/portfolio/:id", s.routers.DeletePortfolioItem)
			admin.POST("/upload", s.routers.UploadMedia)
			admin.GET("/contact", s.routers.ListContactMessages)
			admin.PUT("/contact/:id/read", s.routers.MarkContactRead)
			admin.GET("/stats", s.routers.Stats)
		}
	}

	return nil
}
