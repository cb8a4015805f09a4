package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "asteca_portfolio/internal/app/http"
	"asteca_portfolio/internal/config"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/repository"
	"asteca_portfolio/internal/services/auth"
	contact "asteca_portfolio/internal/services/contact_service"
	media "asteca_portfolio/internal/services/media_service"
	portfolio "asteca_portfolio/internal/services/portfolio_service"
	filestorage "asteca_portfolio/internal/storage/filestorage"
	"asteca_portfolio/internal/storage/postgresql"
	redisapp "asteca_portfolio/internal/storage/redis"
	httprouters "asteca_portfolio/internal/transport/http"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	storage    *postgresql.Storage
	redis      *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := storage.Migrate(ctx); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(storage.Pool())

	var (
		sessions    repository.SessionRepository
		redisClient *redisapp.Client
	)

	opts := []httprouters.Option{
		httprouters.WithHealthCheck("database", storage),
		httprouters.WithSessionCookie(cfg.HTTP.CookieSecure, int(cfg.SessionTTL.Seconds())),
	}

	if cfg.Redis.RedisAddr != "" {
		redisClient = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		sessions = repository.NewRedisSessionRepo(redisClient)
		opts = append(opts, httprouters.WithHealthCheck("redis", redisClient))
		log.Info("sessions stored in redis", slog.String("addr", cfg.Redis.RedisAddr))
	} else {
		sessions = repository.NewMemorySessionRepo(cfg.SessionTTL, 10*time.Minute)
		log.Info("redis not configured, sessions stored in memory")
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authService := auth.New(log, repo.User, sessions, cfg.SecretKey, cfg.SessionTTL)
	contactService := contact.NewContactService(log, repo.Contact)
	portfolioService := portfolio.NewPortfolioService(log, repo.Portfolio, repo.Contact, cfg.FileStorage.BaseURL)
	mediaService := media.NewMediaService(log, fileStorage, cfg.FileStorage.MaxSize)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error("failed to seed admin user", sl.Err(err))
	}

	routers := httprouters.NewRouter(log, authService, portfolioService, contactService, mediaService, opts...)

	server := httpapp.New(log, cfg, routers)
	if err := server.BuildRouters(); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		log:        log,
		HTTPServer: server,
		storage:    storage,
		redis:      redisClient,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis", sl.Err(err))
		}
	}

	a.storage.Stop()
}
