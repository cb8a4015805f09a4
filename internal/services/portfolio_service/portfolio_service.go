package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/repository"
	"asteca_portfolio/internal/storage"
	"asteca_portfolio/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ContactCounter interface {
	CountMessages(ctx context.Context) (models.ContactStats, error)
}

type PortfolioService struct {
	log         *slog.Logger
	repo        repository.PortfolioRepository
	contacts    ContactCounter
	mediaPrefix string
}

// mediaPrefix публичный префикс загрузок (например "/uploads"); file_path и
// thumbnail_path элементов обязаны начинаться с него
func NewPortfolioService(log *slog.Logger, repo repository.PortfolioRepository, contacts ContactCounter, mediaPrefix string) *PortfolioService {
	return &PortfolioService{
		log:         log,
		repo:        repo,
		contacts:    contacts,
		mediaPrefix: "/" + strings.Trim(mediaPrefix, "/"),
	}
}

// checkMediaRefs не пускает ссылки на файлы вне хранилища загрузок
func (s *PortfolioService) checkMediaRefs(item models.PortfolioItem) error {
	refs := []struct {
		field string
		value *string
	}{
		{"file_path", item.FilePath},
		{"thumbnail_path", item.ThumbnailPath},
	}

	var validationErrors []string
	for _, ref := range refs {
		if ref.value == nil {
			continue
		}
		v := *ref.value
		if path.Clean(v) != v || !strings.HasPrefix(v, s.mediaPrefix+"/") {
			validationErrors = append(validationErrors,
				fmt.Sprintf("%s must be a path under %s/", ref.field, s.mediaPrefix))
		}
	}

	if len(validationErrors) > 0 {
		return &models.ItemValidationError{Errors: validationErrors}
	}

	return nil
}

// ListPublic возвращает только активные элементы
func (s *PortfolioService) ListPublic(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error) {
	const op = "service.PortfolioService.ListPublic"

	filter.IncludeInactive = false

	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		s.log.Error("failed to list items", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *PortfolioService) ListAdmin(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error) {
	const op = "service.PortfolioService.ListAdmin"

	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		s.log.Error("failed to list items", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// GetPublic скрывает неактивные элементы так же, как отсутствующие
func (s *PortfolioService) GetPublic(ctx context.Context, id uuid.UUID) (models.PortfolioItem, error) {
	const op = "service.PortfolioService.GetPublic"

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if !item.IsActive {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return item, nil
}

func (s *PortfolioService) Create(ctx context.Context, req dto.CreateItemRequest, createdBy uuid.UUID) (models.PortfolioItem, error) {
	const op = "service.PortfolioService.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", req.Title),
		slog.String("type", req.Type),
	)

	log.Info("creating portfolio item")

	item := req.ToDomain(createdBy)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.checkMediaRefs(item); err != nil {
		log.Warn("item references foreign media", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		log.Error("failed to create item", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("portfolio item created", slog.String("id", created.ID.String()))

	return created, nil
}

// Update применяет частичное обновление; итоговый элемент должен пройти Validate
func (s *PortfolioService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (models.PortfolioItem, error) {
	const op = "service.PortfolioService.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	updates := req.ApplyTo(&item)
	if len(updates) == 0 {
		return item, nil
	}

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.checkMediaRefs(item); err != nil {
		log.Warn("item references foreign media", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateItemFields(ctx, id, updates); err != nil {
		log.Error("failed to update item", sl.Err(err))
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("portfolio item updated")

	return updated, nil
}

func (s *PortfolioService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "service.PortfolioService.Delete"

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("portfolio item deleted", slog.String("op", op), slog.String("id", id.String()))

	return nil
}

func (s *PortfolioService) Stats(ctx context.Context) (models.Stats, error) {
	const op = "service.PortfolioService.Stats"

	var stats models.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		portfolio, err := s.repo.CountItems(gctx)
		if err != nil {
			return err
		}
		stats.Portfolio = portfolio
		return nil
	})
	g.Go(func() error {
		contact, err := s.contacts.CountMessages(gctx)
		if err != nil {
			return err
		}
		stats.Contact = contact
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to collect stats", slog.String("op", op), sl.Err(err))
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
