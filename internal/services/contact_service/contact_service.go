package services

import (
	"context"
	"fmt"
	"log/slog"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/repository"
	"asteca_portfolio/internal/transport/http/dto"

	"github.com/google/uuid"
)

type ContactService struct {
	log  *slog.Logger
	repo repository.ContactRepository
}

func NewContactService(log *slog.Logger, repo repository.ContactRepository) *ContactService {
	return &ContactService{
		log:  log,
		repo: repo,
	}
}

func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error) {
	const op = "service.ContactService.Submit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", req.Email),
	)

	msg, err := s.repo.SaveMessage(ctx, req.ToDomain())
	if err != nil {
		log.Error("failed to save contact message", sl.Err(err))
		return models.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact message received", slog.String("id", msg.ID.String()))

	return msg, nil
}

func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	const op = "service.ContactService.List"

	messages, err := s.repo.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return messages, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) error {
	const op = "service.ContactService.MarkRead"

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
