package repository

import (
	"context"
	"fmt"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ContactRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ContactRepo) SaveMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	const op = "repository.ContactRepo.SaveMessage"

	query, args, err := r.sb.Insert("contact_messages").
		Columns(
			"name",
			"email",
			"phone",
			"subject",
			"message",
			"project_type",
		).
		Values(
			msg.Name,
			msg.Email,
			msg.Phone,
			msg.Subject,
			msg.Message,
			msg.ProjectType,
		).
		Suffix("RETURNING id, created_at, is_read").
		ToSql()
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&msg.ID, &msg.CreatedAt, &msg.IsRead)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}

	return msg, nil
}

func (r *ContactRepo) ListMessages(ctx context.Context) ([]models.ContactMessage, error) {
	const op = "repository.ContactRepo.ListMessages"

	query, args, err := r.sb.Select(
		"id",
		"name",
		"email",
		"phone",
		"subject",
		"message",
		"project_type",
		"created_at",
		"is_read",
	).
		From("contact_messages").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Email,
			&m.Phone,
			&m.Subject,
			&m.Message,
			&m.ProjectType,
			&m.CreatedAt,
			&m.IsRead,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return messages, nil
}

func (r *ContactRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	const op = "repository.ContactRepo.MarkRead"

	query, args, err := r.sb.Update("contact_messages").
		Set("is_read", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
	}

	return nil
}

func (r *ContactRepo) CountMessages(ctx context.Context) (models.ContactStats, error) {
	const op = "repository.ContactRepo.CountMessages"

	query, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE NOT is_read)",
	).
		From("contact_messages").
		ToSql()
	if err != nil {
		return models.ContactStats{}, fmt.Errorf("%s: %w", op, err)
	}

	var stats models.ContactStats
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.TotalMessages, &stats.UnreadMessages); err != nil {
		return models.ContactStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
