package repository

import (
	"context"
	"errors"
	"fmt"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

var itemColumns = []string{
	"p.id",
	"p.title",
	"p.description",
	"p.category",
	"p.type",
	"p.file_path",
	"p.url",
	"p.thumbnail_path",
	"p.tags",
	"p.is_active",
	"p.created_at",
	"p.updated_at",
	"p.created_by",
	"u.username",
}

// поля, которые разрешено менять через UpdateItemFields
var allowedItemFields = map[string]bool{
	"title":          true,
	"description":    true,
	"category":       true,
	"type":           true,
	"file_path":      true,
	"url":            true,
	"thumbnail_path": true,
	"tags":           true,
	"is_active":      true,
}

type PortfolioRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPortfolioRepository(db *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateItem сохраняет элемент и возвращает его в том виде, как он записан в БД
func (r *PortfolioRepo) CreateItem(ctx context.Context, item models.PortfolioItem) (models.PortfolioItem, error) {
	const op = "repository.PortfolioRepo.CreateItem"

	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	query, args, err := r.sb.Insert("portfolio_items").
		Columns(
			"title",
			"description",
			"category",
			"type",
			"file_path",
			"url",
			"thumbnail_path",
			"tags",
			"is_active",
			"created_by",
		).
		Values(
			item.Title,
			item.Description,
			string(item.Category),
			string(item.Type),
			item.FilePath,
			item.URL,
			item.ThumbnailPath,
			tags,
			item.IsActive,
			item.CreatedBy,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := r.GetItemByID(ctx, id)
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// GetItemByID возвращает элемент по ID независимо от is_active; удалённые не находятся
func (r *PortfolioRepo) GetItemByID(ctx context.Context, id uuid.UUID) (models.PortfolioItem, error) {
	const op = "repository.PortfolioRepo.GetItemByID"

	query, args, err := r.selectItems().
		Where(sq.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
		}
		return models.PortfolioItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// ListItems возвращает элементы, новые первыми. Теги сравниваются по пересечению.
func (r *PortfolioRepo) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.PortfolioItem, error) {
	const op = "repository.PortfolioRepo.ListItems"

	builder := r.selectItems()

	if !filter.IncludeInactive {
		builder = builder.Where(sq.Eq{"p.is_active": true})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"p.category": string(filter.Category)})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"p.type": string(filter.Type)})
	}
	if len(filter.Tags) > 0 {
		builder = builder.Where("p.tags && ?", pq.Array(filter.Tags))
	}

	query, args, err := builder.OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.PortfolioItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *PortfolioRepo) UpdateItemFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.PortfolioRepo.UpdateItemFields"

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	updateBuilder := r.sb.Update("portfolio_items").
		Set("updated_at", sq.Expr("NOW()"))

	for field, value := range updates {
		if !allowedItemFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": id, "deleted_at": nil}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return nil
}

// DeleteItem помечает элемент удалённым. Строка остаётся в БД, но больше
// не возвращается ни одним запросом, в том числе с IncludeInactive.
func (r *PortfolioRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "repository.PortfolioRepo.DeleteItem"

	query, args, err := r.sb.Update("portfolio_items").
		Set("is_active", false).
		Set("deleted_at", sq.Expr("NOW()")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return nil
}

func (r *PortfolioRepo) CountItems(ctx context.Context) (models.PortfolioStats, error) {
	const op = "repository.PortfolioRepo.CountItems"

	query, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE type = 'image')",
		"COUNT(*) FILTER (WHERE type = 'video')",
		"COUNT(*) FILTER (WHERE type = 'link')",
	).
		From("portfolio_items").
		Where(sq.Eq{"is_active": true, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return models.PortfolioStats{}, fmt.Errorf("%s: %w", op, err)
	}

	var stats models.PortfolioStats
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&stats.TotalItems,
		&stats.Images,
		&stats.Videos,
		&stats.Links,
	)
	if err != nil {
		return models.PortfolioStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

func (r *PortfolioRepo) selectItems() sq.SelectBuilder {
	return r.sb.Select(itemColumns...).
		From("portfolio_items p").
		LeftJoin("users u ON u.id = p.created_by").
		Where(sq.Eq{"p.deleted_at": nil})
}

func scanItem(row scanner) (models.PortfolioItem, error) {
	var (
		item     models.PortfolioItem
		category string
		itemType string
	)

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&category,
		&itemType,
		&item.FilePath,
		&item.URL,
		&item.ThumbnailPath,
		&item.Tags,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CreatedBy,
		&item.CreatorName,
	)
	if err != nil {
		return models.PortfolioItem{}, err
	}

	item.Category = models.Category(category)
	item.Type = models.ItemType(itemType)

	return item, nil
}
