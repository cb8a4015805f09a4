package dto

import (
	"strings"

	"asteca_portfolio/internal/domain/models"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required,oneof=design video links"`
	Type          string   `json:"type" validate:"required,oneof=image video link"`
	FilePath      *string  `json:"file_path,omitempty" validate:"omitempty,max=500"`
	URL           *string  `json:"url,omitempty" validate:"omitempty,max=500"`
	ThumbnailPath *string  `json:"thumbnail_path,omitempty" validate:"omitempty,max=500"`
	Tags          []string `json:"tags"`
}

// ToDomain преобразует DTO в доменную модель. Поля, не относящиеся к типу
// элемента, отбрасываются: у ссылки нет файла, у файла нет url.
func (r CreateItemRequest) ToDomain(createdBy uuid.UUID) models.PortfolioItem {
	item := models.PortfolioItem{
		Title:         strings.TrimSpace(r.Title),
		Description:   strings.TrimSpace(r.Description),
		Category:      models.Category(r.Category),
		Type:          models.ItemType(r.Type),
		FilePath:      r.FilePath,
		URL:           r.URL,
		ThumbnailPath: r.ThumbnailPath,
		Tags:          CleanTags(r.Tags),
		IsActive:      true,
	}

	if createdBy != uuid.Nil {
		item.CreatedBy = &createdBy
	}

	NormalizeItemRefs(&item)

	return item
}

type UpdateItemRequest struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty" validate:"omitempty,oneof=design video links"`
	Type          *string   `json:"type,omitempty" validate:"omitempty,oneof=image video link"`
	FilePath      *string   `json:"file_path,omitempty" validate:"omitempty,max=500"`
	URL           *string   `json:"url,omitempty" validate:"omitempty,max=500"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty" validate:"omitempty,max=500"`
	Tags          *[]string `json:"tags,omitempty"`
	IsActive      *bool     `json:"is_active,omitempty"`
}

// ApplyTo накладывает заданные поля на item и возвращает карту изменений для репозитория
func (r UpdateItemRequest) ApplyTo(item *models.PortfolioItem) map[string]interface{} {
	updates := make(map[string]interface{})

	if r.Title != nil {
		item.Title = strings.TrimSpace(*r.Title)
		updates["title"] = item.Title
	}
	if r.Description != nil {
		item.Description = strings.TrimSpace(*r.Description)
		updates["description"] = item.Description
	}
	if r.Category != nil {
		item.Category = models.Category(*r.Category)
		updates["category"] = *r.Category
	}
	if r.Type != nil {
		item.Type = models.ItemType(*r.Type)
		updates["type"] = *r.Type
	}
	if r.FilePath != nil {
		item.FilePath = r.FilePath
		updates["file_path"] = *r.FilePath
	}
	if r.URL != nil {
		item.URL = r.URL
		updates["url"] = *r.URL
	}
	if r.ThumbnailPath != nil {
		item.ThumbnailPath = r.ThumbnailPath
		updates["thumbnail_path"] = *r.ThumbnailPath
	}
	if r.Tags != nil {
		item.Tags = CleanTags(*r.Tags)
		updates["tags"] = item.Tags
	}
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
		updates["is_active"] = *r.IsActive
	}

	hadURL, hadFile := item.URL != nil, item.FilePath != nil || item.ThumbnailPath != nil
	NormalizeItemRefs(item)
	if hadURL && item.URL == nil {
		updates["url"] = nil
	}
	if hadFile && item.FilePath == nil {
		updates["file_path"] = nil
		updates["thumbnail_path"] = nil
	}

	return updates
}

// NormalizeItemRefs оставляет только ссылки, допустимые для типа элемента
func NormalizeItemRefs(item *models.PortfolioItem) {
	switch {
	case item.Type == models.ItemTypeLink:
		item.FilePath = nil
		item.ThumbnailPath = nil
	case item.Type.HasFile():
		item.URL = nil
	}
}

// CleanTags обрезает пробелы и выбрасывает пустые теги
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

type ItemListResponse struct {
	Items []models.PortfolioItem `json:"items"`
	Total int                    `json:"total"`
}

type ItemResponse struct {
	Message string               `json:"message"`
	Item    models.PortfolioItem `json:"item"`
}
