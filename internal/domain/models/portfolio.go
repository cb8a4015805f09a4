package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryDesign Category = "design"
	CategoryVideo  Category = "video"
	CategoryLinks  Category = "links"
)

// Categories возвращает допустимые категории в порядке отображения
func Categories() []Category {
	return []Category{CategoryDesign, CategoryVideo, CategoryLinks}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryDesign, CategoryVideo, CategoryLinks:
		return true
	}
	return false
}

type ItemType string

const (
	ItemTypeImage ItemType = "image"
	ItemTypeVideo ItemType = "video"
	ItemTypeLink  ItemType = "link"
)

func ItemTypes() []ItemType {
	return []ItemType{ItemTypeImage, ItemTypeVideo, ItemTypeLink}
}

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeImage, ItemTypeVideo, ItemTypeLink:
		return true
	}
	return false
}

// HasFile сообщает, ссылается ли элемент такого типа на загруженный файл
func (t ItemType) HasFile() bool {
	return t == ItemTypeImage || t == ItemTypeVideo
}

const (
	MaxTitleLength = 200
	MaxURLLength   = 500
)

// PortfolioItem элемент портфолио: изображение, видео или внешняя ссылка
type PortfolioItem struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      Category   `json:"category"`
	Type          ItemType   `json:"type"`
	FilePath      *string    `json:"file_path"`
	URL           *string    `json:"url"`
	ThumbnailPath *string    `json:"thumbnail_path"`
	Tags          []string   `json:"tags"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CreatorName   *string    `json:"creator_name"`
}

// ItemFilter параметры выборки элементов портфолио
type ItemFilter struct {
	Category        Category
	Type            ItemType
	Tags            []string
	IncludeInactive bool
}

// Ref returns the media reference to show for image and video items,
// preferring the thumbnail.
func (p PortfolioItem) Ref() string {
	if p.ThumbnailPath != nil && *p.ThumbnailPath != "" {
		return *p.ThumbnailPath
	}
	if p.FilePath != nil {
		return *p.FilePath
	}
	return ""
}

// Validate проверяет корректность элемента портфолио
func (p *PortfolioItem) Validate() error {
	var validationErrors []string

	if strings.TrimSpace(p.Title) == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if len(p.Title) > MaxTitleLength {
		validationErrors = append(validationErrors,
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if strings.TrimSpace(p.Description) == "" {
		validationErrors = append(validationErrors, "description is required")
	}
	if !p.Category.Valid() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid category '%s', must be one of: %v", p.Category, Categories()))
	}

	switch p.Type {
	case ItemTypeLink:
		if p.URL == nil || strings.TrimSpace(*p.URL) == "" {
			validationErrors = append(validationErrors, "url is required for link items")
		} else if len(*p.URL) > MaxURLLength {
			validationErrors = append(validationErrors,
				fmt.Sprintf("url must be %d characters or less", MaxURLLength))
		}
	case ItemTypeImage, ItemTypeVideo:
		if p.FilePath == nil || strings.TrimSpace(*p.FilePath) == "" {
			validationErrors = append(validationErrors, "file_path is required for image and video items")
		}
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid type '%s', must be one of: %v", p.Type, ItemTypes()))
	}

	if len(validationErrors) > 0 {
		return &ItemValidationError{
			Errors: validationErrors,
		}
	}

	return nil
}

// ItemValidationError кастомный тип ошибки для валидации
type ItemValidationError struct {
	Errors []string
}

func (e *ItemValidationError) Error() string {
	return fmt.Sprintf("item validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsItemValidationError(err error) bool {
	var target *ItemValidationError
	return errors.As(err, &target)
}
