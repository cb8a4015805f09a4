package admin

import (
	"fmt"
	"path/filepath"
	"strings"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/transport/http/dto"
)

// Поля формы загрузки
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldURL         = "url"
	FieldTags        = "tags"
)

// Draft состояние формы до отправки
type Draft struct {
	Type        models.ItemType
	Title       string
	Description string
	Category    models.Category
	URL         string
	Tags        string
	File        string
	Preview     PreviewHandle
}

func newDraft() Draft {
	return Draft{
		Type:     models.ItemTypeImage,
		Category: models.CategoryDesign,
	}
}

func (d *Draft) set(name, value string) error {
	switch name {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldCategory:
		d.Category = models.Category(strings.TrimSpace(value))
	case FieldURL:
		d.URL = value
	case FieldTags:
		d.Tags = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Validate проверяет обязательные для выбранного типа поля
func (d Draft) Validate() error {
	var missing []string

	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, FieldTitle)
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, FieldDescription)
	}
	if !d.Category.Valid() {
		missing = append(missing, FieldCategory)
	}

	switch {
	case d.Type == models.ItemTypeLink:
		if strings.TrimSpace(d.URL) == "" {
			missing = append(missing, FieldURL)
		}
	case d.Type.HasFile():
		if d.File == "" {
			missing = append(missing, "file")
		}
	default:
		missing = append(missing, "type")
	}

	if len(missing) > 0 {
		return &api.ValidationError{Fields: missing}
	}
	return nil
}

// Request собирает тело POST /admin/portfolio; filePath берётся из ответа загрузки
func (d Draft) Request(filePath string) dto.CreateItemRequest {
	req := dto.CreateItemRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    string(d.Category),
		Type:        string(d.Type),
		Tags:        ParseTags(d.Tags),
	}

	if d.Type == models.ItemTypeLink {
		url := strings.TrimSpace(d.URL)
		req.URL = &url
	} else if filePath != "" {
		req.FilePath = &filePath
	}

	return req
}

// ParseTags "logo, , branding" -> ["logo", "branding"]
func ParseTags(raw string) []string {
	return dto.CleanTags(strings.Split(raw, ","))
}

// fileKind тип медиа по расширению файла
func fileKind(path string) (models.MediaKind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	kind, ok := models.AllowedExtensions[ext]
	return kind, ok
}
