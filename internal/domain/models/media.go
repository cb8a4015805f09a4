package models

import (
	"errors"
	"fmt"
	"strings"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// AllowedExtensions расширения файлов, принимаемые при загрузке
var AllowedExtensions = map[string]MediaKind{
	"png":  MediaKindImage,
	"jpg":  MediaKindImage,
	"jpeg": MediaKindImage,
	"gif":  MediaKindImage,
	"mp4":  MediaKindVideo,
	"mov":  MediaKindVideo,
	"avi":  MediaKindVideo,
	"webm": MediaKindVideo,
}

// StoredFile описывает файл, сохранённый в хранилище загрузок
type StoredFile struct {
	OriginalFilename string    `json:"original_filename"`
	StoragePath      string    `json:"storage_path"`
	PublicPath       string    `json:"file_path"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type,omitempty"`
	Kind             MediaKind `json:"kind"`
}

// Validate проверяет корректность данных сохранённого файла
func (f *StoredFile) Validate() error {
	var validationErrors []string

	if f.OriginalFilename == "" {
		validationErrors = append(validationErrors, "original filename is required")
	}
	if len(f.OriginalFilename) > 255 {
		validationErrors = append(validationErrors, "original filename must be 255 characters or less")
	}
	if f.StoragePath == "" {
		validationErrors = append(validationErrors, "storage path is required")
	}
	if f.FileSize <= 0 {
		validationErrors = append(validationErrors, "file size must be positive")
	}
	if f.Kind != MediaKindImage && f.Kind != MediaKindVideo {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid media kind '%s'", f.Kind))
	}

	if len(validationErrors) > 0 {
		return &MediaValidationError{
			Errors: validationErrors,
		}
	}

	return nil
}

type MediaValidationError struct {
	Errors []string
}

func (e *MediaValidationError) Error() string {
	return fmt.Sprintf("media validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsMediaValidationError(err error) bool {
	var target *MediaValidationError
	return errors.As(err, &target)
}
