package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/metrics"
	"asteca_portfolio/internal/storage"
	filestorage "asteca_portfolio/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// сколько байт нужно filetype для определения типа
const sniffLen = 261

type MediaService struct {
	log         *slog.Logger
	fileStorage filestorage.FileStorage
	maxSize     int64
}

func NewMediaService(log *slog.Logger, fileStorage filestorage.FileStorage, maxSize int64) *MediaService {
	return &MediaService{
		log:         log,
		fileStorage: fileStorage,
		maxSize:     maxSize,
	}
}

// UploadMedia проверяет расширение и сигнатуру файла и сохраняет его
// под уникальным именем.
func (s *MediaService) UploadMedia(ctx context.Context, file *multipart.FileHeader) (models.StoredFile, error) {
	const op = "media_service.UploadMedia"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
	)

	log.Info("upload media")

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	kind, ok := models.AllowedExtensions[ext]
	if !ok {
		log.Warn("extension not allowed", slog.String("ext", ext))
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	// Проверяем магические байты (реальный тип файла)
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, err)
	}
	head = head[:n]

	detected, err := filetype.Match(head)
	if err != nil || detected == filetype.Unknown || detected.MIME.Type != string(kind) {
		log.Warn("content does not match extension", slog.String("detected", detected.MIME.Value))
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	name := uuid.NewString() + "_" + file.Filename

	storagePath, size, err := s.fileStorage.Save(ctx, io.MultiReader(bytes.NewReader(head), src), name, "", s.maxSize)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))
		return models.StoredFile{}, fmt.Errorf("%s: %w", op, err)
	}

	stored := models.StoredFile{
		OriginalFilename: file.Filename,
		StoragePath:      storagePath,
		PublicPath:       s.fileStorage.PublicURL(storagePath),
		FileSize:         size,
		MimeType:         detected.MIME.Value,
		Kind:             kind,
	}

	if err := stored.Validate(); err != nil {
		// Удаляем сохраненный файл при ошибке валидации
		_ = s.fileStorage.Delete(ctx, storagePath)
		log.Error("media validation failed", sl.Err(err))

		return models.StoredFile{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.UploadsTotal.WithLabelValues(string(kind)).Inc()

	log.Info("file stored", slog.String("path", stored.PublicPath), slog.Int64("size", size))

	return stored, nil
}
