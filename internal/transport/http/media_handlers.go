package http

import (
	"log/slog"
	"net/http"
	"time"

	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// UploadMedia godoc
// @Summary Загрузка файла
// @Description Принимает изображение или видео. Проверяются расширение и сигнатура файла. Возвращённый file_path передаётся в /admin/portfolio.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "png, jpg, jpeg, gif, mp4, mov, avi, webm"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} response.ErrorResponse "Нет файла или тип не разрешён"
// @Failure 413 {object} response.ErrorResponse "Превышен максимальный размер файла"
// @Security ApiKeyAuth
// @Router /admin/upload [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(
		slog.String("op", op),
	)

	startTime := time.Now()

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, response.ErrNoFile)
	}

	if file.Filename == "" {
		return c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "no file selected"})
	}

	log.Debug("got file for upload",
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
		slog.String("mime_type", file.Header.Get("Content-Type")))

	stored, err := r.MediaService.UploadMedia(c.Request().Context(), file)
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("upload successful",
		slog.String("file_path", stored.PublicPath),
		slog.Int64("file_size", stored.FileSize),
		slog.Duration("duration", time.Since(startTime)))

	return c.JSON(http.StatusOK, dto.UploadResponse{
		Message:          "File uploaded successfully",
		FilePath:         stored.PublicPath,
		OriginalFilename: stored.OriginalFilename,
	})
}
