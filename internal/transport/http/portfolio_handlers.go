package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/metrics"
	"asteca_portfolio/internal/middleware"
	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parseItemFilter читает category, type и tag из query. tag можно повторять
// или перечислять через запятую.
func parseItemFilter(c echo.Context) models.ItemFilter {
	filter := models.ItemFilter{
		Category: models.Category(strings.TrimSpace(c.QueryParam("category"))),
		Type:     models.ItemType(strings.TrimSpace(c.QueryParam("type"))),
	}

	for _, raw := range c.QueryParams()["tag"] {
		filter.Tags = append(filter.Tags, dto.CleanTags(strings.Split(raw, ","))...)
	}

	return filter
}

// ListPortfolio godoc
// @Summary Публичный список работ
// @Description Возвращает активные элементы портфолио, новые первыми.
// @Tags portfolio
// @Produce json
// @Param category query string false "Категория" Enums(design, video, links)
// @Param type query string false "Тип" Enums(image, video, link)
// @Param tag query string false "Тег (можно несколько через запятую)"
// @Success 200 {object} dto.ItemListResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /portfolio [get]
func (r *Routers) ListPortfolio(c echo.Context) error {
	const op = "http.routers.ListPortfolio"

	log := r.log.With(
		slog.String("op", op),
	)

	items, err := r.PortfolioService.ListPublic(c.Request().Context(), parseItemFilter(c))
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ItemListResponse{
		Items: items,
		Total: len(items),
	})
}

// GetPortfolioItem godoc
// @Summary Элемент портфолио
// @Tags portfolio
// @Produce json
// @Param id path string true "UUID элемента" format(uuid)
// @Success 200 {object} models.PortfolioItem
// @Failure 400 {object} response.ErrorResponse "Невалидный UUID"
// @Failure 404 {object} response.ErrorResponse "Элемент не найден"
// @Router /portfolio/{id} [get]
func (r *Routers) GetPortfolioItem(c echo.Context) error {
	const op = "http.routers.GetPortfolioItem"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	item, err := r.PortfolioService.GetPublic(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, item)
}

// AdminListPortfolio godoc
// @Summary Список работ для админки
// @Tags admin
// @Produce json
// @Param include_inactive query bool false "Показывать удалённые"
// @Param category query string false "Категория" Enums(design, video, links)
// @Param type query string false "Тип" Enums(image, video, link)
// @Success 200 {object} dto.ItemListResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/portfolio [get]
func (r *Routers) AdminListPortfolio(c echo.Context) error {
	const op = "http.routers.AdminListPortfolio"

	log := r.log.With(
		slog.String("op", op),
	)

	filter := parseItemFilter(c)
	filter.IncludeInactive, _ = strconv.ParseBool(c.QueryParam("include_inactive"))

	items, err := r.PortfolioService.ListAdmin(c.Request().Context(), filter)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ItemListResponse{
		Items: items,
		Total: len(items),
	})
}

// CreatePortfolioItem godoc
// @Summary Создание элемента
// @Description Ссылке нужен url, изображению и видео нужен file_path, полученный из /admin/upload.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Новый элемент"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/portfolio [post]
func (r *Routers) CreatePortfolioItem(c echo.Context) error {
	const op = "http.routers.CreatePortfolioItem"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateItemRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid create request", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation failed", err.Error()))
	}

	createdBy := uuid.Nil
	if user, ok := middleware.CurrentUser(c); ok {
		createdBy = user.ID
	}

	item, err := r.PortfolioService.Create(c.Request().Context(), req, createdBy)
	if err != nil {
		return r.fail(c, log, err)
	}

	metrics.PortfolioMutationsTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, dto.ItemResponse{
		Message: "Portfolio item created successfully",
		Item:    item,
	})
}

// UpdatePortfolioItem godoc
// @Summary Обновление элемента
// @Description Частичное обновление: меняются только переданные поля.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "UUID элемента" format(uuid)
// @Param request body dto.UpdateItemRequest true "Изменяемые поля"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/portfolio/{id} [put]
func (r *Routers) UpdatePortfolioItem(c echo.Context) error {
	const op = "http.routers.UpdatePortfolioItem"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	var req dto.UpdateItemRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation failed", err.Error()))
	}

	item, err := r.PortfolioService.Update(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	metrics.PortfolioMutationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, dto.ItemResponse{
		Message: "Portfolio item updated successfully",
		Item:    item,
	})
}

// DeletePortfolioItem godoc
// @Summary Удаление элемента
// @Description Мягкое удаление: элемент помечается неактивным и пропадает из публичного списка.
// @Tags admin
// @Produce json
// @Param id path string true "UUID элемента" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/portfolio/{id} [delete]
func (r *Routers) DeletePortfolioItem(c echo.Context) error {
	const op = "http.routers.DeletePortfolioItem"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	if err := r.PortfolioService.Delete(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	metrics.PortfolioMutationsTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, response.MessageResponse("Portfolio item deleted successfully"))
}

// Stats godoc
// @Summary Статистика админки
// @Tags admin
// @Produce json
// @Success 200 {object} models.Stats
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (r *Routers) Stats(c echo.Context) error {
	const op = "http.routers.Stats"

	log := r.log.With(
		slog.String("op", op),
	)

	stats, err := r.PortfolioService.Stats(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, stats)
}
