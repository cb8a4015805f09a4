package http

import (
	"log/slog"
	"net/http"

	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// SubmitContact godoc
// @Summary Сообщение с формы контактов
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Сообщение"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} response.ErrorResponse "Не заполнены обязательные поля"
// @Router /contact [post]
func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ContactRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("name, email and message are required", err.Error()))
	}

	msg, err := r.ContactService.Submit(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, dto.ContactResponse{
		Message:   "Message sent successfully",
		ContactID: msg.ID.String(),
		Contact:   msg,
	})
}

// ListContactMessages godoc
// @Summary Сообщения с формы контактов
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ContactListResponse
// @Security ApiKeyAuth
// @Router /admin/contact [get]
func (r *Routers) ListContactMessages(c echo.Context) error {
	const op = "http.routers.ListContactMessages"

	log := r.log.With(
		slog.String("op", op),
	)

	messages, err := r.ContactService.List(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ContactListResponse{
		Messages: messages,
		Total:    len(messages),
	})
}

// MarkContactRead godoc
// @Summary Отметить сообщение прочитанным
// @Tags admin
// @Produce json
// @Param id path string true "UUID сообщения" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/contact/{id}/read [put]
func (r *Routers) MarkContactRead(c echo.Context) error {
	const op = "http.routers.MarkContactRead"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidID)
	}

	if err := r.ContactService.MarkRead(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Message marked as read"))
}
