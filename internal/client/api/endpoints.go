package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/transport/http/dto"
	"asteca_portfolio/internal/transport/http/dto/request"

	"github.com/google/uuid"
)

type Filter struct {
	Category models.Category
	Type     models.ItemType
	Tags     []string
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if len(f.Tags) > 0 {
		q.Set("tag", strings.Join(f.Tags, ","))
	}
	return q
}

type AdminFilter struct {
	IncludeInactive bool
	Category        models.Category
	Type            models.ItemType
}

func (f AdminFilter) values() url.Values {
	q := Filter{Category: f.Category, Type: f.Type}.values()
	if f.IncludeInactive {
		q.Set("include_inactive", strconv.FormatBool(true))
	}
	return q
}

func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := c.doJSON(ctx, "api.Login", http.MethodPost, "/auth/login", nil,
		request.LoginRequest{Username: username, Password: password}, &resp)
	return resp, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "api.Logout", http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var resp dto.MeResponse
	err := c.doJSON(ctx, "api.Me", http.MethodGet, "/auth/me", nil, nil, &resp)
	return resp.User, err
}

func (c *Client) ListPublic(ctx context.Context, filter Filter) ([]models.PortfolioItem, error) {
	var resp dto.ItemListResponse
	if err := c.doJSON(ctx, "api.ListPublic", http.MethodGet, "/portfolio", filter.values(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) GetPublic(ctx context.Context, id uuid.UUID) (models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := c.doJSON(ctx, "api.GetPublic", http.MethodGet, "/portfolio/"+id.String(), nil, nil, &item)
	return item, err
}

func (c *Client) ListAdmin(ctx context.Context, filter AdminFilter) ([]models.PortfolioItem, error) {
	var resp dto.ItemListResponse
	if err := c.doJSON(ctx, "api.ListAdmin", http.MethodGet, "/admin/portfolio", filter.values(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.doJSON(ctx, "api.Stats", http.MethodGet, "/admin/stats", nil, nil, &stats)
	return stats, err
}

func (c *Client) CreateItem(ctx context.Context, req dto.CreateItemRequest) (models.PortfolioItem, error) {
	var resp dto.ItemResponse
	err := c.doJSON(ctx, "api.CreateItem", http.MethodPost, "/admin/portfolio", nil, req, &resp)
	return resp.Item, err
}

func (c *Client) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, "api.DeleteItem", http.MethodDelete, "/admin/portfolio/"+id.String(), nil, nil, nil)
}

func (c *Client) SendContact(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error) {
	var resp dto.ContactResponse
	err := c.doJSON(ctx, "api.SendContact", http.MethodPost, "/contact", nil, req, &resp)
	return resp.Contact, err
}

// UploadFile отправляет файл полем "file" в multipart-форме
func (c *Client) UploadFile(ctx context.Context, name string, src io.Reader) (dto.UploadResponse, error) {
	const op = "api.UploadFile"

	var resp dto.UploadResponse

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return resp, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return resp, fmt.Errorf("%s: read file: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return resp, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/admin/upload", nil), body, writer.FormDataContentType())
	if err != nil {
		return resp, fmt.Errorf("%s: %w", op, err)
	}

	err = c.send(op, req, &resp)
	return resp, err
}

// Resolve проверяет, что ссылка на файл отдаётся сервером, и возвращает
// абсолютный URL. Запрашивается только первый байт.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	const op = "api.Resolve"

	target := c.ResolveRef(ref)
	if target == "" {
		return "", fmt.Errorf("%s: empty reference", op)
	}

	req, err := c.newRequest(ctx, http.MethodGet, target, nil, "")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Range", "bytes=0-0")

	if err := c.send(op, req, nil); err != nil {
		return "", err
	}

	return target, nil
}
