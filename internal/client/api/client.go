package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"asteca_portfolio/internal/transport/http/dto/response"
)

// TokenSource отдаёт текущий bearer-токен, пустая строка значит без авторизации
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	log    *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New создаёт клиент для baseURL вида http://host:5000/api.
// Cookie jar хранит http-only cookie сессии между запросами.
func New(baseURL string, opts ...Option) (*Client, error) {
	const op = "api.New"

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Client{
		base:   base,
		http:   &http.Client{Jar: jar, Timeout: 15 * time.Second},
		tokens: TokenFunc(func() string { return "" }),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		c.http.Jar = jar
	}

	return c, nil
}

// ResetCookies забывает все cookie, выданные сервером, в том числе cookie сессии
func (c *Client) ResetCookies() error {
	const op = "api.ResetCookies"

	if jar, ok := c.http.Jar.(*sessionJar); ok {
		if err := jar.reset(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	jar, err := newSessionJar()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.http.Jar = jar

	return nil
}

// SetTokenSource нужен, когда источник токена сам зависит от клиента
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// ResolveRef превращает ссылку на файл (/uploads/x.png) в абсолютный URL сервера
func (c *Client) ResolveRef(ref string) string {
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err == nil && parsed.IsAbs() {
		return ref
	}

	u := url.URL{Scheme: c.base.Scheme, Host: c.base.Host}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}

	return u.String() + ref
}

// sameOrigin токен сессии уходит только на сервер API
func (c *Client) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.base.Scheme) && strings.EqualFold(u.Host, c.base.Host)
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !c.sameOrigin(req.URL) {
		return req, nil
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, c.endpoint(path, query), body, contentType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.send(op, req, out)
}

func (c *Client) send(op string, req *http.Request, out interface{}) error {
	log := c.log.With(
		slog.String("op", op),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", slog.String("error", err.Error()))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	log.Debug("response", slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeHTTPError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func decodeHTTPError(status int, data []byte) *HTTPError {
	var envelope response.ErrorResponse
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		msg := envelope.Error
		if envelope.Details != "" {
			msg += ": " + envelope.Details
		}
		return &HTTPError{Status: status, Message: msg}
	}

	return &HTTPError{Status: status, Message: http.StatusText(status)}
}
