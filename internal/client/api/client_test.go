package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}

func TestLoginAndBearerToken(t *testing.T) {
	var gotAuth, gotCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "portfolio_session", Value: "cookie-value", Path: "/"})
		writeJSON(w, http.StatusOK, dto.LoginResponse{
			Message:      "Login successful",
			User:         models.User{Username: req["username"], IsAdmin: true},
			SessionToken: "tok-1",
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if cookie, err := r.Cookie("portfolio_session"); err == nil {
			gotCookie = cookie.Value
		}
		writeJSON(w, http.StatusOK, dto.MeResponse{User: models.User{Username: "admin"}})
	})

	token := ""
	c := newTestClient(t, mux, WithTokenSource(TokenFunc(func() string { return token })))

	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "invalid credentials", Message(err))

	resp, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.SessionToken)
	assert.True(t, resp.User.IsAdmin)

	token = resp.SessionToken
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "cookie-value", gotCookie)
}

func TestErrorClassification(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
	})
	mux.HandleFunc("/api/admin/portfolio", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	c := newTestClient(t, mux)

	_, err := c.Stats(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "database unavailable", httpErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))

	_, err = c.ListAdmin(context.Background(), AdminFilter{IncludeInactive: true})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Bad Gateway", httpErr.Message)

	srv := httptest.NewServer(mux)
	dead, err := New(srv.URL + "/api")
	require.NoError(t, err)
	srv.Close()

	_, err = dead.ListPublic(context.Background(), Filter{})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Contains(t, Message(err), "Network error")
}

func TestListQueries(t *testing.T) {
	var publicQuery, adminQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		publicQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, dto.ItemListResponse{Items: []models.PortfolioItem{{Title: "a"}}, Total: 1})
	})
	mux.HandleFunc("/api/admin/portfolio", func(w http.ResponseWriter, r *http.Request) {
		adminQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, dto.ItemListResponse{})
	})

	c := newTestClient(t, mux)

	items, err := c.ListPublic(context.Background(), Filter{Category: models.CategoryDesign, Tags: []string{"logo", "brand"}})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "category=design&tag=logo%2Cbrand", publicQuery)

	_, err = c.ListAdmin(context.Background(), AdminFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, "include_inactive=true", adminQuery)
}

func TestCreateAndDelete(t *testing.T) {
	id := uuid.New()
	var created dto.CreateItemRequest
	var deletedPath string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/portfolio", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		writeJSON(w, http.StatusCreated, dto.ItemResponse{Message: "ok", Item: models.PortfolioItem{ID: id, Title: created.Title}})
	})
	mux.HandleFunc("/api/admin/portfolio/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deletedPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})

	c := newTestClient(t, mux)

	url := "https://example.com"
	item, err := c.CreateItem(context.Background(), dto.CreateItemRequest{
		Title: "Site", Description: "d", Category: "links", Type: "link", URL: &url, Tags: []string{"web"},
	})
	require.NoError(t, err)
	assert.Equal(t, id, item.ID)
	assert.Equal(t, []string{"web"}, created.Tags)

	require.NoError(t, c.DeleteItem(context.Background(), id))
	assert.Equal(t, "/api/admin/portfolio/"+id.String(), deletedPath)
}

func TestUploadFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		writeJSON(w, http.StatusOK, dto.UploadResponse{
			Message:          string(data),
			FilePath:         "/uploads/x_" + header.Filename,
			OriginalFilename: header.Filename,
		})
	})

	c := newTestClient(t, mux)

	resp, err := c.UploadFile(context.Background(), "/home/me/logo.png", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, "logo.png", resp.OriginalFilename)
	assert.Equal(t, "/uploads/x_logo.png", resp.FilePath)
	assert.Equal(t, "content", resp.Message)
}

func TestResolve(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uploads/ok.png", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-0", r.Header.Get("Range"))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte{0x89})
	})

	c := newTestClient(t, mux)

	assert.Equal(t, "", c.ResolveRef(""))
	assert.Equal(t, "https://cdn.example.com/a.png", c.ResolveRef("https://cdn.example.com/a.png"))
	assert.True(t, strings.HasSuffix(c.ResolveRef("uploads/a.png"), "/uploads/a.png"))
	assert.False(t, strings.Contains(c.ResolveRef("/uploads/a.png"), "/api/"))

	got, err := c.Resolve(context.Background(), "/uploads/ok.png")
	require.NoError(t, err)
	assert.Equal(t, c.ResolveRef("/uploads/ok.png"), got)

	_, err = c.Resolve(context.Background(), "/uploads/missing.png")
	assert.Error(t, err)

	_, err = c.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestErrorDetailsReachTheUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/portfolio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation failed",
			"details": "thumbnail_path must be a path under /uploads/",
		})
	})

	c := newTestClient(t, mux)

	_, err := c.CreateItem(context.Background(), dto.CreateItemRequest{Title: "Logo"})
	require.Error(t, err)
	assert.Equal(t, "validation failed: thumbnail_path must be a path under /uploads/", Message(err))
}

func TestTokenStaysOnAPIHost(t *testing.T) {
	var ownAuth, foreignAuth string

	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusPartialContent)
	}))
	t.Cleanup(foreign.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("/uploads/own.png", func(w http.ResponseWriter, r *http.Request) {
		ownAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusPartialContent)
	})

	c := newTestClient(t, mux, WithTokenSource(TokenFunc(func() string { return "secret-token" })))

	_, err := c.Resolve(context.Background(), "/uploads/own.png")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", ownAuth)

	got, err := c.Resolve(context.Background(), foreign.URL+"/x.png")
	require.NoError(t, err)
	assert.Equal(t, foreign.URL+"/x.png", got)
	assert.Empty(t, foreignAuth)
}

func TestResetCookies(t *testing.T) {
	var gotCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "portfolio_session", Value: "cookie-value", Path: "/"})
		writeJSON(w, http.StatusOK, dto.LoginResponse{SessionToken: "t"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotCookie = ""
		if cookie, err := r.Cookie("portfolio_session"); err == nil {
			gotCookie = cookie.Value
		}
		writeJSON(w, http.StatusOK, dto.MeResponse{})
	})

	c := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cookie-value", gotCookie)

	require.NoError(t, c.ResetCookies())

	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotCookie)
}
