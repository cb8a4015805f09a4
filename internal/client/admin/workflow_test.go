package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/client/session"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct{ mock.Mock }

func (m *MockAPI) ListAdmin(ctx context.Context, filter api.AdminFilter) ([]models.PortfolioItem, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]models.PortfolioItem)
	return items, args.Error(1)
}

func (m *MockAPI) Stats(ctx context.Context) (models.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Stats), args.Error(1)
}

func (m *MockAPI) CreateItem(ctx context.Context, req dto.CreateItemRequest) (models.PortfolioItem, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.PortfolioItem), args.Error(1)
}

func (m *MockAPI) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) UploadFile(ctx context.Context, name string, src io.Reader) (dto.UploadResponse, error) {
	args := m.Called(ctx, name, src)
	return args.Get(0).(dto.UploadResponse), args.Error(1)
}

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(dto.LoginResponse), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthenticator) Me(ctx context.Context) (models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.User), args.Error(1)
}

type fixture struct {
	wf      *Workflow
	api     *MockAPI
	auth    *MockAuthenticator
	files   *session.FileStore
	store   *session.Store
	confirm bool
}

var (
	ctx       = context.Background()
	adminUser = models.User{ID: uuid.New(), Username: "admin", IsAdmin: true}
	unauth    = &api.HTTPError{Status: http.StatusUnauthorized, Message: "invalid or expired session"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		api:   new(MockAPI),
		auth:  new(MockAuthenticator),
		files: session.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
	}
	f.store = session.NewStore(log, f.auth, f.files)

	f.wf = New(Options{
		Log:      log,
		API:      f.api,
		Sessions: f.store,
		Confirm:  func(models.PortfolioItem) bool { return f.confirm },
		OpenFile: func(path string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data:" + path)), nil
		},
	})
	t.Cleanup(f.wf.Close)

	return f
}

func (f *fixture) expectReload(items []models.PortfolioItem) {
	f.api.On("ListAdmin", mock.Anything, api.AdminFilter{IncludeInactive: true}).Return(items, nil).Once()
	f.api.On("Stats", mock.Anything).Return(models.Stats{Portfolio: models.PortfolioStats{TotalItems: len(items)}}, nil).Once()
}

func (f *fixture) login(t *testing.T, items []models.PortfolioItem) {
	t.Helper()

	f.auth.On("Login", mock.Anything, "admin", "admin123").
		Return(dto.LoginResponse{SessionToken: "tok", User: adminUser}, nil).Once()
	f.expectReload(items)

	require.NoError(t, f.wf.SubmitLogin(ctx, "admin", "admin123"))
}

func strPtr(s string) *string { return &s }

func TestLoginSuccessFetchesListAndStatsOnce(t *testing.T) {
	f := newFixture(t)
	items := []models.PortfolioItem{{ID: uuid.New(), Title: "Logo"}}

	f.login(t, items)

	v := f.wf.Snapshot()
	assert.Equal(t, StateLoggedIn, v.State)
	assert.Equal(t, TabUpload, v.Tab)
	require.NotNil(t, v.User)
	assert.Equal(t, "admin", v.User.Username)
	assert.Len(t, v.Items, 1)
	assert.Equal(t, 1, v.Stats.Portfolio.TotalItems)
	assert.Empty(t, v.LoginError)

	f.api.AssertNumberOfCalls(t, "ListAdmin", 1)
	f.api.AssertNumberOfCalls(t, "Stats", 1)

	require.NoError(t, f.wf.SwitchTab(TabManage))
	assert.Equal(t, TabManage, f.wf.Snapshot().Tab)
	f.api.AssertNumberOfCalls(t, "ListAdmin", 1)
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Login", mock.Anything, "admin", "wrong").
		Return(dto.LoginResponse{}, &api.HTTPError{Status: http.StatusUnauthorized, Message: "invalid credentials"})

	err := f.wf.SubmitLogin(ctx, "admin", "wrong")
	require.Error(t, err)

	v := f.wf.Snapshot()
	assert.Equal(t, StateLoggedOut, v.State)
	assert.Equal(t, "invalid credentials", v.LoginError)

	_, err = f.files.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
	f.api.AssertNotCalled(t, "ListAdmin", mock.Anything, mock.Anything)
	f.api.AssertNotCalled(t, "Stats", mock.Anything)
}

func TestSubmitLinkSerializesTags(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)

	require.NoError(t, f.wf.SelectType(models.ItemTypeLink))
	require.NoError(t, f.wf.SetField(FieldTitle, " Agency site "))
	require.NoError(t, f.wf.SetField(FieldDescription, "Landing page"))
	require.NoError(t, f.wf.SetField(FieldCategory, "links"))
	require.NoError(t, f.wf.SetField(FieldURL, "https://example.com"))
	require.NoError(t, f.wf.SetField(FieldTags, "logo, , branding"))

	created := models.PortfolioItem{ID: uuid.New(), Title: "Agency site", Type: models.ItemTypeLink}
	f.api.On("CreateItem", mock.Anything, dto.CreateItemRequest{
		Title:       "Agency site",
		Description: "Landing page",
		Category:    "links",
		Type:        "link",
		URL:         strPtr("https://example.com"),
		Tags:        []string{"logo", "branding"},
	}).Return(created, nil).Once()
	f.expectReload([]models.PortfolioItem{created})

	require.NoError(t, f.wf.Submit(ctx))

	v := f.wf.Snapshot()
	assert.Empty(t, v.Draft.Title)
	assert.Empty(t, v.Draft.Tags)
	assert.Equal(t, models.ItemTypeLink, v.Draft.Type)
	assert.Len(t, v.Items, 1)
	require.NotNil(t, v.Banner)
	assert.Equal(t, LevelSuccess, v.Banner.Level)
	f.api.AssertExpectations(t)
	f.api.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitImageUploadsFileFirst(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)

	require.NoError(t, f.wf.SetField(FieldTitle, "Poster"))
	require.NoError(t, f.wf.SetField(FieldDescription, "A3 poster"))
	require.NoError(t, f.wf.SelectFile("/home/me/poster.png"))
	assert.Equal(t, 1, f.wf.Previews().Live())
	require.NotNil(t, f.wf.Snapshot().Preview)

	f.api.On("UploadFile", mock.Anything, "/home/me/poster.png", mock.Anything).
		Return(dto.UploadResponse{FilePath: "/uploads/abc_poster.png", OriginalFilename: "poster.png"}, nil).Once()
	f.api.On("CreateItem", mock.Anything, mock.MatchedBy(func(req dto.CreateItemRequest) bool {
		return req.FilePath != nil && *req.FilePath == "/uploads/abc_poster.png" && req.URL == nil && req.Type == "image"
	})).Return(models.PortfolioItem{ID: uuid.New()}, nil).Once()
	f.expectReload(nil)

	require.NoError(t, f.wf.Submit(ctx))

	assert.Equal(t, 0, f.wf.Previews().Live())
	v := f.wf.Snapshot()
	assert.Empty(t, v.Draft.File)
	assert.Nil(t, v.Preview)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.wf.Submit(ctx), ErrNotLoggedIn)

	f.login(t, nil)
	require.NoError(t, f.wf.SelectType(models.ItemTypeLink))
	require.NoError(t, f.wf.SetField(FieldTitle, "Site"))

	err := f.wf.Submit(ctx)
	var vErr *api.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{FieldDescription, FieldURL}, vErr.Fields)
	f.api.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)

	require.NoError(t, f.wf.SelectType(models.ItemTypeVideo))
	require.NoError(t, f.wf.SetField(FieldDescription, "d"))
	err = f.wf.Submit(ctx)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"file"}, vErr.Fields)

	assert.Error(t, f.wf.SetField("color", "red"))
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)

	require.NoError(t, f.wf.SelectType(models.ItemTypeLink))
	require.NoError(t, f.wf.SetField(FieldTitle, "Site"))
	require.NoError(t, f.wf.SetField(FieldDescription, "d"))
	require.NoError(t, f.wf.SetField(FieldURL, "https://example.com"))

	f.api.On("CreateItem", mock.Anything, mock.Anything).
		Return(models.PortfolioItem{}, &api.HTTPError{Status: http.StatusBadRequest, Message: "validation failed"}).Once()

	require.Error(t, f.wf.Submit(ctx))

	v := f.wf.Snapshot()
	assert.Equal(t, StateLoggedIn, v.State)
	assert.Equal(t, "Site", v.Draft.Title)
	assert.Equal(t, "https://example.com", v.Draft.URL)
	require.NotNil(t, v.Banner)
	assert.Equal(t, LevelError, v.Banner.Level)
	assert.Equal(t, "validation failed", v.Banner.Text)
}

func TestTypeChangeDiscardsFileAndPreview(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)

	require.NoError(t, f.wf.SelectFile("/tmp/a.png"))
	require.NoError(t, f.wf.SelectFile("/tmp/b.jpg"))
	assert.Equal(t, 1, f.wf.Previews().Live(), "superseded preview must be released")

	require.NoError(t, f.wf.SelectType(models.ItemTypeVideo))

	assert.Equal(t, 0, f.wf.Previews().Live())
	v := f.wf.Snapshot()
	assert.Empty(t, v.Draft.File)
	assert.Nil(t, v.Preview)

	assert.Error(t, f.wf.SelectFile("/tmp/c.png"), "image file for a video item")
	require.NoError(t, f.wf.SelectFile("/tmp/c.mp4"))
	f.wf.RemoveFile()
	assert.Equal(t, 0, f.wf.Previews().Live())

	require.NoError(t, f.wf.SelectFile("/tmp/d.webm"))
	f.wf.CancelDraft()
	assert.Equal(t, 0, f.wf.Previews().Live())
	assert.Equal(t, models.ItemTypeVideo, f.wf.Snapshot().Draft.Type)

	require.NoError(t, f.wf.SelectType(models.ItemTypeLink))
	assert.Error(t, f.wf.SelectFile("/tmp/e.png"))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	keep := models.PortfolioItem{ID: uuid.New(), Title: "keep"}
	gone := models.PortfolioItem{ID: uuid.New(), Title: "gone"}
	f.login(t, []models.PortfolioItem{keep, gone})

	f.confirm = false
	assert.ErrorIs(t, f.wf.Delete(ctx, gone.ID), ErrCancelled)
	f.api.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)

	f.confirm = true
	f.api.On("DeleteItem", mock.Anything, gone.ID).Return(nil).Once()
	f.expectReload([]models.PortfolioItem{keep})

	require.NoError(t, f.wf.Delete(ctx, gone.ID))

	for _, item := range f.wf.Snapshot().Items {
		assert.NotEqual(t, gone.ID, item.ID)
	}
	f.api.AssertNumberOfCalls(t, "ListAdmin", 2)
	f.api.AssertNumberOfCalls(t, "Stats", 2)

	assert.ErrorIs(t, f.wf.Delete(ctx, uuid.New()), ErrItemNotFound)
}

func TestLogoutClearsOnNetworkFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)
	require.NoError(t, f.wf.SelectFile("/tmp/a.png"))

	saved, err := f.files.Load()
	require.NoError(t, err)
	require.Equal(t, "tok", saved.Token)

	f.auth.On("Logout", mock.Anything).Return(&api.NetworkError{Op: "api.Logout", Err: errors.New("connection reset")})

	require.NoError(t, f.wf.Logout(ctx))

	v := f.wf.Snapshot()
	assert.Equal(t, StateLoggedOut, v.State)
	assert.Nil(t, v.User)
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, f.wf.Previews().Live())

	_, ok := f.store.Current()
	assert.False(t, ok)
	_, err = f.files.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	f := newFixture(t)
	item := models.PortfolioItem{ID: uuid.New()}
	f.login(t, []models.PortfolioItem{item})

	f.confirm = true
	f.api.On("DeleteItem", mock.Anything, item.ID).Return(unauth).Once()

	err := f.wf.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	v := f.wf.Snapshot()
	assert.Equal(t, StateLoggedOut, v.State)
	assert.Equal(t, MsgSessionExpired, v.LoginError)

	_, ok := f.store.Current()
	assert.False(t, ok)
	_, err = f.files.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestEditIsStaged(t *testing.T) {
	f := newFixture(t)
	item := models.PortfolioItem{ID: uuid.New(), Title: "t", Tags: []string{"a"}}
	f.login(t, []models.PortfolioItem{item})

	assert.ErrorIs(t, f.wf.SaveEdit(ctx), ErrNothingStaged)
	require.NoError(t, f.wf.Edit(item.ID))

	v := f.wf.Snapshot()
	require.NotNil(t, v.Editing)
	assert.Equal(t, item.ID, v.Editing.ID)

	assert.ErrorIs(t, f.wf.SaveEdit(ctx), ErrNotImplemented)
	f.wf.CancelEdit()
	assert.Nil(t, f.wf.Snapshot().Editing)
	assert.ErrorIs(t, f.wf.Edit(uuid.New()), ErrItemNotFound)
}

func TestInitRestoresSession(t *testing.T) {
	t.Run("no saved session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.wf.Init(ctx))
		assert.Equal(t, StateLoggedOut, f.wf.Snapshot().State)
	})

	t.Run("confirmed by server", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.files.Save(session.Session{Token: "tok", User: adminUser}))
		f.auth.On("Me", mock.Anything).Return(adminUser, nil)
		f.expectReload(nil)

		require.NoError(t, f.wf.Init(ctx))
		assert.Equal(t, StateLoggedIn, f.wf.Snapshot().State)
	})

	t.Run("expired on server", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.files.Save(session.Session{Token: "tok", User: adminUser}))
		f.auth.On("Me", mock.Anything).Return(models.User{}, unauth)

		require.Error(t, f.wf.Init(ctx))
		v := f.wf.Snapshot()
		assert.Equal(t, StateLoggedOut, v.State)
		assert.Equal(t, MsgSessionExpired, v.LoginError)
	})

	t.Run("server unreachable", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.files.Save(session.Session{Token: "tok", User: adminUser}))
		f.auth.On("Me", mock.Anything).Return(models.User{}, &api.NetworkError{Op: "api.Me", Err: errors.New("refused")})

		require.Error(t, f.wf.Init(ctx))
		v := f.wf.Snapshot()
		assert.Equal(t, StateLoggedOut, v.State)
		require.NotNil(t, v.Banner)
		assert.Equal(t, LevelError, v.Banner.Level)
	})
}

func TestCloseReleasesPreviews(t *testing.T) {
	f := newFixture(t)
	f.login(t, nil)
	require.NoError(t, f.wf.SelectFile("/tmp/a.gif"))
	require.Equal(t, 1, f.wf.Previews().Live())

	f.wf.Close()

	assert.Equal(t, 0, f.wf.Previews().Live())
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "logo, , branding", want: []string{"logo", "branding"}},
		{in: "", want: []string{}},
		{in: " , ,", want: []string{}},
		{in: "web,react ,  ui", want: []string{"web", "react", "ui"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.in))
		})
	}
}
