package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/client/session"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type State int

const (
	StateLoading State = iota
	StateLoggedOut
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoggedOut:
		return "logged_out"
	case StateLoggedIn:
		return "logged_in"
	}
	return "unknown"
}

type Tab int

const (
	TabUpload Tab = iota
	TabManage
)

func (t Tab) String() string {
	if t == TabManage {
		return "manage"
	}
	return "upload"
}

const (
	defaultBannerTTL = 5 * time.Second

	MsgSessionExpired = "Session expired, please log in again"
)

var (
	ErrNotImplemented = errors.New("editing is not implemented yet")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrCancelled      = errors.New("cancelled by user")
	ErrItemNotFound   = errors.New("item not found")
	ErrNothingStaged  = errors.New("no item staged for editing")
)

type API interface {
	ListAdmin(ctx context.Context, filter api.AdminFilter) ([]models.PortfolioItem, error)
	Stats(ctx context.Context) (models.Stats, error)
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (models.PortfolioItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UploadFile(ctx context.Context, name string, src io.Reader) (dto.UploadResponse, error)
}

type Sessions interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Logout(ctx context.Context) error
	Current() (session.Session, bool)
	Invalidate()
	Restore(ctx context.Context) error
}

// Confirmer спрашивает пользователя перед удалением
type Confirmer func(item models.PortfolioItem) bool

type Options struct {
	Log      *slog.Logger
	API      API
	Sessions Sessions
	Confirm  Confirmer
	Previews *PreviewRegistry
	// OpenFile открывает выбранный файл для загрузки, по умолчанию os.Open
	OpenFile  func(path string) (io.ReadCloser, error)
	BannerTTL time.Duration
	OnChange  func()
}

// View снимок состояния для отрисовки
type View struct {
	State      State
	Tab        Tab
	User       *models.User
	LoginError string
	Items      []models.PortfolioItem
	Stats      models.Stats
	Draft      Draft
	Preview    *Preview
	Editing    *models.PortfolioItem
	Banner     *Message
}

type Workflow struct {
	mu         sync.Mutex
	opts       Options
	log        *slog.Logger
	banner     *Banner
	previews   *PreviewRegistry
	state      State
	tab        Tab
	user       *models.User
	loginError string
	items      []models.PortfolioItem
	stats      models.Stats
	draft      Draft
	editing    *models.PortfolioItem
	gen        uint64
}

func New(opts Options) *Workflow {
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Previews == nil {
		opts.Previews = NewPreviewRegistry()
	}
	if opts.OpenFile == nil {
		opts.OpenFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	if opts.Confirm == nil {
		opts.Confirm = func(models.PortfolioItem) bool { return false }
	}
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = defaultBannerTTL
	}

	return &Workflow{
		opts:     opts,
		log:      opts.Log,
		banner:   NewBanner(opts.BannerTTL, opts.OnChange),
		previews: opts.Previews,
		state:    StateLoading,
		draft:    newDraft(),
	}
}

func (w *Workflow) Previews() *PreviewRegistry {
	return w.previews
}

func (w *Workflow) Banner() *Banner {
	return w.banner
}

// Mount и Unmount позволяют держать Workflow в навигации как обычный экран
func (w *Workflow) Mount(ctx context.Context) error {
	return w.Init(ctx)
}

func (w *Workflow) Unmount() {
	w.Close()
}

// Init проверяет сохранённую сессию: подтверждённая ведёт в LoggedIn,
// иначе LoggedOut.
func (w *Workflow) Init(ctx context.Context) error {
	const op = "admin.Workflow.Init"

	w.mu.Lock()
	w.state = StateLoading
	gen := w.gen
	w.mu.Unlock()
	w.changed()

	err := w.opts.Sessions.Restore(ctx)

	sess, ok := w.opts.Sessions.Current()

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	if !ok {
		w.state = StateLoggedOut
		if errors.Is(err, api.ErrUnauthorized) {
			w.loginError = MsgSessionExpired
		}
		w.mu.Unlock()
		w.changed()

		if err != nil && api.IsNetworkError(err) {
			w.banner.Show("Could not verify saved session: "+api.Message(err), LevelError)
		}
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	user := sess.User
	w.enterLoggedIn(&user)
	w.mu.Unlock()
	w.changed()

	return w.reload(ctx, gen)
}

// enterLoggedIn вызывается под w.mu
func (w *Workflow) enterLoggedIn(user *models.User) {
	w.state = StateLoggedIn
	w.tab = TabUpload
	w.user = user
	w.loginError = ""
}

// SubmitLogin при успехе загружает список и статистику, по одному запросу каждого
func (w *Workflow) SubmitLogin(ctx context.Context, username, password string) error {
	const op = "admin.Workflow.SubmitLogin"

	w.mu.Lock()
	if w.state == StateLoggedIn {
		w.mu.Unlock()
		return nil
	}
	gen := w.gen
	w.mu.Unlock()

	sess, err := w.opts.Sessions.Login(ctx, username, password)

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		w.state = StateLoggedOut
		w.loginError = api.Message(err)
		w.mu.Unlock()
		w.changed()
		return fmt.Errorf("%s: %w", op, err)
	}

	user := sess.User
	w.enterLoggedIn(&user)
	w.mu.Unlock()
	w.changed()

	w.log.Info("admin logged in", slog.String("username", user.Username))

	return w.reload(ctx, gen)
}

// Logout всегда заканчивается в LoggedOut, даже если сервер недоступен
func (w *Workflow) Logout(ctx context.Context) error {
	err := w.opts.Sessions.Logout(ctx)
	if err != nil {
		w.log.Warn("logout cleanup failed", sl.Err(err))
	}

	w.mu.Lock()
	w.gen++
	w.resetLocked()
	w.state = StateLoggedOut
	w.loginError = ""
	w.mu.Unlock()

	w.banner.Dismiss()
	w.changed()

	return nil
}

// resetLocked сбрасывает всё, что принадлежит залогиненному состоянию
func (w *Workflow) resetLocked() {
	w.previews.Release(w.draft.Preview)
	w.draft = newDraft()
	w.editing = nil
	w.user = nil
	w.items = nil
	w.stats = models.Stats{}
	w.tab = TabUpload
}

// SwitchTab только переключает отображение, запросов не делает
func (w *Workflow) SwitchTab(tab Tab) error {
	w.mu.Lock()
	if w.state != StateLoggedIn {
		w.mu.Unlock()
		return ErrNotLoggedIn
	}
	w.tab = tab
	w.mu.Unlock()
	w.changed()

	return nil
}

// SelectType при смене типа выбрасывает выбранный файл и его превью
func (w *Workflow) SelectType(t models.ItemType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown item type %q", t)
	}

	w.mu.Lock()
	if w.draft.Type != t {
		w.dropFileLocked()
		w.draft.Type = t
	}
	w.mu.Unlock()
	w.changed()

	return nil
}

func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	err := w.draft.set(name, value)
	w.mu.Unlock()

	if err == nil {
		w.changed()
	}
	return err
}

// SelectFile выделяет превью под новый файл и освобождает прежнее
func (w *Workflow) SelectFile(path string) error {
	kind, ok := fileKind(path)

	w.mu.Lock()
	if !w.draft.Type.HasFile() {
		w.mu.Unlock()
		return fmt.Errorf("item type %q does not take a file", w.draft.Type)
	}
	if !ok || string(kind) != string(w.draft.Type) {
		w.mu.Unlock()
		return fmt.Errorf("file %q is not a valid %s", path, w.draft.Type)
	}

	w.dropFileLocked()
	w.draft.File = path
	w.draft.Preview = w.previews.Allocate(path, kind)
	w.mu.Unlock()
	w.changed()

	return nil
}

func (w *Workflow) RemoveFile() {
	w.mu.Lock()
	w.dropFileLocked()
	w.mu.Unlock()
	w.changed()
}

func (w *Workflow) dropFileLocked() {
	w.previews.Release(w.draft.Preview)
	w.draft.Preview = 0
	w.draft.File = ""
}

// CancelDraft очищает форму, тип элемента сохраняется
func (w *Workflow) CancelDraft() {
	w.mu.Lock()
	t := w.draft.Type
	w.dropFileLocked()
	w.draft = newDraft()
	w.draft.Type = t
	w.mu.Unlock()
	w.changed()
}

// Submit проверяет форму, при необходимости загружает файл и создаёт элемент.
// При ошибке форма остаётся заполненной.
func (w *Workflow) Submit(ctx context.Context) error {
	const op = "admin.Workflow.Submit"

	w.mu.Lock()
	if w.state != StateLoggedIn {
		w.mu.Unlock()
		return ErrNotLoggedIn
	}
	draft := w.draft
	gen := w.gen
	w.mu.Unlock()

	if err := draft.Validate(); err != nil {
		return err
	}

	log := w.log.With(
		slog.String("op", op),
		slog.String("type", string(draft.Type)),
	)

	var filePath string
	if draft.Type.HasFile() {
		uploaded, err := w.upload(ctx, draft.File)
		if err != nil {
			return w.fail(gen, op, err)
		}
		filePath = uploaded.FilePath
		log.Info("file uploaded", slog.String("file_path", filePath))
	}

	item, err := w.opts.API.CreateItem(ctx, draft.Request(filePath))
	if err != nil {
		return w.fail(gen, op, err)
	}

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	w.dropFileLocked()
	w.draft = newDraft()
	w.draft.Type = draft.Type
	w.mu.Unlock()

	log.Info("portfolio item created", slog.String("id", item.ID.String()))
	w.banner.Show("Portfolio item created successfully!", LevelSuccess)

	return w.reload(ctx, gen)
}

func (w *Workflow) upload(ctx context.Context, path string) (dto.UploadResponse, error) {
	f, err := w.opts.OpenFile(path)
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return w.opts.API.UploadFile(ctx, path, f)
}

// Delete удаляет элемент только после подтверждения пользователя
func (w *Workflow) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "admin.Workflow.Delete"

	w.mu.Lock()
	if w.state != StateLoggedIn {
		w.mu.Unlock()
		return ErrNotLoggedIn
	}
	item, ok := findItem(w.items, id)
	gen := w.gen
	w.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}

	if !w.opts.Confirm(item) {
		return ErrCancelled
	}

	if err := w.opts.API.DeleteItem(ctx, id); err != nil {
		return w.fail(gen, op, err)
	}

	w.mu.Lock()
	if w.editing != nil && w.editing.ID == id {
		w.editing = nil
	}
	w.mu.Unlock()

	w.banner.Show("Portfolio item deleted", LevelSuccess)

	return w.reload(ctx, gen)
}

// Edit только выбирает элемент для редактирования
func (w *Workflow) Edit(id uuid.UUID) error {
	w.mu.Lock()
	if w.state != StateLoggedIn {
		w.mu.Unlock()
		return ErrNotLoggedIn
	}

	item, ok := findItem(w.items, id)
	if !ok {
		w.mu.Unlock()
		return ErrItemNotFound
	}

	staged := item
	staged.Tags = append([]string(nil), item.Tags...)
	w.editing = &staged
	w.mu.Unlock()
	w.changed()

	return nil
}

// TODO: SaveEdit ждёт решения, обновлять элемент через PUT или пересоздавать его.
func (w *Workflow) SaveEdit(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.editing == nil {
		return ErrNothingStaged
	}
	return ErrNotImplemented
}

func (w *Workflow) CancelEdit() {
	w.mu.Lock()
	w.editing = nil
	w.mu.Unlock()
	w.changed()
}

// Close освобождает превью и отменяет применение незавершённых запросов
func (w *Workflow) Close() {
	w.mu.Lock()
	w.gen++
	w.dropFileLocked()
	w.editing = nil
	w.mu.Unlock()

	w.previews.ReleaseAll()
	w.banner.Dismiss()
}

// Reload повторно загружает список и статистику
func (w *Workflow) Reload(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateLoggedIn {
		w.mu.Unlock()
		return ErrNotLoggedIn
	}
	gen := w.gen
	w.mu.Unlock()

	return w.reload(ctx, gen)
}

func (w *Workflow) reload(ctx context.Context, gen uint64) error {
	const op = "admin.Workflow.reload"

	var (
		items []models.PortfolioItem
		stats models.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = w.opts.API.ListAdmin(gctx, api.AdminFilter{IncludeInactive: true})
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = w.opts.API.Stats(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return w.fail(gen, op, err)
	}

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return nil
	}
	w.items = items
	w.stats = stats
	w.mu.Unlock()
	w.changed()

	return nil
}

// fail 401 завершает сессию, остальные ошибки показываются баннером
func (w *Workflow) fail(gen uint64, op string, err error) error {
	w.log.Warn("admin request failed", slog.String("op", op), sl.Err(err))

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, api.ErrUnauthorized) {
		w.gen++
		w.resetLocked()
		w.state = StateLoggedOut
		w.loginError = MsgSessionExpired
		w.mu.Unlock()

		w.opts.Sessions.Invalidate()
		w.banner.Dismiss()
		w.changed()

		return fmt.Errorf("%s: %w", op, err)
	}
	w.mu.Unlock()

	w.banner.Show(api.Message(err), LevelError)

	return fmt.Errorf("%s: %w", op, err)
}

func (w *Workflow) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		State:      w.state,
		Tab:        w.tab,
		LoginError: w.loginError,
		Items:      append([]models.PortfolioItem(nil), w.items...),
		Stats:      w.stats,
		Draft:      w.draft,
	}

	if w.user != nil {
		u := *w.user
		v.User = &u
	}
	if w.editing != nil {
		e := *w.editing
		v.Editing = &e
	}
	if p, ok := w.previews.Get(w.draft.Preview); ok {
		v.Preview = &p
	}
	if msg, ok := w.banner.Current(); ok {
		v.Banner = &msg
	}

	return v
}

func findItem(items []models.PortfolioItem, id uuid.UUID) (models.PortfolioItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.PortfolioItem{}, false
}

func (w *Workflow) changed() {
	if w.opts.OnChange != nil {
		w.opts.OnChange()
	}
}
