package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"

	"github.com/google/uuid"
)

type State int

const (
	StateLoading State = iota
	StateError
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

// CategoryAll снимает фильтр
const CategoryAll models.Category = "all"

// PlaceholderRef показывается вместо файла, который не удалось получить
const PlaceholderRef = "placeholder:portfolio-item"

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrItemNotFound    = errors.New("item not found")
	ErrNotLoaded       = errors.New("catalog not loaded")
	ErrUnsafeLink      = errors.New("only http and https links can be opened")
)

type Lister interface {
	ListPublic(ctx context.Context, filter api.Filter) ([]models.PortfolioItem, error)
}

// Preview то, что показывается при открытии изображения или видео
type Preview struct {
	Item        models.PortfolioItem
	Kind        models.ItemType
	URL         string
	Placeholder bool
}

type Options struct {
	Log      *slog.Logger
	API      Lister
	Opener   Opener
	Resolver Resolver
	// OnChange вызывается после каждого изменения состояния, без удержания блокировки
	OnChange func()
}

type Snapshot struct {
	State    State
	Error    string
	Category models.Category
	Items    []models.PortfolioItem
	Total    int
}

type View struct {
	mu       sync.Mutex
	opts     Options
	state    State
	err      error
	items    []models.PortfolioItem
	category models.Category
	gen      uint64
}

func New(opts Options) *View {
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Opener == nil {
		opts.Opener = BrowserOpener{}
	}

	return &View{
		opts:     opts,
		state:    StateLoading,
		category: CategoryAll,
	}
}

// Mount загружает список один раз. Результат, пришедший после Unmount, отбрасывается.
func (v *View) Mount(ctx context.Context) error {
	return v.load(ctx, "catalog.View.Mount")
}

// Retry повторяет загрузку из состояния Error
func (v *View) Retry(ctx context.Context) error {
	return v.load(ctx, "catalog.View.Retry")
}

func (v *View) load(ctx context.Context, op string) error {
	v.mu.Lock()
	v.state = StateLoading
	v.err = nil
	gen := v.gen
	v.mu.Unlock()
	v.changed()

	items, err := v.opts.API.ListPublic(ctx, api.Filter{})

	v.mu.Lock()
	if v.gen != gen {
		v.mu.Unlock()
		v.opts.Log.Debug("discarding stale catalog result", slog.String("op", op))
		return nil
	}

	if err != nil {
		v.state = StateError
		v.err = err
		v.mu.Unlock()
		v.opts.Log.Warn("failed to load catalog", slog.String("op", op), sl.Err(err))
		v.changed()
		return fmt.Errorf("%s: %w", op, err)
	}

	v.items = items
	v.state = StateLoaded
	v.mu.Unlock()
	v.changed()

	return nil
}

// Unmount делает все незавершённые загрузки устаревшими
func (v *View) Unmount() {
	v.mu.Lock()
	v.gen++
	v.mu.Unlock()
}

// SelectCategory фильтрует уже загруженный список, без запроса к серверу
func (v *View) SelectCategory(c models.Category) error {
	if c != CategoryAll && !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}

	v.mu.Lock()
	v.category = c
	v.mu.Unlock()
	v.changed()

	return nil
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := FilterByCategory(v.items, v.category)

	return Snapshot{
		State:    v.state,
		Error:    api.Message(v.err),
		Category: v.category,
		Items:    filtered,
		Total:    len(v.items),
	}
}

// FilterByCategory возвращает элементы с category == c; CategoryAll возвращает всё
func FilterByCategory(items []models.PortfolioItem, c models.Category) []models.PortfolioItem {
	out := make([]models.PortfolioItem, 0, len(items))
	for _, item := range items {
		if c == CategoryAll || item.Category == c {
			out = append(out, item)
		}
	}
	return out
}

// Open для ссылки отдаёт url в Opener; для изображения и видео возвращает
// Preview, при недоступном файле с плейсхолдером.
func (v *View) Open(ctx context.Context, id uuid.UUID) (Preview, error) {
	const op = "catalog.View.Open"

	v.mu.Lock()
	if v.state != StateLoaded {
		v.mu.Unlock()
		return Preview{}, ErrNotLoaded
	}
	item, ok := findItem(v.items, id)
	v.mu.Unlock()

	if !ok {
		return Preview{}, fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}

	if item.Type == models.ItemTypeLink {
		if item.URL == nil || *item.URL == "" {
			return Preview{}, fmt.Errorf("%s: link item has no url", op)
		}
		if !webLink(*item.URL) {
			return Preview{}, fmt.Errorf("%s: %w", op, ErrUnsafeLink)
		}
		if err := v.opts.Opener.Open(*item.URL); err != nil {
			return Preview{}, fmt.Errorf("%s: %w", op, err)
		}
		return Preview{Item: item, Kind: item.Type, URL: *item.URL}, nil
	}

	preview := Preview{Item: item, Kind: item.Type, URL: PlaceholderRef, Placeholder: true}

	ref := item.Ref()
	if ref == "" || v.opts.Resolver == nil {
		return preview, nil
	}

	resolved, err := v.opts.Resolver.Resolve(ctx, ref)
	if err != nil {
		v.opts.Log.Debug("media reference unavailable", slog.String("op", op), slog.String("ref", ref), sl.Err(err))
		return preview, nil
	}

	preview.URL = resolved
	preview.Placeholder = false

	return preview, nil
}

// webLink пропускает только абсолютные http(s) адреса с хостом
func webLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func findItem(items []models.PortfolioItem, id uuid.UUID) (models.PortfolioItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.PortfolioItem{}, false
}

func (v *View) changed() {
	if v.opts.OnChange != nil {
		v.opts.OnChange()
	}
}
