package shell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"asteca_portfolio/internal/client/admin"
	"asteca_portfolio/internal/client/catalog"
	"asteca_portfolio/internal/client/contact"
)

type Page string

const (
	PageHome      Page = "home"
	PagePortfolio Page = "portfolio"
	PageContact   Page = "contact"
	PageAdmin     Page = "admin"
)

func Pages() []Page {
	return []Page{PageHome, PagePortfolio, PageContact, PageAdmin}
}

// ParsePage неизвестное имя страницы ведёт на главную
func ParsePage(s string) Page {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages() {
		if p == known {
			return p
		}
	}
	return PageHome
}

type View interface {
	Mount(ctx context.Context) error
	Unmount()
}

// HomeView статичная страница без загрузки данных
type HomeView struct{}

func (HomeView) Mount(context.Context) error { return nil }
func (HomeView) Unmount()                    {}

// Deps экраны, которыми владеет Shell
type Deps struct {
	Log     *slog.Logger
	Home    View
	Catalog *catalog.View
	Contact *contact.Form
	Admin   *admin.Workflow
}

type Shell struct {
	mu      sync.Mutex
	log     *slog.Logger
	views   map[Page]View
	current Page
	mounted bool
}

func New(deps Deps) (*Shell, error) {
	if deps.Catalog == nil || deps.Contact == nil || deps.Admin == nil {
		return nil, fmt.Errorf("shell.New: catalog, contact and admin views are required")
	}
	if deps.Home == nil {
		deps.Home = HomeView{}
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	return &Shell{
		log: deps.Log,
		views: map[Page]View{
			PageHome:      deps.Home,
			PagePortfolio: deps.Catalog,
			PageContact:   deps.Contact,
			PageAdmin:     deps.Admin,
		},
		current: PageHome,
	}, nil
}

// Navigate размонтирует текущий экран и монтирует целевой.
// Ошибка монтирования уже отражена в состоянии экрана и только возвращается.
func (s *Shell) Navigate(ctx context.Context, page Page) (Page, error) {
	if _, ok := s.views[page]; !ok {
		page = PageHome
	}

	s.mu.Lock()
	prev, wasMounted := s.current, s.mounted
	s.current = page
	s.mounted = true
	s.mu.Unlock()

	if wasMounted {
		s.views[prev].Unmount()
	}

	s.log.Debug("navigate", slog.String("from", string(prev)), slog.String("to", string(page)))

	return page, s.views[page].Mount(ctx)
}

func (s *Shell) Current() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close размонтирует активный экран
func (s *Shell) Close() {
	s.mu.Lock()
	page, mounted := s.current, s.mounted
	s.mounted = false
	s.mu.Unlock()

	if mounted {
		s.views[page].Unmount()
	}
}
