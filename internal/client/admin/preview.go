package admin

import (
	"sync"

	"asteca_portfolio/internal/domain/models"
)

// PreviewHandle 0 означает отсутствие превью
type PreviewHandle uint64

type Preview struct {
	Handle PreviewHandle
	Path   string
	Kind   models.MediaKind
}

// PreviewRegistry учитывает выданные превью выбранных файлов.
// Каждое Allocate должно быть парным Release.
type PreviewRegistry struct {
	mu   sync.Mutex
	next PreviewHandle
	live map[PreviewHandle]Preview
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{
		live: make(map[PreviewHandle]Preview),
	}
}

func (r *PreviewRegistry) Allocate(path string, kind models.MediaKind) PreviewHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.live[r.next] = Preview{Handle: r.next, Path: path, Kind: kind}
	return r.next
}

// Release возвращает false для уже освобождённого или нулевого хэндла
func (r *PreviewRegistry) Release(h PreviewHandle) bool {
	if h == 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[h]; !ok {
		return false
	}
	delete(r.live, h)
	return true
}

func (r *PreviewRegistry) Get(h PreviewHandle) (Preview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.live[h]
	return p, ok
}

func (r *PreviewRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.live)
}

func (r *PreviewRegistry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for h := range r.live {
		delete(r.live, h)
	}
}
