package buffer

import (
	"sync"

	"github.com/mich1498/Buffer-Manager/internal/diskfile"
	"github.com/mich1498/Buffer-Manager/internal/page"
)

// Guarded wraps a *Manager behind a mutex, giving embedders that need
// concurrent access a drop-in, fully serialized version of the same
// public surface. Manager itself stays lock-free so its single-
// threaded cost model (spec'd as no internal locking) remains
// provable by inspection; Guarded is the opt-in convenience layer on
// top, one import away.
type Guarded struct {
	mu sync.Mutex
	m  *Manager
}

// NewGuarded wraps m. The caller must not use m directly afterward.
func NewGuarded(m *Manager) *Guarded {
	return &Guarded{m: m}
}

func (g *Guarded) NumFrames() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.NumFrames()
}

func (g *Guarded) ReadPage(file diskfile.File, pageNo page.ID) (page.Page, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.ReadPage(file, pageNo)
}

func (g *Guarded) AllocPage(file diskfile.File) (page.Page, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.AllocPage(file)
}

func (g *Guarded) UnpinPage(file diskfile.File, pageNo page.ID, dirty bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.UnpinPage(file, pageNo, dirty)
}

func (g *Guarded) FlushFile(file diskfile.File) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.FlushFile(file)
}

func (g *Guarded) DisposePage(file diskfile.File, pageNo page.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.DisposePage(file, pageNo)
}

func (g *Guarded) PrintSelf() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.PrintSelf()
}

func (g *Guarded) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m.Close()
}
