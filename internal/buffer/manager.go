// Package buffer implements the clock-sweep buffer pool manager: a
// fixed set of frames, each holding one page on behalf of some File,
// pinned by clients while they use it and reclaimed by a second-chance
// sweep when a fresh page needs a home.
//
// Manager performs no locking of its own. A single goroutine is
// expected to drive it; callers that need concurrent access should
// wrap it in Guarded.
package buffer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mich1498/Buffer-Manager/internal/diskfile"
	"github.com/mich1498/Buffer-Manager/internal/page"
	"github.com/mich1498/Buffer-Manager/internal/pageindex"
)

// Manager is the buffer pool. It owns numFrames frames, the pages
// currently loaded into them, and the index mapping resident page
// identities to their frame.
type Manager struct {
	frames []frameDesc
	pages  []page.Page
	index  *pageindex.Table

	clockHand int

	log     *zap.Logger
	metrics *Metrics
}

// New builds a Manager with numFrames frames. log and metrics may be
// nil; a nil logger falls back to zap.NewNop, and a nil metrics set
// is simply not incremented.
func New(numFrames int, log *zap.Logger, metrics *Metrics) *Manager {
	if numFrames <= 0 {
		panic("buffer: numFrames must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}

	frames := make([]frameDesc, numFrames)
	for i := range frames {
		frames[i] = frameDesc{frameNo: i, pageNo: page.InvalidID}
	}

	return &Manager{
		frames:  frames,
		pages:   make([]page.Page, numFrames),
		index:   pageindex.New(numFrames),
		log:     log,
		metrics: metrics,
	}
}

// NumFrames reports the pool's fixed frame count.
func (m *Manager) NumFrames() int {
	return len(m.frames)
}

// allocBuf runs the clock sweep to find a frame for a new resident,
// evicting and, if dirty, flushing whatever the frame previously held.
// It returns ErrBufferExceeded if every frame is pinned.
func (m *Manager) allocBuf() (int, error) {
	n := len(m.frames)

	allPinned := true
	for i := range m.frames {
		if m.frames[i].pinCount == 0 {
			allPinned = false
			break
		}
	}
	if allPinned {
		m.metrics.incBufferExceeded()
		return -1, ErrBufferExceeded
	}

	for {
		i := m.clockHand
		m.clockHand = (m.clockHand + 1) % n
		f := &m.frames[i]

		if !f.valid {
			return i, nil
		}

		if f.refBit {
			f.refBit = false
			continue
		}

		if f.pinCount > 0 {
			continue
		}

		if f.dirty {
			if err := f.file.WritePage(m.pages[i]); err != nil {
				return -1, fmt.Errorf("buffer: flush frame %d on eviction: %w", i, err)
			}
			m.metrics.incDirtyWritebacks()
		}

		if err := m.index.Remove(f.file, f.pageNo); err != nil {
			return -1, fmt.Errorf("buffer: evict frame %d: %w", i, err)
		}

		f.clear()
		m.metrics.incEvictions()
		return i, nil
	}
}

// ReadPage returns the page (file, pageNo), pinning it in a frame.
// If it is already resident, the pin count is bumped and its ref bit
// is set; otherwise a frame is found via allocBuf and the page is
// read in from file.
func (m *Manager) ReadPage(file diskfile.File, pageNo page.ID) (page.Page, error) {
	if frameNo, ok := m.index.Lookup(file, pageNo); ok {
		f := &m.frames[frameNo]
		f.pinCount++
		f.refBit = true
		m.metrics.incHits()
		return m.pages[frameNo], nil
	}

	m.metrics.incMisses()

	frameNo, err := m.allocBuf()
	if err != nil {
		return page.Page{}, err
	}

	p, err := file.ReadPage(pageNo)
	if err != nil {
		return page.Page{}, fmt.Errorf("buffer: read page %d: %w", pageNo, err)
	}

	if err := m.index.Insert(file, pageNo, pageindex.FrameID(frameNo)); err != nil {
		return page.Page{}, fmt.Errorf("buffer: read page %d: %w", pageNo, err)
	}

	m.pages[frameNo] = p
	m.frames[frameNo].set(file, pageNo)

	return p, nil
}

// AllocPage asks file for a brand-new page, pins it in a frame, and
// returns it; the freshly assigned page.ID is available as its ID().
func (m *Manager) AllocPage(file diskfile.File) (page.Page, error) {
	p, err := file.AllocatePage()
	if err != nil {
		return page.Page{}, fmt.Errorf("buffer: allocate page: %w", err)
	}

	frameNo, err := m.allocBuf()
	if err != nil {
		return page.Page{}, err
	}

	if err := m.index.Insert(file, p.ID(), pageindex.FrameID(frameNo)); err != nil {
		return page.Page{}, fmt.Errorf("buffer: allocate page %d: %w", p.ID(), err)
	}

	m.pages[frameNo] = p
	m.frames[frameNo].set(file, p.ID())

	return p, nil
}

// UnpinPage decrements the pin count of (file, pageNo) and marks it
// dirty if requested. A page that is not resident is a silent no-op —
// callers that unpin a page they never successfully fetched are not
// treated as having done anything wrong. ErrPageNotPinned is returned
// if the page is resident but its pin count is already zero.
func (m *Manager) UnpinPage(file diskfile.File, pageNo page.ID, dirty bool) error {
	frameNo, ok := m.index.Lookup(file, pageNo)
	if !ok {
		return nil
	}

	f := &m.frames[frameNo]
	if f.pinCount == 0 {
		return fmt.Errorf("buffer: unpin page %d: %w", pageNo, ErrPageNotPinned)
	}

	f.pinCount--
	if dirty {
		f.dirty = true
	}
	return nil
}

// FlushFile writes back every dirty resident page belonging to file
// and removes all of that file's pages from the pool. It returns
// ErrPagePinned if any of the file's resident pages is still pinned.
func (m *Manager) FlushFile(file diskfile.File) error {
	for i := range m.frames {
		f := &m.frames[i]
		if f.file != file || f.file.Filename() != file.Filename() {
			continue
		}

		if f.pinCount > 0 {
			return fmt.Errorf("buffer: flush file %s: page %d: %w", file.Filename(), f.pageNo, ErrPagePinned)
		}
		if !f.valid {
			return fmt.Errorf("buffer: flush file %s: %w", file.Filename(), ErrBadBuffer)
		}

		if f.dirty {
			if err := file.WritePage(m.pages[i]); err != nil {
				return fmt.Errorf("buffer: flush file %s page %d: %w", file.Filename(), f.pageNo, err)
			}
			m.metrics.incDirtyWritebacks()
		}

		if err := m.index.Remove(f.file, f.pageNo); err != nil {
			return fmt.Errorf("buffer: flush file %s page %d: %w", file.Filename(), f.pageNo, err)
		}
		f.clear()
	}

	return nil
}

// DisposePage discards (file, pageNo): if it is resident and pinned,
// ErrPagePinned is returned and nothing happens. Otherwise any
// resident frame is cleared (without writeback — a disposed page's
// contents are no longer wanted) and file.DeletePage is called
// unconditionally, whether or not the page was resident. This differs
// deliberately from disposal logic that skips the file delete on a
// lookup miss: callers ask to dispose a page identity, not a cache
// entry, so the file should always hear about it.
func (m *Manager) DisposePage(file diskfile.File, pageNo page.ID) error {
	if frameNo, ok := m.index.Lookup(file, pageNo); ok {
		f := &m.frames[frameNo]
		if f.pinCount > 0 {
			return fmt.Errorf("buffer: dispose page %d: %w", pageNo, ErrPagePinned)
		}
		if err := m.index.Remove(file, pageNo); err != nil {
			return fmt.Errorf("buffer: dispose page %d: %w", pageNo, err)
		}
		f.clear()
	}

	if err := file.DeletePage(pageNo); err != nil {
		return fmt.Errorf("buffer: dispose page %d: %w", pageNo, err)
	}
	return nil
}

// PrintSelf renders one diagnostic line per frame plus a trailing
// count of valid frames, matching the shape of the original's
// per-frame dump.
func (m *Manager) PrintSelf() string {
	var b strings.Builder
	valid := 0
	for i := range m.frames {
		f := &m.frames[i]
		fmt.Fprintln(&b, f.String())
		if f.valid {
			valid++
		}
	}
	fmt.Fprintf(&b, "%d frames, %d valid\n", len(m.frames), valid)
	return b.String()
}

// Close force-flushes every dirty valid frame, regardless of pin
// count, matching the original's destructor. A frame still pinned at
// shutdown is logged rather than treated as an error: Go can report
// I/O failures where a C++ destructor cannot, but a pinned-at-shutdown
// frame is not itself a failure. Close returns the first I/O error it
// hits but keeps flushing the remaining frames.
func (m *Manager) Close() error {
	var firstErr error

	for i := range m.frames {
		f := &m.frames[i]
		if !f.valid {
			continue
		}

		if f.pinCount > 0 {
			m.log.Warn("closing with page still pinned",
				zap.String("file", f.file.Filename()),
				zap.Int64("page", int64(f.pageNo)),
				zap.Int("pinCount", f.pinCount))
		}

		if f.dirty {
			if err := f.file.WritePage(m.pages[i]); err != nil {
				wrapped := fmt.Errorf("buffer: close: flush frame %d: %w", i, err)
				m.log.Error("flush on close failed", zap.Error(wrapped))
				if firstErr == nil {
					firstErr = wrapped
				}
			} else {
				m.metrics.incDirtyWritebacks()
			}
		}

		f.clear()
	}

	return firstErr
}
