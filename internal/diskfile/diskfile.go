// Package diskfile is the File collaborator the buffer manager reads
// from and writes through. It is deliberately outside the buffer
// pool's trust boundary: the manager only ever calls through the File
// interface, never touches *DiskFile fields, and never outlives a
// File whose pages it still has resident (closing order is the
// embedder's responsibility).
package diskfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mich1498/Buffer-Manager/internal/page"
)

// ErrInvalidPage is returned by ReadPage for a page number the file
// has never allocated.
var ErrInvalidPage = errors.New("diskfile: invalid page number")

// File is the contract the buffer manager requires of its durable
// storage collaborator. The manager holds File values as non-owning
// handles: it never opens or closes them.
type File interface {
	// ReadPage returns a copy of the on-disk page.
	ReadPage(id page.ID) (page.Page, error)
	// WritePage durably writes p under its own page number.
	WritePage(p page.Page) error
	// AllocatePage reserves a fresh page number and returns a page
	// with that number and zeroed contents.
	AllocatePage() (page.Page, error)
	// DeletePage releases a page number. Reading it afterward is undefined.
	DeletePage(id page.ID) error
	// Filename is a stable identifier, used by the manager only for
	// defensive aliasing checks (two handles naming the same file).
	Filename() string
}

// DiskFile is a File backed by a single on-disk file, one fixed-size
// page per offset. It is the reference implementation used by this
// repository's tests and its cmd/bufferctl tool; the buffer manager
// never depends on anything beyond the File interface above.
type DiskFile struct {
	f          *os.File
	name       string
	nextPageID page.ID
}

// Open opens or creates the backing file at path and computes the
// next allocatable page number from its current size.
func Open(path string) (*DiskFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("diskfile: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("diskfile: stat %s: %w", path, err)
	}

	return &DiskFile{
		f:          f,
		name:       path,
		nextPageID: page.ID(info.Size() / page.Size),
	}, nil
}

// Filename returns the path the file was opened with.
func (d *DiskFile) Filename() string {
	return d.name
}

// ReadPage reads the page at the given number from disk.
func (d *DiskFile) ReadPage(id page.ID) (page.Page, error) {
	if id < 0 || id >= d.nextPageID {
		return page.Page{}, fmt.Errorf("diskfile: %s page %d: %w", d.name, id, ErrInvalidPage)
	}

	p := page.New(id)
	offset := int64(id) * int64(page.Size)
	if _, err := d.f.Seek(offset, io.SeekStart); err != nil {
		return page.Page{}, fmt.Errorf("diskfile: seek %s: %w", d.name, err)
	}

	if _, err := io.ReadFull(d.f, p.Data[:]); err != nil {
		return page.Page{}, fmt.Errorf("diskfile: read %s page %d: %w", d.name, id, err)
	}

	return p, nil
}

// WritePage writes p to its own offset, growing the file if needed.
func (d *DiskFile) WritePage(p page.Page) error {
	offset := int64(p.ID()) * int64(page.Size)
	if _, err := d.f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("diskfile: seek %s: %w", d.name, err)
	}

	if _, err := d.f.Write(p.Data[:]); err != nil {
		return fmt.Errorf("diskfile: write %s page %d: %w", d.name, p.ID(), err)
	}

	return nil
}

// AllocatePage reserves the next page number and returns a zeroed page.
func (d *DiskFile) AllocatePage() (page.Page, error) {
	id := d.nextPageID
	p := page.New(id)
	if err := d.WritePage(p); err != nil {
		return page.Page{}, fmt.Errorf("diskfile: allocate %s: %w", d.name, err)
	}
	d.nextPageID++
	return p, nil
}

// DeletePage releases a page number. This reference implementation
// only checks that the number was allocated. It does not reclaim disk
// space or mark the number as deleted: nextPageID is left untouched,
// so a later ReadPage of the number still returns its old bytes,
// which the File contract allows ("reading it afterward is undefined").
func (d *DiskFile) DeletePage(id page.ID) error {
	if id < 0 || id >= d.nextPageID {
		return fmt.Errorf("diskfile: %s page %d: %w", d.name, id, ErrInvalidPage)
	}
	return nil
}

// Close flushes and closes the backing file.
func (d *DiskFile) Close() error {
	if err := d.f.Sync(); err != nil {
		d.f.Close()
		return fmt.Errorf("diskfile: sync %s: %w", d.name, err)
	}
	return d.f.Close()
}
