// Package pageindex maps resident (File, page.ID) identities to the
// frame holding them. It exists so the buffer manager never has to
// scan every frame to answer "is this page already in the pool".
//
// Lookup reports absence as a second boolean return rather than a
// panic or a sentinel passed through an error: a miss is the normal,
// expected shape of a cold read, not a failure worth erroring over.
package pageindex

import (
	"errors"
	"fmt"

	"github.com/mich1498/Buffer-Manager/internal/diskfile"
	"github.com/mich1498/Buffer-Manager/internal/page"
)

// ErrExists is returned by Insert when the key is already present.
var ErrExists = errors.New("pageindex: key already present")

// ErrNotFound is returned by Remove when the key is not present.
var ErrNotFound = errors.New("pageindex: key not found")

// FrameID is the slot number of a frame in the buffer manager's table.
type FrameID int

// key identifies a resident page by its file and page number. File
// equality is interface identity, matching the pointer-identity
// comparison the original uses when scanning a file's resident pages.
type key struct {
	file diskfile.File
	id   page.ID
}

// Table maps (File, page.ID) to the frame currently holding it.
type Table struct {
	entries map[key]FrameID
}

// CapacityHint computes the bucket count hint this repository's
// reference sizing uses for a pool of numFrames frames: floor(N*1.2)+1,
// the same formula the original buffer manager's hash table uses.
func CapacityHint(numFrames int) int {
	return (numFrames*12)/10 + 1
}

// New returns an empty table sized for a pool of numFrames frames.
func New(numFrames int) *Table {
	return &Table{entries: make(map[key]FrameID, CapacityHint(numFrames))}
}

// Lookup reports the frame holding (file, id), if any.
func (t *Table) Lookup(file diskfile.File, id page.ID) (FrameID, bool) {
	f, ok := t.entries[key{file, id}]
	return f, ok
}

// Insert records that (file, id) is now held by frame. It fails if the
// key is already present; callers must Remove the key before
// re-inserting it.
func (t *Table) Insert(file diskfile.File, id page.ID, frame FrameID) error {
	k := key{file, id}
	if _, exists := t.entries[k]; exists {
		return fmt.Errorf("pageindex: insert page %d: %w", id, ErrExists)
	}
	t.entries[k] = frame
	return nil
}

// Remove drops the entry for (file, id). It fails if the key is absent.
func (t *Table) Remove(file diskfile.File, id page.ID) error {
	k := key{file, id}
	if _, exists := t.entries[k]; !exists {
		return fmt.Errorf("pageindex: remove page %d: %w", id, ErrNotFound)
	}
	delete(t.entries, k)
	return nil
}

// Len reports the number of resident entries, mainly for diagnostics.
func (t *Table) Len() int {
	return len(t.entries)
}
