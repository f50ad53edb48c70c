package buffer

import (
	"fmt"

	"github.com/mich1498/Buffer-Manager/internal/diskfile"
	"github.com/mich1498/Buffer-Manager/internal/page"
)

// frameDesc is the bookkeeping record for one frame of the buffer
// pool. It never holds page bytes itself — those live in the
// manager's separate frames array — only the identity and state
// needed to run the clock-sweep and to know what to write back.
type frameDesc struct {
	frameNo  int
	valid    bool
	file     diskfile.File
	pageNo   page.ID
	pinCount int
	dirty    bool
	refBit   bool
}

// set marks the frame resident and freshly pinned for (file, pageNo).
func (d *frameDesc) set(file diskfile.File, pageNo page.ID) {
	d.valid = true
	d.file = file
	d.pageNo = pageNo
	d.pinCount = 1
	d.dirty = false
	d.refBit = true
}

// clear returns the frame to the free state, ready for a new resident.
func (d *frameDesc) clear() {
	d.valid = false
	d.file = nil
	d.pageNo = page.InvalidID
	d.pinCount = 0
	d.dirty = false
	d.refBit = false
}

// String renders one diagnostic line, matching the field order
// buffer.cpp's BufDesc::Print prints.
func (d *frameDesc) String() string {
	name := "<nil>"
	if d.file != nil {
		name = d.file.Filename()
	}
	return fmt.Sprintf("frame=%d valid=%t file=%s page=%d pin=%d dirty=%t ref=%t",
		d.frameNo, d.valid, name, d.pageNo, d.pinCount, d.dirty, d.refBit)
}
