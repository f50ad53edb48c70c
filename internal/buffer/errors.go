package buffer

import "errors"

// ErrBufferExceeded is returned when every frame is pinned and no
// victim can be found for a new page.
var ErrBufferExceeded = errors.New("buffer: all frames pinned, pool exceeded")

// ErrPagePinned is returned when an operation requires a page to be
// unpinned but it is currently pinned by at least one client.
var ErrPagePinned = errors.New("buffer: page is pinned")

// ErrPageNotPinned is returned by UnpinPage when the target frame's
// pin count is already zero.
var ErrPageNotPinned = errors.New("buffer: page is not pinned")

// ErrBadBuffer is returned by FlushFile when a frame recorded as
// belonging to the file being flushed is not valid, an inconsistency
// between the frame table and the page index.
var ErrBadBuffer = errors.New("buffer: invalid frame")
