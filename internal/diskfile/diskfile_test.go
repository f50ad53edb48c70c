package diskfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mich1498/Buffer-Manager/internal/page"
)

func open(t *testing.T) *DiskFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestAllocateAndReadPage(t *testing.T) {
	f := open(t)

	p, err := f.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, page.ID(0), p.ID())

	p2, err := f.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, page.ID(1), p2.ID())

	got, err := f.ReadPage(page.ID(0))
	require.NoError(t, err)
	assert.Equal(t, page.ID(0), got.ID())
}

func TestReadPageInvalid(t *testing.T) {
	f := open(t)

	_, err := f.ReadPage(page.ID(5))
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestWritePageRoundTrip(t *testing.T) {
	f := open(t)

	p, err := f.AllocatePage()
	require.NoError(t, err)
	copy(p.Data[:5], []byte("hello"))
	require.NoError(t, f.WritePage(p))

	got, err := f.ReadPage(p.ID())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got.Data[:5]))
}

func TestDeletePageInvalid(t *testing.T) {
	f := open(t)

	err := f.DeletePage(page.ID(0))
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.db")
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, path, f.Filename())
}

func TestReopenPicksUpExistingPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	f1, err := Open(path)
	require.NoError(t, err)
	_, err = f1.AllocatePage()
	require.NoError(t, err)
	_, err = f1.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, f1.Close())

	f2, err := Open(path)
	require.NoError(t, err)
	defer f2.Close()

	p, err := f2.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, page.ID(2), p.ID())
}
