package staging_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/filesystem"
	"github.com/arthur-debert/fman/pkg/staging"
	"github.com/arthur-debert/fman/pkg/types"
)

func newTestArea(t *testing.T) (types.FS, *staging.Area) {
	t.Helper()
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	area := staging.New(fs, "/trash", zerolog.Nop())
	require.NoError(t, area.Available())
	return fs, area
}

func TestPutAndRestore(t *testing.T) {
	fs, area := newTestArea(t)
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	require.NoError(t, fs.WriteFile("/home/user/notes.txt", []byte("keep me"), 0644))

	entry, err := area.Put("/home/user/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/notes.txt", entry.From)
	assert.Equal(t, "notes.txt", entry.Name)
	assert.EqualValues(t, 7, entry.Size)

	// Original is gone, payload is staged
	_, err = fs.Lstat("/home/user/notes.txt")
	assert.Error(t, err)

	require.NoError(t, area.Restore(entry))
	data, err := fs.ReadFile("/home/user/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	// Slot is released after restore
	entries, err := area.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPutMissingSource(t *testing.T) {
	_, area := newTestArea(t)

	_, err := area.Put("/nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRestoreIntoOccupiedPath(t *testing.T) {
	fs, area := newTestArea(t)
	require.NoError(t, fs.WriteFile("/a.txt", []byte("old"), 0644))

	entry, err := area.Put("/a.txt")
	require.NoError(t, err)

	// Someone creates a new file where the old one lived
	require.NoError(t, fs.WriteFile("/a.txt", []byte("new"), 0644))

	err = area.Restore(entry)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	// The staged payload is untouched and still listed
	entries, err := area.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestDiscardIsPermanent(t *testing.T) {
	fs, area := newTestArea(t)
	require.NoError(t, fs.WriteFile("/gone.txt", []byte("x"), 0644))

	entry, err := area.Put("/gone.txt")
	require.NoError(t, err)
	require.NoError(t, area.Discard(entry))

	entries, err := area.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Restore after discard cannot work
	err = area.Restore(entry)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestListOrdersOldestFirst(t *testing.T) {
	fs, area := newTestArea(t)
	require.NoError(t, fs.WriteFile("/one.txt", []byte("1"), 0644))
	require.NoError(t, fs.WriteFile("/two.txt", []byte("2"), 0644))

	first, err := area.Put("/one.txt")
	require.NoError(t, err)
	second, err := area.Put("/two.txt")
	require.NoError(t, err)

	entries, err := area.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
}
