package commands_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fman/pkg/commands"
	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/filesystem"
	"github.com/arthur-debert/fman/pkg/types"
)

func newTestFS(t *testing.T) types.FS {
	t.Helper()
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

func writeFiles(t *testing.T, fs types.FS, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.WriteFile(path, []byte(content), 0644))
	}
}

func exists(fs types.FS, path string) bool {
	_, err := fs.Lstat(path)
	return err == nil
}

func TestCopyFullSuccess(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/src", 0755))
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/src/a.txt": "alpha",
		"/src/b.txt": "bravo",
	})

	cmd := commands.NewCopy(fs, []string{"/src/a.txt", "/src/b.txt"}, "/dst", commands.Options{})
	result := cmd.Execute(context.Background(), nil)

	assert.Equal(t, types.StatusFullSuccess, result.Overall)
	require.Len(t, result.Items, 2)
	assert.EqualValues(t, 5, result.Items[0].Bytes)
	assert.True(t, exists(fs, "/dst/a.txt"))
	assert.True(t, exists(fs, "/dst/b.txt"))

	// Sources stay in place: copy is not move
	assert.True(t, exists(fs, "/src/a.txt"))

	assert.Same(t, result, cmd.Result())
}

// Three files where the second collides under the no-overwrite policy:
// partial success, and undo removes only what the copy created.
func TestCopyPartialSuccessOnCollision(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/src", 0755))
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/src/f1.txt": "one",
		"/src/f2.txt": "two",
		"/src/f3.txt": "three",
		"/dst/f2.txt": "already here",
	})

	cmd := commands.NewCopy(fs, []string{"/src/f1.txt", "/src/f2.txt", "/src/f3.txt"}, "/dst", commands.Options{})
	result := cmd.Execute(context.Background(), nil)

	assert.Equal(t, types.StatusPartialSuccess, result.Overall)
	require.Len(t, result.Items, 3)
	assert.Equal(t, types.StatusSucceeded, result.Items[0].Status)
	assert.Equal(t, types.StatusFailed, result.Items[1].Status)
	assert.True(t, errors.IsErrorCode(result.Items[1].Err, errors.ErrAlreadyExists))
	assert.Equal(t, types.StatusSucceeded, result.Items[2].Status)

	undoResult := cmd.Undo(context.Background(), nil)
	assert.Equal(t, types.StatusFullSuccess, undoResult.Overall)
	assert.False(t, exists(fs, "/dst/f1.txt"))
	assert.False(t, exists(fs, "/dst/f3.txt"))

	// The pre-existing file was never ours to remove
	data, err := fs.ReadFile("/dst/f2.txt")
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data))
}

func TestCopyOverwriteAlways(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/a.txt":     "fresh",
		"/dst/a.txt": "stale",
	})

	cmd := commands.NewCopy(fs, []string{"/a.txt"}, "/dst", commands.Options{Overwrite: types.OverwriteAlways})
	result := cmd.Execute(context.Background(), nil)

	assert.Equal(t, types.StatusFullSuccess, result.Overall)
	data, err := fs.ReadFile("/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

// A destination modified after the copy must survive undo: the item
// degrades to Skipped instead of removing data the user changed.
func TestCopyUndoSkipsDriftedDestination(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{"/a.txt": "original"})

	cmd := commands.NewCopy(fs, []string{"/a.txt"}, "/dst", commands.Options{})
	result := cmd.Execute(context.Background(), nil)
	require.Equal(t, types.StatusFullSuccess, result.Overall)

	// User edits the copy before the undo
	require.NoError(t, fs.WriteFile("/dst/a.txt", []byte("edited by someone else"), 0644))

	undoResult := cmd.Undo(context.Background(), nil)
	require.Len(t, undoResult.Items, 1)
	assert.Equal(t, types.StatusSkipped, undoResult.Items[0].Status)
	assert.True(t, exists(fs, "/dst/a.txt"))
}

func TestCopyChunkedReportsProgress(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{"/big.bin": "0123456789abcdef"})

	var reports []string
	progress := func(percent int, message string) { reports = append(reports, message) }

	cmd := commands.NewCopy(fs, []string{"/big.bin"}, "/dst", commands.Options{ChunkSize: 4})
	result := cmd.Execute(context.Background(), progress)

	require.Equal(t, types.StatusFullSuccess, result.Overall)
	assert.EqualValues(t, 16, result.Items[0].Bytes)
	// 16 bytes in 4-byte chunks: four chunk reports plus the item report
	assert.GreaterOrEqual(t, len(reports), 5)
}

func TestCopyStopOnFirstError(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/f1.txt": "one",
		"/f3.txt": "three",
	})

	cmd := commands.NewCopy(fs, []string{"/f1.txt", "/missing.txt", "/f3.txt"}, "/dst",
		commands.Options{StopOnFirstError: true})
	result := cmd.Execute(context.Background(), nil)

	assert.Equal(t, types.StatusPartialSuccess, result.Overall)
	require.Len(t, result.Items, 3)
	assert.Equal(t, types.StatusSucceeded, result.Items[0].Status)
	assert.Equal(t, types.StatusFailed, result.Items[1].Status)
	assert.True(t, errors.IsErrorCode(result.Items[1].Err, errors.ErrNotFound))
	assert.Equal(t, types.StatusSkipped, result.Items[2].Status)
	assert.False(t, exists(fs, "/dst/f3.txt"))
}

func TestCopyCancelledBeforeStart(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{"/a.txt": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := commands.NewCopy(fs, []string{"/a.txt"}, "/dst", commands.Options{})
	result := cmd.Execute(ctx, nil)

	assert.Equal(t, types.StatusCancelled, result.Overall)
	require.Len(t, result.Items, 1)
	assert.Equal(t, types.StatusSkipped, result.Items[0].Status)
	assert.False(t, exists(fs, "/dst/a.txt"))
}

func TestCopyDirectoryRecursive(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/src/photos/2024", 0755))
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/src/photos/cover.jpg":     "aaaa",
		"/src/photos/2024/trip.jpg": "bbbbbb",
	})

	cmd := commands.NewCopy(fs, []string{"/src/photos"}, "/dst", commands.Options{})
	result := cmd.Execute(context.Background(), nil)

	require.Equal(t, types.StatusFullSuccess, result.Overall)
	assert.EqualValues(t, 10, result.Items[0].Bytes)
	assert.True(t, exists(fs, "/dst/photos/cover.jpg"))
	assert.True(t, exists(fs, "/dst/photos/2024/trip.jpg"))

	undoResult := cmd.Undo(context.Background(), nil)
	assert.Equal(t, types.StatusFullSuccess, undoResult.Overall)
	assert.False(t, exists(fs, "/dst/photos"))
}

func TestCopyUndoWithoutExecuteIsNoop(t *testing.T) {
	fs := newTestFS(t)
	cmd := commands.NewCopy(fs, []string{"/a.txt"}, "/dst", commands.Options{})

	result := cmd.Undo(context.Background(), nil)
	assert.Empty(t, result.Items)
	assert.Equal(t, types.StatusFullSuccess, result.Overall)
}

// Redo after drift: re-executing against a vanished source reports a fresh
// failure, so the succeeded set never grows beyond the original run.
func TestCopyReexecuteAfterSourceDrift(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	writeFiles(t, fs, map[string]string{
		"/f1.txt": "one",
		"/f2.txt": "two",
	})

	cmd := commands.NewCopy(fs, []string{"/f1.txt", "/f2.txt"}, "/dst", commands.Options{})
	first := cmd.Execute(context.Background(), nil)
	require.Equal(t, types.StatusFullSuccess, first.Overall)

	undo := cmd.Undo(context.Background(), nil)
	require.Equal(t, types.StatusFullSuccess, undo.Overall)

	// Source #2 disappears between undo and redo
	require.NoError(t, fs.Remove("/f2.txt"))

	second := cmd.Execute(context.Background(), nil)
	assert.Equal(t, types.StatusPartialSuccess, second.Overall)
	assert.Equal(t, types.StatusSucceeded, second.Items[0].Status)
	assert.Equal(t, types.StatusFailed, second.Items[1].Status)
	assert.LessOrEqual(t, second.SucceededCount(), first.SucceededCount())
}
