package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// copiedItem records what a copy created, for undo. Identity (size and
// mtime at copy time) decides whether undo may remove the destination or
// must degrade to Skipped because the copy has since been modified.
type copiedItem struct {
	dest    string
	isDir   bool
	size    int64
	modTime time.Time
}

// Copy copies a set of sources into a destination directory.
type Copy struct {
	fs      types.FS
	sources []string
	destDir string
	opts    Options
	log     zerolog.Logger

	result *types.CommandResult
	copied []copiedItem // successes only, in execution order
}

// NewCopy builds a copy command. Parameters are immutable after this call.
func NewCopy(filesystem types.FS, sources []string, destDir string, opts Options) *Copy {
	return &Copy{
		fs:      filesystem,
		sources: append([]string(nil), sources...),
		destDir: destDir,
		opts:    opts,
		log:     opts.Logger,
	}
}

// Kind implements types.Command.
func (c *Copy) Kind() types.CommandKind { return types.KindCopy }

// Describe implements types.Command.
func (c *Copy) Describe() string {
	return fmt.Sprintf("copy %d item(s) to %s", len(c.sources), c.destDir)
}

// Result implements types.Command.
func (c *Copy) Result() *types.CommandResult { return c.result }

// Execute implements types.Command.
func (c *Copy) Execute(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(c.sources))
	c.copied = nil
	cancelled := false
	total := len(c.sources)

	for i, src := range c.sources {
		if cancelRequested(ctx) {
			cancelled = true
			items = skipRemaining(items, c.sources[i:], errors.ErrCancelled, "cancelled before item started")
			break
		}

		outcome, undoInfo := c.copyOne(src, progress, i, total)
		items = append(items, outcome)
		if outcome.Status == types.StatusSucceeded {
			c.copied = append(c.copied, undoInfo)
		}
		report(progress, percentOf(i+1, total), "copied %s", filepath.Base(src))

		if outcome.Status == types.StatusFailed && c.opts.StopOnFirstError {
			items = skipRemaining(items, c.sources[i+1:], errors.ErrCancelled, "stopped after earlier failure")
			break
		}
	}

	c.result = &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	c.log.Info().Int("items", len(items)).Str("overall", string(c.result.Overall)).Msg("copy finished")
	return c.result
}

// Undo removes the destination copies of succeeded items, in reverse
// execution order. A destination that drifted since copy time is skipped
// with a reason, never force-removed.
func (c *Copy) Undo(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	if c.result == nil || len(c.copied) == 0 {
		return types.NewEmptyResult()
	}

	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(c.copied))
	cancelled := false
	total := len(c.copied)

	for i := total - 1; i >= 0; i-- {
		if cancelRequested(ctx) {
			cancelled = true
			for j := i; j >= 0; j-- {
				items = append(items, types.ItemOutcome{
					Source: c.copied[j].dest,
					Status: types.StatusSkipped,
					Err:    errors.New(errors.ErrCancelled, "cancelled before item started"),
				})
			}
			break
		}
		items = append(items, c.undoOne(c.copied[i]))
		report(progress, percentOf(total-i, total), "removed copy %s", filepath.Base(c.copied[i].dest))
	}

	return &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

func (c *Copy) copyOne(src string, progress types.ProgressFunc, index, total int) (types.ItemOutcome, copiedItem) {
	dest := filepath.Join(c.destDir, filepath.Base(src))
	outcome := types.ItemOutcome{Source: src, Destination: dest}

	if src == dest {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.Newf(errors.ErrSourceIsDest, "%s is its own destination", src)
		return outcome, copiedItem{}
	}

	info, err := c.fs.Stat(src)
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "stat source")
		return outcome, copiedItem{}
	}

	if _, err := c.fs.Lstat(dest); err == nil && c.opts.overwrite() == types.OverwriteNever {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.Newf(errors.ErrAlreadyExists, "destination %s already exists", dest)
		return outcome, copiedItem{}
	}

	var bytes int64
	if info.IsDir() {
		bytes, err = c.copyDir(src, dest, progress, index, total)
	} else {
		bytes, err = c.copyFile(src, dest, info, progress, index, total)
	}
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "copy")
		return outcome, copiedItem{}
	}

	if !info.IsDir() {
		// Preserve the source mtime on the copy, like a file manager would
		if err := c.fs.Chtimes(dest, time.Now(), info.ModTime()); err != nil {
			c.log.Debug().Err(err).Str("dest", dest).Msg("cannot preserve mtime")
		}
	}

	destInfo, err := c.fs.Stat(dest)
	if err != nil {
		// Copied but cannot record identity; undo will have to skip it.
		c.log.Warn().Err(err).Str("dest", dest).Msg("cannot record copy identity")
	}

	outcome.Status = types.StatusSucceeded
	outcome.Bytes = bytes

	undoInfo := copiedItem{dest: dest, isDir: info.IsDir()}
	if destInfo != nil {
		undoInfo.size = destInfo.Size()
		undoInfo.modTime = destInfo.ModTime()
	}
	return outcome, undoInfo
}

// copyFile streams src to dest in bounded chunks, reporting progress per
// chunk so large files do not go dark for the observer.
func (c *Copy) copyFile(src, dest string, info fs.FileInfo, progress types.ProgressFunc, index, total int) (int64, error) {
	in, err := c.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	out, err := c.fs.Create(dest)
	if err != nil {
		return 0, err
	}

	buf := make([]byte, c.opts.chunkSize())
	var written int64
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				_ = out.Close()
				_ = c.fs.Remove(dest)
				return written, writeErr
			}
			written += int64(n)
			report(progress, percentOf(index, total), "copying %s (%s/%s)",
				filepath.Base(src), formatBytes(written), formatBytes(info.Size()))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			_ = c.fs.Remove(dest)
			return written, readErr
		}
	}

	if err := out.Close(); err != nil {
		_ = c.fs.Remove(dest)
		return written, err
	}
	return written, nil
}

func (c *Copy) copyDir(src, dest string, progress types.ProgressFunc, index, total int) (int64, error) {
	if err := c.fs.MkdirAll(dest, 0755); err != nil {
		return 0, err
	}

	entries, err := c.fs.ReadDir(src)
	if err != nil {
		return 0, err
	}

	var written int64
	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDest := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			n, err := c.copyDir(childSrc, childDest, progress, index, total)
			written += n
			if err != nil {
				return written, err
			}
			continue
		}
		info, err := c.fs.Stat(childSrc)
		if err != nil {
			return written, err
		}
		n, err := c.copyFile(childSrc, childDest, info, progress, index, total)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (c *Copy) undoOne(item copiedItem) types.ItemOutcome {
	outcome := types.ItemOutcome{Source: item.dest}

	info, err := c.fs.Lstat(item.dest)
	if err != nil {
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.Wrap(err, errors.ErrNotFound, "copy no longer present")
		return outcome
	}

	// Identity check applies to regular files; a directory we created is
	// removed wholesale.
	if !item.isDir && (info.Size() != item.size || !info.ModTime().Equal(item.modTime)) {
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.Newf(errors.ErrInvalidInput,
			"%s was modified since the copy and is left in place", item.dest)
		return outcome
	}

	if item.isDir {
		err = c.fs.RemoveAll(item.dest)
	} else {
		err = c.fs.Remove(item.dest)
	}
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "remove copy")
		return outcome
	}

	outcome.Status = types.StatusSucceeded
	return outcome
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
