package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// movedItem records one completed move, for undo.
type movedItem struct {
	source string
	dest   string
}

// Move moves a set of sources into a destination directory via rename.
type Move struct {
	fs      types.FS
	sources []string
	destDir string
	opts    Options
	log     zerolog.Logger

	result *types.CommandResult
	moved  []movedItem
}

// NewMove builds a move command. Parameters are immutable after this call.
func NewMove(filesystem types.FS, sources []string, destDir string, opts Options) *Move {
	return &Move{
		fs:      filesystem,
		sources: append([]string(nil), sources...),
		destDir: destDir,
		opts:    opts,
		log:     opts.Logger,
	}
}

// Kind implements types.Command.
func (m *Move) Kind() types.CommandKind { return types.KindMove }

// Describe implements types.Command.
func (m *Move) Describe() string {
	return fmt.Sprintf("move %d item(s) to %s", len(m.sources), m.destDir)
}

// Result implements types.Command.
func (m *Move) Result() *types.CommandResult { return m.result }

// Execute implements types.Command.
func (m *Move) Execute(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(m.sources))
	m.moved = nil
	cancelled := false
	total := len(m.sources)

	for i, src := range m.sources {
		if cancelRequested(ctx) {
			cancelled = true
			items = skipRemaining(items, m.sources[i:], errors.ErrCancelled, "cancelled before item started")
			break
		}

		outcome := m.moveOne(src)
		items = append(items, outcome)
		if outcome.Status == types.StatusSucceeded {
			m.moved = append(m.moved, movedItem{source: src, dest: outcome.Destination})
		}
		report(progress, percentOf(i+1, total), "moved %s", filepath.Base(src))

		if outcome.Status == types.StatusFailed && m.opts.StopOnFirstError {
			items = skipRemaining(items, m.sources[i+1:], errors.ErrCancelled, "stopped after earlier failure")
			break
		}
	}

	m.result = &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	m.log.Info().Int("items", len(items)).Str("overall", string(m.result.Overall)).Msg("move finished")
	return m.result
}

// Undo moves succeeded items back from destination to source, in reverse
// execution order.
func (m *Move) Undo(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	if m.result == nil || len(m.moved) == 0 {
		return types.NewEmptyResult()
	}

	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(m.moved))
	cancelled := false
	total := len(m.moved)

	for i := total - 1; i >= 0; i-- {
		if cancelRequested(ctx) {
			cancelled = true
			for j := i; j >= 0; j-- {
				items = append(items, types.ItemOutcome{
					Source: m.moved[j].dest,
					Status: types.StatusSkipped,
					Err:    errors.New(errors.ErrCancelled, "cancelled before item started"),
				})
			}
			break
		}
		items = append(items, m.undoOne(m.moved[i]))
		report(progress, percentOf(total-i, total), "moved back %s", filepath.Base(m.moved[i].source))
	}

	return &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

func (m *Move) moveOne(src string) types.ItemOutcome {
	dest := filepath.Join(m.destDir, filepath.Base(src))
	outcome := types.ItemOutcome{Source: src, Destination: dest}

	if src == dest {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.Newf(errors.ErrSourceIsDest, "%s is its own destination", src)
		return outcome
	}

	info, err := m.fs.Lstat(src)
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "stat source")
		return outcome
	}

	if _, err := m.fs.Lstat(dest); err == nil && m.opts.overwrite() == types.OverwriteNever {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.Newf(errors.ErrAlreadyExists, "destination %s already exists", dest)
		return outcome
	}

	if err := m.fs.Rename(src, dest); err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "rename")
		return outcome
	}

	outcome.Status = types.StatusSucceeded
	outcome.Bytes = info.Size()
	return outcome
}

func (m *Move) undoOne(item movedItem) types.ItemOutcome {
	outcome := types.ItemOutcome{Source: item.dest, Destination: item.source}

	if _, err := m.fs.Lstat(item.dest); err != nil {
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.Wrap(err, errors.ErrNotFound, "moved item no longer present")
		return outcome
	}

	if _, err := m.fs.Lstat(item.source); err == nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.Newf(errors.ErrAlreadyExists, "original location %s is occupied", item.source)
		return outcome
	}

	if err := m.fs.Rename(item.dest, item.source); err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = errors.FromOSError(err, "rename back")
		return outcome
	}

	outcome.Status = types.StatusSucceeded
	return outcome
}
