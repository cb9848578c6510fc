package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/staging"
	"github.com/arthur-debert/fman/pkg/types"
)

// Delete relocates paths into the staging area instead of erasing them.
// Undo restores staged payloads; the payloads are erased for good only when
// Finalize runs, which history triggers on eviction or clear.
type Delete struct {
	fs      types.FS
	area    *staging.Area
	sources []string
	opts    Options
	log     zerolog.Logger

	result *types.CommandResult
	staged []*staging.Entry // successes only, in execution order; nil once restored
}

// NewDelete builds a delete command backed by the given staging area.
func NewDelete(filesystem types.FS, area *staging.Area, sources []string, opts Options) *Delete {
	return &Delete{
		fs:      filesystem,
		area:    area,
		sources: append([]string(nil), sources...),
		opts:    opts,
		log:     opts.Logger,
	}
}

// Kind implements types.Command.
func (d *Delete) Kind() types.CommandKind { return types.KindDelete }

// Describe implements types.Command.
func (d *Delete) Describe() string {
	return fmt.Sprintf("delete %d item(s)", len(d.sources))
}

// Result implements types.Command.
func (d *Delete) Result() *types.CommandResult { return d.result }

// Execute implements types.Command.
func (d *Delete) Execute(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(d.sources))
	d.staged = nil
	cancelled := false
	total := len(d.sources)

	for i, src := range d.sources {
		if cancelRequested(ctx) {
			cancelled = true
			items = skipRemaining(items, d.sources[i:], errors.ErrCancelled, "cancelled before item started")
			break
		}

		outcome := types.ItemOutcome{Source: src}
		entry, err := d.area.Put(src)
		if err != nil {
			outcome.Status = types.StatusFailed
			outcome.Err = err
		} else {
			outcome.Status = types.StatusSucceeded
			outcome.Bytes = entry.Size
			d.staged = append(d.staged, entry)
		}
		items = append(items, outcome)
		report(progress, percentOf(i+1, total), "deleted %s", filepath.Base(src))

		if outcome.Status == types.StatusFailed && d.opts.StopOnFirstError {
			items = skipRemaining(items, d.sources[i+1:], errors.ErrCancelled, "stopped after earlier failure")
			break
		}
	}

	d.result = &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	d.log.Info().Int("items", len(items)).Str("overall", string(d.result.Overall)).Msg("delete finished")
	return d.result
}

// Undo restores staged payloads to their original paths, in reverse
// execution order. Restored entries leave the staging area; whatever could
// not be restored stays staged until Finalize.
func (d *Delete) Undo(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	if d.result == nil || len(d.staged) == 0 {
		return types.NewEmptyResult()
	}

	started := time.Now()
	items := make([]types.ItemOutcome, 0, len(d.staged))
	cancelled := false
	total := len(d.staged)

	for i := total - 1; i >= 0; i-- {
		entry := d.staged[i]
		if entry == nil {
			continue
		}
		if cancelRequested(ctx) {
			cancelled = true
			for j := i; j >= 0; j-- {
				if d.staged[j] == nil {
					continue
				}
				items = append(items, types.ItemOutcome{
					Source: d.staged[j].From,
					Status: types.StatusSkipped,
					Err:    errors.New(errors.ErrCancelled, "cancelled before item started"),
				})
			}
			break
		}

		outcome := types.ItemOutcome{Source: entry.From, Destination: entry.From}
		if err := d.area.Restore(entry); err != nil {
			outcome.Status = types.StatusFailed
			outcome.Err = err
		} else {
			outcome.Status = types.StatusSucceeded
			outcome.Bytes = entry.Size
			d.staged[i] = nil
		}
		items = append(items, outcome)
		report(progress, percentOf(total-i, total), "restored %s", entry.Name)
	}

	return &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

// Finalize implements types.Finalizer: permanently discards any payloads
// still staged. Called by history when this command is evicted or cleared.
func (d *Delete) Finalize() error {
	var firstErr error
	for i, entry := range d.staged {
		if entry == nil {
			continue
		}
		if err := d.area.Discard(entry); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.staged[i] = nil
	}
	return firstErr
}
