package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// CreateDirectory creates a single new directory.
type CreateDirectory struct {
	fs   types.FS
	path string
	opts Options
	log  zerolog.Logger

	result  *types.CommandResult
	created bool
}

// NewCreateDirectory builds a create-directory command.
func NewCreateDirectory(filesystem types.FS, path string, opts Options) *CreateDirectory {
	return &CreateDirectory{
		fs:   filesystem,
		path: path,
		opts: opts,
		log:  opts.Logger,
	}
}

// Kind implements types.Command.
func (c *CreateDirectory) Kind() types.CommandKind { return types.KindCreateDirectory }

// Describe implements types.Command.
func (c *CreateDirectory) Describe() string {
	return fmt.Sprintf("create directory %s", c.path)
}

// Result implements types.Command.
func (c *CreateDirectory) Result() *types.CommandResult { return c.result }

// Execute implements types.Command.
func (c *CreateDirectory) Execute(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	started := time.Now()
	outcome := types.ItemOutcome{Source: c.path, Destination: c.path}
	c.created = false

	cancelled := cancelRequested(ctx)
	switch {
	case cancelled:
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.New(errors.ErrCancelled, "cancelled before item started")
	default:
		if err := c.fs.Mkdir(c.path, 0755); err != nil {
			outcome.Status = types.StatusFailed
			outcome.Err = errors.FromOSError(err, "mkdir")
		} else {
			outcome.Status = types.StatusSucceeded
			c.created = true
		}
	}

	report(progress, 100, "created %s", c.path)

	items := []types.ItemOutcome{outcome}
	c.result = &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, cancelled),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	c.log.Info().Str("path", c.path).Str("overall", string(c.result.Overall)).Msg("mkdir finished")
	return c.result
}

// Undo removes the created directory only when it is still empty;
// otherwise the item is skipped and the directory left alone.
func (c *CreateDirectory) Undo(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	if c.result == nil || !c.created {
		return types.NewEmptyResult()
	}

	started := time.Now()
	outcome := types.ItemOutcome{Source: c.path}

	entries, err := c.fs.ReadDir(c.path)
	switch {
	case err != nil:
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.Wrap(err, errors.ErrNotFound, "directory no longer present")
	case len(entries) > 0:
		outcome.Status = types.StatusSkipped
		outcome.Err = errors.Newf(errors.ErrInvalidInput, "%s is not empty and is left in place", c.path)
	default:
		if err := c.fs.Remove(c.path); err != nil {
			outcome.Status = types.StatusFailed
			outcome.Err = errors.FromOSError(err, "rmdir")
		} else {
			outcome.Status = types.StatusSucceeded
		}
	}

	report(progress, 100, "removed %s", c.path)

	items := []types.ItemOutcome{outcome}
	return &types.CommandResult{
		Items:      items,
		Overall:    types.ComputeOverall(items, false),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}
