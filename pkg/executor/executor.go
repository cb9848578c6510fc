// Package executor drives commands through their lifecycle: run on a worker
// goroutine, progress streamed to the channel, result recorded into history.
// This is the surface the presentation layer talks to.
package executor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/history"
	"github.com/arthur-debert/fman/pkg/logging"
	"github.com/arthur-debert/fman/pkg/progress"
	"github.com/arthur-debert/fman/pkg/types"
)

// Coordinator runs one command at a time. History mutation is serialized by
// a coordinator-level mutex (single-writer discipline); the progress channel
// handles its own cross-thread locking.
type Coordinator struct {
	mu      sync.Mutex
	history *history.History
	channel *progress.Channel
	log     zerolog.Logger
}

// New creates a coordinator over the given history.
func New(hist *history.History, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		history: hist,
		channel: &progress.Channel{},
		log:     logger,
	}
}

// Execute runs cmd on a worker goroutine, forwarding its progress reports
// through the channel, and records it into history. A run with zero
// succeeded items is surfaced as an error and leaves history unchanged:
// there is nothing to undo.
func (c *Coordinator) Execute(ctx context.Context, cmd types.Command) (*types.CommandResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Info().Str("kind", string(cmd.Kind())).Str("command", cmd.Describe()).Msg("executing")
	finish := logging.LogOperationStart(c.log, string(cmd.Kind()))
	defer finish()

	done := make(chan *types.CommandResult, 1)
	go func() {
		done <- cmd.Execute(ctx, c.channel.Func())
	}()
	result := <-done

	if result.SucceededCount() == 0 {
		if result.Overall == types.StatusCancelled {
			// Cancelled before anything happened; nothing to undo, nothing
			// to record.
			return result, nil
		}
		return result, errors.Newf(errors.ErrCommandFailed, "%s: no item succeeded", cmd.Describe())
	}

	c.history.Record(cmd)
	return result, nil
}

// Undo compensates the most recently recorded command.
func (c *Coordinator) Undo(ctx context.Context) (*types.CommandResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Undo(ctx, c.channel.Func())
}

// Redo re-executes the most recently undone command.
func (c *Coordinator) Redo(ctx context.Context) (*types.CommandResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Redo(ctx, c.channel.Func())
}

// Clear discards history, permanently finalizing staged deletes.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history.Clear()
}

// History exposes the read-only history surface for listings.
func (c *Coordinator) History() *history.History { return c.history }

// AttachObserver installs the active progress observer. The caller keeps
// ownership of the observer and must detach it before disposing it.
func (c *Coordinator) AttachObserver(observer progress.Observer) {
	c.channel.Set(observer)
}

// DetachObserver clears the active progress observer.
func (c *Coordinator) DetachObserver() {
	c.channel.Clear()
}
