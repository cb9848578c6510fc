// Package history implements the bounded undo/redo stacks over executed
// commands. History exclusively owns the commands recorded into it: when a
// command is evicted or the history is cleared, any recoverable state it
// still holds (staged deletes) is finalized for permanent removal.
package history

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// DefaultCapacity bounds the undo stack when no capacity is configured
const DefaultCapacity = 50

// History holds the undo and redo stacks. Mutating calls are serialized by
// a single mutex; the engine keeps history single-writer on top of that, so
// the lock only guards against accidental concurrent use, not stack-ordering
// races between interleaved undos.
type History struct {
	mu       sync.Mutex
	capacity int
	undo     []types.Command // most recent last
	redo     []types.Command // most recent last
	log      zerolog.Logger
}

// New creates a history bounded at capacity commands. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, logger zerolog.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, log: logger}
}

// Record pushes a fully executed command onto the undo stack and clears the
// redo stack: new work invalidates any previously undone future. When the
// stack exceeds capacity the oldest command is evicted and finalized.
// Eviction never triggers an undo.
func (h *History) Record(cmd types.Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, cmd)
	h.dropRedo()

	if len(h.undo) > h.capacity {
		evicted := h.undo[0]
		h.undo = append([]types.Command(nil), h.undo[1:]...)
		h.finalize(evicted)
		h.log.Debug().Str("kind", string(evicted.Kind())).Msg("evicted oldest command from history")
	}
}

// Undo pops the most recent command, invokes its compensating action and
// moves it to the redo stack. Fails with EMPTY_HISTORY when there is
// nothing to undo; that error changes no state.
func (h *History) Undo(ctx context.Context, progress types.ProgressFunc) (*types.CommandResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return nil, errors.New(errors.ErrEmptyHistory, "nothing to undo")
	}

	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	h.log.Info().Str("kind", string(cmd.Kind())).Str("command", cmd.Describe()).Msg("undoing")
	result := cmd.Undo(ctx, progress)

	h.redo = append(h.redo, cmd)
	return result, nil
}

// Redo pops the most recently undone command and re-executes it against its
// original parameters. Execution reports fresh per-item outcomes, so drift
// since the undo shows up as new failures rather than assumed successes.
func (h *History) Redo(ctx context.Context, progress types.ProgressFunc) (*types.CommandResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return nil, errors.New(errors.ErrEmptyHistory, "nothing to redo")
	}

	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	h.log.Info().Str("kind", string(cmd.Kind())).Str("command", cmd.Describe()).Msg("redoing")
	result := cmd.Execute(ctx, progress)

	h.undo = append(h.undo, cmd)
	return result, nil
}

// Clear discards both stacks, permanently finalizing staged-delete data.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cmd := range h.undo {
		h.finalize(cmd)
	}
	h.undo = nil
	h.dropRedo()
	h.log.Info().Msg("history cleared")
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Len returns the number of commands on the undo stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// Entries returns human-readable descriptions of both stacks, most recent
// first, for history listings.
func (h *History) Entries() (undo, redo []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.undo) - 1; i >= 0; i-- {
		undo = append(undo, h.undo[i].Describe())
	}
	for i := len(h.redo) - 1; i >= 0; i-- {
		redo = append(redo, h.redo[i].Describe())
	}
	return undo, redo
}

// dropRedo finalizes and discards the redo stack. Commands sitting on the
// redo stack have been undone, but a delete still owns staged payloads that
// its own undo already restored; finalizing an undone delete is a no-op for
// entries that were restored and a purge for any that were not.
func (h *History) dropRedo() {
	for _, cmd := range h.redo {
		h.finalize(cmd)
	}
	h.redo = nil
}

func (h *History) finalize(cmd types.Command) {
	finalizer, ok := cmd.(types.Finalizer)
	if !ok {
		return
	}
	if err := finalizer.Finalize(); err != nil {
		h.log.Warn().Err(err).Str("kind", string(cmd.Kind())).Msg("finalize failed")
	}
}
