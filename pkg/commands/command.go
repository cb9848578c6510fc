// Package commands implements the undoable filesystem mutations: copy,
// move, delete and create-directory. Each variant is its own type behind
// the types.Command interface, so execute/undo dispatch is exhaustive at
// the call site instead of hidden in an inheritance tree.
//
// Execution semantics shared by every variant:
//
//   - per-item failures are collected as outcomes, never raised; a batch
//     only stops early under the stop-on-first-error policy
//   - cancellation is cooperative, observed between items; remaining items
//     become Skipped and the run aggregates as Cancelled
//   - one progress report per item at minimum; large copies also report
//     per chunk
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// DefaultChunkSize is the copy buffer size when none is configured.
// Large files stream through a buffer of this size rather than being
// loaded whole into memory.
const DefaultChunkSize int64 = 1 << 20

// Options carries the execution policies shared by all command variants.
type Options struct {
	// Overwrite controls destination collisions. Zero value is OverwriteNever.
	Overwrite types.OverwritePolicy

	// StopOnFirstError aborts the batch on the first failed item, marking
	// the remainder Skipped.
	StopOnFirstError bool

	// ChunkSize bounds the copy buffer. Zero means DefaultChunkSize.
	ChunkSize int64

	// Logger is the injected diagnostics sink. The zero value discards.
	Logger zerolog.Logger
}

func (o Options) overwrite() types.OverwritePolicy {
	if o.Overwrite == "" {
		return types.OverwriteNever
	}
	return o.Overwrite
}

func (o Options) chunkSize() int64 {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

// report is a nil-safe progress call.
func report(progress types.ProgressFunc, percent int, format string, args ...interface{}) {
	if progress == nil {
		return
	}
	progress(percent, fmt.Sprintf(format, args...))
}

// percentOf returns the whole-batch percentage after done of total items.
func percentOf(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}

// skipRemaining appends a Skipped outcome for every unprocessed source,
// carrying the reason (cancellation or stop-on-first-error).
func skipRemaining(items []types.ItemOutcome, sources []string, reason errors.ErrorCode, detail string) []types.ItemOutcome {
	for _, src := range sources {
		items = append(items, types.ItemOutcome{
			Source: src,
			Status: types.StatusSkipped,
			Err:    errors.New(reason, detail),
		})
	}
	return items
}

// cancelRequested reports whether the context has been cancelled. Checked
// between items only; a single item's I/O always completes or fails whole.
func cancelRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
