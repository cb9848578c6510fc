package types

import "time"

// ItemStatus defines the per-path result of executing or undoing one item
type ItemStatus string

const (
	// StatusSucceeded means the item was fully processed
	StatusSucceeded ItemStatus = "succeeded"
	// StatusFailed means the item could not be processed
	StatusFailed ItemStatus = "failed"
	// StatusSkipped means the item was deliberately not processed
	// (cancellation, drift, idempotent no-op)
	StatusSkipped ItemStatus = "skipped"
)

// OverallStatus aggregates a whole command run
type OverallStatus string

const (
	// StatusFullSuccess means every item succeeded
	StatusFullSuccess OverallStatus = "full_success"
	// StatusPartialSuccess means some items succeeded and some did not
	StatusPartialSuccess OverallStatus = "partial_success"
	// StatusAllFailed means every attempted item failed, or none were attempted
	StatusAllFailed OverallStatus = "failed"
	// StatusCancelled means cancellation was observed before all items ran
	StatusCancelled OverallStatus = "cancelled"
)

// ItemOutcome is one filesystem entry's result. Immutable once produced.
type ItemOutcome struct {
	Source      string
	Destination string // empty for delete and mkdir undo
	Status      ItemStatus
	Err         error // nil unless Status is Failed, or Skipped with a reason
	Bytes       int64 // bytes transferred, for copies and moves
}

// CommandResult aggregates the outcomes of one command execution or undo.
type CommandResult struct {
	Items      []ItemOutcome
	Overall    OverallStatus
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewEmptyResult returns the result of a vacuous run, such as undoing a
// command that never executed. Zero items, nothing to report.
func NewEmptyResult() *CommandResult {
	now := time.Now()
	return &CommandResult{
		Overall:    StatusFullSuccess,
		StartedAt:  now,
		FinishedAt: now,
	}
}

// SucceededCount returns the number of items that succeeded.
func (r *CommandResult) SucceededCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Status == StatusSucceeded {
			n++
		}
	}
	return n
}

// Succeeded returns the outcomes that succeeded, in execution order.
func (r *CommandResult) Succeeded() []ItemOutcome {
	var out []ItemOutcome
	for _, item := range r.Items {
		if item.Status == StatusSucceeded {
			out = append(out, item)
		}
	}
	return out
}

// TotalBytes returns the sum of bytes transferred across all items.
func (r *CommandResult) TotalBytes() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Bytes
	}
	return total
}

// ComputeOverall derives the aggregate status from per-item outcomes.
// A run that observed cancellation is Cancelled no matter what the item
// mix looks like. Otherwise: all succeeded is full success, zero succeeded
// is failed, anything in between is partial.
func ComputeOverall(items []ItemOutcome, cancelled bool) OverallStatus {
	if cancelled {
		return StatusCancelled
	}
	if len(items) == 0 {
		return StatusAllFailed
	}
	succeeded := 0
	for _, item := range items {
		if item.Status == StatusSucceeded {
			succeeded++
		}
	}
	switch succeeded {
	case len(items):
		return StatusFullSuccess
	case 0:
		return StatusAllFailed
	default:
		return StatusPartialSuccess
	}
}
