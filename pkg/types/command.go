package types

import "context"

// CommandKind identifies the variant of a filesystem mutation
type CommandKind string

const (
	// KindCopy copies files into a destination directory
	KindCopy CommandKind = "copy"
	// KindMove moves files into a destination directory
	KindMove CommandKind = "move"
	// KindDelete moves files into the staging area
	KindDelete CommandKind = "delete"
	// KindCreateDirectory creates a new directory
	KindCreateDirectory CommandKind = "create_directory"
)

// OverwritePolicy controls what happens when a destination already exists
type OverwritePolicy string

const (
	// OverwriteNever fails the item when the destination exists
	OverwriteNever OverwritePolicy = "never"
	// OverwriteAlways replaces an existing destination
	OverwriteAlways OverwritePolicy = "always"
)

// Command is an encapsulated, undoable unit of filesystem mutation.
// Parameters are immutable after construction; the result is set exactly
// once, when Execute completes.
type Command interface {
	// Kind returns the command variant
	Kind() CommandKind

	// Describe returns a short human-readable description for history listings
	Describe() string

	// Execute performs the mutation over the configured path set. Per-item
	// failures are collected into the result, never raised. Cancellation is
	// observed between items via ctx. The progress func may be nil.
	Execute(ctx context.Context, progress ProgressFunc) *CommandResult

	// Undo compensates each succeeded item from the stored result, in
	// reverse execution order. A no-op returning an empty result when
	// Execute never ran or nothing succeeded.
	Undo(ctx context.Context, progress ProgressFunc) *CommandResult

	// Result returns the result of the most recent Execute, or nil
	Result() *CommandResult
}

// Finalizer is implemented by commands holding recoverable state that must
// be released permanently when the command leaves history (eviction or an
// explicit clear). Delete commands purge their staged payloads here.
type Finalizer interface {
	Finalize() error
}
