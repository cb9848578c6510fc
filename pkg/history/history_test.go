package history_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/history"
	"github.com/arthur-debert/fman/pkg/types"
)

// fakeCommand counts lifecycle calls; every execute/undo fully succeeds.
type fakeCommand struct {
	name      string
	executes  int
	undos     int
	finalized int
	result    *types.CommandResult
}

func (f *fakeCommand) Kind() types.CommandKind { return types.KindCopy }
func (f *fakeCommand) Describe() string        { return f.name }

func (f *fakeCommand) Execute(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	f.executes++
	items := []types.ItemOutcome{{Source: f.name, Status: types.StatusSucceeded}}
	f.result = &types.CommandResult{Items: items, Overall: types.ComputeOverall(items, false)}
	return f.result
}

func (f *fakeCommand) Undo(ctx context.Context, progress types.ProgressFunc) *types.CommandResult {
	f.undos++
	items := []types.ItemOutcome{{Source: f.name, Status: types.StatusSucceeded}}
	return &types.CommandResult{Items: items, Overall: types.ComputeOverall(items, false)}
}

func (f *fakeCommand) Result() *types.CommandResult { return f.result }
func (f *fakeCommand) Finalize() error              { f.finalized++; return nil }

func newHistory(capacity int) *history.History {
	return history.New(capacity, zerolog.Nop())
}

func TestUndoEmptyHistory(t *testing.T) {
	h := newHistory(10)

	_, err := h.Undo(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyHistory))
	assert.False(t, h.CanUndo())
}

func TestRedoEmptyWithoutPriorUndo(t *testing.T) {
	h := newHistory(10)
	h.Record(&fakeCommand{name: "a"})

	_, err := h.Redo(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyHistory))
}

func TestUndoThenRedo(t *testing.T) {
	h := newHistory(10)
	cmd := &fakeCommand{name: "a"}
	cmd.Execute(context.Background(), nil)
	h.Record(cmd)

	_, err := h.Undo(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.undos)
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	_, err = h.Redo(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.executes, "redo re-executes against original parameters")
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

// Recording new work after an undo invalidates the undone future.
func TestRecordClearsRedoStack(t *testing.T) {
	h := newHistory(10)
	first := &fakeCommand{name: "first"}
	first.Execute(context.Background(), nil)
	h.Record(first)

	_, err := h.Undo(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, h.CanRedo())

	second := &fakeCommand{name: "second"}
	second.Execute(context.Background(), nil)
	h.Record(second)

	assert.False(t, h.CanRedo())
	_, err = h.Redo(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEmptyHistory))

	// The dropped command was finalized, never undone
	assert.Equal(t, 1, first.finalized)
	assert.Equal(t, 1, first.undos)
}

func TestCapacityEviction(t *testing.T) {
	const capacity = 3
	h := newHistory(capacity)

	var cmds []*fakeCommand
	for i := 0; i < capacity; i++ {
		cmd := &fakeCommand{name: fmt.Sprintf("cmd-%d", i)}
		cmd.Execute(context.Background(), nil)
		h.Record(cmd)
		cmds = append(cmds, cmd)
	}
	assert.Equal(t, capacity, h.Len())
	assert.Zero(t, cmds[0].finalized, "no eviction at capacity")

	// The (N+1)-th record evicts exactly the oldest
	extra := &fakeCommand{name: "extra"}
	extra.Execute(context.Background(), nil)
	h.Record(extra)

	assert.Equal(t, capacity, h.Len())
	assert.Equal(t, 1, cmds[0].finalized)
	assert.Zero(t, cmds[0].undos, "eviction never triggers an undo")
	assert.Zero(t, cmds[1].finalized)
}

func TestClearFinalizesEverything(t *testing.T) {
	h := newHistory(10)
	a := &fakeCommand{name: "a"}
	b := &fakeCommand{name: "b"}
	for _, cmd := range []*fakeCommand{a, b} {
		cmd.Execute(context.Background(), nil)
		h.Record(cmd)
	}
	_, err := h.Undo(context.Background(), nil)
	require.NoError(t, err)

	h.Clear()

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, 1, a.finalized)
	assert.Equal(t, 1, b.finalized)
}

func TestEntriesMostRecentFirst(t *testing.T) {
	h := newHistory(10)
	for _, name := range []string{"one", "two", "three"} {
		cmd := &fakeCommand{name: name}
		cmd.Execute(context.Background(), nil)
		h.Record(cmd)
	}
	_, err := h.Undo(context.Background(), nil)
	require.NoError(t, err)

	undo, redo := h.Entries()
	assert.Equal(t, []string{"two", "one"}, undo)
	assert.Equal(t, []string{"three"}, redo)
}
