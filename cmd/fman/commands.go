package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/fman/pkg/classify"
	"github.com/arthur-debert/fman/pkg/commands"
	"github.com/arthur-debert/fman/pkg/filesystem"
	"github.com/arthur-debert/fman/pkg/logging"
	"github.com/arthur-debert/fman/pkg/types"
)

func commandOptions(component string) commands.Options {
	opts := commands.Options{
		StopOnFirstError: stopOnFirstError,
		Logger:           logging.GetLogger(component),
	}
	if overwrite {
		opts.Overwrite = types.OverwriteAlways
	}
	return opts
}

// run executes one engine call with an observer attached and an
// interrupt-driven cancellation context. Cancellation is cooperative: the
// in-flight item finishes, the rest are skipped.
func run(call func(ctx context.Context, eng *engine) (*types.CommandResult, error)) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	observer, stopObserver := newObserver()
	eng.coordinator.AttachObserver(observer)
	defer func() {
		eng.coordinator.DetachObserver()
		stopObserver()
	}()

	result, err := call(ctx, eng)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func printResult(result *types.CommandResult) {
	fmt.Printf("%s: %d item(s), %s transferred in %s\n",
		result.Overall, len(result.Items), byteCount(result.TotalBytes()),
		result.FinishedAt.Sub(result.StartedAt).Round(timeResolution))
	for _, item := range result.Items {
		if item.Err != nil {
			fmt.Printf("  %-9s %s: %v\n", item.Status, item.Source, item.Err)
		}
	}
}

var copyCmd = &cobra.Command{
	Use:   "cp SOURCE... DEST_DIR",
	Short: "Copy files into a directory (undoable)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			opts := commandOptions("commands.copy")
			opts.ChunkSize = eng.cfg.Copy.ChunkSize
			c := commands.NewCopy(filesystem.NewOS(), args[:len(args)-1], args[len(args)-1], opts)
			return eng.coordinator.Execute(ctx, c)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "mv SOURCE... DEST_DIR",
	Short: "Move files into a directory (undoable)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			c := commands.NewMove(filesystem.NewOS(), args[:len(args)-1], args[len(args)-1], commandOptions("commands.move"))
			return eng.coordinator.Execute(ctx, c)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "rm PATH...",
	Short: "Delete files into the trash (undoable until purged)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			c := commands.NewDelete(filesystem.NewOS(), eng.area, args, commandOptions("commands.delete"))
			return eng.coordinator.Execute(ctx, c)
		})
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir PATH",
	Short: "Create a directory (undoable while empty)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			c := commands.NewCreateDirectory(filesystem.NewOS(), args[0], commandOptions("commands.mkdir"))
			return eng.coordinator.Execute(ctx, c)
		})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			return eng.coordinator.Undo(ctx)
		})
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Re-execute the most recently undone command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(ctx context.Context, eng *engine) (*types.CommandResult, error) {
			return eng.coordinator.Redo(ctx)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the undo and redo stacks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		undo, redo := eng.coordinator.History().Entries()
		fmt.Printf("undo stack (%d):\n", len(undo))
		for i, entry := range undo {
			fmt.Printf("  %2d. %s\n", i+1, entry)
		}
		fmt.Printf("redo stack (%d):\n", len(redo))
		for i, entry := range redo {
			fmt.Printf("  %2d. %s\n", i+1, entry)
		}

		entries, err := eng.area.List()
		if err == nil && len(entries) > 0 {
			fmt.Printf("trash (%d):\n", len(entries))
			for _, entry := range entries {
				fmt.Printf("  %s  %s\n", entry.StagedAt.Format("2006-01-02 15:04"), entry.From)
			}
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Clear history and permanently erase staged deletes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		eng.coordinator.Clear()

		// Staged payloads from earlier invocations are not on the in-memory
		// stacks; sweep the area itself.
		entries, err := eng.area.List()
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := eng.area.Discard(entry); err != nil {
				return err
			}
		}
		fmt.Printf("purged %d staged item(s)\n", len(entries))
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify PATH",
	Short: "Print the preview category for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if info.IsDir() {
			fmt.Println(classify.CategoryDirectory)
			return nil
		}
		fmt.Println(classify.Classify(args[0]))
		return nil
	},
}
