package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fman/internal/version"
	"github.com/arthur-debert/fman/pkg/config"
	"github.com/arthur-debert/fman/pkg/executor"
	"github.com/arthur-debert/fman/pkg/filesystem"
	"github.com/arthur-debert/fman/pkg/history"
	"github.com/arthur-debert/fman/pkg/logging"
	"github.com/arthur-debert/fman/pkg/paths"
	"github.com/arthur-debert/fman/pkg/staging"
)

var (
	verbosity        int
	overwrite        bool
	stopOnFirstError bool

	rootCmd = &cobra.Command{
		Use:   "fman",
		Short: "An undoable file-manager command engine",
		Long: `fman executes file-manager mutations (copy, move, delete, mkdir) as
undoable commands. Deletes are staged rather than erased, so undo can
restore them until history is purged.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Replace existing destinations instead of failing the item")
	rootCmd.PersistentFlags().BoolVar(&stopOnFirstError, "stop-on-error", false, "Abort the batch on the first failed item")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(classifyCmd)
}

// engine bundles everything one invocation needs.
type engine struct {
	coordinator *executor.Coordinator
	area        *staging.Area
	cfg         *config.Config
}

// newEngine wires the engine the way a host file manager would: OS
// filesystem, XDG paths, configured history bound, persistent trash.
func newEngine() (*engine, error) {
	p := paths.New()
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	area := staging.New(fs, cfg.Staging.Dir, logging.GetLogger("staging"))
	if err := area.Available(); err != nil {
		return nil, err
	}

	hist := history.New(cfg.History.Capacity, logging.GetLogger("history"))
	coord := executor.New(hist, logging.GetLogger("executor"))

	return &engine{coordinator: coord, area: area, cfg: cfg}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fman version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
