package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/fman/pkg/progress"
)

// spinnerObserver renders progress with a pterm spinner. It owns the
// spinner: the CLI attaches it before a run and detaches it afterwards,
// matching the non-owning-slot contract of the progress channel.
type spinnerObserver struct {
	spinner *pterm.SpinnerPrinter
}

func (o *spinnerObserver) Notify(percent int, message string) {
	o.spinner.UpdateText(fmt.Sprintf("%3d%% %s", percent, message))
}

func (o *spinnerObserver) stop() {
	_ = o.spinner.Stop()
}

// newObserver picks a progress renderer for the current terminal: a pterm
// spinner on a TTY, plain line output otherwise. The returned stop func
// must be called after the observer has been detached.
func newObserver() (progress.Observer, func()) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		spinner, err := pterm.DefaultSpinner.WithWriter(os.Stderr).Start()
		if err == nil {
			o := &spinnerObserver{spinner: spinner}
			return o, o.stop
		}
	}
	return progress.ObserverFunc(func(percent int, message string) {
		fmt.Fprintf(os.Stderr, "%3d%% %s\n", percent, message)
	}), func() {}
}
