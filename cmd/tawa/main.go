// Command tawa drives the encode/decode/train/segment/tag/classify
// subcommands of spec.md §6, grounded on the per-tool `main()` drivers of
// original_source/Tawa-0.7/apps/{encode,train,transform,classify}.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeOf(err))
	}
}

// exitCodeOf maps a returned error to the process exit code spec.md §7
// mandates: the error's own ExitCode() when it has one (a *tawa.Fault
// reports 2 for a bad argument, 1 for every other fatal kind), else 1.
// A wrapped error is not unwrapped, and no panic is recovered here.
func exitCodeOf(err error) int {
	type exitCoder interface{ ExitCode() int }
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "tawa",
		Short: "statistical compression and noisy-channel text transformation",
	}
	root.PersistentFlags().IntVar(&flags.progress, "progress", 0, "log a progress line every N input positions (0 disables)")
	root.PersistentFlags().BoolVar(&flags.rangeDump, "range", false, "dump every processed token range")
	root.PersistentFlags().IntVar(&flags.level, "level", 0, "search verbosity threshold")
	root.PersistentFlags().IntVar(&flags.level1, "level1", 0, "finer-grained search verbosity threshold")
	root.PersistentFlags().BoolVar(&flags.pretty, "pretty-log", isTerminal(os.Stderr), "use human-readable console logging instead of JSON")

	root.AddCommand(
		newEncodeCmd(flags),
		newDecodeCmd(flags),
		newWordEncodeCmd(flags),
		newWordDecodeCmd(flags),
		newTrainCmd(flags),
		newSegmentCmd(flags),
		newTagCmd(flags),
		newClassifyCmd(flags),
	)
	return root
}

// globalFlags holds the persistent flags every subcommand shares: the
// debug channels of spec.md §6 plus the logging style.
type globalFlags struct {
	progress  int
	rangeDump bool
	level     int
	level1    int
	pretty    bool
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
