package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/praetorian-inc/adocref/pkg/watch"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration
	watchColor    string
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-check a directory whenever files change",
	Long: `Check a directory tree of AsciiDoc documents, then check it again after
files are created, written, removed or renamed. Runs until interrupted.

With collect_attributes enabled, header attributes are collected again
before every pass, so edits to entries such as :imagesdir: take effect
immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period after the last change before re-checking")
	watchCmd.Flags().StringVar(&watchColor, "color", "auto", "Color output: auto, always, never")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	c := currentConfig()
	// Attributes are collected per pass by watch.Run.
	core, err := newCore(ctx, c, coreOptions{})
	if err != nil {
		return err
	}
	defer closeCore(core)

	wcfg := watch.Config{
		Tree:              treeConfig(c, root),
		Debounce:          watchDebounce,
		CollectAttributes: c.CollectAttributes,
		Attributes:        c.Attributes,
	}

	out := cmd.OutOrStdout()
	s := newStyles(colorEnabled(watchColor))
	return watch.Run(ctx, core, wcfg, func(results []*types.CheckResult, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "check failed: %v\n", err)
			return
		}
		fmt.Fprintf(out, "\n[%s]\n", time.Now().Format(time.TimeOnly))
		writeHuman(out, results, s)
	})
}
