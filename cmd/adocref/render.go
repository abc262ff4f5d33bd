package main

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/praetorian-inc/adocref/pkg/render"
	"github.com/spf13/cobra"
)

var (
	renderBackend   string
	renderOutputDir string
	renderArgs      string
	renderBaseDir   string
	renderDryRun    bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a document with asciidoctor",
	Long: `Run the installed asciidoctor on a document using the render settings from
the configuration file. Flags override the configured values.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderBackend, "backend", "b", "", "Output backend (default from configuration)")
	renderCmd.Flags().StringVarP(&renderOutputDir, "output-dir", "D", "", "Output directory")
	renderCmd.Flags().StringVar(&renderArgs, "args", "", "Extra asciidoctor arguments, split shell-style")
	renderCmd.Flags().StringVarP(&renderBaseDir, "base-dir", "B", "", "Base directory for relative references")
	renderCmd.Flags().BoolVar(&renderDryRun, "dry-run", false, "Print the command without running it")
}

func renderOptions(cmd *cobra.Command) render.Options {
	rc := currentConfig().Render
	opts := render.Options{
		Path:       rc.Path,
		Attributes: maps.Clone(rc.Attributes),
		Backend:    rc.Backend,
		Args:       rc.Args,
		OutputDir:  rc.OutputDir,
		Timeout:    time.Duration(rc.TimeoutSeconds) * time.Second,
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		opts.Backend = renderBackend
	}
	if flags.Changed("output-dir") {
		opts.OutputDir = renderOutputDir
	}
	if flags.Changed("args") {
		opts.Args = renderArgs
	}
	if flags.Changed("base-dir") {
		opts.BaseDir = renderBaseDir
	}
	return opts
}

func runRender(cmd *cobra.Command, args []string) error {
	file := args[0]
	opts := renderOptions(cmd)

	if renderDryRun {
		argv, err := render.BuildCommand(file, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
		return nil
	}

	result, err := render.Run(commandContext(cmd), file, opts)
	var exitErr *render.ExitError
	switch {
	case errors.Is(err, render.ErrTimeout):
		return fmt.Errorf("rendering %s: timed out after %s", file, opts.Timeout)
	case errors.Is(err, render.ErrNotExecutable):
		return fmt.Errorf("rendering %s: %w (set render.path or ADOCREF_ASCIIDOCTOR_PATH)", file, err)
	case errors.As(err, &exitErr):
		fmt.Fprint(cmd.ErrOrStderr(), exitErr.Output)
		return fmt.Errorf("rendering %s: asciidoctor exited with code %d", file, exitErr.Code)
	case err != nil:
		return fmt.Errorf("rendering %s: %w", file, err)
	}

	if result.Output != "" {
		fmt.Fprint(cmd.ErrOrStderr(), result.Output)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s in %s\n", file, result.Duration.Round(time.Millisecond))
	return nil
}
