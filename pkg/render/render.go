// Package render invokes an installed asciidoctor executable on a document.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tliron/commonlog"
)

// DefaultTimeout bounds a single renderer run.
const DefaultTimeout = 2 * time.Minute

// Executable is the renderer binary name.
const Executable = "asciidoctor"

// BaseDirAttribute is an attribute key passed as -B instead of -a.
const BaseDirAttribute = "adocref-basedir"

// outdirAttribute also sets the -D output directory.
const outdirAttribute = "outdir"

var (
	// ErrTimeout is returned when the renderer does not finish in time.
	ErrTimeout = errors.New("renderer timed out")
	// ErrNotExecutable is returned when the renderer cannot be started.
	ErrNotExecutable = errors.New("renderer is not executable")
)

var log = commonlog.GetLogger("adocref.render")

// ExitError reports a renderer run that exited with a non-zero code.
type ExitError struct {
	Code   int
	Output string // captured stderr
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("asciidoctor exited with code %d: %s", e.Code, strings.TrimSpace(e.Output))
}

// Options configures a renderer invocation.
type Options struct {
	// Path is the directory holding the executable. Empty resolves via $PATH.
	Path string
	// Attributes are passed as -a key=value, sorted by key. Empty values are skipped.
	Attributes map[string]string
	Backend    string
	// Args are extra command line arguments, split shell-style.
	Args      string
	BaseDir   string
	OutputDir string
	// Timeout bounds the run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result of a successful renderer run.
type Result struct {
	Command  []string
	Output   string // captured stderr
	Duration time.Duration
}

// BuildCommand returns the argv used to render file.
func BuildCommand(file string, opts Options) ([]string, error) {
	cmd := []string{executablePath(opts.Path)}

	baseDir := opts.BaseDir
	outDir := opts.OutputDir

	keys := make([]string, 0, len(opts.Attributes))
	for k := range opts.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := opts.Attributes[k]
		if v == "" {
			continue
		}
		if k == BaseDirAttribute {
			if baseDir == "" {
				baseDir = v
			}
			continue
		}
		if k == outdirAttribute && outDir == "" {
			outDir = v
		}
		cmd = append(cmd, "-a", k+"="+v)
	}

	if opts.Backend != "" {
		cmd = append(cmd, "-b", opts.Backend)
	}

	extra, err := SplitArgs(opts.Args)
	if err != nil {
		return nil, fmt.Errorf("parsing renderer arguments: %w", err)
	}
	cmd = append(cmd, extra...)

	if baseDir != "" {
		cmd = append(cmd, "-B", baseDir)
	}
	if outDir != "" {
		cmd = append(cmd, "-D", outDir)
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", file, err)
	}
	return append(cmd, abs), nil
}

// Run renders file and waits at most opts.Timeout for the renderer to finish.
func Run(ctx context.Context, file string, opts Options) (*Result, error) {
	argv, err := BuildCommand(file, opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	log.Debugf("rendering: %s", strings.Join(argv, " "))
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotExecutable, argv[0], err)
	}
	err = cmd.Wait()
	result := &Result{Command: argv, Output: stderr.String(), Duration: time.Since(start)}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, file)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			log.Warningf("rendering %s failed with exit code %d", file, exitErr.ExitCode())
			return nil, &ExitError{Code: exitErr.ExitCode(), Output: result.Output}
		}
		return nil, fmt.Errorf("running %s: %w", argv[0], err)
	}

	if result.Output != "" {
		log.Info(strings.TrimSpace(result.Output))
	}
	return result, nil
}

func executablePath(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return Executable
	}
	return filepath.Join(dir, Executable)
}
