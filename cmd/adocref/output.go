package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/praetorian-inc/adocref/pkg/sarif"
	"github.com/praetorian-inc/adocref/pkg/types"
	"golang.org/x/term"
)

// styles holds color formatters for human output
type styles struct {
	path    *color.Color
	err     *color.Color
	warning *color.Color
	code    *color.Color
	summary *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		path:    color.New(color.Bold),
		err:     color.New(color.Bold, color.FgRed),
		warning: color.New(color.Bold, color.FgYellow),
		code:    color.New(color.FgHiBlack),
		summary: color.New(color.Bold, color.FgHiWhite),
	}

	if !enabled {
		s.path.DisableColor()
		s.err.DisableColor()
		s.warning.DisableColor()
		s.code.DisableColor()
		s.summary.DisableColor()
	}

	return s
}

// colorEnabled resolves a --color flag value.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

func writeResults(out io.Writer, results []*types.CheckResult, format, colorMode string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "sarif":
		b, err := sarif.FromResults(results).ToJSON()
		if err != nil {
			return fmt.Errorf("serializing SARIF: %w", err)
		}
		if _, err := out.Write(b); err != nil {
			return fmt.Errorf("writing SARIF output: %w", err)
		}
		return nil
	case "human":
		writeHuman(out, results, newStyles(colorEnabled(colorMode)))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// writeHuman prints one line per diagnostic as path:line:col: severity: message.
func writeHuman(out io.Writer, results []*types.CheckResult, s *styles) {
	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
		for _, d := range r.Diagnostics {
			sev := s.err
			if d.Severity == types.SeverityWarning {
				sev = s.warning
			}
			start := d.Location.Source.Start
			fmt.Fprintf(out, "%s: %s: %s %s\n",
				s.path.Sprintf("%s:%d:%d", r.Path, start.Line, start.Column),
				sev.Sprint(d.Severity),
				d.Message,
				s.code.Sprintf("[%s]", d.Code),
			)
			if text := referenceText(r, d); text != "" {
				excerpt, marker := underline(text, excerptWidth)
				fmt.Fprintf(out, "    %s\n    %s\n", excerpt, sev.Sprint(marker))
			}
		}
	}

	counts := types.CountBySeverity(results)
	line := fmt.Sprintf("%d files checked: %d errors, %d warnings", len(results), counts[types.SeverityError], counts[types.SeverityWarning])
	if skipped > 0 {
		line += fmt.Sprintf(" (%d unchanged)", skipped)
	}
	fmt.Fprintln(out, s.summary.Sprint(line))
}

// excerptWidth is the widest reference excerpt printed, in terminal cells.
const excerptWidth = 76

// referenceText returns the source text of the reference d was reported for.
func referenceText(r *types.CheckResult, d types.Diagnostic) string {
	for _, ref := range r.References {
		if ref.Offset == d.Offset && ref.DirectiveID == d.DirectiveID {
			return ref.RawText
		}
	}
	return ""
}

// underline truncates text to width terminal cells and returns it with a
// caret marker of the same display width.
func underline(text string, width int) (string, string) {
	text = strings.ReplaceAll(text, "\t", " ")
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "...")
	}
	return text, strings.Repeat("^", max(runewidth.StringWidth(text), 1))
}

// failed reports whether results breach the fail-on threshold.
func failed(results []*types.CheckResult, failOn string) bool {
	counts := types.CountBySeverity(results)
	switch failOn {
	case "none":
		return false
	case string(types.SeverityWarning):
		return counts[types.SeverityError]+counts[types.SeverityWarning] > 0
	default:
		return counts[types.SeverityError] > 0
	}
}
