// Package resolver decides whether a reference target exists on disk.
package resolver

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when a reference target does not resolve to an existing path.
var ErrNotFound = errors.New("reference target not found")

var log = commonlog.GetLogger("adocref.resolver")

var attrRefPattern = regexp.MustCompile(`\{([A-Za-z0-9_][A-Za-z0-9_-]*)\}`)

// Resolver checks reference targets against a filesystem.
type Resolver struct {
	fs    afero.Fs
	attrs map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAttributes sets the document attributes substituted into {name} placeholders.
func WithAttributes(attrs map[string]string) Option {
	return func(r *Resolver) {
		r.attrs = maps.Clone(attrs)
	}
}

// New creates a Resolver over fs.
func New(fs afero.Fs, opts ...Option) *Resolver {
	r := &Resolver{fs: fs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewOS creates a Resolver over the operating system filesystem.
func NewOS(opts ...Option) *Resolver {
	return New(afero.NewOsFs(), opts...)
}

// Fs returns the underlying filesystem.
func (r *Resolver) Fs() afero.Fs {
	return r.fs
}

// Resolve returns the path ref's target points to, relative to baseDir.
// A missing target, or any filesystem error, yields an error wrapping ErrNotFound.
func (r *Resolver) Resolve(ref types.Reference, baseDir string) (string, error) {
	fragment := r.Normalize(ref.Target)
	if fragment == "" {
		return "", fmt.Errorf("%w: empty target", ErrNotFound)
	}

	path := filepath.Join(baseDir, fragment)
	for _, candidate := range unicodeForms(path) {
		ok, err := afero.Exists(r.fs, candidate)
		if err != nil {
			log.Debugf("existence check for %s failed: %v", candidate, err)
			return "", fmt.Errorf("%w: %s: %v", ErrNotFound, candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// unicodeForms returns path followed by its distinct NFC and NFD spellings.
// Files written on macOS are often stored decomposed while editors type
// composed text.
func unicodeForms(path string) []string {
	forms := []string{path}
	for _, f := range []norm.Form{norm.NFC, norm.NFD} {
		if alt := f.String(path); !slices.Contains(forms, alt) {
			forms = append(forms, alt)
		}
	}
	return forms
}

// Normalize turns a raw target fragment into a relative OS path: attribute
// placeholders are substituted, the anchor is dropped and separators are
// converted.
func (r *Resolver) Normalize(target string) string {
	target = strings.TrimSpace(target)
	if len(r.attrs) > 0 {
		target = attrRefPattern.ReplaceAllStringFunc(target, func(m string) string {
			if v, ok := r.attrs[m[1:len(m)-1]]; ok {
				return v
			}
			return m
		})
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return ""
	}
	return filepath.FromSlash(strings.ReplaceAll(target, `\`, "/"))
}
