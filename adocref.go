// Package adocref checks the file references of AsciiDoc documents.
//
// A reference is an include, image, video, audio or xref directive whose
// target names a file. adocref finds references in document text, resolves
// their targets against the document's base directory, and reports the ones
// that are malformed or point at files that do not exist.
//
// # Basic Usage
//
// Create a checker with the builtin directives and check a document:
//
//	checker, err := adocref.NewChecker()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer checker.Close()
//
//	result, err := checker.CheckString("docs/index.adoc", "include::chapter.adoc[]\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range result.Diagnostics {
//	    fmt.Printf("%d:%d %s\n", d.Location.Source.Start.Line, d.Location.Source.Start.Column, d.Message)
//	}
//
// # Attributes
//
// Targets may use {name} attribute references:
//
//	checker, err := adocref.NewChecker(adocref.WithAttributes(map[string]string{
//	    "imagesdir": "images",
//	}))
package adocref

import (
	"context"
	"fmt"

	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/enum"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/praetorian-inc/adocref/pkg/validator"
	"github.com/spf13/afero"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/adocref" without subpackages.
type (
	// Reference is one directive occurrence found in a document.
	Reference = types.Reference

	// Diagnostic reports a malformed or unresolved reference.
	Diagnostic = types.Diagnostic

	// Directive defines how a kind of reference is recognized.
	Directive = types.Directive

	// Document is a document snapshot to check.
	Document = types.Document

	// CheckResult holds the references and diagnostics of one document.
	CheckResult = types.CheckResult

	// Severity of a diagnostic.
	Severity = types.Severity
)

// Re-export severities.
const (
	SeverityError   = types.SeverityError
	SeverityWarning = types.SeverityWarning
)

// Checker finds and validates references. It is safe for concurrent use.
type Checker struct {
	core   *checker.Core
	config *checkerConfig
}

// checkerConfig holds checker configuration.
type checkerConfig struct {
	directives   []*types.Directive
	fs           afero.Fs
	attributes   map[string]string
	keepComments bool
}

// Option configures a Checker.
type Option func(*checkerConfig)

// WithDirectives uses custom directives instead of the builtin set.
func WithDirectives(directives []*Directive) Option {
	return func(c *checkerConfig) {
		c.directives = directives
	}
}

// WithFs resolves targets and reads files through fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *checkerConfig) {
		c.fs = fs
	}
}

// WithAttributes sets the values substituted for {name} in targets.
func WithAttributes(attributes map[string]string) Option {
	return func(c *checkerConfig) {
		c.attributes = attributes
	}
}

// WithComments also checks references inside AsciiDoc comments.
func WithComments() Option {
	return func(c *checkerConfig) {
		c.keepComments = true
	}
}

// NewChecker creates a new Checker with the given options.
//
// By default, the checker:
//   - Uses the builtin AsciiDoc directives
//   - Resolves targets on the OS filesystem
//   - Ignores references inside comments (enable with WithComments)
func NewChecker(opts ...Option) (*Checker, error) {
	config := &checkerConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.fs == nil {
		config.fs = afero.NewOsFs()
	}

	core, err := checker.NewCore(checker.Config{
		Directives:   config.directives,
		Fs:           config.fs,
		Attributes:   config.attributes,
		KeepComments: config.keepComments,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checker: %w", err)
	}

	return &Checker{core: core, config: config}, nil
}

// Check checks a document snapshot.
func (c *Checker) Check(doc *Document) (*CheckResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", validator.ErrInvalidArgument)
	}
	return c.core.Check(doc)
}

// CheckString checks content as if it were stored at path. Targets resolve
// against the directory of path.
func (c *Checker) CheckString(path, content string) (*CheckResult, error) {
	return c.core.Check(types.NewFileDocument(path, content))
}

// CheckFile reads and checks a file.
func (c *Checker) CheckFile(path string) (*CheckResult, error) {
	content, err := afero.ReadFile(c.config.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return c.CheckString(path, string(content))
}

// CheckTree checks every AsciiDoc file under root. Results are ordered by path.
func (c *Checker) CheckTree(ctx context.Context, root string) ([]*CheckResult, error) {
	return c.core.CheckTree(ctx, enum.Config{Root: root, Fs: c.config.fs})
}

// Directives returns the directives the checker recognizes.
func (c *Checker) Directives() []*Directive {
	return c.core.Scanner().Directives()
}

// Close releases checker resources.
func (c *Checker) Close() error {
	return c.core.Close()
}
