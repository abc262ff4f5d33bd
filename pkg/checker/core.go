// Package checker runs the scan, resolve and validate pipeline over documents
// and records the results.
package checker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/praetorian-inc/adocref/pkg/directive"
	"github.com/praetorian-inc/adocref/pkg/enum"
	"github.com/praetorian-inc/adocref/pkg/resolver"
	"github.com/praetorian-inc/adocref/pkg/scanner"
	"github.com/praetorian-inc/adocref/pkg/store"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/praetorian-inc/adocref/pkg/validator"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("adocref.checker")

var (
	// cachedBuiltin holds builtin directives loaded once per process
	cachedBuiltin    []*types.Directive
	cachedBuiltinErr error
	cacheOnce        sync.Once
)

// BuiltinDirectives returns the built-in directives (cached).
func BuiltinDirectives() ([]*types.Directive, error) {
	cacheOnce.Do(func() {
		cachedBuiltin, cachedBuiltinErr = directive.NewLoader().LoadBuiltin()
	})
	return cachedBuiltin, cachedBuiltinErr
}

// Config for a Core.
type Config struct {
	// Directives to recognize. Nil loads the builtin set.
	Directives []*types.Directive

	// Fs resolves reference targets. Nil uses the OS filesystem.
	Fs afero.Fs

	// Attributes are substituted into {name} placeholders in targets.
	Attributes map[string]string

	// Store records results. Nil creates an in-memory store owned by the Core.
	Store store.Store

	// Incremental skips documents whose path and content were already checked.
	Incremental bool

	// KeepComments scans directives inside AsciiDoc comments too.
	KeepComments bool
}

// Core wraps the scanner, validator and store for check operations.
type Core struct {
	scanner     *scanner.Scanner
	validator   atomic.Pointer[validator.Validator]
	directives  []*types.Directive
	store       store.Store
	ownsStore   bool
	fs          afero.Fs
	incremental bool
}

// NewCore creates a Core from cfg.
func NewCore(cfg Config) (*Core, error) {
	directives := cfg.Directives
	if directives == nil {
		var err error
		directives, err = BuiltinDirectives()
		if err != nil {
			return nil, fmt.Errorf("loading builtin directives: %w", err)
		}
	}

	sc, err := scanner.New(directives, scanner.WithSkipComments(!cfg.KeepComments))
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	c := &Core{
		scanner:     sc,
		directives:  directives,
		store:       cfg.Store,
		fs:          fs,
		incremental: cfg.Incremental,
	}
	c.SetAttributes(cfg.Attributes)
	if c.store == nil {
		c.store = store.NewMemory()
		c.ownsStore = true
	}

	log.Debugf("core ready with %d directives", len(directives))
	return c, nil
}

// Scanner returns the scanner used by this Core.
func (c *Core) Scanner() *scanner.Scanner {
	return c.scanner
}

// Store returns the store results are recorded in.
func (c *Core) Store() store.Store {
	return c.store
}

// SetAttributes replaces the attributes substituted into targets. Checks
// already running keep the previous set.
func (c *Core) SetAttributes(attrs map[string]string) {
	r := resolver.New(c.fs, resolver.WithAttributes(attrs))
	c.validator.Store(validator.New(r, validator.WithDirectives(c.directives)))
}

// Check scans and validates one document and records the result.
// Documents without a path are checked but not recorded.
//
// In incremental mode a document whose path and content were already
// checked is not scanned again; its stored references are re-validated,
// since targets may have appeared or disappeared since.
func (c *Core) Check(src types.Source) (*types.CheckResult, error) {
	if types.IsNilSource(src) {
		return nil, fmt.Errorf("%w: nil source", validator.ErrInvalidArgument)
	}

	text := src.Text()
	result := &types.CheckResult{
		Path:      src.Path(),
		ContentID: types.ComputeContentID(text),
	}

	if c.incremental && result.Path != "" {
		seen, err := c.store.DocumentExists(result.Path, result.ContentID)
		if err != nil {
			return nil, err
		}
		if seen {
			log.Debugf("%s unchanged, reusing stored references", result.Path)
			if result.References, err = c.store.GetReferences(result.Path); err != nil {
				return nil, err
			}
			result.Skipped = true
		}
	}
	if !result.Skipped {
		result.References = c.scanner.ScanAll(text)
	}

	diags, err := c.validator.Load().Validate(src, result.References)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = diags

	if result.Path != "" {
		if err := c.record(result, int64(len(text))); err != nil {
			return nil, fmt.Errorf("recording %s: %w", result.Path, err)
		}
	}
	return result, nil
}

// CheckBatch checks multiple documents. Documents that fail are reported in
// Errors and do not stop the batch.
func (c *Core) CheckBatch(docs []*types.Document) (*BatchResult, error) {
	batch := &BatchResult{Results: []*types.CheckResult{}}
	for _, doc := range docs {
		if doc == nil {
			batch.Errors = append(batch.Errors, BatchError{Error: "nil document"})
			continue
		}
		result, err := c.Check(doc)
		if err != nil {
			batch.Errors = append(batch.Errors, BatchError{Path: doc.File, Error: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, result)
		batch.Total += len(result.Diagnostics)
	}
	return batch, nil
}

// CheckTree enumerates AsciiDoc documents under cfg.Root and checks them in
// parallel. Results are ordered by path.
func (c *Core) CheckTree(ctx context.Context, cfg enum.Config) ([]*types.CheckResult, error) {
	if cfg.Fs == nil {
		cfg.Fs = c.fs
	}

	var mu sync.Mutex
	var results []*types.CheckResult
	err := enum.NewFilesystemEnumerator(cfg).Enumerate(ctx, func(doc *types.Document, _ types.ContentID) error {
		result, err := c.Check(doc)
		if err != nil {
			return err
		}
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *types.CheckResult) int {
		return strings.Compare(a.Path, b.Path)
	})
	return results, nil
}

// Close releases resources owned by the Core.
func (c *Core) Close() error {
	if c.ownsStore {
		return c.store.Close()
	}
	return nil
}

func (c *Core) record(result *types.CheckResult, size int64) error {
	if err := c.store.AddDocument(result.Path, result.ContentID, size); err != nil {
		return err
	}
	for _, ref := range result.References {
		if err := c.store.AddReference(result.Path, ref); err != nil {
			return err
		}
	}
	for _, d := range result.Diagnostics {
		if err := c.store.AddDiagnostic(result.Path, d); err != nil {
			return err
		}
	}
	return nil
}
