// Package validator turns scanned references into diagnostics.
package validator

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/adocref/pkg/resolver"
	"github.com/praetorian-inc/adocref/pkg/scanner"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/tliron/commonlog"
)

// ErrInvalidArgument is returned for calls that violate the validator contract,
// such as a nil source or a source without a base directory.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	msgMalformed = "missing or malformed reference target"
	msgNotFound  = "referenced file not found: %s"
)

var log = commonlog.GetLogger("adocref.validator")

// Validator checks references against a Resolver.
// It holds no per-call state and may be shared between goroutines.
type Validator struct {
	resolver   *resolver.Resolver
	directives map[string]*types.Directive
}

// Option configures a Validator.
type Option func(*Validator)

// WithDirectives registers the directive definitions used to pick the
// severity of unresolved references. Unknown directive IDs report errors.
func WithDirectives(directives []*types.Directive) Option {
	return func(v *Validator) {
		for _, d := range directives {
			v.directives[d.ID] = d
		}
	}
}

// New creates a Validator using r to resolve targets.
func New(r *resolver.Resolver, opts ...Option) *Validator {
	v := &Validator{
		resolver:   r,
		directives: make(map[string]*types.Directive),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns one diagnostic per malformed or unresolved reference,
// in the order of refs.
func (v *Validator) Validate(src types.Source, refs []types.Reference) ([]types.Diagnostic, error) {
	var list types.DiagnosticList
	if err := v.ValidateInto(src, refs, &list); err != nil {
		return nil, err
	}
	return list.Items(), nil
}

// ValidateInto is Validate appending to a caller-owned list.
func (v *Validator) ValidateInto(src types.Source, refs []types.Reference, out *types.DiagnosticList) error {
	if err := checkSource(src); err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("%w: nil diagnostic list", ErrInvalidArgument)
	}

	baseDir := src.BaseDir()
	for _, ref := range refs {
		if ref.Malformed() {
			out.Add(types.NewDiagnostic(ref, types.SeverityError, types.CodeMalformed, msgMalformed))
			continue
		}

		_, err := v.resolver.Resolve(ref, baseDir)
		if err == nil {
			continue
		}
		if !errors.Is(err, resolver.ErrNotFound) {
			return fmt.Errorf("resolving %q: %w", ref.Target, err)
		}

		log.Debugf("%s:%d: unresolved target %q", src.Path(), ref.Line, ref.Target)
		sev := v.directives[ref.DirectiveID].UnresolvedSeverity()
		out.Add(types.NewDiagnostic(ref, sev, types.CodeNotFound, fmt.Sprintf(msgNotFound, ref.Target)))
	}
	return nil
}

// Check scans src with sc and validates the result.
func (v *Validator) Check(src types.Source, sc *scanner.Scanner) ([]types.Diagnostic, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scanner", ErrInvalidArgument)
	}
	return v.Validate(src, sc.ScanAll(src.Text()))
}

func checkSource(src types.Source) error {
	if types.IsNilSource(src) {
		return fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if src.BaseDir() == "" {
		return fmt.Errorf("%w: source %q has no base directory", ErrInvalidArgument, src.Path())
	}
	return nil
}
