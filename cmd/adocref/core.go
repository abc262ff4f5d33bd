package main

import (
	"context"
	"fmt"
	"maps"

	"github.com/praetorian-inc/adocref/pkg/attrs"
	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/config"
	"github.com/praetorian-inc/adocref/pkg/directive"
	"github.com/praetorian-inc/adocref/pkg/enum"
	"github.com/praetorian-inc/adocref/pkg/store"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/afero"
)

// loadDirectives returns the builtin directives plus those under path,
// filtered by comma-separated ID patterns.
func loadDirectives(path, include, exclude string) ([]*types.Directive, error) {
	directives, err := checker.BuiltinDirectives()
	if err != nil {
		return nil, err
	}
	directives = append([]*types.Directive{}, directives...)

	if path != "" {
		custom, err := directive.NewLoader().LoadPath(path)
		if err != nil {
			return nil, err
		}
		if err := directive.ValidateAll(custom); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		directives = append(directives, custom...)
	}

	if include != "" || exclude != "" {
		directives, err = directive.Filter(directives, directive.FilterConfig{
			Include: directive.ParsePatterns(include),
			Exclude: directive.ParsePatterns(exclude),
		})
		if err != nil {
			return nil, fmt.Errorf("filtering directives: %w", err)
		}
	}
	return directives, nil
}

// coreOptions select the parts of a Core not covered by the configuration file.
type coreOptions struct {
	root        string // attribute collection root; empty skips collection
	datastore   string
	incremental bool
}

// newCore builds a checker from c. The returned Core owns its store.
func newCore(ctx context.Context, c *config.Config, opts coreOptions) (*checker.Core, error) {
	directives, err := loadDirectives(c.Directives, c.IncludeDirectives, c.ExcludeDirectives)
	if err != nil {
		return nil, fmt.Errorf("loading directives: %w", err)
	}

	fs := afero.NewOsFs()
	attributes := maps.Clone(c.Attributes)
	if c.CollectAttributes && opts.root != "" {
		attributes, err = attrs.Collect(ctx, fs, opts.root, attributes)
		if err != nil {
			return nil, err
		}
	}

	datastore := opts.datastore
	if datastore == "" {
		datastore = store.MemoryPath
	}
	s, err := store.New(store.Config{Path: datastore})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	core, err := checker.NewCore(checker.Config{
		Directives:   directives,
		Fs:           fs,
		Attributes:   attributes,
		Store:        s,
		Incremental:  opts.incremental,
		KeepComments: c.KeepComments,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return core, nil
}

// treeConfig is the enumeration configuration for root.
func treeConfig(c *config.Config, root string) enum.Config {
	return enum.Config{
		Root:          root,
		Extensions:    c.Extensions,
		IncludeHidden: c.IncludeHidden,
		MaxFileSize:   c.MaxFileSize,
	}
}

func closeCore(core *checker.Core) {
	core.Close()
	core.Store().Close()
}
