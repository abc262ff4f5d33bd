package directive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/adocref/pkg/types"
	"gopkg.in/yaml.v3"
)

// Loader handles loading directive definitions from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in directives
}

// NewLoader creates a loader with built-in directives from the embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// Parse loads all directives from YAML bytes.
func (l *Loader) Parse(data []byte) ([]*types.Directive, error) {
	var yamlFile yamlDirectivesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Directives) == 0 {
		return nil, fmt.Errorf("no directives found in YAML")
	}

	directives := make([]*types.Directive, 0, len(yamlFile.Directives))
	for _, yd := range yamlFile.Directives {
		directives = append(directives, convertYAMLDirective(yd))
	}
	return directives, nil
}

// LoadFile loads directives from a YAML file path.
func (l *Loader) LoadFile(path string) ([]*types.Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	directives, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return directives, nil
}

// LoadPath loads directives from a file, or from every .yml/.yaml file in a directory.
func (l *Loader) LoadPath(path string) ([]*types.Directive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return l.LoadFile(path)
	}

	var directives []*types.Directive
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		loaded, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		directives = append(directives, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(directives) == 0 {
		return nil, fmt.Errorf("no directive files found in %s", path)
	}
	return directives, nil
}

// LoadBuiltin loads all built-in directives from the loader's filesystem.
func (l *Loader) LoadBuiltin() ([]*types.Directive, error) {
	var directives []*types.Directive

	err := fs.WalkDir(l.fs, "directives", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		loaded, err := l.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		directives = append(directives, loaded...)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return directives, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// convertYAMLDirective converts yamlDirective to types.Directive.
func convertYAMLDirective(yd yamlDirective) *types.Directive {
	return &types.Directive{
		ID:               yd.ID,
		Name:             yd.Name,
		Kind:             types.DirectiveKind(yd.Kind),
		Keyword:          yd.Keyword,
		Pattern:          yd.Pattern,
		Severity:         types.Severity(strings.ToLower(yd.Severity)),
		Description:      yd.Description,
		Examples:         yd.Examples,
		NegativeExamples: yd.NegativeExamples,
		References:       yd.References,
	}
}
