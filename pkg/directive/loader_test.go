package directive

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customYAML = `directives:
  - id: custom.partial
    name: Partial include
    kind: include
    keyword: "partial::"
    severity: warning
    pattern: '^partial::(?<target>[^\[\n]*)(?<close>\[(?<attrs>[^\]\n]*)\])?'
    description: Project specific partial include
    examples:
      - "partial::header.adoc[]"
    negative_examples:
      - "include::header.adoc[]"
`

func TestParse_Valid(t *testing.T) {
	loader := NewLoader()

	directives, err := loader.Parse([]byte(customYAML))
	require.NoError(t, err)
	require.Len(t, directives, 1)

	d := directives[0]
	assert.Equal(t, "custom.partial", d.ID)
	assert.Equal(t, "Partial include", d.Name)
	assert.Equal(t, types.KindInclude, d.Kind)
	assert.Equal(t, "partial::", d.Keyword)
	assert.Equal(t, types.SeverityWarning, d.Severity)
	assert.Len(t, d.Examples, 1)
	assert.Len(t, d.NegativeExamples, 1)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`this is not valid yaml: [[[`))
	assert.Error(t, err)
}

func TestParse_NoDirectives(t *testing.T) {
	_, err := NewLoader().Parse([]byte(`directives: []`))
	assert.Error(t, err)
}

func TestLoadBuiltin(t *testing.T) {
	directives, err := NewLoader().LoadBuiltin()
	require.NoError(t, err)
	require.NotEmpty(t, directives)

	ids := make(map[string]bool)
	for _, d := range directives {
		ids[d.ID] = true
	}
	assert.True(t, ids["adoc.include"])
	assert.True(t, ids["adoc.image.block"])
	assert.True(t, ids["adoc.xref"])
}

func TestLoadBuiltin_AllValid(t *testing.T) {
	directives, err := NewLoader().LoadBuiltin()
	require.NoError(t, err)

	for _, d := range directives {
		t.Run(d.ID, func(t *testing.T) {
			assert.NoError(t, ValidateDirective(d))
		})
	}
	assert.NoError(t, ValidateAll(directives))
}

func TestLoadBuiltin_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"directives/custom.yml": &fstest.MapFile{Data: []byte(customYAML)},
		"directives/README.md":  &fstest.MapFile{Data: []byte("ignored")},
	}

	directives, err := NewLoaderWithFS(fsys).LoadBuiltin()
	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, "custom.partial", directives[0].ID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0644))

	directives, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, directives, 1)

	_, err = NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadPath_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(customYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	directives, err := NewLoader().LoadPath(dir)
	require.NoError(t, err)
	assert.Len(t, directives, 1)

	empty := t.TempDir()
	_, err = NewLoader().LoadPath(empty)
	assert.Error(t, err)
}
