package adocref

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.FromSlash(f), []byte("= Doc\n"), 0o644))
	}
	return fs
}

func TestNewChecker(t *testing.T) {
	checker, err := NewChecker()
	require.NoError(t, err)
	defer checker.Close()

	assert.NotEmpty(t, checker.Directives(), "should have loaded builtin directives")
}

func TestCheckString(t *testing.T) {
	checker, err := NewChecker(WithFs(memFs(t, "/docs/a.adoc")))
	require.NoError(t, err)
	defer checker.Close()

	result, err := checker.CheckString(filepath.FromSlash("/docs/index.adoc"), "include::a.adoc[]\nimage::logo.png[]\n")
	require.NoError(t, err)

	assert.Len(t, result.References, 2)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "logo.png", result.Diagnostics[0].Target)
	assert.Equal(t, SeverityError, result.Diagnostics[0].Severity)
}

func TestWithAttributes(t *testing.T) {
	checker, err := NewChecker(
		WithFs(memFs(t, "/docs/images/logo.png")),
		WithAttributes(map[string]string{"imagesdir": "images"}),
	)
	require.NoError(t, err)
	defer checker.Close()

	result, err := checker.CheckString(filepath.FromSlash("/docs/index.adoc"), "image::{imagesdir}/logo.png[]\n")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestWithComments(t *testing.T) {
	content := "// include::gone.adoc[]\n"

	skipping, err := NewChecker(WithFs(memFs(t)))
	require.NoError(t, err)
	defer skipping.Close()
	result, err := skipping.CheckString(filepath.FromSlash("/docs/index.adoc"), content)
	require.NoError(t, err)
	assert.Empty(t, result.References)

	keeping, err := NewChecker(WithFs(memFs(t)), WithComments())
	require.NoError(t, err)
	defer keeping.Close()
	result, err = keeping.CheckString(filepath.FromSlash("/docs/index.adoc"), content)
	require.NoError(t, err)
	assert.Len(t, result.Diagnostics, 1)
}

func TestCheckFile(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, filepath.FromSlash("/docs/index.adoc"), []byte("include::gone.adoc[]\n"), 0o644))

	checker, err := NewChecker(WithFs(fs))
	require.NoError(t, err)
	defer checker.Close()

	result, err := checker.CheckFile(filepath.FromSlash("/docs/index.adoc"))
	require.NoError(t, err)
	assert.Len(t, result.Diagnostics, 1)

	_, err = checker.CheckFile(filepath.FromSlash("/docs/missing.adoc"))
	assert.Error(t, err)
}

func TestCheckTree(t *testing.T) {
	fs := memFs(t, "/docs/a.adoc", "/docs/b.adoc")
	checker, err := NewChecker(WithFs(fs))
	require.NoError(t, err)
	defer checker.Close()

	results, err := checker.CheckTree(context.Background(), filepath.FromSlash("/docs"))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.FromSlash("/docs/a.adoc"), results[0].Path)
}

func TestCheck_NilDocument(t *testing.T) {
	checker, err := NewChecker(WithFs(memFs(t)))
	require.NoError(t, err)
	defer checker.Close()

	_, err = checker.Check(nil)
	assert.Error(t, err)
}
