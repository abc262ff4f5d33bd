package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/adocref/pkg/store"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject creates a small document tree with one broken include.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.adoc":        "= Book\ninclude::missing.adoc[]\ninclude::chapters/one.adoc[]\n",
		"chapters/one.adoc": "== One\nimage::logo.png[]\n",
		"chapters/logo.png": "png",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// resetCheckFlags restores check flag globals to their defaults.
func resetCheckFlags() {
	checkFormat = "human"
	checkColor = "never"
	checkFailOn = "error"
	checkDatastore = store.MemoryPath
	checkDirectives = ""
	checkDirectivesInclude = ""
	checkDirectivesExclude = ""
	checkIncremental = false
	checkCollectAttributes = false
	checkIncludeHidden = false
	checkKeepComments = false
	checkAttributes = nil
}

func TestRunCheck_Human(t *testing.T) {
	resetCheckFlags()
	defer resetCheckFlags()
	dir := writeProject(t)

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := runCheck(cmd, []string{dir})
	assert.Error(t, err, "error diagnostics fail the check")

	output := stdout.String()
	assert.Contains(t, output, filepath.Join(dir, "index.adoc")+":2:1: error: referenced file not found: missing.adoc [reference.not-found]")
	assert.Contains(t, output, "2 files checked: 1 errors, 0 warnings")
}

func TestRunCheck_FailOnNone(t *testing.T) {
	resetCheckFlags()
	defer resetCheckFlags()
	dir := writeProject(t)

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&checkFailOn, "fail-on", "error", "")
	require.NoError(t, cmd.Flags().Set("fail-on", "none"))
	cmd.SetOut(&bytes.Buffer{})

	assert.NoError(t, runCheck(cmd, []string{dir}))
}

func TestRunCheck_Clean(t *testing.T) {
	resetCheckFlags()
	defer resetCheckFlags()
	dir := writeProject(t)

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)

	err := runCheck(cmd, []string{filepath.Join(dir, "chapters", "one.adoc")})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "1 files checked: 0 errors, 0 warnings")
}

func TestRunCheck_SARIF(t *testing.T) {
	resetCheckFlags()
	defer resetCheckFlags()
	checkFormat = "sarif"
	dir := writeProject(t)

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)

	_ = runCheck(cmd, []string{dir})
	assert.Contains(t, stdout.String(), `"version": "2.1.0"`)
	assert.Contains(t, stdout.String(), "missing.adoc")
}

func TestRunCheck_MissingTarget(t *testing.T) {
	resetCheckFlags()
	cmd := &cobra.Command{}
	err := runCheck(cmd, []string{filepath.Join(t.TempDir(), "nope")})
	assert.ErrorContains(t, err, "target does not exist")
}

func TestFailed(t *testing.T) {
	results := []*types.CheckResult{
		{Path: "a.adoc", Diagnostics: []types.Diagnostic{{Severity: types.SeverityWarning}}},
	}
	assert.False(t, failed(results, "error"))
	assert.True(t, failed(results, "warning"))
	assert.False(t, failed(results, "none"))

	results = append(results, &types.CheckResult{Diagnostics: []types.Diagnostic{{Severity: types.SeverityError}}})
	assert.True(t, failed(results, "error"))
}
