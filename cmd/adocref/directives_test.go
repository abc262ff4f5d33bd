package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDirectivesList(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	directivesPath = ""
	directivesFormat = "table"

	err := runDirectivesList(cmd, []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "adoc.include")
	assert.Contains(t, output, "adoc.xref")
}

func TestRunDirectivesListJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	directivesPath = ""
	directivesFormat = "json"
	defer func() { directivesFormat = "table" }()

	err := runDirectivesList(cmd, []string{})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotEmpty(t, decoded)
}

func TestRunDirectivesList_UnknownFormat(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	directivesPath = ""
	directivesFormat = "xml"
	defer func() { directivesFormat = "table" }()

	err := runDirectivesList(cmd, []string{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestLoadDirectives_Filtered(t *testing.T) {
	directives, err := loadDirectives("", `^adoc\.image\.`, "")
	require.NoError(t, err)

	require.NotEmpty(t, directives)
	for _, d := range directives {
		assert.Contains(t, d.ID, "adoc.image.")
	}
}

func TestLoadDirectives_MissingPath(t *testing.T) {
	_, err := loadDirectives(filepath.Join(t.TempDir(), "nope.yml"), "", "")
	assert.Error(t, err)
}

func TestLoadDirectives_DoesNotMutateBuiltins(t *testing.T) {
	before, err := loadDirectives("", "", "")
	require.NoError(t, err)

	_, err = loadDirectives("", "", "adoc.include")
	require.NoError(t, err)

	after, err := loadDirectives("", "", "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}
