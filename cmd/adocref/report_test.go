package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/adocref/pkg/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInto runs a check that records results in dbPath.
func checkInto(t *testing.T, dir, dbPath string) {
	t.Helper()
	resetCheckFlags()
	defer resetCheckFlags()

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&checkDatastore, "datastore", store.MemoryPath, "")
	require.NoError(t, cmd.Flags().Set("datastore", dbPath))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	_ = runCheck(cmd, []string{dir})
}

func TestRunReport_Human(t *testing.T) {
	dir := writeProject(t)
	dbPath := filepath.Join(t.TempDir(), "adocref.db")
	checkInto(t, dir, dbPath)

	reportDatastore = dbPath
	reportFormat = "human"
	reportColor = "never"

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	require.NoError(t, runReport(cmd, nil))

	output := stdout.String()
	assert.Contains(t, output, "missing.adoc")
	assert.Contains(t, output, "2 files checked: 1 errors, 0 warnings")
}

func TestRunReport_JSON(t *testing.T) {
	dir := writeProject(t)
	dbPath := filepath.Join(t.TempDir(), "adocref.db")
	checkInto(t, dir, dbPath)

	reportDatastore = dbPath
	reportFormat = "json"
	defer func() { reportFormat = "human" }()

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	require.NoError(t, runReport(cmd, nil))

	var decoded []struct {
		Path        string           `json:"path"`
		Diagnostics []map[string]any `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, filepath.Join(dir, "chapters", "one.adoc"), decoded[0].Path)
	assert.Len(t, decoded[1].Diagnostics, 1)
}

func TestRunReport_Errors(t *testing.T) {
	cmd := &cobra.Command{}

	reportDatastore = store.MemoryPath
	assert.ErrorContains(t, runReport(cmd, nil), "in-memory")

	reportDatastore = filepath.Join(t.TempDir(), "absent.db")
	assert.ErrorContains(t, runReport(cmd, nil), "datastore not found")
}
