package sarif

import (
	"encoding/json"
	"testing"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnostic(sev types.Severity, code types.Code, line int) types.Diagnostic {
	return types.Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     "referenced file not found: chapter.adoc",
		DirectiveID: "adoc.include",
		Target:      "chapter.adoc",
		Line:        line,
		Location: types.Location{
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: line, Column: 1},
				End:   types.SourcePoint{Line: line, Column: 24},
			},
		},
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport()

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	assert.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, ToolVersion, report.Runs[0].Tool.Driver.Version)
}

func TestAddRules(t *testing.T) {
	report := NewReport()

	report.AddRules()

	driverRules := report.Runs[0].Tool.Driver.Rules
	require.Len(t, driverRules, 2)
	assert.Equal(t, "reference.malformed", driverRules[0].ID)
	assert.Equal(t, "reference.not-found", driverRules[1].ID)
}

func TestAddResult(t *testing.T) {
	report := NewReport()

	report.AddResult(diagnostic(types.SeverityError, types.CodeNotFound, 10), "/path/to/guide.adoc")

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "reference.not-found", result.RuleID)
	assert.Equal(t, "error", result.Level)
	assert.Equal(t, "referenced file not found: chapter.adoc", result.Message.Text)
	assert.Equal(t, "adoc.include", result.Properties["directiveId"])

	location := result.Locations[0]
	assert.Equal(t, "file:///path/to/guide.adoc", location.PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 10, location.PhysicalLocation.Region.StartLine)
	assert.Equal(t, 1, location.PhysicalLocation.Region.StartColumn)
	assert.Equal(t, 10, location.PhysicalLocation.Region.EndLine)
	assert.Equal(t, 24, location.PhysicalLocation.Region.EndColumn)
}

func TestLevels(t *testing.T) {
	report := NewReport()

	report.AddResult(diagnostic(types.SeverityWarning, types.CodeNotFound, 1), "a.adoc")
	report.AddResult(diagnostic(types.SeverityError, types.CodeMalformed, 2), "a.adoc")

	assert.Equal(t, "warning", report.Runs[0].Results[0].Level)
	assert.Equal(t, "error", report.Runs[0].Results[1].Level)
}

func TestFromResults(t *testing.T) {
	results := []*types.CheckResult{
		{Path: "docs/a.adoc", Diagnostics: []types.Diagnostic{diagnostic(types.SeverityError, types.CodeNotFound, 3)}},
		{Path: "docs/b.adoc"},
		{Path: "docs/c.adoc", Diagnostics: []types.Diagnostic{
			diagnostic(types.SeverityError, types.CodeMalformed, 1),
			diagnostic(types.SeverityWarning, types.CodeNotFound, 7),
		}},
	}

	report := FromResults(results)

	assert.Len(t, report.Runs[0].Tool.Driver.Rules, 2)
	require.Len(t, report.Runs[0].Results, 3)
	assert.Equal(t, "docs/a.adoc", report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "docs/c.adoc", report.Runs[0].Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestToJSON(t *testing.T) {
	report := FromResults([]*types.CheckResult{
		{Path: "/test/file.adoc", Diagnostics: []types.Diagnostic{diagnostic(types.SeverityError, types.CodeNotFound, 1)}},
	})

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBytes, &parsed))
	assert.Equal(t, SchemaURI, parsed["$schema"])
	assert.Equal(t, Version, parsed["version"])
}

func TestRelativePathConversion(t *testing.T) {
	report := NewReport()
	d := diagnostic(types.SeverityError, types.CodeNotFound, 1)

	report.AddResult(d, "/absolute/path/file.adoc")
	assert.Equal(t, "file:///absolute/path/file.adoc", report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)

	report.AddResult(d, "relative/path/file.adoc")
	assert.Equal(t, "relative/path/file.adoc", report.Runs[0].Results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}
