package main

import (
	"bytes"
	"testing"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestUnderline(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		width      int
		wantText   string
		wantMarker string
	}{
		{"ascii", "image:a.png[]", 76, "image:a.png[]", "^^^^^^^^^^^^^"},
		{"wide runes", "image:図.png[]", 76, "image:図.png[]", "^^^^^^^^^^^^^^"},
		{"truncated", "include::very-long-name.adoc[]", 12, "include::...", "^^^^^^^^^^^^"},
		{"tabs", "xref:\ta[]", 76, "xref: a[]", "^^^^^^^^^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, marker := underline(tt.text, tt.width)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantMarker, marker)
		})
	}
}

func TestWriteHuman(t *testing.T) {
	ref := types.Reference{DirectiveID: "adoc.include", RawText: "include::gone.adoc[]", Offset: 7, Target: "gone.adoc"}
	d := types.NewDiagnostic(ref, types.SeverityWarning, types.CodeNotFound, "referenced file not found: gone.adoc")
	d.Location.Source.Start = types.SourcePoint{Line: 2, Column: 1}

	results := []*types.CheckResult{
		{Path: "a.adoc", References: []types.Reference{ref}, Diagnostics: []types.Diagnostic{d}},
		{Path: "b.adoc", Skipped: true},
	}

	var buf bytes.Buffer
	writeHuman(&buf, results, newStyles(false))

	assert.Equal(t, "a.adoc:2:1: warning: referenced file not found: gone.adoc [reference.not-found]\n"+
		"    include::gone.adoc[]\n"+
		"    ^^^^^^^^^^^^^^^^^^^^\n"+
		"2 files checked: 0 errors, 1 warnings (1 unchanged)\n", buf.String())
}

func TestWriteResults_UnknownFormat(t *testing.T) {
	err := writeResults(&bytes.Buffer{}, nil, "xml", "never")
	assert.ErrorContains(t, err, "unknown output format")
}
