package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDiagnostic_CopiesSpan(t *testing.T) {
	ref := Reference{
		DirectiveID: "adoc.include",
		Kind:        KindInclude,
		RawText:     "include::missing.adoc[]",
		Target:      "missing.adoc",
		Line:        4,
		Offset:      31,
		Length:      23,
	}

	d := NewDiagnostic(ref, SeverityError, CodeNotFound, "referenced file not found: missing.adoc")

	assert.Equal(t, ref.Offset, d.Offset)
	assert.Equal(t, ref.Length, d.Length)
	assert.Equal(t, ref.Line, d.Line)
	assert.Equal(t, "missing.adoc", d.Target)
	assert.Equal(t, "adoc.include", d.DirectiveID)
}

func TestDiagnosticList(t *testing.T) {
	var list DiagnosticList
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.HasErrors())

	list.Add(Diagnostic{Severity: SeverityWarning, Offset: 1})
	assert.False(t, list.HasErrors())

	list.Add(Diagnostic{Severity: SeverityError, Offset: 2})
	assert.True(t, list.HasErrors())

	items := list.Items()
	assert.Len(t, items, 2)
	items[0].Offset = 99
	assert.Equal(t, 1, list.Items()[0].Offset, "Items must return a copy")
}

func TestSeverity_Valid(t *testing.T) {
	assert.True(t, SeverityError.Valid())
	assert.True(t, SeverityWarning.Valid())
	assert.False(t, Severity("info").Valid())
}

func TestDirective_UnresolvedSeverity(t *testing.T) {
	var nilDirective *Directive
	assert.Equal(t, SeverityError, nilDirective.UnresolvedSeverity())
	assert.Equal(t, SeverityError, (&Directive{}).UnresolvedSeverity())
	assert.Equal(t, SeverityWarning, (&Directive{Severity: SeverityWarning}).UnresolvedSeverity())
}

func TestNewFileDocument(t *testing.T) {
	doc := NewFileDocument("/docs/guide/index.adoc", "= Guide\n")
	assert.Equal(t, "/docs/guide", doc.BaseDir())
	assert.Equal(t, "/docs/guide/index.adoc", doc.Path())
	assert.Equal(t, "= Guide\n", doc.Text())
}
