package types

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning
}

// Code identifies the kind of problem independent of the message text.
type Code string

const (
	CodeMalformed Code = "reference.malformed"
	CodeNotFound  Code = "reference.not-found"
)

// Diagnostic is a validation failure for one reference, positioned for an editor marker.
type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Code        Code     `json:"code"`
	Message     string   `json:"message"`
	DirectiveID string   `json:"directive_id"`
	Target      string   `json:"target"`
	Line        int      `json:"line"`
	Offset      int      `json:"offset"`
	Length      int      `json:"length"`
	Location    Location `json:"location"`
}

// NewDiagnostic creates a diagnostic spanning the given reference.
func NewDiagnostic(ref Reference, sev Severity, code Code, message string) Diagnostic {
	return Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     message,
		DirectiveID: ref.DirectiveID,
		Target:      ref.Target,
		Line:        ref.Line,
		Offset:      ref.Offset,
		Length:      ref.Length,
		Location:    ref.Location,
	}
}

// DiagnosticList is a caller-owned diagnostic collection.
type DiagnosticList struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (l *DiagnosticList) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Len returns the number of diagnostics.
func (l *DiagnosticList) Len() int {
	return len(l.items)
}

// Items returns a copy of the collected diagnostics in insertion order.
func (l *DiagnosticList) Items() []Diagnostic {
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// HasErrors returns true if any diagnostic has error severity.
func (l *DiagnosticList) HasErrors() bool {
	return HasErrors(l.items)
}

// HasErrors returns true if any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for i := range diags {
		if diags[i].Severity == SeverityError {
			return true
		}
	}
	return false
}
