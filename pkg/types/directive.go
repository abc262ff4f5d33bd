package types

// DirectiveKind classifies what a directive points at.
type DirectiveKind string

const (
	KindInclude DirectiveKind = "include"
	KindImage   DirectiveKind = "image"
	KindVideo   DirectiveKind = "video"
	KindAudio   DirectiveKind = "audio"
	KindXref    DirectiveKind = "xref"
)

// Directive describes one reference-bearing markup construct, e.g. include::target[].
type Directive struct {
	ID               string        `json:"id"`      // e.g., "adoc.include"
	Name             string        `json:"name"`    // human-readable name
	Kind             DirectiveKind `json:"kind"`    // what the target is
	Keyword          string        `json:"keyword"` // literal prefix, used for prefiltering
	Pattern          string        `json:"pattern"` // regex with a named "target" group
	Severity         Severity      `json:"severity"`
	Description      string        `json:"description,omitempty"`
	Examples         []string      `json:"examples,omitempty"`
	NegativeExamples []string      `json:"negative_examples,omitempty"`
	References       []string      `json:"references,omitempty"` // documentation URLs
}

// UnresolvedSeverity returns the severity used when the directive target
// cannot be found. Defaults to error.
func (d *Directive) UnresolvedSeverity() Severity {
	if d == nil || d.Severity == "" {
		return SeverityError
	}
	return d.Severity
}
