package types

// Reference is one directive occurrence found in a document.
type Reference struct {
	DirectiveID string        `json:"directive_id"`
	Kind        DirectiveKind `json:"kind"`
	RawText     string        `json:"raw_text"`   // matched directive text
	Target      string        `json:"target"`     // path fragment between the delimiters; empty if malformed
	Attributes  string        `json:"attributes"` // text inside [...], without the brackets
	Line        int           `json:"line"`       // 1-based
	Offset      int           `json:"offset"`     // character offset of the directive start
	Length      int           `json:"length"`     // character length of RawText
	Location    Location      `json:"location"`
}

// Malformed reports whether the directive has no extractable target.
func (r Reference) Malformed() bool {
	return r.Target == ""
}

// End returns the character offset one past the directive.
func (r Reference) End() int {
	return r.Offset + r.Length
}
