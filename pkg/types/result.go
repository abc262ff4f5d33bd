package types

// CheckResult is the outcome of checking one document.
type CheckResult struct {
	Path        string       `json:"path"`
	ContentID   ContentID    `json:"content_id"`
	References  []Reference  `json:"references"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Skipped     bool         `json:"skipped,omitempty"` // content unchanged since the last check
}

// HasErrors returns true if any diagnostic has error severity.
func (r *CheckResult) HasErrors() bool {
	return HasErrors(r.Diagnostics)
}

// CountBySeverity tallies diagnostics across results.
func CountBySeverity(results []*CheckResult) map[Severity]int {
	counts := make(map[Severity]int)
	for _, r := range results {
		for _, d := range r.Diagnostics {
			counts[d.Severity]++
		}
	}
	return counts
}
