package checker

import "github.com/praetorian-inc/adocref/pkg/types"

// BatchError records an item of a batch that could not be checked.
type BatchError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// BatchResult represents batch check results
type BatchResult struct {
	Results []*types.CheckResult `json:"results"`
	Errors  []BatchError         `json:"errors,omitempty"`
	Total   int                  `json:"total"` // diagnostics across all results
}
