package store

import "github.com/praetorian-inc/adocref/pkg/types"

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// Store provides persistence for check results.
type Store interface {
	// AddDocument records a checked document. Re-adding a path replaces
	// its previous references and diagnostics.
	AddDocument(path string, id types.ContentID, size int64) error

	// AddReference stores a reference found in the document at path.
	AddReference(path string, ref types.Reference) error

	// AddDiagnostic stores a diagnostic for the document at path.
	AddDiagnostic(path string, d types.Diagnostic) error

	// GetReferences retrieves references for a document in insertion order.
	GetReferences(path string) ([]types.Reference, error)

	// GetDiagnostics retrieves diagnostics for a document in insertion order.
	GetDiagnostics(path string) ([]types.Diagnostic, error)

	// GetAllDiagnostics retrieves every document with its references and
	// diagnostics, ordered by path.
	GetAllDiagnostics() ([]*types.CheckResult, error)

	// DocumentExists checks if the document at path was already checked
	// with this exact content.
	DocumentExists(path string, id types.ContentID) (bool, error)

	// Close closes the underlying storage.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing and editor sessions).
	Path string
}
