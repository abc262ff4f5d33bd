package store

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/praetorian-inc/adocref/pkg/types"
)

type documentRecord struct {
	id          types.ContentID
	size        int64
	references  []types.Reference
	diagnostics []types.Diagnostic
}

// MemoryStore implements Store using in-memory data structures.
// Used for ":memory:" and for editor sessions that need no persistence.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]*documentRecord // keyed by path
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]*documentRecord),
	}
}

// AddDocument records a checked document, replacing earlier results for path.
func (m *MemoryStore) AddDocument(path string, id types.ContentID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[path] = &documentRecord{id: id, size: size}
	return nil
}

// AddReference stores a reference found in the document at path.
func (m *MemoryStore) AddReference(path string, ref types.Reference) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[path]
	if !ok {
		return fmt.Errorf("inserting reference: unknown document %s", path)
	}
	doc.references = append(doc.references, ref)
	return nil
}

// AddDiagnostic stores a diagnostic for the document at path.
func (m *MemoryStore) AddDiagnostic(path string, d types.Diagnostic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[path]
	if !ok {
		return fmt.Errorf("inserting diagnostic: unknown document %s", path)
	}
	doc.diagnostics = append(doc.diagnostics, d)
	return nil
}

// GetReferences retrieves references for a document.
func (m *MemoryStore) GetReferences(path string) ([]types.Reference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if doc, ok := m.documents[path]; ok {
		return slices.Clone(doc.references), nil
	}
	return []types.Reference{}, nil
}

// GetDiagnostics retrieves diagnostics for a document.
func (m *MemoryStore) GetDiagnostics(path string) ([]types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if doc, ok := m.documents[path]; ok {
		return slices.Clone(doc.diagnostics), nil
	}
	return []types.Diagnostic{}, nil
}

// GetAllDiagnostics retrieves every document with its references and diagnostics.
func (m *MemoryStore) GetAllDiagnostics() ([]*types.CheckResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*types.CheckResult, 0, len(m.documents))
	for path, doc := range m.documents {
		results = append(results, &types.CheckResult{
			Path:        path,
			ContentID:   doc.id,
			References:  slices.Clone(doc.references),
			Diagnostics: slices.Clone(doc.diagnostics),
		})
	}
	slices.SortFunc(results, func(a, b *types.CheckResult) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return results, nil
}

// DocumentExists checks if the document at path was checked with this content.
func (m *MemoryStore) DocumentExists(path string, id types.ContentID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[path]
	return ok && doc.id == id, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
