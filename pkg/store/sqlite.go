//go:build !wasm

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/praetorian-inc/adocref/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddDocument records a checked document, replacing earlier results for path.
func (s *SQLiteStore) AddDocument(path string, id types.ContentID, size int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM refs WHERE path = ?", path); err != nil {
		return fmt.Errorf("clearing references: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM diagnostics WHERE path = ?", path); err != nil {
		return fmt.Errorf("clearing diagnostics: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO documents (path, content_id, size) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content_id = excluded.content_id, size = excluded.size
	`, path, id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	return tx.Commit()
}

// AddReference stores a reference found in the document at path.
func (s *SQLiteStore) AddReference(path string, ref types.Reference) error {
	src := ref.Location.Source
	_, err := s.db.Exec(`
		INSERT INTO refs (path, directive_id, kind, raw_text, target, attributes, line, offset_start, length,
			start_line, start_column, end_line, end_column)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		path,
		ref.DirectiveID,
		string(ref.Kind),
		ref.RawText,
		ref.Target,
		ref.Attributes,
		ref.Line,
		ref.Offset,
		ref.Length,
		src.Start.Line,
		src.Start.Column,
		src.End.Line,
		src.End.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting reference: %w", err)
	}
	return nil
}

// AddDiagnostic stores a diagnostic for the document at path.
func (s *SQLiteStore) AddDiagnostic(path string, d types.Diagnostic) error {
	src := d.Location.Source
	_, err := s.db.Exec(`
		INSERT INTO diagnostics (path, severity, code, message, directive_id, target, line, offset_start, length,
			start_line, start_column, end_line, end_column)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		path,
		string(d.Severity),
		string(d.Code),
		d.Message,
		d.DirectiveID,
		d.Target,
		d.Line,
		d.Offset,
		d.Length,
		src.Start.Line,
		src.Start.Column,
		src.End.Line,
		src.End.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting diagnostic: %w", err)
	}
	return nil
}

// GetReferences retrieves references for a document.
func (s *SQLiteStore) GetReferences(path string) ([]types.Reference, error) {
	rows, err := s.db.Query(`
		SELECT directive_id, kind, raw_text, target, attributes, line, offset_start, length,
			start_line, start_column, end_line, end_column
		FROM refs
		WHERE path = ?
		ORDER BY id
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	refs := []types.Reference{}
	for rows.Next() {
		var ref types.Reference
		var kind string
		src := &ref.Location.Source
		err := rows.Scan(
			&ref.DirectiveID,
			&kind,
			&ref.RawText,
			&ref.Target,
			&ref.Attributes,
			&ref.Line,
			&ref.Offset,
			&ref.Length,
			&src.Start.Line,
			&src.Start.Column,
			&src.End.Line,
			&src.End.Column,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		ref.Kind = types.DirectiveKind(kind)
		ref.Location.Offset = types.OffsetSpan{Start: ref.Offset, End: ref.Offset + ref.Length}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	return refs, nil
}

// GetDiagnostics retrieves diagnostics for a document.
func (s *SQLiteStore) GetDiagnostics(path string) ([]types.Diagnostic, error) {
	rows, err := s.db.Query(`
		SELECT severity, code, message, directive_id, target, line, offset_start, length,
			start_line, start_column, end_line, end_column
		FROM diagnostics
		WHERE path = ?
		ORDER BY id
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []types.Diagnostic{}
	for rows.Next() {
		var d types.Diagnostic
		var severity, code string
		src := &d.Location.Source
		err := rows.Scan(
			&severity,
			&code,
			&d.Message,
			&d.DirectiveID,
			&d.Target,
			&d.Line,
			&d.Offset,
			&d.Length,
			&src.Start.Line,
			&src.Start.Column,
			&src.End.Line,
			&src.End.Column,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Severity = types.Severity(severity)
		d.Code = types.Code(code)
		d.Location.Offset = types.OffsetSpan{Start: d.Offset, End: d.Offset + d.Length}
		diags = append(diags, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}
	return diags, nil
}

// GetAllDiagnostics retrieves every document with its references and diagnostics.
func (s *SQLiteStore) GetAllDiagnostics() ([]*types.CheckResult, error) {
	rows, err := s.db.Query("SELECT path, content_id FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}

	results := []*types.CheckResult{}
	for rows.Next() {
		var path, idHex string
		if err := rows.Scan(&path, &idHex); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		id, err := types.ParseContentID(idHex)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing content ID: %w", err)
		}
		results = append(results, &types.CheckResult{Path: path, ContentID: id})
	}
	// The single connection must be released before the per-document queries.
	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for _, r := range results {
		if r.References, err = s.GetReferences(r.Path); err != nil {
			return nil, err
		}
		if r.Diagnostics, err = s.GetDiagnostics(r.Path); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// DocumentExists checks if the document at path was checked with this content.
func (s *SQLiteStore) DocumentExists(path string, id types.ContentID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents WHERE path = ? AND content_id = ?", path, id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking document existence: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
