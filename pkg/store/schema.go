package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createDocumentsTable(db); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	if err := createReferencesTable(db); err != nil {
		return fmt.Errorf("creating refs table: %w", err)
	}

	if err := createDiagnosticsTable(db); err != nil {
		return fmt.Errorf("creating diagnostics table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

func createDocumentsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY NOT NULL,
			content_id TEXT NOT NULL,
			size INTEGER NOT NULL
		)
	`)
	return err
}

// "references" is an SQL keyword, hence refs.
func createReferencesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL REFERENCES documents(path),
			directive_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			raw_text TEXT NOT NULL,
			target TEXT NOT NULL,
			attributes TEXT NOT NULL,
			line INTEGER NOT NULL,
			offset_start INTEGER NOT NULL,
			length INTEGER NOT NULL,
			start_line INTEGER,
			start_column INTEGER,
			end_line INTEGER,
			end_column INTEGER
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_refs_path ON refs(path)`)
	return err
}

func createDiagnosticsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL REFERENCES documents(path),
			severity TEXT NOT NULL,
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			directive_id TEXT NOT NULL,
			target TEXT NOT NULL,
			line INTEGER NOT NULL,
			offset_start INTEGER NOT NULL,
			length INTEGER NOT NULL,
			start_line INTEGER,
			start_column INTEGER,
			end_line INTEGER,
			end_column INTEGER
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_diagnostics_path ON diagnostics(path)`)
	return err
}
