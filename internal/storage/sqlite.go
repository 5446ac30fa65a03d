/*
Package storage provides SQLite database migrations.

This file contains schema definitions and migration logic for the
storage layer.
*/
package storage

import (
	"fmt"
	"log"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	// Create migrations table
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	// Get current version
	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	// Run migrations in order
	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"
	row := s.db.QueryRow(query)

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int) error {
	query := "INSERT INTO schema_migrations (version, name) VALUES (?, ?)"
	_, err := s.db.Exec(query, version, fmt.Sprintf("migration_%d", version))
	return err
}

// migration001InitialSchema creates the initial database schema.
func (s *SQLiteStorage) migration001InitialSchema() error {
	// Create patterns table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS patterns (
			category TEXT NOT NULL,
			method TEXT NOT NULL,
			success_count INTEGER NOT NULL DEFAULT 0,
			failure_count INTEGER NOT NULL DEFAULT 0,
			confidence REAL NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (category, method)
		)
	`); err != nil {
		return fmt.Errorf("failed to create patterns table: %w", err)
	}

	// Create query_records table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS query_records (
			id TEXT PRIMARY KEY,
			query_hash TEXT NOT NULL,
			query_text TEXT NOT NULL,
			category TEXT NOT NULL,
			method TEXT NOT NULL,
			success INTEGER NOT NULL,
			response_time_ms INTEGER NOT NULL,
			citations_count INTEGER NOT NULL DEFAULT 0,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create query_records table: %w", err)
	}

	// Create indexes for query_records
	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_query_records_hash
		ON query_records(query_hash)
	`); err != nil {
		return fmt.Errorf("failed to create query_records hash index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_query_records_timestamp
		ON query_records(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create query_records timestamp index: %w", err)
	}

	// Create stats table
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS stats (
			key TEXT PRIMARY KEY,
			value REAL NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create stats table: %w", err)
	}

	return nil
}
