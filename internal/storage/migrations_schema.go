package storage

import "database/sql"

// migrateV001 creates the initial schema: the key-value table and the write
// audit log. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			action    TEXT NOT NULL,
			key       TEXT NOT NULL,
			byte_size INTEGER NOT NULL DEFAULT 0,
			ts        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts  ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_key ON audit_log(key)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// migrateV002 adds a SHA-256 checksum of each value so corrupted rows are
// detected on read. Rows written before this migration have an empty
// checksum and are not verified.
func migrateV002(tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE kv ADD COLUMN checksum TEXT NOT NULL DEFAULT ''`)
	return err
}
