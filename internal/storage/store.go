package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements KV backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool

	// Prepared statements
	getValue    *sql.Stmt
	upsertValue *sql.Stmt
	insertAudit *sql.Stmt
}

// OpenSQLite opens (creating if needed) the database file at path, runs
// migrations and returns a store that closes the database on Close.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := NewMigrationRunner(db).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true

	return s, nil
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getValue, err = s.db.Prepare(`SELECT value, checksum FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.upsertValue, err = s.db.Prepare(`
		INSERT INTO kv (key, value, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`
		INSERT INTO audit_log (action, key, byte_size) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

func checksum(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:])
}

// Get returns the value stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var sum string

	err := s.getValue.QueryRowContext(ctx, key).Scan(&value, &sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	if sum != "" && sum != checksum(value) {
		return nil, fmt.Errorf("get %s: checksum mismatch", key)
	}

	return value, nil
}

// Put replaces the value under key and records the write in the audit log,
// in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.StmtContext(ctx, s.upsertValue).ExecContext(ctx, key, value, checksum(value), ts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "put", key, len(value)); err != nil {
		return fmt.Errorf("audit %s: %w", key, err)
	}

	return tx.Commit()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0) FROM kv",
	).Scan(&stats.Keys, &stats.ValueBytes)
	if err != nil {
		return nil, fmt.Errorf("count keys: %w", err)
	}

	var last sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(ts) FROM audit_log WHERE action = 'put'",
	).Scan(&stats.Writes, &last)
	if err != nil {
		return nil, fmt.Errorf("count writes: %w", err)
	}
	if last.Valid {
		stats.LastWrite, _ = parseTimestamp(last.String)
	}

	return stats, nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// Close releases all prepared statements. The underlying *sql.DB is closed
// only when the store opened it itself (OpenSQLite).
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getValue, s.upsertValue, s.insertAudit}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
