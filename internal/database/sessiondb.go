package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/session"
)

// FileName is the database file name inside the data directory.
const FileName = "idscan.db"

// Busy retry policy for writes.
const (
	busyRetryAttempts = 5
	busyRetryDelay    = 50 * time.Millisecond
)

// SessionDB stores sessions and their scan history.
type SessionDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SessionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the session database in dbDir.
func Open(dbDir string, opts Options) (*SessionDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := "file:" + dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = "file:" + dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SessionDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (sdb *SessionDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *SessionDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SessionDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		document_type TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		passes INTEGER NOT NULL DEFAULT 0,
		fields_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

	-- One row per OCR pass applied to a session
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		source TEXT,
		document_type TEXT NOT NULL,
		strategy TEXT,
		added INTEGER NOT NULL DEFAULT 0,
		improved INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL,
		UNIQUE(session_id, fingerprint)
	);

	CREATE INDEX IF NOT EXISTS idx_scans_session ON scans(session_id);
	`

	// Another process may be creating the same schema.
	return withBusyRetry(context.Background(), func() error {
		_, err := sdb.db.ExecContext(context.Background(), schema)
		return err
	})
}

// withBusyRetry runs fn again while SQLite reports a locked database.
func withBusyRetry(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(busyRetryAttempts),
		retry.Delay(busyRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked")
}

// SessionSummary describes a stored session without its fields.
type SessionSummary struct {
	ID           string
	DocumentType model.DocumentType
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Passes       int
	FieldCount   int
}

// SaveSession inserts or updates the session row.
func (sdb *SessionDB) SaveSession(ctx context.Context, s *session.Session) error {
	fields := s.Snapshot()
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to serialize fields: %w", err)
	}

	query := `
	INSERT INTO sessions (id, document_type, created_at, updated_at, passes, fields_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		document_type = excluded.document_type,
		updated_at = excluded.updated_at,
		passes = excluded.passes,
		fields_json = excluded.fields_json
	`

	err = withBusyRetry(ctx, func() error {
		_, err := sdb.db.ExecContext(ctx, query,
			s.ID,
			s.DocumentType().String(),
			formatTimestamp(s.CreatedAt),
			formatTimestamp(s.UpdatedAt()),
			s.Passes(),
			string(fieldsJSON),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession loads a session together with the fingerprints of its
// applied passes.
func (sdb *SessionDB) GetSession(ctx context.Context, id string) (*session.Session, error) {
	query := `
	SELECT id, document_type, created_at, updated_at, passes, fields_json
	FROM sessions
	WHERE id = ?
	`

	var (
		docType, createdAt, updatedAt, fieldsJSON string
		passes                                    int
	)
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&id, &docType, &createdAt, &updatedAt, &passes, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	dt, err := model.ParseDocumentType(docType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	fields := model.NewFieldSet()
	if err := json.Unmarshal([]byte(fieldsJSON), fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}

	fingerprints, err := sdb.fingerprints(ctx, id)
	if err != nil {
		return nil, err
	}

	return session.Restore(id, dt, parseTimestamp(createdAt), parseTimestamp(updatedAt), passes, fields, fingerprints), nil
}

func (sdb *SessionDB) fingerprints(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx, `SELECT fingerprint FROM scans WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprints: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}

// ResolveSessionID expands a unique ID prefix into a full session ID.
func (sdb *SessionDB) ResolveSessionID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty ID", ErrSessionNotFound)
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)

	rows, err := sdb.db.QueryContext(ctx,
		`SELECT id FROM sessions WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, escaped+"%")
	if err != nil {
		return "", fmt.Errorf("failed to resolve session ID: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan session ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch {
	case len(ids) == 0:
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, prefix)
	case len(ids) > 1 && ids[0] != prefix:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousSessionID, prefix)
	default:
		return ids[0], nil
	}
}

// ListSessions returns all sessions, most recently updated first.
func (sdb *SessionDB) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	query := `
	SELECT id, document_type, created_at, updated_at, passes, fields_json
	FROM sessions
	ORDER BY updated_at DESC, id
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionSummary
	for rows.Next() {
		var (
			s                                         SessionSummary
			docType, createdAt, updatedAt, fieldsJSON string
		)
		if err := rows.Scan(&s.ID, &docType, &createdAt, &updatedAt, &s.Passes, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		// An unreadable row is still listed so it can be deleted.
		s.DocumentType, _ = model.ParseDocumentType(docType) //nolint:errcheck // unknown on failure
		var fields model.FieldSet
		if err := json.Unmarshal([]byte(fieldsJSON), &fields); err == nil {
			s.FieldCount = fields.Len()
		}
		s.CreatedAt = parseTimestamp(createdAt)
		s.UpdatedAt = parseTimestamp(updatedAt)
		results = append(results, s)
	}

	return results, rows.Err()
}

// DeleteSession removes a session and its scan history.
func (sdb *SessionDB) DeleteSession(ctx context.Context, id string) error {
	return withBusyRetry(ctx, func() error {
		tx, err := sdb.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM scans WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete scans: %w", err)
		}
		return tx.Commit()
	})
}

// ScanRecord is one OCR pass applied to a session.
type ScanRecord struct {
	ID           int64
	SessionID    string
	Fingerprint  string
	Source       string
	DocumentType model.DocumentType
	Strategy     string
	Added        int
	Improved     int
	Timestamp    time.Time
}

// RecordScan stores a pass. Recording the same fingerprint twice for a
// session keeps the first row.
func (sdb *SessionDB) RecordScan(ctx context.Context, rec *ScanRecord) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	query := `
	INSERT OR IGNORE INTO scans (session_id, fingerprint, source, document_type, strategy, added, improved, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := withBusyRetry(ctx, func() error {
		_, err := sdb.db.ExecContext(ctx, query,
			rec.SessionID,
			rec.Fingerprint,
			rec.Source,
			rec.DocumentType.String(),
			rec.Strategy,
			rec.Added,
			rec.Improved,
			formatTimestamp(ts),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

// ListScans returns the passes of a session, oldest first.
func (sdb *SessionDB) ListScans(ctx context.Context, sessionID string) ([]ScanRecord, error) {
	query := `
	SELECT id, session_id, fingerprint, source, document_type, strategy, added, improved, timestamp
	FROM scans
	WHERE session_id = ?
	ORDER BY id
	`

	rows, err := sdb.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []ScanRecord
	for rows.Next() {
		var (
			rec                ScanRecord
			source, strategy   sql.NullString
			docType, timestamp string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Fingerprint, &source, &docType,
			&strategy, &rec.Added, &rec.Improved, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Source = source.String
		rec.Strategy = strategy.String
		rec.DocumentType, _ = model.ParseDocumentType(docType) //nolint:errcheck // unknown on failure
		rec.Timestamp = parseTimestamp(timestamp)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// HasScan reports whether a pass with fingerprint was recorded for the
// session.
func (sdb *SessionDB) HasScan(ctx context.Context, sessionID, fingerprint string) (bool, error) {
	var count int
	err := sdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scans WHERE session_id = ? AND fingerprint = ?`,
		sessionID, fingerprint,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check scan: %w", err)
	}
	return count > 0, nil
}

// timestampLayout is RFC 3339 in UTC with a fixed-width fraction, so
// stored values sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
