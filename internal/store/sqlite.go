package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anorak1709/research-usecase-generator/internal/events"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// DefaultListLimit caps ListReports when no positive limit is given.
const DefaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath. Use
// ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "open sqlite database").
			WithContext("path", dbPath).Build()
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "initialize schema").Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		industry TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		markdown TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_fingerprint ON reports(fingerprint);
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_analysis_id ON events(analysis_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveReport inserts or replaces r. Missing fingerprint and creation time are
// filled in; the stored report is returned.
func (s *SQLiteStore) SaveReport(ctx context.Context, r Report) (Report, error) {
	if r.ID == "" {
		return Report{}, ferrors.ValidationError("report id is required").Build()
	}
	if r.Fingerprint == "" {
		r.Fingerprint = Fingerprint(r.Markdown)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (id, filename, industry, source, fingerprint, markdown, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Filename, r.Industry, r.Source, r.Fingerprint, r.Markdown, r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Report{}, storageErr(err, "insert report").WithContext("id", r.ID).Build()
	}
	return r, nil
}

const reportColumns = "id, filename, industry, source, fingerprint, markdown, created_at"

// GetReport returns the report with the given id.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (Report, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", id)
	r, err := scanReport(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Report{}, ferrors.NotFoundError("report not found").WithContext("id", id).Build()
	}
	if err != nil {
		return Report{}, storageErr(err, "query report").WithContext("id", id).Build()
	}
	return r, nil
}

// FindByFingerprint returns the newest report with the given fingerprint.
func (s *SQLiteStore) FindByFingerprint(ctx context.Context, fingerprint string) (Report, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE fingerprint = ? ORDER BY created_at DESC LIMIT 1", fingerprint)
	r, err := scanReport(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Report{}, ferrors.NotFoundError("report not found").WithContext("fingerprint", fingerprint).Build()
	}
	if err != nil {
		return Report{}, storageErr(err, "query report").Build()
	}
	return r, nil
}

// ListReports returns the newest reports first, without their markdown.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, industry, source, fingerprint, '', created_at
		 FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, storageErr(err, "list reports").Build()
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, storageErr(err, "scan report").Build()
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "iterate reports").Build()
	}
	return out, nil
}

// PurgeOlderThan deletes reports created before cutoff together with their
// events, plus events older than cutoff that belong to no report (failed
// analyses). It returns the number of reports removed.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr(err, "begin purge").Build()
	}
	defer func() { _ = tx.Rollback() }()

	ms := cutoff.UnixMilli()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM events WHERE analysis_id IN (SELECT id FROM reports WHERE created_at < ?)", ms); err != nil {
		return 0, storageErr(err, "purge events").Build()
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM reports WHERE created_at < ?", ms)
	if err != nil {
		return 0, storageErr(err, "purge reports").Build()
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr(err, "purge reports").Build()
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM events WHERE timestamp < ? AND analysis_id NOT IN (SELECT id FROM reports)", ms); err != nil {
		return 0, storageErr(err, "purge orphaned events").Build()
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr(err, "commit purge").Build()
	}
	return int(n), nil
}

// AppendEvent adds an event to the analysis log.
func (s *SQLiteStore) AppendEvent(ctx context.Context, env events.Envelope) error {
	ts := env.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (analysis_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)",
		env.AnalysisID, string(env.Type), ts.UnixMilli(), []byte(env.Payload),
	)
	if err != nil {
		return storageErr(err, "insert event").WithContext("analysis_id", env.AnalysisID).Build()
	}
	return nil
}

// EventsFor returns the events of one analysis in insertion order.
func (s *SQLiteStore) EventsFor(ctx context.Context, analysisID string) ([]events.Envelope, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT analysis_id, event_type, timestamp, payload FROM events WHERE analysis_id = ? ORDER BY id",
		analysisID)
	if err != nil {
		return nil, storageErr(err, "query events").Build()
	}
	defer rows.Close()

	var out []events.Envelope
	for rows.Next() {
		var (
			env     events.Envelope
			typ     string
			ms      int64
			payload []byte
		)
		if err := rows.Scan(&env.AnalysisID, &typ, &ms, &payload); err != nil {
			return nil, storageErr(err, "scan event").Build()
		}
		env.Type = events.Type(typ)
		env.Timestamp = time.UnixMilli(ms).UTC()
		env.Payload = payload
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "iterate events").Build()
	}
	return out, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr(err, "ping").Build()
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (Report, error) {
	var (
		r  Report
		ms int64
	)
	if err := row.Scan(&r.ID, &r.Filename, &r.Industry, &r.Source, &r.Fingerprint, &r.Markdown, &ms); err != nil {
		return Report{}, err
	}
	r.CreatedAt = time.UnixMilli(ms).UTC()
	return r, nil
}

func storageErr(err error, msg string) *ferrors.ErrorBuilder {
	return ferrors.WrapError(err, ferrors.CategoryStorage, msg)
}
