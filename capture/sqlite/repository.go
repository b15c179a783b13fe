package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marcelsud/webhook-debugger/capture"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexicographically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `CREATE TABLE IF NOT EXISTS captures (
  id                   TEXT PRIMARY KEY,
  endpoint_id          TEXT NOT NULL,
  method               TEXT NOT NULL,
  source               TEXT NOT NULL,
  source_verified      INTEGER NOT NULL DEFAULT 0,
  headers              TEXT NOT NULL,
  body                 TEXT,
  query_params         TEXT NOT NULL,
  content_type         TEXT NOT NULL DEFAULT '',
  replay_count         INTEGER NOT NULL DEFAULT 0,
  last_replay_status   INTEGER,
  last_replay_response TEXT,
  last_replay_at       TEXT,
  received_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_captures_endpoint ON captures(endpoint_id, received_at DESC);
CREATE INDEX IF NOT EXISTS idx_captures_received ON captures(received_at);`

const columns = `id, endpoint_id, method, source, source_verified, headers, body, query_params,
  content_type, replay_count, last_replay_status, last_replay_response, last_replay_at, received_at`

// Repository stores captures in a SQLite database
type Repository struct {
	db *sql.DB
}

// Open opens (and creates if needed) the database at path and ensures the schema exists
func Open(ctx context.Context, path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single writer connection serializes updates.
	db.SetMaxOpenConns(1)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrapping sqlite schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Create inserts a capture
func (r *Repository) Create(ctx context.Context, c capture.Capture) (capture.Capture, error) {
	headers, err := json.Marshal(c.Headers)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("marshaling headers: %w", err)
	}
	query, err := json.Marshal(c.QueryParams)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("marshaling query params: %w", err)
	}

	var lastAt *string
	if c.LastReplayAt != nil {
		s := formatTime(*c.LastReplayAt)
		lastAt = &s
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO captures (`+columns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EndpointID, c.Method, c.Source, c.SourceVerified, string(headers), c.Body, string(query),
		c.ContentType, c.ReplayCount, c.LastReplayStatus, c.LastReplayResponse, lastAt, formatTime(c.ReceivedAt),
	)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("inserting capture: %w", err)
	}
	return c, nil
}

// Get retrieves a capture by ID
func (r *Repository) Get(ctx context.Context, id string) (capture.Capture, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM captures WHERE id = ?`, id)
	c, err := scanCapture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return capture.Capture{}, fmt.Errorf("capture %s: %w", id, capture.ErrNotFound)
	}
	if err != nil {
		return capture.Capture{}, fmt.Errorf("getting capture: %w", err)
	}
	return c, nil
}

// ListByEndpoint returns an endpoint's captures, newest first
func (r *Repository) ListByEndpoint(ctx context.Context, endpointID string, opts capture.ListOptions) ([]capture.Capture, error) {
	opts = opts.Normalized()

	q := `SELECT ` + columns + ` FROM captures WHERE endpoint_id = ?`
	args := []any{endpointID}
	if opts.Source != "" {
		q += ` AND source = ?`
		args = append(args, opts.Source)
	}
	q += ` ORDER BY received_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing captures: %w", err)
	}
	defer rows.Close()

	captures := []capture.Capture{}
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning capture: %w", err)
		}
		captures = append(captures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating captures: %w", err)
	}
	return captures, nil
}

// CountByEndpointID counts an endpoint's captures, optionally for one source
func (r *Repository) CountByEndpointID(ctx context.Context, endpointID string, source string) (int, error) {
	q := `SELECT COUNT(*) FROM captures WHERE endpoint_id = ?`
	args := []any{endpointID}
	if source != "" {
		q += ` AND source = ?`
		args = append(args, source)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting captures: %w", err)
	}
	return n, nil
}

// UpdateReplay records a replay outcome in a single statement
func (r *Repository) UpdateReplay(ctx context.Context, id string, outcome capture.ReplayOutcome) error {
	res, err := r.db.ExecContext(ctx, `UPDATE captures
SET replay_count = replay_count + 1,
    last_replay_status = ?,
    last_replay_response = ?,
    last_replay_at = ?
WHERE id = ?`,
		outcome.Status, capture.TruncateResponse(outcome.Response), formatTime(outcome.At), id,
	)
	if err != nil {
		return fmt.Errorf("updating replay: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating replay: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("capture %s: %w", id, capture.ErrNotFound)
	}
	return nil
}

// DeleteReceivedBefore removes captures received before cutoff
func (r *Repository) DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM captures WHERE received_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("deleting captures: %w", err)
	}
	return res.RowsAffected()
}

// CountByEndpoint returns the number of stored captures per endpoint
func (r *Repository) CountByEndpoint(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT endpoint_id, COUNT(*) FROM captures GROUP BY endpoint_id`)
	if err != nil {
		return nil, fmt.Errorf("counting captures: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Close closes the database
func (r *Repository) Close(ctx context.Context) error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(s scanner) (capture.Capture, error) {
	var (
		c          capture.Capture
		headers    string
		query      string
		body       sql.NullString
		status     sql.NullInt64
		response   sql.NullString
		lastAt     sql.NullString
		receivedAt string
	)

	err := s.Scan(&c.ID, &c.EndpointID, &c.Method, &c.Source, &c.SourceVerified, &headers, &body, &query,
		&c.ContentType, &c.ReplayCount, &status, &response, &lastAt, &receivedAt)
	if err != nil {
		return capture.Capture{}, err
	}

	if err := json.Unmarshal([]byte(headers), &c.Headers); err != nil {
		return capture.Capture{}, fmt.Errorf("unmarshaling headers: %w", err)
	}
	if err := json.Unmarshal([]byte(query), &c.QueryParams); err != nil {
		return capture.Capture{}, fmt.Errorf("unmarshaling query params: %w", err)
	}
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	if c.QueryParams == nil {
		c.QueryParams = map[string]string{}
	}

	if c.ReceivedAt, err = time.Parse(timeLayout, receivedAt); err != nil {
		return capture.Capture{}, fmt.Errorf("parsing received_at: %w", err)
	}
	if body.Valid {
		c.Body = &body.String
	}
	if status.Valid {
		v := int(status.Int64)
		c.LastReplayStatus = &v
	}
	if response.Valid {
		c.LastReplayResponse = &response.String
	}
	if lastAt.Valid {
		at, err := time.Parse(timeLayout, lastAt.String)
		if err != nil {
			return capture.Capture{}, fmt.Errorf("parsing last_replay_at: %w", err)
		}
		c.LastReplayAt = &at
	}

	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
