package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marcelsud/webhook-debugger/capture"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const columns = `id, endpoint_id, method, source, source_verified, headers, body, query_params,
  content_type, replay_count, last_replay_status, last_replay_response, last_replay_at, received_at`

// Repository stores captures in PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for dsn, checks connectivity and applies migrations
func Connect(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Repository{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (name text PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var exists bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		stmt, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(stmt)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}
	return nil
}

// Create inserts a capture
func (r *Repository) Create(ctx context.Context, c capture.Capture) (capture.Capture, error) {
	headers, err := encodeMap(c.Headers)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("encoding headers: %w", err)
	}
	query, err := encodeMap(c.QueryParams)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("encoding query params: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO captures (`+columns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.EndpointID, c.Method, c.Source, c.SourceVerified, headers, toBytes(c.Body), query,
		c.ContentType, c.ReplayCount, c.LastReplayStatus, toBytes(c.LastReplayResponse), c.LastReplayAt, c.ReceivedAt,
	)
	if err != nil {
		return capture.Capture{}, fmt.Errorf("inserting capture: %w", err)
	}
	return c, nil
}

// Get retrieves a capture by ID
func (r *Repository) Get(ctx context.Context, id string) (capture.Capture, error) {
	c, err := scanCapture(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM captures WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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

	q := `SELECT ` + columns + ` FROM captures WHERE endpoint_id = $1`
	args := []any{endpointID}
	if opts.Source != "" {
		q += ` AND source = $2`
		args = append(args, opts.Source)
	}
	q += fmt.Sprintf(` ORDER BY received_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.pool.Query(ctx, q, args...)
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
	q := `SELECT COUNT(*) FROM captures WHERE endpoint_id = $1`
	args := []any{endpointID}
	if source != "" {
		q += ` AND source = $2`
		args = append(args, source)
	}

	var n int
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting captures: %w", err)
	}
	return n, nil
}

// UpdateReplay records a replay outcome in a single statement
func (r *Repository) UpdateReplay(ctx context.Context, id string, outcome capture.ReplayOutcome) error {
	tag, err := r.pool.Exec(ctx, `UPDATE captures
SET replay_count = replay_count + 1,
    last_replay_status = $1,
    last_replay_response = $2,
    last_replay_at = $3
WHERE id = $4`,
		outcome.Status, []byte(capture.TruncateResponse(outcome.Response)), outcome.At, id,
	)
	if err != nil {
		return fmt.Errorf("updating replay: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("capture %s: %w", id, capture.ErrNotFound)
	}
	return nil
}

// DeleteReceivedBefore removes captures received before cutoff
func (r *Repository) DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM captures WHERE received_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting captures: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByEndpoint returns the number of stored captures per endpoint
func (r *Repository) CountByEndpoint(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT endpoint_id, COUNT(*) FROM captures GROUP BY endpoint_id`)
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

// Close closes the pool
func (r *Repository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func scanCapture(row pgx.Row) (capture.Capture, error) {
	var (
		c                    capture.Capture
		status               *int32
		lastAt               *time.Time
		headers, query       []byte
		body, replayResponse []byte
	)

	err := row.Scan(&c.ID, &c.EndpointID, &c.Method, &c.Source, &c.SourceVerified, &headers, &body, &query,
		&c.ContentType, &c.ReplayCount, &status, &replayResponse, &lastAt, &c.ReceivedAt)
	if err != nil {
		return capture.Capture{}, err
	}

	if err := json.Unmarshal(headers, &c.Headers); err != nil {
		return capture.Capture{}, fmt.Errorf("decoding headers: %w", err)
	}
	if err := json.Unmarshal(query, &c.QueryParams); err != nil {
		return capture.Capture{}, fmt.Errorf("decoding query params: %w", err)
	}
	c.Body = fromBytes(body)
	c.LastReplayResponse = fromBytes(replayResponse)

	if status != nil {
		v := int(*status)
		c.LastReplayStatus = &v
	}
	if lastAt != nil {
		at := lastAt.UTC()
		c.LastReplayAt = &at
	}
	c.ReceivedAt = c.ReceivedAt.UTC()
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	if c.QueryParams == nil {
		c.QueryParams = map[string]string{}
	}

	return c, nil
}

func encodeMap(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	return json.Marshal(m)
}

// toBytes keeps nil distinct from an empty string so NULL survives the round trip
func toBytes(s *string) []byte {
	if s == nil {
		return nil
	}
	b := make([]byte, len(*s))
	copy(b, *s)
	return b
}

func fromBytes(b []byte) *string {
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}
