package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of capture.Repository
 * Uses Redis Hashes for capture storage
 * Uses Sorted Sets scored by receive time as per-endpoint indexes
 */

const (
	hashPrefix   = "capture"            // Hash naming: capture:{id}
	indexPrefix  = "captures:endpoint"  // Index naming: captures:endpoint:{endpoint_id}[:source:{source}]
	receivedKey  = "captures:received"  // Every capture, used for retention
	endpointsKey = "captures:endpoints" // Set of endpoint IDs that have captures
)

// updateReplayScript increments the replay counter and sets the last replay
// fields in one step, and only when the capture exists.
var updateReplayScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'replay_count', 1)
redis.call('HSET', KEYS[1], 'last_replay_status', ARGV[1], 'last_replay_response', ARGV[2], 'last_replay_at', ARGV[3])
return 1
`)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewRepositoryWithClient(client), nil
}

// NewRepositoryWithClient wraps an existing client
func NewRepositoryWithClient(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Create stores a capture and indexes it by endpoint, source and receive time
func (r *Repository) Create(ctx context.Context, c capture.Capture) (capture.Capture, error) {
	fields, err := toHash(c)
	if err != nil {
		return capture.Capture{}, err
	}

	score := float64(c.ReceivedAt.UnixMilli())
	member := redis.Z{Score: score, Member: c.ID}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey(c.ID), fields)
		pipe.ZAdd(ctx, endpointIndex(c.EndpointID), member)
		pipe.ZAdd(ctx, sourceIndex(c.EndpointID, c.Source), member)
		pipe.ZAdd(ctx, receivedKey, member)
		pipe.SAdd(ctx, endpointsKey, c.EndpointID)
		return nil
	})
	if err != nil {
		return capture.Capture{}, fmt.Errorf("storing capture: %w", err)
	}

	return c, nil
}

// Get retrieves a capture by ID
func (r *Repository) Get(ctx context.Context, id string) (capture.Capture, error) {
	data, err := r.client.HGetAll(ctx, hashKey(id)).Result()
	if err != nil {
		return capture.Capture{}, fmt.Errorf("getting capture: %w", err)
	}
	if len(data) == 0 {
		return capture.Capture{}, fmt.Errorf("capture %s: %w", id, capture.ErrNotFound)
	}

	return fromHash(data)
}

// ListByEndpoint returns an endpoint's captures, newest first
func (r *Repository) ListByEndpoint(ctx context.Context, endpointID string, opts capture.ListOptions) ([]capture.Capture, error) {
	opts = opts.Normalized()

	ids, err := r.client.ZRevRange(ctx, indexFor(endpointID, opts.Source), int64(opts.Offset), int64(opts.Offset+opts.Limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading capture index: %w", err)
	}
	if len(ids) == 0 {
		return []capture.Capture{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, hashKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("loading captures: %w", err)
	}

	captures := make([]capture.Capture, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		c, err := fromHash(data)
		if err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}

	return captures, nil
}

// CountByEndpointID counts an endpoint's captures, optionally for one source
func (r *Repository) CountByEndpointID(ctx context.Context, endpointID string, source string) (int, error) {
	n, err := r.client.ZCard(ctx, indexFor(endpointID, source)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting captures: %w", err)
	}
	return int(n), nil
}

// UpdateReplay records a replay outcome atomically
func (r *Repository) UpdateReplay(ctx context.Context, id string, outcome capture.ReplayOutcome) error {
	res, err := updateReplayScript.Run(ctx, r.client,
		[]string{hashKey(id)},
		outcome.Status,
		capture.TruncateResponse(outcome.Response),
		formatTime(outcome.At),
	).Int()
	if err != nil {
		return fmt.Errorf("updating replay: %w", err)
	}
	if res == 0 {
		return fmt.Errorf("capture %s: %w", id, capture.ErrNotFound)
	}
	return nil
}

// DeleteReceivedBefore removes captures received before cutoff along with their index entries
func (r *Repository) DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := r.client.ZRangeByScore(ctx, receivedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("reading retention index: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := r.client.Pipeline()
	owners := make([]*redis.SliceCmd, len(ids))
	for i, id := range ids {
		owners[i] = pipe.HMGet(ctx, hashKey(id), "endpoint_id", "source")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("loading expired captures: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(tx redis.Pipeliner) error {
		for i, id := range ids {
			vals := owners[i].Val()
			if len(vals) == 2 {
				endpointID, _ := vals[0].(string)
				src, _ := vals[1].(string)
				if endpointID != "" {
					tx.ZRem(ctx, endpointIndex(endpointID), id)
					tx.ZRem(ctx, sourceIndex(endpointID, src), id)
				}
			}
			tx.Del(ctx, hashKey(id))
			tx.ZRem(ctx, receivedKey, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deleting expired captures: %w", err)
	}

	return int64(len(ids)), nil
}

// CountByEndpoint returns the number of stored captures per endpoint
func (r *Repository) CountByEndpoint(ctx context.Context) (map[string]int64, error) {
	endpoints, err := r.client.SMembers(ctx, endpointsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing endpoints: %w", err)
	}

	counts := make(map[string]int64, len(endpoints))
	for _, id := range endpoints {
		n, err := r.client.ZCard(ctx, endpointIndex(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("counting captures for %s: %w", id, err)
		}
		counts[id] = n
	}
	return counts, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// Helper functions

func hashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func endpointIndex(endpointID string) string {
	return fmt.Sprintf("%s:%s", indexPrefix, endpointID)
}

func sourceIndex(endpointID, source string) string {
	return fmt.Sprintf("%s:%s:source:%s", indexPrefix, endpointID, source)
}

func indexFor(endpointID, source string) string {
	if source == "" {
		return endpointIndex(endpointID)
	}
	return sourceIndex(endpointID, source)
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func toHash(c capture.Capture) (map[string]interface{}, error) {
	headersJSON, err := json.Marshal(c.Headers)
	if err != nil {
		return nil, fmt.Errorf("marshaling headers: %w", err)
	}
	queryJSON, err := json.Marshal(c.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("marshaling query params: %w", err)
	}

	fields := map[string]interface{}{
		"id":              c.ID,
		"endpoint_id":     c.EndpointID,
		"method":          c.Method,
		"source":          c.Source,
		"source_verified": c.SourceVerified,
		"headers":         string(headersJSON),
		"query_params":    string(queryJSON),
		"content_type":    c.ContentType,
		"replay_count":    c.ReplayCount,
		"received_at":     formatTime(c.ReceivedAt),
	}
	if c.Body != nil {
		fields["body"] = *c.Body
	}
	if c.LastReplayStatus != nil {
		fields["last_replay_status"] = *c.LastReplayStatus
	}
	if c.LastReplayResponse != nil {
		fields["last_replay_response"] = *c.LastReplayResponse
	}
	if c.LastReplayAt != nil {
		fields["last_replay_at"] = formatTime(*c.LastReplayAt)
	}
	return fields, nil
}

func fromHash(data map[string]string) (capture.Capture, error) {
	c := capture.Capture{
		ID:          data["id"],
		EndpointID:  data["endpoint_id"],
		Method:      data["method"],
		Source:      data["source"],
		ContentType: data["content_type"],
		ReplayCount: int(parseInt64(data["replay_count"])),
		Headers:     map[string]string{},
		QueryParams: map[string]string{},
	}

	c.SourceVerified, _ = strconv.ParseBool(data["source_verified"])

	if s := data["headers"]; s != "" {
		if err := json.Unmarshal([]byte(s), &c.Headers); err != nil {
			return capture.Capture{}, fmt.Errorf("unmarshaling headers: %w", err)
		}
	}
	if s := data["query_params"]; s != "" {
		if err := json.Unmarshal([]byte(s), &c.QueryParams); err != nil {
			return capture.Capture{}, fmt.Errorf("unmarshaling query params: %w", err)
		}
	}

	receivedAt, err := time.Parse(timeLayout, data["received_at"])
	if err != nil {
		return capture.Capture{}, fmt.Errorf("parsing received_at: %w", err)
	}
	c.ReceivedAt = receivedAt

	if body, ok := data["body"]; ok {
		c.Body = &body
	}
	if s, ok := data["last_replay_status"]; ok {
		status := int(parseInt64(s))
		c.LastReplayStatus = &status
	}
	if s, ok := data["last_replay_response"]; ok {
		c.LastReplayResponse = &s
	}
	if s, ok := data["last_replay_at"]; ok {
		at, err := time.Parse(timeLayout, s)
		if err != nil {
			return capture.Capture{}, fmt.Errorf("parsing last_replay_at: %w", err)
		}
		c.LastReplayAt = &at
	}

	return c, nil
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
