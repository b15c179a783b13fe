package capture

import (
	"context"
	"time"
)

/* Small, focused interfaces
 * Storage backends implement Repository, collaborators depend on the part they use
 */

// Reader provides read operations for captures
type Reader interface {
	Get(ctx context.Context, id string) (Capture, error)
	/* ListByEndpoint returns captures newest first
	 * An empty opts.Source matches every source
	 */
	ListByEndpoint(ctx context.Context, endpointID string, opts ListOptions) ([]Capture, error)
	CountByEndpointID(ctx context.Context, endpointID string, source string) (int, error)
}

// Writer provides write operations for captures
type Writer interface {
	Create(ctx context.Context, c Capture) (Capture, error)
	/* DeleteReceivedBefore removes captures older than cutoff
	 * Returns the number of captures removed
	 */
	DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReplayWriter records replay outcomes.
// UpdateReplay increments replay_count and sets the last_replay_* fields together.
type ReplayWriter interface {
	UpdateReplay(ctx context.Context, id string, outcome ReplayOutcome) error
}

// Repository is the full persistence contract of a storage backend
type Repository interface {
	Reader
	Writer
	ReplayWriter
	CountByEndpoint(ctx context.Context) (map[string]int64, error)
	Close(ctx context.Context) error
}

// EndpointFinder resolves the endpoint registered for a /hook/{path} token
type EndpointFinder interface {
	FindByPath(ctx context.Context, path string) (Endpoint, error)
}
