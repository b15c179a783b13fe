package metrics

import "context"

// Collector reports stored state sampled at scrape time.
// Every capture repository satisfies it.
type Collector interface {
	// CountByEndpoint returns the number of stored captures per endpoint ID
	CountByEndpoint(ctx context.Context) (map[string]int64, error)
}
