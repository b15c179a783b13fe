package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-debugger/capture/signature"
	"github.com/marcelsud/webhook-debugger/capture/source"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the capture operations exposed to transports
type UseCase interface {
	Receive(ctx context.Context, path string, r *http.Request) (Receipt, error)
	Get(ctx context.Context, id string) (Capture, error)
	List(ctx context.Context, endpointID string, opts ListOptions) (Page, error)
}

// SignatureVerifier checks an inbound request against an endpoint's secret
type SignatureVerifier interface {
	Verify(body []byte, header http.Header, method signature.Method, secret string) signature.Outcome
}

// Observer is notified of ingestion results
type Observer interface {
	CaptureStored(ctx context.Context, endpointID, source string, verified bool)
	IngestFailed(ctx context.Context, reason string)
}

type Service struct {
	Repo      Repository
	Endpoints EndpointFinder

	verifier     SignatureVerifier
	observer     Observer
	logger       *slog.Logger
	maxBodyBytes int64
	now          func() time.Time
}

// NewService creates a capture service with dependency injection
func NewService(repo Repository, endpoints EndpointFinder, opts ...Option) *Service {
	s := &Service{
		Repo:         repo,
		Endpoints:    endpoints,
		verifier:     signature.NewVerifier(),
		observer:     nopObserver{},
		logger:       slog.New(slog.DiscardHandler),
		maxBodyBytes: MaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receive resolves the endpoint for path, normalizes r and stores it as a capture.
// No capture is created when the endpoint is unknown or inactive.
func (s *Service) Receive(ctx context.Context, path string, r *http.Request) (Receipt, error) {
	ep, err := s.Endpoints.FindByPath(ctx, path)
	if err != nil {
		if errors.Is(err, ErrEndpointNotFound) {
			s.observer.IngestFailed(ctx, "endpoint_not_found")
		} else {
			s.observer.IngestFailed(ctx, "endpoint_lookup")
		}
		return Receipt{}, fmt.Errorf("finding endpoint %q: %w", path, err)
	}
	if !ep.Active {
		s.observer.IngestFailed(ctx, "endpoint_inactive")
		return Receipt{}, fmt.Errorf("endpoint %s: %w", ep.ID, ErrEndpointInactive)
	}

	snap := Normalize(r, s.maxBodyBytes)

	c := Capture{
		ID:             uuid.New().String(),
		EndpointID:     ep.ID,
		Method:         snap.Method,
		Source:         source.Detect(snap.Header),
		SourceVerified: s.verify(ep, snap),
		Headers:        snap.Headers,
		Body:           snap.Body,
		QueryParams:    snap.QueryParams,
		ContentType:    snap.ContentType,
		ReceivedAt:     s.now().UTC(),
	}

	stored, err := s.Repo.Create(ctx, c)
	if err != nil {
		s.observer.IngestFailed(ctx, "storage")
		return Receipt{}, fmt.Errorf("storing capture: %w", err)
	}

	s.observer.CaptureStored(ctx, stored.EndpointID, stored.Source, stored.SourceVerified)

	return Receipt{
		CaptureID:  stored.ID,
		Endpoint:   path,
		Verified:   stored.SourceVerified,
		ReceivedAt: stored.ReceivedAt,
	}, nil
}

func (s *Service) verify(ep Endpoint, snap Snapshot) bool {
	if !ep.VerificationEnabled() {
		return false
	}

	log := s.logger.With("endpoint_id", ep.ID, "method", ep.VerificationMethod.String())

	switch {
	case snap.ReadFailed:
		log.Info("signature not verified", "reason", "body could not be read")
		return false
	case snap.Truncated:
		log.Info("signature not verified", "reason", "body exceeds capture limit")
		return false
	}

	out := s.verifier.Verify(snap.Raw, snap.Header, ep.VerificationMethod, ep.VerificationSecret)
	if out.Verified {
		log.Debug("signature verified")
	} else {
		log.Info("signature not verified", "reason", out.Reason)
	}
	return out.Verified
}

// Get returns a single capture
func (s *Service) Get(ctx context.Context, id string) (Capture, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Capture{}, fmt.Errorf("getting capture %s: %w", id, err)
	}
	return c, nil
}

// List returns a page of an endpoint's captures, newest first
func (s *Service) List(ctx context.Context, endpointID string, opts ListOptions) (Page, error) {
	opts = opts.Normalized()

	captures, err := s.Repo.ListByEndpoint(ctx, endpointID, opts)
	if err != nil {
		return Page{}, fmt.Errorf("listing captures: %w", err)
	}

	total, err := s.Repo.CountByEndpointID(ctx, endpointID, opts.Source)
	if err != nil {
		return Page{}, fmt.Errorf("counting captures: %w", err)
	}

	if captures == nil {
		captures = []Capture{}
	}

	return Page{
		Captures: captures,
		Total:    total,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}, nil
}

type nopObserver struct{}

func (nopObserver) CaptureStored(context.Context, string, string, bool) {}
func (nopObserver) IngestFailed(context.Context, string)                {}
