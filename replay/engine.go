package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marcelsud/webhook-debugger/capture"
)

var (
	// ErrInvalidTarget is returned for target URLs that cannot be parsed
	ErrInvalidTarget = errors.New("invalid target URL")

	// ErrSchemeNotAllowed is returned for targets that are not http or https
	ErrSchemeNotAllowed = errors.New("only HTTP/HTTPS URLs are allowed")
)

const (
	// DefaultTimeout bounds one outbound replay including redirects
	DefaultTimeout = 15 * time.Second

	// maxResponseRead caps bytes read from the target; enough for the stored character limit
	maxResponseRead = capture.MaxReplayResponseChars * 4
)

// Result describes one replay attempt
type Result struct {
	Success  bool
	Status   int
	Response string
	Error    string
	Duration time.Duration
}

// UseCase re-sends a capture to a target URL
type UseCase interface {
	Replay(ctx context.Context, c capture.Capture, target string) (Result, error)
}

// Observer is notified when a replay attempt finishes
type Observer interface {
	ReplayFinished(ctx context.Context, status int, success bool)
}

type Engine struct {
	store    capture.ReplayWriter
	client   *http.Client
	logger   *slog.Logger
	observer Observer
	now      func() time.Time

	timeout      time.Duration
	blockPrivate bool
}

// NewEngine creates a replay engine that records outcomes in store
func NewEngine(store capture.ReplayWriter, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
		now:      time.Now,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		e.client = e.newClient()
	}
	return e
}

func (e *Engine) newClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if e.blockPrivate {
		dialer := &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
			Control:   guardControl,
		}
		transport.DialContext = dialer.DialContext
		transport.Proxy = nil
	}
	return &http.Client{
		Timeout:   e.timeout,
		Transport: transport,
	}
}

// ValidateTarget parses target and checks it is an absolute http or https URL
func ValidateTarget(target string) (*url.URL, error) {
	if strings.TrimSpace(target) == "" {
		return nil, ErrInvalidTarget
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return nil, ErrInvalidTarget
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrSchemeNotAllowed
	}
	if u.Host == "" {
		return nil, ErrInvalidTarget
	}
	return u, nil
}

// Replay sends c to target with its original method, headers and body.
// The returned error is non-nil only for an unacceptable target, which is checked
// before any network activity. Transport failures are reported in Result and leave
// the capture untouched.
func (e *Engine) Replay(ctx context.Context, c capture.Capture, target string) (Result, error) {
	u, err := ValidateTarget(target)
	if err != nil {
		return Result{}, err
	}

	log := e.logger.With("capture_id", c.ID, "target_host", u.Host)

	var body io.Reader
	if c.Method != http.MethodGet && c.Method != http.MethodHead && c.Body != nil {
		body = strings.NewReader(*c.Body)
	}

	req, err := http.NewRequestWithContext(ctx, c.Method, u.String(), body)
	if err != nil {
		return e.fail(ctx, log, 0, fmt.Sprintf("creating request: %v", err)), nil
	}
	ForwardHeaders(req.Header, c.Headers)
	// An explicit Accept-Encoding turns off the transport's transparent gzip decoding
	req.Header.Del("Accept-Encoding")

	start := e.now()
	resp, err := e.client.Do(req)
	if err != nil {
		return e.fail(ctx, log, 0, err.Error()), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseRead))
	if err != nil {
		return e.fail(ctx, log, resp.StatusCode, fmt.Sprintf("reading response: %v", err)), nil
	}
	text := capture.TruncateResponse(string(raw))

	outcome := capture.ReplayOutcome{
		Status:   resp.StatusCode,
		Response: text,
		At:       e.now().UTC(),
	}
	if err := e.store.UpdateReplay(ctx, c.ID, outcome); err != nil {
		log.Error("recording replay failed", "error", err)
		return e.fail(ctx, log, resp.StatusCode, fmt.Sprintf("recording replay: %v", err)), nil
	}

	res := Result{
		Success:  true,
		Status:   resp.StatusCode,
		Response: text,
		Duration: e.now().Sub(start),
	}
	log.Info("capture replayed", "status", res.Status, "duration", res.Duration)
	e.observer.ReplayFinished(ctx, res.Status, true)
	return res, nil
}

func (e *Engine) fail(ctx context.Context, log *slog.Logger, status int, msg string) Result {
	log.Warn("replay failed", "error", msg)
	e.observer.ReplayFinished(ctx, status, false)
	return Result{Status: status, Error: msg}
}

type nopObserver struct{}

func (nopObserver) ReplayFinished(context.Context, int, bool) {}
