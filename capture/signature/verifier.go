package signature

import (
	"fmt"
	"net/http"
	"time"
)

// DefaultTolerance is the maximum clock skew accepted by timestamped schemes
const DefaultTolerance = 300 * time.Second

// Reasons reported alongside a failed verification. They are diagnostic only.
const (
	ReasonNotConfigured  = "No verification configured"
	ReasonUnknownMethod  = "Unknown verification method"
	ReasonInvalidFormat  = "Invalid signature format"
	ReasonExpired        = "Signature timestamp expired"
	ReasonMismatch       = "Signature mismatch"
	ReasonInvalidTime    = "Invalid timestamp"
	ReasonMissingGeneric = "Missing signature header"
)

// Outcome is the result of a verification attempt
type Outcome struct {
	Verified bool
	Method   Method
	Reason   string
}

// Input carries everything a scheme needs to check one request
type Input struct {
	Body      []byte
	Header    http.Header
	Secret    string
	Now       time.Time
	Tolerance time.Duration
}

// Scheme verifies a request according to one provider's convention
type Scheme interface {
	Verify(in Input) Outcome
}

var schemes = map[Method]Scheme{
	Stripe:      stripeScheme{},
	GitHub:      githubScheme{},
	Slack:       slackScheme{},
	Shopify:     shopifyScheme{},
	GenericHMAC: genericScheme{},
}

// Verifier dispatches to the scheme selected by an endpoint's method
type Verifier struct {
	Now       func() time.Time
	Tolerance time.Duration
}

// NewVerifier creates a verifier using the wall clock and DefaultTolerance
func NewVerifier() *Verifier {
	return &Verifier{
		Now:       time.Now,
		Tolerance: DefaultTolerance,
	}
}

// Verify checks body and headers against the secret using the given method.
// It never returns an error: every failure is reported as an unverified outcome.
func (v *Verifier) Verify(body []byte, header http.Header, method Method, secret string) (out Outcome) {
	if method == None || secret == "" {
		return Outcome{Method: None, Reason: ReasonNotConfigured}
	}

	scheme, ok := schemes[method]
	if !ok {
		return Outcome{Method: method, Reason: ReasonUnknownMethod}
	}

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Method: method, Reason: fmt.Sprintf("Verification error: %v", r)}
		}
	}()

	if header == nil {
		header = http.Header{}
	}

	out = scheme.Verify(Input{
		Body:      body,
		Header:    header,
		Secret:    secret,
		Now:       v.Now(),
		Tolerance: v.Tolerance,
	})
	out.Method = method
	return out
}

// Verify runs a verification with a default Verifier
func Verify(body []byte, header http.Header, method Method, secret string) Outcome {
	return NewVerifier().Verify(body, header, method, secret)
}

// withinTolerance reports whether ts lies within in.Tolerance of in.Now
func withinTolerance(ts int64, in Input) bool {
	now := in.Now.Unix()
	tol := int64(in.Tolerance / time.Second)
	return ts >= now-tol && ts <= now+tol
}

func verified() Outcome {
	return Outcome{Verified: true}
}

func failed(reason string) Outcome {
	return Outcome{Reason: reason}
}
