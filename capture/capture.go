package capture

import "time"

/* Capture is one recorded inbound webhook request
 * Uses value semantics as it represents data, not behavior
 */
type Capture struct {
	ID                 string
	EndpointID         string
	Method             string
	Source             string
	SourceVerified     bool
	Headers            map[string]string
	Body               *string
	QueryParams        map[string]string
	ContentType        string
	ReplayCount        int
	LastReplayStatus   *int
	LastReplayResponse *string
	LastReplayAt       *time.Time
	ReceivedAt         time.Time
}

// ReplayOutcome is the result of one replay, written back as a single unit
type ReplayOutcome struct {
	Status   int
	Response string
	At       time.Time
}

// MaxReplayResponseChars bounds the stored replay response text
const MaxReplayResponseChars = 10000

// TruncateResponse cuts s to at most MaxReplayResponseChars characters
func TruncateResponse(s string) string {
	n := 0
	for i := range s {
		if n == MaxReplayResponseChars {
			return s[:i]
		}
		n++
	}
	return s
}

// Receipt is what the ingestion route reports back to the sender
type Receipt struct {
	CaptureID  string
	Endpoint   string
	Verified   bool
	ReceivedAt time.Time
}

// ListOptions paginates captures of one endpoint, newest first
type ListOptions struct {
	Limit  int
	Offset int
	Source string
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Normalized clamps limit and offset into their accepted ranges
func (o ListOptions) Normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Page is a slice of captures plus the total matching count
type Page struct {
	Captures []Capture
	Total    int
	Limit    int
	Offset   int
}
