package signature

import (
	"strconv"
	"strings"
)

// stripeScheme checks "Stripe-Signature: t=<unix>,v1=<hex>" over "<t>.<body>".
// Several v1 entries may be present during secret rotation; any match verifies.
type stripeScheme struct{}

func (stripeScheme) Verify(in Input) Outcome {
	header := in.Header.Get("Stripe-Signature")
	if header == "" {
		return failed("Missing Stripe-Signature header")
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return failed(ReasonInvalidFormat)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return failed(ReasonInvalidFormat)
	}
	if !withinTolerance(ts, in) {
		return failed(ReasonExpired)
	}

	expected := hexMAC(in.Secret, []byte(timestamp), []byte("."), in.Body)
	matched := false
	for _, c := range candidates {
		if equal(expected, c) {
			matched = true
		}
	}
	if !matched {
		return failed(ReasonMismatch)
	}
	return verified()
}
