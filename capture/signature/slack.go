package signature

import (
	"regexp"
	"strconv"
)

var slackPattern = regexp.MustCompile(`^v0=([a-fA-F0-9]+)$`)

// slackScheme checks "X-Slack-Signature: v0=<hex>" over "v0:<ts>:<body>",
// with the timestamp taken from X-Slack-Request-Timestamp
type slackScheme struct{}

func (slackScheme) Verify(in Input) Outcome {
	header := in.Header.Get("X-Slack-Signature")
	if header == "" {
		return failed("Missing X-Slack-Signature header")
	}
	rawTS := in.Header.Get("X-Slack-Request-Timestamp")
	if rawTS == "" {
		return failed("Missing X-Slack-Request-Timestamp header")
	}

	m := slackPattern.FindStringSubmatch(header)
	if m == nil {
		return failed(ReasonInvalidFormat)
	}

	ts, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return failed(ReasonInvalidTime)
	}
	if !withinTolerance(ts, in) {
		return failed(ReasonExpired)
	}

	base := "v0:" + strconv.FormatInt(ts, 10) + ":"
	if !equalHex(hexMAC(in.Secret, []byte(base), in.Body), m[1]) {
		return failed(ReasonMismatch)
	}
	return verified()
}
