package signature

import "regexp"

var githubPattern = regexp.MustCompile(`^sha256=([a-fA-F0-9]+)$`)

// githubScheme checks "X-Hub-Signature-256: sha256=<hex>" over the raw body
type githubScheme struct{}

func (githubScheme) Verify(in Input) Outcome {
	header := in.Header.Get("X-Hub-Signature-256")
	if header == "" {
		return failed("Missing X-Hub-Signature-256 header")
	}

	m := githubPattern.FindStringSubmatch(header)
	if m == nil {
		return failed(ReasonInvalidFormat)
	}

	if !equalHex(hexMAC(in.Secret, in.Body), m[1]) {
		return failed(ReasonMismatch)
	}
	return verified()
}
