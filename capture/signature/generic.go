package signature

import "regexp"

var (
	genericHexPattern    = regexp.MustCompile(`^(?:sha256=)?([a-fA-F0-9]{64})$`)
	genericBase64Pattern = regexp.MustCompile(`^([A-Za-z0-9+/=]{44})$`)
)

// genericScheme accepts X-Hub-Signature or X-Webhook-Signature carrying either
// a hex digest (optionally prefixed with "sha256=") or a base64 digest
type genericScheme struct{}

func (genericScheme) Verify(in Input) Outcome {
	header := in.Header.Get("X-Hub-Signature")
	if header == "" {
		header = in.Header.Get("X-Webhook-Signature")
	}
	if header == "" {
		return failed(ReasonMissingGeneric)
	}

	if m := genericHexPattern.FindStringSubmatch(header); m != nil {
		if !equalHex(hexMAC(in.Secret, in.Body), m[1]) {
			return failed(ReasonMismatch)
		}
		return verified()
	}

	if m := genericBase64Pattern.FindStringSubmatch(header); m != nil {
		if !equal(base64MAC(in.Secret, in.Body), m[1]) {
			return failed(ReasonMismatch)
		}
		return verified()
	}

	return failed(ReasonInvalidFormat)
}
