package capture

import "github.com/marcelsud/webhook-debugger/capture/signature"

// Endpoint is a capture destination addressed by /hook/{Path}
type Endpoint struct {
	ID                 string
	Name               string
	Path               string
	Active             bool
	VerificationMethod signature.Method
	VerificationSecret string
}

// VerificationEnabled reports whether inbound requests should be signature-checked
func (e Endpoint) VerificationEnabled() bool {
	return e.VerificationMethod != signature.None && e.VerificationSecret != ""
}
