package endpoints

import (
	"fmt"
	"strings"

	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/signature"
)

// Validate checks if an endpoint configuration is usable
func Validate(ep capture.Endpoint) error {
	if ep.ID == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if ep.Path == "" {
		return fmt.Errorf("path cannot be empty for endpoint %s", ep.ID)
	}
	if strings.ContainsAny(ep.Path, "/?#") {
		return fmt.Errorf("path must be a single segment for endpoint %s (got %q)", ep.ID, ep.Path)
	}
	if err := ep.VerificationMethod.Validate(); err != nil {
		return fmt.Errorf("invalid verification_method for endpoint %s: %w", ep.ID, err)
	}
	// A method without a secret is accepted but verification will be skipped
	if ep.VerificationMethod == signature.None && ep.VerificationSecret != "" {
		return fmt.Errorf("verification_secret set without verification_method for endpoint %s", ep.ID)
	}
	return nil
}
