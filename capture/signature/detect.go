package signature

import "net/http"

// Detect suggests the scheme a request was signed with, judging by headers only.
// It returns None when no known signature header is present.
func Detect(h http.Header) Method {
	switch {
	case h.Get("Stripe-Signature") != "":
		return Stripe
	case h.Get("X-Hub-Signature-256") != "":
		return GitHub
	case h.Get("X-Slack-Signature") != "":
		return Slack
	case h.Get("X-Shopify-Hmac-Sha256") != "":
		return Shopify
	case h.Get("X-Hub-Signature") != "", h.Get("X-Webhook-Signature") != "":
		return GenericHMAC
	default:
		return None
	}
}
