package signature

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Sign produces the headers a provider using method would attach to body.
// GenericHMAC signs with the hex form in X-Webhook-Signature.
func Sign(method Method, body []byte, secret string, now time.Time) (http.Header, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing with %s: empty secret", method)
	}

	h := http.Header{}
	ts := strconv.FormatInt(now.Unix(), 10)

	switch method {
	case Stripe:
		h.Set("Stripe-Signature", "t="+ts+",v1="+hexMAC(secret, []byte(ts), []byte("."), body))
	case GitHub:
		h.Set("X-Hub-Signature-256", "sha256="+hexMAC(secret, body))
	case Slack:
		h.Set("X-Slack-Request-Timestamp", ts)
		h.Set("X-Slack-Signature", "v0="+hexMAC(secret, []byte("v0:"+ts+":"), body))
	case Shopify:
		h.Set("X-Shopify-Hmac-Sha256", base64MAC(secret, body))
	case GenericHMAC:
		h.Set("X-Webhook-Signature", "sha256="+hexMAC(secret, body))
	default:
		return nil, fmt.Errorf("signing with %s: unsupported method", method)
	}

	return h, nil
}
