package source_test

import (
	"net/http"
	"testing"

	"github.com/marcelsud/webhook-debugger/capture/source"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"stripe header", map[string]string{"Stripe-Signature": "t=1,v1=a"}, source.Stripe},
		{"github event", map[string]string{"X-GitHub-Event": "push"}, source.GitHub},
		{"shopify topic", map[string]string{"X-Shopify-Topic": "orders/create"}, source.Shopify},
		{"slack signature", map[string]string{"X-Slack-Signature": "v0=a"}, source.Slack},
		{"telegram token", map[string]string{"X-Telegram-Bot-Api-Secret-Token": "t"}, source.Telegram},
		{"twilio signature", map[string]string{"Twilio-Signature": "abc"}, source.Twilio},
		{"generic hmac", map[string]string{"X-Hub-Signature": "sha256=a"}, source.GenericHMAC},
		{"generic signature", map[string]string{"X-Webhook-Signature": "abc"}, source.GenericSignature},
		{"lowercase header name", map[string]string{"x-github-event": "ping"}, source.GitHub},
		{"user agent github", map[string]string{"User-Agent": "GitHub-Hookshot/abc"}, source.GitHub},
		{"user agent paypal", map[string]string{"User-Agent": "PayPal/AUHR-214.0-58841632"}, source.PayPal},
		{"user agent square", map[string]string{"User-Agent": "Square Connect v2"}, source.Square},
		{"user agent sendgrid", map[string]string{"User-Agent": "SendGrid Event API"}, source.SendGrid},
		{"user agent mailgun", map[string]string{"User-Agent": "mailgun/treq-16.12.0"}, source.Mailgun},
		{"user agent stripe", map[string]string{"User-Agent": "Stripe/1.0 (+https://stripe.com/docs/webhooks)"}, source.Stripe},
		{"unknown", map[string]string{"User-Agent": "curl/8.0"}, source.Unknown},
		{"no headers", map[string]string{}, source.Unknown},
		{"empty header value ignored", map[string]string{"Stripe-Signature": ""}, source.Unknown},
		{"header beats user agent", map[string]string{"X-Shopify-Topic": "x", "User-Agent": "Stripe/1.0"}, source.Shopify},
		{"earlier header wins", map[string]string{"X-GitHub-Event": "push", "X-Hub-Signature": "sha1=a"}, source.GitHub},
		{"stripe before github", map[string]string{"Stripe-Signature": "x", "X-GitHub-Event": "push"}, source.Stripe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, source.Detect(h))
		})
	}
}

func TestRulesOrder(t *testing.T) {
	tags := make([]string, 0, len(source.Rules))
	for _, r := range source.Rules {
		tags = append(tags, r.Tag)
	}

	assert.Equal(t, []string{
		source.Stripe, source.GitHub, source.Shopify, source.Slack,
		source.Telegram, source.Twilio, source.GenericHMAC, source.GenericSignature,
		source.Stripe, source.GitHub, source.Shopify, source.Slack, source.Twilio,
		source.PayPal, source.Square, source.SendGrid, source.Mailgun,
	}, tags)
}
