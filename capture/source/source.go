// Package source classifies inbound webhooks by provider using request headers.
package source

import (
	"net/http"
	"strings"
)

// Provider tags recorded on captures
const (
	Stripe           = "stripe"
	GitHub           = "github"
	Shopify          = "shopify"
	Slack            = "slack"
	Telegram         = "telegram"
	Twilio           = "twilio"
	PayPal           = "paypal"
	Square           = "square"
	SendGrid         = "sendgrid"
	Mailgun          = "mailgun"
	GenericHMAC      = "generic-hmac"
	GenericSignature = "generic-signature"
	Unknown          = "unknown"
)

// Rule pairs a header predicate with the tag it yields
type Rule struct {
	Tag   string
	Match func(h http.Header) bool
}

// HeaderPresent matches when the named header carries a non-empty value
func HeaderPresent(name, tag string) Rule {
	return Rule{
		Tag:   tag,
		Match: func(h http.Header) bool { return h.Get(name) != "" },
	}
}

// UserAgentContains matches a case-insensitive substring of User-Agent
func UserAgentContains(needle, tag string) Rule {
	needle = strings.ToLower(needle)
	return Rule{
		Tag: tag,
		Match: func(h http.Header) bool {
			return strings.Contains(strings.ToLower(h.Get("User-Agent")), needle)
		},
	}
}

/* Rules are evaluated in order and the first match wins.
 * Provider-specific headers come before user agents so a request
 * carrying both is tagged by its header.
 */
var Rules = []Rule{
	HeaderPresent("Stripe-Signature", Stripe),
	HeaderPresent("X-GitHub-Event", GitHub),
	HeaderPresent("X-Shopify-Topic", Shopify),
	HeaderPresent("X-Slack-Signature", Slack),
	HeaderPresent("X-Telegram-Bot-Api-Secret-Token", Telegram),
	HeaderPresent("Twilio-Signature", Twilio),
	HeaderPresent("X-Hub-Signature", GenericHMAC),
	HeaderPresent("X-Webhook-Signature", GenericSignature),

	UserAgentContains("stripe", Stripe),
	UserAgentContains("github", GitHub),
	UserAgentContains("shopify", Shopify),
	UserAgentContains("slack", Slack),
	UserAgentContains("twilio", Twilio),
	UserAgentContains("paypal", PayPal),
	UserAgentContains("square", Square),
	UserAgentContains("sendgrid", SendGrid),
	UserAgentContains("mailgun", Mailgun),
}

// Detect returns the tag of the first rule matching h, or Unknown
func Detect(h http.Header) string {
	for _, r := range Rules {
		if r.Match(h) {
			return r.Tag
		}
	}
	return Unknown
}
