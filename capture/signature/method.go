package signature

import "fmt"

/* Method names the signature scheme an endpoint expects
 * None disables verification entirely
 */
type Method int

const (
	None Method = iota + 1
	Stripe
	GitHub
	Slack
	Shopify
	GenericHMAC
)

// String returns the configuration name of the method
func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Stripe:
		return "stripe"
	case GitHub:
		return "github"
	case Slack:
		return "slack"
	case Shopify:
		return "shopify"
	case GenericHMAC:
		return "generic-hmac"
	default:
		return "unknown"
	}
}

// ParseMethod converts a configuration name into a Method.
// An empty name is treated as none.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "none":
		return None, nil
	case "stripe":
		return Stripe, nil
	case "github":
		return GitHub, nil
	case "slack":
		return Slack, nil
	case "shopify":
		return Shopify, nil
	case "generic-hmac":
		return GenericHMAC, nil
	default:
		return 0, fmt.Errorf("invalid verification method: %q", s)
	}
}

// Validate checks if the method is one of the known schemes
func (m Method) Validate() error {
	if m < None || m > GenericHMAC {
		return fmt.Errorf("invalid verification method: %d", m)
	}
	return nil
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
