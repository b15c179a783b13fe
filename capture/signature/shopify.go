package signature

// shopifyScheme checks "X-Shopify-Hmac-Sha256: <base64>" over the raw body
type shopifyScheme struct{}

func (shopifyScheme) Verify(in Input) Outcome {
	header := in.Header.Get("X-Shopify-Hmac-Sha256")
	if header == "" {
		return failed("Missing X-Shopify-Hmac-Sha256 header")
	}

	if !equal(base64MAC(in.Secret, in.Body), header) {
		return failed(ReasonMismatch)
	}
	return verified()
}
