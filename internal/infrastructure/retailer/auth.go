package retailer

import "net/http"

// subscriptionKeyTransport decorates every outgoing request with the
// retailer's static subscription key and JSON content type. Constructing it
// performs no I/O; it only wraps the underlying transport.
type subscriptionKeyTransport struct {
	key  string
	next http.RoundTripper
}

func newSubscriptionKeyTransport(key string, next http.RoundTripper) *subscriptionKeyTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &subscriptionKeyTransport{key: key, next: next}
}

// RoundTrip implements http.RoundTripper
func (t *subscriptionKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating: RoundTrippers must not modify the original
	// request.
	r := req.Clone(req.Context())
	r.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	r.Header.Set("Content-Type", "application/json")
	return t.next.RoundTrip(r)
}
