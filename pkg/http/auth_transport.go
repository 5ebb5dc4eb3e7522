package http

import "net/http"

// headerTransport sets static headers on every outgoing request.
type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	for key, value := range t.headers {
		if reqCopy.Header.Get(key) == "" {
			reqCopy.Header.Set(key, value)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken adds a bearer token. An empty token leaves requests untouched.
func WithAuthToken(token string) Option {
	if token == "" {
		return WithStaticHeaders(nil)
	}
	return WithStaticHeaders(map[string]string{"Authorization": "Bearer " + token})
}

func WithUserAgent(userAgent string) Option {
	return WithStaticHeaders(map[string]string{"User-Agent": userAgent})
}

func WithStaticHeaders(headers map[string]string) Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			headers:   headers,
			transport: rt,
		}
	})
}
