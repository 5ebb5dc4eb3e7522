package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc decorates a RoundTripper.
type TransportFunc func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	requestTimeout        time.Duration
	connTimeout           time.Duration
	keepAlive             time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConns          int
	maxIdleConnsPerHost   int
	wrappers              []TransportFunc
}

// Request and header timeouts default to zero: uploads of large documents may
// keep the backend busy for a long time before it answers.
func defaultClientConfig() *clientConfig {
	return &clientConfig{
		connTimeout:         30 * time.Second,
		keepAlive:           90 * time.Second,
		tlsHandshakeTimeout: 10 * time.Second,
		idleConnTimeout:     90 * time.Second,
		maxIdleConns:        20,
		maxIdleConnsPerHost: 4,
	}
}

// NewClient builds an *http.Client with the given options applied.
func NewClient(opts ...Option) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.connTimeout,
		KeepAlive: cfg.keepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.maxIdleConns,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}

	for _, wrap := range cfg.wrappers {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}
}
