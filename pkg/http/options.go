package http

import "time"

type Option func(*clientConfig)

// WithRequestTimeout bounds the whole request. Zero means no limit.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

func WithConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.connTimeout = timeout
	}
}

func WithKeepAlive(keepAlive time.Duration) Option {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

// WithResponseHeaderTimeout bounds the wait for response headers. Zero means no limit.
func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithTransport(wrap TransportFunc) Option {
	return func(c *clientConfig) {
		c.wrappers = append(c.wrappers, wrap)
	}
}
