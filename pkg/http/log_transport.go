package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type payloadContextKey struct{}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	}
	if req.ContentLength > 0 {
		fields = append(fields, zap.Int64("content_length", req.ContentLength))
	}
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.ByteString("payload", payload))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)

	fields = append(fields, zap.Duration("duration", time.Since(start)))
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// WithRequestLogging logs method, URL, JSON payload, status and duration of every request.
func WithRequestLogging() Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
