package common

import (
	"github.com/futig/docqa-client/internal/config"
	pkgHTTP "github.com/futig/docqa-client/pkg/http"
)

const userAgent = "docqa-client/1.0"

func NewBaseConnector(cfg config.HTTPClientConfig) *pkgHTTP.Connector {
	return pkgHTTP.NewConnector(
		cfg.Url,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnTimeout(cfg.ConnTimeout),
		pkgHTTP.WithKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithUserAgent(userAgent),
	)
}
