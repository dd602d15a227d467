package engine

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the client used for every youtube.com request.
// connectTimeout bounds dialing and the TLS handshake; readTimeout bounds the
// wait for response headers. The overall deadline is their sum so a slow body
// cannot hang a pipeline run.
func NewHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Timeout: connectTimeout + readTimeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   connectTimeout,
			ResponseHeaderTimeout: readTimeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       60 * time.Second,
		},
	}
}

// HTTPClient returns the configured client, building a default one when the
// engine was never initialized (tests, library use).
func HTTPClient() *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
}
