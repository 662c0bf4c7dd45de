package scrape

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds transport tuning for the scraping HTTP client.
type ClientConfig struct {
	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// DefaultClientConfig returns the transport defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}
}

// NewHTTPClient builds an HTTP client with the given transport
// tuning. The overall request deadline comes from the caller's
// context, not from the client, so the scraper's per-fetch timeout
// stays in one place.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:       http.ProxyFromEnvironment,
			DialContext: dialer.DialContext,

			ForceAttemptHTTP2: true,

			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,

			TLSHandshakeTimeout:   cfg.TLSHandshake,
			ResponseHeaderTimeout: cfg.ResponseHeader,
		},
	}
}
