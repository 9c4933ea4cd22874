package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/TraceGraph/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient reuses connections across outbound calls (redaction
// service, embedding batches) instead of paying the handshake per request.
func PooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
