// Package httpclient provides the pooled HTTP client used for outbound calls
// (Telegram Bot API today).
//
// Keep-alive connections are shared across the notification workers so each
// message does not pay for a fresh TLS handshake.
package httpclient

import (
	"net/http"
	"sync"
	"time"
)

var (
	mu           sync.RWMutex
	sharedClient = New(30 * time.Second)
)

// Shared returns the process-wide client.
//
// http.Client is safe for concurrent use; no extra locking is needed by callers.
func Shared() *http.Client {
	mu.RLock()
	defer mu.RUnlock()
	return sharedClient
}

// Configure replaces the shared client with one using timeout.
// Called once at startup with HTTP_TIMEOUT.
func Configure(timeout time.Duration) {
	Set(New(timeout))
}

// Set overrides the shared client (tests inject httptest clients here).
func Set(client *http.Client) {
	mu.Lock()
	sharedClient = client
	mu.Unlock()
}

// New creates a client with connection pooling.
//
// Pool configuration:
//   - MaxIdleConns: 100 across all hosts
//   - MaxIdleConnsPerHost: 10
//   - IdleConnTimeout: 90 seconds
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}
