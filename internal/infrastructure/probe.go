package infrastructure

import (
	"net/http"
	"time"

	"github.com/yourusername/mediaq/internal/domain"
)

// HTTPConnectivityChecker reports network reachability by issuing a HEAD
// request against a well-known, highly-available host. It is a best-effort
// heuristic: any completed request counts as online, any error or timeout
// as offline.
type HTTPConnectivityChecker struct {
	url    string
	client *http.Client
}

// NewHTTPConnectivityChecker creates a connectivity checker for the given
// probe URL and timeout.
func NewHTTPConnectivityChecker(config *domain.ProbeConfig) *HTTPConnectivityChecker {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPConnectivityChecker{
		url: config.URL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Online reports whether the probe host is reachable.
func (c *HTTPConnectivityChecker) Online() bool {
	req, err := http.NewRequest(http.MethodHead, c.url, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return true
}
