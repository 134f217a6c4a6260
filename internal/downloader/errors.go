package downloader

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// HTTPError reports a non-success response status.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// ErrorLabel classifies a download failure for logs and metrics.
func ErrorLabel(err error) string {
	if err == nil {
		return "none"
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return "http_status"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}
	return "other"
}
