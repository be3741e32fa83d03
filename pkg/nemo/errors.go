package nemo

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// FetchError reports a failed call to the NEMO API. It carries enough context
// for operator logs (host, whether a response arrived, its status) and never
// the credentials.
type FetchError struct {
	Host       string
	Responded  bool
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case !e.Responded:
		return fmt.Sprintf("nemo: fetch from %s failed, no response: %v", e.Host, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("nemo: fetch from %s failed, status %d: %v", e.Host, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("nemo: fetch from %s failed, status %d", e.Host, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure looks transient (timeouts, refused or
// reset connections, 408/429/5xx). The client never retries; the hint is for
// callers that choose to.
func (e *FetchError) Temporary() bool {
	if e.Responded {
		return transientStatus(e.StatusCode)
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, syscall.ECONNRESET) ||
		errors.Is(e.Err, syscall.ECONNREFUSED) ||
		errors.Is(e.Err, syscall.ECONNABORTED)
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
