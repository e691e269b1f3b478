package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DesktopUserAgent is sent on every outbound fetch so third-party shops treat
// us as a regular browser.
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

var (
	client *http.Client
)

// GetClient returns the shared HTTP client
func GetClient() *http.Client {
	if client == nil {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
		}

		client = &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		}
	}
	return client
}

// SetDefaultHeaders applies browser-like request headers
func SetDefaultHeaders(req *http.Request) {
	req.Header.Set("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	req.Header.Set("user-agent", DesktopUserAgent)
	req.Header.Set("cache-control", "no-cache")
	req.Header.Set("pragma", "no-cache")
}

// CloseResponse drains and closes a response body
func CloseResponse(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// TimeoutError marks a request that exceeded its deadline
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

// NetworkError marks a transport-level failure (DNS, TLS, refused connection)
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

// ResponseError marks a non-2xx response
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return e.Message
}

// RateLimitError marks a 429 response from a third-party site
type RateLimitError struct {
	StatusCode int
	Message    string
	RetryAfter int // suggested retry delay in seconds
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// IsTimeoutError reports whether err is a TimeoutError
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsRateLimitError reports whether err is a RateLimitError
func IsRateLimitError(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}

// WrapTransportError classifies a failed request into a typed error so
// callers can tell a timeout from an unreachable host
func WrapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Message: "request timed out"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Message: "request timed out"}
	}
	return &NetworkError{Message: "request failed", Err: err}
}

// CheckStatus converts a non-success response into a typed error. Redirect
// statuses count as success since the client has already followed them.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &RateLimitError{
			StatusCode: resp.StatusCode,
			Message:    "rate limited by remote site",
			RetryAfter: retryAfter,
		}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	return &ResponseError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
	}
}
