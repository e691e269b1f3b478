package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/pkg/httpclient"
)

// ValidationResult is the outcome of a single reachability probe. Network
// failures of any kind (DNS, timeout, TLS, refused connection) are captured
// in the Error field, never surfaced as a Go error — that contract is what
// lets batch health checks tolerate individual failures.
type ValidationResult struct {
	IsValid      bool   `json:"is_valid"`
	Status       int    `json:"status"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	Error        string `json:"error,omitempty"`
	RateLimited  bool   `json:"rate_limited,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

// ResultCache caches validation results keyed by URL. A nil cache is valid
// and means no caching.
type ResultCache interface {
	Get(ctx context.Context, url string) (*ValidationResult, error)
	Set(ctx context.Context, url string, result *ValidationResult) error
	IsEnabled() bool
}

// DefaultValidationTimeout bounds a single probe
const DefaultValidationTimeout = 10 * time.Second

// Validator issues lightweight existence checks against URLs
type Validator struct {
	client  *http.Client
	timeout time.Duration
}

// NewValidator creates a validator. A zero timeout falls back to the default.
func NewValidator(timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = DefaultValidationTimeout
	}
	return &Validator{
		client:  httpclient.GetClient(),
		timeout: timeout,
	}
}

// Validate probes a URL with a HEAD request, following redirects, and
// measures wall-clock latency from dispatch to completion.
func (v *Validator) Validate(ctx context.Context, rawURL string) *ValidationResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return &ValidationResult{
			IsValid:      false,
			Status:       0,
			Error:        fmt.Sprintf("invalid URL: %v", err),
			ResponseTime: time.Since(start).Milliseconds(),
		}
	}
	httpclient.SetDefaultHeaders(req)

	resp, err := v.client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return &ValidationResult{
			IsValid:      false,
			Status:       0,
			Error:        httpclient.WrapTransportError(err).Error(),
			ResponseTime: elapsed,
		}
	}
	defer httpclient.CloseResponse(resp)

	result := &ValidationResult{
		Status:       resp.StatusCode,
		ResponseTime: elapsed,
	}
	if resp.Request != nil && resp.Request.URL.String() != rawURL {
		result.RedirectURL = resp.Request.URL.String()
	}

	if statusErr := httpclient.CheckStatus(resp); statusErr != nil {
		result.Error = statusErr.Error()
		result.RateLimited = httpclient.IsRateLimitError(statusErr)
	} else {
		result.IsValid = true
	}

	return result
}
