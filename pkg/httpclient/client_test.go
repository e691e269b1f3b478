package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapTransportErrorTimeout(t *testing.T) {
	err := WrapTransportError(context.DeadlineExceeded)

	assert.True(t, IsTimeoutError(err))
	assert.Equal(t, "request timed out", err.Error())
}

func TestWrapTransportErrorNetwork(t *testing.T) {
	err := WrapTransportError(errors.New("connection refused"))

	assert.False(t, IsTimeoutError(err))
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCheckStatusSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer CloseResponse(resp)

	assert.NoError(t, CheckStatus(resp))
}

func TestCheckStatusRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer CloseResponse(resp)

	statusErr := CheckStatus(resp)
	require.Error(t, statusErr)
	assert.True(t, IsRateLimitError(statusErr))

	var rateErr *RateLimitError
	require.ErrorAs(t, statusErr, &rateErr)
	assert.Equal(t, http.StatusTooManyRequests, rateErr.StatusCode)
	assert.Equal(t, 120, rateErr.RetryAfter)
}

func TestCheckStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer CloseResponse(resp)

	statusErr := CheckStatus(resp)
	require.Error(t, statusErr)
	assert.False(t, IsRateLimitError(statusErr))

	var respErr *ResponseError
	require.ErrorAs(t, statusErr, &respErr)
	assert.Equal(t, http.StatusServiceUnavailable, respErr.StatusCode)
}
