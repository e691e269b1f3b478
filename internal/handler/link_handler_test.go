package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPlatformsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/platforms", NewLinkHandler(nil).Platforms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/platforms", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "amazon")
	assert.Contains(t, w.Body.String(), "generic")
}

func TestExtractRejectsUnsupportedPlatform(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/links/extract", NewLinkHandler(nil).Extract)

	body := `{"url":"https://example.com/p/1","platform":"myspace"}`
	req := httptest.NewRequest(http.MethodPost, "/links/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported platform")
}
