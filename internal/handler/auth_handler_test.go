package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler().Login)
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginCorrectPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	r := newAuthRouter()

	w := postLogin(t, r, `{"password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	r := newAuthRouter()

	w := postLogin(t, r, `{"password":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestLoginMissingPassword(t *testing.T) {
	r := newAuthRouter()

	w := postLogin(t, r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
