package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AuthHandler verifies admin credentials
type AuthHandler struct{}

// NewAuthHandler creates an auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the login outcome
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login checks the admin password. On success the client sends the same
// password on subsequent requests via the X-Admin-Password header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LoginResponse{
			Success: false,
			Message: "password is required",
		})
		return
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin"
	}

	if req.Password == adminPassword {
		c.JSON(http.StatusOK, LoginResponse{
			Success: true,
			Message: "login successful",
		})
		return
	}

	c.JSON(http.StatusUnauthorized, LoginResponse{
		Success: false,
		Message: "invalid password",
	})
}
