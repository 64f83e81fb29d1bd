package handler

import "github.com/gin-gonic/gin"

// Machine-readable error codes carried in every error response.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeInvalidToken       = "INVALID_TOKEN"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeSessionError       = "SESSION_ERROR"
	codeNotFound           = "NOT_FOUND"
	codeInternal           = "INTERNAL_ERROR"
)

// User-facing messages. Messages on the auth endpoints deliberately do
// not distinguish unknown emails, wrong methods, used tokens, or
// expired tokens.
const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid email or not configured for this sign-in method"
	errInvalidToken       = "This link is invalid or has expired"
	errSessionCreate      = "Failed to create session"
	errGuestNotFound      = "Guest not found"
)

func errBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}
