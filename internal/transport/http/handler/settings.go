package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/usecase"
)

type SettingsHandler struct {
	settings *usecase.SettingsUsecase
	logger   *slog.Logger
}

func NewSettingsHandler(settings *usecase.SettingsUsecase, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger.With("component", "settings_handler")}
}

type authMethodResponse struct {
	DefaultAuthMethod string `json:"default_auth_method"`
}

// GET /admin/settings/auth-method
func (h *SettingsHandler) GetDefaultAuthMethod(c *gin.Context) {
	method, err := h.settings.DefaultAuthMethod(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "get default auth method", "error", err)
		c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
		return
	}
	c.JSON(http.StatusOK, authMethodResponse{DefaultAuthMethod: string(method)})
}

type updateAuthMethodRequest struct {
	Method               string `json:"method" binding:"required,oneof=email_matching magic_link"`
	UpdateExistingGuests bool   `json:"update_existing_guests"`
}

type updateAuthMethodResponse struct {
	DefaultAuthMethod  string `json:"default_auth_method"`
	UpdatedGuestsCount int64  `json:"updated_guests_count"`
}

// PUT /admin/settings/auth-method
func (h *SettingsHandler) UpdateDefaultAuthMethod(c *gin.Context) {
	var req updateAuthMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, "method must be email_matching or magic_link"))
		return
	}

	updated, err := h.settings.UpdateDefaultAuthMethod(
		c.Request.Context(), domain.AuthMethod(req.Method), req.UpdateExistingGuests)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAuthMethod) {
			c.JSON(http.StatusBadRequest, errBody(codeValidation, "method must be email_matching or magic_link"))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update default auth method", "error", err)
		c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
		return
	}

	c.JSON(http.StatusOK, updateAuthMethodResponse{
		DefaultAuthMethod:  req.Method,
		UpdatedGuestsCount: updated,
	})
}
