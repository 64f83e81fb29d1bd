package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/usecase"
)

type GuestHandler struct {
	guests *usecase.GuestUsecase
	logger *slog.Logger
}

func NewGuestHandler(guests *usecase.GuestUsecase, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{guests: guests, logger: logger.With("component", "guest_handler")}
}

type createGuestRequest struct {
	GroupID    string  `json:"group_id"    binding:"required,uuid"`
	FirstName  string  `json:"first_name"  binding:"required"`
	LastName   string  `json:"last_name"   binding:"required"`
	Email      *string `json:"email"       binding:"omitempty,email"`
	AuthMethod *string `json:"auth_method" binding:"omitempty,oneof=email_matching magic_link"`
}

type updateGuestRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"       binding:"omitempty,email"`
	AuthMethod *string `json:"auth_method" binding:"omitempty,oneof=email_matching magic_link"`
}

type guestResponse struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      *string   `json:"email,omitempty"`
	AuthMethod *string   `json:"auth_method,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *GuestHandler) Create(c *gin.Context) {
	var req createGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, err.Error()))
		return
	}

	guest, err := h.guests.Create(c.Request.Context(), usecase.CreateGuestInput{
		GroupID:    req.GroupID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		AuthMethod: req.AuthMethod,
	})
	if err != nil {
		h.respondGuestError(c, err, "create guest")
		return
	}

	c.JSON(http.StatusCreated, toGuestResponse(guest))
}

func (h *GuestHandler) Update(c *gin.Context) {
	var req updateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, err.Error()))
		return
	}

	guest, err := h.guests.Update(c.Request.Context(), c.Param("id"), usecase.UpdateGuestInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		AuthMethod: req.AuthMethod,
	})
	if err != nil {
		h.respondGuestError(c, err, "update guest")
		return
	}

	c.JSON(http.StatusOK, toGuestResponse(guest))
}

// Delete removes the guest; the database cascades away their tokens
// and sessions in the same statement.
func (h *GuestHandler) Delete(c *gin.Context) {
	if err := h.guests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondGuestError(c, err, "delete guest")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GuestHandler) GetByID(c *gin.Context) {
	guest, err := h.guests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondGuestError(c, err, "get guest")
		return
	}
	c.JSON(http.StatusOK, toGuestResponse(guest))
}

func (h *GuestHandler) respondGuestError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrGuestNotFound):
		c.JSON(http.StatusNotFound, errBody(codeNotFound, errGuestNotFound))
	case errors.Is(err, domain.ErrInvalidAuthMethod):
		c.JSON(http.StatusBadRequest, errBody(codeValidation, "auth_method must be email_matching or magic_link"))
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, errBody(codeValidation, "A guest with this email already exists"))
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
	}
}

func toGuestResponse(g *domain.Guest) guestResponse {
	resp := guestResponse{
		ID:        g.ID,
		GroupID:   g.GroupID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if g.AuthMethod != nil {
		method := string(*g.AuthMethod)
		resp.AuthMethod = &method
	}
	return resp
}
