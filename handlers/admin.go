package handlers

import (
	"net/http"

	"clinicore/middleware"
	"clinicore/services/admin"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes back-office authentication.
type AdminHandler struct {
	svc admin.Service
}

// NewAdminHandler returns the admin handler.
func NewAdminHandler(svc admin.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout revokes the current session.
func (h *AdminHandler) Logout(c *gin.Context) {
	current := middleware.CurrentAdmin(c)
	if current == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", "")
		return
	}
	if err := h.svc.Logout(c.Request.Context(), current.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated admin's profile.
func (h *AdminHandler) Me(c *gin.Context) {
	current := middleware.CurrentAdmin(c)
	if current == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", "")
		return
	}
	c.JSON(http.StatusOK, current)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword swaps the admin's password and revokes the session.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	current := middleware.CurrentAdmin(c)
	if current == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", "")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), current.ID, req.CurrentPassword, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed, please log in again"})
}
