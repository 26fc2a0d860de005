package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-authgate/ispconfig-auth/internal/services"

	"github.com/gin-gonic/gin"
)

// loginFailedMessage is the only failure message of a password check
const loginFailedMessage = "login failed"

// CheckPasswordRequest is the body of a password check
type CheckPasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CheckPasswordResponse is the result of a password check
type CheckPasswordResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

type setPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type setDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

// BackendHandler exposes the user backend over HTTP.
type BackendHandler struct {
	backend *services.UserBackend
}

func NewBackendHandler(b *services.UserBackend) *BackendHandler {
	return &BackendHandler{backend: b}
}

// CheckPassword verifies a login against the mail panel.
// Every failure yields the same response.
func (h *BackendHandler) CheckPassword(c *gin.Context) {
	var req CheckPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CheckPasswordResponse{
			Success: false,
			Message: "username and password are required",
		})
		return
	}

	user, err := h.backend.CheckPassword(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrLocalPersistence) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, CheckPasswordResponse{
			Success: false,
			Message: loginFailedMessage,
		})
		return
	}

	c.JSON(http.StatusOK, CheckPasswordResponse{
		Success:  true,
		UserID:   user.LocalID,
		Email:    user.Email(),
		FullName: user.DisplayNameOrID(),
	})
}

// SetPassword changes the mail password of a local account
func (h *BackendHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "password is required",
		})
		return
	}

	if err := h.backend.SetPassword(c.Request.Context(), c.Param("uid"), req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UserExists reports whether a local account exists
func (h *BackendHandler) UserExists(c *gin.Context) {
	uid := c.Param("uid")
	exists, err := h.backend.UserExists(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if !exists {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"user_id": uid, "exists": exists})
}

// GetDisplayName returns the display name of a local account
func (h *BackendHandler) GetDisplayName(c *gin.Context) {
	uid := c.Param("uid")
	name, err := h.backend.GetDisplayName(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "display_name": name})
}

// SetDisplayName overwrites the display name of a local account
func (h *BackendHandler) SetDisplayName(c *gin.Context) {
	var req setDisplayNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "display_name is required",
		})
		return
	}

	uid := c.Param("uid")
	updated, err := h.backend.SetDisplayName(c.Request.Context(), uid, req.DisplayName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !updated {
		h.respondError(c, services.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetUsers lists local ids starting with the search term
func (h *BackendHandler) GetUsers(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	uids, err := h.backend.GetUsers(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": uids})
}

// GetDisplayNames maps local ids to display names matching the search term
func (h *BackendHandler) GetDisplayNames(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}

	names, err := h.backend.GetDisplayNames(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"display_names": names})
}

// Capabilities reports the optional operations this backend supports
func (h *BackendHandler) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_listings":    h.backend.HasUserListings(),
		"set_password":     true,
		"set_display_name": true,
		"delete_user":      true,
	})
}

// DeleteUser removes a local account
func (h *BackendHandler) DeleteUser(c *gin.Context) {
	deleted, err := h.backend.DeleteUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !deleted {
		h.respondError(c, services.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// pagination reads the limit and offset query parameters. Missing values are 0.
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	parse := func(name string) (int, bool) {
		raw := c.Query(name)
		if raw == "" {
			return 0, true
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": name + " must be a non-negative integer",
			})
			return 0, false
		}
		return n, true
	}

	if limit, ok = parse("limit"); !ok {
		return 0, 0, false
	}
	if offset, ok = parse("offset"); !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func (h *BackendHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "user not found",
		})
	case errors.Is(err, services.ErrPasswordChangeFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":             "password_change_failed",
			"error_description": "the mail panel did not accept the new password",
		})
	default:
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "internal error",
		})
	}
}
