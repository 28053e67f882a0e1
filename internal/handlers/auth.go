package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler serves signup, the cookie session and the current profile.
type AuthHandler struct {
	profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{profiles: profiles}
}

// Signup creates a profile without logging it in. The very first profile
// becomes a gestor.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	user, err := h.profiles.Signup(c.Request.Context(), services.SignupInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	user, err := h.profiles.Login(c.Request.Context(), services.LoginInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	if !writeSession(c, func(s sessions.Session) { s.Set(constants.ContextKeyUserID, user.ID) }) {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if !writeSession(c, func(s sessions.Session) { s.Clear() }) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": apierrors.T(c, "loggedOut")})
}

// Me returns the profile behind the session.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.profiles.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// writeSession edits and saves the cookie session, answering 500 when the
// store rejects it.
func writeSession(c *gin.Context, edit func(sessions.Session)) bool {
	session := sessions.Default(c)
	edit(session)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c, "sessionSaveFailed")
		return false
	}
	return true
}
