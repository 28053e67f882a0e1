package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

// MemberHandler administers profiles. Every route is manager-only except
// ListMembers, which feeds the owner pickers.
type MemberHandler struct {
	profiles *services.ProfileService
}

func NewMemberHandler(profiles *services.ProfileService) *MemberHandler {
	return &MemberHandler{
		profiles: profiles,
	}
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	profiles, err := h.profiles.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToUserDTOs(profiles),
	})
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req struct {
		Name      string      `json:"name" binding:"required,max=255"`
		Email     string      `json:"email" binding:"required,email"`
		Password  string      `json:"password" binding:"required"`
		AvatarURL string      `json:"avatarUrl"`
		Role      models.Role `json:"role"`
		TeamID    string      `json:"teamId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	teamID, _, err := services.ResolveTeam(req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.profiles.CreateMember(c.Request.Context(), services.CreateMemberInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
		TeamID:    teamID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*profile))
}

// UpdateMember changes name, avatar, role or team. A teamId of "" or
// "general" removes the member from their team.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name      *string      `json:"name" binding:"omitempty,max=255"`
		AvatarURL *string      `json:"avatarUrl"`
		Role      *models.Role `json:"role"`
		TeamID    *string      `json:"teamId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	input := services.UpdateMemberInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	}
	if req.TeamID != nil {
		teamID, isGeneral, err := services.ResolveTeam(*req.TeamID)
		if err != nil {
			respondError(c, err)
			return
		}
		input.TeamID = teamID
		input.ClearTeam = isGeneral
	}

	profile, err := h.profiles.UpdateMember(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*profile))
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.profiles.DeleteMember(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
