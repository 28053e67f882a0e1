package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

type TeamHandler struct {
	teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teams: teams,
	}
}

// ListTeams returns every team with its derived member list
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, profiles, err := h.teams.ListTeams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": dto.ToTeamDTOs(teams, profiles),
	})
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	team, profiles, err := h.teams.GetTeamWithProfiles(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team, profiles))
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	team, err := h.teams.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team, nil))
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	if _, err := h.teams.UpdateTeam(c.Request.Context(), id, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		respondError(c, err)
		return
	}

	team, profiles, err := h.teams.GetTeamWithProfiles(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team, profiles))
}

// DeleteTeam removes a team; its tasks and events become general
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.DeleteTeam(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
