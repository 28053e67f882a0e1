package dto

import (
	"time"

	"github.com/yukikurage/teamdesk-api/internal/models"
)

// TeamDTO represents a team with its derived member list
type TeamDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Members      []UserDTO `json:"members"`
	ProjectCount int       `json:"projectCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToTeamDTO derives the members of team from all profiles: everyone
// affiliated with the team plus every manager. ProjectCount is always zero.
func ToTeamDTO(team models.Team, profiles []models.Profile) TeamDTO {
	members := make([]UserDTO, 0)
	for _, p := range profiles {
		if p.IsManager() || (p.TeamID != nil && *p.TeamID == team.ID) {
			members = append(members, ToUserDTO(p))
		}
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Members:     members,
		CreatedAt:   team.CreatedAt,
	}
}

func ToTeamDTOs(teams []models.Team, profiles []models.Profile) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, t := range teams {
		out[i] = ToTeamDTO(t, profiles)
	}
	return out
}
