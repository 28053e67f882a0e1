package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrInvalidTeamName = errors.New("team name cannot be empty")
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo    repository.TeamRepository
	profileRepo repository.ProfileRepository
	feed        realtime.Publisher
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, profileRepo repository.ProfileRepository, feed realtime.Publisher) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		profileRepo: profileRepo,
		feed:        feed,
	}
}

// ListTeams returns every team together with all profiles, from which the
// derived member lists are computed.
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, []models.Profile, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list teams: %w", err)
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return teams, profiles, nil
}

// GetTeamWithProfiles returns a team and all profiles.
func (s *TeamService) GetTeamWithProfiles(ctx context.Context, id uint64) (*models.Team, []models.Profile, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return team, profiles, nil
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}

	team := &models.Team{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	announce(ctx, s.feed, models.TableTeams, realtime.EventInsert, team.ID, nil)
	return team, nil
}

// UpdateTeamInput is a sparse team update.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

func (s *TeamService) UpdateTeam(ctx context.Context, id uint64, input UpdateTeamInput) (*models.Team, error) {
	if _, err := s.getTeam(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidTeamName
		}
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if len(fields) > 0 {
		if err := s.teamRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update team: %w", err)
		}
		announce(ctx, s.feed, models.TableTeams, realtime.EventUpdate, id, nil)
	}

	return s.getTeam(ctx, id)
}

// DeleteTeam removes a team. Its tasks and events become general and its
// members are left without a team.
func (s *TeamService) DeleteTeam(ctx context.Context, id uint64) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	announce(ctx, s.feed, models.TableTeams, realtime.EventDelete, id, nil)
	announce(ctx, s.feed, models.TableTasks, realtime.EventUpdate, 0, nil)
	announce(ctx, s.feed, models.TableCalendarEvents, realtime.EventUpdate, 0, nil)
	announce(ctx, s.feed, models.TableProfiles, realtime.EventUpdate, 0, nil)
	return nil
}

// resolveTeamRef works like ResolveTeam and also requires a concrete team to
// exist.
func resolveTeamRef(ctx context.Context, teams repository.TeamRepository, raw string) (*uint64, bool, error) {
	teamID, isGeneral, err := ResolveTeam(raw)
	if err != nil || teamID == nil {
		return teamID, isGeneral, err
	}
	if err := teamExists(ctx, teams, *teamID); err != nil {
		return nil, false, err
	}
	return teamID, false, nil
}

func teamExists(ctx context.Context, teams repository.TeamRepository, id uint64) error {
	if _, err := teams.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	return nil
}

func (s *TeamService) getTeam(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}
