package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("role must be gestor or membro")
	ErrCannotDeleteYourself = errors.New("cannot delete your own profile")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// ProfileService handles authentication and member administration.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	teamRepo    repository.TeamRepository
	feed        realtime.Publisher
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, teamRepo repository.TeamRepository, feed realtime.Publisher) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		feed:        feed,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates a profile. The first profile ever created becomes a manager.
func (s *ProfileService) Signup(ctx context.Context, input SignupInput) (*models.Profile, error) {
	return s.create(ctx, CreateMemberInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     models.RoleMember,
	}, true)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated profile.
func (s *ProfileService) Login(ctx context.Context, input LoginInput) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

// GetUser retrieves a profile by ID.
func (s *ProfileService) GetUser(ctx context.Context, id uint64) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return profile, nil
}

// ListMembers returns every profile.
func (s *ProfileService) ListMembers(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return profiles, nil
}

// CreateMemberInput represents a profile created by a manager.
type CreateMemberInput struct {
	Name      string
	Email     string
	Password  string
	AvatarURL string
	Role      models.Role
	TeamID    *uint64
}

// CreateMember creates a profile on behalf of a manager. A duplicate email is
// reported as ErrEmailTaken.
func (s *ProfileService) CreateMember(ctx context.Context, input CreateMemberInput) (*models.Profile, error) {
	if input.Role == "" {
		input.Role = models.RoleMember
	}
	return s.create(ctx, input, false)
}

// UpdateMemberInput is a sparse profile update. Email cannot be changed.
type UpdateMemberInput struct {
	Name      *string
	AvatarURL *string
	Role      *models.Role
	TeamID    *uint64
	ClearTeam bool
}

// UpdateMember updates the mutable profile fields.
func (s *ProfileService) UpdateMember(ctx context.Context, id uint64, input UpdateMemberInput) (*models.Profile, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.AvatarURL != nil {
		fields["avatar_url"] = *input.AvatarURL
	}
	if input.Role != nil {
		if !validRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		fields["role"] = *input.Role
	}
	if input.ClearTeam {
		fields["team_id"] = nil
	} else if input.TeamID != nil {
		if err := teamExists(ctx, s.teamRepo, *input.TeamID); err != nil {
			return nil, err
		}
		fields["team_id"] = *input.TeamID
	}

	if len(fields) > 0 {
		if err := s.profileRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update member: %w", err)
		}
		announce(ctx, s.feed, models.TableProfiles, realtime.EventUpdate, id, nil)
	}

	return s.GetUser(ctx, id)
}

// DeleteMember removes a profile. Managers cannot delete themselves.
func (s *ProfileService) DeleteMember(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return ErrCannotDeleteYourself
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}

	announce(ctx, s.feed, models.TableProfiles, realtime.EventDelete, id, nil)
	announce(ctx, s.feed, models.TableTaskOwners, realtime.EventDelete, 0, nil)
	return nil
}

// create validates and inserts a profile. With bootstrap set, the profile
// becomes a manager when it is the very first one.
func (s *ProfileService) create(ctx context.Context, input CreateMemberInput, bootstrap bool) (*models.Profile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !validRole(input.Role) {
		return nil, ErrInvalidRole
	}
	if input.TeamID != nil {
		if err := teamExists(ctx, s.teamRepo, *input.TeamID); err != nil {
			return nil, err
		}
	}

	if _, err := s.profileRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	profile := &models.Profile{
		Name:         name,
		Email:        email,
		AvatarURL:    input.AvatarURL,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		TeamID:       input.TeamID,
	}

	insert := s.profileRepo.Create
	if bootstrap {
		insert = func(ctx context.Context, p *models.Profile) error {
			return s.profileRepo.CreateBootstrap(ctx, p, models.RoleManager)
		}
	}
	if err := insert(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	announce(ctx, s.feed, models.TableProfiles, realtime.EventInsert, profile.ID, nil)
	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validRole(role models.Role) bool {
	return role == models.RoleManager || role == models.RoleMember
}
