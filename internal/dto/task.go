package dto

import (
	"time"

	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/utils"
)

// UserDTO represents a profile in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	AvatarURL string      `json:"avatarUrl"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	TeamID    *uint64     `json:"teamId"`
}

// MessageDTO represents a task message in API responses
type MessageDTO struct {
	ID         uint64             `json:"id"`
	TaskID     uint64             `json:"taskId"`
	UserID     uint64             `json:"userId"`
	UserName   string             `json:"userName,omitempty"`
	UserAvatar string             `json:"userAvatar,omitempty"`
	Kind       models.MessageKind `json:"kind"`
	Content    string             `json:"content"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// TaskDTO represents a task in API responses. TeamID is the team number as a
// string or "general".
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     time.Time           `json:"dueDate"`
	Description string              `json:"description"`
	TeamID      string              `json:"teamId"`
	IsGeneral   bool                `json:"isGeneral"`
	CreatorID   uint64              `json:"creatorId"`
	Owners      []UserDTO           `json:"owners"`
	Messages    []MessageDTO        `json:"messages"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ToUserDTO converts a Profile model to UserDTO
func ToUserDTO(p models.Profile) UserDTO {
	return UserDTO{
		ID:        p.ID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Email:     p.Email,
		Role:      p.Role,
		TeamID:    p.TeamID,
	}
}

// ToUserDTOs converts a slice of profiles
func ToUserDTOs(profiles []models.Profile) []UserDTO {
	out := make([]UserDTO, len(profiles))
	for i, p := range profiles {
		out[i] = ToUserDTO(p)
	}
	return out
}

// ToMessageDTO converts a TaskMessage model to MessageDTO
func ToMessageDTO(m models.TaskMessage) MessageDTO {
	dto := MessageDTO{
		ID:        m.ID,
		TaskID:    m.TaskID,
		UserID:    m.UserID,
		Kind:      m.Kind,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}

	// Include author if preloaded
	if m.User.ID != 0 {
		dto.UserName = m.User.Name
		dto.UserAvatar = m.User.AvatarURL
	}

	return dto
}

// TeamIDString renders a task or event scope as "general" or the team number.
func TeamIDString(teamID *uint64, isGeneral bool) string {
	if isGeneral || teamID == nil {
		return constants.GeneralTeamID
	}
	return utils.FormatID(*teamID)
}

// ToTaskDTO converts a Task model to TaskDTO. Owners and messages are never
// nil in the result.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Description: task.Description,
		TeamID:      TeamIDString(task.TeamID, task.IsGeneral),
		IsGeneral:   task.IsGeneral,
		CreatorID:   task.CreatorID,
		Owners:      make([]UserDTO, 0, len(task.Owners)),
		Messages:    make([]MessageDTO, 0, len(task.Messages)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	for _, owner := range task.Owners {
		user := ToUserDTO(owner.User)
		if user.ID == 0 {
			user.ID = owner.UserID
		}
		dto.Owners = append(dto.Owners, user)
	}
	for _, msg := range task.Messages {
		dto.Messages = append(dto.Messages, ToMessageDTO(msg))
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
