package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrNameRequired           = errors.New("name is required")
	ErrDueDateRequired        = errors.New("due date is required")
	ErrInvalidTeamID          = errors.New("team id must be a team number or \"general\"")
	ErrMessageEmpty           = errors.New("message content is required")
	ErrMediaURLRequired       = errors.New("media url is required for audio and image messages")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService is the data access layer for tasks, their owners and messages
type TaskService struct {
	taskRepo    repository.TaskRepository
	profileRepo repository.ProfileRepository
	teamRepo    repository.TeamRepository
	notifier    *Notifier
	feed        realtime.Publisher
	aiService   *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, profileRepo repository.ProfileRepository, teamRepo repository.TeamRepository, notifier *Notifier, feed realtime.Publisher, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		notifier:    notifier,
		feed:        feed,
		aiService:   aiService,
	}
}

// CreateTaskInput represents input for creating a task.
// TeamID is a team number or "general"; empty means general.
type CreateTaskInput struct {
	Name        string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     time.Time
	Description string
	TeamID      string
	OwnerIDs    []uint64
}

// UpdateTaskInput represents a sparse task update; nil fields are left alone.
type UpdateTaskInput struct {
	Name        *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	Description *string
	TeamID      *string
	OwnerIDs    *[]uint64
}

// AddMessageInput represents a new message on a task.
// For audio and image messages the content stored is MediaURL.
type AddMessageInput struct {
	TaskID   uint64
	UserID   uint64
	Content  string
	Kind     models.MessageKind
	MediaURL string
}

// ResolveTeam maps a team id string to the (team_id, is_general) pair.
// Exactly one of the two is meaningful in the result.
func ResolveTeam(teamID string) (*uint64, bool, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" || teamID == constants.GeneralTeamID {
		return nil, true, nil
	}

	id, err := strconv.ParseUint(teamID, 10, 64)
	if err != nil || id == 0 {
		return nil, false, ErrInvalidTeamID
	}
	return &id, false, nil
}

// ListTasks returns every task the viewer can see, newest first, with owners
// and messages attached
func (s *TaskService) ListTasks(ctx context.Context, viewer Viewer) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		All:    viewer.IsManager(),
		UserID: viewer.UserID,
		TeamID: viewer.TeamID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CanView reports whether viewer may see the task.
func CanView(viewer Viewer, task *models.Task) bool {
	if viewer.IsManager() || task.IsGeneral {
		return true
	}
	if task.TeamID != nil && viewer.TeamID != nil && *task.TeamID == *viewer.TeamID {
		return true
	}
	for _, owner := range task.Owners {
		if owner.UserID == viewer.UserID {
			return true
		}
	}
	return false
}

// CreateTask inserts the task and its owners, then notifies every owner other
// than the creator. The returned task carries empty owner and message lists;
// callers already hold the owners they submitted.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, creatorID uint64) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.DueDate.IsZero() {
		return nil, ErrDueDateRequired
	}

	teamID, isGeneral, err := resolveTeamRef(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	ownerIDs := uniqueUint64(input.OwnerIDs)
	task := &models.Task{
		Name:        input.Name,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Description: input.Description,
		TeamID:      teamID,
		IsGeneral:   isGeneral,
		CreatorID:   creatorID,
	}

	if err := s.taskRepo.Create(ctx, task, ownerIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	announce(ctx, s.feed, models.TableTasks, realtime.EventInsert, task.ID, nil)
	if len(ownerIDs) > 0 {
		announce(ctx, s.feed, models.TableTaskOwners, realtime.EventInsert, task.ID, idColumn("task_id", task.ID))
	}

	actor := s.actorName(ctx, creatorID)
	s.notifier.FanOut(ctx, task.ID, creatorID, ownerIDs,
		Uniform(models.NotificationAssignment, fmt.Sprintf("%s assigned a task to you: %s", actor, task.Name)))

	task.Owners = []models.TaskOwner{}
	task.Messages = []models.TaskMessage{}
	return task, nil
}

// UpdateStatus sets the status column only. Values are not checked against
// the enumeration here.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	return s.updateColumns(ctx, taskID, map[string]interface{}{"status": status})
}

// UpdatePriority sets the priority column only.
func (s *TaskService) UpdatePriority(ctx context.Context, taskID uint64, priority models.TaskPriority) (*models.Task, error) {
	return s.updateColumns(ctx, taskID, map[string]interface{}{"priority": priority})
}

// UpdateTask applies a sparse update. Setting TeamID to "general" clears the
// team and sets the general flag; an existing team's number does the opposite. When
// OwnerIDs is given the owner list is replaced: added owners get an
// assignment notification and the remaining owners an update notification.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = *input.Name
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, ErrDueDateRequired
		}
		fields["due_date"] = *input.DueDate
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.TeamID != nil {
		teamID, isGeneral, err := resolveTeamRef(ctx, s.teamRepo, *input.TeamID)
		if err != nil {
			return nil, err
		}
		fields["team_id"] = teamID
		fields["is_general"] = isGeneral
	}

	if len(fields) == 0 && input.OwnerIDs == nil {
		return task, nil
	}

	if len(fields) > 0 {
		if err := s.taskRepo.Update(ctx, taskID, fields); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		announce(ctx, s.feed, models.TableTasks, realtime.EventUpdate, taskID, nil)
	}

	previous := make([]uint64, len(task.Owners))
	for i, owner := range task.Owners {
		previous[i] = owner.UserID
	}
	current := previous
	var added []uint64

	if input.OwnerIDs != nil {
		current = uniqueUint64(*input.OwnerIDs)
		if err := s.taskRepo.ReplaceOwners(ctx, taskID, current); err != nil {
			return nil, fmt.Errorf("failed to replace task owners: %w", err)
		}
		announce(ctx, s.feed, models.TableTaskOwners, realtime.EventUpdate, taskID, idColumn("task_id", taskID))
		added = difference(current, previous)
	}

	updated, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	actor := s.actorName(ctx, actorID)
	if len(added) > 0 {
		s.notifier.FanOut(ctx, taskID, actorID, added,
			Uniform(models.NotificationAssignment, fmt.Sprintf("%s assigned a task to you: %s", actor, updated.Name)))
	}
	if len(fields) > 0 {
		s.notifier.FanOut(ctx, taskID, actorID, difference(current, added),
			Uniform(models.NotificationUpdate, fmt.Sprintf("%s updated the task: %s", actor, updated.Name)))
	}

	return updated, nil
}

// DeleteTask removes the task unconditionally, with its owners, messages and
// notifications.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	announce(ctx, s.feed, models.TableTasks, realtime.EventDelete, taskID, nil)
	announce(ctx, s.feed, models.TableNotifications, realtime.EventDelete, 0, nil)
	return nil
}

// AddMessage inserts a message and notifies every owner except the author.
// Owners named as "@<name>" in a text message get a mention instead of a
// comment notification.
func (s *TaskService) AddMessage(ctx context.Context, input AddMessageInput) (*models.TaskMessage, error) {
	if input.Kind == "" {
		input.Kind = models.MessageKindText
	}

	content := input.Content
	if input.Kind == models.MessageKindText {
		if strings.TrimSpace(content) == "" {
			return nil, ErrMessageEmpty
		}
	} else {
		if strings.TrimSpace(input.MediaURL) == "" {
			return nil, ErrMediaURLRequired
		}
		content = input.MediaURL
	}

	task, err := s.GetTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	author, err := s.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find author: %w", err)
	}

	msg := &models.TaskMessage{
		TaskID:  task.ID,
		UserID:  author.ID,
		Kind:    input.Kind,
		Content: content,
	}
	if err := s.taskRepo.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	msg.User = *author

	announce(ctx, s.feed, models.TableTaskMessages, realtime.EventInsert, msg.ID, idColumn("task_id", task.ID))

	ownerIDs := make([]uint64, len(task.Owners))
	names := make(map[uint64]string, len(task.Owners))
	for i, owner := range task.Owners {
		ownerIDs[i] = owner.UserID
		names[owner.UserID] = owner.User.Name
	}

	s.notifier.FanOut(ctx, task.ID, author.ID, ownerIDs, func(recipientID uint64) Notice {
		switch {
		case msg.Kind != models.MessageKindText:
			return Notice{
				Type:    models.NotificationComment,
				Content: fmt.Sprintf("%s sent an attachment on: %s", author.Name, task.Name),
			}
		case Mentions(msg.Content, names[recipientID]):
			return Notice{
				Type:    models.NotificationMention,
				Content: fmt.Sprintf("%s mentioned you on: %s", author.Name, task.Name),
			}
		default:
			return Notice{
				Type:    models.NotificationComment,
				Content: fmt.Sprintf("%s commented on: %s", author.Name, task.Name),
			}
		}
	})

	return msg, nil
}

// Mentions reports whether text contains "@name", ignoring case.
func Mentions(text, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), "@"+strings.ToLower(name))
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text      string
	CreatorID uint64
}

// GenerateTasks uses AI to draft tasks from free text. Drafts are not saved.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Name) == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		switch aiTask.Priority {
		case models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow:
		default:
			aiTask.Priority = models.TaskPriorityMedium
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) updateColumns(ctx context.Context, taskID uint64, fields map[string]interface{}) (*models.Task, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	announce(ctx, s.feed, models.TableTasks, realtime.EventUpdate, taskID, nil)

	return s.GetTask(ctx, taskID)
}

// actorName is best effort; a missing profile only degrades notification text.
func (s *TaskService) actorName(ctx context.Context, userID uint64) string {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil || strings.TrimSpace(profile.Name) == "" {
		return "Someone"
	}
	return profile.Name
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// difference returns the values of a not present in b, in a's order
func difference(a, b []uint64) []uint64 {
	exclude := make(map[uint64]struct{}, len(b))
	for _, v := range b {
		exclude[v] = struct{}{}
	}

	result := make([]uint64, 0, len(a))
	for _, v := range a {
		if _, ok := exclude[v]; !ok {
			result = append(result, v)
		}
	}
	return result
}
