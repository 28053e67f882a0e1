// Package liveview holds the server-side views a connected client watches.
// Each view pairs a livestate controller with a change listener, so that the
// client sees its own edits immediately and everybody else's after the next
// reload.
package liveview

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/teamdesk-api/internal/dto"
	"github.com/yukikurage/teamdesk-api/internal/livestate"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"go.uber.org/zap"
)

// ErrTaskNotOnBoard is returned for intents naming a task the view does not hold.
var ErrTaskNotOnBoard = errors.New("task is not on this board")

// TaskStore is the part of the task service a board drives.
type TaskStore interface {
	ListTasks(ctx context.Context, viewer services.Viewer) ([]models.Task, error)
	CreateTask(ctx context.Context, input services.CreateTaskInput, creatorID uint64) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID uint64, status models.TaskStatus) (*models.Task, error)
	UpdatePriority(ctx context.Context, taskID uint64, priority models.TaskPriority) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID, actorID uint64, input services.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID uint64) error
}

// TaskBoard is the live task list of one viewer.
type TaskBoard struct {
	id       string
	viewer   services.Viewer
	store    TaskStore
	state    *livestate.Controller[dto.TaskDTO, uint64]
	listener *realtime.Listener
}

func taskKey(t dto.TaskDTO) uint64 { return t.ID }

// OpenTaskBoard loads the viewer's tasks and starts listening on the task
// tables. Any event on tasks, owners or messages reloads the whole list.
func OpenTaskBoard(ctx context.Context, id string, viewer services.Viewer, store TaskStore, feed realtime.Feed, logger *zap.Logger) (*TaskBoard, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.With(zap.String("view", id), zap.Uint64("user_id", viewer.UserID))

	b := &TaskBoard{
		id:       id,
		viewer:   viewer,
		store:    store,
		listener: realtime.NewListener(feed, logger),
	}
	b.state = livestate.New[dto.TaskDTO, uint64](b.load, taskKey, logger)

	if err := b.listener.Bind(b.reload,
		realtime.TableFilter(models.TableTasks),
		realtime.TableFilter(models.TableTaskOwners),
		realtime.TableFilter(models.TableTaskMessages),
	); err != nil {
		b.state.Close()
		return nil, err
	}

	if err := b.state.Reload(ctx); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *TaskBoard) load(ctx context.Context) ([]dto.TaskDTO, error) {
	tasks, err := b.store.ListTasks(ctx, b.viewer)
	if err != nil {
		return nil, err
	}
	return dto.ToTaskDTOs(tasks), nil
}

func (b *TaskBoard) reload(ctx context.Context) error {
	err := b.state.Reload(ctx)
	if errors.Is(err, livestate.ErrClosed) {
		return nil
	}
	return err
}

func (b *TaskBoard) ID() string      { return b.id }
func (b *TaskBoard) OwnerID() uint64 { return b.viewer.UserID }

func (b *TaskBoard) Snapshot() livestate.Snapshot[dto.TaskDTO] {
	return b.state.Snapshot()
}

func (b *TaskBoard) Watch() (<-chan livestate.Snapshot[dto.TaskDTO], func()) {
	return b.state.Watch()
}

// Reload refetches the board on request.
func (b *TaskBoard) Reload(ctx context.Context) error {
	return b.state.Reload(ctx)
}

func (b *TaskBoard) Close() {
	b.listener.Close()
	b.state.Close()
}

func (b *TaskBoard) find(taskID uint64) (dto.TaskDTO, error) {
	task, ok := b.state.Find(taskID)
	if !ok {
		return dto.TaskDTO{}, ErrTaskNotOnBoard
	}
	return task, nil
}

// MoveStatus shows the new status at once and writes it in the background of
// the call. A failed write reloads the board.
func (b *TaskBoard) MoveStatus(ctx context.Context, taskID uint64, status models.TaskStatus) error {
	task, err := b.find(taskID)
	if err != nil {
		return err
	}
	task.Status = status
	return b.state.ApplyLocalUpdate(ctx, task, func(ctx context.Context) error {
		_, err := b.store.UpdateStatus(ctx, taskID, status)
		return err
	})
}

func (b *TaskBoard) SetPriority(ctx context.Context, taskID uint64, priority models.TaskPriority) error {
	task, err := b.find(taskID)
	if err != nil {
		return err
	}
	task.Priority = priority
	return b.state.ApplyLocalUpdate(ctx, task, func(ctx context.Context) error {
		_, err := b.store.UpdatePriority(ctx, taskID, priority)
		return err
	})
}

// Edit applies the scalar fields of input locally before writing. Owner
// changes only show up after the write, on the reload it triggers.
func (b *TaskBoard) Edit(ctx context.Context, taskID uint64, input services.UpdateTaskInput) error {
	task, err := b.find(taskID)
	if err != nil {
		return err
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.TeamID != nil {
		teamID, isGeneral, err := services.ResolveTeam(*input.TeamID)
		if err != nil {
			return err
		}
		task.TeamID = dto.TeamIDString(teamID, isGeneral)
		task.IsGeneral = isGeneral
	}

	return b.state.ApplyLocalUpdate(ctx, task, func(ctx context.Context) error {
		_, err := b.store.UpdateTask(ctx, taskID, b.viewer.UserID, input)
		return err
	})
}

func (b *TaskBoard) Delete(ctx context.Context, taskID uint64) error {
	if _, err := b.find(taskID); err != nil {
		return err
	}
	return b.state.ApplyLocalDelete(ctx, taskID, func(ctx context.Context) error {
		return b.store.DeleteTask(ctx, taskID)
	})
}

// Create writes first and shows the task only once the store has assigned
// its id.
func (b *TaskBoard) Create(ctx context.Context, input services.CreateTaskInput) (dto.TaskDTO, error) {
	task, err := b.store.CreateTask(ctx, input, b.viewer.UserID)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	created := dto.ToTaskDTO(*task)
	if err := b.state.ApplyLocalCreate(created); err != nil {
		return dto.TaskDTO{}, fmt.Errorf("board closed: %w", err)
	}
	return created, nil
}
