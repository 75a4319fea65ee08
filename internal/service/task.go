package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/store"
)

// TaskService manages a trip's task list. The whole list is persisted on
// every change.
type TaskService struct {
	core
}

// NewTaskService constructs a TaskService.
func NewTaskService(st *store.TripStore, backends backendSelector, logger *slog.Logger) *TaskService {
	return &TaskService{core: core{store: st, backends: backends, logger: logger}}
}

// AddTask appends a task. Status defaults to todo and priority to medium.
func (s *TaskService) AddTask(ctx context.Context, tripID string, in domain.Task) (domain.Task, error) {
	in.ID = uuid.NewString()
	if in.Status == "" {
		in.Status = domain.TaskTodo
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if in.Subtasks == nil {
		in.Subtasks = []domain.Subtask{}
	}
	if in.DueDate != nil {
		d := domain.Date(*in.DueDate)
		in.DueDate = &d
	}
	if err := in.Validate(); err != nil {
		return domain.Task{}, fmt.Errorf("service.TaskService.AddTask: %w", err)
	}
	err := s.mutate(ctx, tripID, func(tasks []domain.Task) ([]domain.Task, error) {
		return appendCopy(tasks, in), nil
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("service.TaskService.AddTask: %w", err)
	}
	return in, nil
}

// UpdateTask patches one task. Status may move from any value to any other.
func (s *TaskService) UpdateTask(ctx context.Context, tripID, taskID string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	err := s.mutate(ctx, tripID, func(tasks []domain.Task) ([]domain.Task, error) {
		i := indexByID(tasks, taskID, taskIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		updated = patch.Apply(tasks[i])
		if err := updated.Validate(); err != nil {
			return nil, err
		}
		return replaceAt(tasks, i, updated), nil
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("service.TaskService.UpdateTask: %w", err)
	}
	return updated, nil
}

// DeleteTask removes one task.
func (s *TaskService) DeleteTask(ctx context.Context, tripID, taskID string) error {
	err := s.mutate(ctx, tripID, func(tasks []domain.Task) ([]domain.Task, error) {
		i := indexByID(tasks, taskID, taskIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return removeAt(tasks, i), nil
	})
	if err != nil {
		return fmt.Errorf("service.TaskService.DeleteTask: %w", err)
	}
	return nil
}

// AddSubtask appends an open subtask to a task.
func (s *TaskService) AddSubtask(ctx context.Context, tripID, taskID, title string) (domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Task{}, fmt.Errorf("service.TaskService.AddSubtask: %w: title is required", domain.ErrValidation)
	}
	return s.editSubtasks(ctx, "AddSubtask", tripID, taskID, func(subs []domain.Subtask) ([]domain.Subtask, error) {
		return appendCopy(subs, domain.Subtask{Title: title}), nil
	})
}

// ToggleSubtask flips the completed flag of the subtask at index.
func (s *TaskService) ToggleSubtask(ctx context.Context, tripID, taskID string, index int) (domain.Task, error) {
	return s.editSubtasks(ctx, "ToggleSubtask", tripID, taskID, func(subs []domain.Subtask) ([]domain.Subtask, error) {
		if index < 0 || index >= len(subs) {
			return nil, domain.ErrNotFound
		}
		sub := subs[index]
		sub.Completed = !sub.Completed
		return replaceAt(subs, index, sub), nil
	})
}

func (s *TaskService) editSubtasks(ctx context.Context, op, tripID, taskID string, fn func([]domain.Subtask) ([]domain.Subtask, error)) (domain.Task, error) {
	var updated domain.Task
	err := s.mutate(ctx, tripID, func(tasks []domain.Task) ([]domain.Task, error) {
		i := indexByID(tasks, taskID, taskIDOf)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		subs, err := fn(tasks[i].Subtasks)
		if err != nil {
			return nil, err
		}
		updated = tasks[i]
		updated.Subtasks = subs
		return replaceAt(tasks, i, updated), nil
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("service.TaskService.%s: %w", op, err)
	}
	return updated, nil
}

// mutate swaps in a new task list and persists the whole column.
func (s *TaskService) mutate(ctx context.Context, tripID string, fn func([]domain.Task) ([]domain.Task, error)) error {
	b := s.backends.Current()
	trip, err := s.store.UpdateTrip(tripID, func(t domain.Trip) (domain.Trip, error) {
		tasks, err := fn(t.Tasks)
		if err != nil {
			return t, err
		}
		t.Tasks = tasks
		return t, nil
	})
	if err != nil {
		return err
	}
	s.persistLogged(ctx, b, "save_tasks", tripID, func(b persist.Backend) error {
		return b.SaveTasks(ctx, trip)
	})
	return nil
}

func taskIDOf(t domain.Task) string { return t.ID }
