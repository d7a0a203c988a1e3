package repository

import (
	"context"

	"github-task-sync/internal/model"
)

// TaskRepository is the interface for the local task sink.
type TaskRepository interface {
	// EnsureTag creates a tag if it does not exist. Idempotent.
	EnsureTag(ctx context.Context, name string) error

	// AddTask creates a task at the top of its project's task list.
	AddTask(ctx context.Context, opt AddTaskOptions) (model.LocalTask, error)

	// TasksForProjectWithTags returns the incomplete tasks of a project that
	// carry every one of the given tags.
	TasksForProjectWithTags(ctx context.Context, project string, tags []string) ([]model.LocalTask, error)

	// CompleteTask marks a task complete by id. Returns false without error
	// when the id is unknown.
	CompleteTask(ctx context.Context, id string) (bool, error)
}
