package omnifocus

import (
	"context"
	"encoding/json"
	"fmt"

	"github-task-sync/internal/model"
	"github-task-sync/internal/task/repository"
	pkgLog "github-task-sync/pkg/log"
)

type implRepository struct {
	bridge *Bridge
	l      pkgLog.Logger
}

// New creates a TaskRepository backed by OmniFocus.
func New(bridge *Bridge, l pkgLog.Logger) repository.TaskRepository {
	return &implRepository{
		bridge: bridge,
		l:      l,
	}
}

// ---- JXA argument/reply types; field names match the scripts ----

type ofTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskQuery struct {
	ProjectName string   `json:"projectName"`
	Tags        []string `json:"tags"`
}

type newTask struct {
	ProjectName string   `json:"projectName"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Note        string   `json:"note"`
	// DueDateMS is the due date as epoch milliseconds; 0 means none.
	DueDateMS int64 `json:"dueDateMS"`
}

type tagArg struct {
	Name string `json:"name"`
}

type taskRef struct {
	ID string `json:"id"`
}

func (r *implRepository) EnsureTag(ctx context.Context, name string) error {
	if _, err := r.bridge.run(ctx, "ensuretag.js", tagArg{Name: name}); err != nil {
		return fmt.Errorf("ensuring tag %q: %w", name, err)
	}
	return nil
}

func (r *implRepository) AddTask(ctx context.Context, opt repository.AddTaskOptions) (model.LocalTask, error) {
	arg := newTask{
		ProjectName: opt.Project,
		Name:        opt.Title,
		Tags:        opt.Tags,
		Note:        opt.Note,
	}
	if opt.DueAt != nil {
		arg.DueDateMS = opt.DueAt.UnixMilli()
	}

	out, err := r.bridge.run(ctx, "addtask.js", arg)
	if err != nil {
		return model.LocalTask{}, fmt.Errorf("adding task %q: %w", opt.Title, err)
	}

	var created ofTask
	if err := json.Unmarshal(out, &created); err != nil {
		return model.LocalTask{}, fmt.Errorf("decoding add-task reply: %w", err)
	}
	return model.LocalTask{ID: created.ID, Title: created.Name}, nil
}

func (r *implRepository) TasksForProjectWithTags(ctx context.Context, project string, tags []string) ([]model.LocalTask, error) {
	out, err := r.bridge.run(ctx, "taskquery.js", taskQuery{ProjectName: project, Tags: tags})
	if err != nil {
		return nil, fmt.Errorf("listing tasks in %q: %w", project, err)
	}

	var found []ofTask
	if err := json.Unmarshal(out, &found); err != nil {
		return nil, fmt.Errorf("decoding task-query reply: %w", err)
	}

	tasks := make([]model.LocalTask, 0, len(found))
	for _, t := range found {
		tasks = append(tasks, model.LocalTask{ID: t.ID, Title: t.Name})
	}
	return tasks, nil
}

func (r *implRepository) CompleteTask(ctx context.Context, id string) (bool, error) {
	out, err := r.bridge.run(ctx, "completetask.js", taskRef{ID: id})
	if err != nil {
		return false, fmt.Errorf("completing task %s: %w", id, err)
	}

	var done bool
	if err := json.Unmarshal(out, &done); err != nil {
		return false, fmt.Errorf("decoding complete-task reply: %w", err)
	}
	return done, nil
}
