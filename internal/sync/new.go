package sync

import (
	"context"
	"time"

	"github-task-sync/config"
	"github-task-sync/internal/gh"
	"github-task-sync/internal/model"
	"github-task-sync/internal/task/repository"
	pkgLog "github-task-sync/pkg/log"
)

// Orchestrator runs the three category pipelines end to end, in a fixed
// order, isolating category failures from one another.
type Orchestrator struct {
	ghw  gh.Gateway
	repo repository.TaskRepository
	l    pkgLog.Logger
	exec *Executor

	categories    []Category
	appTag        string
	setDue        bool
	dueAt         time.Time
	maxConcurrent int
}

// New wires an Orchestrator from configuration. The due date for time-boxed
// categories is the end of the current local day, computed once per run and
// shared by every item that gets one.
func New(l pkgLog.Logger, gateway gh.Gateway, repo repository.TaskRepository, cfg *config.Config) *Orchestrator {
	maxConcurrent := cfg.Sync.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	o := &Orchestrator{
		ghw:           gateway,
		repo:          repo,
		l:             l,
		exec:          NewExecutor(repo, l, maxConcurrent, cfg.Sync.RequestTimeout),
		appTag:        cfg.OmniFocus.AppTag,
		setDue:        cfg.Sync.SetDueDates,
		dueAt:         endOfDay(time.Now().Local()),
		maxConcurrent: maxConcurrent,
	}

	o.categories = []Category{
		{
			Name:    "notifications",
			Project: cfg.OmniFocus.NotificationsProject,
			Tags:    []string{cfg.OmniFocus.AppTag, cfg.OmniFocus.NotificationTag},
			Due:     true,
			fetch:   o.fetchNotifications,
		},
		{
			Name:    "assigned",
			Project: cfg.OmniFocus.AssignedProject,
			Tags:    []string{cfg.OmniFocus.AppTag, cfg.OmniFocus.AssignedTag},
			fetch: func(ctx context.Context, _ []model.LocalTask) ([]model.RemoteItem, error) {
				return gateway.AssignedItems(ctx)
			},
		},
		{
			Name:    "review",
			Project: cfg.OmniFocus.ReviewProject,
			Tags:    []string{cfg.OmniFocus.AppTag, cfg.OmniFocus.ReviewTag},
			Due:     true,
			fetch: func(ctx context.Context, _ []model.LocalTask) ([]model.RemoteItem, error) {
				return gateway.ReviewItems(ctx)
			},
		},
	}
	return o
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
