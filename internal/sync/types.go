package sync

import (
	"context"

	"github-task-sync/internal/model"
)

// Category is one reconciled stream of GitHub items. The three instances
// (notifications, assigned, review) differ only in where their items come
// from and which project and tags scope them in the sink.
type Category struct {
	Name    string
	Project string
	// Tags scope both which existing tasks belong to this category and which
	// tags a new task gets. Always the app tag plus the category tag.
	Tags []string
	// Due marks the category as time-boxed: its new tasks get the run's
	// end-of-day due date when due dates are enabled.
	Due bool

	fetch func(ctx context.Context, local []model.LocalTask) ([]model.RemoteItem, error)
}

// Plan holds the mutations that bring the sink in line with GitHub for one
// category.
type Plan struct {
	ToCreate   []model.RemoteItem
	ToComplete []model.LocalTask
}

// Result counts the outcomes of applying a Plan. Failures are per item;
// siblings still proceed.
type Result struct {
	Created   int
	Completed int
	Failed    int
}
