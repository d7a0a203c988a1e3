package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github-task-sync/internal/gh"
	"github-task-sync/internal/model"
)

// Run executes one full sync pass. A failure inside one category is logged
// and does not stop the remaining categories; Run reports a non-nil error
// when any category failed so callers can exit non-zero.
func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()[:8]
	o.l.Infof(ctx, "sync run %s starting", runID)

	o.ensureTags(ctx)

	failed := 0
	for _, cat := range o.categories {
		if err := o.runCategory(ctx, cat); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			o.l.Errorf(ctx, "[%s] category failed: %v", cat.Name, err)
		}
	}

	o.l.Infof(ctx, "sync run %s finished", runID)
	if failed > 0 {
		return fmt.Errorf("%d of %d categories failed", failed, len(o.categories))
	}
	return nil
}

// ensureTags pre-creates the tags every category stamps onto its tasks.
// Task creation also creates missing tags, so failures here only warn.
func (o *Orchestrator) ensureTags(ctx context.Context) {
	tags := []string{o.appTag}
	for _, cat := range o.categories {
		tags = append(tags, cat.Tags[1:]...)
	}
	for _, tag := range tags {
		if err := o.repo.EnsureTag(ctx, tag); err != nil {
			o.l.Warnf(ctx, "ensuring tag %q failed: %v", tag, err)
		}
	}
}

func (o *Orchestrator) runCategory(ctx context.Context, cat Category) error {
	o.l.Infof(ctx, "[%s] starting", cat.Name)

	local, err := o.repo.TasksForProjectWithTags(ctx, cat.Project, cat.Tags)
	if err != nil {
		return fmt.Errorf("reading %q tasks: %w", cat.Project, err)
	}

	remote, err := cat.fetch(ctx, local)
	if err != nil {
		return fmt.Errorf("fetching remote items: %w", err)
	}

	if cat.Due && o.setDue {
		for i := range remote {
			remote[i].DueAt = &o.dueAt
		}
	}

	plan := Reconcile(remote, local)
	o.l.Infof(ctx, "[%s] %d remote, %d local: %d to create, %d to complete",
		cat.Name, len(remote), len(local), len(plan.ToCreate), len(plan.ToComplete))

	res := o.exec.Apply(ctx, cat, plan)
	o.l.Infof(ctx, "[%s] done: %d created, %d completed, %d failed",
		cat.Name, res.Created, res.Completed, res.Failed)
	return nil
}

// fetchNotifications lists unread notifications and resolves browser URLs
// only for those without an existing task: a matched notification keeps its
// task alive on prefix alone, so the extra fetch would be wasted.
func (o *Orchestrator) fetchNotifications(ctx context.Context, local []model.LocalTask) ([]model.RemoteItem, error) {
	partials, err := o.ghw.Notifications(ctx)
	if err != nil {
		return nil, err
	}

	var (
		items     []model.RemoteItem
		unmatched []gh.Notification
	)
	for _, n := range partials {
		if anyTaskMatches(local, n.Prefix) {
			items = append(items, model.RemoteItem{
				Prefix: n.Prefix,
				Title:  n.Prefix + " " + n.Title,
			})
			continue
		}
		unmatched = append(unmatched, n)
	}

	resolved := make([]model.RemoteItem, len(unmatched))
	ok := make([]bool, len(unmatched))
	sem := semaphore.NewWeighted(int64(o.maxConcurrent))
	var wg stdsync.WaitGroup
	for i, n := range unmatched {
		i, n := i, n
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			item, err := o.ghw.ResolveNotification(ctx, n)
			if err != nil {
				// Dropped this run; the notification stays unread and
				// resurfaces on the next pass.
				o.l.Warnf(ctx, "[notifications] resolving %s failed: %v", n.Prefix, err)
				return
			}
			resolved[i] = item
			ok[i] = true
		}()
	}
	wg.Wait()

	for i := range resolved {
		if ok[i] {
			items = append(items, resolved[i])
		}
	}
	return items, nil
}
