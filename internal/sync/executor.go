package sync

import (
	"context"
	stdsync "sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github-task-sync/internal/task/repository"
	pkgLog "github-task-sync/pkg/log"
)

// Executor applies a Plan against the sink with bounded concurrent fan-out.
// Mutations are not transactional: a failed item is logged and counted while
// its siblings proceed, and the next run's Reconcile retries whatever is
// still missing.
type Executor struct {
	repo    repository.TaskRepository
	l       pkgLog.Logger
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewExecutor creates an Executor. maxConcurrent bounds in-flight sink calls;
// timeout applies per call (0 means none).
func NewExecutor(repo repository.TaskRepository, l pkgLog.Logger, maxConcurrent int, timeout time.Duration) *Executor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Executor{
		repo:    repo,
		l:       l,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		timeout: timeout,
	}
}

// Apply creates every item in plan.ToCreate and completes every task in
// plan.ToComplete, all concurrently, and waits for the whole batch before
// returning its Result.
func (e *Executor) Apply(ctx context.Context, cat Category, plan Plan) Result {
	var (
		mu  stdsync.Mutex
		wg  stdsync.WaitGroup
		res Result
	)

	for _, item := range plan.ToCreate {
		item := item
		if err := e.sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.sem.Release(1)

			cctx, cancel := e.callCtx(ctx)
			defer cancel()

			e.l.Infof(ctx, "[%s] adding task: %s", cat.Name, item.Prefix)
			_, err := e.repo.AddTask(cctx, repository.AddTaskOptions{
				Project: cat.Project,
				Title:   item.Title,
				Tags:    cat.Tags,
				Note:    item.Body,
				DueAt:   item.DueAt,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				e.l.Errorf(ctx, "[%s] adding %s failed: %v", cat.Name, item.Prefix, err)
				return
			}
			res.Created++
		}()
	}

	for _, task := range plan.ToComplete {
		task := task
		if err := e.sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.sem.Release(1)

			cctx, cancel := e.callCtx(ctx)
			defer cancel()

			e.l.Infof(ctx, "[%s] marking complete: %s", cat.Name, task.Title)
			done, err := e.repo.CompleteTask(cctx, task.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				e.l.Errorf(ctx, "[%s] completing %s failed: %v", cat.Name, task.ID, err)
				return
			}
			if !done {
				// Task vanished since the snapshot; nothing left to do.
				e.l.Warnf(ctx, "[%s] task %s no longer exists", cat.Name, task.ID)
			}
			res.Completed++
		}()
	}

	wg.Wait()
	return res
}

func (e *Executor) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}
