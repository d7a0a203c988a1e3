package sync_test

import (
	"context"
	"errors"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"github-task-sync/config"
	"github-task-sync/internal/gh"
	"github-task-sync/internal/model"
	gsync "github-task-sync/internal/sync"
)

type fakeGateway struct {
	mu stdsync.Mutex

	assigned      []model.RemoteItem
	review        []model.RemoteItem
	notifications []gh.Notification

	assignedErr error
	resolveErr  map[string]error
	resolved    []string
}

func (f *fakeGateway) AssignedItems(ctx context.Context) ([]model.RemoteItem, error) {
	return f.assigned, f.assignedErr
}

func (f *fakeGateway) ReviewItems(ctx context.Context) ([]model.RemoteItem, error) {
	return f.review, nil
}

func (f *fakeGateway) Notifications(ctx context.Context) ([]gh.Notification, error) {
	return f.notifications, nil
}

func (f *fakeGateway) ResolveNotification(ctx context.Context, n gh.Notification) (model.RemoteItem, error) {
	f.mu.Lock()
	f.resolved = append(f.resolved, n.Prefix)
	f.mu.Unlock()
	if err := f.resolveErr[n.Prefix]; err != nil {
		return model.RemoteItem{}, err
	}
	return model.RemoteItem{
		Prefix: n.Prefix,
		Title:  n.Prefix + " " + n.Title,
		Body:   "https://github.example.com/" + n.Owner + "/" + n.Repo,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OmniFocus: config.OmniFocusConfig{
			AppTag:               "github",
			AssignedProject:      "GitHub Assigned",
			AssignedTag:          "assigned",
			ReviewProject:        "GitHub Reviews",
			ReviewTag:            "review",
			NotificationsProject: "GitHub Notifications",
			NotificationTag:      "notification",
		},
		Sync: config.SyncConfig{
			SetDueDates:    true,
			MaxConcurrent:  4,
			RequestTimeout: time.Second,
		},
	}
}

func TestRunCreatesAcrossCategories(t *testing.T) {
	gateway := &fakeGateway{
		assigned: []model.RemoteItem{remoteItem("a/b#1", "Assigned issue")},
		review:   []model.RemoteItem{remoteItem("a/b#2", "Review PR")},
		notifications: []gh.Notification{
			{Prefix: "a/b#3", Title: "Notified issue", Owner: "a", Repo: "b", Number: 3},
		},
	}
	repo := newFakeRepository()

	o := gsync.New(&mockLogger{}, gateway, repo, testConfig())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(repo.added) != 3 {
		t.Fatalf("added = %d tasks, want 3", len(repo.added))
	}
	byProject := map[string]int{}
	for _, opt := range repo.added {
		byProject[opt.Project]++
		switch opt.Project {
		case "GitHub Assigned":
			if opt.DueAt != nil {
				t.Errorf("assigned task got due date %v", opt.DueAt)
			}
		case "GitHub Reviews", "GitHub Notifications":
			if opt.DueAt == nil {
				t.Errorf("%s task missing due date", opt.Project)
			} else if h, m, s := opt.DueAt.Clock(); h != 23 || m != 59 || s != 59 {
				t.Errorf("due date = %v, want end of day", opt.DueAt)
			}
		default:
			t.Errorf("task created in unexpected project %q", opt.Project)
		}
	}
	for project, n := range byProject {
		if n != 1 {
			t.Errorf("project %q got %d tasks, want 1", project, n)
		}
	}
}

func TestRunCategoryFailureIsolated(t *testing.T) {
	gateway := &fakeGateway{
		assignedErr: errors.New("github: 502"),
		review:      []model.RemoteItem{remoteItem("a/b#2", "Review PR")},
	}
	repo := newFakeRepository()

	o := gsync.New(&mockLogger{}, gateway, repo, testConfig())
	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite a failed category")
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("err = %v, want one failed category reported", err)
	}

	if len(repo.added) != 1 || repo.added[0].Project != "GitHub Reviews" {
		t.Fatalf("added = %+v, want the review item despite the assigned failure", repo.added)
	}
}

// Notifications with an existing task are kept alive on prefix alone and
// never trigger the second resolution fetch.
func TestRunResolvesOnlyUnmatchedNotifications(t *testing.T) {
	gateway := &fakeGateway{
		notifications: []gh.Notification{
			{Prefix: "a/b#3", Title: "Already tracked", Owner: "a", Repo: "b", Number: 3},
			{Prefix: "a/b#4", Title: "Brand new", Owner: "a", Repo: "b", Number: 4},
		},
	}
	repo := newFakeRepository()
	repo.tasks["GitHub Notifications"] = []model.LocalTask{
		localTask("t3", "a/b#3 Already tracked"),
	}

	o := gsync.New(&mockLogger{}, gateway, repo, testConfig())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(gateway.resolved) != 1 || gateway.resolved[0] != "a/b#4" {
		t.Fatalf("resolved = %v, want only the unmatched a/b#4", gateway.resolved)
	}
	if len(repo.added) != 1 || !strings.HasPrefix(repo.added[0].Title, "a/b#4 ") {
		t.Fatalf("added = %+v, want only a/b#4", repo.added)
	}
	if len(repo.completed) != 0 {
		t.Fatalf("completed = %v, want none", repo.completed)
	}
}

// A notification that fails to resolve is dropped for this run instead of
// failing the category; it stays unread upstream and returns next run.
func TestRunResolutionFailureDropsItem(t *testing.T) {
	gateway := &fakeGateway{
		notifications: []gh.Notification{
			{Prefix: "a/b#3", Title: "Resolvable", Owner: "a", Repo: "b", Number: 3},
			{Prefix: "a/b#4", Title: "Unresolvable", Owner: "a", Repo: "b", Number: 4},
		},
		resolveErr: map[string]error{"a/b#4": errors.New("github: 502")},
	}
	repo := newFakeRepository()

	o := gsync.New(&mockLogger{}, gateway, repo, testConfig())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(repo.added) != 1 || !strings.HasPrefix(repo.added[0].Title, "a/b#3 ") {
		t.Fatalf("added = %+v, want only the resolvable item", repo.added)
	}
}

func TestRunDueDatesDisabled(t *testing.T) {
	gateway := &fakeGateway{
		review: []model.RemoteItem{remoteItem("a/b#2", "Review PR")},
		notifications: []gh.Notification{
			{Prefix: "a/b#3", Title: "Notified", Owner: "a", Repo: "b", Number: 3},
		},
	}
	repo := newFakeRepository()
	cfg := testConfig()
	cfg.Sync.SetDueDates = false

	o := gsync.New(&mockLogger{}, gateway, repo, cfg)
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, opt := range repo.added {
		if opt.DueAt != nil {
			t.Errorf("task %q got due date with due dates disabled", opt.Title)
		}
	}
}
