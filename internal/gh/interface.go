package gh

import (
	"context"

	"github-task-sync/internal/model"
)

// Gateway is the read-only view of GitHub the sync needs: the three category
// listings plus the follow-up fetch that completes a notification.
type Gateway interface {
	// AssignedItems lists open issues assigned to the authenticated user.
	AssignedItems(ctx context.Context) ([]model.RemoteItem, error)

	// ReviewItems lists open PRs where the authenticated user is a requested
	// reviewer.
	ReviewItems(ctx context.Context) ([]model.RemoteItem, error)

	// Notifications lists unread notifications as partial records. A
	// Notification carries enough to establish identity but not the browser
	// URL; ResolveNotification completes it.
	Notifications(ctx context.Context) ([]Notification, error)

	// ResolveNotification performs the join step for one notification,
	// fetching its comment (or issue/PR) to obtain the browser URL.
	ResolveNotification(ctx context.Context, n Notification) (model.RemoteItem, error)
}
