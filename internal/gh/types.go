package gh

import "fmt"

// Notification is a partially resolved unread notification. The listing API
// exposes only API-style URLs, so the browser URL (and with it the final
// RemoteItem) requires a second fetch that is deferred until the orchestrator
// knows the item has no existing task.
type Notification struct {
	// Prefix is the canonical "owner/repo#number" identity.
	Prefix string
	// Title is the subject title, trimmed.
	Title string

	Owner  string
	Repo   string
	Kind   string // "issues" or "pulls", as named by the subject URL
	Number int

	// SubjectURL is the API URL of the issue or PR the notification is about.
	SubjectURL string
	// LatestCommentURL is the API URL of the newest comment on the thread,
	// when the notification references one.
	LatestCommentURL string
	// CommentID is the trailing id of LatestCommentURL, or 0 when the
	// latest-comment URL is absent or points back at the issue itself.
	CommentID int64
}

func (n Notification) String() string {
	return fmt.Sprintf("Notification: [%s] %s", n.Prefix, n.Title)
}
