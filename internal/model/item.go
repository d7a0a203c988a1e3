package model

import (
	"fmt"
	"time"
)

// RemoteItem is the unified representation of a GitHub work item (assigned
// issue, review-requested PR or unread notification) that is eligible to
// become a task in the sink.
type RemoteItem struct {
	// Prefix is the canonical identity of the item, "owner/repo#number".
	Prefix string
	// Title is the task title, always Prefix + " " + the item's own title.
	Title string
	// Body is a browser-navigable URL used as the task note.
	Body string
	// DueAt is set only for time-boxed categories when due dates are enabled.
	DueAt *time.Time
}

func (r RemoteItem) String() string {
	return fmt.Sprintf("RemoteItem: [%s] %s (%s)", r.Prefix, r.Title, r.Body)
}

// LocalTask is an existing, incomplete task read back from the sink.
type LocalTask struct {
	// ID is the sink-assigned identifier, opaque and stable.
	ID string
	// Title begins with a RemoteItem prefix when the task was created by this
	// program; unrelated tasks are filtered out at read time.
	Title string
}

func (t LocalTask) String() string {
	return fmt.Sprintf("LocalTask: [%s] %s", t.ID, t.Title)
}
