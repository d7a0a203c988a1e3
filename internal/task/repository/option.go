package repository

import "time"

// AddTaskOptions holds the parameters for creating a task in the sink.
type AddTaskOptions struct {
	Project string
	Title   string
	Tags    []string
	// Note is free text attached to the task; here always a browser URL.
	Note string
	// DueAt, when set, becomes the task's due date.
	DueAt *time.Time
}
