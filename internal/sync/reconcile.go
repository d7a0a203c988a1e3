// Package sync implements the reconciliation engine: given a snapshot of
// remote GitHub items and a snapshot of existing sink tasks, it decides which
// tasks to create and which to mark complete, using the prefix-in-title
// identity scheme instead of a persisted mapping table.
package sync

import (
	"github-task-sync/internal/identity"
	"github-task-sync/internal/model"
)

// Reconcile computes the Plan for one category. A remote item and a local
// task are the same logical item iff the task title matches the item's
// prefix on a word boundary.
//
// The function is pure: no I/O, no side effects. Remote items are tested
// independently, so duplicate prefixes (which the prefix-uniqueness invariant
// rules out upstream) are not deduplicated here.
func Reconcile(remote []model.RemoteItem, local []model.LocalTask) Plan {
	var p Plan

	for _, r := range remote {
		if !anyTaskMatches(local, r.Prefix) {
			p.ToCreate = append(p.ToCreate, r)
		}
	}

	for _, t := range local {
		matched := false
		for _, r := range remote {
			if identity.Matches(t.Title, r.Prefix) {
				matched = true
				break
			}
		}
		if !matched {
			p.ToComplete = append(p.ToComplete, t)
		}
	}

	return p
}

func anyTaskMatches(local []model.LocalTask, prefix string) bool {
	for _, t := range local {
		if identity.Matches(t.Title, prefix) {
			return true
		}
	}
	return false
}
