// Package gh queries the GitHub REST API and normalizes its heterogeneous
// item shapes (assigned issues, review-requested PRs, unread notifications)
// into the program's uniform RemoteItem records.
package gh

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v41/github"

	"github-task-sync/internal/identity"
	"github-task-sync/internal/model"
)

const pageSize = 30

func (g *implGateway) AssignedItems(ctx context.Context) ([]model.RemoteItem, error) {
	opt := &github.IssueListOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var issues []*github.Issue
	for {
		g.l.Debugf(ctx, "assigned: fetching page %d", opt.Page)
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		results, resp, err := g.c.Issues.List(ctx, true, opt)
		if err != nil {
			return nil, fmt.Errorf("listing assigned issues: %w", err)
		}
		issues = append(issues, results...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	items := make([]model.RemoteItem, 0, len(issues))
	for _, iss := range issues {
		// The issues listing exposes owner/repo structurally; no URL parsing.
		prefix := identity.EncodeRepository(iss.GetRepository().GetFullName(), iss.GetNumber())
		items = append(items, model.RemoteItem{
			Prefix: prefix,
			Title:  prefix + " " + strings.TrimSpace(iss.GetTitle()),
			Body:   iss.GetHTMLURL(),
		})
	}
	return items, nil
}

func (g *implGateway) ReviewItems(ctx context.Context) ([]model.RemoteItem, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	user, _, err := g.c.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("resolving authenticated user: %w", err)
	}
	query := "type:pr state:open review-requested:" + user.GetLogin()

	opt := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	var results []*github.Issue
	for {
		g.l.Debugf(ctx, "review: fetching page %d", opt.Page)
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := g.c.Search.Issues(ctx, query, opt)
		if err != nil {
			return nil, fmt.Errorf("searching review-requested PRs: %w", err)
		}
		results = append(results, page.Issues...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	items := make([]model.RemoteItem, 0, len(results))
	for _, pr := range results {
		// Search results carry no structural owner/repo; derive them from the
		// browser URL. A malformed URL drops that one item, not the category.
		owner, repo, number, err := identity.FromBrowserURL(pr.GetHTMLURL())
		if err != nil {
			g.l.Warnf(ctx, "review: skipping PR with unusable URL %q: %v", pr.GetHTMLURL(), err)
			continue
		}
		prefix := identity.Encode(owner, repo, number)
		items = append(items, model.RemoteItem{
			Prefix: prefix,
			Title:  prefix + " " + strings.TrimSpace(pr.GetTitle()),
			Body:   pr.GetHTMLURL(),
		})
	}
	return items, nil
}

func (g *implGateway) Notifications(ctx context.Context) ([]Notification, error) {
	opt := &github.NotificationListOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var raw []*github.Notification
	for {
		g.l.Debugf(ctx, "notifications: fetching page %d", opt.Page)
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		results, resp, err := g.c.Activity.ListNotifications(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("listing notifications: %w", err)
		}
		raw = append(raw, results...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	items := make([]Notification, 0, len(raw))
	for _, n := range raw {
		subjectURL := n.GetSubject().GetURL()
		owner, repo, kind, number, err := identity.ParseSubjectURL(subjectURL)
		if err != nil {
			g.l.Warnf(ctx, "notifications: skipping item with unusable subject URL %q: %v", subjectURL, err)
			continue
		}

		item := Notification{
			Prefix:     identity.Encode(owner, repo, number),
			Title:      strings.TrimSpace(n.GetSubject().GetTitle()),
			Owner:      owner,
			Repo:       repo,
			Kind:       kind,
			Number:     number,
			SubjectURL: subjectURL,
		}
		if commentURL := n.GetSubject().GetLatestCommentURL(); commentURL != "" {
			if id, ok := identity.CommentID(commentURL); ok {
				item.LatestCommentURL = commentURL
				item.CommentID = id
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (g *implGateway) ResolveNotification(ctx context.Context, n Notification) (model.RemoteItem, error) {
	htmlURL, err := g.browserURL(ctx, n)
	if err != nil {
		return model.RemoteItem{}, err
	}
	return model.RemoteItem{
		Prefix: n.Prefix,
		Title:  n.Prefix + " " + n.Title,
		Body:   htmlURL,
	}, nil
}

// browserURL fetches the browser URL for a notification: from its newest
// comment when one is referenced, otherwise from the issue/PR itself.
// Comments can be deleted between notification and resolution, so a failed
// comment fetch falls back to the issue/PR.
func (g *implGateway) browserURL(ctx context.Context, n Notification) (string, error) {
	if n.CommentID != 0 {
		htmlURL, err := g.fetchHTMLURL(ctx, n.LatestCommentURL)
		if err == nil {
			return htmlURL, nil
		}
		g.l.Warnf(ctx, "%s: comment %d fetch failed, falling back to subject: %v", n.Prefix, n.CommentID, err)
	}
	return g.fetchHTMLURL(ctx, n.SubjectURL)
}

// fetchHTMLURL retrieves an API resource and returns its html_url field. The
// resource may be an issue, a PR, or either flavor of comment; html_url is
// the one field common to all of them.
func (g *implGateway) fetchHTMLURL(ctx context.Context, apiURL string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := g.c.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", apiURL, err)
	}
	var body struct {
		HTMLURL string `json:"html_url"`
	}
	if _, err := g.c.Do(ctx, req, &body); err != nil {
		return "", fmt.Errorf("fetching %s: %w", apiURL, err)
	}
	return body.HTMLURL, nil
}
