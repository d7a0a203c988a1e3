// Package identity owns the textual identity scheme used to tie a sink task
// back to the GitHub item it was created for. A task title starts with a
// canonical prefix of the form "owner/repo#number"; no other package builds
// or parses these prefixes.
package identity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Encode returns the canonical prefix for an item.
func Encode(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}

// EncodeRepository is Encode for sources that expose the repository as a
// single "owner/repo" full name.
func EncodeRepository(fullName string, number int) string {
	return fmt.Sprintf("%s#%d", fullName, number)
}

// FromBrowserURL extracts owner, repo and number from a browser URL of the
// form https://host/owner/repo/(issues|pull)/number. The owner and repo are
// the first two path segments and the number is the final segment.
func FromBrowserURL(rawURL string) (owner, repo string, number int, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", 0, fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	segs := pathSegments(u.Path)
	if len(segs) < 3 {
		return "", "", 0, fmt.Errorf("%q: %w", rawURL, ErrMalformedURL)
	}
	number, err = strconv.Atoi(segs[len(segs)-1])
	if err != nil {
		return "", "", 0, fmt.Errorf("%q: %w", rawURL, ErrMalformedURL)
	}
	return segs[0], segs[1], number, nil
}

// ParseSubjectURL extracts owner, repo, kind and number from a notification
// subject API URL, e.g. https://api.github.com/repos/owner/repo/issues/1500.
// The four values are the last four path segments.
func ParseSubjectURL(rawURL string) (owner, repo, kind string, number int, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", 0, fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	segs := pathSegments(u.Path)
	if len(segs) < 4 {
		return "", "", "", 0, fmt.Errorf("%q: %w", rawURL, ErrMalformedURL)
	}
	number, err = strconv.Atoi(segs[len(segs)-1])
	if err != nil {
		return "", "", "", 0, fmt.Errorf("%q: %w", rawURL, ErrMalformedURL)
	}
	return segs[len(segs)-4], segs[len(segs)-3], segs[len(segs)-2], number, nil
}

// CommentID returns the trailing comment id of a latest-comment URL. Some
// notifications point their latest-comment URL back at the issue itself
// (seen after an issue closes); those are not comment references, so ok is
// false unless the URL contains a "/comments/" segment.
func CommentID(latestCommentURL string) (id int64, ok bool) {
	if latestCommentURL == "" {
		return 0, false
	}
	u, err := url.Parse(latestCommentURL)
	if err != nil {
		return 0, false
	}
	segs := pathSegments(u.Path)
	if len(segs) < 2 || segs[len(segs)-2] != "comments" {
		return 0, false
	}
	id, err = strconv.ParseInt(segs[len(segs)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Matches reports whether a task title belongs to the item identified by
// prefix. The prefix must be followed by a space or end the title: a bare
// HasPrefix would let "x/y#2" claim a task titled "x/y#20 ...".
func Matches(title, prefix string) bool {
	if !strings.HasPrefix(title, prefix) {
		return false
	}
	return len(title) == len(prefix) || title[len(prefix)] == ' '
}

// Prefix returns the leading prefix token of a task title.
func Prefix(title string) string {
	return strings.SplitN(title, " ", 2)[0]
}

func pathSegments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
