package gh

import (
	"context"
	"fmt"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github-task-sync/config"
	pkgLog "github-task-sync/pkg/log"
)

type implGateway struct {
	c       *github.Client
	limiter *rate.Limiter
	l       pkgLog.Logger
}

// New creates a Gateway over the GitHub REST API. The API URL may point at a
// GitHub Enterprise install; requests are throttled to cfg.RequestsPerSecond.
func New(ctx context.Context, l pkgLog.Logger, cfg config.GitHubConfig) (Gateway, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	tc := oauth2.NewClient(ctx, ts)

	// The upload URL is never used; passing the API URL keeps the enterprise
	// constructor happy.
	client, err := github.NewEnterpriseClient(cfg.APIURL, cfg.APIURL, tc)
	if err != nil {
		return nil, fmt.Errorf("building github client for %s: %w", cfg.APIURL, err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &implGateway{
		c:       client,
		limiter: rate.NewLimiter(limit, max(cfg.RequestsPerSecond, 1)),
		l:       l,
	}, nil
}
