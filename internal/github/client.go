package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v66/github"
)

// Client opens pull requests against a single configured repository.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
	base  string
}

// NewClient builds a token-authenticated client for owner/repo with
// base as the merge target for new pull requests.
func NewClient(token, owner, repo, base string) *Client {
	return &Client{
		gh:    gh.NewClient(nil).WithAuthToken(token),
		owner: owner,
		repo:  repo,
		base:  base,
	}
}

// NewClientWithGitHub wraps an existing go-github client. Tests use it
// to point at a local server.
func NewClientWithGitHub(ghClient *gh.Client, owner, repo, base string) *Client {
	return &Client{
		gh:    ghClient,
		owner: owner,
		repo:  repo,
		base:  base,
	}
}

// CreatePR opens a pull request from head into the configured base
// branch and returns the PR URL.
func (c *Client) CreatePR(ctx context.Context, head, title, body string) (string, error) {
	pr := &gh.NewPullRequest{
		Title: gh.String(title),
		Head:  gh.String(head),
		Base:  gh.String(c.base),
		Body:  gh.String(body),
	}

	created, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}

	return created.GetHTMLURL(), nil
}
