package publish

import (
	"context"
	"fmt"
	"net/url"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
)

// defaultAPIBase is the GitHub REST API endpoint.
const defaultAPIBase = "https://api.github.com"

// PullRequest is the reference returned for an opened or updated PR.
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// PRClient opens and updates pull requests on the target repository.
type PRClient struct {
	http    *transport.Client
	apiBase string
	owner   string
	repo    string
}

// NewPRClient creates a client for owner/repo authenticated with token.
func NewPRClient(http *transport.Client, owner, repo string) *PRClient {
	return &PRClient{
		http:    http,
		apiBase: defaultAPIBase,
		owner:   owner,
		repo:    repo,
	}
}

// WithAPIBase overrides the API endpoint, used by tests.
func (c *PRClient) WithAPIBase(base string) *PRClient {
	c.apiBase = base
	return c
}

// OpenOrUpdate opens a pull request from branch onto base, or refreshes
// the title and body of an already-open PR for the same branch instead of
// opening a duplicate.
func (c *PRClient) OpenOrUpdate(ctx context.Context, branch, base, title, body string) (*PullRequest, error) {
	existing, err := c.findOpen(ctx, branch, base)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		pr, err := c.update(ctx, existing.Number, title, body)
		if err != nil {
			return nil, err
		}
		logging.Ctx(ctx).Info().Int("number", pr.Number).Msg("Updated existing pull request")
		return pr, nil
	}

	pr, err := c.open(ctx, branch, base, title, body)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Int("number", pr.Number).Str("url", pr.HTMLURL).Msg("Opened pull request")
	return pr, nil
}

// findOpen looks for an open PR from branch onto base.
func (c *PRClient) findOpen(ctx context.Context, branch, base string) (*PullRequest, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls?state=open&base=%s&head=%s",
		c.apiBase, c.owner, c.repo, url.QueryEscape(base), url.QueryEscape(c.owner+":"+branch))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI("github", 0, err)
	}

	var prs []PullRequest
	if err := transport.DecodeResponse(resp, "github", &prs); err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return &prs[0], nil
}

func (c *PRClient) open(ctx context.Context, branch, base, title, body string) (*PullRequest, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls", c.apiBase, c.owner, c.repo)
	payload := map[string]string{
		"title": title,
		"head":  branch,
		"base":  base,
		"body":  body,
	}

	resp, err := c.http.Post(ctx, endpoint, payload)
	if err != nil {
		return nil, errors.WrapAPI("github", 0, err)
	}

	var pr PullRequest
	if err := transport.DecodeResponse(resp, "github", &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (c *PRClient) update(ctx context.Context, number int, title, body string) (*PullRequest, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiBase, c.owner, c.repo, number)
	payload := map[string]string{
		"title": title,
		"body":  body,
	}

	resp, err := c.http.Patch(ctx, endpoint, payload)
	if err != nil {
		return nil, errors.WrapAPI("github", 0, err)
	}

	var pr PullRequest
	if err := transport.DecodeResponse(resp, "github", &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}
