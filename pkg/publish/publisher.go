package publish

import (
	"context"
	"fmt"

	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/merge"
)

// prTitle is the fixed title of the roster update pull request.
const prTitle = "Team page auto-update"

// Publisher turns a merged collection and its changed files into a
// reviewable change: staged commit, pushed branch, pull request.
type Publisher struct {
	repo   *Repo
	pr     *PRClient
	retry  RetryPolicy
	branch string
	base   string
}

// NewPublisher wires a publisher for one target repository.
func NewPublisher(repo *Repo, pr *PRClient, retry RetryPolicy, branch, base string) *Publisher {
	if branch == "" {
		branch = "team-page-update"
	}
	if base == "" {
		base = "main"
	}
	return &Publisher{repo: repo, pr: pr, retry: retry, branch: branch, base: base}
}

// Branch returns the dedicated branch the publisher commits to.
func (p *Publisher) Branch() string {
	return p.branch
}

// CommitMessage encodes the changeset counts into a deterministic commit
// message.
func CommitMessage(cs *merge.Changeset) string {
	if n := len(cs.ImagesChanged); n > 0 {
		return fmt.Sprintf("Update team data (%d added, %d updated, %d stale, %d images)",
			len(cs.Added), len(cs.Updated), len(cs.Stale), n)
	}
	return fmt.Sprintf("Update team data (%d added, %d updated, %d stale)",
		len(cs.Added), len(cs.Updated), len(cs.Stale))
}

// Publish stages exactly the given paths, commits, pushes the dedicated
// branch, and opens or updates the pull request. Nothing staged means
// nothing to publish and no PR churn. Push and PR calls are retried per
// the policy; exhaustion surfaces a PublishError that states how far the
// run got.
func (p *Publisher) Publish(ctx context.Context, paths []string, cs *merge.Changeset) (*PullRequest, error) {
	if err := p.repo.Checkout(ctx, p.branch); err != nil {
		return nil, err
	}

	if err := p.repo.Add(ctx, paths...); err != nil {
		return nil, err
	}

	staged, err := p.repo.HasStagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	if !staged {
		logging.Ctx(ctx).Info().Msg("No staged changes, skipping push and pull request")
		return nil, nil
	}

	if err := p.repo.Commit(ctx, CommitMessage(cs)); err != nil {
		return nil, err
	}

	if err := p.retry.Do(ctx, "push", func() error {
		return p.repo.Push(ctx, p.branch)
	}); err != nil {
		return nil, &errors.PublishError{
			Operation: "push",
			Attempts:  p.retry.MaxAttempts,
			Completed: "commit created on branch " + p.branch + ", not pushed",
			Err:       err,
		}
	}

	var pr *PullRequest
	if err := p.retry.Do(ctx, "open pull request", func() error {
		var prErr error
		pr, prErr = p.pr.OpenOrUpdate(ctx, p.branch, p.base, prTitle, p.prBody(cs))
		return prErr
	}); err != nil {
		return nil, &errors.PublishError{
			Operation: "open pull request",
			Attempts:  p.retry.MaxAttempts,
			Completed: "branch " + p.branch + " pushed",
			Err:       err,
		}
	}

	return pr, nil
}

// prBody renders the pull request body from the changeset.
func (p *Publisher) prBody(cs *merge.Changeset) string {
	return cs.String() + "\n\n" + cs.Details()
}
