// Package publish materializes a reconciliation run in the target
// repository: file writes, branch, commit, push, and the pull request.
package publish

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
)

// Repo drives a git working copy of the target repository through the
// git binary.
type Repo struct {
	// Path is the local working copy location.
	Path string

	url   string
	token string
}

// NewRepo creates a repo handle. The token, when set, is injected into
// the clone URL for push access and never logged.
func NewRepo(path, url, token string) *Repo {
	return &Repo{Path: path, url: url, token: token}
}

// authURL returns the remote URL with the access token injected.
func (r *Repo) authURL() string {
	if r.token == "" {
		return r.url
	}
	return strings.Replace(r.url, "https://", "https://"+r.token+"@", 1)
}

// redact strips the token from subprocess output before it reaches logs
// or error messages.
func (r *Repo) redact(s string) string {
	if r.token == "" {
		return s
	}
	return strings.ReplaceAll(s, r.token, "***")
}

// run executes one git command inside the working copy.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Path

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &errors.ProcessError{
			Operation: "git " + args[0],
			Command:   r.redact("git " + strings.Join(args, " ")),
			Output:    r.redact(string(output)),
			Err:       err,
		}
	}
	return strings.TrimSpace(string(output)), nil
}

// CloneOrUpdate makes sure a working copy exists at Path on an up-to-date
// base. An existing copy with uncommitted changes is a fatal
// RepoStateError: the run must never mix unrelated changes into its PR.
func (r *Repo) CloneOrUpdate(ctx context.Context, base string) error {
	if _, err := os.Stat(r.Path); os.IsNotExist(err) {
		return r.clone(ctx)
	}

	clean, err := r.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return &errors.RepoStateError{Path: r.Path, Message: "working copy has uncommitted changes"}
	}

	if _, err := r.run(ctx, "fetch", "origin"); err != nil {
		return err
	}
	if _, err := r.run(ctx, "checkout", base); err != nil {
		return err
	}
	if _, err := r.run(ctx, "reset", "--hard", "origin/"+base); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("path", r.Path).Str("base", base).Msg("Updated working copy")
	return nil
}

func (r *Repo) clone(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", r.authURL(), r.Path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &errors.ProcessError{
			Operation: "git clone",
			Command:   r.redact("git clone " + r.url),
			Output:    r.redact(string(output)),
			Err:       err,
		}
	}

	logging.Ctx(ctx).Info().Str("path", r.Path).Msg("Cloned repository")
	return nil
}

// Checkout switches to the given branch, creating it when absent and
// resetting an existing one to the current HEAD. Every run regenerates
// the full state from the base branch, so a leftover branch from an
// earlier run must not conflict with the fresh working tree.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "checkout", "-B", branch)
	return err
}

// IsClean reports whether the working copy has no uncommitted changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// Add stages exactly the given paths, relative to the working copy root.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := r.run(ctx, args...)
	return err
}

// HasStagedChanges reports whether anything is staged for commit.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := r.run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	// Exit code 1 means there are staged differences.
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// Push publishes the branch to origin, setting the upstream. The branch
// is rebuilt from the base on every run, so an older remote copy left by
// a previous run is replaced. The lease refuses to overwrite anything
// pushed to the branch since the last fetch.
func (r *Repo) Push(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "push", "--force-with-lease", "--set-upstream", "origin", branch)
	return err
}
