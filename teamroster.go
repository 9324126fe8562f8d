// Package teamroster synchronizes a team roster from a Google Sheet
// into a website repository: rows are mapped and validated, member
// images materialized, the result merged against the previously
// published state, and the updated databag pushed as a pull request.
package teamroster

import (
	"context"
	"net/http"

	"github.com/agentstation/teamroster/internal/config"
	"github.com/agentstation/teamroster/pkg/roster"
)

// TeamRoster runs the roster pipeline.
type TeamRoster interface {
	// Update runs the full pipeline and publishes the result as a
	// pull request against the website repository.
	Update(ctx context.Context) (*Result, error)

	// Build runs the pipeline against a local working tree only. No
	// git operations are performed; the databag and images are written
	// in place for inspection.
	Build(ctx context.Context) (*Result, error)

	// Validate fetches and validates the sheet without touching any
	// state. It reports per-row issues for operator review.
	Validate(ctx context.Context) (*roster.Report, error)
}

// teamroster is the internal implementation of the TeamRoster interface.
type teamroster struct {
	settings *config.Settings

	sheetID   string
	worksheet string
	token     string

	repoPath string
	dryRun   bool

	httpClient *http.Client

	// test seams
	sheetBaseURL string
	prAPIBase    string
}

// New creates a TeamRoster instance with the given options.
func New(opts ...Option) (TeamRoster, error) {
	t := &teamroster{
		settings: config.Defaults(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}
