package teamroster

import (
	"fmt"
	"time"

	"github.com/agentstation/teamroster/pkg/merge"
	"github.com/agentstation/teamroster/pkg/publish"
	"github.com/agentstation/teamroster/pkg/roster"
)

// Result is the outcome of one pipeline run.
type Result struct {
	// Members is the published roster after merging.
	Members roster.Roster

	// Changeset describes what changed against the previous state.
	Changeset *merge.Changeset

	// Report carries per-row validation issues from the source sheet.
	Report *roster.Report

	// PullRequest is set when a pull request was opened or updated.
	PullRequest *publish.PullRequest

	// DatabagPath is where the merged state was written.
	DatabagPath string

	// Published reports whether anything was committed and pushed.
	Published bool

	StartTime time.Time
	Duration  time.Duration
}

// HasChanges reports whether the run changed the published state.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Summary returns a one-line human-readable account of the run.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return fmt.Sprintf("Roster up to date (%d members), nothing to publish.", len(r.Members))
	}
	s := fmt.Sprintf("Roster updated: %s", r.Changeset.String())
	if r.PullRequest != nil {
		s += fmt.Sprintf(" Pull request #%d: %s", r.PullRequest.Number, r.PullRequest.HTMLURL)
	}
	return s
}
