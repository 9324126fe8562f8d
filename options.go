package teamroster

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/teamroster/internal/config"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
)

// Option is a function that configures a TeamRoster instance.
type Option func(*teamroster) error

// WithSettings supplies pre-loaded settings.
func WithSettings(s *config.Settings) Option {
	return func(t *teamroster) error {
		if s == nil {
			return errors.NewConfigError("settings", "nil settings", nil)
		}
		t.settings = s
		return nil
	}
}

// WithSettingsFile loads settings from a YAML file. A missing file
// keeps the defaults.
func WithSettingsFile(path string) Option {
	return func(t *teamroster) error {
		s, err := config.Load(path)
		if err != nil {
			return err
		}
		t.settings = s
		return nil
	}
}

// WithSheet selects the source spreadsheet and worksheet.
func WithSheet(sheetID, worksheet string) Option {
	return func(t *teamroster) error {
		t.sheetID = sheetID
		t.worksheet = worksheet
		return nil
	}
}

// WithToken supplies the token used for git pushes and the pull
// request API.
func WithToken(token string) Option {
	return func(t *teamroster) error {
		t.token = token
		return nil
	}
}

// WithRepoPath sets the local checkout directory for the website
// repository.
func WithRepoPath(path string) Option {
	return func(t *teamroster) error {
		t.repoPath = path
		return nil
	}
}

// WithDryRun stops the pipeline after writing the databag locally;
// nothing is committed, pushed, or opened as a pull request.
func WithDryRun(enabled bool) Option {
	return func(t *teamroster) error {
		t.dryRun = enabled
		return nil
	}
}

// WithLogger replaces the process-wide default logger used by the
// pipeline's structured logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(_ *teamroster) error {
		logging.SetDefault(logger)
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used for sheet, image, and
// pull request traffic.
func WithHTTPClient(client *http.Client) Option {
	return func(t *teamroster) error {
		t.httpClient = client
		return nil
	}
}

// WithSheetBaseURL overrides the spreadsheet export endpoint. Used in
// tests.
func WithSheetBaseURL(base string) Option {
	return func(t *teamroster) error {
		t.sheetBaseURL = base
		return nil
	}
}

// WithPullRequestAPIBase overrides the pull request API endpoint. Used
// in tests.
func WithPullRequestAPIBase(base string) Option {
	return func(t *teamroster) error {
		t.prAPIBase = base
		return nil
	}
}
