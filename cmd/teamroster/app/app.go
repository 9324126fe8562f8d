// Package app provides the application context and dependency wiring for
// the teamroster CLI. Configuration, logging, and the pipeline instance
// are centralized here so commands stay thin.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/teamroster"
)

// App represents the teamroster application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	// Pipeline instance (lazy-initialized, singleton)
	mu     sync.Mutex
	roster teamroster.TeamRoster
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Roster returns the pipeline instance, creating it lazily.
func (a *App) Roster() (teamroster.TeamRoster, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.roster != nil {
		return a.roster, nil
	}

	tr, err := teamroster.New(
		teamroster.WithSettingsFile(a.config.SettingsFile),
		teamroster.WithSheet(a.config.SheetID, a.config.Worksheet),
		teamroster.WithToken(a.config.Token),
		teamroster.WithRepoPath(a.config.RepoPath),
		teamroster.WithDryRun(a.config.DryRun),
	)
	if err != nil {
		return nil, err
	}
	a.roster = tr
	return tr, nil
}
