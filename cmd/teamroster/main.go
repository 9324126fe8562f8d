// Package main provides the entry point for the teamroster CLI tool.
package main

import (
	"os"

	"github.com/agentstation/teamroster/cmd/teamroster/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancelled on SIGINT/SIGTERM so git subprocesses and HTTP calls
	// stop cleanly.
	ctx, cancel := app.Context()
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
