package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/teamroster/pkg/errors"
)

// NewUpdateCommand runs the full pipeline and publishes a pull request.
func (a *App) NewUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Sync the roster and open a pull request",
		Long: `Update fetches the member spreadsheet, validates it, resolves member
images, merges the result with the previously published state, and
pushes the updated databag as a pull request against the website
repository.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.Roster()
			if err != nil {
				return err
			}
			result, err := roster.Update(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&a.config.DryRun, "dry-run", false, "write the databag locally without committing or pushing")
	cmd.Flags().StringVar(&a.config.SheetID, "sheet", a.config.SheetID, "spreadsheet ID (defaults to TEAM_SHEET_ID)")
	cmd.Flags().StringVar(&a.config.Worksheet, "worksheet", a.config.Worksheet, "worksheet name (defaults to TEAM_WORKSHEET_NAME)")
	cmd.Flags().StringVar(&a.config.RepoPath, "repo", a.config.RepoPath, "local checkout path for the website repository")

	return cmd
}

// NewBuildCommand runs the pipeline against the local tree only.
func (a *App) NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the databag locally without publishing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.Roster()
			if err != nil {
				return err
			}
			result, err := roster.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			fmt.Fprintf(cmd.OutOrStdout(), "Databag written to %s\n", result.DatabagPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&a.config.SheetID, "sheet", a.config.SheetID, "spreadsheet ID (defaults to TEAM_SHEET_ID)")
	cmd.Flags().StringVar(&a.config.Worksheet, "worksheet", a.config.Worksheet, "worksheet name (defaults to TEAM_WORKSHEET_NAME)")
	cmd.Flags().StringVar(&a.config.RepoPath, "repo", a.config.RepoPath, "local checkout path for the website repository")

	return cmd
}

// NewValidateCommand checks the sheet without touching any state.
func (a *App) NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the member spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.Roster()
			if err != nil {
				return err
			}
			report, err := roster.Validate(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rowErr := range report.Errors {
				fmt.Fprintf(out, "error: %v\n", rowErr)
			}
			for _, dup := range report.Duplicates {
				fmt.Fprintf(out, "duplicate: %v\n", dup)
			}
			if report.SkippedNoConsent > 0 {
				fmt.Fprintf(out, "%d rows skipped without consent\n", report.SkippedNoConsent)
			}
			if report.HasIssues() {
				return errors.New("sheet has validation issues")
			}
			fmt.Fprintln(out, "Sheet is valid.")
			return nil
		},
	}

	cmd.Flags().StringVar(&a.config.SheetID, "sheet", a.config.SheetID, "spreadsheet ID (defaults to TEAM_SHEET_ID)")
	cmd.Flags().StringVar(&a.config.Worksheet, "worksheet", a.config.Worksheet, "worksheet name (defaults to TEAM_WORKSHEET_NAME)")

	return cmd
}

// NewVersionCommand prints version information.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "teamroster %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
