package teamroster

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/images"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/merge"
	"github.com/agentstation/teamroster/pkg/publish"
	"github.com/agentstation/teamroster/pkg/roster"
	"github.com/agentstation/teamroster/pkg/sheet"
)

// Update runs the full pipeline and publishes the merged roster.
func (t *teamroster) Update(ctx context.Context) (*Result, error) {
	return t.run(ctx, !t.dryRun)
}

// Build runs the pipeline against the local working tree only.
func (t *teamroster) Build(ctx context.Context) (*Result, error) {
	return t.run(ctx, false)
}

func (t *teamroster) run(ctx context.Context, publishing bool) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, constants.UpdateTimeout)
	defer cancel()

	if t.repoPath == "" {
		return nil, errors.NewConfigError("repository", "local repository path not set", nil)
	}
	if t.sheetID == "" && t.sheetBaseURL == "" {
		return nil, errors.NewConfigError("sheet", "spreadsheet id not set", nil)
	}

	result := &Result{
		StartTime:   time.Now(),
		DatabagPath: filepath.Join(t.repoPath, t.settings.DatabagPath),
	}
	defer func() { result.Duration = time.Since(result.StartTime) }()

	// Publishing needs a clean checkout of the base branch before any
	// state is read, so the previous databag and images come from the
	// published tree rather than a leftover working copy.
	var repo *publish.Repo
	if publishing {
		if t.settings.Repository.URL == "" {
			return nil, errors.NewConfigError("repository", "repository.url not set", nil)
		}
		repo = publish.NewRepo(t.repoPath, t.settings.Repository.URL, t.token)
		if err := repo.CloneOrUpdate(ctx, t.settings.Repository.Base); err != nil {
			return nil, err
		}
	}

	httpc := transport.New(&transport.NoAuth{}, "")
	if t.httpClient != nil {
		httpc = httpc.WithHTTPClient(t.httpClient)
	}

	members, report, err := t.fetchRoster(ctx, httpc)
	if err != nil {
		return nil, err
	}
	result.Report = report

	previousBag, err := roster.LoadDatabag(result.DatabagPath)
	if err != nil {
		return nil, err
	}
	previous := previousBag.Flatten()

	imageDir := filepath.Join(t.repoPath, t.settings.TeamImagesDir)
	resolver := images.NewResolver(httpc, imageDir, images.NewCache()).
		WithLimits(t.settings.ImageMaxBytes, t.settings.ImageTypes)
	warnings, imagesChanged := resolveImages(ctx, resolver, members)

	merged, changeset := merge.Merge(ctx, previous, members, merge.Options{
		SortKey:     t.settings.SortKey,
		AllowDelete: t.settings.AllowDelete,
	})
	changeset.Warnings = append(changeset.Warnings, warnings...)
	changeset.ImagesChanged = imagesChanged
	for _, dup := range report.Duplicates {
		changeset.Duplicates = append(changeset.Duplicates, dup.Identity)
	}
	result.Members = merged
	result.Changeset = changeset

	bag := &roster.Databag{
		TeamImages:   t.settings.TeamImagesDir,
		DefaultImage: t.settings.DefaultImage,
		Types:        t.group(merged),
	}
	if err := roster.SaveDatabag(result.DatabagPath, bag); err != nil {
		return nil, err
	}

	if !publishing {
		logging.Ctx(ctx).Info().
			Int("members", len(merged)).
			Str("databag", result.DatabagPath).
			Msg("Local build complete")
		return result, nil
	}

	if !changeset.HasChanges() {
		logging.Ctx(ctx).Info().Int("members", len(merged)).Msg("No changes, skipping publish")
		return result, nil
	}

	api := transport.New(&transport.BearerAuth{}, t.token)
	if t.httpClient != nil {
		api = api.WithHTTPClient(t.httpClient)
	}
	pr := publish.NewPRClient(api, t.settings.Repository.Owner, t.settings.Repository.Name)
	if t.prAPIBase != "" {
		pr = pr.WithAPIBase(t.prAPIBase)
	}

	publisher := publish.NewPublisher(repo, pr,
		publish.RetryPolicy{MaxAttempts: t.settings.RetryCount, BaseDelay: constants.RetryBaseDelay},
		t.settings.Repository.Branch, t.settings.Repository.Base)

	pullRequest, err := publisher.Publish(ctx,
		[]string{t.settings.DatabagPath, t.settings.TeamImagesDir}, changeset)
	if err != nil {
		return result, err
	}
	result.PullRequest = pullRequest
	result.Published = pullRequest != nil
	return result, nil
}

// Validate fetches and validates the sheet without touching any state.
func (t *teamroster) Validate(ctx context.Context) (*roster.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, constants.SheetFetchTimeout)
	defer cancel()

	httpc := transport.New(&transport.NoAuth{}, "")
	if t.httpClient != nil {
		httpc = httpc.WithHTTPClient(t.httpClient)
	}
	_, report, err := t.fetchRoster(ctx, httpc)
	return report, err
}

// fetchRoster downloads the worksheet and validates it into members.
func (t *teamroster) fetchRoster(ctx context.Context, httpc *transport.Client) (roster.Roster, *roster.Report, error) {
	sheets := sheet.NewClient(httpc, t.sheetID, t.worksheet)
	if t.sheetBaseURL != "" {
		sheets = sheets.WithBaseURL(t.sheetBaseURL)
	}
	table, err := sheets.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	mapper, err := sheet.Mapping(t.settings.ColumnMapping).Resolve(table.Header)
	if err != nil {
		return nil, nil, err
	}

	members, report := roster.ValidateRows(ctx, mapper, table)
	return members, report, nil
}

// group builds the committee sections in configured order and attaches
// the configured section comments.
func (t *teamroster) group(members roster.Roster) []roster.Committee {
	committees := roster.Group(members, t.settings.CommitteeOrder)
	for i := range committees {
		if comment, ok := t.settings.CommitteeComments[committees[i].Name]; ok {
			committees[i].Comment = comment
		}
	}
	return committees
}

// resolveImages materializes member images with a bounded worker pool.
// Fetch failures never abort the run; each one becomes a warning and the
// member keeps its previous image when one exists. The returned identity
// list names members whose image file was written, so an image-only
// change still reaches the publish stage.
func resolveImages(ctx context.Context, resolver *images.Resolver, members roster.Roster) ([]merge.Warning, []string) {
	sem := make(chan struct{}, constants.MaxConcurrentFetches)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var warnings []merge.Warning
	var changed []string

	for i := range members {
		wg.Add(1)
		go func(member *roster.Member) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := resolver.Resolve(ctx, member)
			if err != nil {
				logging.Ctx(ctx).Warn().
					Str("identity", member.Identity).
					Err(err).
					Msg("Image fetch degraded")
				mu.Lock()
				warnings = append(warnings, merge.Warning{
					Identity: member.Identity,
					Reason:   err.Error(),
				})
				mu.Unlock()
			}
			if result != nil && result.Changed() {
				mu.Lock()
				changed = append(changed, member.Identity)
				mu.Unlock()
			}
		}(&members[i])
	}
	wg.Wait()

	sort.Strings(changed)
	return warnings, changed
}
