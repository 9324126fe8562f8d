package roster

import (
	"context"
	"net/url"
	"strings"

	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/sheet"
)

// DefaultCommittee is assigned when a row leaves the committee blank.
const DefaultCommittee = "other"

// chairRole is assigned when the chair column reads yes.
const chairRole = "Chair"

// yes reports whether a form checkbox cell is affirmative.
func yes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

// Validate converts the mapped field values of one row into a Member.
// It is a pure function of its inputs: required-field checks fail with a
// ValidationError carrying the row reference, while malformed URLs drop
// just that field. Consent is not checked here; rows without consent are
// filtered by ValidateRows before validation.
func Validate(ctx context.Context, fields sheet.Fields, rowRef string) (*Member, error) {
	name := NormalizeName(fields.Get(sheet.FieldName))
	if name == "" {
		return nil, errors.NewValidationError(rowRef, sheet.FieldName, fields.Get(sheet.FieldName), "required field is empty")
	}
	if len(name) > constants.MaxNameLength {
		return nil, errors.NewValidationError(rowRef, sheet.FieldName, name, "name exceeds maximum length")
	}

	member := &Member{
		Identity:  Identity(name),
		Name:      name,
		Committee: fields.Get(sheet.FieldCommittee),
		rowRef:    rowRef,
	}
	if member.Identity == "" {
		return nil, errors.NewValidationError(rowRef, sheet.FieldName, name, "name yields an empty identity")
	}
	if member.Committee == "" {
		member.Committee = DefaultCommittee
	}
	if yes(fields.Get(sheet.FieldChair)) {
		member.Role = chairRole
	}

	member.GitHub = cleanURL(ctx, rowRef, sheet.FieldGitHub, fields.Get(sheet.FieldGitHub))
	member.LinkedIn = cleanURL(ctx, rowRef, sheet.FieldLinkedIn, fields.Get(sheet.FieldLinkedIn))
	member.Website = cleanURL(ctx, rowRef, sheet.FieldWebsite, fields.Get(sheet.FieldWebsite))
	member.Twitter = cleanURL(ctx, rowRef, sheet.FieldTwitter, fields.Get(sheet.FieldTwitter))
	member.Bluesky = cleanURL(ctx, rowRef, sheet.FieldBluesky, fields.Get(sheet.FieldBluesky))
	member.Mastodon = cleanURL(ctx, rowRef, sheet.FieldMastodon, fields.Get(sheet.FieldMastodon))
	member.ImageURL = cleanURL(ctx, rowRef, sheet.FieldImageURL, fields.Get(sheet.FieldImageURL))

	return member, nil
}

// cleanURL returns the trimmed value when it parses as an absolute http(s)
// URL, or "" after logging a warning. A bad link costs the field, never
// the record.
func cleanURL(ctx context.Context, rowRef, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logging.Ctx(ctx).Warn().
			Str("row", rowRef).
			Str("field", field).
			Str("value", value).
			Msg("Dropping malformed URL field")
		return ""
	}
	return value
}

// Report is the batch validation report for one run. Per-row failures
// never abort the batch; the pipeline proceeds with all valid members.
type Report struct {
	// Errors are the collected per-row validation failures.
	Errors []error

	// Duplicates are identity collisions; for each, the later row won.
	Duplicates []*errors.DuplicateIdentityError

	// SkippedNoConsent counts rows dropped because consent was not given.
	SkippedNoConsent int
}

// HasIssues reports whether anything needs operator attention.
func (r *Report) HasIssues() bool {
	return len(r.Errors) > 0 || len(r.Duplicates) > 0
}

// ValidateRows validates a whole table through the resolved mapper.
// Rows without consent are skipped silently (counted, not errored).
// Identity collisions keep the later row and are reported for review.
func ValidateRows(ctx context.Context, mapper *sheet.Mapper, table *sheet.Table) (Roster, *Report) {
	report := &Report{}
	var members Roster
	position := make(map[string]int) // identity -> index in members

	for _, row := range table.Rows {
		fields := mapper.Fields(row)
		if !yes(fields.Get(sheet.FieldConsent)) {
			report.SkippedNoConsent++
			continue
		}

		member, err := Validate(ctx, fields, row.Ref())
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("row", row.Ref()).Msg("Row failed validation")
			report.Errors = append(report.Errors, err)
			continue
		}

		if prev, ok := position[member.Identity]; ok {
			report.Duplicates = append(report.Duplicates, &errors.DuplicateIdentityError{
				Identity: member.Identity,
				Rows:     []string{members[prev].rowRef, member.rowRef},
			})
			members[prev] = *member // later row wins
			continue
		}

		position[member.Identity] = len(members)
		members = append(members, *member)
	}

	return members, report
}
