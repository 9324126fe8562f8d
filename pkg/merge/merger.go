package merge

import (
	"context"
	"sort"

	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/roster"
)

// Sort keys accepted by Options.SortKey.
const (
	SortByName     = "name"
	SortByIdentity = "identity"
)

// Options controls merge behavior.
type Options struct {
	// SortKey orders the merged collection. Defaults to SortByName.
	SortKey string

	// AllowDelete removes previous members missing from the source instead
	// of flagging them stale. Off by default: the source sheet can lose a
	// row accidentally, so deletion is never automatic.
	AllowDelete bool
}

// Merge reconciles the freshly validated members against the previous
// collection by identity. New identities are added, changed records
// replaced, identical records kept verbatim (preserving the previous
// entry exactly), and previous identities missing from the source are
// retained and flagged stale unless deletion is enabled.
func Merge(ctx context.Context, previous, incoming roster.Roster, opts Options) (roster.Roster, *Changeset) {
	prevIndex := previous.Index()
	incomingIDs := make(map[string]bool, len(incoming))

	changeset := &Changeset{}
	var merged roster.Roster

	for _, member := range incoming {
		incomingIDs[member.Identity] = true

		prev, existed := prevIndex[member.Identity]
		switch {
		case !existed:
			changeset.Added = append(changeset.Added, member.Identity)
			merged = append(merged, member)
		case prev.Equal(member):
			changeset.Unchanged = append(changeset.Unchanged, member.Identity)
			merged = append(merged, prev) // keep previous entry verbatim
		default:
			changeset.Updated = append(changeset.Updated, Update{
				Identity: member.Identity,
				Fields:   changedFields(prev, member),
			})
			merged = append(merged, member)
		}
	}

	// Previous identities missing from the source. Deletion is a change
	// this pipeline performs only when explicitly enabled.
	for _, prev := range previous {
		if incomingIDs[prev.Identity] {
			continue
		}
		if opts.AllowDelete {
			changeset.Removed = append(changeset.Removed, prev.Identity)
			logging.Ctx(ctx).Warn().Str("identity", prev.Identity).Msg("Deleting stale member")
			continue
		}
		changeset.Stale = append(changeset.Stale, prev.Identity)
		merged = append(merged, prev)
	}

	sortRoster(merged, opts.SortKey)

	logging.Ctx(ctx).Info().
		Int("added", len(changeset.Added)).
		Int("updated", len(changeset.Updated)).
		Int("unchanged", len(changeset.Unchanged)).
		Int("stale", len(changeset.Stale)).
		Int("removed", len(changeset.Removed)).
		Msg("Merged roster")

	return merged, changeset
}

// sortRoster orders members by the configured key; ties keep their
// original relative order.
func sortRoster(members roster.Roster, key string) {
	switch key {
	case SortByIdentity:
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Identity < members[j].Identity
		})
	case SortByName, "":
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Name < members[j].Name
		})
	}
}

// changedFields lists the names of the persisted fields that differ
// between two records.
func changedFields(old, new roster.Member) []string {
	var fields []string
	add := func(name, a, b string) {
		if a != b {
			fields = append(fields, name)
		}
	}

	add("name", old.Name, new.Name)
	add("role", old.Role, new.Role)
	add("committee", old.Committee, new.Committee)
	add("image_name", old.ImageName, new.ImageName)
	add("github", old.GitHub, new.GitHub)
	add("linkedin", old.LinkedIn, new.LinkedIn)
	add("website", old.Website, new.Website)
	add("twitter", old.Twitter, new.Twitter)
	add("bluesky", old.Bluesky, new.Bluesky)
	add("mastodon", old.Mastodon, new.Mastodon)
	add("image_url", old.ImageURL, new.ImageURL)

	return fields
}
