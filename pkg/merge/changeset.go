// Package merge computes the additive merge between the previously
// published roster and the freshly validated one, producing the new
// collection and a change summary that drives commit and PR messaging.
package merge

import (
	"fmt"
	"strings"
)

// Update describes an existing member whose record changed.
type Update struct {
	Identity string
	Fields   []string // names of the changed fields
}

// Warning records a non-fatal degradation, such as a failed image fetch,
// attached to the run for operator review.
type Warning struct {
	Identity string
	Reason   string
}

// Changeset represents all changes of one reconciliation run.
type Changeset struct {
	Added     []string // identities new to the collection
	Updated   []Update // identities replaced with changed records
	Unchanged []string // identities kept verbatim
	Stale     []string // previous identities missing from the source, retained
	Removed   []string // identities deleted (only when deletion is enabled)

	// ImagesChanged lists identities whose stored image file was written
	// this run. An image can change while the member record does not, and
	// the new file still has to be published.
	ImagesChanged []string

	Duplicates []string  // identities that collided within the source batch
	Warnings   []Warning // degradations collected along the way
}

// HasChanges returns true if the run altered the collection or any
// stored image.
func (c *Changeset) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Updated) > 0 || len(c.Removed) > 0 ||
		len(c.ImagesChanged) > 0
}

// IsEmpty returns true if the changeset contains no changes at all.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// UpdatedIdentities returns just the identities of the updated records.
func (c *Changeset) UpdatedIdentities() []string {
	ids := make([]string, 0, len(c.Updated))
	for _, u := range c.Updated {
		ids = append(ids, u.Identity)
	}
	return ids
}

// String returns a human-readable one-line summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() && len(c.Stale) == 0 {
		return "No changes detected"
	}

	var parts []string
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Unchanged) > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", len(c.Unchanged)))
	}
	if len(c.Stale) > 0 {
		parts = append(parts, fmt.Sprintf("%d stale", len(c.Stale)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}
	if len(c.ImagesChanged) > 0 {
		parts = append(parts, fmt.Sprintf("%d images", len(c.ImagesChanged)))
	}
	if len(c.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", len(c.Warnings)))
	}

	return "Members: " + strings.Join(parts, ", ")
}

// Details renders the full changeset as markdown, used for the pull
// request body.
func (c *Changeset) Details() string {
	var b strings.Builder

	section := func(title string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(&b, "### %s (%d)\n", title, len(ids))
		for _, id := range ids {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
		b.WriteString("\n")
	}

	section("Added", c.Added)

	if len(c.Updated) > 0 {
		fmt.Fprintf(&b, "### Updated (%d)\n", len(c.Updated))
		for _, u := range c.Updated {
			if len(u.Fields) > 0 {
				fmt.Fprintf(&b, "- `%s`: %s\n", u.Identity, strings.Join(u.Fields, ", "))
			} else {
				fmt.Fprintf(&b, "- `%s`\n", u.Identity)
			}
		}
		b.WriteString("\n")
	}

	section("Stale (kept, review for removal)", c.Stale)
	section("Removed", c.Removed)
	section("Images changed", c.ImagesChanged)
	section("Duplicate identities (later row won)", c.Duplicates)

	if len(c.Warnings) > 0 {
		fmt.Fprintf(&b, "### Warnings (%d)\n", len(c.Warnings))
		for _, w := range c.Warnings {
			fmt.Fprintf(&b, "- `%s`: %s\n", w.Identity, w.Reason)
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "No changes.\n"
	}
	return b.String()
}
