// Package roster defines the team member domain model: validated member
// records, identity derivation, and the persisted databag collection
// consumed by the website generator.
package roster

// Member is one person's published profile. Members are rebuilt fresh
// every run from the source sheet and merged into the previous collection
// by identity; they are never mutated in place across runs.
type Member struct {
	// Identity is the stable unique key derived from the display name.
	// Invariant: non-empty, unique within a collection.
	Identity string `json:"identity"`

	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	Committee string `json:"committee,omitempty"`

	// ImageName is the relative filename of the materialized image asset,
	// empty when no image was supplied or the fetch degraded.
	ImageName string `json:"image_name,omitempty"`

	// Link fields. Optional, absent rather than null.
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Bluesky  string `json:"bluesky,omitempty"`
	Mastodon string `json:"mastodon,omitempty"`

	// ImageURL is the upstream image reference from the form.
	ImageURL string `json:"image_url,omitempty"`

	// rowRef points back at the originating sheet row. Diagnostics only,
	// never persisted.
	rowRef string
}

// RowRef returns the opaque reference to the originating row, or "" for
// members loaded from previous state.
func (m *Member) RowRef() string {
	return m.rowRef
}

// Equal reports whether two members are field-for-field identical,
// ignoring the row reference.
func (m Member) Equal(other Member) bool {
	m.rowRef, other.rowRef = "", ""
	return m == other
}

// Roster is an ordered collection of members. Order is display order.
type Roster []Member

// Index returns the members keyed by identity.
func (r Roster) Index() map[string]Member {
	idx := make(map[string]Member, len(r))
	for _, m := range r {
		idx[m.Identity] = m
	}
	return idx
}

// Identities returns the identities in collection order.
func (r Roster) Identities() []string {
	ids := make([]string, 0, len(r))
	for _, m := range r {
		ids = append(ids, m.Identity)
	}
	return ids
}
