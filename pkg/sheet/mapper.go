package sheet

import (
	"sort"
	"strings"

	"github.com/agentstation/teamroster/pkg/errors"
)

// Logical field names recognized by the pipeline. The mapping file binds
// each of these to a source column header.
const (
	FieldName      = "name"
	FieldCommittee = "committee"
	FieldConsent   = "consent"
	FieldChair     = "chair"
	FieldGitHub    = "github"
	FieldLinkedIn  = "linkedin"
	FieldWebsite   = "website"
	FieldTwitter   = "twitter"
	FieldBluesky   = "bluesky"
	FieldMastodon  = "mastodon"
	FieldImageURL  = "image_url"
)

// RequiredFields are the logical fields a mapping must bind for the
// pipeline to work at all. The remaining fields are optional and default
// to empty when unmapped.
var RequiredFields = []string{FieldName, FieldConsent}

// Mapping declares logical field name to source column header. It comes
// from the configuration file and is validated once at startup against
// the actual header set.
type Mapping map[string]string

// Fields holds the mapped cell values for one row, keyed by logical field
// name. Values are trimmed; empty cells map to the empty string and are
// left to the validator to judge.
type Fields map[string]string

// Get returns the value for a logical field, or "" when unmapped.
func (f Fields) Get(field string) string {
	return f[field]
}

// Mapper provides typed access over raw rows once the mapping has been
// resolved against a concrete header set.
type Mapper struct {
	indices map[string]int
}

// Resolve validates the mapping against the header set and returns a
// Mapper. A configured column absent from the header is a ConfigError:
// it implies schema drift upstream that the operator must fix, so the
// run stops here rather than failing row by row.
func (m Mapping) Resolve(header []string) (*Mapper, error) {
	if len(m) == 0 {
		return nil, errors.NewConfigError("column_mapping", "no columns configured", nil)
	}
	for _, field := range RequiredFields {
		if _, ok := m[field]; !ok {
			return nil, errors.NewConfigError("column_mapping", "required field "+field+" is not mapped", nil)
		}
	}

	byHeader := make(map[string]int, len(header))
	for i, h := range header {
		byHeader[strings.TrimSpace(h)] = i
	}

	indices := make(map[string]int, len(m))
	var missing []string
	for field, column := range m {
		idx, ok := byHeader[strings.TrimSpace(column)]
		if !ok {
			missing = append(missing, column)
			continue
		}
		indices[field] = idx
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NewConfigError("column_mapping",
			"columns not found in sheet header: "+strings.Join(missing, ", "), nil)
	}

	return &Mapper{indices: indices}, nil
}

// Fields maps one raw row into logical field values. Missing cells in a
// short row are treated as empty, per-row emptiness is not an error here.
func (mp *Mapper) Fields(row Row) Fields {
	fields := make(Fields, len(mp.indices))
	for field, idx := range mp.indices {
		if idx < len(row.Cells) {
			fields[field] = strings.TrimSpace(row.Cells[idx])
		} else {
			fields[field] = ""
		}
	}
	return fields
}
