package roster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/roster"
	"github.com/agentstation/teamroster/pkg/sheet"
)

func fields(m map[string]string) sheet.Fields {
	f := sheet.Fields{}
	for k, v := range m {
		f[k] = v
	}
	return f
}

func TestValidate(t *testing.T) {
	logging.DisableLoggingForTest(t)

	member, err := roster.Validate(context.Background(), fields(map[string]string{
		sheet.FieldName:      "A Lee",
		sheet.FieldChair:     "Yes",
		sheet.FieldCommittee: "program",
		sheet.FieldGitHub:    "https://github.com/alee",
	}), "3")
	require.NoError(t, err)

	assert.Equal(t, "a_lee", member.Identity)
	assert.Equal(t, "A Lee", member.Name)
	assert.Equal(t, "Chair", member.Role)
	assert.Equal(t, "program", member.Committee)
	assert.Equal(t, "https://github.com/alee", member.GitHub)
	assert.Equal(t, "3", member.RowRef())
}

func TestValidateEmptyNameFails(t *testing.T) {
	_, err := roster.Validate(context.Background(), fields(map[string]string{
		sheet.FieldName: "   ",
	}), "5")
	require.Error(t, err)

	var valErr *errors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "5", valErr.Row)
	assert.False(t, errors.IsFatal(err))
}

func TestValidateDefaultsCommittee(t *testing.T) {
	member, err := roster.Validate(context.Background(), fields(map[string]string{
		sheet.FieldName: "B Kim",
	}), "1")
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultCommittee, member.Committee)
	assert.Empty(t, member.Role)
}

func TestValidateDropsMalformedURLs(t *testing.T) {
	logging.DisableLoggingForTest(t)

	member, err := roster.Validate(context.Background(), fields(map[string]string{
		sheet.FieldName:     "B Kim",
		sheet.FieldGitHub:   "not a url",
		sheet.FieldWebsite:  "ftp://old.example.com",
		sheet.FieldLinkedIn: "https://linkedin.com/in/bkim",
		sheet.FieldImageURL: "://bad",
	}), "2")
	require.NoError(t, err)

	assert.Empty(t, member.GitHub, "malformed URL should drop the field, not the record")
	assert.Empty(t, member.Website, "non-http scheme should be dropped")
	assert.Empty(t, member.ImageURL)
	assert.Equal(t, "https://linkedin.com/in/bkim", member.LinkedIn)
}

func makeTable(rows ...[]string) *sheet.Table {
	t := &sheet.Table{Header: []string{"Name", "Consent", "Chair", "Committee"}}
	for i, cells := range rows {
		t.Rows = append(t.Rows, sheet.Row{Number: i + 1, Cells: cells})
	}
	return t
}

func rowMapper(t *testing.T) *sheet.Mapper {
	t.Helper()
	mapper, err := sheet.Mapping{
		sheet.FieldName:      "Name",
		sheet.FieldConsent:   "Consent",
		sheet.FieldChair:     "Chair",
		sheet.FieldCommittee: "Committee",
	}.Resolve([]string{"Name", "Consent", "Chair", "Committee"})
	require.NoError(t, err)
	return mapper
}

func TestValidateRowsPartialFailure(t *testing.T) {
	logging.DisableLoggingForTest(t)

	table := makeTable(
		[]string{"A Lee", "yes", "no", "program"},
		[]string{"", "yes", "no", "web"}, // invalid: empty name
		[]string{"B Kim", "yes", "no", "web"},
	)

	members, report := roster.ValidateRows(context.Background(), rowMapper(t), table)

	require.Len(t, members, 2, "valid rows must survive an invalid sibling")
	assert.Equal(t, "a_lee", members[0].Identity)
	assert.Equal(t, "b_kim", members[1].Identity)
	require.Len(t, report.Errors, 1)
	assert.True(t, report.HasIssues())
}

func TestValidateRowsConsentFilter(t *testing.T) {
	logging.DisableLoggingForTest(t)

	table := makeTable(
		[]string{"A Lee", "yes", "", ""},
		[]string{"B Kim", "no", "", ""},
		[]string{"C Diaz", "", "", ""},
	)

	members, report := roster.ValidateRows(context.Background(), rowMapper(t), table)

	require.Len(t, members, 1)
	assert.Equal(t, 2, report.SkippedNoConsent)
	assert.Empty(t, report.Errors, "withheld consent is a skip, not an error")
}

func TestValidateRowsDuplicateIdentityLastWins(t *testing.T) {
	logging.DisableLoggingForTest(t)

	table := makeTable(
		[]string{"A Lee", "yes", "no", "program"},
		[]string{"a lee", "yes", "yes", "web"},
	)

	members, report := roster.ValidateRows(context.Background(), rowMapper(t), table)

	require.Len(t, members, 1)
	assert.Equal(t, "web", members[0].Committee, "later row must win")
	assert.Equal(t, "Chair", members[0].Role)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "a_lee", report.Duplicates[0].Identity)
	assert.Equal(t, []string{"1", "2"}, report.Duplicates[0].Rows)
}
