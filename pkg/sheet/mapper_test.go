package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/sheet"
)

func testMapping() sheet.Mapping {
	return sheet.Mapping{
		sheet.FieldName:      "Full Name",
		sheet.FieldConsent:   "May we publish your profile?",
		sheet.FieldChair:     "Chair",
		sheet.FieldCommittee: "Committee",
		sheet.FieldGitHub:    "GitHub",
		sheet.FieldImageURL:  "Photo",
	}
}

func testHeader() []string {
	return []string{"Timestamp", "Full Name", "May we publish your profile?", "Chair", "Committee", "GitHub", "Photo"}
}

func TestResolve(t *testing.T) {
	mapper, err := testMapping().Resolve(testHeader())
	require.NoError(t, err)

	row := sheet.Row{Number: 1, Cells: []string{
		"2026-08-01", "  A Lee ", "yes", "no", "program", "https://github.com/alee", "",
	}}
	fields := mapper.Fields(row)

	assert.Equal(t, "A Lee", fields.Get(sheet.FieldName))
	assert.Equal(t, "yes", fields.Get(sheet.FieldConsent))
	assert.Equal(t, "program", fields.Get(sheet.FieldCommittee))
	assert.Equal(t, "", fields.Get(sheet.FieldImageURL))
}

func TestResolveMissingColumnIsConfigError(t *testing.T) {
	mapping := testMapping()
	mapping[sheet.FieldLinkedIn] = "LinkedIn Profile" // not in header

	_, err := mapping.Resolve(testHeader())
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "LinkedIn Profile")
}

func TestResolveRequiresNameAndConsent(t *testing.T) {
	mapping := sheet.Mapping{sheet.FieldGitHub: "GitHub"}

	_, err := mapping.Resolve(testHeader())
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestResolveEmptyMapping(t *testing.T) {
	_, err := sheet.Mapping{}.Resolve(testHeader())
	require.Error(t, err)
}

func TestFieldsShortRow(t *testing.T) {
	mapper, err := testMapping().Resolve(testHeader())
	require.NoError(t, err)

	// Trailing empty cells are often dropped by the export
	row := sheet.Row{Number: 2, Cells: []string{"2026-08-01", "B Kim", "yes"}}
	fields := mapper.Fields(row)

	assert.Equal(t, "B Kim", fields.Get(sheet.FieldName))
	assert.Equal(t, "", fields.Get(sheet.FieldGitHub))
	assert.Equal(t, "", fields.Get(sheet.FieldImageURL))
}
