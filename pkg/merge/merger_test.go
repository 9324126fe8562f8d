package merge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/merge"
	"github.com/agentstation/teamroster/pkg/roster"
)

func TestMergeAddAndKeep(t *testing.T) {
	logging.DisableLoggingForTest(t)

	previous := roster.Roster{{Identity: "a_lee", Name: "A Lee"}}
	incoming := roster.Roster{
		{Identity: "a_lee", Name: "A Lee"},
		{Identity: "b_kim", Name: "B Kim"},
	}

	merged, cs := merge.Merge(context.Background(), previous, incoming, merge.Options{})

	require.Len(t, merged, 2)
	assert.Equal(t, []string{"b_kim"}, cs.Added)
	assert.Empty(t, cs.Updated)
	assert.Equal(t, []string{"a_lee"}, cs.Unchanged)
	assert.Empty(t, cs.Stale)
	assert.True(t, cs.HasChanges())
}

func TestMergeIdempotent(t *testing.T) {
	logging.DisableLoggingForTest(t)

	incoming := roster.Roster{
		{Identity: "a_lee", Name: "A Lee", Committee: "program"},
		{Identity: "b_kim", Name: "B Kim", Committee: "web"},
	}

	first, cs1 := merge.Merge(context.Background(), nil, incoming, merge.Options{})
	require.Len(t, cs1.Added, 2)

	second, cs2 := merge.Merge(context.Background(), first, incoming, merge.Options{})

	assert.True(t, cs2.IsEmpty(), "second run with identical input must be all-unchanged")
	assert.Len(t, cs2.Unchanged, 2)
	assert.Equal(t, first, second)
}

func TestMergeUpdateReplaces(t *testing.T) {
	logging.DisableLoggingForTest(t)

	previous := roster.Roster{{Identity: "a_lee", Name: "A Lee", Role: ""}}
	incoming := roster.Roster{{Identity: "a_lee", Name: "A Lee", Role: "Chair", GitHub: "https://github.com/alee"}}

	merged, cs := merge.Merge(context.Background(), previous, incoming, merge.Options{})

	require.Len(t, merged, 1)
	assert.Equal(t, "Chair", merged[0].Role)
	require.Len(t, cs.Updated, 1)
	assert.Equal(t, "a_lee", cs.Updated[0].Identity)
	assert.ElementsMatch(t, []string{"role", "github"}, cs.Updated[0].Fields)
}

func TestMergeNoSilentDeletion(t *testing.T) {
	logging.DisableLoggingForTest(t)

	previous := roster.Roster{
		{Identity: "a_lee", Name: "A Lee"},
		{Identity: "gone", Name: "Gone Person"},
	}
	incoming := roster.Roster{{Identity: "a_lee", Name: "A Lee"}}

	merged, cs := merge.Merge(context.Background(), previous, incoming, merge.Options{})

	require.Len(t, merged, 2, "missing identities must be retained")
	assert.Equal(t, []string{"gone"}, cs.Stale)
	assert.Empty(t, cs.Removed)
	assert.False(t, cs.HasChanges(), "stale flagging alone is not a change")
}

func TestMergeAllowDelete(t *testing.T) {
	logging.DisableLoggingForTest(t)

	previous := roster.Roster{
		{Identity: "a_lee", Name: "A Lee"},
		{Identity: "gone", Name: "Gone Person"},
	}
	incoming := roster.Roster{{Identity: "a_lee", Name: "A Lee"}}

	merged, cs := merge.Merge(context.Background(), previous, incoming, merge.Options{AllowDelete: true})

	require.Len(t, merged, 1)
	assert.Equal(t, []string{"gone"}, cs.Removed)
	assert.Empty(t, cs.Stale)
	assert.True(t, cs.HasChanges())
}

func TestMergeIdentityUniqueness(t *testing.T) {
	logging.DisableLoggingForTest(t)

	previous := roster.Roster{
		{Identity: "a_lee", Name: "A Lee"},
		{Identity: "b_kim", Name: "B Kim"},
	}
	incoming := roster.Roster{
		{Identity: "b_kim", Name: "B Kim", Role: "Chair"},
		{Identity: "c_diaz", Name: "C Diaz"},
	}

	merged, _ := merge.Merge(context.Background(), previous, incoming, merge.Options{})

	seen := map[string]bool{}
	for _, m := range merged {
		assert.False(t, seen[m.Identity], "identity %s appears twice", m.Identity)
		seen[m.Identity] = true
	}
}

func TestMergeSortStable(t *testing.T) {
	logging.DisableLoggingForTest(t)

	incoming := roster.Roster{
		{Identity: "z_first", Name: "Zoe"},
		{Identity: "a_lee", Name: "A Lee"},
		{Identity: "z_second", Name: "Zoe"}, // same sort key, later original position
	}

	merged, _ := merge.Merge(context.Background(), nil, incoming, merge.Options{SortKey: merge.SortByName})

	require.Len(t, merged, 3)
	assert.Equal(t, "a_lee", merged[0].Identity)
	assert.Equal(t, "z_first", merged[1].Identity, "ties must keep original relative order")
	assert.Equal(t, "z_second", merged[2].Identity)
}

func TestChangesetRendering(t *testing.T) {
	cs := &merge.Changeset{
		Added:   []string{"b_kim"},
		Updated: []merge.Update{{Identity: "a_lee", Fields: []string{"role"}}},
		Stale:   []string{"gone"},
		Warnings: []merge.Warning{
			{Identity: "b_kim", Reason: "image fetch failed: 404"},
		},
	}

	summary := cs.String()
	assert.Contains(t, summary, "1 added")
	assert.Contains(t, summary, "1 updated")
	assert.Contains(t, summary, "1 stale")

	body := cs.Details()
	assert.Contains(t, body, "`b_kim`")
	assert.Contains(t, body, "`a_lee`: role")
	assert.Contains(t, body, "Stale")
	assert.Contains(t, body, "404")
}

func TestChangesetEmpty(t *testing.T) {
	cs := &merge.Changeset{}
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, "No changes detected", cs.String())
}

func TestChangesetImageOnlyChange(t *testing.T) {
	cs := &merge.Changeset{
		Unchanged:     []string{"a_lee"},
		ImagesChanged: []string{"a_lee"},
	}

	assert.True(t, cs.HasChanges(), "a rewritten image file must be published")
	assert.False(t, cs.IsEmpty())
	assert.Contains(t, cs.String(), "1 images")
	assert.Contains(t, cs.Details(), "Images changed")
	assert.Contains(t, cs.Details(), "a_lee")
}
