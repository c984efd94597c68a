package store

import (
	"context"
	"testing"
	"time"

	"trackbot/internal/track"

	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	records := []track.Activity{
		{EntryTimestamp: base.Add(3 * time.Hour), ActivityTimestamp: base, DurationMinutes: 60, Quadrant: 2, Description: "Deep work on project X", Tags: []string{"work", "coding"}},
		{EntryTimestamp: base.Add(1 * time.Hour), ActivityTimestamp: base.Add(2 * time.Hour), DurationMinutes: 30, Quadrant: 4, Description: "Scrolled Twitter", Tags: []string{"distraction", "social"}},
		{EntryTimestamp: base.Add(2 * time.Hour), ActivityTimestamp: base.Add(1 * time.Hour), DurationMinutes: 20, Quadrant: 2, Description: "Planned the week", Tags: []string{"planning", "focus"}},
	}
	for _, r := range records {
		_, err := m.Add(context.Background(), r)
		require.NoError(t, err)
	}
	return m
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	m := NewMemory()
	for want := int64(1); want <= 3; want++ {
		id, err := m.Add(context.Background(), track.Activity{Description: "x", DurationMinutes: 1, Quadrant: 1})
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
}

func TestListOrderings(t *testing.T) {
	m := seedStore(t)
	ctx := context.Background()

	byID, err := m.List(ctx, 10, SortByID)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids(byID))

	byAdded, err := m.List(ctx, 10, SortByAdded)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 2}, ids(byAdded))

	byEvent, err := m.List(ctx, 10, SortByEvent)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 1}, ids(byEvent))
}

func TestListByIDReturnsLastNAscending(t *testing.T) {
	m := seedStore(t)
	got, err := m.List(context.Background(), 2, SortByID)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, ids(got))
}

func TestSearchTagsMatchWithOr(t *testing.T) {
	m := seedStore(t)
	got, err := m.Search(context.Background(), Filter{Tags: []string{"work", "focus"}})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1}, ids(got))
	for _, a := range got {
		require.True(t, hasAnyTag(a, "work", "focus"), "record %d has neither tag", a.ID)
	}
}

func TestSearchCategoriesCombineWithAnd(t *testing.T) {
	m := seedStore(t)

	// Quadrant alone matches two records; adding a keyword narrows to one.
	got, err := m.Search(context.Background(), Filter{Quadrant: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = m.Search(context.Background(), Filter{Quadrant: 2, Keywords: []string{"project"}})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids(got))
}

func TestSearchKeywordsMatchWithOr(t *testing.T) {
	m := seedStore(t)
	got, err := m.Search(context.Background(), Filter{Keywords: []string{"twitter", "week"}})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, ids(got))
}

func TestSearchTagMatchIsWholeTagCaseInsensitive(t *testing.T) {
	m := seedStore(t)
	got, err := m.Search(context.Background(), Filter{Tags: []string{"WORK"}})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids(got))

	// "soc" is a substring of the "social" tag but not a tag itself.
	got, err = m.Search(context.Background(), Filter{Tags: []string{"soc"}})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRemove(t *testing.T) {
	m := seedStore(t)
	ctx := context.Background()

	ok, err := m.Remove(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Remove(ctx, 2)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := m.Get(ctx, 2)
	require.NoError(t, err)
	require.Nil(t, got)
}

func ids(activities []track.Activity) []int64 {
	out := make([]int64, len(activities))
	for i, a := range activities {
		out[i] = a.ID
	}
	return out
}

func hasAnyTag(a track.Activity, tags ...string) bool {
	for _, want := range tags {
		for _, have := range a.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
