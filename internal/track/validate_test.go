package track

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 14, 30, 0, 0, time.UTC)

func TestParseTimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		when string
		want time.Time
	}{
		{"full date-time", "2026-01-04T10:30:00", time.Date(2026, 1, 4, 10, 30, 0, 0, time.UTC)},
		{"date and time", "2026-01-04 10:30", time.Date(2026, 1, 4, 10, 30, 0, 0, time.UTC)},
		{"date only", "2026-01-04", time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)},
		{"time only uses today", "10:30", time.Date(2026, 1, 10, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.when, testNow)
			require.NoError(t, err)
			require.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("next tuesday-ish", testNow)
	require.ErrorIs(t, err, ErrBadTimestamp)
}

func TestResolveTimestampDefaultsToNowMinusDuration(t *testing.T) {
	for _, when := range []string{"", "now", "  NOW "} {
		got, err := ResolveTimestamp(when, 45, testNow)
		require.NoError(t, err)
		require.True(t, got.Equal(testNow.Add(-45*time.Minute)), "when=%q got %v", when, got)
	}
}

func TestValidate(t *testing.T) {
	raw := RawFields{
		When:        "2026-01-04 10:30",
		Duration:    "45",
		Quadrant:    "2",
		Description: "Deep work on project X",
		Tags:        "work, coding,focus",
	}
	got, err := Validate(raw, testNow)
	require.NoError(t, err)
	require.Equal(t, 45, got.DurationMinutes)
	require.Equal(t, 2, got.Quadrant)
	require.Equal(t, "Deep work on project X", got.Description)
	require.Equal(t, []string{"work", "coding", "focus"}, got.Tags)
	require.True(t, got.ActivityTimestamp.Equal(time.Date(2026, 1, 4, 10, 30, 0, 0, time.UTC)))
}

func TestValidateRejectsBadFields(t *testing.T) {
	base := RawFields{When: "10:30", Duration: "30", Quadrant: "1", Description: "ok"}

	tests := []struct {
		name   string
		mutate func(*RawFields)
		want   error
	}{
		{"zero duration", func(r *RawFields) { r.Duration = "0" }, ErrBadDuration},
		{"negative duration", func(r *RawFields) { r.Duration = "-5" }, ErrBadDuration},
		{"non-numeric duration", func(r *RawFields) { r.Duration = "half an hour" }, ErrBadDuration},
		{"empty description", func(r *RawFields) { r.Description = "   " }, ErrBadDescription},
		{"bad timestamp", func(r *RawFields) { r.When = "not a time" }, ErrBadTimestamp},
		{"non-numeric quadrant", func(r *RawFields) { r.Quadrant = "two" }, ErrBadQuadrant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base
			tt.mutate(&raw)
			_, err := Validate(raw, testNow)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateRejectsAllOutOfRangeQuadrants(t *testing.T) {
	raw := RawFields{When: "10:30", Duration: "30", Description: "ok"}
	for _, q := range []int{-1, 0, 5, 6, 99} {
		raw.Quadrant = strconv.Itoa(q)
		_, err := Validate(raw, testNow)
		require.ErrorIs(t, err, ErrBadQuadrant, "quadrant %d", q)
	}
}

func TestValidateIdempotentNormalization(t *testing.T) {
	raw := RawFields{
		When:        "2026-01-04 10:30",
		Duration:    " 30 ",
		Quadrant:    " 4 ",
		Description: "  Scrolled Twitter  ",
		Tags:        "distraction,, social ,",
	}
	first, err := Validate(raw, testNow)
	require.NoError(t, err)

	// Re-serialize and validate again; the result must not change.
	again, err := Validate(RawFields{
		When:        first.ActivityTimestamp.Format("2006-01-02 15:04"),
		Duration:    strconv.Itoa(first.DurationMinutes),
		Quadrant:    strconv.Itoa(first.Quadrant),
		Description: first.Description,
		Tags:        strings.Join(first.Tags, ","),
	}, testNow)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func TestSplitTagsKeepsDuplicatesAndOrder(t *testing.T) {
	require.Equal(t, []string{"work", "focus", "work"}, SplitTags("work, focus, work"))
	require.Nil(t, SplitTags(" , ,"))
}
