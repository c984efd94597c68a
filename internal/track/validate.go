package track

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadTimestamp   = errors.New("bad timestamp")
	ErrBadDuration    = errors.New("bad duration")
	ErrBadQuadrant    = errors.New("bad quadrant")
	ErrBadDescription = errors.New("bad description")
)

// RawFields is a candidate activity before validation. All fields are the
// string forms they arrive in, from CLI flags or interpreted chat replies.
type RawFields struct {
	When        string
	Duration    string
	Quadrant    string
	Description string
	Tags        string
}

// Accepted timestamp layouts. "15:04" is combined with today's date.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04",
}

// ParseTimestamp parses when under one of the accepted layouts, in now's
// location. Time-only values take today's date.
func ParseTimestamp(when string, now time.Time) (time.Time, error) {
	when = strings.TrimSpace(when)
	for _, layout := range timestampLayouts {
		ts, err := time.ParseInLocation(layout, when, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			ts = time.Date(now.Year(), now.Month(), now.Day(), ts.Hour(), ts.Minute(), 0, 0, now.Location())
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: could not parse %q; try formats: '2026-01-04 10:30', '2026-01-04', '10:30'", ErrBadTimestamp, when)
}

// ResolveTimestamp returns the activity timestamp for when. An empty value or
// the literal "now" means the activity just ended, so it started duration
// minutes ago.
func ResolveTimestamp(when string, durationMinutes int, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(when)
	if trimmed == "" || strings.EqualFold(trimmed, "now") {
		return now.Add(-time.Duration(durationMinutes) * time.Minute), nil
	}
	return ParseTimestamp(trimmed, now)
}

// SplitTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries. Duplicates and order are preserved.
func SplitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// Validate normalizes raw into an Activity. It is pure: identical input and
// identical now always produce the same result. The returned Activity has no
// ID or entry timestamp; the store assigns both.
func Validate(raw RawFields, now time.Time) (Activity, error) {
	desc := strings.TrimSpace(raw.Description)
	if desc == "" {
		return Activity{}, fmt.Errorf("%w: description must not be empty", ErrBadDescription)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(raw.Duration))
	if err != nil || duration <= 0 {
		return Activity{}, fmt.Errorf("%w: duration must be a positive number of minutes, got %q", ErrBadDuration, raw.Duration)
	}

	quadrant, err := strconv.Atoi(strings.TrimSpace(raw.Quadrant))
	if err != nil {
		return Activity{}, fmt.Errorf("%w: quadrant must be a number 1-4, got %q", ErrBadQuadrant, raw.Quadrant)
	}
	if _, ok := Quadrants[quadrant]; !ok {
		return Activity{}, fmt.Errorf("%w: quadrant must be 1-4, got %d", ErrBadQuadrant, quadrant)
	}

	ts, err := ResolveTimestamp(raw.When, duration, now)
	if err != nil {
		return Activity{}, err
	}

	return Activity{
		ActivityTimestamp: ts,
		DurationMinutes:   duration,
		Quadrant:          quadrant,
		Description:       desc,
		Tags:              SplitTags(raw.Tags),
	}, nil
}
