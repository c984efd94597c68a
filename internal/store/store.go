// Package store persists activity records.
package store

import (
	"context"
	"strings"

	"trackbot/internal/track"
)

// SortKey selects the ordering of List results.
type SortKey string

const (
	// SortByID returns the last N records in insertion order, oldest first.
	SortByID SortKey = "id"
	// SortByAdded orders by entry timestamp, newest first.
	SortByAdded SortKey = "added"
	// SortByEvent orders by activity timestamp, newest first.
	SortByEvent SortKey = "event"
)

// Filter narrows a search. Within a category values match with OR; categories
// combine with AND. A zero Quadrant means any quadrant.
type Filter struct {
	Tags     []string
	Keywords []string
	Quadrant int
}

func (f Filter) Empty() bool {
	return len(f.Tags) == 0 && len(f.Keywords) == 0 && f.Quadrant == 0
}

// Matches reports whether a satisfies the filter. Tags match whole tags
// case-insensitively; keywords match by containment in the description.
func (f Filter) Matches(a track.Activity) bool {
	if f.Quadrant != 0 && a.Quadrant != f.Quadrant {
		return false
	}
	if len(f.Tags) > 0 && !matchesAnyTag(f.Tags, a.Tags) {
		return false
	}
	if len(f.Keywords) > 0 && !containsAnyKeyword(f.Keywords, a.Description) {
		return false
	}
	return true
}

func matchesAnyTag(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}

func containsAnyKeyword(keywords []string, description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range keywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Store is the durable keyed storage of activity records.
type Store interface {
	// Add persists the record and returns its assigned id. A zero entry
	// timestamp is stamped with the current time.
	Add(ctx context.Context, a track.Activity) (int64, error)
	// Get returns the record with the given id, or nil if none exists.
	Get(ctx context.Context, id int64) (*track.Activity, error)
	// List returns up to limit records under the given ordering.
	List(ctx context.Context, limit int, sort SortKey) ([]track.Activity, error)
	// Search returns records matching the filter, newest activity first.
	Search(ctx context.Context, f Filter) ([]track.Activity, error)
	// Remove deletes the record and reports whether it existed.
	Remove(ctx context.Context, id int64) (bool, error)
}
