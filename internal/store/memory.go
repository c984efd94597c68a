package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"trackbot/internal/track"
)

// Memory keeps activities in memory. It backs tests and local development
// and follows the same contract as Postgres.
type Memory struct {
	mu         sync.RWMutex
	nextID     int64
	activities map[int64]track.Activity
}

func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		activities: make(map[int64]track.Activity),
	}
}

func (m *Memory) Add(ctx context.Context, a track.Activity) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.EntryTimestamp.IsZero() {
		a.EntryTimestamp = time.Now()
	}
	a.ID = m.nextID
	m.nextID++
	m.activities[a.ID] = a
	return a.ID, nil
}

func (m *Memory) Get(ctx context.Context, id int64) (*track.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.activities[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) List(ctx context.Context, limit int, sortKey SortKey) ([]track.Activity, error) {
	m.mu.RLock()
	all := m.snapshot()
	m.mu.RUnlock()

	switch sortKey {
	case SortByAdded:
		sort.Slice(all, func(i, j int) bool { return all[i].EntryTimestamp.After(all[j].EntryTimestamp) })
	case SortByEvent:
		sort.Slice(all, func(i, j int) bool { return all[i].ActivityTimestamp.After(all[j].ActivityTimestamp) })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		if len(all) > limit {
			all = all[len(all)-limit:]
		}
		return all, nil
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Memory) Search(ctx context.Context, f Filter) ([]track.Activity, error) {
	m.mu.RLock()
	all := m.snapshot()
	m.mu.RUnlock()

	var matched []track.Activity
	for _, a := range all {
		if f.Matches(a) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ActivityTimestamp.After(matched[j].ActivityTimestamp) })
	return matched, nil
}

func (m *Memory) Remove(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.activities[id]; !ok {
		return false, nil
	}
	delete(m.activities, id)
	return true, nil
}

func (m *Memory) snapshot() []track.Activity {
	all := make([]track.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		all = append(all, a)
	}
	return all
}
