package checkin

import "time"

// Schedule holds the prompt timing policy.
type Schedule struct {
	DayStartHour int
	DayEndHour   int
	Interval     time.Duration
	TTL          time.Duration
}

// IsDaytime reports whether now's hour falls in the half-open window
// [startHour, endHour). A window that wraps midnight (start > end) covers the
// hours on both sides; equal hours mean always.
func IsDaytime(now time.Time, startHour, endHour int) bool {
	if startHour == endHour {
		return true
	}
	if startHour < endHour {
		return startHour <= now.Hour() && now.Hour() < endHour
	}
	return now.Hour() >= startHour || now.Hour() < endHour
}

// SlotFree reports whether a new prompt may be issued: no prompt is
// outstanding, the last one was answered, or it has outlived the TTL.
func (s Schedule) SlotFree(now time.Time, st State) bool {
	if st.LastPromptAt == nil {
		return true
	}
	if st.Answered() {
		return true
	}
	return now.Sub(*st.LastPromptAt) >= s.TTL
}

// IsDue decides whether a scheduled prompt should go out now. It is a pure
// function of its inputs; callers inject the clock.
func (s Schedule) IsDue(now time.Time, st State) bool {
	if !IsDaytime(now, s.DayStartHour, s.DayEndHour) {
		return false
	}
	if st.LastPromptAt == nil {
		return true
	}
	if now.Sub(*st.LastPromptAt) < s.Interval {
		return false
	}
	return s.SlotFree(now, st)
}

// Expired reports whether the outstanding prompt has gone unanswered past the
// TTL and should be abandoned.
func (s Schedule) Expired(now time.Time, st State) bool {
	if st.LastPromptAt == nil || st.Answered() {
		return false
	}
	return now.Sub(*st.LastPromptAt) >= s.TTL
}

// NextTickDelay returns the time until the next interval boundary, so that an
// hourly schedule fires on the hour.
func NextTickDelay(now time.Time, interval time.Duration) time.Duration {
	next := now.Truncate(interval).Add(interval)
	d := next.Sub(now)
	if d <= 0 {
		return interval
	}
	return d
}
