package track

import (
	"time"
)

// Quadrants maps an Eisenhower quadrant to its label.
var Quadrants = map[int]string{
	1: "Urgent & Important (Do)",
	2: "Not Urgent & Important (Schedule)",
	3: "Urgent & Not Important (Delegate)",
	4: "Not Urgent & Not Important (Eliminate)",
}

// Activity is a single logged activity.
type Activity struct {
	ID                int64
	EntryTimestamp    time.Time
	ActivityTimestamp time.Time
	DurationMinutes   int
	Quadrant          int
	Description       string
	Tags              []string
}
