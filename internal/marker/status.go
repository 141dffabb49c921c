package marker

import (
	"image/color"
	"time"

	"signage-planner/pkg/colorutil"
)

// StatusEmpty is the lifecycle status of a spot with nothing installed.
const StatusEmpty = "empty"

// ExpiringWindowDays is the inclusive window, in days, in which an expiry date
// counts as expiring soon.
const ExpiringWindowDays = 7

// Label is the render category derived from a marker's status fields.
type Label string

const (
	LabelEmpty     Label = "empty"
	LabelScheduled Label = "scheduled"
	LabelOverdue   Label = "overdue"
	LabelExpiring  Label = "expiring"
	LabelCurrent   Label = "current"
)

// Palette maps each label to its render color.
var Palette = map[Label]color.NRGBA{
	LabelEmpty:     colorutil.Gray,
	LabelScheduled: colorutil.Blue,
	LabelOverdue:   colorutil.Red,
	LabelExpiring:  colorutil.Amber,
	LabelCurrent:   colorutil.Green,
}

// DraftColor is the accent used for in-progress placements.
var DraftColor = colorutil.Purple

// LabelFor classifies a marker's status as of now. The checks run in a fixed
// order: empty, scheduled, overdue, expiring, current. Dates are compared as
// calendar days in now's location.
func LabelFor(m Marker, now time.Time) Label {
	s := m.Status
	if s.Status == StatusEmpty {
		return LabelEmpty
	}
	today := dayOf(now, now.Location())
	if s.NextPlannedDate != nil && dayOf(*s.NextPlannedDate, now.Location()).After(today) {
		return LabelScheduled
	}
	if s.ExpiryDate != nil {
		days := daysBetween(today, dayOf(*s.ExpiryDate, now.Location()))
		if days < 0 {
			return LabelOverdue
		}
		if days <= ExpiringWindowDays {
			return LabelExpiring
		}
	}
	return LabelCurrent
}

// ColorFor returns the render color for a marker as of now.
func ColorFor(m Marker, now time.Time) color.NRGBA {
	return Palette[LabelFor(m, now)]
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts whole calendar days from a to b, both at midnight.
// Rounding absorbs DST shifts.
func daysBetween(a, b time.Time) int {
	h := b.Sub(a).Hours()
	if h >= 0 {
		return int((h + 12) / 24)
	}
	return -int((-h + 12) / 24)
}
