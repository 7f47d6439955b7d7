package models

import "time"

// DayKey addresses one of the two tracked civil days of a group schedule.
type DayKey string

const (
	DayToday    DayKey = "today"
	DayTomorrow DayKey = "tomorrow"
)

// SlotType marks a timeline slot as a planned outage or as free of known outages.
type SlotType string

const (
	SlotDefinite   SlotType = "Definite"
	SlotNotPlanned SlotType = "NotPlanned"
)

// DayStatus describes the overall state of a group's schedule for one day.
type DayStatus string

const (
	StatusScheduleApplies    DayStatus = "ScheduleApplies"
	StatusWaitingForSchedule DayStatus = "WaitingForSchedule"
	StatusEmergencyShutdowns DayStatus = "EmergencyShutdowns"
)

// TimeRange is a half-open [Start, End) interval in minutes from midnight.
// A raw "00:00" end token is reinterpreted as 1440 before a range is stored.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Slot is one segment of a gapless day timeline. Slots for a day are sorted,
// contiguous, non-overlapping and exactly cover [0, 1440).
type Slot struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Type  SlotType `json:"type"`
}

// DayRecord holds the reconstructed outage timeline of one group for one day.
// RawRanges keeps the accumulated, unmerged intervals so a later patch message
// can extend them without losing earlier updates; it is not part of the API
// payload.
type DayRecord struct {
	Date      time.Time   `json:"date"`
	Status    DayStatus   `json:"status"`
	Slots     []Slot      `json:"slots"`
	RawRanges []TimeRange `json:"-"`
}

// GroupSchedule is the per-group result: today's and tomorrow's records plus
// the latest known publication timestamp for the group.
type GroupSchedule struct {
	Today     *DayRecord `json:"today,omitempty"`
	Tomorrow  *DayRecord `json:"tomorrow,omitempty"`
	UpdatedOn time.Time  `json:"updatedOn"`
}

// Day returns the record stored under the given key, or nil.
func (g *GroupSchedule) Day(key DayKey) *DayRecord {
	if g == nil {
		return nil
	}
	if key == DayTomorrow {
		return g.Tomorrow
	}
	return g.Today
}

// SetDay stores the record under the given key.
func (g *GroupSchedule) SetDay(key DayKey, rec *DayRecord) {
	if key == DayTomorrow {
		g.Tomorrow = rec
		return
	}
	g.Today = rec
}

// Schedule maps group identifiers such as "1.1" to their schedules.
type Schedule map[string]*GroupSchedule

// Message is one extracted feed announcement. Published carries the raw
// publish-time attribute value when present, empty otherwise.
type Message struct {
	Text      string
	Published string
}
