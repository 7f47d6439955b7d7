package feed

import (
	"strings"
	"time"

	"github.com/olehvh/cek-outage-api/internal/models"
)

// Announcements mentioning these places belong to neighbouring service areas
// and never contribute to the schedule.
var ignoredCities = []string{
	"ЖОВТІ ВОДИ",
	"ВІЛЬНОГІРСЬК",
	"ПАВЛОГРАД",
	"ЗЕЛЕНОДОЛЬСЬК",
	"АПОСТОЛОВЕ",
	"КРИВОРІЗЬК",
}

// BuildSchedule replays chronologically ordered messages (oldest first) into a
// per-group schedule. Messages mentioning out-of-area places, carrying no
// recognizable date, or dated neither today nor tomorrow are skipped. After
// the fold every known group has both day entries (missing ones are backfilled
// with WaitingForSchedule) and a populated UpdatedOn.
func BuildSchedule(messages []models.Message, now time.Time) models.Schedule {
	schedule := models.Schedule{}
	latestPublished := map[string]string{}

	for _, msg := range messages {
		if mentionsIgnoredCity(msg.Text) {
			continue
		}

		date, key, ok := ResolveDate(msg.Text, now)
		if !ok {
			continue
		}

		touched := applyMessage(schedule, msg.Text, key, date, IsFullUpdate(msg.Text))
		if msg.Published == "" {
			continue
		}
		for _, group := range touched {
			prev, seen := latestPublished[group]
			if !seen || publishedAfter(msg.Published, prev) {
				latestPublished[group] = msg.Published
			}
		}
	}

	fillMissingDays(schedule, now)

	for group, raw := range latestPublished {
		gs, ok := schedule[group]
		if !ok {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			gs.UpdatedOn = ts.In(kyiv)
		}
	}

	// Groups with data but no usable publish time still get a stamp.
	fallback := now.In(kyiv)
	for _, gs := range schedule {
		if gs.UpdatedOn.IsZero() {
			gs.UpdatedOn = fallback
		}
	}

	return schedule
}

func mentionsIgnoredCity(text string) bool {
	upper := strings.ToUpper(text)
	for _, city := range ignoredCities {
		if strings.Contains(upper, city) {
			return true
		}
	}
	return false
}

// publishedAfter compares two raw publish timestamps. Malformed values are
// treated as absent: the incoming timestamp wins rather than failing the fold.
func publishedAfter(incoming, current string) bool {
	in, err := time.Parse(time.RFC3339, incoming)
	if err != nil {
		return true
	}
	cur, err := time.Parse(time.RFC3339, current)
	if err != nil {
		return true
	}
	return in.After(cur)
}

// fillMissingDays gives every group that appeared in the fold a record for
// both tracked days so no group is left partially populated.
func fillMissingDays(schedule models.Schedule, now time.Time) {
	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)

	for _, gs := range schedule {
		if gs.Today == nil {
			gs.Today = waitingRecord(today)
		}
		if gs.Tomorrow == nil {
			gs.Tomorrow = waitingRecord(tomorrow)
		}
	}
}

func waitingRecord(date time.Time) *models.DayRecord {
	return &models.DayRecord{
		Date:   date,
		Status: models.StatusWaitingForSchedule,
		Slots:  []models.Slot{},
	}
}
