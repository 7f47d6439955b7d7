package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olehvh/cek-outage-api/internal/models"
	"github.com/olehvh/cek-outage-api/internal/timeline"
)

var (
	// Group markers: "📌 1.1", "🔹 Черга 1.1", "📌 Черга 1.1", "🔹 1.1".
	reGroupMarker = regexp.MustCompile(`[📌🔹]\s*(?:[Чч]ерга\s*)?(\d\.\d)`)

	// Time ranges: "06:00 - 11:00", "06:00 до 11:00", "06:00 по 11:00".
	reTimeRange = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(?:до|по|-)\s*(\d{1,2}):(\d{2})`)
)

// Phrases that mark a message as a full schedule replacement rather than an
// incremental patch.
var fullScheduleMarkers = []string{
	"зміни в гпв",
	"графік погодинних відключень",
	"застосовуватимуться відключення наступних черг",
	"графік може змінюватися",
}

// IsFullUpdate reports whether the message replaces all previously known
// intervals for the groups it mentions.
func IsFullUpdate(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range fullScheduleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// applyMessage splits the message into group-tagged segments and applies each
// segment's time ranges to the (group, day) accumulator: full updates replace
// the accumulated raw ranges, patches append to them. Slots are recomputed
// from the full raw-range set after every update. Returns the groups the
// message actually updated; a segment without time ranges updates nothing.
func applyMessage(schedule models.Schedule, text string, key models.DayKey, date time.Time, fullUpdate bool) []string {
	markers := reGroupMarker.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return nil
	}

	var touched []string
	for i, loc := range markers {
		group := text[loc[2]:loc[3]]

		bodyEnd := len(text)
		if i+1 < len(markers) {
			bodyEnd = markers[i+1][0]
		}
		ranges := extractRanges(text[loc[1]:bodyEnd])
		if len(ranges) == 0 {
			continue
		}

		gs, ok := schedule[group]
		if !ok {
			gs = &models.GroupSchedule{}
			schedule[group] = gs
		}

		rec := gs.Day(key)
		if rec == nil {
			rec = &models.DayRecord{
				Date:   date,
				Status: models.StatusScheduleApplies,
				Slots:  []models.Slot{},
			}
			gs.SetDay(key, rec)
		}

		if fullUpdate {
			rec.RawRanges = ranges
		} else {
			rec.RawRanges = append(rec.RawRanges, ranges...)
		}
		rec.Slots = timeline.ToSlots(rec.RawRanges)

		touched = append(touched, group)
	}

	return touched
}

// extractRanges pulls all time ranges out of a message segment. A "00:00" end
// token means end of day and becomes 1440; degenerate ranges are dropped.
func extractRanges(text string) []models.TimeRange {
	var ranges []models.TimeRange
	for _, m := range reTimeRange.FindAllStringSubmatch(text, -1) {
		start := toMinutes(m[1], m[2])
		end := toMinutes(m[3], m[4])
		if end == 0 {
			end = timeline.MinutesPerDay
		}
		if start < 0 || start >= end || end > timeline.MinutesPerDay {
			continue
		}
		ranges = append(ranges, models.TimeRange{Start: start, End: end})
	}
	return ranges
}

func toMinutes(hours, minutes string) int {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return -1
	}
	return h*60 + m
}
