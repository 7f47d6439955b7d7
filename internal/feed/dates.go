package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olehvh/cek-outage-api/internal/models"
)

// Announcements carry Kyiv civil dates regardless of where this service runs,
// so all day boundaries are anchored to the publication timezone.
var kyiv = loadKyiv()

func loadKyiv() *time.Location {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}

// Ukrainian genitive month names as they appear in announcements.
var months = map[string]time.Month{
	"СІЧНЯ":     time.January,
	"ЛЮТОГО":    time.February,
	"БЕРЕЗНЯ":   time.March,
	"КВІТНЯ":    time.April,
	"ТРАВНЯ":    time.May,
	"ЧЕРВНЯ":    time.June,
	"ЛИПНЯ":     time.July,
	"СЕРПНЯ":    time.August,
	"ВЕРЕСНЯ":   time.September,
	"ЖОВТНЯ":    time.October,
	"ЛИСТОПАДА": time.November,
	"ГРУДНЯ":    time.December,
}

// Matches "29 ГРУДНЯ", "02 грудня".
var reDate = regexp.MustCompile(`(\d{1,2})\s+([А-ЯІЇЄа-яіїє]+)`)

// ResolveDate finds the first day-of-month followed by a recognized month name
// in the text and resolves it to Kyiv midnight of that day. The year defaults
// to now's; a January date seen in December rolls forward a year, a December
// date seen in January rolls back one. The date is classified relative to
// now's Kyiv civil date; ok is false when the text carries no recognizable
// date or the date is neither today nor tomorrow.
func ResolveDate(text string, now time.Time) (time.Time, models.DayKey, bool) {
	nowKyiv := now.In(kyiv)
	today := midnight(nowKyiv)
	tomorrow := today.AddDate(0, 0, 1)

	for _, m := range reDate.FindAllStringSubmatch(text, -1) {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		month, ok := months[strings.ToUpper(m[2])]
		if !ok {
			continue
		}

		year := nowKyiv.Year()
		switch {
		case month == time.January && nowKyiv.Month() == time.December:
			year++
		case month == time.December && nowKyiv.Month() == time.January:
			year--
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, kyiv)
		if date.Day() != day || date.Month() != month {
			// Normalization moved the date: the day number does not exist
			// in that month.
			continue
		}

		switch {
		case date.Equal(today):
			return date, models.DayToday, true
		case date.Equal(tomorrow):
			return date, models.DayTomorrow, true
		default:
			return time.Time{}, "", false
		}
	}

	return time.Time{}, "", false
}

func midnight(t time.Time) time.Time {
	t = t.In(kyiv)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, kyiv)
}
