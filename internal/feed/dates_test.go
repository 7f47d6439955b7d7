package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehvh/cek-outage-api/internal/models"
)

func TestResolveDateToday(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, kyiv)

	date, key, ok := ResolveDate("Відключення 10 ЛИПНЯ по чергах", now)

	require.True(t, ok)
	assert.Equal(t, models.DayToday, key)
	assert.Equal(t, time.Date(2025, time.July, 10, 0, 0, 0, 0, kyiv), date)
}

func TestResolveDateTomorrowLowercase(t *testing.T) {
	now := time.Date(2025, time.July, 10, 23, 30, 0, 0, kyiv)

	date, key, ok := ResolveDate("Графік на 11 липня", now)

	require.True(t, ok)
	assert.Equal(t, models.DayTomorrow, key)
	assert.Equal(t, time.Date(2025, time.July, 11, 0, 0, 0, 0, kyiv), date)
}

func TestResolveDateForwardYearRollover(t *testing.T) {
	now := time.Date(2024, time.December, 31, 18, 0, 0, 0, kyiv)

	date, key, ok := ResolveDate("Графік на 1 СІЧНЯ", now)

	require.True(t, ok)
	assert.Equal(t, models.DayTomorrow, key)
	assert.Equal(t, 2025, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 1, date.Day())
}

func TestResolveDateBackwardYearRollover(t *testing.T) {
	// A stale December message read in January resolves into the previous
	// year and is therefore irrelevant.
	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, kyiv)

	_, _, ok := ResolveDate("Графік на 31 ГРУДНЯ", now)

	assert.False(t, ok)
}

func TestResolveDateIrrelevant(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, kyiv)

	_, _, ok := ResolveDate("Відключення 20 ЛИПНЯ", now)

	assert.False(t, ok)
}

func TestResolveDateNoDate(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, kyiv)

	_, _, ok := ResolveDate("Шановні споживачі, дякуємо за розуміння", now)

	assert.False(t, ok)
}

func TestResolveDateUnknownMonthWordSkipped(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, kyiv)

	// "10 черга" is a day-number followed by a non-month word; the real
	// date later in the text still resolves.
	date, key, ok := ResolveDate("По 10 черзі енергетиків: відключення 10 ЛИПНЯ", now)

	require.True(t, ok)
	assert.Equal(t, models.DayToday, key)
	assert.Equal(t, 10, date.Day())
}

func TestResolveDateNonexistentDay(t *testing.T) {
	now := time.Date(2025, time.February, 28, 12, 0, 0, 0, kyiv)

	_, _, ok := ResolveDate("Графік на 30 ЛЮТОГО", now)

	assert.False(t, ok)
}

func TestResolveDateAnchoredToKyiv(t *testing.T) {
	// 23:30 UTC on July 10 is already July 11 in Kyiv.
	now := time.Date(2025, time.July, 10, 23, 30, 0, 0, time.UTC)

	_, key, ok := ResolveDate("Графік на 11 ЛИПНЯ", now)

	require.True(t, ok)
	assert.Equal(t, models.DayToday, key)
}
