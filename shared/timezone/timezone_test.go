package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofcoz/shared/timezone"
)

func withLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)

	previous := timezone.GetLocation()
	timezone.SetLocation(loc)
	t.Cleanup(func() { timezone.SetLocation(previous) })

	return loc
}

func TestDayBoundaries(t *testing.T) {
	loc := withLocation(t, "Asia/Taipei")

	// 17:30 UTC is already the next morning in Taipei.
	instant := time.Date(2026, 3, 31, 17, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-04-01", timezone.Day(instant))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, loc), timezone.StartOfDay(instant))
	assert.Equal(t, time.Date(2026, 4, 1, 23, 59, 59, 0, loc), timezone.EndOfDay(instant))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, loc), timezone.StartOfMonth(instant))
}

func TestParseDay(t *testing.T) {
	loc := withLocation(t, "Asia/Taipei")

	day, err := timezone.ParseDay("2026-05-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, loc), day)

	_, err = timezone.ParseDay("20-05-2026")
	assert.Error(t, err)
}

func TestNowAndFormat(t *testing.T) {
	withLocation(t, "UTC")

	assert.Equal(t, time.UTC, timezone.Now().Location())
	assert.Equal(t, "12:00", timezone.Format(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "15:04"))
}

func TestSetLocation_NilFallsBackToUTC(t *testing.T) {
	withLocation(t, "Asia/Taipei")

	timezone.SetLocation(nil)

	assert.Equal(t, time.UTC, timezone.GetLocation())
}
