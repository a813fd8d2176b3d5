package timezone

import (
	"ofcoz/config"
	"ofcoz/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, booking days are evaluated in UTC")

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, booking days are evaluated in UTC")

		return
	}

	appLocation = loc

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// SetLocation overrides the configured location. Intended for tests and tools.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	appLocation = loc
}

func GetLocation() *time.Location {
	return appLocation
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Parse reads value as wall clock time in the application location.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

// ParseDay reads a YYYY-MM-DD calendar day, returning its midnight in the application location.
func ParseDay(value string) (time.Time, error) {
	return Parse(constant.DateOnlyLayout, value)
}

// StartOfDay is local midnight of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, appLocation)
}

// EndOfDay is the last second of the day t falls on.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}

func StartOfMonth(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, appLocation)
}

// Day is the calendar day of t in the application location, formatted YYYY-MM-DD.
func Day(t time.Time) string {
	return Format(t, constant.DateOnlyLayout)
}
