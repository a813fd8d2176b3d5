// Package timezone pins wall clock and calendar day arithmetic to the cafe's location.
//
// Bookings are priced and gated by local day, so anything that asks "which day is this" goes through here
// instead of time.Local. The location comes from APP_TIMEZONE and falls back to UTC.
package timezone
