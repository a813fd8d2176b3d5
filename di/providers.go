package di

import (
	availabilityService "ofcoz/internal/domains/availability/service"
)

// provideGate narrows the availability service to the check bookings depend on.
func provideGate(availability availabilityService.Availability) availabilityService.Gate {
	return availability
}
