package scheduling

import (
	"context"
	"time"

	availabilityRepo "skedy/database/repository/availability"
	bookingRepo "skedy/database/repository/booking"
	businessRepo "skedy/database/repository/business"
	calendarRepo "skedy/database/repository/calendar"
	providerRepo "skedy/database/repository/provider"
	"skedy/models"
)

// AvailabilityEngine precomputes bookable time slots across all of a
// business's providers, consumes bookings to reduce remaining capacity,
// answers day-availability queries, and keeps a rolling horizon current.
type AvailabilityEngine interface {
	// GenerateInitialHorizon populates the store for numberOfDays
	// business-local days starting at fromLocalDate. Already-populated UTC
	// date keys are left untouched so re-runs never restore consumed capacity.
	GenerateInitialHorizon(ctx context.Context, businessID, fromLocalDate string, numberOfDays int) error
	// CheckDayAvailability returns the still-available start times on a
	// business-local date for the smallest duration bucket that can contain
	// the requested minutes.
	CheckDayAvailability(ctx context.Context, businessID, localDate string, requestedMinutes int) (*DayAvailabilityResult, error)
	// ApplyBooking decrements provider counts for every stored slot whose
	// window overlaps the booking, in every duration bucket, and persists
	// the reduced store.
	ApplyBooking(ctx context.Context, booking *models.Booking) error
	// OrchestrateRollover runs the horizon maintenance sweep for every
	// business at local midnight relative to the given UTC instant.
	OrchestrateRollover(ctx context.Context, now time.Time) error
}

// DefaultAvailabilityEngine is the production implementation.
type DefaultAvailabilityEngine struct {
	Businesses   businessRepo.BusinessRepository
	Providers    providerRepo.ProviderRepository
	Calendars    calendarRepo.CalendarSettingsRepository
	Bookings     bookingRepo.BookingRepository
	Availability availabilityRepo.AvailabilityRepository

	// Buckets is the deployment-wide list of supported appointment lengths
	// in minutes, sorted ascending.
	Buckets []int
	// HorizonDays is the rolling availability horizon maintained by rollover.
	HorizonDays int
	// InvalidateCache, when set, is called after any operation that changes
	// a business's persisted availability.
	InvalidateCache func(ctx context.Context, businessID string)

	locks lockRegistry
}
