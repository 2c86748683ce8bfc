package scheduling

import (
	"context"
	"fmt"
	"time"

	"skedy/models"
	"skedy/utils"

	"go.uber.org/zap"
)

// BuildHorizon computes full-capacity availability for numberOfDays
// business-local days starting at fromLocalDate, for every duration bucket.
// The result is keyed by UTC calendar date; a single business-local day can
// contribute to two UTC date keys, and one UTC date key can collect entries
// from two adjacent local days.
func BuildHorizon(
	providers []models.Provider,
	hoursByProvider map[string]models.WeeklyHours,
	bookingsByProvider map[string][]models.Booking,
	loc *time.Location,
	fromLocalDate string,
	numberOfDays int,
	buckets []int,
) (map[string]models.DaySlots, error) {
	firstDay, err := utils.ParseLocalDate(fromLocalDate, loc)
	if err != nil {
		return nil, NewInputValidationError("invalid horizon start %q: %v", fromLocalDate, err)
	}
	if numberOfDays <= 0 {
		return nil, NewInputValidationError("horizon length must be positive, got %d", numberOfDays)
	}

	out := make(map[string]models.DaySlots)
	for offset := 0; offset < numberOfDays; offset++ {
		localDate := firstDay.AddDate(0, 0, offset).Format(utils.DateKeyLayout)

		for _, bucket := range buckets {
			byProvider := make(map[string][]time.Time)
			for _, p := range providers {
				hours, ok := hoursByProvider[p.ID]
				if !ok {
					continue
				}
				window, err := ResolveProviderWindow(p.ID, hours, localDate, loc)
				if err != nil {
					return nil, err
				}
				if window == nil {
					continue
				}
				candidates := providerCandidates(*window, bucket, bookingsByProvider[p.ID])
				if len(candidates) > 0 {
					byProvider[p.ID] = candidates
				}
			}

			bucketKey := models.BucketKey(bucket)
			for _, entry := range aggregateCandidates(byProvider, loc) {
				dateKey := utils.UTCDateKey(entry.StartAt())
				if out[dateKey] == nil {
					out[dateKey] = make(models.DaySlots)
				}
				out[dateKey][bucketKey] = mergeEntries(out[dateKey][bucketKey], []models.SlotEntry{entry})
			}
		}
	}
	return out, nil
}

// GenerateInitialHorizon populates a business's availability store for
// numberOfDays business-local days starting at fromLocalDate. Only absent
// UTC date keys are written; re-running over populated dates never restores
// capacity already consumed by real bookings.
func (e *DefaultAvailabilityEngine) GenerateInitialHorizon(ctx context.Context, businessID, fromLocalDate string, numberOfDays int) error {
	logger := utils.GetLogger()

	biz, err := e.Businesses.GetByID(ctx, businessID)
	if err != nil {
		return NewConfigurationError("business %s not found: %v", businessID, err)
	}
	loc, err := time.LoadLocation(biz.Timezone)
	if err != nil {
		return NewConfigurationError("business %s has invalid timezone %q", businessID, biz.Timezone)
	}
	if numberOfDays <= 0 {
		numberOfDays = e.HorizonDays
	}

	fresh, err := e.freshHorizon(ctx, biz, loc, fromLocalDate, numberOfDays)
	if err != nil {
		return err
	}

	lock := e.locks.forBusiness(businessID)
	lock.Lock()
	defer lock.Unlock()

	store, err := e.Availability.GetByBusiness(ctx, businessID)
	if err != nil {
		return fmt.Errorf("failed to load availability for business %s: %w", businessID, err)
	}
	if store == nil {
		store = models.NewAvailabilityStore(businessID)
	}

	written := 0
	for dateKey, daySlots := range fresh {
		if _, exists := store.Slots[dateKey]; !exists {
			store.Slots[dateKey] = daySlots
			written++
		}
	}

	if err := e.Availability.Save(ctx, store); err != nil {
		return e.mapSaveError(businessID, err)
	}
	e.invalidate(ctx, businessID)

	logger.Info("generated availability horizon",
		zap.String("businessID", businessID),
		zap.String("fromLocalDate", fromLocalDate),
		zap.Int("days", numberOfDays),
		zap.Int("dateKeysWritten", written))
	return nil
}

// freshHorizon gathers the roster, calendar settings and confirmed bookings
// for the generation range and runs the pure horizon builder.
func (e *DefaultAvailabilityEngine) freshHorizon(ctx context.Context, biz *models.Business, loc *time.Location, fromLocalDate string, numberOfDays int) (map[string]models.DaySlots, error) {
	providers, err := e.Providers.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers for business %s: %w", biz.ID, err)
	}
	if len(providers) == 0 {
		return nil, NewConfigurationError("business %s has no active providers", biz.ID)
	}

	settings, err := e.Calendars.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar settings for business %s: %w", biz.ID, err)
	}
	hoursByProvider := make(map[string]models.WeeklyHours, len(settings))
	for _, s := range settings {
		hoursByProvider[s.ProviderID] = s.Hours
	}
	if len(hoursByProvider) == 0 {
		return nil, NewConfigurationError("business %s has no calendar settings", biz.ID)
	}

	firstDay, err := utils.ParseLocalDate(fromLocalDate, loc)
	if err != nil {
		return nil, NewInputValidationError("invalid horizon start %q: %v", fromLocalDate, err)
	}

	// The fetch range is padded by a day on each side: overnight windows can
	// start bookings before local midnight and spill past the last local day.
	rangeFrom := firstDay.AddDate(0, 0, -1).UTC()
	rangeTo := firstDay.AddDate(0, 0, numberOfDays+1).UTC()
	providerIDs := make([]string, len(providers))
	for i, p := range providers {
		providerIDs[i] = p.ID
	}
	bookings, err := e.Bookings.ListConfirmedInRange(ctx, biz.ID, providerIDs, rangeFrom, rangeTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for business %s: %w", biz.ID, err)
	}
	bookingsByProvider := make(map[string][]models.Booking)
	for _, b := range bookings {
		bookingsByProvider[b.ProviderID] = append(bookingsByProvider[b.ProviderID], b)
	}

	return BuildHorizon(providers, hoursByProvider, bookingsByProvider, loc, fromLocalDate, numberOfDays, e.Buckets)
}

func (e *DefaultAvailabilityEngine) invalidate(ctx context.Context, businessID string) {
	if e.InvalidateCache != nil {
		e.InvalidateCache(ctx, businessID)
	}
}
