package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "skedy/database/repository/availability"
	"skedy/models"
	"skedy/utils"

	"go.uber.org/zap"
)

// ApplyBookingToStore decrements the provider count of every stored slot
// entry, in every duration bucket, whose generated window overlaps the
// booking. Entries reaching zero are dropped, not kept as placeholders. The
// booking id is recorded on the snapshot so a second application of the same
// booking is a no-op; the return value is false in that case.
//
// A booking can cross UTC midnight, and a stored entry starting late on the
// previous UTC date can still reach into the booking, so the adjacent UTC
// date keys around the booking's start are swept as well; the overlap test
// keeps unrelated entries untouched.
func ApplyBookingToStore(store *models.AvailabilityStore, booking *models.Booking, buckets []int) bool {
	if store.HasApplied(booking.ID) {
		return false
	}

	for _, dateKey := range bookingDateKeys(booking) {
		day, ok := store.Slots[dateKey]
		if !ok {
			continue
		}
		for _, bucket := range buckets {
			bucketKey := models.BucketKey(bucket)
			entries, ok := day[bucketKey]
			if !ok {
				continue
			}
			kept := make([]models.SlotEntry, 0, len(entries))
			for _, entry := range entries {
				start := entry.StartAt()
				end := utils.AddMinutes(start, bucket)
				if utils.Overlaps(start, end, booking.StartAt, booking.EndAt) {
					entry.ProviderCount--
					if entry.ProviderCount <= 0 {
						continue
					}
				}
				kept = append(kept, entry)
			}
			if len(kept) == 0 {
				delete(day, bucketKey)
			} else {
				day[bucketKey] = kept
			}
		}
	}

	store.MarkApplied(booking.ID, utils.UTCDateKey(booking.EndAt.Add(-time.Millisecond)))
	return true
}

// bookingDateKeys returns the UTC date keys a booking can possibly affect:
// the day before its start (an entry there can still overlap into the
// booking), its start day, and its end day when the booking crosses UTC
// midnight.
func bookingDateKeys(booking *models.Booking) []string {
	startKey := utils.UTCDateKey(booking.StartAt)
	keys := []string{
		utils.UTCDateKey(booking.StartAt.AddDate(0, 0, -1)),
		startKey,
	}
	endKey := utils.UTCDateKey(booking.EndAt.Add(-time.Millisecond))
	if endKey != startKey {
		keys = append(keys, endKey)
	}
	return keys
}

// ApplyBooking loads the business's store snapshot, applies the booking
// under the per-business lock, and persists the reduced capacity. The slot
// is not considered consumed until the save succeeds.
func (e *DefaultAvailabilityEngine) ApplyBooking(ctx context.Context, booking *models.Booking) error {
	logger := utils.GetLogger()

	if booking == nil || booking.ID == "" || booking.BusinessID == "" {
		return NewInputValidationError("booking must carry an id and a business id")
	}
	if !booking.EndAt.After(booking.StartAt) {
		return NewInputValidationError("booking end %s must be after start %s",
			booking.EndAt.Format(time.RFC3339), booking.StartAt.Format(time.RFC3339))
	}

	lock := e.locks.forBusiness(booking.BusinessID)
	lock.Lock()
	defer lock.Unlock()

	store, err := e.Availability.GetByBusiness(ctx, booking.BusinessID)
	if err != nil {
		return fmt.Errorf("failed to load availability for business %s: %w", booking.BusinessID, err)
	}
	if store == nil {
		return NewConfigurationError("availability not configured for business %s", booking.BusinessID)
	}

	if !ApplyBookingToStore(store, booking, e.Buckets) {
		logger.Warn("booking already applied, skipping",
			zap.String("businessID", booking.BusinessID), zap.String("bookingID", booking.ID))
		return nil
	}

	if err := e.Availability.Save(ctx, store); err != nil {
		return e.mapSaveError(booking.BusinessID, err)
	}
	e.invalidate(ctx, booking.BusinessID)

	logger.Info("applied booking to availability",
		zap.String("businessID", booking.BusinessID),
		zap.String("bookingID", booking.ID),
		zap.Time("startAt", booking.StartAt),
		zap.Time("endAt", booking.EndAt))
	return nil
}

func (e *DefaultAvailabilityEngine) mapSaveError(businessID string, err error) error {
	if errors.Is(err, availabilityRepo.ErrVersionConflict) {
		return NewConcurrencyAnomalyError("availability for business %s changed since read; retry with a fresh snapshot", businessID)
	}
	return fmt.Errorf("failed to save availability for business %s: %w", businessID, err)
}
