package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"skedy/models"
	"skedy/utils"
)

// AvailableTime is one still-bookable start time in the query response,
// rendered in business-local wall-clock time.
type AvailableTime struct {
	LocalTime     string `json:"localTime"`
	ProviderCount int    `json:"providerCount"`
	TimestampMs   int64  `json:"timestampMs"`
}

// DayAvailabilityResult answers "what times are free on date D for duration
// M". An empty Times list with a Message is a successful fully-booked
// result, not an error.
type DayAvailabilityResult struct {
	Date          string          `json:"date"`
	BucketMinutes int             `json:"bucketMinutes"`
	Times         []AvailableTime `json:"times"`
	Message       string          `json:"message,omitempty"`
}

// QueryDayAvailability selects the smallest duration bucket that can contain
// the requested minutes (round up, never down) and returns the entries of
// that bucket starting within the business-local day, in time order. A local
// day can span two UTC date keys; both are inspected.
func QueryDayAvailability(store *models.AvailabilityStore, loc *time.Location, localDate string, buckets []int, requestedMinutes int) (*DayAvailabilityResult, error) {
	if requestedMinutes <= 0 {
		return nil, NewInputValidationError("requested duration must be positive, got %d", requestedMinutes)
	}
	dayStart, err := utils.ParseLocalDate(localDate, loc)
	if err != nil {
		return nil, NewInputValidationError("invalid date %q: %v", localDate, err)
	}

	bucket, ok := models.SmallestBucketAtLeast(buckets, requestedMinutes)
	if !ok {
		return nil, NewNoBucketError("no duration bucket can hold %d minutes (largest is %d)",
			requestedMinutes, buckets[len(buckets)-1])
	}
	bucketKey := models.BucketKey(bucket)

	dayStartUTC := dayStart.UTC()
	dayEndUTC := dayStart.AddDate(0, 0, 1).UTC()

	dateKeys := []string{utils.UTCDateKey(dayStartUTC)}
	if lastKey := utils.UTCDateKey(dayEndUTC.Add(-time.Millisecond)); lastKey != dateKeys[0] {
		dateKeys = append(dateKeys, lastKey)
	}

	var times []AvailableTime
	for _, dateKey := range dateKeys {
		day, ok := store.Slots[dateKey]
		if !ok {
			continue
		}
		for _, entry := range day[bucketKey] {
			start := entry.StartAt()
			if start.Before(dayStartUTC) || !start.Before(dayEndUTC) {
				continue
			}
			if entry.ProviderCount <= 0 {
				continue
			}
			times = append(times, AvailableTime{
				LocalTime:     utils.LocalTimeLabel(start, loc),
				ProviderCount: entry.ProviderCount,
				TimestampMs:   entry.TimestampMs,
			})
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].TimestampMs < times[j].TimestampMs })

	result := &DayAvailabilityResult{
		Date:          localDate,
		BucketMinutes: bucket,
		Times:         times,
	}
	if len(times) == 0 {
		result.Message = fmt.Sprintf("Fully booked on %s for a %d-minute appointment", localDate, requestedMinutes)
	}
	return result, nil
}

// CheckDayAvailability resolves the business's timezone and store snapshot
// and runs the day query against it.
func (e *DefaultAvailabilityEngine) CheckDayAvailability(ctx context.Context, businessID, localDate string, requestedMinutes int) (*DayAvailabilityResult, error) {
	biz, err := e.Businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, NewConfigurationError("business %s not found: %v", businessID, err)
	}
	loc, err := time.LoadLocation(biz.Timezone)
	if err != nil {
		return nil, NewConfigurationError("business %s has invalid timezone %q", businessID, biz.Timezone)
	}

	if _, err := utils.ParseLocalDate(localDate, loc); err != nil {
		return nil, NewInputValidationError("invalid date %q: %v", localDate, err)
	}
	if localDate < utils.LocalDateKey(time.Now(), loc) {
		return nil, NewInputValidationError("date %s is in the past for business %s", localDate, businessID)
	}

	store, err := e.Availability.GetByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability for business %s: %w", businessID, err)
	}
	if store == nil {
		return nil, NewConfigurationError("availability not configured for business %s", businessID)
	}

	return QueryDayAvailability(store, loc, localDate, e.Buckets, requestedMinutes)
}
