package models

import (
	"sort"
	"strconv"
	"time"
)

// SlotEntry is one bookable start time for one duration bucket on one UTC
// date: the business-local time of day, the number of distinct providers who
// could still start a booking of that bucket's length at this instant, and
// the absolute UTC start time in epoch milliseconds.
type SlotEntry struct {
	LocalTime     string `bson:"localTime" json:"localTime"` // "HH:MM" business-local
	ProviderCount int    `bson:"providerCount" json:"providerCount"`
	TimestampMs   int64  `bson:"timestampMs" json:"timestampMs"`
}

// StartAt returns the entry's absolute start instant.
func (e SlotEntry) StartAt() time.Time {
	return time.UnixMilli(e.TimestampMs).UTC()
}

// DaySlots holds one UTC date's availability, keyed by duration bucket
// (minutes rendered as a string, e.g. "60"), each an ordered-by-time list.
type DaySlots map[string][]SlotEntry

// AvailabilityStore is the single source of truth for one business's
// bookable capacity. Keyed first by UTC calendar date ("2006-01-02"), then
// by duration bucket. It is a value object: every engine operation takes a
// snapshot in and hands a mutated snapshot back, and the caller persists it.
type AvailabilityStore struct {
	BusinessID string              `bson:"business_id" json:"business_id"`
	Slots      map[string]DaySlots `bson:"slots" json:"slots"`
	// AppliedBookings guards against a booking being applied twice,
	// which would double-decrement provider counts.
	AppliedBookings []AppliedBooking `bson:"applied_bookings,omitempty" json:"applied_bookings,omitempty"`
	Version         int              `bson:"version" json:"version"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updated_at"`
}

// AppliedBooking is one re-application guard entry: the booking id and the
// last UTC date key the booking's window touches, so the entry can be
// dropped once that date key leaves the rolling horizon.
type AppliedBooking struct {
	ID      string `bson:"id" json:"id"`
	DateKey string `bson:"date_key" json:"date_key"`
}

// NewAvailabilityStore returns an empty store for a freshly onboarded business.
func NewAvailabilityStore(businessID string) *AvailabilityStore {
	return &AvailabilityStore{
		BusinessID: businessID,
		Slots:      make(map[string]DaySlots),
	}
}

// HasApplied reports whether the given booking has already been applied.
func (s *AvailabilityStore) HasApplied(bookingID string) bool {
	for _, ab := range s.AppliedBookings {
		if ab.ID == bookingID {
			return true
		}
	}
	return false
}

// MarkApplied records a booking id and its last touched UTC date key so
// re-application can be detected while the booking's dates remain stored.
func (s *AvailabilityStore) MarkApplied(bookingID, dateKey string) {
	s.AppliedBookings = append(s.AppliedBookings, AppliedBooking{ID: bookingID, DateKey: dateKey})
}

// PruneApplied drops guard entries whose date key satisfies prunable and
// returns how many were removed. Once every date key a booking touched is
// gone from the store, re-applying it cannot decrement anything, so the
// guard entry is dead weight.
func (s *AvailabilityStore) PruneApplied(prunable func(dateKey string) bool) int {
	if len(s.AppliedBookings) == 0 {
		return 0
	}
	kept := s.AppliedBookings[:0]
	removed := 0
	for _, ab := range s.AppliedBookings {
		if prunable(ab.DateKey) {
			removed++
			continue
		}
		kept = append(kept, ab)
	}
	s.AppliedBookings = kept
	return removed
}

// DateKeys returns the store's UTC date keys in ascending order.
func (s *AvailabilityStore) DateKeys() []string {
	keys := make([]string, 0, len(s.Slots))
	for k := range s.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BucketKey renders a duration bucket's minutes as a store key.
func BucketKey(minutes int) string {
	return strconv.Itoa(minutes)
}

// SmallestBucketAtLeast returns the smallest configured bucket that can
// contain the requested duration. Buckets must be sorted ascending. The
// second return value is false when no bucket is large enough.
func SmallestBucketAtLeast(buckets []int, minutes int) (int, bool) {
	for _, b := range buckets {
		if b >= minutes {
			return b, true
		}
	}
	return 0, false
}
