package scheduling

import (
	"sort"
	"time"

	"skedy/models"
	"skedy/utils"
)

// slotCandidates walks a provider's UTC window on a fixed hourly cadence and
// returns every start whose [t, t+duration) fits inside the window. The
// cadence stays hourly regardless of bucket length so providers' schedules
// line up on the hour for display. The last candidate may exactly touch the
// window end.
func slotCandidates(window ProviderWindow, bucketMinutes int) []time.Time {
	var starts []time.Time
	for t := window.UTCStart; !utils.AddMinutes(t, bucketMinutes).After(window.UTCEnd); t = t.Add(time.Hour) {
		starts = append(starts, t)
	}
	return starts
}

// collidesWithBooking reports whether a candidate [start, start+duration)
// overlaps any of the provider's confirmed bookings.
func collidesWithBooking(start time.Time, bucketMinutes int, bookings []models.Booking) bool {
	end := utils.AddMinutes(start, bucketMinutes)
	for _, b := range bookings {
		if utils.Overlaps(start, end, b.StartAt, b.EndAt) {
			return true
		}
	}
	return false
}

// providerCandidates generates one provider's surviving candidates for one
// bucket: the hourly walk over the window minus starts colliding with that
// provider's existing bookings.
func providerCandidates(window ProviderWindow, bucketMinutes int, bookings []models.Booking) []time.Time {
	candidates := slotCandidates(window, bucketMinutes)
	if len(bookings) == 0 {
		return candidates
	}
	var surviving []time.Time
	for _, t := range candidates {
		if !collidesWithBooking(t, bucketMinutes, bookings) {
			surviving = append(surviving, t)
		}
	}
	return surviving
}

// aggregateCandidates merges all providers' surviving candidates into slot
// entries: identical start instants from different providers collapse into a
// single entry whose count is the number of providers free at that instant.
// Entries come back ordered ascending by start instant.
func aggregateCandidates(byProvider map[string][]time.Time, loc *time.Location) []models.SlotEntry {
	counts := make(map[int64]int)
	for _, candidates := range byProvider {
		for _, t := range candidates {
			counts[t.UnixMilli()]++
		}
	}

	entries := make([]models.SlotEntry, 0, len(counts))
	for ms, count := range counts {
		entries = append(entries, models.SlotEntry{
			LocalTime:     utils.LocalTimeLabel(time.UnixMilli(ms), loc),
			ProviderCount: count,
			TimestampMs:   ms,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TimestampMs < entries[j].TimestampMs
	})
	return entries
}

// mergeEntries folds freshly generated entries into an existing bucket list,
// combining counts for identical instants and restoring time order. A UTC
// date key can receive entries from two adjacent business-local days, so the
// per-key list is normalized after each local day's contribution.
func mergeEntries(existing, incoming []models.SlotEntry) []models.SlotEntry {
	if len(existing) == 0 {
		return incoming
	}
	byInstant := make(map[int64]models.SlotEntry, len(existing)+len(incoming))
	for _, e := range existing {
		byInstant[e.TimestampMs] = e
	}
	for _, e := range incoming {
		if prev, ok := byInstant[e.TimestampMs]; ok {
			prev.ProviderCount += e.ProviderCount
			byInstant[e.TimestampMs] = prev
		} else {
			byInstant[e.TimestampMs] = e
		}
	}
	merged := make([]models.SlotEntry, 0, len(byInstant))
	for _, e := range byInstant {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].TimestampMs < merged[j].TimestampMs
	})
	return merged
}
