package models

import (
	"testing"
	"time"
)

func TestSmallestBucketAtLeast(t *testing.T) {
	buckets := []int{30, 45, 60, 90, 120, 150, 180, 240, 300, 360}
	cases := []struct {
		minutes int
		want    int
		ok      bool
	}{
		{15, 30, true},
		{30, 30, true},
		{31, 45, true},
		{60, 60, true},
		{100, 120, true},
		{360, 360, true},
		{361, 0, false},
	}
	for _, tc := range cases {
		got, ok := SmallestBucketAtLeast(buckets, tc.minutes)
		if got != tc.want || ok != tc.ok {
			t.Errorf("SmallestBucketAtLeast(%d): expected (%d, %v), got (%d, %v)", tc.minutes, tc.want, tc.ok, got, ok)
		}
	}
}

func TestStoreAppliedBookings(t *testing.T) {
	store := NewAvailabilityStore("biz-1")
	if store.HasApplied("bk-1") {
		t.Fatalf("fresh store should have no applied bookings")
	}
	store.MarkApplied("bk-1", "2031-01-15")
	if !store.HasApplied("bk-1") {
		t.Fatalf("expected bk-1 to be recorded")
	}
	if store.HasApplied("bk-2") {
		t.Fatalf("bk-2 was never applied")
	}
}

func TestPruneApplied(t *testing.T) {
	store := NewAvailabilityStore("biz-1")
	store.MarkApplied("bk-old", "2031-01-14")
	store.MarkApplied("bk-current", "2031-01-16")

	removed := store.PruneApplied(func(dateKey string) bool { return dateKey < "2031-01-16" })
	if removed != 1 {
		t.Fatalf("expected 1 guard entry pruned, got %d", removed)
	}
	if store.HasApplied("bk-old") {
		t.Fatalf("expected bk-old guard to be dropped")
	}
	if !store.HasApplied("bk-current") {
		t.Fatalf("expected bk-current guard to survive")
	}
	if store.PruneApplied(func(string) bool { return false }) != 0 {
		t.Fatalf("expected nothing further to prune")
	}
}

func TestWeeklyHoursWindowFor(t *testing.T) {
	hours := WeeklyHours{"monday": &HoursWindow{Start: "09:00", End: "17:00"}}
	if w := hours.WindowFor(time.Monday); w == nil || w.Start != "09:00" {
		t.Fatalf("expected monday window, got %+v", w)
	}
	if w := hours.WindowFor(time.Tuesday); w != nil {
		t.Fatalf("expected no tuesday window, got %+v", w)
	}
	var nilHours WeeklyHours
	if w := nilHours.WindowFor(time.Monday); w != nil {
		t.Fatalf("nil hours should yield no window")
	}
}

func TestSlotEntryStartAt(t *testing.T) {
	instant := time.Date(2031, 1, 15, 20, 0, 0, 0, time.UTC)
	entry := SlotEntry{LocalTime: "07:00", ProviderCount: 2, TimestampMs: instant.UnixMilli()}
	if !entry.StartAt().Equal(instant) {
		t.Fatalf("expected %s, got %s", instant, entry.StartAt())
	}
}
