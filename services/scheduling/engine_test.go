package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	availabilityRepo "skedy/database/repository/availability"
	"skedy/models"
	"skedy/utils"
)

var testBuckets = []int{30, 45, 60, 90, 120, 150, 180, 240, 300, 360}

type fakeBusinessRepo struct {
	businesses map[string]models.Business
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, businessID string) (*models.Business, error) {
	b, ok := f.businesses[businessID]
	if !ok {
		return nil, errors.New("business not found")
	}
	return &b, nil
}

func (f *fakeBusinessRepo) ListAtLocalMidnight(_ context.Context, utcInstant time.Time, tolerance time.Duration) ([]models.Business, error) {
	var out []models.Business
	for _, b := range f.businesses {
		if b.Status != "active" {
			continue
		}
		loc, err := time.LoadLocation(b.Timezone)
		if err != nil {
			continue
		}
		if utils.IsLocalMidnight(utcInstant, loc, tolerance) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeProviderRepo struct {
	providers map[string][]models.Provider
}

func (f *fakeProviderRepo) ListByBusiness(_ context.Context, businessID string) ([]models.Provider, error) {
	return f.providers[businessID], nil
}

type fakeCalendarRepo struct {
	settings map[string][]models.CalendarSettings
}

func (f *fakeCalendarRepo) GetByProvider(_ context.Context, providerID string) (*models.CalendarSettings, error) {
	for _, list := range f.settings {
		for _, s := range list {
			if s.ProviderID == providerID {
				return &s, nil
			}
		}
	}
	return nil, errors.New("calendar settings not found")
}

func (f *fakeCalendarRepo) ListByBusiness(_ context.Context, businessID string) ([]models.CalendarSettings, error) {
	return f.settings[businessID], nil
}

type fakeBookingRepo struct {
	bookings []models.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID {
			return &b, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (f *fakeBookingRepo) ListConfirmedInRange(_ context.Context, businessID string, providerIDs []string, from, to time.Time) ([]models.Booking, error) {
	inRoster := make(map[string]bool, len(providerIDs))
	for _, id := range providerIDs {
		inRoster[id] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.BusinessID != businessID || b.Status != "confirmed" || !inRoster[b.ProviderID] {
			continue
		}
		if utils.Overlaps(b.StartAt, b.EndAt, from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeAvailabilityRepo struct {
	stores        map[string]*models.AvailabilityStore
	forceConflict bool
	saves         int
}

func (f *fakeAvailabilityRepo) GetByBusiness(_ context.Context, businessID string) (*models.AvailabilityStore, error) {
	return f.stores[businessID], nil
}

func (f *fakeAvailabilityRepo) Save(_ context.Context, store *models.AvailabilityStore) error {
	if f.forceConflict && store.Version > 0 {
		return availabilityRepo.ErrVersionConflict
	}
	store.Version++
	store.UpdatedAt = time.Now().UTC()
	f.stores[store.BusinessID] = store
	f.saves++
	return nil
}

// testFixture wires an engine around in-memory repositories.
type testFixture struct {
	engine       *DefaultAvailabilityEngine
	availability *fakeAvailabilityRepo
	bookings     *fakeBookingRepo
}

func newFixture(biz models.Business, providers []models.Provider, settings []models.CalendarSettings) *testFixture {
	availability := &fakeAvailabilityRepo{stores: make(map[string]*models.AvailabilityStore)}
	bookings := &fakeBookingRepo{}
	return &testFixture{
		engine: &DefaultAvailabilityEngine{
			Businesses:   &fakeBusinessRepo{businesses: map[string]models.Business{biz.ID: biz}},
			Providers:    &fakeProviderRepo{providers: map[string][]models.Provider{biz.ID: providers}},
			Calendars:    &fakeCalendarRepo{settings: map[string][]models.CalendarSettings{biz.ID: settings}},
			Bookings:     bookings,
			Availability: availability,
			Buckets:      testBuckets,
			HorizonDays:  30,
		},
		availability: availability,
		bookings:     bookings,
	}
}

func window(start, end string) *models.HoursWindow {
	return &models.HoursWindow{Start: start, End: end}
}

func sameHoursOn(days []string, start, end string) models.WeeklyHours {
	h := make(models.WeeklyHours, len(days))
	for _, d := range days {
		h[d] = window(start, end)
	}
	return h
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
var allDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// melbourneFixture models the two-provider roster: provider A works weekdays
// 07:00-17:00, provider B works Mon-Thu 07:00-17:00 plus weekend mornings.
func melbourneFixture() *testFixture {
	biz := models.Business{ID: "biz-melb", Name: "Swift Removals", Timezone: "Australia/Melbourne", Status: "active"}
	hoursB := sameHoursOn([]string{"monday", "tuesday", "wednesday", "thursday"}, "07:00", "17:00")
	hoursB["saturday"] = window("07:00", "13:00")
	hoursB["sunday"] = window("07:00", "13:00")
	return newFixture(biz,
		[]models.Provider{
			{ID: "prov-a", BusinessID: biz.ID, Name: "A", Status: "active"},
			{ID: "prov-b", BusinessID: biz.ID, Name: "B", Status: "active"},
		},
		[]models.CalendarSettings{
			{ProviderID: "prov-a", BusinessID: biz.ID, Hours: sameHoursOn(weekdays, "07:00", "17:00")},
			{ProviderID: "prov-b", BusinessID: biz.ID, Hours: hoursB},
		})
}

// scenarioFixture is a tighter roster used by the booking scenarios: both
// providers work Thursdays 07:00-13:00.
func scenarioFixture() *testFixture {
	biz := models.Business{ID: "biz-scenario", Name: "Apex Plumbing", Timezone: "Australia/Melbourne", Status: "active"}
	hours := sameHoursOn([]string{"thursday"}, "07:00", "13:00")
	return newFixture(biz,
		[]models.Provider{
			{ID: "prov-a", BusinessID: biz.ID, Name: "A", Status: "active"},
			{ID: "prov-b", BusinessID: biz.ID, Name: "B", Status: "active"},
		},
		[]models.CalendarSettings{
			{ProviderID: "prov-a", BusinessID: biz.ID, Hours: hours},
			{ProviderID: "prov-b", BusinessID: biz.ID, Hours: hours},
		})
}

func melbourneBooking(t *testing.T, id, providerID, localDate, startClock, endClock string) *models.Booking {
	t.Helper()
	melbourne := mustLoadLoc(t, "Australia/Melbourne")
	start, err := utils.LocalClockToUTC(localDate, startClock, melbourne)
	if err != nil {
		t.Fatalf("booking start: %v", err)
	}
	end, err := utils.LocalClockToUTC(localDate, endClock, melbourne)
	if err != nil {
		t.Fatalf("booking end: %v", err)
	}
	return &models.Booking{
		ID: id, BusinessID: "biz-scenario", ProviderID: providerID, UserID: "user-1",
		StartAt: start, EndAt: end, Status: "confirmed",
	}
}

func checkTimes(t *testing.T, result *DayAvailabilityResult, want map[string]int) {
	t.Helper()
	if len(result.Times) != len(want) {
		t.Fatalf("expected %d start times, got %d: %+v", len(want), len(result.Times), result.Times)
	}
	for _, at := range result.Times {
		count, ok := want[at.LocalTime]
		if !ok {
			t.Errorf("unexpected start time %s", at.LocalTime)
			continue
		}
		if at.ProviderCount != count {
			t.Errorf("start %s: expected %d providers, got %d", at.LocalTime, count, at.ProviderCount)
		}
	}
}

func TestGenerateAndQueryFullCapacity(t *testing.T) {
	fx := melbourneFixture()
	ctx := context.Background()

	// 2031-01-16 is a Thursday.
	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-melb", "2031-01-16", 7); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}

	// Thursday: both providers, 07:00-17:00, hourly starts 07:00 through 16:00.
	result, err := fx.engine.CheckDayAvailability(ctx, "biz-melb", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if result.BucketMinutes != 60 {
		t.Fatalf("expected 60-minute bucket, got %d", result.BucketMinutes)
	}
	if len(result.Times) != 10 {
		t.Fatalf("expected 10 start times on Thursday, got %d", len(result.Times))
	}
	for _, at := range result.Times {
		if at.ProviderCount != 2 {
			t.Errorf("start %s: expected 2 providers, got %d", at.LocalTime, at.ProviderCount)
		}
	}
	if result.Times[0].LocalTime != "07:00" || result.Times[9].LocalTime != "16:00" {
		t.Fatalf("unexpected start range %s..%s", result.Times[0].LocalTime, result.Times[9].LocalTime)
	}

	// Friday only provider A works.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-melb", "2031-01-17", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if len(result.Times) != 10 {
		t.Fatalf("expected 10 start times on Friday, got %d", len(result.Times))
	}
	for _, at := range result.Times {
		if at.ProviderCount != 1 {
			t.Errorf("Friday start %s: expected 1 provider, got %d", at.LocalTime, at.ProviderCount)
		}
	}

	// Saturday only provider B works, morning shift.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-melb", "2031-01-18", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 1, "08:00": 1, "09:00": 1, "10:00": 1, "11:00": 1, "12:00": 1})

	// A 140-minute request rounds up to the 150-minute bucket; the last
	// Thursday start fitting 150 minutes before 17:00 is 14:00.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-melb", "2031-01-16", 140)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if result.BucketMinutes != 150 {
		t.Fatalf("expected 150-minute bucket for a 140-minute request, got %d", result.BucketMinutes)
	}
	if len(result.Times) != 8 || result.Times[7].LocalTime != "14:00" {
		t.Fatalf("unexpected 150-minute starts: %+v", result.Times)
	}
}

func TestBookingsReduceCapacity(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}

	// At full capacity the 07:00-13:00 window fits four 150-minute starts.
	result, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 150)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 2, "09:00": 2, "10:00": 2})

	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "09:00", "12:00")); err != nil {
		t.Fatalf("ApplyBooking bk-1: %v", err)
	}
	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-2", "prov-b", "2031-01-16", "09:00", "12:30")); err != nil {
		t.Fatalf("ApplyBooking bk-2: %v", err)
	}

	// Both providers are busy 09:00-12:00; provider A frees up at 12:00.
	// The mid-morning hours span UTC midnight, so the decrements land on two
	// different UTC date keys.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 2, "12:00": 1})

	// Every 150-minute start now reaches into one of the bookings.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 150)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if len(result.Times) != 0 {
		t.Fatalf("expected no 150-minute starts left, got %+v", result.Times)
	}
	if result.Message == "" {
		t.Fatalf("expected a fully-booked message")
	}
}

func TestFullyBookedDay(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	for i, b := range []*models.Booking{
		melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "07:00", "12:00"),
		melbourneBooking(t, "bk-2", "prov-b", "2031-01-16", "07:00", "10:00"),
		melbourneBooking(t, "bk-3", "prov-b", "2031-01-16", "11:00", "13:00"),
	} {
		if err := fx.engine.ApplyBooking(ctx, b); err != nil {
			t.Fatalf("ApplyBooking %d: %v", i, err)
		}
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 120)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if len(result.Times) != 0 {
		t.Fatalf("expected the day fully booked for 120 minutes, got %+v", result.Times)
	}
	if result.Message != "Fully booked on 2031-01-16 for a 120-minute appointment" {
		t.Fatalf("unexpected message %q", result.Message)
	}

	// One-hour gaps remain: A is free from 12:00, B between its two jobs.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"10:00": 1, "12:00": 1})
}

func TestBookingDecrementsEveryBucket(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "10:00", "12:30")); err != nil {
		t.Fatalf("ApplyBooking: %v", err)
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 2, "09:00": 2, "10:00": 1, "11:00": 1, "12:00": 1})

	// An 08:00 150-minute start reaches into the booking at 10:00.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 150)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 1, "09:00": 1, "10:00": 1})
}

func TestApplyBookingIdempotent(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	booking := melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "09:00", "12:00")
	if err := fx.engine.ApplyBooking(ctx, booking); err != nil {
		t.Fatalf("first ApplyBooking: %v", err)
	}
	savesAfterFirst := fx.availability.saves
	if err := fx.engine.ApplyBooking(ctx, booking); err != nil {
		t.Fatalf("second ApplyBooking: %v", err)
	}
	if fx.availability.saves != savesAfterFirst {
		t.Fatalf("expected re-application to skip the save, got %d extra saves", fx.availability.saves-savesAfterFirst)
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	// A single decrement: provider B still covers the booked hours.
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 2, "09:00": 1, "10:00": 1, "11:00": 1, "12:00": 2})
}

func TestRegenerationPreservesConsumedCapacity(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "09:00", "12:00")); err != nil {
		t.Fatalf("ApplyBooking: %v", err)
	}
	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"07:00": 2, "08:00": 2, "09:00": 1, "10:00": 1, "11:00": 1, "12:00": 2})
}

func TestErrorTaxonomy(t *testing.T) {
	fx := scenarioFixture()
	ctx := context.Background()

	if _, err := fx.engine.CheckDayAvailability(ctx, "no-such-business", "2031-01-16", 60); !HasCode(err, CodeConfiguration) {
		t.Fatalf("unknown business: expected configuration error, got %v", err)
	}
	if _, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 60); !HasCode(err, CodeConfiguration) {
		t.Fatalf("never generated: expected configuration error, got %v", err)
	}
	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "09:00", "12:00")); !HasCode(err, CodeConfiguration) {
		t.Fatalf("apply before onboarding: expected configuration error, got %v", err)
	}

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-scenario", "2031-01-16", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	if _, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 400); !HasCode(err, CodeNoBucket) {
		t.Fatalf("oversized duration: expected no-bucket error, got %v", err)
	}
	if _, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2020-01-16", 60); !HasCode(err, CodeInputValidation) {
		t.Fatalf("past date: expected input validation error, got %v", err)
	}
	if _, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "16/01/2031", 60); !HasCode(err, CodeInputValidation) {
		t.Fatalf("malformed date: expected input validation error, got %v", err)
	}
	if _, err := fx.engine.CheckDayAvailability(ctx, "biz-scenario", "2031-01-16", 0); !HasCode(err, CodeInputValidation) {
		t.Fatalf("zero duration: expected input validation error, got %v", err)
	}

	booking := melbourneBooking(t, "", "prov-a", "2031-01-16", "09:00", "12:00")
	if err := fx.engine.ApplyBooking(ctx, booking); !HasCode(err, CodeInputValidation) {
		t.Fatalf("booking without id: expected input validation error, got %v", err)
	}
	booking = melbourneBooking(t, "bk-1", "prov-a", "2031-01-16", "12:00", "12:00")
	if err := fx.engine.ApplyBooking(ctx, booking); !HasCode(err, CodeInputValidation) {
		t.Fatalf("zero-length booking: expected input validation error, got %v", err)
	}

	emptyFx := newFixture(
		models.Business{ID: "biz-empty", Timezone: "Australia/Melbourne", Status: "active"},
		nil, nil)
	if err := emptyFx.engine.GenerateInitialHorizon(ctx, "biz-empty", "2031-01-16", 1); !HasCode(err, CodeConfiguration) {
		t.Fatalf("no providers: expected configuration error, got %v", err)
	}

	fx.availability.forceConflict = true
	if err := fx.engine.ApplyBooking(ctx, melbourneBooking(t, "bk-9", "prov-b", "2031-01-16", "07:00", "08:00")); !HasCode(err, CodeConcurrency) {
		t.Fatalf("lost save race: expected concurrency anomaly, got %v", err)
	}
}

func TestOvernightShiftSpansUTCDateKeys(t *testing.T) {
	biz := models.Business{ID: "biz-london", Name: "Night Couriers", Timezone: "Europe/London", Status: "active"}
	fx := newFixture(biz,
		[]models.Provider{{ID: "prov-n", BusinessID: biz.ID, Name: "N", Status: "active"}},
		[]models.CalendarSettings{{ProviderID: "prov-n", BusinessID: biz.ID, Hours: sameHoursOn([]string{"friday"}, "20:00", "04:00")}})
	ctx := context.Background()

	// 2031-01-17 is a Friday; London is on UTC in January, so the shift's
	// eight hourly starts land four on each of two UTC date keys.
	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-london", "2031-01-17", 1); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	store := fx.availability.stores["biz-london"]
	if store == nil {
		t.Fatalf("expected a persisted store")
	}
	fridayKey := store.Slots["2031-01-17"][models.BucketKey(60)]
	saturdayKey := store.Slots["2031-01-18"][models.BucketKey(60)]
	if len(fridayKey) != 4 || len(saturdayKey) != 4 {
		t.Fatalf("expected 4+4 hourly starts across the UTC boundary, got %d+%d", len(fridayKey), len(saturdayKey))
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-london", "2031-01-17", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"20:00": 1, "21:00": 1, "22:00": 1, "23:00": 1})

	// The small hours belong to Saturday's local date.
	result, err = fx.engine.CheckDayAvailability(ctx, "biz-london", "2031-01-18", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	checkTimes(t, result, map[string]int{"00:00": 1, "01:00": 1, "02:00": 1, "03:00": 1})
}

func TestRollover(t *testing.T) {
	biz := models.Business{ID: "biz-roll", Name: "Roll Co", Timezone: "Australia/Melbourne", Status: "active"}
	fx := newFixture(biz,
		[]models.Provider{
			{ID: "prov-a", BusinessID: biz.ID, Name: "A", Status: "active"},
			{ID: "prov-b", BusinessID: biz.ID, Name: "B", Status: "active"},
		},
		[]models.CalendarSettings{
			{ProviderID: "prov-a", BusinessID: biz.ID, Hours: sameHoursOn(allDays, "07:00", "17:00")},
			{ProviderID: "prov-b", BusinessID: biz.ID, Hours: sameHoursOn(allDays, "07:00", "17:00")},
		})
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-roll", "2031-01-16", 3); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	// Consume capacity on local Jan 16 and Jan 17 before rolling over; the
	// Jan 16 booking's date key will leave the horizon at the sweep.
	stale := melbourneBooking(t, "bk-0", "prov-b", "2031-01-16", "07:00", "08:00")
	stale.BusinessID = "biz-roll"
	if err := fx.engine.ApplyBooking(ctx, stale); err != nil {
		t.Fatalf("ApplyBooking stale: %v", err)
	}
	booking := melbourneBooking(t, "bk-1", "prov-a", "2031-01-17", "08:00", "09:00")
	booking.BusinessID = "biz-roll"
	if err := fx.engine.ApplyBooking(ctx, booking); err != nil {
		t.Fatalf("ApplyBooking: %v", err)
	}

	// 13:00 UTC on Jan 16 is local midnight opening Jan 17 in Melbourne.
	sweep := time.Date(2031, 1, 16, 13, 0, 0, 0, time.UTC)
	if err := fx.engine.OrchestrateRollover(ctx, sweep); err != nil {
		t.Fatalf("OrchestrateRollover: %v", err)
	}

	store := fx.availability.stores["biz-roll"]
	if _, ok := store.Slots["2031-01-15"]; ok {
		t.Fatalf("expected the fully past UTC date key to be pruned")
	}
	// The Jan 16 UTC key still holds local Jan 17 morning slots and must
	// survive the prune unchanged.
	if _, ok := store.Slots["2031-01-16"]; !ok {
		t.Fatalf("expected the boundary UTC date key to survive")
	}
	// Horizon extended to 30 local days from Jan 17: local Feb 15 mornings
	// land on the Feb 14 UTC key.
	if _, ok := store.Slots["2031-02-14"]; !ok {
		t.Fatalf("expected the horizon to extend, keys: %v", store.DateKeys())
	}
	// The guard for the booking whose last date key was pruned goes with
	// it; the one still inside the horizon survives.
	if store.HasApplied("bk-0") {
		t.Fatalf("expected the stale applied-booking guard to be pruned")
	}
	if !store.HasApplied("bk-1") {
		t.Fatalf("expected the current applied-booking guard to survive")
	}

	result, err := fx.engine.CheckDayAvailability(ctx, "biz-roll", "2031-01-17", 60)
	if err != nil {
		t.Fatalf("CheckDayAvailability: %v", err)
	}
	if len(result.Times) != 10 {
		t.Fatalf("expected 10 start times, got %d", len(result.Times))
	}
	for _, at := range result.Times {
		want := 2
		if at.LocalTime == "08:00" {
			want = 1
		}
		if at.ProviderCount != want {
			t.Errorf("start %s: expected %d providers after rollover, got %d", at.LocalTime, want, at.ProviderCount)
		}
	}
}

func TestRolloverSkipsBusinessesAwayFromMidnight(t *testing.T) {
	biz := models.Business{ID: "biz-london", Name: "Night Couriers", Timezone: "Europe/London", Status: "active"}
	fx := newFixture(biz,
		[]models.Provider{{ID: "prov-n", BusinessID: biz.ID, Name: "N", Status: "active"}},
		[]models.CalendarSettings{{ProviderID: "prov-n", BusinessID: biz.ID, Hours: sameHoursOn(allDays, "09:00", "17:00")}})
	ctx := context.Background()

	if err := fx.engine.GenerateInitialHorizon(ctx, "biz-london", "2031-01-16", 2); err != nil {
		t.Fatalf("GenerateInitialHorizon: %v", err)
	}
	savesBefore := fx.availability.saves

	// 13:00 UTC is early afternoon in London, nowhere near local midnight.
	if err := fx.engine.OrchestrateRollover(ctx, time.Date(2031, 1, 16, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("OrchestrateRollover: %v", err)
	}
	if fx.availability.saves != savesBefore {
		t.Fatalf("expected no writes for a business away from local midnight")
	}
}
