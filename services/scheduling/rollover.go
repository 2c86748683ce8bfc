package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skedy/models"
	"skedy/utils"

	"go.uber.org/zap"
)

// rolloverTolerance matches the intended hourly sweep cadence: a business is
// picked up when the sweep instant falls within the hour after its local
// midnight, so each business rolls over exactly once per local day.
const rolloverTolerance = time.Hour

// OrchestrateRollover runs the horizon maintenance sweep for the given UTC
// instant: every business whose local clock is just past midnight gets its
// past date keys pruned and its horizon extended to HorizonDays local days.
// Businesses are processed concurrently and fail-isolated; one business's
// failure never aborts the others.
func (e *DefaultAvailabilityEngine) OrchestrateRollover(ctx context.Context, now time.Time) error {
	logger := utils.GetLogger()

	businesses, err := e.Businesses.ListAtLocalMidnight(ctx, now, rolloverTolerance)
	if err != nil {
		return fmt.Errorf("failed to list businesses at local midnight: %w", err)
	}
	if len(businesses) == 0 {
		return nil
	}
	logger.Info("rollover sweep starting",
		zap.Time("utcInstant", now), zap.Int("businesses", len(businesses)))

	var wg sync.WaitGroup
	for _, biz := range businesses {
		wg.Add(1)
		go func(biz models.Business) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Error("rollover panicked for business",
						zap.String("businessID", biz.ID), zap.Any("panic", r))
				}
			}()
			if err := e.rolloverBusiness(ctx, biz, now); err != nil {
				logger.Error("rollover failed for business",
					zap.String("businessID", biz.ID), zap.Error(err))
			}
		}(biz)
	}
	wg.Wait()
	return nil
}

// rolloverBusiness prunes date keys wholly before the business-local "today"
// boundary and generates any missing local days up to the rolling horizon.
// Existing date keys are never overwritten: regenerating them at full
// capacity would silently restore slots already consumed by real bookings.
func (e *DefaultAvailabilityEngine) rolloverBusiness(ctx context.Context, biz models.Business, now time.Time) error {
	logger := utils.GetLogger()

	loc, err := time.LoadLocation(biz.Timezone)
	if err != nil {
		return NewConfigurationError("business %s has invalid timezone %q", biz.ID, biz.Timezone)
	}
	todayLocal := utils.LocalDateKey(now, loc)

	days := e.HorizonDays
	if days <= 0 {
		days = 30
	}
	fresh, err := e.freshHorizon(ctx, &biz, loc, todayLocal, days)
	if err != nil {
		return err
	}

	lock := e.locks.forBusiness(biz.ID)
	lock.Lock()
	defer lock.Unlock()

	store, err := e.Availability.GetByBusiness(ctx, biz.ID)
	if err != nil {
		return fmt.Errorf("failed to load availability for business %s: %w", biz.ID, err)
	}
	if store == nil {
		logger.Debug("business not onboarded into availability, skipping rollover",
			zap.String("businessID", biz.ID))
		return nil
	}

	// A UTC date key is prunable only when its whole UTC day ends at or
	// before local midnight; a key holding today's early local hours under
	// yesterday's UTC date must survive.
	boundary, err := utils.ParseLocalDate(todayLocal, loc)
	if err != nil {
		return err
	}
	boundaryUTC := boundary.UTC()
	prunable := func(dateKey string) bool {
		keyStart, err := time.Parse(utils.DateKeyLayout, dateKey)
		if err != nil {
			return false
		}
		return !keyStart.AddDate(0, 0, 1).After(boundaryUTC)
	}
	pruned := 0
	for _, dateKey := range store.DateKeys() {
		if prunable(dateKey) {
			delete(store.Slots, dateKey)
			pruned++
		}
	}
	// Guard entries for bookings whose date keys just left the horizon can
	// no longer decrement anything; drop them with the keys.
	prunedApplied := store.PruneApplied(prunable)

	extended := 0
	for dateKey, daySlots := range fresh {
		if _, exists := store.Slots[dateKey]; !exists {
			store.Slots[dateKey] = daySlots
			extended++
		}
	}

	if pruned == 0 && extended == 0 && prunedApplied == 0 {
		return nil
	}
	if err := e.Availability.Save(ctx, store); err != nil {
		return e.mapSaveError(biz.ID, err)
	}
	e.invalidate(ctx, biz.ID)

	logger.Info("rolled over availability horizon",
		zap.String("businessID", biz.ID),
		zap.String("todayLocal", todayLocal),
		zap.Int("prunedDateKeys", pruned),
		zap.Int("prunedAppliedGuards", prunedApplied),
		zap.Int("generatedDateKeys", extended))
	return nil
}
