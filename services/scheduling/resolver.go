package scheduling

import (
	"time"

	"skedy/models"
	"skedy/utils"
)

// ProviderWindow is one provider's UTC working window for one business-local
// calendar date.
type ProviderWindow struct {
	ProviderID string
	UTCStart   time.Time
	UTCEnd     time.Time
}

// ResolveProviderWindow converts a provider's configured working hours for
// the weekday of localDate into UTC instants anchored to that local date.
// An overnight window (end < start) anchors its end to the next local
// calendar day before conversion. Returns nil when the provider does not
// work that weekday.
func ResolveProviderWindow(providerID string, hours models.WeeklyHours, localDate string, loc *time.Location) (*ProviderWindow, error) {
	day, err := utils.ParseLocalDate(localDate, loc)
	if err != nil {
		return nil, NewInputValidationError("invalid local date %q: %v", localDate, err)
	}

	window := hours.WindowFor(day.Weekday())
	if window == nil {
		return nil, nil
	}
	if window.Start == window.End {
		return nil, NewConfigurationError("provider %s has a zero-length window on %s", providerID, day.Weekday())
	}

	utcStart, err := utils.LocalClockToUTC(localDate, window.Start, loc)
	if err != nil {
		return nil, NewConfigurationError("provider %s has invalid start %q: %v", providerID, window.Start, err)
	}

	// "HH:MM" strings are zero-padded, so lexicographic order is clock order.
	endDate := localDate
	if window.End < window.Start {
		endDate, err = utils.NextLocalDate(localDate, loc)
		if err != nil {
			return nil, NewInputValidationError("invalid local date %q: %v", localDate, err)
		}
	}
	utcEnd, err := utils.LocalClockToUTC(endDate, window.End, loc)
	if err != nil {
		return nil, NewConfigurationError("provider %s has invalid end %q: %v", providerID, window.End, err)
	}

	return &ProviderWindow{ProviderID: providerID, UTCStart: utcStart, UTCEnd: utcEnd}, nil
}
