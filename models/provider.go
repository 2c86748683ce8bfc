package models

import (
	"strings"
	"time"
)

// Provider is a field worker contributing capacity to a business's calendar.
type Provider struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"business_id" json:"business_id"`
	Name       string `bson:"name" json:"name"`
	Status     string `bson:"status" json:"status"`
}

// HoursWindow is one weekday's working window in business-local 24h time.
// End < Start means an overnight shift ending on the next calendar day.
type HoursWindow struct {
	Start string `bson:"start" json:"start"` // "HH:MM"
	End   string `bson:"end" json:"end"`     // "HH:MM"
}

// WeeklyHours maps lowercase weekday names ("monday".."sunday") to a working
// window. A missing or nil entry means the provider does not work that day.
type WeeklyHours map[string]*HoursWindow

// WindowFor looks up the window configured for the given weekday.
func (w WeeklyHours) WindowFor(day time.Weekday) *HoursWindow {
	if w == nil {
		return nil
	}
	return w[strings.ToLower(day.String())]
}

// CalendarSettings holds one provider's weekly working-hours configuration.
type CalendarSettings struct {
	ProviderID string      `bson:"provider_id" json:"provider_id"`
	BusinessID string      `bson:"business_id" json:"business_id"`
	Hours      WeeklyHours `bson:"hours" json:"hours"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
}
